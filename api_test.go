package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MixinNetwork/certledger/ledger"
	"github.com/MixinNetwork/certledger/store"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testOwner    = "7000f7a2-36a6-4f24-85f3-7e0785e3ed16"
	testManager  = "b67086ea-9fd6-4ee6-b0c4-6ed4850b7a16"
	testAccountA = "e9e5b807-fa8b-455a-8dfa-b189d28310ff"
	testAccountB = "36bb0b0e-8764-4b3a-a16a-27f55a1f5e35"
	testBaseURI  = "https://certs.example.com/tokens/"
)

func testBuildServer(t *testing.T) *Server {
	ctx := context.Background()
	bs, err := store.OpenBadger(ctx, t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { bs.Close() })

	conf := &ledger.Configuration{
		App: ledger.AppConfiguration{Listen: ":7001"},
		Genesis: ledger.GenesisConfiguration{
			Owner:     testOwner,
			Name:      "Certification Tokens",
			Symbol:    "CERT",
			BaseURI:   testBaseURI,
			SupplyCap: 1000000,
		},
	}
	ld, err := ledger.BuildLedger(ctx, bs, conf)
	require.NoError(t, err)
	return NewServer(ld, conf)
}

func testRequest(t *testing.T, r *gin.Engine, method, path string, body interface{}) (int, map[string]interface{}) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestAPICollection(t *testing.T) {
	r := testBuildServer(t).router()

	code, resp := testRequest(t, r, "GET", "/owner", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, testOwner, resp["owner"])

	code, resp = testRequest(t, r, "GET", "/collection", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Certification Tokens", resp["name"])
	assert.Equal(t, "CERT", resp["symbol"])
	assert.Equal(t, testBaseURI, resp["base_uri"])
	assert.EqualValues(t, 0, resp["total_supply"])
	assert.EqualValues(t, 1000000, resp["supply_cap"])
}

func TestAPIManagers(t *testing.T) {
	r := testBuildServer(t).router()

	code, resp := testRequest(t, r, "POST", "/managers/grant", map[string]interface{}{
		"caller": testOwner, "account": testManager,
	})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, resp["is_manager"])

	code, resp = testRequest(t, r, "GET", "/managers/"+testManager, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, resp["is_manager"])

	code, resp = testRequest(t, r, "GET", "/managers", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, resp["managers"], 1)

	code, resp = testRequest(t, r, "POST", "/managers/grant", map[string]interface{}{
		"caller": testManager, "account": testAccountA,
	})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "unauthorized", resp["error"])

	code, resp = testRequest(t, r, "POST", "/managers/revoke", map[string]interface{}{
		"caller": testOwner, "account": testOwner,
	})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "protected account", resp["error"])

	code, resp = testRequest(t, r, "POST", "/managers/revoke", map[string]interface{}{
		"caller": testOwner, "account": testAccountA,
	})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "not a manager", resp["error"])

	code, _ = testRequest(t, r, "POST", "/managers/grant", map[string]interface{}{
		"caller": testOwner, "account": "not-a-uuid",
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, resp = testRequest(t, r, "POST", "/managers/revoke", map[string]interface{}{
		"caller": testOwner, "account": testManager,
	})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, resp["is_manager"])
}

func TestAPIMintAndTransfer(t *testing.T) {
	r := testBuildServer(t).router()

	code, resp := testRequest(t, r, "POST", "/tokens/mint", map[string]interface{}{
		"caller": testOwner, "to": testAccountA, "name": "Welding Certificate",
	})
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, resp["token_id"])

	code, resp = testRequest(t, r, "POST", "/tokens/mint-batch", map[string]interface{}{
		"caller": testOwner, "to": testAccountA, "amount": 3,
	})
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 2, resp["first_token_id"])
	assert.EqualValues(t, 4, resp["last_token_id"])

	code, resp = testRequest(t, r, "POST", "/tokens/mint-batch", map[string]interface{}{
		"caller": testOwner, "to": testAccountA, "amount": 0,
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid amount", resp["error"])

	code, resp = testRequest(t, r, "POST", "/tokens/mint", map[string]interface{}{
		"caller": testAccountA, "to": testAccountB,
	})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "unauthorized", resp["error"])

	code, resp = testRequest(t, r, "POST", "/tokens/transfer", map[string]interface{}{
		"caller": testOwner, "to": testAccountB, "token_id": 1,
	})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, testAccountB, resp["owner"])

	code, resp = testRequest(t, r, "POST", "/tokens/transfer", map[string]interface{}{
		"caller": testAccountB, "to": testAccountA, "token_id": 1,
	})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "unauthorized", resp["error"])

	code, resp = testRequest(t, r, "POST", "/tokens/transfer", map[string]interface{}{
		"caller": testOwner, "to": testAccountB, "token_id": 99,
	})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "unknown token", resp["error"])

	code, resp = testRequest(t, r, "GET", "/accounts/"+testAccountA+"/balance", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 3, resp["balance"])
}

func TestAPITokenReads(t *testing.T) {
	r := testBuildServer(t).router()

	code, resp := testRequest(t, r, "POST", "/tokens/mint", map[string]interface{}{
		"caller": testOwner, "to": testAccountA, "name": "Welding Certificate",
	})
	require.Equal(t, http.StatusOK, code)

	code, resp = testRequest(t, r, "GET", "/tokens/1", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, testAccountA, resp["owner"])
	assert.Equal(t, "Welding Certificate", resp["name"])

	code, resp = testRequest(t, r, "GET", "/tokens/1/owner", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, testAccountA, resp["owner"])

	code, resp = testRequest(t, r, "GET", "/tokens/1/uri", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, testBaseURI+"1.json", resp["uri"])

	code, _ = testRequest(t, r, "GET", "/tokens/99", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = testRequest(t, r, "GET", "/tokens/abc", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, resp = testRequest(t, r, "POST", "/collection/base-uri", map[string]interface{}{
		"caller": testOwner, "uri": "",
	})
	assert.Equal(t, http.StatusOK, code)
	code, resp = testRequest(t, r, "GET", "/tokens/1/uri", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "", resp["uri"])
}

func TestAPIApprovalsDisabled(t *testing.T) {
	r := testBuildServer(t).router()

	code, resp := testRequest(t, r, "POST", "/tokens/approve", map[string]interface{}{
		"caller": testOwner, "operator": testAccountA, "token_id": 1,
	})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "operation disabled", resp["error"])

	code, resp = testRequest(t, r, "POST", "/tokens/approve-all", map[string]interface{}{
		"caller": testOwner, "operator": testAccountA, "approved": true,
	})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "operation disabled", resp["error"])

	// a malformed body gets the same refusal
	code, resp = testRequest(t, r, "POST", "/tokens/approve", map[string]interface{}{
		"token_id": "garbage",
	})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "operation disabled", resp["error"])
}

func TestAPIEvents(t *testing.T) {
	r := testBuildServer(t).router()

	code, resp := testRequest(t, r, "GET", "/events", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, resp["events"], 0)

	code, _ = testRequest(t, r, "POST", "/managers/grant", map[string]interface{}{
		"caller": testOwner, "account": testManager,
	})
	require.Equal(t, http.StatusOK, code)
	code, _ = testRequest(t, r, "POST", "/tokens/mint", map[string]interface{}{
		"caller": testManager, "to": testAccountA,
	})
	require.Equal(t, http.StatusOK, code)

	code, resp = testRequest(t, r, "GET", "/events", nil)
	assert.Equal(t, http.StatusOK, code)
	events := resp["events"].([]interface{})
	require.Len(t, events, 2)
	grant := events[0].(map[string]interface{})
	assert.Equal(t, "GRANT", grant["action"])
	assert.Equal(t, testManager, grant["account"])
	mint := events[1].(map[string]interface{})
	assert.Equal(t, "MINT", mint["action"])
	assert.EqualValues(t, 1, mint["first_token_id"])
}

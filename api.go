package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/MixinNetwork/certledger/ledger"
	"github.com/MixinNetwork/mixin/logger"
	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

type Server struct {
	ledger *ledger.Ledger
	listen string
}

func NewServer(ld *ledger.Ledger, conf *ledger.Configuration) *Server {
	return &Server{
		ledger: ld,
		listen: conf.App.Listen,
	}
}

func (s *Server) Run(ctx context.Context) {
	err := s.router().Run(s.listen)
	logger.Printf("Server.Run(%s) => %v\n", s.listen, err)
}

func (s *Server) router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/owner", s.getOwner)
	r.GET("/collection", s.getCollection)
	r.POST("/collection/base-uri", s.setBaseURI)
	r.GET("/managers", s.listManagers)
	r.GET("/managers/:id", s.getManager)
	r.POST("/managers/grant", s.grantManager)
	r.POST("/managers/revoke", s.revokeManager)
	r.POST("/tokens/mint", s.mintToken)
	r.POST("/tokens/mint-batch", s.mintTokenBatch)
	r.POST("/tokens/transfer", s.transferToken)
	r.POST("/tokens/approve", s.approveToken)
	r.POST("/tokens/approve-all", s.approveAll)
	r.GET("/tokens/:id", s.getToken)
	r.GET("/tokens/:id/owner", s.getTokenOwner)
	r.GET("/tokens/:id/uri", s.getTokenURI)
	r.GET("/accounts/:id/balance", s.getBalance)
	r.GET("/events", s.listEvents)
	return r
}

type accountRequest struct {
	Caller  string `json:"caller"`
	Account string `json:"account"`
}

type mintRequest struct {
	Caller      string `json:"caller"`
	To          string `json:"to"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Logo        string `json:"logo"`
}

type mintBatchRequest struct {
	Caller      string `json:"caller"`
	To          string `json:"to"`
	Amount      int    `json:"amount"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Logo        string `json:"logo"`
}

type transferRequest struct {
	Caller  string `json:"caller"`
	To      string `json:"to"`
	TokenId uint64 `json:"token_id"`
}

type approveRequest struct {
	Caller   string `json:"caller"`
	Operator string `json:"operator"`
	TokenId  uint64 `json:"token_id"`
}

type approveAllRequest struct {
	Caller   string `json:"caller"`
	Operator string `json:"operator"`
	Approved bool   `json:"approved"`
}

type baseURIRequest struct {
	Caller string `json:"caller"`
	URI    string `json:"uri"`
}

type tokenView struct {
	Id          uint64    `json:"id"`
	Owner       string    `json:"owner"`
	Name        string    `json:"name,omitempty"`
	Description string    `json:"description,omitempty"`
	Logo        string    `json:"logo,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type managerView struct {
	Account   string    `json:"account"`
	GrantedBy string    `json:"granted_by"`
	CreatedAt time.Time `json:"created_at"`
}

type collectionView struct {
	Owner       string `json:"owner"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Description string `json:"description,omitempty"`
	Logo        string `json:"logo,omitempty"`
	SupplyCap   uint64 `json:"supply_cap"`
	BaseURI     string `json:"base_uri"`
	TotalSupply uint64 `json:"total_supply"`
}

type eventView struct {
	Sequence     uint64    `json:"sequence"`
	Action       string    `json:"action"`
	Actor        string    `json:"actor"`
	Account      string    `json:"account,omitempty"`
	FirstTokenId uint64    `json:"first_token_id,omitempty"`
	LastTokenId  uint64    `json:"last_token_id,omitempty"`
	OldURI       string    `json:"old_uri,omitempty"`
	NewURI       string    `json:"new_uri,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (s *Server) getOwner(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"owner": s.ledger.Owner()})
}

func (s *Server) getCollection(c *gin.Context) {
	col := s.ledger.GetCollection()
	c.JSON(http.StatusOK, collectionView{
		Owner:       col.Owner,
		Name:        col.Name,
		Symbol:      col.Symbol,
		Description: col.Description,
		Logo:        col.Logo,
		SupplyCap:   col.SupplyCap,
		BaseURI:     col.BaseURI,
		TotalSupply: col.Circulation,
	})
}

func (s *Server) setBaseURI(c *gin.Context) {
	var req baseURIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		renderBadRequest(c, err.Error())
		return
	}
	if !validAccountId(req.Caller) {
		renderBadRequest(c, "invalid caller "+req.Caller)
		return
	}
	if err := s.ledger.SetBaseURI(req.Caller, req.URI); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"base_uri": req.URI})
}

func (s *Server) listManagers(c *gin.Context) {
	mgrs := s.ledger.ListManagers()
	views := make([]managerView, 0, len(mgrs))
	for _, mgr := range mgrs {
		views = append(views, managerView{
			Account:   mgr.Account,
			GrantedBy: mgr.GrantedBy,
			CreatedAt: mgr.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"managers": views})
}

func (s *Server) getManager(c *gin.Context) {
	account := c.Param("id")
	if !validAccountId(account) {
		renderBadRequest(c, "invalid account "+account)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"account":    account,
		"is_manager": s.ledger.IsManager(account),
	})
}

func (s *Server) grantManager(c *gin.Context) {
	var req accountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		renderBadRequest(c, err.Error())
		return
	}
	if !validAccountId(req.Caller) || !validAccountId(req.Account) {
		renderBadRequest(c, "invalid account id")
		return
	}
	if err := s.ledger.GrantManager(req.Caller, req.Account); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": req.Account, "is_manager": true})
}

func (s *Server) revokeManager(c *gin.Context) {
	var req accountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		renderBadRequest(c, err.Error())
		return
	}
	if !validAccountId(req.Caller) || !validAccountId(req.Account) {
		renderBadRequest(c, "invalid account id")
		return
	}
	if err := s.ledger.RevokeManager(req.Caller, req.Account); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": req.Account, "is_manager": false})
}

func (s *Server) mintToken(c *gin.Context) {
	var req mintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		renderBadRequest(c, err.Error())
		return
	}
	if !validAccountId(req.Caller) || !validAccountId(req.To) {
		renderBadRequest(c, "invalid account id")
		return
	}
	meta := ledger.TokenMeta{
		Name:        req.Name,
		Description: req.Description,
		Logo:        req.Logo,
	}
	id, err := s.ledger.Mint(req.Caller, req.To, meta)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token_id": id, "owner": req.To})
}

func (s *Server) mintTokenBatch(c *gin.Context) {
	var req mintBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		renderBadRequest(c, err.Error())
		return
	}
	if !validAccountId(req.Caller) || !validAccountId(req.To) {
		renderBadRequest(c, "invalid account id")
		return
	}
	meta := ledger.TokenMeta{
		Name:        req.Name,
		Description: req.Description,
		Logo:        req.Logo,
	}
	first, last, err := s.ledger.MintBatch(req.Caller, req.To, req.Amount, meta)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"first_token_id": first,
		"last_token_id":  last,
		"owner":          req.To,
	})
}

func (s *Server) transferToken(c *gin.Context) {
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		renderBadRequest(c, err.Error())
		return
	}
	if !validAccountId(req.Caller) || !validAccountId(req.To) {
		renderBadRequest(c, "invalid account id")
		return
	}
	if err := s.ledger.Transfer(req.Caller, req.To, req.TokenId); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token_id": req.TokenId, "owner": req.To})
}

// approvals fail regardless of the request body, a malformed body
// gets the same response as a well formed one
func (s *Server) approveToken(c *gin.Context) {
	var req approveRequest
	c.ShouldBindJSON(&req)
	renderError(c, s.ledger.Approve(req.Caller, req.Operator, req.TokenId))
}

func (s *Server) approveAll(c *gin.Context) {
	var req approveAllRequest
	c.ShouldBindJSON(&req)
	renderError(c, s.ledger.SetApprovalForAll(req.Caller, req.Operator, req.Approved))
}

func (s *Server) getToken(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		renderBadRequest(c, "invalid token id "+c.Param("id"))
		return
	}
	token, err := s.ledger.GetToken(id)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenView{
		Id:          token.Id,
		Owner:       token.Owner,
		Name:        token.Name,
		Description: token.Description,
		Logo:        token.Logo,
		CreatedAt:   token.CreatedAt,
		UpdatedAt:   token.UpdatedAt,
	})
}

func (s *Server) getTokenOwner(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		renderBadRequest(c, "invalid token id "+c.Param("id"))
		return
	}
	owner, err := s.ledger.OwnerOf(id)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token_id": id, "owner": owner})
}

func (s *Server) getTokenURI(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		renderBadRequest(c, "invalid token id "+c.Param("id"))
		return
	}
	uri, err := s.ledger.TokenURI(id)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token_id": id, "uri": uri})
}

func (s *Server) getBalance(c *gin.Context) {
	account := c.Param("id")
	if !validAccountId(account) {
		renderBadRequest(c, "invalid account "+account)
		return
	}
	balance, err := s.ledger.BalanceOf(account)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": account, "balance": balance})
}

func (s *Server) listEvents(c *gin.Context) {
	since, _ := strconv.ParseUint(c.DefaultQuery("since", "0"), 10, 64)
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit < 1 {
		limit = 100
	}
	events, err := s.ledger.ListEvents(since, limit)
	if err != nil {
		renderError(c, err)
		return
	}
	views := make([]eventView, 0, len(events))
	for _, ev := range events {
		views = append(views, eventView{
			Sequence:     ev.Sequence,
			Action:       ev.ActionName(),
			Actor:        ev.Actor,
			Account:      ev.Account,
			FirstTokenId: ev.FirstTokenId,
			LastTokenId:  ev.LastTokenId,
			OldURI:       ev.OldURI,
			NewURI:       ev.NewURI,
			CreatedAt:    ev.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"events": views})
}

func validAccountId(account string) bool {
	id, _ := uuid.FromString(account)
	return id.String() != uuid.Nil.String()
}

func renderBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrUnauthorized),
		errors.Is(err, ledger.ErrProtectedAccount),
		errors.Is(err, ledger.ErrOperationDisabled):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrNotAManager),
		errors.Is(err, ledger.ErrUnknownToken):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

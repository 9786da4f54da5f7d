package main

import (
	"context"

	"github.com/MixinNetwork/certledger/ledger"
	"github.com/MixinNetwork/mixin/logger"
)

// AuditWorker writes one log line per ledger event, the journal itself
// stays in the store.
type AuditWorker struct{}

func (aw *AuditWorker) ProcessEvent(ctx context.Context, ev *ledger.Event) {
	logger.Verbosef("AuditWorker.ProcessEvent(%d, %s)\n", ev.Sequence, ev.ActionName())

	switch ev.Action {
	case ledger.ActionGrantManager:
		logger.Printf("GrantManager event: account=%s, grantedBy=%s\n", ev.Account, ev.Actor)
	case ledger.ActionRevokeManager:
		logger.Printf("RevokeManager event: account=%s, revokedBy=%s\n", ev.Account, ev.Actor)
	case ledger.ActionMintTokens:
		logger.Printf("Mint event: firstTokenId=%d, lastTokenId=%d, to=%s, by=%s\n", ev.FirstTokenId, ev.LastTokenId, ev.Account, ev.Actor)
	case ledger.ActionTransferToken:
		logger.Printf("Transfer event: tokenId=%d, to=%s, by=%s\n", ev.FirstTokenId, ev.Account, ev.Actor)
	case ledger.ActionSetBaseURI:
		logger.Printf("SetBaseURI event: oldBaseURI=%s, newBaseURI=%s\n", ev.OldURI, ev.NewURI)
	default:
		panic(ev.Action)
	}
}

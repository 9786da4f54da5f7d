package ledger

import "time"

const (
	ActionGrantManager  = 10
	ActionRevokeManager = 11
	ActionMintTokens    = 12
	ActionTransferToken = 13
	ActionSetBaseURI    = 14
)

type Event struct {
	Sequence     uint64
	Action       int
	Actor        string
	Account      string
	FirstTokenId uint64
	LastTokenId  uint64
	OldURI       string
	NewURI       string
	CreatedAt    time.Time
}

func (ev *Event) ActionName() string {
	switch ev.Action {
	case ActionGrantManager:
		return "GRANT"
	case ActionRevokeManager:
		return "REVOKE"
	case ActionMintTokens:
		return "MINT"
	case ActionTransferToken:
		return "TRANSFER"
	case ActionSetBaseURI:
		return "SETBASEURI"
	}
	panic(ev.Action)
}

func (ld *Ledger) ListEvents(since uint64, limit int) ([]*Event, error) {
	ld.RLock()
	defer ld.RUnlock()

	return ld.store.ListEvents(since, limit)
}

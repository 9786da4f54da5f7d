package ledger

import (
	"context"
)

type Store interface {
	WriteProperty(key, val []byte) error
	ReadProperty(key []byte) ([]byte, error)

	ReadCollection() (*Collection, error)
	WriteCollection(col *Collection, ev *Event) error

	ReadManager(account string) (*Manager, error)
	ListManagers() ([]*Manager, error)
	WriteManager(mgr *Manager, ev *Event) error
	DeleteManager(account string, ev *Event) error

	AllocateTokens(tokens []*Token, ev *Event) (uint64, error)
	ReadToken(id uint64) (*Token, error)
	TransferToken(id uint64, to string, ev *Event) error
	CountTokensByOwner(owner string) (uint64, error)

	ListEvents(since uint64, limit int) ([]*Event, error)
}

type Worker interface {
	ProcessEvent(context.Context, *Event)
}

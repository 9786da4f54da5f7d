package ledger

import (
	"fmt"
	"time"
)

type Collection struct {
	Owner       string
	Name        string
	Symbol      string
	Description string
	Logo        string
	SupplyCap   uint64
	BaseURI     string
	Circulation uint64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ld *Ledger) SetBaseURI(caller, uri string) error {
	ld.Lock()
	defer ld.Unlock()

	if err := ld.guardManager(caller); err != nil {
		return err
	}

	col := *ld.collection
	ev := &Event{
		Action:    ActionSetBaseURI,
		Actor:     caller,
		OldURI:    col.BaseURI,
		NewURI:    uri,
		CreatedAt: ld.clock.Now(),
	}
	col.BaseURI = uri
	col.UpdatedAt = ev.CreatedAt
	err := ld.store.WriteCollection(&col, ev)
	if err != nil {
		return err
	}
	ld.collection = &col
	return nil
}

func (ld *Ledger) BaseURI() string {
	ld.RLock()
	defer ld.RUnlock()

	return ld.collection.BaseURI
}

func (ld *Ledger) TokenURI(id uint64) (string, error) {
	ld.RLock()
	defer ld.RUnlock()

	token, err := ld.store.ReadToken(id)
	if err != nil {
		return "", err
	}
	if token == nil {
		return "", ErrUnknownToken
	}
	// an unset base degrades every token to an empty locator
	if ld.collection.BaseURI == "" {
		return "", nil
	}
	return fmt.Sprintf("%s%d.json", ld.collection.BaseURI, id), nil
}

func (ld *Ledger) GetCollection() *Collection {
	ld.RLock()
	defer ld.RUnlock()

	col := *ld.collection
	return &col
}

func (ld *Ledger) TotalSupply() uint64 {
	ld.RLock()
	defer ld.RUnlock()

	return ld.collection.Circulation
}

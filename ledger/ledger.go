package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/gofrs/uuid"
)

type Ledger struct {
	sync.RWMutex
	store      Store
	clock      *Clock
	workers    []Worker
	owner      string
	collection *Collection
	managers   map[string]*Manager
}

func BuildLedger(ctx context.Context, store Store, conf *Configuration) (*Ledger, error) {
	cg := conf.Genesis
	if id, _ := uuid.FromString(cg.Owner); id.String() == uuid.Nil.String() {
		return nil, fmt.Errorf("invalid genesis owner %s", cg.Owner)
	}
	if cg.Name == "" || cg.Symbol == "" {
		return nil, fmt.Errorf("invalid collection identity %s %s", cg.Name, cg.Symbol)
	}

	clock, err := NewClock(store)
	if err != nil {
		return nil, err
	}

	col, err := store.ReadCollection()
	if err != nil {
		return nil, err
	}
	if col == nil {
		now := clock.Now()
		col = &Collection{
			Owner:       cg.Owner,
			Name:        cg.Name,
			Symbol:      cg.Symbol,
			Description: cg.Description,
			Logo:        cg.Logo,
			SupplyCap:   cg.SupplyCap,
			BaseURI:     cg.BaseURI,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		err = store.WriteCollection(col, nil)
		if err != nil {
			return nil, err
		}
	} else if col.Owner != cg.Owner {
		return nil, fmt.Errorf("genesis owner mismatch %s %s", col.Owner, cg.Owner)
	}

	ld := &Ledger{
		store:      store,
		clock:      clock,
		owner:      col.Owner,
		collection: col,
		managers:   make(map[string]*Manager),
	}
	mgrs, err := store.ListManagers()
	if err != nil {
		return nil, err
	}
	for _, mgr := range mgrs {
		ld.managers[mgr.Account] = mgr
	}
	return ld, nil
}

func (ld *Ledger) AddWorker(wkr Worker) {
	ld.workers = append(ld.workers, wkr)
}

// the owner is fixed at genesis and never changes
func (ld *Ledger) Owner() string {
	return ld.owner
}

func (ld *Ledger) guardOwner(caller string) error {
	if caller != ld.owner {
		return ErrUnauthorized
	}
	return nil
}

// the owner always passes the manager guard without a roster entry
func (ld *Ledger) guardManager(caller string) error {
	if caller == ld.owner {
		return nil
	}
	if ld.managers[caller] == nil {
		return ErrUnauthorized
	}
	return nil
}

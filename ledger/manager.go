package ledger

import (
	"sort"
	"time"
)

type Manager struct {
	Account   string
	GrantedBy string
	CreatedAt time.Time
}

func (ld *Ledger) GrantManager(caller, account string) error {
	ld.Lock()
	defer ld.Unlock()

	if err := ld.guardOwner(caller); err != nil {
		return err
	}
	// granting an account that already holds the role changes nothing
	if account == ld.owner || ld.managers[account] != nil {
		return nil
	}

	mgr := &Manager{
		Account:   account,
		GrantedBy: caller,
		CreatedAt: ld.clock.Now(),
	}
	ev := &Event{
		Action:    ActionGrantManager,
		Actor:     caller,
		Account:   account,
		CreatedAt: mgr.CreatedAt,
	}
	err := ld.store.WriteManager(mgr, ev)
	if err != nil {
		return err
	}
	ld.managers[account] = mgr
	return nil
}

func (ld *Ledger) RevokeManager(caller, account string) error {
	ld.Lock()
	defer ld.Unlock()

	if err := ld.guardOwner(caller); err != nil {
		return err
	}
	if account == ld.owner {
		return ErrProtectedAccount
	}
	if ld.managers[account] == nil {
		return ErrNotAManager
	}

	ev := &Event{
		Action:    ActionRevokeManager,
		Actor:     caller,
		Account:   account,
		CreatedAt: ld.clock.Now(),
	}
	err := ld.store.DeleteManager(account, ev)
	if err != nil {
		return err
	}
	delete(ld.managers, account)
	return nil
}

func (ld *Ledger) IsManager(account string) bool {
	ld.RLock()
	defer ld.RUnlock()

	if account == ld.owner {
		return true
	}
	return ld.managers[account] != nil
}

func (ld *Ledger) ListManagers() []*Manager {
	ld.RLock()
	defer ld.RUnlock()

	mgrs := make([]*Manager, 0, len(ld.managers))
	for _, mgr := range ld.managers {
		mgrs = append(mgrs, mgr)
	}
	sort.Slice(mgrs, func(i, j int) bool {
		return mgrs[i].CreatedAt.Before(mgrs[j].CreatedAt)
	})
	return mgrs
}

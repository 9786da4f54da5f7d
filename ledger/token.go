package ledger

import "time"

type Token struct {
	Id          uint64
	Owner       string
	Name        string
	Description string
	Logo        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type TokenMeta struct {
	Name        string
	Description string
	Logo        string
}

func (ld *Ledger) Mint(caller, to string, meta TokenMeta) (uint64, error) {
	first, _, err := ld.mintTokens(caller, to, 1, meta)
	return first, err
}

func (ld *Ledger) MintBatch(caller, to string, amount int, meta TokenMeta) (uint64, uint64, error) {
	return ld.mintTokens(caller, to, amount, meta)
}

func (ld *Ledger) mintTokens(caller, to string, amount int, meta TokenMeta) (uint64, uint64, error) {
	ld.Lock()
	defer ld.Unlock()

	if err := ld.guardManager(caller); err != nil {
		return 0, 0, err
	}
	if amount < 1 {
		return 0, 0, ErrInvalidAmount
	}

	now := ld.clock.Now()
	tokens := make([]*Token, amount)
	for i := range tokens {
		tokens[i] = &Token{
			Owner:       to,
			Name:        meta.Name,
			Description: meta.Description,
			Logo:        meta.Logo,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}
	ev := &Event{
		Action:    ActionMintTokens,
		Actor:     caller,
		Account:   to,
		CreatedAt: now,
	}
	// ids are assigned by the store inside a single transaction
	first, err := ld.store.AllocateTokens(tokens, ev)
	if err != nil {
		return 0, 0, err
	}
	last := first + uint64(amount) - 1
	ld.collection.Circulation = last
	ld.collection.UpdatedAt = now
	return first, last, nil
}

func (ld *Ledger) Transfer(caller, to string, id uint64) error {
	ld.Lock()
	defer ld.Unlock()

	if err := ld.guardManager(caller); err != nil {
		return err
	}
	old, err := ld.store.ReadToken(id)
	if err != nil {
		return err
	}
	if old == nil {
		return ErrUnknownToken
	}

	ev := &Event{
		Action:       ActionTransferToken,
		Actor:        caller,
		Account:      to,
		FirstTokenId: id,
		LastTokenId:  id,
		CreatedAt:    ld.clock.Now(),
	}
	return ld.store.TransferToken(id, to, ev)
}

func (ld *Ledger) GetToken(id uint64) (*Token, error) {
	ld.RLock()
	defer ld.RUnlock()

	token, err := ld.store.ReadToken(id)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, ErrUnknownToken
	}
	return token, nil
}

func (ld *Ledger) OwnerOf(id uint64) (string, error) {
	token, err := ld.GetToken(id)
	if err != nil {
		return "", err
	}
	return token.Owner, nil
}

func (ld *Ledger) BalanceOf(account string) (uint64, error) {
	ld.RLock()
	defer ld.RUnlock()

	return ld.store.CountTokensByOwner(account)
}

// operator approvals are permanently disabled, not gated
func (ld *Ledger) Approve(caller, operator string, id uint64) error {
	return ErrOperationDisabled
}

func (ld *Ledger) SetApprovalForAll(caller, operator string, approved bool) error {
	return ErrOperationDisabled
}

func (ld *Ledger) GetApproved(id uint64) (string, error) {
	return "", ErrOperationDisabled
}

func (ld *Ledger) IsApprovedForAll(owner, operator string) (bool, error) {
	return false, ErrOperationDisabled
}

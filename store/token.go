package store

import (
	"github.com/MixinNetwork/certledger/ledger"
	"github.com/MixinNetwork/mixin/common"
	"github.com/dgraph-io/badger/v3"
)

const (
	prefixTokenPayload = "CERT:TOKEN:PAYLOAD:"
	prefixTokenOwner   = "CERT:TOKEN:OWNER:"
)

// AllocateTokens assigns the next consecutive ids to tokens, with
// the collection circulation as the allocation cursor, all in one
// transaction together with the event record.
func (bs *BadgerStore) AllocateTokens(tokens []*ledger.Token, ev *ledger.Event) (uint64, error) {
	var first uint64
	err := bs.db.Update(func(txn *badger.Txn) error {
		col, err := bs.readCollection(txn)
		if err != nil {
			return err
		} else if col == nil {
			panic(prefixCollectionPayload)
		}

		first = col.Circulation + 1
		for i, token := range tokens {
			token.Id = first + uint64(i)
			old, err := bs.readToken(txn, token.Id)
			if err != nil {
				return err
			} else if old != nil {
				panic(token.Id)
			}
			err = bs.writeToken(txn, token)
			if err != nil {
				return err
			}
		}

		col.Circulation += uint64(len(tokens))
		col.UpdatedAt = ev.CreatedAt
		err = bs.writeCollection(txn, col)
		if err != nil {
			return err
		}

		ev.FirstTokenId = first
		ev.LastTokenId = col.Circulation
		return bs.appendEvent(txn, ev)
	})
	return first, err
}

func (bs *BadgerStore) TransferToken(id uint64, to string, ev *ledger.Event) error {
	return bs.db.Update(func(txn *badger.Txn) error {
		old, err := bs.readToken(txn, id)
		if err != nil {
			return err
		} else if old == nil {
			panic(id)
		}

		err = txn.Delete(buildTokenOwnerKey(old.Owner, id))
		if err != nil {
			return err
		}
		old.Owner = to
		old.UpdatedAt = ev.CreatedAt
		err = bs.writeToken(txn, old)
		if err != nil {
			return err
		}
		return bs.appendEvent(txn, ev)
	})
}

func (bs *BadgerStore) ReadToken(id uint64) (*ledger.Token, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	return bs.readToken(txn, id)
}

func (bs *BadgerStore) CountTokensByOwner(owner string) (uint64, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = buildTokenOwnerPrefix(owner)
	it := txn.NewIterator(opts)
	defer it.Close()

	var count uint64
	for it.Seek(opts.Prefix); it.Valid(); it.Next() {
		count += 1
	}
	return count, nil
}

func (bs *BadgerStore) writeToken(txn *badger.Txn, token *ledger.Token) error {
	key := append([]byte(prefixTokenPayload), idToBytes(token.Id)...)
	err := txn.Set(key, common.MsgpackMarshalPanic(token))
	if err != nil {
		return err
	}
	return txn.Set(buildTokenOwnerKey(token.Owner, token.Id), []byte{1})
}

func (bs *BadgerStore) readToken(txn *badger.Txn, id uint64) (*ledger.Token, error) {
	key := append([]byte(prefixTokenPayload), idToBytes(id)...)
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	var token ledger.Token
	err = common.MsgpackUnmarshal(val, &token)
	return &token, err
}

func buildTokenOwnerPrefix(owner string) []byte {
	key := append([]byte(prefixTokenOwner), owner...)
	return append(key, ':')
}

func buildTokenOwnerKey(owner string, id uint64) []byte {
	return append(buildTokenOwnerPrefix(owner), idToBytes(id)...)
}

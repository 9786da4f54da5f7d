package store

import (
	"github.com/MixinNetwork/certledger/ledger"
	"github.com/MixinNetwork/mixin/common"
	"github.com/dgraph-io/badger/v3"
)

const (
	prefixManagerPayload = "CERT:MANAGER:PAYLOAD:"
	prefixManagerQueue   = "CERT:MANAGER:QUEUE:"
)

func (bs *BadgerStore) WriteManager(mgr *ledger.Manager, ev *ledger.Event) error {
	return bs.db.Update(func(txn *badger.Txn) error {
		old, err := bs.readManager(txn, mgr.Account)
		if err != nil {
			return err
		} else if old != nil {
			panic(mgr.Account)
		}

		key := append([]byte(prefixManagerPayload), mgr.Account...)
		err = txn.Set(key, common.MsgpackMarshalPanic(mgr))
		if err != nil {
			return err
		}
		err = txn.Set(buildManagerQueueKey(mgr), []byte{1})
		if err != nil {
			return err
		}
		return bs.appendEvent(txn, ev)
	})
}

func (bs *BadgerStore) DeleteManager(account string, ev *ledger.Event) error {
	return bs.db.Update(func(txn *badger.Txn) error {
		old, err := bs.readManager(txn, account)
		if err != nil {
			return err
		} else if old == nil {
			panic(account)
		}

		err = txn.Delete(buildManagerQueueKey(old))
		if err != nil {
			return err
		}
		key := append([]byte(prefixManagerPayload), account...)
		err = txn.Delete(key)
		if err != nil {
			return err
		}
		return bs.appendEvent(txn, ev)
	})
}

func (bs *BadgerStore) ReadManager(account string) (*ledger.Manager, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	return bs.readManager(txn, account)
}

func (bs *BadgerStore) ListManagers() ([]*ledger.Manager, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = []byte(prefixManagerQueue)
	it := txn.NewIterator(opts)
	defer it.Close()

	var mgrs []*ledger.Manager
	for it.Seek(opts.Prefix); it.Valid(); it.Next() {
		key := it.Item().Key()
		account := string(key[len(opts.Prefix)+8:])
		mgr, err := bs.readManager(txn, account)
		if err != nil {
			return nil, err
		}
		mgrs = append(mgrs, mgr)
	}
	return mgrs, nil
}

func (bs *BadgerStore) readManager(txn *badger.Txn, account string) (*ledger.Manager, error) {
	key := append([]byte(prefixManagerPayload), account...)
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
	var mgr ledger.Manager
	err = common.MsgpackUnmarshal(val, &mgr)
	return &mgr, err
}

func buildManagerQueueKey(mgr *ledger.Manager) []byte {
	buf := tsToBytes(mgr.CreatedAt)
	key := append([]byte(prefixManagerQueue), buf...)
	return append(key, mgr.Account...)
}

package store

import (
	"github.com/MixinNetwork/certledger/ledger"
	"github.com/MixinNetwork/mixin/common"
	"github.com/dgraph-io/badger/v3"
)

const prefixCollectionPayload = "CERT:COLLECTION:PAYLOAD"

func (bs *BadgerStore) WriteCollection(col *ledger.Collection, ev *ledger.Event) error {
	return bs.db.Update(func(txn *badger.Txn) error {
		err := bs.writeCollection(txn, col)
		if err != nil || ev == nil {
			return err
		}
		return bs.appendEvent(txn, ev)
	})
}

func (bs *BadgerStore) ReadCollection() (*ledger.Collection, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	return bs.readCollection(txn)
}

func (bs *BadgerStore) writeCollection(txn *badger.Txn, col *ledger.Collection) error {
	key := []byte(prefixCollectionPayload)
	val := common.MsgpackMarshalPanic(col)
	return txn.Set(key, val)
}

func (bs *BadgerStore) readCollection(txn *badger.Txn) (*ledger.Collection, error) {
	item, err := txn.Get([]byte(prefixCollectionPayload))
	if err == badger.ErrKeyNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	var col ledger.Collection
	err = common.MsgpackUnmarshal(val, &col)
	return &col, err
}

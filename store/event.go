package store

import (
	"github.com/MixinNetwork/certledger/ledger"
	"github.com/MixinNetwork/mixin/common"
	"github.com/dgraph-io/badger/v3"
)

const (
	prefixEventPayload = "CERT:EVENT:PAYLOAD:"
	eventSequenceKey   = "CERT:EVENT:SEQUENCE"
)

// appendEvent must run in the same transaction as the mutation it
// records, the sequence is dense and never reused.
func (bs *BadgerStore) appendEvent(txn *badger.Txn, ev *ledger.Event) error {
	seq, err := bs.readEventSequence(txn)
	if err != nil {
		return err
	}
	ev.Sequence = seq + 1

	err = txn.Set([]byte(eventSequenceKey), idToBytes(ev.Sequence))
	if err != nil {
		return err
	}
	key := append([]byte(prefixEventPayload), idToBytes(ev.Sequence)...)
	return txn.Set(key, common.MsgpackMarshalPanic(ev))
}

func (bs *BadgerStore) ListEvents(since uint64, limit int) ([]*ledger.Event, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefixEventPayload)
	it := txn.NewIterator(opts)
	defer it.Close()

	start := append([]byte(prefixEventPayload), idToBytes(since+1)...)
	var events []*ledger.Event
	for it.Seek(start); it.Valid(); it.Next() {
		val, err := it.Item().ValueCopy(nil)
		if err != nil {
			return nil, err
		}
		var ev ledger.Event
		err = common.MsgpackUnmarshal(val, &ev)
		if err != nil {
			return nil, err
		}
		events = append(events, &ev)
		if len(events) == limit {
			break
		}
	}
	return events, nil
}

func (bs *BadgerStore) readEventSequence(txn *badger.Txn) (uint64, error) {
	item, err := txn.Get([]byte(eventSequenceKey))
	if err == badger.ErrKeyNotFound {
		return 0, nil
	} else if err != nil {
		return 0, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return 0, err
	}
	return bytesToId(val), nil
}

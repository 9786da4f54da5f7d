package ledger

import (
	"context"
	"encoding/binary"
	"time"
)

const eventsDispatchKey = "events-dispatch-checkpoint"

func (ld *Ledger) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			break
		}
		ld.dispatchEvents(ctx, 100)
		time.Sleep(time.Second)
	}
}

func (ld *Ledger) dispatchEvents(ctx context.Context, batch int) {
	for {
		checkpoint, err := ld.readEventsDispatchCheckpoint(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			time.Sleep(3 * time.Second)
			continue
		}
		events, err := ld.store.ListEvents(checkpoint, batch)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			time.Sleep(3 * time.Second)
			continue
		}

		for _, ev := range events {
			for _, wkr := range ld.workers {
				wkr.ProcessEvent(ctx, ev)
			}
			checkpoint = ev.Sequence
		}

		ld.writeEventsDispatchCheckpoint(ctx, checkpoint)
		if len(events) < batch/2 {
			break
		}
	}
}

func (ld *Ledger) readEventsDispatchCheckpoint(ctx context.Context) (uint64, error) {
	key := []byte(eventsDispatchKey)
	val, err := ld.store.ReadProperty(key)
	if err != nil || len(val) == 0 {
		return 0, err
	}
	return binary.BigEndian.Uint64(val), nil
}

func (ld *Ledger) writeEventsDispatchCheckpoint(ctx context.Context, ckpt uint64) error {
	val := make([]byte, 8)
	key := []byte(eventsDispatchKey)
	binary.BigEndian.PutUint64(val, ckpt)
	return ld.store.WriteProperty(key, val)
}

package store

import (
	"encoding/binary"
	"time"
)

func tsToBytes(ts time.Time) []byte {
	buf := make([]byte, 8)
	d := ts.UnixNano()
	binary.BigEndian.PutUint64(buf, uint64(d))
	return buf
}

func idToBytes(id uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, id)
	return buf
}

func bytesToId(buf []byte) uint64 {
	return binary.BigEndian.Uint64(buf)
}

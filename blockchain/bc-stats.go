package blockchain

import (
	"bytes"
	"encoding/gob"

	"github.com/emberchain/ember-node/adb"
	"github.com/emberchain/ember-node/util"

	"github.com/pkg/errors"
)

type Stats struct {
	TopHash   util.Hash
	TopHeight uint64
}

func (s *Stats) Serialize() []byte {
	var buf bytes.Buffer

	err := gob.NewEncoder(&buf).Encode(s)
	if err != nil {
		Log.Fatal(err)
	}
	return buf.Bytes()
}

func DeserializeStats(d []byte) (*Stats, error) {
	s := Stats{}

	err := gob.NewDecoder(bytes.NewReader(d)).Decode(&s)
	if err != nil {
		return nil, errors.Wrap(err, "decode stats")
	}
	return &s, nil
}

func (bc *Blockchain) GetStats(txn adb.Txn) (*Stats, error) {
	d := txn.Get(bc.Index.Info, []byte("stats"))
	if len(d) == 0 {
		return nil, errors.New("stats are empty")
	}
	return DeserializeStats(d)
}

// Blockchain MUST be locked before calling this
func (bc *Blockchain) SetStats(txn adb.Txn, s *Stats) error {
	return txn.Put(bc.Index.Info, []byte("stats"), s.Serialize())
}

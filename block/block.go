package block

import (
	"strconv"

	"github.com/emberchain/ember-node/binary"
	"github.com/emberchain/ember-node/config"
	"github.com/emberchain/ember-node/util"

	"github.com/pkg/errors"
	"github.com/zeebo/blake3"
)

// Header is the part of a block the checkpoint logic and the chain index care about. Transactions and
// proofs are validated elsewhere.
type Header struct {
	Version    uint8     `json:"version"`
	Height     uint64    `json:"height"`
	Timestamp  uint64    `json:"timestamp"` // UNIX seconds
	PrevHash   util.Hash `json:"prev_hash"`
	MerkleRoot util.Hash `json:"merkle_root"`
	Nonce      uint32    `json:"nonce"`
}

func (b Header) String() string {
	var x string

	x += "Block " + b.Hash().String() + "\n"
	x += "Version: " + strconv.FormatUint(uint64(b.Version), 10) + "\n"
	x += "Height: " + strconv.FormatUint(b.Height, 10) + "\n"
	x += "Timestamp: " + strconv.FormatUint(b.Timestamp, 10) + "\n"
	x += "Previous: " + b.PrevHash.String() + "\n"
	x += "Merkle root: " + b.MerkleRoot.String() + "\n"
	x += "Nonce: " + strconv.FormatUint(uint64(b.Nonce), 10) + "\n"

	return x
}

func (b Header) Hash() util.Hash {
	return blake3.Sum256(b.Serialize())
}

func (b Header) Serialize() []byte {
	s := binary.NewSer(make([]byte, 0, 80))

	s.AddUint8(b.Version)
	s.AddUvarint(b.Height)
	s.AddUvarint(b.Timestamp)
	s.AddFixedByteArray(b.PrevHash[:])
	s.AddFixedByteArray(b.MerkleRoot[:])
	s.AddUint32(b.Nonce)

	return s.Output()
}

func (b *Header) Deserialize(data []byte) error {
	d := binary.NewDes(data)

	b.Version = d.ReadUint8()
	b.Height = d.ReadUvarint()
	b.Timestamp = d.ReadUvarint()
	b.PrevHash = util.Hash(d.ReadFixedByteArray(32))
	b.MerkleRoot = util.Hash(d.ReadFixedByteArray(32))
	b.Nonce = d.ReadUint32()

	if d.Error() != nil {
		return d.Error()
	}
	if b.Height > config.MAX_HEIGHT {
		return errors.Errorf("height %d exceeds limit", b.Height)
	}
	if len(d.RemainingData()) != 0 {
		return errors.Errorf("%d trailing bytes in block header", len(d.RemainingData()))
	}
	return nil
}

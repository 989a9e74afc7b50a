package checkpoints

import (
	"iter"
	"slices"

	"github.com/emberchain/ember-node/binary"
	"github.com/emberchain/ember-node/util"

	"github.com/pkg/errors"
	"github.com/zeebo/blake3"
)

// serialization format version
const setVersion = 1

var ErrUnordered = errors.New("checkpoint heights must be strictly increasing")

type Checkpoint struct {
	Height uint64    `json:"height"`
	Hash   util.Hash `json:"hash"`
}

// Set is an immutable height -> hash mapping. Heights are kept in ascending order.
type Set struct {
	list     []Checkpoint
	byHeight map[uint64]util.Hash
}

// NewSet builds a set from checkpoints given in strictly increasing height order.
func NewSet(list ...Checkpoint) (*Set, error) {
	s := &Set{
		list:     slices.Clone(list),
		byHeight: make(map[uint64]util.Hash, len(list)),
	}
	for i, v := range s.list {
		if i > 0 && v.Height <= s.list[i-1].Height {
			return nil, errors.Wrapf(ErrUnordered, "height %d after %d", v.Height, s.list[i-1].Height)
		}
		s.byHeight[v.Height] = v.Hash
	}
	return s, nil
}

func mustNewSet(list ...Checkpoint) *Set {
	s, err := NewSet(list...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Set) Get(height uint64) (util.Hash, bool) {
	h, ok := s.byHeight[height]
	return h, ok
}

func (s *Set) Len() int {
	return len(s.list)
}

// Max returns the highest checkpointed height, 0 for an empty set.
func (s *Set) Max() uint64 {
	if len(s.list) == 0 {
		return 0
	}
	return s.list[len(s.list)-1].Height
}

// All yields the checkpoints in ascending height order.
func (s *Set) All() iter.Seq[Checkpoint] {
	return func(yield func(Checkpoint) bool) {
		for _, v := range s.list {
			if !yield(v) {
				return
			}
		}
	}
}

// Backward yields the checkpoints in descending height order.
func (s *Set) Backward() iter.Seq[Checkpoint] {
	return func(yield func(Checkpoint) bool) {
		for i := len(s.list) - 1; i >= 0; i-- {
			if !yield(s.list[i]) {
				return
			}
		}
	}
}

func (s *Set) Serialize() []byte {
	ser := binary.NewSer(make([]byte, 0, 2+len(s.list)*36))

	ser.AddUint8(setVersion)
	ser.AddUvarint(uint64(len(s.list)))
	for _, v := range s.list {
		ser.AddUvarint(v.Height)
		ser.AddFixedByteArray(v.Hash[:])
	}
	return ser.Output()
}

func Deserialize(data []byte) (*Set, error) {
	d := binary.NewDes(data)

	if v := d.ReadUint8(); v != setVersion && d.Error() == nil {
		return nil, errors.Errorf("unsupported checkpoint data version %d", v)
	}
	n := d.ReadUvarint()
	if d.Error() != nil {
		return nil, d.Error()
	}
	// every entry takes at least 33 bytes
	if n > uint64(len(d.RemainingData())/33) {
		return nil, errors.Errorf("checkpoint count %d exceeds data length", n)
	}

	list := make([]Checkpoint, n)
	for i := range list {
		list[i].Height = d.ReadUvarint()
		list[i].Hash = util.Hash(d.ReadFixedByteArray(32))
	}
	if d.Error() != nil {
		return nil, d.Error()
	}
	if len(d.RemainingData()) != 0 {
		return nil, errors.Errorf("%d trailing bytes in checkpoint data", len(d.RemainingData()))
	}
	return NewSet(list...)
}

// Digest is the BLAKE3 hash of the serialized set.
func (s *Set) Digest() util.Hash {
	return blake3.Sum256(s.Serialize())
}

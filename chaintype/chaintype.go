// Package chaintype holds the read-only contract between the chain index and its consumers.
package chaintype

import "github.com/emberchain/ember-node/util"

// BlockIndex is an entry of the chain index. Consumers only read it.
type BlockIndex interface {
	Height() uint64
	Hash() util.Hash
	// Parent returns the previous block; false at genesis.
	Parent() (BlockIndex, bool)
}

type BlockLookup interface {
	Lookup(hash util.Hash) (BlockIndex, bool)
}

// ChainView is a consistent snapshot of the chain index. Implementations must guarantee that the index is
// not mutated while a ChainView is in use.
type ChainView interface {
	BlockLookup
	// BestTip returns the tip of the best chain, nil if the index is empty.
	BestTip() BlockIndex
}

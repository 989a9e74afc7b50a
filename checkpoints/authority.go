package checkpoints

import (
	"github.com/emberchain/ember-node/chaintype"
	"github.com/emberchain/ember-node/config"
	"github.com/emberchain/ember-node/logger"
	"github.com/emberchain/ember-node/util"
)

var Log = logger.DiscardLog

// Authority answers checkpoint questions for one network. It holds no chain state: every answer is derived
// from the immutable checkpoint set and the chain view passed by the caller.
//
// Methods that take a chain view must be called while the view is consistent (see chainindex.Index.View).
type Authority struct {
	params config.Params
	set    *Set
	span   uint64
}

// New returns the authority for params using the compiled checkpoints and config.CHECKPOINT_SPAN.
func New(params config.Params) (*Authority, error) {
	return NewFromSet(params, ForNetwork(params.Network), config.CHECKPOINT_SPAN)
}

// NewFromSet returns an authority over a custom set. The genesis checkpoint, if any, must match params.
func NewFromSet(params config.Params, set *Set, span uint64) (*Authority, error) {
	err := VerifyGenesis(set, params)
	if err != nil {
		return nil, err
	}
	Log.Debugf("%s: %d checkpoints, last at height %d, sync span %d", params.Name(), set.Len(), set.Max(), span)

	return &Authority{
		params: params,
		set:    set,
		span:   span,
	}, nil
}

func (a *Authority) Params() config.Params {
	return a.params
}

func (a *Authority) Set() *Set {
	return a.set
}

func (a *Authority) Span() uint64 {
	return a.span
}

// CheckHardened returns false only if height is checkpointed and hash is not the checkpointed hash.
func (a *Authority) CheckHardened(height uint64, hash util.Hash) bool {
	h, ok := a.set.Get(height)
	if !ok {
		return true
	}
	return h == hash
}

// GetTotalBlocksEstimate returns the highest checkpointed height. It is only a progress hint.
func (a *Authority) GetTotalBlocksEstimate() uint64 {
	return a.set.Max()
}

// GetLastCheckpoint returns the indexed block of the highest checkpoint the index knows about.
func (a *Authority) GetLastCheckpoint(index chaintype.BlockLookup) (chaintype.BlockIndex, bool) {
	for cp := range a.set.Backward() {
		if bl, ok := index.Lookup(cp.Hash); ok {
			return bl, true
		}
	}
	return nil, false
}

// AutoSelectSyncCheckpoint walks back from the best tip to the ancestor span blocks behind it, or to genesis
// on a shorter chain. It returns nil if the chain is empty.
func (a *Authority) AutoSelectSyncCheckpoint(chain chaintype.ChainView) chaintype.BlockIndex {
	tip := chain.BestTip()
	if tip == nil {
		return nil
	}
	tipHeight := tip.Height()

	bl := tip
	for tipHeight-bl.Height() < a.span {
		prev, ok := bl.Parent()
		if !ok {
			break
		}
		bl = prev
	}
	return bl
}

// CheckSync returns false if height is at or below the current sync checkpoint.
func (a *Authority) CheckSync(chain chaintype.ChainView, height uint64) bool {
	return CheckSyncAt(a.AutoSelectSyncCheckpoint(chain), height)
}

// CheckSyncAt is CheckSync against an already selected sync checkpoint. A nil checkpoint locks nothing.
func CheckSyncAt(syncCheckpoint chaintype.BlockIndex, height uint64) bool {
	if syncCheckpoint == nil {
		return true
	}
	return height > syncCheckpoint.Height()
}

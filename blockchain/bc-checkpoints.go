package blockchain

import (
	"github.com/emberchain/ember-node/adb"
	"github.com/emberchain/ember-node/chainindex"
	"github.com/emberchain/ember-node/chaintype"
	"github.com/emberchain/ember-node/checkpoints"
	"github.com/emberchain/ember-node/util"

	"github.com/pkg/errors"
)

// BlockRef identifies an indexed block.
type BlockRef struct {
	Height uint64    `json:"height"`
	Hash   util.Hash `json:"hash"`
}

func refOf(bl chaintype.BlockIndex) BlockRef {
	return BlockRef{
		Height: bl.Height(),
		Hash:   bl.Hash(),
	}
}

type Info struct {
	Network             string    `json:"network"`
	Height              uint64    `json:"height"`
	TopHash             util.Hash `json:"top_hash"`
	TotalBlocksEstimate uint64    `json:"total_blocks_estimate"`
	SyncCheckpoint      BlockRef  `json:"sync_checkpoint"`
	LastCheckpoint      *BlockRef `json:"last_checkpoint,omitempty"`
	Checkpoints         int       `json:"checkpoints"`
}

// GetInfo reads the chain state and checkpoint status from a single consistent view of the index.
func (bc *Blockchain) GetInfo() Info {
	info := Info{
		Network:             bc.Params.Name(),
		TotalBlocksEstimate: bc.Checkpoints.GetTotalBlocksEstimate(),
		Checkpoints:         bc.Checkpoints.Set().Len(),
	}

	bc.Chain.View(func(v *chainindex.View) error {
		tip := v.BestTip()
		if tip == nil {
			return nil
		}
		info.Height = tip.Height()
		info.TopHash = tip.Hash()

		if sync := bc.Checkpoints.AutoSelectSyncCheckpoint(v); sync != nil {
			info.SyncCheckpoint = refOf(sync)
		}
		if last, ok := bc.Checkpoints.GetLastCheckpoint(v); ok {
			ref := refOf(last)
			info.LastCheckpoint = &ref
		}
		return nil
	})

	return info
}

// SyncCheckpoint returns the current sync checkpoint. ok is false only if the chain index is empty.
func (bc *Blockchain) SyncCheckpoint() (ref BlockRef, ok bool) {
	bc.Chain.View(func(v *chainindex.View) error {
		if sync := bc.Checkpoints.AutoSelectSyncCheckpoint(v); sync != nil {
			ref, ok = refOf(sync), true
		}
		return nil
	})
	return
}

// LastCheckpoint returns the highest checkpoint present in the chain index.
func (bc *Blockchain) LastCheckpoint() (ref BlockRef, ok bool) {
	bc.Chain.View(func(v *chainindex.View) error {
		var last chaintype.BlockIndex
		last, ok = bc.Checkpoints.GetLastCheckpoint(v)
		if ok {
			ref = refOf(last)
		}
		return nil
	})
	return
}

// CheckSync reports whether a block at height may still be replaced by a reorganization.
func (bc *Blockchain) CheckSync(height uint64) (res bool) {
	bc.Chain.View(func(v *chainindex.View) error {
		res = bc.Checkpoints.CheckSync(v, height)
		return nil
	})
	return
}

// CreateCheckpoints collects the main chain hashes at genesis and every interval blocks up to maxHeight (or
// the top height, whichever is lower). The result can be exported with Serialize and compared with Digest.
func (bc *Blockchain) CreateCheckpoints(maxHeight, interval uint64) (*checkpoints.Set, error) {
	if interval == 0 {
		return nil, errors.New("checkpoint interval must be positive")
	}

	list := []checkpoints.Checkpoint{}
	err := bc.DB.View(func(txn adb.Txn) error {
		stats, err := bc.GetStats(txn)
		if err != nil {
			return err
		}
		maxHeight = min(maxHeight, stats.TopHeight)

		for height := uint64(0); height <= maxHeight; height += interval {
			hash, err := bc.GetTopo(txn, height)
			if err != nil {
				return err
			}
			Log.Devf("Adding block %d %s to checkpoints", height, hash)
			list = append(list, checkpoints.Checkpoint{
				Height: height,
				Hash:   hash,
			})
		}
		return nil
	})
	if err != nil {
		Log.Err(err)
		return nil, err
	}

	return checkpoints.NewSet(list...)
}

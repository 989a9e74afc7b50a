package blockchain

import (
	"slices"

	"github.com/emberchain/ember-node/adb"
	"github.com/emberchain/ember-node/binary"
	"github.com/emberchain/ember-node/block"
	"github.com/emberchain/ember-node/chainindex"
	"github.com/emberchain/ember-node/checkpoints"
	"github.com/emberchain/ember-node/config"
	"github.com/emberchain/ember-node/logger"
	"github.com/emberchain/ember-node/util"

	"github.com/pkg/errors"
)

var Log = logger.New()

var (
	ErrDuplicate          = errors.New("duplicate block")
	ErrOrphan             = errors.New("orphan block")
	ErrBadHeight          = errors.New("bad block height")
	ErrCheckpointMismatch = errors.New("block does not match checkpoint")
	ErrSyncCheckpoint     = errors.New("block forks below the sync checkpoint")
	ErrNotFound           = errors.New("not found")
	ErrWrongNetwork       = errors.New("database belongs to another network")
)

// Blockchain stores block headers and keeps the in-memory chain index in sync with them. Every block that
// enters the chain goes through the checkpoint authority.
type Blockchain struct {
	DB     adb.DB
	Index  Index
	Params config.Params

	Chain       *chainindex.Index
	Checkpoints *checkpoints.Authority

	// serializes AddBlock
	mut util.Mutex
}
type Index struct {
	Info  adb.Index
	Block adb.Index
	Topo  adb.Index
}

// New opens the chain stored in db for the network described by params, with the compiled checkpoints.
func New(params config.Params, db adb.DB) (*Blockchain, error) {
	auth, err := checkpoints.New(params)
	if err != nil {
		return nil, err
	}
	return NewWithCheckpoints(db, auth)
}

// NewWithCheckpoints is New with a custom checkpoint authority.
func NewWithCheckpoints(db adb.DB, auth *checkpoints.Authority) (*Blockchain, error) {
	bc := &Blockchain{
		DB:          db,
		Params:      auth.Params(),
		Chain:       chainindex.New(),
		Checkpoints: auth,
	}

	bc.Index = Index{
		Info:  bc.DB.Index("info"),
		Block: bc.DB.Index("block"),
		Topo:  bc.DB.Index("topo"),
	}

	// add genesis block if it doesn't exist
	err := bc.addGenesis()
	if err != nil {
		return nil, err
	}

	var stats *Stats
	err = bc.DB.View(func(txn adb.Txn) error {
		stats, err = bc.GetStats(txn)
		if err != nil {
			return err
		}
		return bc.loadIndex(txn, stats)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load chain index")
	}

	Log.Infof("Started %s blockchain", bc.Params.Name())
	Log.Infof("Height: %d", stats.TopHeight)
	Log.Infof("Top hash: %x", stats.TopHash)
	Log.Debugf("Indexed blocks: %d", bc.Chain.Len())

	bc.updateMetrics()

	return bc, nil
}

// addGenesis stores the genesis record on an empty database, and makes sure a non-empty one was created for
// the same network.
func (bc *Blockchain) addGenesis() error {
	genesisHash := bc.Params.GenesisHash

	return bc.DB.Update(func(txn adb.Txn) error {
		topo, err := bc.GetTopo(txn, 0)
		if err == nil {
			if topo != genesisHash {
				return errors.Wrapf(ErrWrongNetwork, "stored genesis %s, expected %s", topo, genesisHash)
			}
			Log.Debug("genesis is already in chain:", topo)
			return nil
		}

		Log.Debugf("adding genesis block %s", genesisHash)

		// The genesis hash is compiled in, this header only carries its metadata.
		genesis := block.Header{
			Height:    0,
			Timestamp: bc.Params.GenesisTimestamp,
		}
		err = txn.Put(bc.Index.Block, genesisHash[:], genesis.Serialize())
		if err != nil {
			return err
		}
		err = bc.setTopo(txn, 0, genesisHash)
		if err != nil {
			return err
		}
		return bc.SetStats(txn, &Stats{
			TopHash:   genesisHash,
			TopHeight: 0,
		})
	})
}

type storedHeader struct {
	hash util.Hash
	hdr  block.Header
}

// loadIndex rebuilds the chain index from the stored headers. Parents always have a lower height, so
// inserting in height order never meets an unknown parent.
func (bc *Blockchain) loadIndex(txn adb.Txn, stats *Stats) error {
	err := bc.Chain.AddGenesis(bc.Params.GenesisHash)
	if err != nil {
		return err
	}

	headers := make([]storedHeader, 0, stats.TopHeight+1)
	err = txn.ForEach(bc.Index.Block, func(k, v []byte) error {
		if len(k) != 32 {
			return errors.Errorf("invalid block key length %d", len(k))
		}
		sh := storedHeader{hash: util.Hash(k)}
		if err := sh.hdr.Deserialize(v); err != nil {
			return errors.Wrapf(err, "block %x", k)
		}
		if sh.hdr.Height == 0 {
			return nil
		}
		headers = append(headers, sh)
		return nil
	})
	if err != nil {
		return err
	}

	slices.SortFunc(headers, func(a, b storedHeader) int {
		switch {
		case a.hdr.Height < b.hdr.Height:
			return -1
		case a.hdr.Height > b.hdr.Height:
			return 1
		}
		return 0
	})

	for _, sh := range headers {
		_, err := bc.Chain.Add(sh.hash, sh.hdr.PrevHash)
		if err != nil {
			return err
		}
	}

	return bc.Chain.SetBest(stats.TopHash)
}

// AddBlock validates a header against the chain index and the checkpoints, then stores it. The block
// becomes the new top if it is higher than the current one; the topo records of the main chain are
// rewritten from the fork point.
func (bc *Blockchain) AddBlock(hdr *block.Header) (util.Hash, error) {
	hash := hdr.Hash()

	bc.mut.Lock()
	defer bc.mut.Unlock()

	var (
		isTop  bool
		fork   uint64
		branch []util.Hash // new main chain blocks above the fork, in descending height order
	)
	err := bc.Chain.View(func(v *chainindex.View) error {
		if _, ok := v.Get(hash); ok {
			return errors.Wrapf(ErrDuplicate, "%s height %d", hash, hdr.Height)
		}
		parent, ok := v.Get(hdr.PrevHash)
		if !ok {
			return errors.Wrapf(ErrOrphan, "%s parent %s", hash, hdr.PrevHash)
		}
		if hdr.Height != parent.Height()+1 {
			return errors.Wrapf(ErrBadHeight, "height %d, parent height %d", hdr.Height, parent.Height())
		}

		if !bc.Checkpoints.CheckHardened(hdr.Height, hash) {
			rejections.WithLabelValues("hardened").Inc()
			return errors.Wrapf(ErrCheckpointMismatch, "%s height %d", hash, hdr.Height)
		}

		best, _ := v.Best()
		forkNode := v.FindFork(parent, best)
		if !bc.Checkpoints.CheckSync(v, forkNode.Height()+1) {
			rejections.WithLabelValues("sync").Inc()
			return errors.Wrapf(ErrSyncCheckpoint, "%s forks at height %d", hash, forkNode.Height())
		}

		isTop = hdr.Height > best.Height()
		if !isTop {
			return nil
		}
		fork = forkNode.Height()
		branch = append(branch, hash)
		for n := parent; n.ID() != forkNode.ID(); {
			branch = append(branch, n.Hash())
			p, _ := n.Parent()
			n = p.(chainindex.Node)
		}
		return nil
	})
	if err != nil {
		Log.Debug("block rejected:", err)
		return hash, err
	}

	err = bc.DB.Update(func(txn adb.Txn) error {
		err := txn.Put(bc.Index.Block, hash[:], hdr.Serialize())
		if err != nil {
			return err
		}
		if !isTop {
			return nil
		}
		for i, h := range branch {
			err = bc.setTopo(txn, hdr.Height-uint64(i), h)
			if err != nil {
				return err
			}
		}
		return bc.SetStats(txn, &Stats{
			TopHash:   hash,
			TopHeight: hdr.Height,
		})
	})
	if err != nil {
		Log.Err(err)
		return hash, err
	}

	_, err = bc.Chain.Add(hash, hdr.PrevHash)
	if err != nil {
		return hash, err
	}
	if isTop {
		err = bc.Chain.SetBest(hash)
		if err != nil {
			return hash, err
		}
		if len(branch) > 1 {
			Log.Infof("Reorganize: new top %s height %d, fork at height %d", hash, hdr.Height, fork)
		} else {
			Log.Debugf("New top %s height %d", hash, hdr.Height)
		}
	} else {
		Log.Debugf("Added altchain block %s height %d", hash, hdr.Height)
	}

	bc.updateMetrics()

	return hash, nil
}

func (bc *Blockchain) setTopo(txn adb.Txn, height uint64, hash util.Hash) error {
	return txn.Put(bc.Index.Topo, binary.Uint64Key(height), hash[:])
}

// GetTopo returns the hash of the main chain block at height.
func (bc *Blockchain) GetTopo(txn adb.Txn, height uint64) (util.Hash, error) {
	topoHash := txn.Get(bc.Index.Topo, binary.Uint64Key(height))
	if len(topoHash) != 32 {
		return util.Hash{}, errors.Wrapf(ErrNotFound, "unknown block at height %d", height)
	}
	return util.Hash(topoHash), nil
}

// GetHeader returns a stored header given its hash. The header of genesis only carries its timestamp.
func (bc *Blockchain) GetHeader(txn adb.Txn, hash util.Hash) (*block.Header, error) {
	bin := txn.Get(bc.Index.Block, hash[:])
	if len(bin) == 0 {
		return nil, errors.Wrapf(ErrNotFound, "block %s", hash)
	}
	hdr := &block.Header{}
	err := hdr.Deserialize(bin)
	return hdr, err
}

func (bc *Blockchain) GetHeaderByHeight(txn adb.Txn, height uint64) (util.Hash, *block.Header, error) {
	hash, err := bc.GetTopo(txn, height)
	if err != nil {
		return hash, nil, err
	}
	hdr, err := bc.GetHeader(txn, hash)
	return hash, hdr, err
}

func (bc *Blockchain) Close() error {
	Log.Info("Closing database")
	return bc.DB.Close()
}

package chainindex

import (
	"math"

	"github.com/emberchain/ember-node/chaintype"
	"github.com/emberchain/ember-node/util"

	"github.com/pkg/errors"
)

var (
	ErrDuplicate     = errors.New("block already indexed")
	ErrUnknownParent = errors.New("unknown parent block")
	ErrNoGenesis     = errors.New("chain index has no genesis")
	ErrNotFound      = errors.New("block not indexed")
)

type NodeID uint32

const NoParent NodeID = math.MaxUint32

type entry struct {
	hash   util.Hash
	height uint64
	parent NodeID
}

// Index is an in-memory block tree rooted at genesis. Entries live in a slice and refer to their parent by
// position, so nodes never own each other.
type Index struct {
	mut util.RWMutex

	entries []entry
	byHash  map[util.Hash]NodeID
	best    NodeID
}

func New() *Index {
	return &Index{
		entries: make([]entry, 0, 1024),
		byHash:  make(map[util.Hash]NodeID),
		best:    NoParent,
	}
}

// AddGenesis inserts the root of the tree and makes it the best tip.
func (ix *Index) AddGenesis(hash util.Hash) error {
	ix.mut.Lock()
	defer ix.mut.Unlock()

	if len(ix.entries) != 0 {
		return errors.Wrapf(ErrDuplicate, "genesis %s", hash)
	}
	ix.entries = append(ix.entries, entry{
		hash:   hash,
		height: 0,
		parent: NoParent,
	})
	ix.byHash[hash] = 0
	ix.best = 0
	return nil
}

// Add indexes a block whose parent is already known and returns its height. The best tip is not changed.
func (ix *Index) Add(hash, prevHash util.Hash) (uint64, error) {
	ix.mut.Lock()
	defer ix.mut.Unlock()

	if len(ix.entries) == 0 {
		return 0, ErrNoGenesis
	}
	if _, ok := ix.byHash[hash]; ok {
		return 0, errors.Wrapf(ErrDuplicate, "block %s", hash)
	}
	parent, ok := ix.byHash[prevHash]
	if !ok {
		return 0, errors.Wrapf(ErrUnknownParent, "block %s parent %s", hash, prevHash)
	}
	if uint64(len(ix.entries)) >= uint64(NoParent) {
		return 0, errors.New("chain index is full")
	}

	height := ix.entries[parent].height + 1
	id := NodeID(len(ix.entries))
	ix.entries = append(ix.entries, entry{
		hash:   hash,
		height: height,
		parent: parent,
	})
	ix.byHash[hash] = id
	return height, nil
}

func (ix *Index) SetBest(hash util.Hash) error {
	ix.mut.Lock()
	defer ix.mut.Unlock()

	id, ok := ix.byHash[hash]
	if !ok {
		return errors.Wrapf(ErrNotFound, "block %s", hash)
	}
	ix.best = id
	return nil
}

func (ix *Index) Len() int {
	ix.mut.RLock()
	defer ix.mut.RUnlock()

	return len(ix.entries)
}

// View calls f with a snapshot of the index. The index is read-locked until f returns; f must not keep the
// view or its nodes after returning, and must not call methods that mutate the index.
func (ix *Index) View(f func(v *View) error) error {
	ix.mut.RLock()
	defer ix.mut.RUnlock()

	return f(&View{ix: ix})
}

var _ chaintype.ChainView = &View{}

type View struct {
	ix *Index
}

func (v *View) node(id NodeID) Node {
	return Node{view: v, id: id}
}

func (v *View) BestTip() chaintype.BlockIndex {
	tip, ok := v.Best()
	if !ok {
		return nil
	}
	return tip
}

// Best is like BestTip but returns the concrete node type.
func (v *View) Best() (Node, bool) {
	if v.ix.best == NoParent {
		return Node{}, false
	}
	return v.node(v.ix.best), true
}

func (v *View) Lookup(hash util.Hash) (chaintype.BlockIndex, bool) {
	n, ok := v.Get(hash)
	if !ok {
		return nil, false
	}
	return n, true
}

func (v *View) Get(hash util.Hash) (Node, bool) {
	id, ok := v.ix.byHash[hash]
	if !ok {
		return Node{}, false
	}
	return v.node(id), true
}

func (v *View) Len() int {
	return len(v.ix.entries)
}

// FindFork returns the most recent common ancestor of a and b.
func (v *View) FindFork(a, b Node) Node {
	for a.Height() > b.Height() {
		a = a.parent()
	}
	for b.Height() > a.Height() {
		b = b.parent()
	}
	for a.id != b.id {
		a = a.parent()
		b = b.parent()
	}
	return a
}

var _ chaintype.BlockIndex = Node{}

// Node is a handle to an index entry. It is only valid inside the View callback that produced it.
type Node struct {
	view *View
	id   NodeID
}

func (n Node) entry() *entry {
	return &n.view.ix.entries[n.id]
}

func (n Node) ID() NodeID {
	return n.id
}

func (n Node) Height() uint64 {
	return n.entry().height
}

func (n Node) Hash() util.Hash {
	return n.entry().hash
}

func (n Node) Parent() (chaintype.BlockIndex, bool) {
	p := n.entry().parent
	if p == NoParent {
		return nil, false
	}
	return n.view.node(p), true
}

// parent must not be called on genesis
func (n Node) parent() Node {
	return n.view.node(n.entry().parent)
}

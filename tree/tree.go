package tree

import (
	"sync"

	"github.com/cosmos/iavl"
	dbm "github.com/tendermint/tm-db"
)

type saver interface {
	Commit(db *iavl.MutableTree) error
	SetImmutableTree(immutableTree *iavl.ImmutableTree)
}

// MTree is the versioned state tree shared by all stores
type MTree interface {
	Version() int64
	Hash() []byte
	AvailableVersions() []int
	GetLastImmutable() *iavl.ImmutableTree
	GetImmutableAtHeight(version int64) (*iavl.ImmutableTree, error)
	Commit(...saver) ([]byte, int64, error)
	DeleteVersionIfExists(version int64) error
}

type mutableTree struct {
	tree      *iavl.MutableTree
	db        dbm.DB
	cacheSize int

	lock sync.RWMutex
}

// NewMutableTree opens the tree stored in db. With height = 0 the latest saved
// version is loaded (or an empty tree for a fresh db), otherwise the tree is
// rolled back to the given height.
func NewMutableTree(height uint64, db dbm.DB, cacheSize int) (MTree, error) {
	tree, err := iavl.NewMutableTree(db, cacheSize)
	if err != nil {
		return nil, err
	}

	if height == 0 {
		if _, err := tree.Load(); err != nil {
			return nil, err
		}
	} else if _, err := tree.LoadVersionForOverwriting(int64(height)); err != nil {
		return nil, err
	}

	return &mutableTree{
		tree:      tree,
		db:        db,
		cacheSize: cacheSize,
	}, nil
}

// NewImmutableTree returns the read-only tree at the given height
func NewImmutableTree(height uint64, db dbm.DB) (*iavl.ImmutableTree, error) {
	if height == 0 {
		return iavl.NewImmutableTree(db, 1024), nil
	}

	tree, err := iavl.NewMutableTree(db, 1024)
	if err != nil {
		return nil, err
	}

	if _, err := tree.LazyLoadVersion(int64(height)); err != nil {
		return nil, err
	}

	return tree.GetImmutable(int64(height))
}

func (t *mutableTree) Version() int64 {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.Version()
}

func (t *mutableTree) Hash() []byte {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.Hash()
}

func (t *mutableTree) AvailableVersions() []int {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.AvailableVersions()
}

func (t *mutableTree) GetLastImmutable() *iavl.ImmutableTree {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.getLastImmutable()
}

func (t *mutableTree) getLastImmutable() *iavl.ImmutableTree {
	version := t.tree.Version()
	if version == 0 {
		return iavl.NewImmutableTree(t.db, t.cacheSize)
	}

	immutable, err := t.tree.GetImmutable(version)
	if err != nil {
		panic(err)
	}

	return immutable
}

func (t *mutableTree) GetImmutableAtHeight(version int64) (*iavl.ImmutableTree, error) {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.GetImmutable(version)
}

// Commit writes dirty data of every saver, saves a new version and points
// the savers at it.
func (t *mutableTree) Commit(savers ...saver) ([]byte, int64, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	for _, s := range savers {
		if err := s.Commit(t.tree); err != nil {
			return nil, 0, err
		}
	}

	hash, version, err := t.tree.SaveVersion()
	if err != nil {
		return nil, 0, err
	}

	immutable := t.getLastImmutable()
	for _, s := range savers {
		s.SetImmutableTree(immutable)
	}

	return hash, version, nil
}

func (t *mutableTree) DeleteVersionIfExists(version int64) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if !t.tree.VersionExists(version) {
		return nil
	}

	return t.tree.DeleteVersion(version)
}

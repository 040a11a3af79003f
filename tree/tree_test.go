package tree

import (
	"testing"

	"github.com/cosmos/iavl"
	"github.com/stretchr/testify/require"
	db "github.com/tendermint/tm-db"
)

type kvSaver struct {
	key, value []byte
	immutable  *iavl.ImmutableTree
}

func (s *kvSaver) Commit(db *iavl.MutableTree) error {
	db.Set(s.key, s.value)
	return nil
}

func (s *kvSaver) SetImmutableTree(immutableTree *iavl.ImmutableTree) {
	s.immutable = immutableTree
}

func TestMutableTreeCommit(t *testing.T) {
	t.Parallel()
	r := require.New(t)

	memDB := db.NewMemDB()
	mutableTree, err := NewMutableTree(0, memDB, 1024)
	r.NoError(err)
	r.Equal(int64(0), mutableTree.Version())

	_, value := mutableTree.GetLastImmutable().Get([]byte("a"))
	r.Nil(value)

	s := &kvSaver{key: []byte("a"), value: []byte("1")}
	_, version, err := mutableTree.Commit(s)
	r.NoError(err)
	r.Equal(int64(1), version)
	r.NotNil(s.immutable)

	_, value = s.immutable.Get([]byte("a"))
	r.Equal([]byte("1"), value)

	s.value = []byte("2")
	_, version, err = mutableTree.Commit(s)
	r.NoError(err)
	r.Equal(int64(2), version)

	old, err := mutableTree.GetImmutableAtHeight(1)
	r.NoError(err)
	_, value = old.Get([]byte("a"))
	r.Equal([]byte("1"), value)

	r.NoError(mutableTree.DeleteVersionIfExists(1))
	r.NoError(mutableTree.DeleteVersionIfExists(1))
	r.Equal([]int{2}, mutableTree.AvailableVersions())

	reopened, err := NewMutableTree(0, memDB, 1024)
	r.NoError(err)
	r.Equal(int64(2), reopened.Version())

	immutable, err := NewImmutableTree(2, memDB)
	r.NoError(err)
	_, value = immutable.Get([]byte("a"))
	r.Equal([]byte("2"), value)
}

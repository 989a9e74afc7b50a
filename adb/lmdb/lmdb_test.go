package lmdb

import (
	"path/filepath"
	"strconv"
	"testing"

	"github.com/emberchain/ember-node/adb"
	"github.com/emberchain/ember-node/logger"
	"github.com/emberchain/ember-node/binary"

	"github.com/stretchr/testify/require"
)

func TestTxn(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "lmdb"), 0o700, logger.DiscardLog)
	require.NoError(t, err)
	defer db.Close()

	idx := db.Index("test")
	other := db.Index("other")

	err = db.Update(func(txn adb.Txn) error {
		for i := uint64(0); i < 10; i++ {
			err := txn.Put(idx, binary.Uint64Key(i), []byte("value "+strconv.FormatUint(i, 10)))
			if err != nil {
				return err
			}
		}
		return txn.Put(other, []byte("k"), []byte("v"))
	})
	require.NoError(t, err)

	err = db.View(func(txn adb.Txn) error {
		require.Equal(t, []byte("value 3"), txn.Get(idx, binary.Uint64Key(3)))
		require.Nil(t, txn.Get(idx, binary.Uint64Key(10)))
		require.Nil(t, txn.Get(other, binary.Uint64Key(3)))

		n, err := txn.Entries(idx)
		require.NoError(t, err)
		require.Equal(t, uint64(10), n)

		// keys are visited in order
		var prev []byte
		count := 0
		err = txn.ForEach(idx, func(k, v []byte) error {
			if prev != nil {
				require.Less(t, string(prev), string(k))
			}
			prev = append(prev[:0], k...)
			count++
			return nil
		})
		require.NoError(t, err)
		require.Equal(t, 10, count)

		count = 0
		err = txn.ForEachInterrupt(idx, func(k, v []byte) (bool, error) {
			count++
			return count == 4, nil
		})
		require.NoError(t, err)
		require.Equal(t, 4, count)
		return nil
	})
	require.NoError(t, err)

	err = db.Update(func(txn adb.Txn) error {
		require.NoError(t, txn.Del(idx, binary.Uint64Key(3)))
		// deleting a missing key is not an error
		require.NoError(t, txn.Del(idx, binary.Uint64Key(100)))
		return nil
	})
	require.NoError(t, err)

	err = db.View(func(txn adb.Txn) error {
		require.Nil(t, txn.Get(idx, binary.Uint64Key(3)))
		n, err := txn.Entries(idx)
		require.NoError(t, err)
		require.Equal(t, uint64(9), n)
		return nil
	})
	require.NoError(t, err)
}

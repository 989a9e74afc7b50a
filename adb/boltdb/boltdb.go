package boltdb

import (
	"os"
	"path/filepath"

	"github.com/emberchain/ember-node/adb"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

var _ adb.DB = &DB{}

type DB struct {
	db *bolt.DB
}

func New(dbpath string, filemode os.FileMode) (*DB, error) {
	var err error

	d := &DB{}

	dbpath, err = filepath.Abs(dbpath)
	if err != nil {
		return nil, err
	}

	d.db, err = bolt.Open(dbpath, filemode, &bolt.Options{
		NoFreelistSync: true,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open bolt database %s", dbpath)
	}

	return d, nil
}

func (d *DB) Index(name string) adb.Index {
	err := d.db.Update(func(txn *bolt.Tx) error {
		_, err := txn.CreateBucketIfNotExists([]byte(name))
		return err
	})
	if err != nil {
		panic(err)
	}

	return []byte(name)
}

func (d *DB) View(f func(txn adb.Txn) error) error {
	return d.db.View(func(t *bolt.Tx) error {
		return f(&Txn{txn: t})
	})
}

func (d *DB) Update(f func(txn adb.Txn) error) error {
	return d.db.Update(func(t *bolt.Tx) error {
		return f(&Txn{txn: t})
	})
}

func (d *DB) Close() error {
	return d.db.Close()
}

type Txn struct {
	txn *bolt.Tx
}

func (t *Txn) bucket(d adb.Index) (*bolt.Bucket, error) {
	b := t.txn.Bucket(d.([]byte))
	if b == nil {
		return nil, errors.Wrapf(adb.ErrIndexNotFound, "bucket %s", d)
	}
	return b, nil
}

func (t *Txn) Get(d adb.Index, key []byte) []byte {
	b, err := t.bucket(d)
	if err != nil {
		return nil
	}
	return b.Get(key)
}

func (t *Txn) Put(d adb.Index, key []byte, value []byte) error {
	b, err := t.bucket(d)
	if err != nil {
		return err
	}
	return b.Put(key, value)
}

func (t *Txn) Del(d adb.Index, key []byte) error {
	b, err := t.bucket(d)
	if err != nil {
		return err
	}
	return b.Delete(key)
}

func (t *Txn) ForEach(d adb.Index, f func(k, v []byte) error) error {
	b, err := t.bucket(d)
	if err != nil {
		return err
	}
	return b.ForEach(f)
}

func (t *Txn) ForEachInterrupt(d adb.Index, f func(k, v []byte) (bool, error)) error {
	b, err := t.bucket(d)
	if err != nil {
		return err
	}

	c := b.Cursor()
	for k, v := c.First(); k != nil; k, v = c.Next() {
		interrupt, err := f(k, v)
		if err != nil {
			return err
		}
		if interrupt {
			break
		}
	}

	return nil
}

func (t *Txn) Entries(d adb.Index) (uint64, error) {
	b, err := t.bucket(d)
	if err != nil {
		return 0, err
	}
	var n uint64
	err = b.ForEach(func(k, v []byte) error {
		n++
		return nil
	})
	return n, err
}

package store

import (
	"context"

	bolt "go.etcd.io/bbolt"

	"github.com/mherr/prefect/errors"
	"github.com/mherr/prefect/flow"
)

const flowBucket = "flows"

var _ FlowStore = (*BoltStore)(nil)

// BoltStore persists specs in a bbolt database, one key per flow ID with
// the encoded spec as the value. Suitable for single-node deployments.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) the database file and ensures the flow
// bucket exists.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, errors.StoreError("open", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(flowBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.StoreError("init", err)
	}
	return &BoltStore{db: db}, nil
}

// Close releases the underlying database file.
func (b *BoltStore) Close() error {
	return b.db.Close()
}

func (b *BoltStore) Save(_ context.Context, s *flow.Spec) error {
	if s == nil || s.ID == "" {
		return errors.InvalidSpec("spec must have an ID to be stored")
	}
	data, err := s.Encode()
	if err != nil {
		return err
	}
	err = b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(flowBucket)).Put([]byte(s.ID), data)
	})
	if err != nil {
		return errors.StoreError("save", err)
	}
	return nil
}

func (b *BoltStore) Get(_ context.Context, id string) (*flow.Spec, error) {
	var data []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(flowBucket)).Get([]byte(id))
		if v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, errors.StoreError("get", err)
	}
	if data == nil {
		return nil, errors.FlowNotFound(id)
	}
	return flow.ParseSpec(data)
}

func (b *BoltStore) List(_ context.Context) ([]*flow.Spec, error) {
	var out []*flow.Spec
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(flowBucket)).ForEach(func(_, v []byte) error {
			s, err := flow.ParseSpec(v)
			if err != nil {
				return err
			}
			out = append(out, s)
			return nil
		})
	})
	if err != nil {
		return nil, errors.StoreError("list", err)
	}
	return out, nil
}

func (b *BoltStore) Delete(_ context.Context, id string) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(flowBucket)).Delete([]byte(id))
	})
	if err != nil {
		return errors.StoreError("delete", err)
	}
	return nil
}

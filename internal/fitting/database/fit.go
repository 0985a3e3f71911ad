package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	bolt "go.etcd.io/bbolt"

	"linsac/internal/database"
	"linsac/internal/fitting/model"
)

const (
	entityKeys = "entity:keys:"
	prefix     = "fit:"
)

func New(db *database.DB) *DB {
	return &DB{sDB: db}
}

type DB struct {
	sDB *database.DB
}

func (db *DB) extractKey(key string) string {
	prefixPos := strings.Index(key, prefix)

	return key[prefixPos+len(prefix):]
}

func (db *DB) Keys() ([]string, error) {
	var bucketKeys []string
	err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(entityKeys))
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			bucketKeys = append(bucketKeys, db.extractKey(string(k)))
		}
		return nil
	})

	return bucketKeys, err
}

func (db *DB) Store(_ context.Context, fit model.Fit) error {
	var b *bolt.Bucket
	bytes, err := json.Marshal(fit)
	if err != nil {
		return err
	}

	if err := db.sDB.DB.Update(func(tx *bolt.Tx) error {
		b = tx.Bucket([]byte(prefix + fit.EntityID))
		if b == nil {
			b, err = tx.CreateBucket([]byte(prefix + fit.EntityID))
			if err != nil {
				return fmt.Errorf("create bucket: %w", err)
			}
		}
		if err := b.Put([]byte(fit.ID.String()), bytes); err != nil {
			return fmt.Errorf("put to bucket error: %w", err)
		}
		b = tx.Bucket([]byte(entityKeys))
		if b == nil {
			b, err = tx.CreateBucket([]byte(entityKeys))
			if err != nil {
				return fmt.Errorf("unable create entities bucket: %w", err)
			}
		}
		if err := b.Put([]byte(prefix+fit.EntityID), []byte{0x0}); err != nil {
			return fmt.Errorf("unable put to entities bucket: %w", err)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("update transaction error: %v", err)
	}

	return nil
}

func (db *DB) FindByEntity(_ context.Context, entityID string) ([]model.Fit, error) {
	var fits []model.Fit
	err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(prefix + entityID))
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var fit model.Fit
			if err := json.Unmarshal(v, &fit); err != nil {
				return fmt.Errorf("unmarshal fit error: %w", err)
			}
			fits = append(fits, fit)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("view transaction error: %v", err)
	}

	return fits, nil
}

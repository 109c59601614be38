// Package localstore persists parts created while no identity is
// active. One bucket, one fixed key, value is a JSON list. Absent or
// corrupt data reads as an empty list, never as a fatal error.
package localstore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	bolt "go.etcd.io/bbolt"

	"github.com/pclogr/pclogr/internal/model"
)

const (
	bucketName = "pclogr"
	bufferKey  = "pclogr:parts:local"
)

type Store struct {
	db *bolt.DB
}

func Open(path string) (*Store, error) {
	const op = "localstore.Open"

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, berr := tx.CreateBucketIfNotExists([]byte(bucketName))
		return berr
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

type bufferedPart struct {
	UUID         string     `json:"uuid,omitempty"`
	Name         string     `json:"name"`
	Category     string     `json:"type"`
	UnitPrice    string     `json:"price"`
	Quantity     int64      `json:"qty"`
	Vendor       string     `json:"vendor,omitempty"`
	PurchaseDate *time.Time `json:"purchaseDate,omitempty"`
	Status       string     `json:"status,omitempty"`
}

// Load reads the whole buffer. Missing or undecodable data is an
// empty buffer.
func (s *Store) Load() ([]*model.Part, error) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket([]byte(bucketName)).Get([]byte(bufferKey)); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("localstore.Load: %w", err)
	}
	if len(raw) == 0 {
		return []*model.Part{}, nil
	}

	var entries []bufferedPart
	if jerr := json.Unmarshal(raw, &entries); jerr != nil {
		return []*model.Part{}, nil
	}

	out := make([]*model.Part, 0, len(entries))
	for _, e := range entries {
		price, perr := decimal.NewFromString(e.UnitPrice)
		if perr != nil {
			price = decimal.Zero
		}
		status := model.PartStatus(e.Status)
		if status == "" {
			status = model.StatusInInventory
		}
		out = append(out, &model.Part{
			UUID:         e.UUID,
			Name:         e.Name,
			Category:     model.ParseCategory(e.Category),
			UnitPrice:    price,
			Quantity:     e.Quantity,
			Vendor:       e.Vendor,
			PurchaseDate: e.PurchaseDate,
			Status:       status,
		})
	}

	return out, nil
}

// Save replaces the buffer with the given list.
func (s *Store) Save(parts []*model.Part) error {
	const op = "localstore.Save"

	entries := make([]bufferedPart, 0, len(parts))
	for _, p := range parts {
		if p == nil {
			continue
		}
		entries = append(entries, bufferedPart{
			UUID:         p.UUID,
			Name:         p.Name,
			Category:     string(p.Category),
			UnitPrice:    p.UnitPrice.String(),
			Quantity:     p.Quantity,
			Vendor:       p.Vendor,
			PurchaseDate: p.PurchaseDate,
			Status:       string(p.Status),
		})
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(bufferKey), raw)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Prepend inserts a part at the head of the buffer, newest first.
func (s *Store) Prepend(p *model.Part) error {
	current, err := s.Load()
	if err != nil {
		return err
	}
	return s.Save(append([]*model.Part{p}, current...))
}

func (s *Store) Clear() error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Delete([]byte(bufferKey))
	})
	if err != nil {
		return fmt.Errorf("localstore.Clear: %w", err)
	}
	return nil
}

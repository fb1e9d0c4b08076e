package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// ErrDuplicateConfirmation - a confirmation is already pending for the message.
var ErrDuplicateConfirmation = errors.New("confirmation already pending for message")

const confirmationsBucket = "confirmations"

// Store tracks pending group confirmations between poll ticks. ListPending
// returns a snapshot, so callers may iterate while others add or remove.
type Store interface {
	Add(PendingConfirmation) error
	Remove(messageID string) error
	ListPending() ([]PendingConfirmation, error)
}

// BoltStore persists pending confirmations so in-flight group requests
// survive a process restart.
type BoltStore struct {
	db *bolt.DB
}

// OpenBolt opens (or creates) the database file at path.
func OpenBolt(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 10 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(confirmationsBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BoltStore{db: db}, nil
}

// Add stores a new pending confirmation, rejecting a second record for the
// same message.
func (s *BoltStore) Add(pc PendingConfirmation) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(confirmationsBucket))
		if b.Get([]byte(pc.MessageID)) != nil {
			return ErrDuplicateConfirmation
		}
		bts, err := json.Marshal(pc)
		if err != nil {
			return err
		}
		return b.Put([]byte(pc.MessageID), bts)
	})
}

// Remove deletes the confirmation for a message. No-op if absent.
func (s *BoltStore) Remove(messageID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(confirmationsBucket)).Delete([]byte(messageID))
	})
}

// ListPending returns every tracked confirmation.
func (s *BoltStore) ListPending() ([]PendingConfirmation, error) {
	var out []PendingConfirmation
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(confirmationsBucket)).ForEach(func(_, v []byte) error {
			var pc PendingConfirmation
			if err := json.Unmarshal(v, &pc); err != nil {
				return err
			}
			out = append(out, pc)
			return nil
		})
	})
	return out, err
}

// Close - close DB connection. Closed in main.go defer.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

package store

import (
	"encoding/json"
	"fmt"
	"strconv"

	"go.etcd.io/bbolt"

	"doctrans/internal/domain"
)

var (
	bucketIRs   = []byte("irs")
	bucketFiles = []byte("files")
	bucketMeta  = []byte("meta")
)

// BoltStore is the persistent parse cache. IRs are keyed by a hash of the
// docstring text and the parse options; file records by absolute path.
type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketIRs, bucketFiles, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) GetIR(key string) (domain.IR, bool, error) {
	var ir domain.IR
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketIRs).Get([]byte(key))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &ir)
	})
	if err != nil {
		return domain.IR{}, false, fmt.Errorf("failed to read ir %s: %w", key, err)
	}
	if found && ir.Params == nil {
		ir.Params = []domain.Param{}
	}
	return ir, found, nil
}

func (s *BoltStore) PutIR(key string, ir domain.IR) error {
	data, err := json.Marshal(ir)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketIRs).Put([]byte(key), data)
	})
}

// Count returns the number of cached IRs.
func (s *BoltStore) Count() (int, error) {
	var n int
	err := s.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketIRs).Stats().KeyN
		return nil
	})
	return n, err
}

func (s *BoltStore) GetFile(path string) (domain.FileRecord, bool, error) {
	var rec domain.FileRecord
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketFiles).Get([]byte(path))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &rec)
	})
	if err != nil {
		return domain.FileRecord{}, false, fmt.Errorf("failed to read file record %s: %w", path, err)
	}
	return rec, found, nil
}

// PutFiles stores the records of one scan in a single transaction.
func (s *BoltStore) PutFiles(records map[string]domain.FileRecord) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketFiles)
		for path, rec := range records {
			data, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(path), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// Stats summarises the cache contents.
type Stats struct {
	IRs   int `json:"irs"`
	Files int `json:"files"`
}

func (s *BoltStore) Stats() (Stats, error) {
	var st Stats
	err := s.db.View(func(tx *bbolt.Tx) error {
		st.IRs = tx.Bucket(bucketIRs).Stats().KeyN
		st.Files = tx.Bucket(bucketFiles).Stats().KeyN
		return nil
	})
	return st, err
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) getMeta(tx *bbolt.Tx, key []byte) string {
	return string(tx.Bucket(bucketMeta).Get(key))
}

func (s *BoltStore) putMetaInt(tx *bbolt.Tx, key []byte, v int) error {
	return tx.Bucket(bucketMeta).Put(key, []byte(strconv.Itoa(v)))
}

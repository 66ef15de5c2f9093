package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"

	"go.etcd.io/bbolt"

	"doctrans/config"
)

// CurrentSchemaVersion is the current schema version.
// Increment this when making breaking changes to the storage format.
const CurrentSchemaVersion = 2

var (
	keySchemaVersion = []byte("schema_version")
	keyConfigHash    = []byte("config_hash")
)

// SchemaInfo stores schema version and configuration hash.
type SchemaInfo struct {
	Version    int    `json:"version"`
	ConfigHash string `json:"config_hash"`
}

// GetSchemaInfo retrieves the current schema info from the database.
func (s *BoltStore) GetSchemaInfo() (*SchemaInfo, error) {
	var info SchemaInfo
	err := s.db.View(func(tx *bbolt.Tx) error {
		if v := s.getMeta(tx, keySchemaVersion); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				n = 1
			}
			info.Version = n
		}
		info.ConfigHash = s.getMeta(tx, keyConfigHash)
		return nil
	})
	return &info, err
}

// SetSchemaInfo stores the schema info in the database.
func (s *BoltStore) SetSchemaInfo(info *SchemaInfo) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := s.putMetaInt(tx, keySchemaVersion, info.Version); err != nil {
			return err
		}
		return tx.Bucket(bucketMeta).Put(keyConfigHash, []byte(info.ConfigHash))
	})
}

// ComputeConfigHash hashes the configuration that shapes stored scan
// results. Changes to this hash indicate the file records are stale.
func ComputeConfigHash(cfg *config.Config) string {
	relevant := struct {
		EmitDefaultDoc bool   `json:"emit_default_doc"`
		Style          string `json:"style"`
	}{
		EmitDefaultDoc: cfg.Parse.EmitDefaultDoc,
		Style:          cfg.Parse.Style,
	}

	data, _ := json.Marshal(relevant)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}

// MigrationResult describes the result of a migration check.
type MigrationResult struct {
	NeedsMigration bool
	NeedsRebuild   bool
	OldVersion     int
	NewVersion     int
	Reason         string
}

// CheckMigration checks if migration or rebuild is needed.
func (s *BoltStore) CheckMigration(cfg *config.Config) (*MigrationResult, error) {
	info, err := s.GetSchemaInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to get schema info: %w", err)
	}

	result := &MigrationResult{
		OldVersion: info.Version,
		NewVersion: CurrentSchemaVersion,
	}

	switch {
	case info.Version == 0:
		result.NeedsMigration = true
		result.Reason = "initializing schema version"
	case info.Version < CurrentSchemaVersion:
		result.NeedsMigration = true
		result.Reason = fmt.Sprintf("schema upgrade from v%d to v%d", info.Version, CurrentSchemaVersion)
	case info.Version > CurrentSchemaVersion:
		result.NeedsRebuild = true
		result.Reason = fmt.Sprintf("cache created by newer version (v%d > v%d)", info.Version, CurrentSchemaVersion)
		return result, nil
	}

	newHash := ComputeConfigHash(cfg)
	if info.ConfigHash != "" && info.ConfigHash != newHash {
		result.NeedsRebuild = true
		result.Reason = "parse configuration changed"
	}

	return result, nil
}

// Migrate performs any necessary schema migrations and records the current
// configuration hash.
func (s *BoltStore) Migrate(cfg *config.Config) error {
	info, err := s.GetSchemaInfo()
	if err != nil {
		return err
	}

	for v := info.Version; v < CurrentSchemaVersion; v++ {
		if err := s.runMigration(v, v+1); err != nil {
			return fmt.Errorf("migration from v%d to v%d failed: %w", v, v+1, err)
		}
	}

	return s.SetSchemaInfo(&SchemaInfo{
		Version:    CurrentSchemaVersion,
		ConfigHash: ComputeConfigHash(cfg),
	})
}

// runMigration runs a specific version migration.
func (s *BoltStore) runMigration(from, to int) error {
	switch {
	case from == 0 && to == 1:
		return nil
	case from == 1 && to == 2:
		// v1 file records carried no symbol list.
		return s.clearBuckets(bucketFiles)
	default:
		return nil
	}
}

// Clear removes all cached data, keeping the schema metadata.
func (s *BoltStore) Clear() error {
	return s.clearBuckets(bucketIRs, bucketFiles)
}

func (s *BoltStore) clearBuckets(names ...[]byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range names {
			if err := tx.DeleteBucket(name); err != nil && err != bbolt.ErrBucketNotFound {
				return err
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return err
			}
		}
		return nil
	})
}

// Prepare migrates the schema and drops stale scan results. It reports why
// the cache was reset, or "" when it was kept.
func (s *BoltStore) Prepare(cfg *config.Config) (string, error) {
	result, err := s.CheckMigration(cfg)
	if err != nil {
		return "", err
	}
	if result.NeedsRebuild {
		if err := s.Clear(); err != nil {
			return "", fmt.Errorf("failed to clear cache: %w", err)
		}
	}
	if result.NeedsRebuild || result.NeedsMigration {
		if err := s.Migrate(cfg); err != nil {
			return "", err
		}
	}
	if result.NeedsRebuild {
		return result.Reason, nil
	}
	return "", nil
}

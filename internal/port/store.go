package port

import "doctrans/internal/domain"

// IRStore persists parsed IR keyed by a content hash.
type IRStore interface {
	GetIR(key string) (domain.IR, bool, error)

	PutIR(key string, ir domain.IR) error

	Count() (int, error)

	Clear() error

	Close() error
}

// FileStore remembers per-file scan results between runs.
type FileStore interface {
	GetFile(path string) (domain.FileRecord, bool, error)

	PutFiles(records map[string]domain.FileRecord) error
}

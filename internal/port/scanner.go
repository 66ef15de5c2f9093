package port

import "doctrans/internal/domain"

// SourceScanner finds documented symbols in Python source.
type SourceScanner interface {
	Scan(content string) ([]domain.Symbol, error)
}

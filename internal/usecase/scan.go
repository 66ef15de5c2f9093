package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"doctrans/internal/adapter/docstring"
	"doctrans/internal/adapter/pysource"
	"doctrans/internal/domain"
	"doctrans/internal/logger"
	"doctrans/internal/port"
)

// SourceTree lists and reads source files.
type SourceTree interface {
	port.FileWalker
	port.FileReader
}

// ProgressFunc is called once per finished file. Calls are serialized.
type ProgressFunc func(processed, total int, path string)

type hitCounter interface {
	Hits() int64
}

// ScanUseCase extracts the docstrings of every def and class under a root
// and parses them into IR.
type ScanUseCase struct {
	tree    SourceTree
	scanner port.SourceScanner
	parser  port.DocstringParser
	files   port.FileStore
	opts    domain.ParseOptions
	workers int
	log     *zap.SugaredLogger
}

// NewScanUseCase creates a new scan use case. files may be nil, in which
// case every file is parsed on every run.
func NewScanUseCase(
	tree SourceTree,
	scanner port.SourceScanner,
	parser port.DocstringParser,
	files port.FileStore,
	opts domain.ParseOptions,
	workers int,
	log *zap.SugaredLogger,
) *ScanUseCase {
	if workers <= 0 {
		workers = 1
	}
	if log == nil {
		log = logger.Logger
	}
	return &ScanUseCase{
		tree:    tree,
		scanner: scanner,
		parser:  parser,
		files:   files,
		opts:    opts,
		workers: workers,
		log:     log,
	}
}

type fileResult struct {
	symbols []domain.SymbolDoc
	err     error
	skipped bool
	record  *domain.FileRecord
}

// Scan walks root and parses every symbol docstring it finds. Failures of a
// single file or symbol are recorded in the result; only walking and
// cancellation abort the scan.
func (u *ScanUseCase) Scan(ctx context.Context, root string, progress ProgressFunc) (*domain.ScanResult, error) {
	start := time.Now()

	files, err := u.tree.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	var hitsBefore int64
	if hc, ok := u.parser.(hitCounter); ok {
		hitsBefore = hc.Hits()
	}

	results := make([]fileResult, len(files))
	var (
		mu        sync.Mutex
		processed int
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(u.workers)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = u.scanFile(file)

			mu.Lock()
			processed++
			if progress != nil {
				progress(processed, len(files), file.Path)
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &domain.ScanResult{
		FilesScanned: len(files),
		Symbols:      []domain.SymbolDoc{},
	}
	records := make(map[string]domain.FileRecord)
	for i, fr := range results {
		path := files[i].Path
		if fr.err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", path, fr.err))
			continue
		}
		if fr.skipped {
			result.FilesSkipped++
		}
		if fr.record != nil {
			records[path] = *fr.record
		}
		for _, sd := range fr.symbols {
			if sd.Err != "" {
				result.SymbolsFailed++
			} else {
				result.SymbolsParsed++
			}
			result.Symbols = append(result.Symbols, sd)
		}
	}

	if hc, ok := u.parser.(hitCounter); ok {
		result.CacheHits = int(hc.Hits() - hitsBefore)
	}

	if u.files != nil && len(records) > 0 {
		if err := u.files.PutFiles(records); err != nil {
			u.log.Warnw("failed to store file records", logger.FieldError, err)
		}
	}

	u.log.Infow("scan complete",
		logger.FieldCount, len(files),
		"symbols", len(result.Symbols),
		"failed", result.SymbolsFailed,
		logger.FieldCacheHits, result.CacheHits,
		logger.FieldDuration, time.Since(start).Milliseconds(),
	)
	return result, nil
}

// scanFile parses one file, or reuses the stored symbols when its size and
// modification time are unchanged.
func (u *ScanUseCase) scanFile(file port.FileInfo) fileResult {
	if u.files != nil {
		rec, found, err := u.files.GetFile(file.Path)
		if err != nil {
			u.log.Warnw("failed to read file record", logger.FieldPath, file.Path, logger.FieldError, err)
		} else if found && rec.ModTime == file.ModTime && rec.Size == file.Size {
			u.log.Debugw("file unchanged", logger.FieldPath, file.Path)
			return fileResult{symbols: rec.Symbols, skipped: true}
		}
	}

	content, err := u.tree.ReadFile(file.Path)
	if err != nil {
		return fileResult{err: fmt.Errorf("failed to read file: %w", err)}
	}
	symbols, err := u.scanner.Scan(content)
	if err != nil {
		u.log.Warnw("failed to scan file", logger.FieldPath, file.Path, logger.FieldError, err)
		return fileResult{err: err}
	}

	docs := make([]domain.SymbolDoc, 0, len(symbols))
	for _, sym := range symbols {
		docs = append(docs, u.parseSymbol(file.Path, sym))
	}
	u.log.Debugw("scanned file", logger.FieldPath, file.Path, logger.FieldCount, len(docs))

	return fileResult{
		symbols: docs,
		record: &domain.FileRecord{
			ModTime: file.ModTime,
			Size:    file.Size,
			Symbols: docs,
		},
	}
}

func (u *ScanUseCase) parseSymbol(path string, sym domain.Symbol) domain.SymbolDoc {
	sd := domain.SymbolDoc{
		Path:   path,
		Symbol: sym.QualifiedName(),
		Kind:   sym.Kind,
		Line:   sym.Line,
	}

	doc := domain.IR{Type: domain.KindStatic, Params: []domain.Param{}}
	if sym.HasDoc {
		style, err := docstring.Sniff(sym.Docstring)
		if err == nil {
			if style == domain.StyleNone && u.opts.Style != "" {
				style = u.opts.Style
			}
			sd.Style = style
		}

		doc, err = u.parser.Parse(sym.Docstring, u.opts)
		if err != nil {
			return u.fail(sd, err)
		}
	}

	ir, err := pysource.SymbolIR(sym, doc, u.opts.EmitDefaultDoc)
	if err != nil {
		return u.fail(sd, err)
	}
	sd.IR = &ir
	return sd
}

func (u *ScanUseCase) fail(sd domain.SymbolDoc, err error) domain.SymbolDoc {
	u.log.Warnw("failed to parse docstring",
		logger.FieldPath, sd.Path,
		logger.FieldSymbol, sd.Symbol,
		logger.FieldLine, sd.Line,
		logger.FieldError, err,
	)
	sd.Err = err.Error()
	return sd
}

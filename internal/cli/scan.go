package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"doctrans/config"
	"doctrans/internal/adapter/cache"
	"doctrans/internal/adapter/docstring"
	"doctrans/internal/adapter/fs"
	"doctrans/internal/adapter/pysource"
	"doctrans/internal/adapter/store"
	"doctrans/internal/domain"
	"doctrans/internal/logger"
	"doctrans/internal/port"
	"doctrans/internal/usecase"
)

var (
	scanJSON     bool
	scanNoCache  bool
	scanFormat   string
	scanStyle    string
	scanEmit     bool
	scanWorkers  int
	scanProgress bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [dir]",
	Short: "Parse every docstring in a Python source tree",
	Long: `Walk a directory, find every module, class and function docstring in
the Python files that match the configured globs, and parse each into the
intermediate representation. Signatures contribute parameter types and
defaults. Parsed results are cached in .doctrans/cache.db.

Examples:
  doctrans scan .                 # Summary table of the current directory
  doctrans scan ./src --json      # Full results as JSON
  doctrans scan --no-cache        # Ignore and leave the cache untouched`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "output as JSON")
	scanCmd.Flags().BoolVar(&scanNoCache, "no-cache", false, "do not read or write the parse cache")
	scanCmd.Flags().StringVarP(&scanFormat, "format", "f", "", "output format: json, yaml or table (default table)")
	scanCmd.Flags().StringVarP(&scanStyle, "style", "s", "", "docstring style hint")
	scanCmd.Flags().BoolVar(&scanEmit, "emit-default-doc", false, `keep "Defaults to" phrases in doc text`)
	scanCmd.Flags().IntVarP(&scanWorkers, "workers", "w", 0, "files parsed concurrently (default from config)")
	scanCmd.Flags().BoolVar(&scanProgress, "progress", true, "show a progress bar on stderr")
}

func runScan(cmd *cobra.Command, args []string) error {
	path := GetRootDir()
	if len(args) > 0 {
		var err error
		path, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid path: %w", err)
		}
	}

	info, err := appFs.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	cfg := GetConfig()
	opts, err := parseOptions(cmd, scanStyle, scanEmit)
	if err != nil {
		return err
	}
	workers := cfg.Scan.Workers
	if scanWorkers > 0 {
		workers = scanWorkers
	}

	format := "table"
	switch {
	case scanJSON:
		format = "json"
	case scanFormat != "":
		format = scanFormat
	}

	var (
		parser port.DocstringParser = docstring.NewParser()
		files  port.FileStore
	)
	if cfg.Cache.Enabled && !scanNoCache {
		st, err := openCache(path, cfg, opts)
		if err != nil {
			return err
		}
		defer st.Close()
		parser = cache.NewCachedParser(parser, cache.NewParseCache(cfg.Cache.MemoryEntries), st)
		files = st
	} else if cfg.Cache.MemoryEntries > 0 {
		parser = cache.NewCachedParser(parser, cache.NewParseCache(cfg.Cache.MemoryEntries), nil)
	}

	scanUC := usecase.NewScanUseCase(
		fs.NewWalker(appFs, cfg.Scan.Includes, cfg.Scan.Excludes),
		pysource.NewScanner(),
		parser,
		files,
		opts,
		workers,
		logger.Logger,
	)

	var progress usecase.ProgressFunc
	if scanProgress && format == "table" {
		progress = newProgress(cmd.ErrOrStderr())
	}

	result, err := scanUC.Scan(cmd.Context(), path, progress)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if format == "table" {
		writeScanTable(cmd.OutOrStdout(), path, result)
		return nil
	}
	return writeValue(cmd.OutOrStdout(), result, format)
}

// openCache opens the project cache and drops it when it was written by
// another schema or parse configuration.
func openCache(root string, cfg *config.Config, opts domain.ParseOptions) (*store.BoltStore, error) {
	if err := config.EnsureDir(root); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", config.DirName, err)
	}
	st, err := store.NewBoltStore(config.CacheDBPath(root))
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	effective := *cfg
	effective.Parse.Style = string(opts.Style)
	effective.Parse.EmitDefaultDoc = opts.EmitDefaultDoc
	reason, err := st.Prepare(&effective)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to prepare cache: %w", err)
	}
	if reason != "" {
		logger.Logger.Infow("cache cleared", logger.FieldReason, reason)
	}
	return st, nil
}

func newProgress(w io.Writer) usecase.ProgressFunc {
	var bar *progressbar.ProgressBar
	var barMu sync.Mutex
	var startTime time.Time

	return func(processed, total int, currentFile string) {
		barMu.Lock()
		defer barMu.Unlock()

		if bar == nil {
			startTime = time.Now()
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(w),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Scanning[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(w)
				}),
			)
		}

		bar.Set(processed)

		if processed > 0 {
			elapsed := time.Since(startTime)
			rate := float64(processed) / elapsed.Seconds()
			remaining := total - processed
			if rate > 0 {
				eta := time.Duration(float64(remaining)/rate) * time.Second
				bar.Describe(fmt.Sprintf("[cyan]Scanning[reset] ETA: %s", formatDuration(eta)))
			}
		}
	}
}

func writeScanTable(w io.Writer, root string, result *domain.ScanResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Location", "Symbol", "Kind", "Style", "Params", "Status"})
	for _, s := range result.Symbols {
		loc := s.Path
		if rel, err := filepath.Rel(root, s.Path); err == nil {
			loc = rel
		}
		params, status := "", "ok"
		if s.IR != nil {
			params = fmt.Sprint(len(s.IR.Params))
		}
		if s.Err != "" {
			status = truncate(s.Err, 50)
		}
		t.AppendRow(table.Row{fmt.Sprintf("%s:%d", loc, s.Line), s.Symbol, s.Kind, s.Style, params, status})
	}
	t.SetStyle(table.StyleLight)
	t.Render()

	fmt.Fprintf(w, "\nScan complete:\n")
	fmt.Fprintf(w, "  Files scanned:   %d\n", result.FilesScanned)
	fmt.Fprintf(w, "  Files skipped:   %d (unchanged)\n", result.FilesSkipped)
	fmt.Fprintf(w, "  Symbols parsed:  %d\n", result.SymbolsParsed)
	fmt.Fprintf(w, "  Symbols failed:  %d\n", result.SymbolsFailed)
	fmt.Fprintf(w, "  Cache hits:      %d\n", result.CacheHits)

	if len(result.Errors) > 0 {
		fmt.Fprintf(w, "\nWarnings:\n")
		for _, e := range result.Errors {
			fmt.Fprintf(w, "  - %s\n", e)
		}
	}
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}

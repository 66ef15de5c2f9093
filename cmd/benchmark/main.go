package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"doctrans/config"
	"doctrans/internal/adapter/docstring"
	"doctrans/internal/adapter/fs"
	"doctrans/internal/adapter/pysource"
	"doctrans/internal/domain"
)

type styleStats struct {
	docstrings int
	failed     int
	roundTrip  int
	elapsed    time.Duration
}

func main() {
	dir := flag.String("dir", ".", "Python source tree to benchmark against")
	rounds := flag.Int("n", 5, "Parse rounds per docstring")
	flag.Parse()

	if *rounds <= 0 {
		fmt.Println("Usage: go run cmd/benchmark/main.go -dir ./src -n 5")
		fmt.Println("\nMeasures:")
		fmt.Println("  1. Parse throughput per docstring style")
		fmt.Println("  2. Render/parse round-trip stability")
		os.Exit(1)
	}

	cfg, err := config.LoadFromDir(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	walker := fs.NewOsWalker(cfg.Scan.Includes, cfg.Scan.Excludes)
	files, err := walker.Walk(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error walking %s: %v\n", *dir, err)
		os.Exit(1)
	}

	scanner := pysource.NewScanner()
	parser := docstring.NewParser()
	stats := make(map[domain.Style]*styleStats)

	for _, file := range files {
		content, err := walker.ReadFile(file.Path)
		if err != nil {
			continue
		}
		symbols, err := scanner.Scan(content)
		if err != nil {
			continue
		}
		for _, sym := range symbols {
			if !sym.HasDoc {
				continue
			}
			measure(parser, sym.Docstring, *rounds, stats)
		}
	}

	fmt.Println("DOCSTRING PARSE BENCHMARK")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Files: %d  Rounds: %d\n\n", len(files), *rounds)

	styles := make([]string, 0, len(stats))
	for s := range stats {
		styles = append(styles, string(s))
	}
	sort.Strings(styles)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Style", "Docstrings", "Failed", "Round trip", "Avg parse"})
	for _, name := range styles {
		s := stats[domain.Style(name)]
		parsed := s.docstrings - s.failed
		avg := time.Duration(0)
		if parsed > 0 {
			avg = s.elapsed / time.Duration(parsed*(*rounds))
		}
		t.AppendRow(table.Row{name, s.docstrings, s.failed, fmt.Sprintf("%d/%d", s.roundTrip, parsed), avg})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

func measure(parser *docstring.Parser, text string, rounds int, stats map[domain.Style]*styleStats) {
	style, err := parser.Sniff(text)
	if err != nil {
		style = "mixed"
	}
	s := stats[style]
	if s == nil {
		s = &styleStats{}
		stats[style] = s
	}
	s.docstrings++

	var ir domain.IR
	start := time.Now()
	for i := 0; i < rounds; i++ {
		ir, err = parser.Parse(text, domain.ParseOptions{})
		if err != nil {
			s.failed++
			return
		}
	}
	s.elapsed += time.Since(start)

	if style == domain.StyleNone || style == "mixed" {
		s.roundTrip++
		return
	}
	out, err := parser.Render(ir, style)
	if err != nil {
		return
	}
	again, err := parser.Parse(out, domain.ParseOptions{Style: style})
	if err == nil && sameIR(ir, again) {
		s.roundTrip++
	}
}

func sameIR(a, b domain.IR) bool {
	if a.Doc != b.Doc || len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if a.Params[i] != b.Params[i] {
			return false
		}
	}
	if (a.Returns == nil) != (b.Returns == nil) {
		return false
	}
	return a.Returns == nil || *a.Returns == *b.Returns
}

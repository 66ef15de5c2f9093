package domain

import "strings"

// Style identifies a docstring convention.
type Style string

const (
	StyleNone     Style = "none"
	StyleReST     Style = "rest"
	StyleGoogle   Style = "google"
	StyleNumpydoc Style = "numpydoc"
)

// Styles lists the structured styles in sniffing order.
var Styles = []Style{StyleReST, StyleGoogle, StyleNumpydoc}

// ParseStyle maps user input ("rst", "numpy", ...) to a Style.
func ParseStyle(s string) (Style, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return "", true
	case "none", "plain":
		return StyleNone, true
	case "rest", "rst", "restructuredtext", "sphinx":
		return StyleReST, true
	case "google":
		return StyleGoogle, true
	case "numpydoc", "numpy":
		return StyleNumpydoc, true
	}
	return "", false
}

// ReturnName is the fixed name carried by every return record.
const ReturnName = "return_type"

// IR kind tags.
const (
	KindStatic = "static"
	KindClass  = "class"
	KindMethod = "method"
)

// Param describes one argument or the return value. Empty fields are absent.
type Param struct {
	Name    string `json:"name" yaml:"name"`
	Typ     string `json:"typ,omitempty" yaml:"typ,omitempty"`
	Doc     string `json:"doc,omitempty" yaml:"doc,omitempty"`
	Default string `json:"default,omitempty" yaml:"default,omitempty"`
}

// Required reports whether a caller must supply the parameter.
func (p Param) Required() bool {
	if p.Default != "" {
		return false
	}
	return !IsOptionalType(p.Typ)
}

// IsOptionalType reports whether a type expression admits None.
func IsOptionalType(typ string) bool {
	t := strings.TrimSpace(typ)
	if t == "None" || strings.HasPrefix(t, "Optional[") || strings.HasPrefix(t, "typing.Optional[") {
		return true
	}
	for _, part := range strings.Split(t, "|") {
		if strings.TrimSpace(part) == "None" {
			return true
		}
	}
	return false
}

// IR is the intermediate representation shared by every docstring style
// and by signatures.
type IR struct {
	Name    string  `json:"name,omitempty" yaml:"name,omitempty"`
	Type    string  `json:"type" yaml:"type"`
	Doc     string  `json:"doc" yaml:"doc"`
	Params  []Param `json:"params" yaml:"params"`
	Returns *Param  `json:"returns,omitempty" yaml:"returns,omitempty"`
}

// Param returns the parameter with the given name.
func (ir IR) Param(name string) (Param, bool) {
	for _, p := range ir.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Clone returns a deep copy so pipeline stages never share slices.
func (ir IR) Clone() IR {
	out := ir
	if ir.Params != nil {
		out.Params = make([]Param, len(ir.Params))
		copy(out.Params, ir.Params)
	}
	if ir.Returns != nil {
		r := *ir.Returns
		out.Returns = &r
	}
	return out
}

// ParseOptions controls docstring parsing and rendering.
type ParseOptions struct {
	// Style forces a grammar; empty means sniff.
	Style Style
	// EmitDefaultDoc keeps "Defaults to X" phrasing in doc text.
	EmitDefaultDoc bool
}

// Symbol kinds found in Python source.
const (
	SymbolFunction = "function"
	SymbolMethod   = "method"
	SymbolClass    = "class"
	SymbolModule   = "module"
)

type SymbolDoc struct {
	Path   string `json:"path" yaml:"path"`
	Symbol string `json:"symbol" yaml:"symbol"`
	Kind   string `json:"kind" yaml:"kind"`
	Line   int    `json:"line" yaml:"line"`
	Style  Style  `json:"style,omitempty" yaml:"style,omitempty"`
	IR     *IR    `json:"ir,omitempty" yaml:"ir,omitempty"`
	Err    string `json:"error,omitempty" yaml:"error,omitempty"`
}

type ScanResult struct {
	FilesScanned  int         `json:"files_scanned" yaml:"files_scanned"`
	FilesSkipped  int         `json:"files_skipped" yaml:"files_skipped"`
	SymbolsParsed int         `json:"symbols_parsed" yaml:"symbols_parsed"`
	SymbolsFailed int         `json:"symbols_failed" yaml:"symbols_failed"`
	CacheHits     int         `json:"cache_hits" yaml:"cache_hits"`
	Symbols       []SymbolDoc `json:"symbols" yaml:"symbols"`
	Errors        []string    `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// Symbol is a def or class found in Python source, with its signature
// already split into parameters.
type Symbol struct {
	Name      string
	Kind      string
	Line      int
	Parent    string
	Docstring string
	HasDoc    bool
	Params    []Param
	Returns   *Param
}

// QualifiedName joins the enclosing class and the symbol name.
func (s Symbol) QualifiedName() string {
	if s.Parent == "" {
		return s.Name
	}
	return s.Parent + "." + s.Name
}

// FileRecord is what a scan remembers about one source file so unchanged
// files can be skipped on the next run.
type FileRecord struct {
	ModTime int64       `json:"mod_time"`
	Size    int64       `json:"size"`
	Symbols []SymbolDoc `json:"symbols"`
}

// Package catalog defines the fixed list of news categories the ingestion
// cycle walks, and how each one is queried at the provider.
package catalog

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/daniel-odulate22/PulsePoint/internal/domain/entity"
)

// Mode selects how an entry is queried at the provider.
type Mode string

const (
	// ModeTopic queries the provider's own topic section.
	ModeTopic Mode = "by-topic"
	// ModeKeyword runs a free-text search.
	ModeKeyword Mode = "by-keyword"
)

// Valid reports whether m is a known query mode.
func (m Mode) Valid() bool {
	return m == ModeTopic || m == ModeKeyword
}

// Entry is one catalog line. Name is the category articles are stored
// under; it always wins over whatever category the provider reports.
type Entry struct {
	Name   string `yaml:"name"`
	Mode   Mode   `yaml:"mode"`
	Value  string `yaml:"value"`
	Region string `yaml:"region"`
}

// Catalog is an ordered, immutable list of entries.
type Catalog struct {
	entries []Entry
}

// ErrInvalidCatalog is wrapped by every Load validation failure.
var ErrInvalidCatalog = errors.New("invalid catalog")

// New builds a catalog from entries without validating them.
func New(entries ...Entry) *Catalog {
	c := &Catalog{entries: make([]Entry, len(entries))}
	copy(c.entries, entries)
	return c
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return New(
		Entry{Name: "Tech", Mode: ModeTopic, Value: "technology", Region: "us"},
		Entry{Name: "Sports", Mode: ModeTopic, Value: "sports", Region: "us"},
		Entry{Name: "Politics", Mode: ModeKeyword, Value: "politics", Region: "us"},
		Entry{Name: "Health", Mode: ModeTopic, Value: "health", Region: "us"},
		Entry{Name: "Business", Mode: ModeTopic, Value: "business", Region: "us"},
		Entry{Name: "Entertainment", Mode: ModeTopic, Value: "entertainment", Region: "us"},
		Entry{Name: "Science", Mode: ModeTopic, Value: "science", Region: "us"},
		Entry{Name: "Crime", Mode: ModeKeyword, Value: "crime", Region: "us"},
		Entry{Name: "Nigeria", Mode: ModeTopic, Value: "general", Region: "ng"},
	)
}

// Entries returns a copy of the entries in catalog order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }

// Names returns the entry names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.Name
	}
	return names
}

type document struct {
	Entries []Entry `yaml:"entries"`
}

// Load reads a YAML catalog. ${VAR} references are expanded from the
// environment before parsing.
// The path parameter is expected to come from a trusted source (flag or env).
func Load(path string) (*Catalog, error) {
	// #nosec G304 -- path is provided by the operator, not user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file %s: %w", path, err)
	}
	return Parse([]byte(os.ExpandEnv(string(data))))
}

// Parse decodes and validates a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := validate(doc.Entries); err != nil {
		return nil, err
	}
	return New(doc.Entries...), nil
}

// MarshalYAML renders the catalog in the same shape Load reads.
func (c *Catalog) MarshalYAML() (interface{}, error) {
	return document{Entries: c.Entries()}, nil
}

func validate(entries []Entry) error {
	if len(entries) == 0 {
		return fmt.Errorf("%w: no entries", ErrInvalidCatalog)
	}
	seen := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		switch {
		case e.Name == "":
			return fmt.Errorf("%w: entry %d: name is required", ErrInvalidCatalog, i)
		case !entity.Category(e.Name).Valid():
			return fmt.Errorf("%w: entry %d: unknown category %q", ErrInvalidCatalog, i, e.Name)
		case !e.Mode.Valid():
			return fmt.Errorf("%w: entry %q: unknown mode %q", ErrInvalidCatalog, e.Name, e.Mode)
		case e.Value == "":
			return fmt.Errorf("%w: entry %q: value is required", ErrInvalidCatalog, e.Name)
		}
		if _, dup := seen[e.Name]; dup {
			return fmt.Errorf("%w: duplicate entry %q", ErrInvalidCatalog, e.Name)
		}
		seen[e.Name] = struct{}{}
	}
	return nil
}

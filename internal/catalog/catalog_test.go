package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefault(t *testing.T) {
	c := Default()

	assert.Equal(t, 9, c.Len())
	assert.Equal(t, []string{
		"Tech", "Sports", "Politics", "Health", "Business",
		"Entertainment", "Science", "Crime", "Nigeria",
	}, c.Names())

	entries := c.Entries()
	assert.Equal(t, Entry{Name: "Politics", Mode: ModeKeyword, Value: "politics", Region: "us"}, entries[2])
	assert.Equal(t, Entry{Name: "Nigeria", Mode: ModeTopic, Value: "general", Region: "ng"}, entries[8])
	require.NoError(t, validate(entries))
}

func TestEntries_ReturnsCopy(t *testing.T) {
	c := Default()
	entries := c.Entries()
	entries[0].Name = "Mutated"

	assert.Equal(t, "Tech", c.Entries()[0].Name)
}

func TestNew_CopiesInput(t *testing.T) {
	in := []Entry{{Name: "Tech", Mode: ModeTopic, Value: "technology"}}
	c := New(in...)
	in[0].Value = "changed"

	assert.Equal(t, "technology", c.Entries()[0].Value)
}

func TestLoad(t *testing.T) {
	t.Setenv("PP_REGION", "ng")
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := `
entries:
  - name: Nigeria
    mode: by-topic
    value: general
    region: ${PP_REGION}
  - name: Crime
    mode: by-keyword
    value: crime
    region: us
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Name: "Nigeria", Mode: ModeTopic, Value: "general", Region: "ng"},
		{Name: "Crime", Mode: ModeKeyword, Value: "crime", Region: "us"},
	}, c.Entries())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", "entries: []"},
		{"missing name", "entries:\n  - mode: by-topic\n    value: x"},
		{"unknown category", "entries:\n  - name: Weather\n    mode: by-topic\n    value: x"},
		{"lowercase category", "entries:\n  - name: tech\n    mode: by-topic\n    value: x"},
		{"unknown mode", "entries:\n  - name: Tech\n    mode: by-source\n    value: x"},
		{"missing value", "entries:\n  - name: Tech\n    mode: by-topic"},
		{"duplicate", "entries:\n  - name: Tech\n    mode: by-topic\n    value: a\n  - name: Tech\n    mode: by-keyword\n    value: b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("entries: [unterminated"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCatalog)
}

func TestMarshalYAML_RoundTripsThroughParse(t *testing.T) {
	out, err := yaml.Marshal(Default())
	require.NoError(t, err)

	c, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, Default().Entries(), c.Entries())
}

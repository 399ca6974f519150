package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefixTable_Order(t *testing.T) {
	table := &PrefixTable{}
	require.NoError(t, table.Add("b", "http://b.example/"))
	require.NoError(t, table.Add("a", "http://a.example/"))

	assert.Equal(t, []Prefix{
		{Label: "b", Stem: "http://b.example/"},
		{Label: "a", Stem: "http://a.example/"},
	}, table.Entries())
	assert.Equal(t, 2, table.Len())
}

func TestPrefixTable_Validation(t *testing.T) {
	tests := []struct {
		name  string
		label string
		stem  string
	}{
		{"empty label", "", "http://example.org/"},
		{"colon in label", "ex:", "http://example.org/"},
		{"space in label", "e x", "http://example.org/"},
		{"blank node label", "_", "http://example.org/"},
		{"empty stem", "ex", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&PrefixTable{}).Add(tt.label, tt.stem)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidPrefix)
		})
	}
}

func TestPrefixTable_DuplicateLabel(t *testing.T) {
	_, err := NewPrefixTable(
		Prefix{Label: "ex", Stem: "http://example.org/"},
		Prefix{Label: "ex", Stem: "http://example.net/"},
	)
	assert.ErrorIs(t, err, ErrInvalidPrefix)
}

func TestPrefixTable_ShortenExpand(t *testing.T) {
	table, err := NewPrefixTable(Prefix{Label: "ex", Stem: "http://example.org/"})
	require.NoError(t, err)

	short, ok := table.Shorten("http://example.org/Alice")
	require.True(t, ok)
	assert.Equal(t, "ex:Alice", short)

	_, ok = table.Shorten("http://example.net/Alice")
	assert.False(t, ok)

	full, ok := table.Expand("ex:Alice")
	require.True(t, ok)
	assert.Equal(t, "http://example.org/Alice", full)

	_, ok = table.Expand("exa:Alice")
	assert.False(t, ok)
	_, ok = table.Expand("ex")
	assert.False(t, ok)
}

func TestPrefixTable_NilSafe(t *testing.T) {
	var table *PrefixTable
	assert.Equal(t, 0, table.Len())
	assert.Nil(t, table.Entries())
	assert.False(t, table.Remove("ex"))
	_, ok := table.Lookup("ex")
	assert.False(t, ok)
	_, ok = table.Shorten("http://example.org/")
	assert.False(t, ok)
	_, ok = table.Expand("ex:a")
	assert.False(t, ok)
}

func TestPrefixTable_Remove(t *testing.T) {
	table, err := NewPrefixTable(
		Prefix{Label: "ex", Stem: "http://example.org/"},
		Prefix{Label: "foaf", Stem: "http://xmlns.com/foaf/0.1/"},
	)
	require.NoError(t, err)

	assert.True(t, table.Remove("ex"))
	assert.False(t, table.Remove("ex"))

	stem, ok := table.Lookup("foaf")
	require.True(t, ok)
	assert.Equal(t, "http://xmlns.com/foaf/0.1/", stem)

	// A removed label can be re-added with a different stem.
	require.NoError(t, table.Add("ex", "http://example.net/"))
}

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	cases := map[string]string{
		"Kopi & Teh":       "kopi-teh",
		"  Minuman Dingin ": "minuman-dingin",
		"Electronics":      "electronics",
		"A  B   C":         "a-b-c",
		"--weird--":        "weird",
		"123 OK":           "123-ok",
	}
	for in, want := range cases {
		assert.Equal(t, want, GenerateSlug(in), "input %q", in)
	}
}

func TestValidSlug(t *testing.T) {
	assert.True(t, ValidSlug("kopi-teh"))
	assert.True(t, ValidSlug("a1"))
	assert.False(t, ValidSlug("Kopi"))
	assert.False(t, ValidSlug("kopi--teh"))
	assert.False(t, ValidSlug("-kopi"))
	assert.False(t, ValidSlug(""))
}

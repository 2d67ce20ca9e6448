package crawler

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestRegistrableDomain(t *testing.T) {
	assert.Equal(t, "example.com", registrableDomain("www.example.com"))
	assert.Equal(t, "example.com", registrableDomain("docs.example.com"))
	assert.Equal(t, "example.co.uk", registrableDomain("www.example.co.uk"))
	// Hosts without a public suffix fall back to themselves.
	assert.Equal(t, "127.0.0.1", registrableDomain("127.0.0.1"))
	assert.Equal(t, "localhost", registrableDomain("localhost"))
}

func TestSameRegistrableDomain(t *testing.T) {
	a := mustParse(t, "https://www.example.com/x")
	b := mustParse(t, "https://docs.example.com/y")
	c := mustParse(t, "https://other.example.org/z")

	assert.True(t, sameRegistrableDomain(a, b))
	assert.False(t, sameRegistrableDomain(a, c))
	assert.False(t, sameRegistrableDomain(nil, a))
}

func TestResolveLink(t *testing.T) {
	base := mustParse(t, "https://example.com/sub/page.html")

	t.Run("relative", func(t *testing.T) {
		got, ok := resolveLink(base, "/a.pdf")
		require.True(t, ok)
		assert.Equal(t, "https://example.com/a.pdf", got.String())
	})

	t.Run("relative to directory", func(t *testing.T) {
		got, ok := resolveLink(base, "doc.pdf")
		require.True(t, ok)
		assert.Equal(t, "https://example.com/sub/doc.pdf", got.String())
	})

	t.Run("absolute", func(t *testing.T) {
		got, ok := resolveLink(base, "https://other.example/c.pdf")
		require.True(t, ok)
		assert.Equal(t, "https://other.example/c.pdf", got.String())
	})

	t.Run("fragment stripped", func(t *testing.T) {
		got, ok := resolveLink(base, "/page#section")
		require.True(t, ok)
		assert.Equal(t, "https://example.com/page", got.String())
	})

	t.Run("bare fragment rejected", func(t *testing.T) {
		_, ok := resolveLink(base, "#top")
		assert.False(t, ok)
	})

	t.Run("mailto rejected", func(t *testing.T) {
		_, ok := resolveLink(base, "mailto:someone@example.com")
		assert.False(t, ok)
	})

	t.Run("empty rejected", func(t *testing.T) {
		_, ok := resolveLink(base, "  ")
		assert.False(t, ok)
	})
}

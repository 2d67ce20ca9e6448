package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdfexplorer/pdffinder/internal/config"
)

func TestResolveBackends(t *testing.T) {
	assert.Equal(t, []string{"duckduckgo", "engine"}, resolveBackends(&findOptions{}))
	assert.Equal(t, []string{"website"}, resolveBackends(&findOptions{site: "https://a.example"}))
	assert.Equal(t, []string{"engine"}, resolveBackends(&findOptions{
		site:     "https://a.example",
		backends: []string{"engine"},
	}), "explicit backends win over --site")
}

func TestApplyFindOverrides(t *testing.T) {
	cfg, err := config.Load("")
	assert.NoError(t, err)

	applyFindOverrides(&cfg, &findOptions{limit: 5, noVerify: true, output: "x/pdfs.json"})
	assert.Equal(t, 5, cfg.Search.Limit)
	assert.False(t, cfg.Validation.DeepVerify)
	assert.Equal(t, "x/pdfs.json", cfg.Collection.Path)

	applyFindOverrides(&cfg, &findOptions{})
	assert.Equal(t, 5, cfg.Search.Limit, "zero-valued flags leave config untouched")
	assert.Equal(t, "x/pdfs.json", cfg.Collection.Path)
}

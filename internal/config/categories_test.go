package config

import (
	"os"
	"path/filepath"
	"testing"

	"notes/internal/domain/models/content"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCategories_Defaults(t *testing.T) {
	categories, err := LoadCategories("")
	require.NoError(t, err)
	assert.Equal(t, content.DefaultCategories(), categories)
}

func TestLoadCategories_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	data := []byte(`categories:
  - name: Echarts
    collection: echartslist
    storage_prefix: list-content/Echarts/
  - name: Golang
    collection: golanglist
    storage_prefix: list-content/Golang/
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	categories, err := LoadCategories(path)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, content.Category{Name: "Golang", Collection: "golanglist", StoragePrefix: "list-content/Golang/"}, categories[1])
}

func TestLoadCategories_MissingFile(t *testing.T) {
	_, err := LoadCategories(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParseCategories_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", "categories: []"},
		{"not yaml", "categories: [: :"},
		{"bad name", "categories:\n  - {name: 'a-b', collection: ab, storage_prefix: ab/}"},
		{"bad collection", "categories:\n  - {name: Ab, collection: 'Drop Table', storage_prefix: ab/}"},
		{"prefix without slash", "categories:\n  - {name: Ab, collection: ab, storage_prefix: ab}"},
		{"rooted prefix", "categories:\n  - {name: Ab, collection: ab, storage_prefix: /ab/}"},
		{"duplicate name", "categories:\n  - {name: Ab, collection: ab, storage_prefix: ab/}\n  - {name: AB, collection: cd, storage_prefix: cd/}"},
		{"duplicate collection", "categories:\n  - {name: Ab, collection: ab, storage_prefix: ab/}\n  - {name: Cd, collection: ab, storage_prefix: cd/}"},
		{"duplicate mongo collection", "categories:\n  - {name: Ab, collection: ab, storage_prefix: ab/}\n  - {name: Cd, collection: cd, mongo_collection: abs, storage_prefix: cd/}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCategories([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

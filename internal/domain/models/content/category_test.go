package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultCategories_MongoCollections(t *testing.T) {
	want := map[string]string{
		"Echarts":  "echartslists",
		"Webpack":  "webpacklists",
		"Terminal": "terminallists",
	}

	categories := DefaultCategories()
	assert.Len(t, categories, len(want))
	for _, c := range categories {
		assert.Equal(t, want[c.Name], c.MongoCollectionName(), c.Name)
	}
}

func TestCategory_MongoCollectionName(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		want     string
	}{
		{"explicit", Category{Collection: "golanglist", MongoCollection: "golang_items"}, "golang_items"},
		{"pluralized", Category{Collection: "golanglist"}, "golanglists"},
		{"already plural", Category{Collection: "notes"}, "notes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.category.MongoCollectionName())
		})
	}
}

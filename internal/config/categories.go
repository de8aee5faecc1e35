package config

import (
	"fmt"
	"os"
	"strings"

	"notes/internal/domain/models/content"

	"gopkg.in/yaml.v3"
)

type categoriesFile struct {
	Categories []content.Category `yaml:"categories"`
}

// LoadCategories returns the category table. An empty path yields the
// built-in defaults; otherwise the YAML file replaces them entirely:
//
//	categories:
//	  - name: Echarts
//	    collection: echartslist
//	    mongo_collection: echartslists
//	    storage_prefix: list-content/Echarts/
func LoadCategories(path string) ([]content.Category, error) {
	if path == "" {
		return content.DefaultCategories(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read categories file: %w", err)
	}

	return ParseCategories(data)
}

// ParseCategories parses and validates a YAML category table
func ParseCategories(data []byte) ([]content.Category, error) {
	var file categoriesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse categories: %w", err)
	}

	if len(file.Categories) == 0 {
		return nil, fmt.Errorf("categories file defines no categories")
	}

	seenNames := make(map[string]bool)
	seenCollections := make(map[string]bool)
	seenMongo := make(map[string]bool)
	for i, c := range file.Categories {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("category %d (%q): %w", i, c.Name, err)
		}
		name := strings.ToLower(c.Name)
		if seenNames[name] {
			return nil, fmt.Errorf("duplicate category name %q", c.Name)
		}
		if seenCollections[c.Collection] {
			return nil, fmt.Errorf("duplicate collection %q", c.Collection)
		}
		if seenMongo[c.MongoCollectionName()] {
			return nil, fmt.Errorf("duplicate mongo collection %q", c.MongoCollectionName())
		}
		seenNames[name] = true
		seenCollections[c.Collection] = true
		seenMongo[c.MongoCollectionName()] = true
	}

	return file.Categories, nil
}

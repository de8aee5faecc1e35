package content

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Category is one content list (Echarts, Webpack, Terminal). Each category has
// its own collection in the document store and its own prefix in the bucket.
type Category struct {
	// Name is used in route names, e.g. "Echarts" -> /api/getEchartsList
	Name string `yaml:"name" json:"name"`

	// Collection is the document store collection (table name without prefix)
	Collection string `yaml:"collection" json:"collection"`

	// MongoCollection overrides the MongoDB collection name. When empty the
	// collection name is pluralized the way mongoose names model collections.
	MongoCollection string `yaml:"mongo_collection,omitempty" json:"mongo_collection,omitempty"`

	// StoragePrefix is the object key prefix holding the category's assets.
	// Should end with "/".
	StoragePrefix string `yaml:"storage_prefix" json:"storage_prefix"`
}

var (
	categoryNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`)
	collectionPattern   = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
)

// DefaultCategories returns the built-in category table
func DefaultCategories() []Category {
	return []Category{
		{Name: "Echarts", Collection: "echartslist", MongoCollection: "echartslists", StoragePrefix: "list-content/Echarts/"},
		{Name: "Webpack", Collection: "webpacklist", MongoCollection: "webpacklists", StoragePrefix: "list-content/Webpack/"},
		{Name: "Terminal", Collection: "terminallist", MongoCollection: "terminallists", StoragePrefix: "list-content/Terminal/"},
	}
}

// MongoCollectionName returns the MongoDB collection holding the category's
// items: "echartslist" is stored in "echartslists".
func (c Category) MongoCollectionName() string {
	if c.MongoCollection != "" {
		return c.MongoCollection
	}
	if strings.HasSuffix(c.Collection, "s") {
		return c.Collection
	}
	return c.Collection + "s"
}

// Validate checks that the category can safely be used in routes, table names
// and object prefixes
func (c Category) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required, validation.Match(categoryNamePattern)),
		validation.Field(&c.Collection, validation.Required, validation.Length(1, 48), validation.Match(collectionPattern)),
		validation.Field(&c.MongoCollection, validation.Length(1, 64), validation.Match(collectionPattern)),
		validation.Field(&c.StoragePrefix,
			validation.Required,
			validation.By(func(value interface{}) error {
				prefix, _ := value.(string)
				if !strings.HasSuffix(prefix, "/") {
					return validation.NewError("validation_prefix_slash", "must end with /")
				}
				if strings.HasPrefix(prefix, "/") {
					return validation.NewError("validation_prefix_root", "must not start with /")
				}
				return nil
			}),
		),
	)
}

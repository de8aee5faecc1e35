package mongo

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"notes/internal/domain/models/content"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func TestNewItemRepository_LegacyCollections(t *testing.T) {
	// Connect does not dial; no server is needed to resolve collections
	client, err := mongo.Connect(options.Client().ApplyURI("mongodb://127.0.0.1:27017"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	config := &RepositoryConfig{
		Database: client.Database("notes"),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	want := map[string]string{
		"Echarts":  "echartslists",
		"Webpack":  "webpacklists",
		"Terminal": "terminallists",
	}
	for _, c := range content.DefaultCategories() {
		repo, ok := NewItemRepository(config, c).(*MongoItemRepository)
		require.True(t, ok)
		assert.Equal(t, want[c.Name], repo.coll.Name(), c.Name)
		assert.Equal(t, "notes", repo.coll.Database().Name())
	}
}

func TestBuildFilter_Empty(t *testing.T) {
	assert.Equal(t, bson.M{}, buildFilter(content.ItemFilter{}))
}

func TestBuildFilter_KeywordAndRange(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
	to := time.Date(2024, 1, 31, 23, 59, 59, 0, time.Local)
	re := bson.Regex{Pattern: "chart", Options: "i"}

	got := buildFilter(content.ItemFilter{Keyword: "chart", CreatedFrom: &from, CreatedTo: &to})

	assert.Equal(t, bson.M{"$and": bson.A{
		bson.M{"$or": bson.A{
			bson.M{"Title": re},
			bson.M{"Desc": re},
			bson.M{"Tag": re},
			bson.M{"Content": re},
		}},
		bson.M{"CreatedTime": bson.M{"$gte": from}},
		bson.M{"CreatedTime": bson.M{"$lte": to}},
	}}, got)
}

func TestBuildSet(t *testing.T) {
	now := time.Now()
	body := "body"
	deleted := true

	got := buildSet(&content.ItemPatch{Content: &body, IsDeleted: &deleted, CreatedTime: now})

	assert.Equal(t, bson.M{
		"Content":     "body",
		"IsDelete":    true,
		"CreatedTime": now,
	}, got)
}

func TestItemDocument_ToItem(t *testing.T) {
	id := bson.NewObjectID()
	created := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)

	doc := itemDocument{
		ID:          id,
		Title:       "t",
		Tag:         []string{"x"},
		Desc:        "d",
		Content:     "c",
		CreatedTime: created,
	}

	item := doc.toItem()
	assert.Equal(t, id.Hex(), item.ID)
	assert.Equal(t, "t", item.Title)
	assert.Equal(t, []string{"x"}, item.Tags)
	assert.Equal(t, "d", item.Description)
	assert.Equal(t, "c", item.Content)
	assert.Equal(t, created, item.CreatedTime)
}

func TestItemDocument_ToItemNilTags(t *testing.T) {
	item := (&itemDocument{}).toItem()
	assert.NotNil(t, item.Tags)
	assert.Empty(t, item.Tags)
}

package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"notes/internal/domain"
	"notes/internal/domain/models/content"
	"notes/internal/domain/repositories"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// itemDocument is the stored shape of an item. Field names match the
// legacy notes collections (echartslists, webpacklists, terminallists).
type itemDocument struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	Title       string        `bson:"Title"`
	Tag         []string      `bson:"Tag"`
	Desc        string        `bson:"Desc"`
	Content     string        `bson:"Content"`
	CreatedTime time.Time     `bson:"CreatedTime"`
	IsDelete    bool          `bson:"IsDelete"`
}

func (d *itemDocument) toItem() content.Item {
	tags := d.Tag
	if tags == nil {
		tags = []string{}
	}
	return content.Item{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Tags:        tags,
		Description: d.Desc,
		Content:     d.Content,
		CreatedTime: d.CreatedTime,
		IsDeleted:   d.IsDelete,
	}
}

// MongoItemRepository implements the ItemRepository interface for one collection
type MongoItemRepository struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

// NewItemRepository creates a new item repository for the category's collection
func NewItemRepository(config *RepositoryConfig, category content.Category) repositories.ItemRepository {
	return &MongoItemRepository{
		coll:   config.Database.Collection(category.MongoCollectionName()),
		logger: config.Logger,
	}
}

// Find returns one page of items, most recently inserted first
func (r *MongoItemRepository) Find(ctx context.Context, filter content.ItemFilter, offset, limit int) ([]content.Item, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, buildFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("find items: %w", err)
	}

	var docs []itemDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}

	items := make([]content.Item, 0, len(docs))
	for i := range docs {
		items = append(items, docs[i].toItem())
	}

	return items, nil
}

// Count returns the number of items matching the filter
func (r *MongoItemRepository) Count(ctx context.Context, filter content.ItemFilter) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, buildFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return count, nil
}

// Insert creates a new item and sets its ID
func (r *MongoItemRepository) Insert(ctx context.Context, item *content.Item) error {
	tags := item.Tags
	if tags == nil {
		tags = []string{}
	}

	doc := itemDocument{
		ID:          bson.NewObjectID(),
		Title:       item.Title,
		Tag:         tags,
		Desc:        item.Description,
		Content:     item.Content,
		CreatedTime: item.CreatedTime,
		IsDelete:    item.IsDeleted,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("item %s: %w", doc.ID.Hex(), domain.ErrConflict)
		}
		return fmt.Errorf("insert item: %w", err)
	}

	item.ID = doc.ID.Hex()
	item.Tags = tags
	return nil
}

// Update sets the non-nil fields of patch
func (r *MongoItemRepository) Update(ctx context.Context, id string, patch *content.ItemPatch) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return &domain.NotFoundError{Message: fmt.Sprintf("item %s not found", id)}
	}

	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": buildSet(patch)})
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}

	if result.MatchedCount == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("item %s not found", id)}
	}

	return nil
}

// Delete physically removes an item
func (r *MongoItemRepository) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return &domain.NotFoundError{Message: fmt.Sprintf("item %s not found", id)}
	}

	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	if result.DeletedCount == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("item %s not found", id)}
	}

	return nil
}

// AllContent returns the Content field of every document
func (r *MongoItemRepository) AllContent(ctx context.Context) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"Content": 1})

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("scan all content: %w", err)
	}
	defer cursor.Close(ctx)

	var contents []string
	for cursor.Next(ctx) {
		var doc struct {
			Content string `bson:"Content"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode content: %w", err)
		}
		contents = append(contents, doc.Content)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate content: %w", err)
	}

	return contents, nil
}

// buildFilter translates an ItemFilter into a query document. The keyword is
// used as a case-insensitive regex against every text field.
func buildFilter(filter content.ItemFilter) bson.M {
	var and bson.A

	if filter.Keyword != "" {
		re := bson.Regex{Pattern: filter.Keyword, Options: "i"}
		and = append(and, bson.M{"$or": bson.A{
			bson.M{"Title": re},
			bson.M{"Desc": re},
			bson.M{"Tag": re},
			bson.M{"Content": re},
		}})
	}

	if filter.CreatedFrom != nil {
		and = append(and, bson.M{"CreatedTime": bson.M{"$gte": *filter.CreatedFrom}})
	}

	if filter.CreatedTo != nil {
		and = append(and, bson.M{"CreatedTime": bson.M{"$lte": *filter.CreatedTo}})
	}

	if len(and) == 0 {
		return bson.M{}
	}

	return bson.M{"$and": and}
}

// buildSet translates a patch into the $set document
func buildSet(patch *content.ItemPatch) bson.M {
	set := bson.M{"CreatedTime": patch.CreatedTime}

	if patch.Title != nil {
		set["Title"] = *patch.Title
	}
	if patch.Tags != nil {
		set["Tag"] = *patch.Tags
	}
	if patch.Description != nil {
		set["Desc"] = *patch.Description
	}
	if patch.Content != nil {
		set["Content"] = *patch.Content
	}
	if patch.IsDeleted != nil {
		set["IsDelete"] = *patch.IsDeleted
	}

	return set
}

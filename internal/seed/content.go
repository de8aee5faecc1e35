// Package seed inserts sample content items for local development.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"notes/internal/domain/models/content"
	"notes/internal/domain/repositories"
)

// ContentSeeder seeds sample items into every category
type ContentSeeder struct {
	repos  map[string]repositories.ItemRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewContentSeeder creates a new content seeder
func NewContentSeeder(repos map[string]repositories.ItemRepository, logger *slog.Logger) *ContentSeeder {
	return &ContentSeeder{
		repos:  repos,
		logger: logger,
		now:    time.Now,
	}
}

// SampleItems returns the sample items of a category. Their content links
// one asset under the category prefix so reconciliation keeps it.
func SampleItems(category content.Category, bucket string) []content.Item {
	asset := fmt.Sprintf("https://%s.oss-cn-hangzhou.aliyuncs.com/%scover.png", bucket, category.StoragePrefix)

	return []content.Item{
		{
			Title:       category.Name + " getting started",
			Tags:        []string{category.Name, "intro"},
			Description: "Sample " + category.Name + " note",
			Content:     "# " + category.Name + "\n\n![cover](" + asset + ")\n",
		},
		{
			Title:       category.Name + " cheatsheet",
			Tags:        []string{category.Name},
			Description: "Frequently used snippets",
			Content:     "No images here.\n",
		},
	}
}

// Seed inserts the sample items into every category that is still empty.
// Returns the number of inserted items.
func (s *ContentSeeder) Seed(ctx context.Context, categories []content.Category, bucket string) (int, error) {
	inserted := 0

	for _, category := range categories {
		repo, ok := s.repos[category.Name]
		if !ok {
			return inserted, fmt.Errorf("no item repository for category %s", category.Name)
		}

		count, err := repo.Count(ctx, content.ItemFilter{})
		if err != nil {
			return inserted, fmt.Errorf("count %s items: %w", category.Name, err)
		}
		if count > 0 {
			s.logger.Info("category already has items, skipping",
				"category", category.Name,
				"count", count,
			)
			continue
		}

		for i, item := range SampleItems(category, bucket) {
			// Offset the timestamps so list order is stable
			item.CreatedTime = s.now().Add(time.Duration(i) * time.Second)
			if err := repo.Insert(ctx, &item); err != nil {
				return inserted, fmt.Errorf("insert %s sample: %w", category.Name, err)
			}
			inserted++
		}

		s.logger.Info("category seeded", "category", category.Name)
	}

	return inserted, nil
}

package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"notes/internal/config"
	"notes/internal/domain"
	models "notes/internal/domain/models/content"
	"notes/internal/domain/repositories"
	"notes/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// itemService implements the ItemService interface
type itemService struct {
	repos    map[string]repositories.ItemRepository
	location *time.Location
	now      func() time.Time
	logger   *slog.Logger
}

// NewItemService creates a new item service. repos maps category name to the
// category's repository. Date filters are interpreted in the server's local time.
func NewItemService(repos map[string]repositories.ItemRepository, logger *slog.Logger) services.ItemService {
	return &itemService{
		repos:    repos,
		location: time.Local,
		now:      time.Now,
		logger:   logger,
	}
}

// List returns one page of a category's items and the filtered total
func (s *itemService) List(ctx context.Context, category string, query *models.ListQuery) (*models.ListResult, error) {
	repo, err := s.repo(category)
	if err != nil {
		return nil, err
	}

	query.ApplyDefaults()
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	filter, err := query.Filter(s.location)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	count, err := repo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count %s items: %w", category, err)
	}

	items, err := repo.Find(ctx, filter, query.Offset(), query.Size)
	if err != nil {
		return nil, fmt.Errorf("find %s items: %w", category, err)
	}

	return &models.ListResult{Items: items, Count: count}, nil
}

// Upsert inserts a new item, or updates the fields present in req when req.ID is set.
// CreatedTime is stamped on both paths.
func (s *itemService) Upsert(ctx context.Context, category string, req *services.UpsertItemRequest) (*services.UpsertItemResult, error) {
	repo, err := s.repo(category)
	if err != nil {
		return nil, err
	}

	if err := s.validateUpsertRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := s.now()
	id := strings.TrimSpace(req.ID)

	if id != "" {
		patch := &models.ItemPatch{
			Title:       req.Title,
			Tags:        req.Tags,
			Description: req.Description,
			Content:     req.Content,
			IsDeleted:   req.IsDeleted,
			CreatedTime: now,
		}
		if err := repo.Update(ctx, id, patch); err != nil {
			return nil, err
		}

		s.logger.Info("item updated",
			"category", category,
			"id", id,
		)

		return &services.UpsertItemResult{ID: id, Inserted: false}, nil
	}

	item := &models.Item{
		Title:       deref(req.Title),
		Description: deref(req.Description),
		Content:     deref(req.Content),
		CreatedTime: now,
	}
	if req.Tags != nil {
		item.Tags = *req.Tags
	}
	if req.IsDeleted != nil {
		item.IsDeleted = *req.IsDeleted
	}

	if err := repo.Insert(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("item created",
		"category", category,
		"id", item.ID,
		"title", item.Title,
	)

	return &services.UpsertItemResult{ID: item.ID, Inserted: true}, nil
}

// Delete removes an item. An unknown ID is logged and treated as success.
func (s *itemService) Delete(ctx context.Context, category, id string) error {
	repo, err := s.repo(category)
	if err != nil {
		return err
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return &domain.ValidationError{Message: "id is required"}
	}

	if err := repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Debug("delete of unknown item",
				"category", category,
				"id", id,
			)
			return nil
		}
		return err
	}

	s.logger.Info("item deleted",
		"category", category,
		"id", id,
	)

	return nil
}

func (s *itemService) repo(category string) (repositories.ItemRepository, error) {
	repo, ok := s.repos[category]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownCategory, category)
	}
	return repo, nil
}

// validateUpsertRequest validates field sizes. Every field is optional.
func (s *itemService) validateUpsertRequest(req *services.UpsertItemRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.Length(0, config.MaxTitleLength)),
		validation.Field(&req.Description, validation.Length(0, config.MaxDescriptionLength)),
		validation.Field(&req.Tags, validation.By(validateTags)),
	)
}

// validateTags checks the tag count and the length of each tag
func validateTags(value interface{}) error {
	tags, ok := value.(*[]string)
	if !ok || tags == nil {
		return nil
	}

	if len(*tags) > config.MaxTagCount {
		return fmt.Errorf("at most %d tags allowed", config.MaxTagCount)
	}
	for _, tag := range *tags {
		if len(tag) > config.MaxTagLength {
			return fmt.Errorf("tag %q exceeds %d characters", tag, config.MaxTagLength)
		}
	}

	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package handler

import (
	"log/slog"
	"net/http"
	"time"

	"notes/internal/domain/models/content"
	"notes/internal/domain/services"
	"notes/internal/httputil"
)

// ContentHandler serves the list API of the content categories
type ContentHandler struct {
	itemService services.ItemService
	logger      *slog.Logger
}

// NewContentHandler creates a new content handler
func NewContentHandler(itemService services.ItemService, logger *slog.Logger) *ContentHandler {
	return &ContentHandler{
		itemService: itemService,
		logger:      logger,
	}
}

// itemResponse is the wire form of an item
type itemResponse struct {
	ID          string    `json:"_id"`
	Title       string    `json:"Title"`
	Tags        []string  `json:"Tag"`
	Description string    `json:"Desc"`
	Content     string    `json:"Content"`
	CreatedTime time.Time `json:"CreatedTime"`
	IsDeleted   bool      `json:"IsDelete"`
}

// upsertItemRequest is the body of the insert route. Absent fields are left
// unchanged on update.
type upsertItemRequest struct {
	ID          string                   `json:"id"`
	Title       httputil.OptionalString  `json:"Title"`
	Tags        httputil.OptionalStrings `json:"Tag"`
	Description httputil.OptionalString  `json:"Desc"`
	Content     httputil.OptionalString  `json:"Content"`
	IsDeleted   httputil.OptionalBool    `json:"IsDelete"`
}

func (r *upsertItemRequest) toServiceRequest() *services.UpsertItemRequest {
	return &services.UpsertItemRequest{
		ID:          r.ID,
		Title:       r.Title.Ptr(),
		Tags:        r.Tags.Ptr(),
		Description: r.Description.Ptr(),
		Content:     r.Content.Ptr(),
		IsDeleted:   r.IsDeleted.Ptr(),
	}
}

func toItemResponses(items []content.Item) []itemResponse {
	out := make([]itemResponse, 0, len(items))
	for _, item := range items {
		tags := item.Tags
		if tags == nil {
			tags = []string{}
		}
		out = append(out, itemResponse{
			ID:          item.ID,
			Title:       item.Title,
			Tags:        tags,
			Description: item.Description,
			Content:     item.Content,
			CreatedTime: item.CreatedTime,
			IsDeleted:   item.IsDeleted,
		})
	}
	return out
}

// Register mounts the three list routes of every category on mux
func (h *ContentHandler) Register(mux *http.ServeMux, categories []content.Category) {
	for _, cat := range categories {
		mux.HandleFunc("GET /api/get"+cat.Name+"List", h.ListItems(cat.Name))
		mux.HandleFunc("POST /api/insert"+cat.Name+"ListItem", h.UpsertItem(cat.Name))
		mux.HandleFunc("GET /api/delete"+cat.Name+"Item", h.DeleteItem(cat.Name))
	}
}

// ListItems returns one page of a category's items
// GET /api/get{Name}List?Size&Page&keyword&startTime&endTime
func (h *ContentHandler) ListItems(category string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		size, err := httputil.QueryInt(r, "Size", content.DefaultPageSize)
		if err != nil {
			httputil.RespondEnvelopeFailed(w, "list query failed: "+err.Error())
			return
		}
		page, err := httputil.QueryInt(r, "Page", content.DefaultPage)
		if err != nil {
			httputil.RespondEnvelopeFailed(w, "list query failed: "+err.Error())
			return
		}

		q := r.URL.Query()
		query := &content.ListQuery{
			Keyword:   q.Get("keyword"),
			StartTime: q.Get("startTime"),
			EndTime:   q.Get("endTime"),
			Page:      page,
			Size:      size,
		}

		result, err := h.itemService.List(r.Context(), category, query)
		if err != nil {
			h.logger.Error("list items failed",
				"category", category,
				"error", err,
			)
			httputil.RespondEnvelopeFailed(w, envelopeMessage(err, "list query failed"))
			return
		}

		count := result.Count
		httputil.RespondEnvelope(w, httputil.Envelope{
			Result: toItemResponses(result.Items),
			Count:  &count,
			Status: httputil.EnvelopeOK,
			Msg:    "list query succeeded",
		})
	}
}

// UpsertItem inserts an item, or updates it when the body carries an id
// POST /api/insert{Name}ListItem
func (h *ContentHandler) UpsertItem(category string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req upsertItemRequest
		if err := httputil.ParseJSON(w, r, &req); err != nil {
			httputil.RespondEnvelopeFailed(w, "invalid request body")
			return
		}

		result, err := h.itemService.Upsert(r.Context(), category, req.toServiceRequest())
		if err != nil {
			fallback := "failed to add " + category + " list item"
			if req.ID != "" {
				fallback = "failed to update item"
			}
			h.logger.Error("upsert item failed",
				"category", category,
				"id", req.ID,
				"error", err,
			)
			httputil.RespondEnvelopeFailed(w, envelopeMessage(err, fallback))
			return
		}

		msg := "item updated"
		if result.Inserted {
			msg = "added " + category + " list item"
		}
		httputil.RespondEnvelopeOK(w, nil, msg)
	}
}

// DeleteItem removes an item
// GET /api/delete{Name}Item?id=
func (h *ContentHandler) DeleteItem(category string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")

		if err := h.itemService.Delete(r.Context(), category, id); err != nil {
			h.logger.Error("delete item failed",
				"category", category,
				"id", id,
				"error", err,
			)
			httputil.RespondEnvelopeFailed(w, envelopeMessage(err, "failed to delete item"))
			return
		}

		httputil.RespondEnvelopeOK(w, nil, "item deleted")
	}
}

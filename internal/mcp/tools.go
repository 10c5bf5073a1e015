package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/tesseract-hub/directory-service/internal/models"
	"github.com/tesseract-hub/directory-service/internal/services"
)

// RegisterDirectoryTools wires the directory read surface into the
// dispatcher. Every tool goes through the same query services as the
// HTTP handlers, so public visibility rules hold here too.
func RegisterDirectoryTools(
	server *Server,
	directory *services.DirectoryService,
	categories *services.CategoryService,
	reviews *services.ReviewService,
) {
	server.Register(Tool{
		Name:        "search_businesses",
		Description: "Search active businesses in the directory with optional text, category and location filters",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query":      map[string]interface{}{"type": "string", "description": "Free-text search over name, description, services and tags"},
				"categoryId": map[string]interface{}{"type": "string", "description": "Category UUID"},
				"location":   map[string]interface{}{"type": "string", "description": "Matches city, state or country"},
				"sort":       map[string]interface{}{"type": "string", "enum": []string{"relevance", "rating", "newest", "reviews"}},
				"page":       map[string]interface{}{"type": "integer"},
				"limit":      map[string]interface{}{"type": "integer"},
			},
		},
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			var params struct {
				Query      string `json:"query"`
				CategoryID string `json:"categoryId"`
				Location   string `json:"location"`
				Sort       string `json:"sort"`
				Page       int    `json:"page"`
				Limit      int    `json:"limit"`
			}
			if err := unmarshalArgs(args, &params); err != nil {
				return "", err
			}

			filter := &models.BusinessFilter{
				Query:    params.Query,
				Location: params.Location,
				SortBy:   models.SortKey(params.Sort),
				Page:     params.Page,
				Limit:    params.Limit,
			}
			if params.CategoryID != "" {
				categoryID, err := uuid.Parse(params.CategoryID)
				if err != nil {
					return "", fmt.Errorf("invalid categoryId: %w", err)
				}
				filter.CategoryID = &categoryID
			}

			result, err := directory.Search(ctx, filter)
			if err != nil {
				return "", err
			}
			return marshalResult(result)
		},
	})

	server.Register(Tool{
		Name:        "get_business",
		Description: "Get a single active business by its URL slug, including its derived rating",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"slug": map[string]interface{}{"type": "string"},
			},
			"required": []string{"slug"},
		},
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			var params struct {
				Slug string `json:"slug"`
			}
			if err := unmarshalArgs(args, &params); err != nil {
				return "", err
			}
			if params.Slug == "" {
				return "", fmt.Errorf("slug is required")
			}

			result, err := directory.GetBySlug(ctx, params.Slug)
			if err != nil {
				return "", err
			}
			if !result.IsActive() {
				return "", services.ErrNotFound
			}
			return marshalResult(result)
		},
	})

	server.Register(Tool{
		Name:        "list_categories",
		Description: "List all directory categories with their active business counts",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			result, err := categories.List(ctx)
			if err != nil {
				return "", err
			}
			return marshalResult(map[string]interface{}{
				"categories": result,
				"total":      len(result),
			})
		},
	})

	server.Register(Tool{
		Name:        "get_business_reviews",
		Description: "List visible reviews for a business",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"businessId": map[string]interface{}{"type": "string"},
				"limit":      map[string]interface{}{"type": "integer"},
				"offset":     map[string]interface{}{"type": "integer"},
			},
			"required": []string{"businessId"},
		},
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			var params struct {
				BusinessID string `json:"businessId"`
				Limit      int    `json:"limit"`
				Offset     int    `json:"offset"`
			}
			if err := unmarshalArgs(args, &params); err != nil {
				return "", err
			}

			businessID, err := uuid.Parse(params.BusinessID)
			if err != nil {
				return "", fmt.Errorf("invalid businessId: %w", err)
			}
			if params.Limit <= 0 {
				params.Limit = 20
			}

			result, total, err := reviews.ListForBusiness(ctx, businessID, false, params.Limit, params.Offset)
			if err != nil {
				return "", err
			}
			return marshalResult(map[string]interface{}{
				"reviews": result,
				"total":   total,
			})
		},
	})

	server.Register(Tool{
		Name:        "directory_stats",
		Description: "Get directory-wide business, review and category counts",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			stats, err := directory.Stats(ctx)
			if err != nil {
				return "", err
			}
			return marshalResult(stats)
		},
	})
}

// unmarshalArgs decodes tool arguments, treating absent arguments as an
// empty object
func unmarshalArgs(args json.RawMessage, target interface{}) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, target); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func marshalResult(value interface{}) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return string(data), nil
}

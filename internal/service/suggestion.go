package service

import (
	"context"

	"catalogapi/internal/suggest"
)

// SuggestionService produces AI-backed title/description improvements,
// either from raw input or seeded from an existing catalog item.
type SuggestionService interface {
	// ForInput asks the provider to improve free-form content.
	ForInput(ctx context.Context, title, description string) (*suggest.Suggestion, error)

	// ForItem looks up an item (ErrNotFound when absent) and asks the
	// provider to improve its current content.
	ForItem(ctx context.Context, itemID string) (*suggest.Suggestion, error)
}

type suggestionService struct {
	ai      suggest.Suggester
	catalog CatalogService
}

// NewSuggestionService constructs a new SuggestionService.
func NewSuggestionService(ai suggest.Suggester, catalog CatalogService) SuggestionService {
	return &suggestionService{ai: ai, catalog: catalog}
}

func (s *suggestionService) ForInput(ctx context.Context, title, description string) (*suggest.Suggestion, error) {
	return s.ai.Suggest(ctx, suggest.Request{Title: title, Description: description})
}

func (s *suggestionService) ForItem(ctx context.Context, itemID string) (*suggest.Suggestion, error) {
	item, err := s.catalog.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return s.ai.Suggest(ctx, suggest.Request{Title: item.Title, Description: item.Description})
}

package mocks

import (
	"context"

	"catalogapi/internal/suggest"

	"github.com/stretchr/testify/mock"
)

type MockSuggestionService struct {
	mock.Mock
}

func (m *MockSuggestionService) ForInput(ctx context.Context, title, description string) (*suggest.Suggestion, error) {
	args := m.Called(ctx, title, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*suggest.Suggestion), args.Error(1)
}

func (m *MockSuggestionService) ForItem(ctx context.Context, itemID string) (*suggest.Suggestion, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*suggest.Suggestion), args.Error(1)
}

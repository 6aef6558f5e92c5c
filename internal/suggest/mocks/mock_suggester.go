package mocks

import (
	"context"

	"catalogapi/internal/suggest"

	"github.com/stretchr/testify/mock"
)

type MockSuggester struct {
	mock.Mock
}

func (m *MockSuggester) Suggest(ctx context.Context, req suggest.Request) (*suggest.Suggestion, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*suggest.Suggestion), args.Error(1)
}

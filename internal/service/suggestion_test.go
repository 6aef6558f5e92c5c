package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"catalogapi/internal/model"
	repoMocks "catalogapi/internal/repository/mocks"
	"catalogapi/internal/scoring"
	"catalogapi/internal/suggest"
	suggestMocks "catalogapi/internal/suggest/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSuggestionService_ForInput(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mAI := new(suggestMocks.MockSuggester)
		svc := NewSuggestionService(mAI, nil)

		mAI.On("Suggest", ctx, suggest.Request{Title: "old title", Description: "old desc"}).
			Return(&suggest.Suggestion{SuggestedTitle: "Better Catalog Title", SuggestedDescription: "A much better description"}, nil)

		res, err := svc.ForInput(ctx, "old title", "old desc")

		require.NoError(t, err)
		assert.Equal(t, "Better Catalog Title", res.SuggestedTitle)
		mAI.AssertExpectations(t)
	})

	t.Run("provider error propagates", func(t *testing.T) {
		mAI := new(suggestMocks.MockSuggester)
		svc := NewSuggestionService(mAI, nil)

		mAI.On("Suggest", ctx, mock.Anything).Return(nil, errors.New("provider down"))

		res, err := svc.ForInput(ctx, "t", "d")

		assert.Error(t, err)
		assert.Nil(t, res)
	})
}

func TestSuggestionService_ForItem(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path seeds from the stored item", func(t *testing.T) {
		mAI := new(suggestMocks.MockSuggester)
		mRepo := new(repoMocks.MockCatalogRepository)
		catalog := NewCatalogService(mRepo, nil, scoring.Calculate)
		svc := NewSuggestionService(mAI, catalog)

		mRepo.On("FindByID", ctx, "item-1").
			Return(&model.CatalogItem{ID: "item-1", Title: "stored title", Description: "stored desc"}, nil)
		mAI.On("Suggest", ctx, suggest.Request{Title: "stored title", Description: "stored desc"}).
			Return(&suggest.Suggestion{SuggestedTitle: "Improved", SuggestedDescription: "Improved too"}, nil)

		res, err := svc.ForItem(ctx, "item-1")

		require.NoError(t, err)
		assert.Equal(t, "Improved", res.SuggestedTitle)
		mAI.AssertExpectations(t)
	})

	t.Run("missing item fails before the provider is called", func(t *testing.T) {
		mAI := new(suggestMocks.MockSuggester)
		mRepo := new(repoMocks.MockCatalogRepository)
		catalog := NewCatalogService(mRepo, nil, scoring.Calculate)
		svc := NewSuggestionService(mAI, catalog)

		mRepo.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)

		res, err := svc.ForItem(ctx, "missing")

		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, res)
		mAI.AssertNotCalled(t, "Suggest", mock.Anything, mock.Anything)
	})
}

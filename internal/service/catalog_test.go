package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"catalogapi/internal/model"
	repoMocks "catalogapi/internal/repository/mocks"
	"catalogapi/internal/scoring"
	"catalogapi/internal/storage"
	storeMocks "catalogapi/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// echoItem makes repo Create/Update hand back the item the service persisted,
// so assertions can run against the stored state.
func echoItem(ctx context.Context, item *model.CatalogItem) *model.CatalogItem {
	return item
}

func newTestService(repo *repoMocks.MockCatalogRepository, store *storeMocks.MockStorage) CatalogService {
	return NewCatalogService(repo, store, scoring.Calculate)
}

// Content that scores 100 with a unique title:
// base 40 + title 20 + description 15 + category 10 + tags(2) 10 + unique 5.
func highScoringInput() ItemInput {
	return ItemInput{
		Title:       "A Perfectly Sized Title",
		Description: strings.Repeat("very detailed description ", 4),
		Category:    "Electronics",
		Tags:        []string{"t1", "t2"},
	}
}

// Content that scores 40 even with a unique title bonus withheld.
func lowScoringInput() ItemInput {
	return ItemInput{Title: "tiny", Description: "short", Category: "", Tags: nil}
}

func TestCatalogService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		in          ItemInput
		titleExists bool
		wantStatus  model.Status
		wantUnique  int
	}{
		{
			name:        "high score with unique title auto-promotes",
			in:          highScoringInput(),
			titleExists: false,
			wantStatus:  model.StatusPendingApproval,
			wantUnique:  5,
		},
		{
			name:        "duplicate title loses the uniqueness points",
			in:          highScoringInput(),
			titleExists: true,
			wantStatus:  model.StatusPendingApproval, // still 95 >= 70
			wantUnique:  0,
		},
		{
			name:        "low score stays in draft",
			in:          lowScoringInput(),
			titleExists: false,
			wantStatus:  model.StatusDraft,
			wantUnique:  5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockCatalogRepository)
			svc := newTestService(mRepo, nil)

			mRepo.On("ExistsByTitle", ctx, tt.in.Title, "").Return(tt.titleExists, nil)
			mRepo.On("Create", ctx, mock.AnythingOfType("*model.CatalogItem")).Return(echoItem, nil)

			item, err := svc.Create(ctx, tt.in)

			require.NoError(t, err)
			require.NotNil(t, item)
			assert.NotEmpty(t, item.ID)
			assert.Equal(t, tt.wantStatus, item.Status)
			require.NotNil(t, item.QualityScore)
			assert.Equal(t, tt.wantUnique, item.QualityScore.Breakdown.UniqueTitle)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestCatalogService_Create_UniquenessCheckError(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockCatalogRepository)
	svc := newTestService(mRepo, nil)

	mRepo.On("ExistsByTitle", ctx, "Some Title", "").Return(false, errors.New("store down"))

	item, err := svc.Create(ctx, ItemInput{Title: "Some Title"})

	assert.Error(t, err)
	assert.Nil(t, item)
	mRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCatalogService_GetByID(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		setupMocks func(mRepo *repoMocks.MockCatalogRepository)
		wantErr    error
	}{
		{
			name: "happy path",
			id:   "valid-id",
			setupMocks: func(mRepo *repoMocks.MockCatalogRepository) {
				mRepo.On("FindByID", ctx, "valid-id").Return(&model.CatalogItem{ID: "valid-id"}, nil)
			},
		},
		{
			name:       "validation - empty id",
			id:         "",
			setupMocks: func(mRepo *repoMocks.MockCatalogRepository) {},
			wantErr:    ErrIDRequired,
		},
		{
			name: "not found - mapping sql.ErrNoRows",
			id:   "missing-id",
			setupMocks: func(mRepo *repoMocks.MockCatalogRepository) {
				mRepo.On("FindByID", ctx, "missing-id").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockCatalogRepository)
			svc := newTestService(mRepo, nil)
			tt.setupMocks(mRepo)

			item, err := svc.GetByID(ctx, tt.id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, item)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, item)
				assert.Equal(t, tt.id, item.ID)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestCatalogService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("not found issues no uniqueness check or scoring", func(t *testing.T) {
		mRepo := new(repoMocks.MockCatalogRepository)
		svc := newTestService(mRepo, nil)

		mRepo.On("FindByID", ctx, "missing-id").Return(nil, sql.ErrNoRows)

		item, err := svc.Update(ctx, "missing-id", highScoringInput())

		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, item)
		mRepo.AssertNotCalled(t, "ExistsByTitle", mock.Anything, mock.Anything, mock.Anything)
		mRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("uniqueness check excludes the item itself", func(t *testing.T) {
		mRepo := new(repoMocks.MockCatalogRepository)
		svc := newTestService(mRepo, nil)

		existing := model.NewCatalogItem("A Perfectly Sized Title", "old", "", nil)
		in := highScoringInput()

		// The only other item with this title is the item being updated, so
		// the repository reports no duplicate.
		mRepo.On("FindByID", ctx, existing.ID).Return(existing, nil)
		mRepo.On("ExistsByTitle", ctx, in.Title, existing.ID).Return(false, nil)
		mRepo.On("Update", ctx, mock.AnythingOfType("*model.CatalogItem")).Return(echoItem, nil)

		item, err := svc.Update(ctx, existing.ID, in)

		require.NoError(t, err)
		require.NotNil(t, item.QualityScore)
		assert.Equal(t, 5, item.QualityScore.Breakdown.UniqueTitle)
	})

	t.Run("approved item keeps its status after rescoring", func(t *testing.T) {
		mRepo := new(repoMocks.MockCatalogRepository)
		svc := newTestService(mRepo, nil)

		existing := model.NewCatalogItem("A Perfectly Sized Title", "old", "", nil)
		existing.Status = model.StatusApproved

		mRepo.On("FindByID", ctx, existing.ID).Return(existing, nil)
		mRepo.On("ExistsByTitle", ctx, mock.Anything, existing.ID).Return(false, nil)
		mRepo.On("Update", ctx, mock.AnythingOfType("*model.CatalogItem")).Return(echoItem, nil)

		item, err := svc.Update(ctx, existing.ID, highScoringInput())

		require.NoError(t, err)
		assert.Equal(t, model.StatusApproved, item.Status)
	})

	t.Run("draft auto-promotes when rescored above threshold", func(t *testing.T) {
		mRepo := new(repoMocks.MockCatalogRepository)
		svc := newTestService(mRepo, nil)

		existing := model.NewCatalogItem("tiny", "short", "", nil)
		existing.SetQualityScore(model.QualityScore{Total: 45})
		require.Equal(t, model.StatusDraft, existing.Status)

		mRepo.On("FindByID", ctx, existing.ID).Return(existing, nil)
		mRepo.On("ExistsByTitle", ctx, mock.Anything, existing.ID).Return(false, nil)
		mRepo.On("Update", ctx, mock.AnythingOfType("*model.CatalogItem")).Return(echoItem, nil)

		item, err := svc.Update(ctx, existing.ID, highScoringInput())

		require.NoError(t, err)
		assert.Equal(t, model.StatusPendingApproval, item.Status)
	})
}

func TestCatalogService_Approve(t *testing.T) {
	ctx := context.Background()

	t.Run("eligible item is approved and persisted", func(t *testing.T) {
		mRepo := new(repoMocks.MockCatalogRepository)
		svc := newTestService(mRepo, nil)

		item := model.NewCatalogItem("Some Pending Item", "desc", "", nil)
		item.Status = model.StatusPendingApproval
		item.QualityScore = &model.QualityScore{Total: 75}

		mRepo.On("FindByID", ctx, item.ID).Return(item, nil)
		mRepo.On("Update", ctx, mock.AnythingOfType("*model.CatalogItem")).Return(echoItem, nil)

		got, err := svc.Approve(ctx, item.ID)

		require.NoError(t, err)
		assert.Equal(t, model.StatusApproved, got.Status)
		mRepo.AssertExpectations(t)
	})

	t.Run("ineligible item is returned unchanged with no write", func(t *testing.T) {
		mRepo := new(repoMocks.MockCatalogRepository)
		svc := newTestService(mRepo, nil)

		item := model.NewCatalogItem("Some Pending Item", "desc", "", nil)
		item.Status = model.StatusPendingApproval
		item.QualityScore = &model.QualityScore{Total: 65}

		mRepo.On("FindByID", ctx, item.ID).Return(item, nil)

		got, err := svc.Approve(ctx, item.ID)

		require.NoError(t, err)
		assert.Equal(t, model.StatusPendingApproval, got.Status)
		mRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("unscored item is a silent no-op too", func(t *testing.T) {
		mRepo := new(repoMocks.MockCatalogRepository)
		svc := newTestService(mRepo, nil)

		item := model.NewCatalogItem("Unscored Item", "desc", "", nil)

		mRepo.On("FindByID", ctx, item.ID).Return(item, nil)

		got, err := svc.Approve(ctx, item.ID)

		require.NoError(t, err)
		assert.Equal(t, model.StatusDraft, got.Status)
		mRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockCatalogRepository)
		svc := newTestService(mRepo, nil)

		mRepo.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)

		got, err := svc.Approve(ctx, "missing")

		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, got)
	})
}

func TestCatalogService_Reject(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		status model.Status
		score  *model.QualityScore
	}{
		{name: "low scoring draft", status: model.StatusDraft, score: &model.QualityScore{Total: 40}},
		{name: "high scoring pending item", status: model.StatusPendingApproval, score: &model.QualityScore{Total: 110}},
		{name: "unscored item", status: model.StatusDraft, score: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockCatalogRepository)
			svc := newTestService(mRepo, nil)

			item := model.NewCatalogItem("Some Item Title", "desc", "", nil)
			item.Status = tt.status
			item.QualityScore = tt.score

			mRepo.On("FindByID", ctx, item.ID).Return(item, nil)
			mRepo.On("Update", ctx, mock.AnythingOfType("*model.CatalogItem")).Return(echoItem, nil)

			got, err := svc.Reject(ctx, item.ID)

			require.NoError(t, err)
			assert.Equal(t, model.StatusRejected, got.Status)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestCatalogService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path without image", func(t *testing.T) {
		mRepo := new(repoMocks.MockCatalogRepository)
		mStore := new(storeMocks.MockStorage)
		svc := newTestService(mRepo, mStore)

		mRepo.On("FindByID", ctx, "valid-id").Return(&model.CatalogItem{ID: "valid-id"}, nil)
		mRepo.On("Delete", ctx, "valid-id").Return(nil)

		err := svc.Delete(ctx, "valid-id")

		assert.NoError(t, err)
		mStore.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		mRepo.AssertExpectations(t)
	})

	t.Run("image object is removed with the item", func(t *testing.T) {
		mRepo := new(repoMocks.MockCatalogRepository)
		mStore := new(storeMocks.MockStorage)
		svc := newTestService(mRepo, mStore)

		mRepo.On("FindByID", ctx, "valid-id").Return(&model.CatalogItem{ID: "valid-id", ImagePath: "catalog/img.png"}, nil)
		mStore.On("Delete", ctx, "catalog/img.png").Return(nil)
		mRepo.On("Delete", ctx, "valid-id").Return(nil)

		err := svc.Delete(ctx, "valid-id")

		assert.NoError(t, err)
		mStore.AssertExpectations(t)
		mRepo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockCatalogRepository)
		svc := newTestService(mRepo, nil)

		mRepo.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)

		err := svc.Delete(ctx, "missing")

		assert.ErrorIs(t, err, ErrNotFound)
		mRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestCatalogService_AttachImage(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mRepo := new(repoMocks.MockCatalogRepository)
		mStore := new(storeMocks.MockStorage)
		svc := newTestService(mRepo, mStore)

		item := model.NewCatalogItem("Some Item Title", "desc", "", nil)
		r := strings.NewReader("image bytes")

		mRepo.On("FindByID", ctx, item.ID).Return(item, nil)
		mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "catalog/") && strings.HasSuffix(key, ".png")
		}), r, mock.AnythingOfType("storage.PutObjectOptions")).Return(storage.ObjectInfo{}, nil)
		mRepo.On("Update", ctx, mock.MatchedBy(func(it *model.CatalogItem) bool {
			return it.ImagePath != ""
		})).Return(echoItem, nil)

		got, err := svc.AttachImage(ctx, item.ID, r, "photo.png", "image/png", 11)

		require.NoError(t, err)
		assert.NotEmpty(t, got.ImagePath)
	})

	t.Run("db save failure rolls the object back", func(t *testing.T) {
		mRepo := new(repoMocks.MockCatalogRepository)
		mStore := new(storeMocks.MockStorage)
		svc := newTestService(mRepo, mStore)

		item := model.NewCatalogItem("Some Item Title", "desc", "", nil)
		r := strings.NewReader("image bytes")

		mRepo.On("FindByID", ctx, item.ID).Return(item, nil)
		mStore.On("Put", ctx, mock.Anything, r, mock.Anything).Return(storage.ObjectInfo{}, nil)
		mRepo.On("Update", ctx, mock.Anything).Return(nil, errors.New("db fail"))
		mStore.On("Delete", ctx, mock.Anything).Return(nil)

		got, err := svc.AttachImage(ctx, item.ID, r, "photo.png", "image/png", 11)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "db save failed")
		assert.Nil(t, got)
		mStore.AssertExpectations(t)
	})

	t.Run("nil reader", func(t *testing.T) {
		svc := newTestService(new(repoMocks.MockCatalogRepository), new(storeMocks.MockStorage))

		got, err := svc.AttachImage(ctx, "id", nil, "photo.png", "image/png", 0)

		assert.ErrorIs(t, err, ErrReaderNil)
		assert.Nil(t, got)
	})
}

func TestCatalogService_ImageURL(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mRepo := new(repoMocks.MockCatalogRepository)
		mStore := new(storeMocks.MockStorage)
		svc := newTestService(mRepo, mStore)

		mRepo.On("FindByID", ctx, "valid-id").Return(&model.CatalogItem{ID: "valid-id", ImagePath: "catalog/img.png"}, nil)
		mStore.On("PresignGet", ctx, "catalog/img.png", mock.AnythingOfType("time.Duration")).Return("https://example.com/signed", nil)

		url, err := svc.ImageURL(ctx, "valid-id")

		assert.NoError(t, err)
		assert.Equal(t, "https://example.com/signed", url)
	})

	t.Run("no image attached", func(t *testing.T) {
		mRepo := new(repoMocks.MockCatalogRepository)
		svc := newTestService(mRepo, new(storeMocks.MockStorage))

		mRepo.On("FindByID", ctx, "valid-id").Return(&model.CatalogItem{ID: "valid-id"}, nil)

		url, err := svc.ImageURL(ctx, "valid-id")

		assert.ErrorIs(t, err, ErrNoImage)
		assert.Empty(t, url)
	})
}

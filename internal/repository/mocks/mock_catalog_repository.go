package mocks

import (
	"context"

	"catalogapi/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) Create(ctx context.Context, item *model.CatalogItem) (*model.CatalogItem, error) {
	args := m.Called(ctx, item)
	if f, ok := args.Get(0).(func(context.Context, *model.CatalogItem) *model.CatalogItem); ok {
		return f(ctx, item), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CatalogItem), args.Error(1)
}

func (m *MockCatalogRepository) FindByID(ctx context.Context, id string) (*model.CatalogItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CatalogItem), args.Error(1)
}

func (m *MockCatalogRepository) FindAll(ctx context.Context) ([]model.CatalogItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CatalogItem), args.Error(1)
}

func (m *MockCatalogRepository) FindByStatus(ctx context.Context, status model.Status) ([]model.CatalogItem, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CatalogItem), args.Error(1)
}

func (m *MockCatalogRepository) ExistsByTitle(ctx context.Context, title, excludeID string) (bool, error) {
	args := m.Called(ctx, title, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCatalogRepository) Update(ctx context.Context, item *model.CatalogItem) (*model.CatalogItem, error) {
	args := m.Called(ctx, item)
	if f, ok := args.Get(0).(func(context.Context, *model.CatalogItem) *model.CatalogItem); ok {
		return f(ctx, item), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CatalogItem), args.Error(1)
}

func (m *MockCatalogRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

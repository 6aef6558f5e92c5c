package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"catalogapi/internal/model"
	"catalogapi/internal/repository"
	"catalogapi/internal/scoring"
	"catalogapi/internal/storage"
)

var (
	ErrIDRequired = errors.New("id is required")
	ErrNotFound   = errors.New("catalog item not found")
	ErrNoImage    = errors.New("catalog item has no image")
	ErrReaderNil  = errors.New("reader is nil")
)

// ItemInput carries the scorable content fields for create and update.
type ItemInput struct {
	Title       string
	Description string
	Category    string
	Tags        []string
}

// CatalogService owns the catalog item lifecycle: it mediates all mutating
// access, enforces the state machine, and orchestrates title-uniqueness
// checks and scoring on every create/update.
//
// Operations perform read-check-then-write sequences with no transactional
// guard; concurrent calls against the same item are last-writer-wins, and
// two concurrent creates with the same title can both pass the uniqueness
// check. This matches the external store contract.
type CatalogService interface {
	// Create scores the new content (uniqueness-checked against all existing
	// titles) and persists the item. A score at or above the approval
	// threshold promotes the fresh DRAFT to PENDING_APPROVAL.
	Create(ctx context.Context, in ItemInput) (*model.CatalogItem, error)

	// GetByID returns a single item or ErrNotFound.
	GetByID(ctx context.Context, id string) (*model.CatalogItem, error)

	// List returns all items. Order is unspecified at this layer.
	List(ctx context.Context) ([]model.CatalogItem, error)

	// ListByStatus returns the items currently in the given status.
	ListByStatus(ctx context.Context, status model.Status) ([]model.CatalogItem, error)

	// Update replaces the content fields and rescores the item. The
	// uniqueness check excludes the item itself, so keeping a title is not
	// penalized. Status only moves via the DRAFT auto-promotion rule.
	Update(ctx context.Context, id string, in ItemInput) (*model.CatalogItem, error)

	// Delete removes an item, failing with ErrNotFound when absent.
	Delete(ctx context.Context, id string) error

	// Approve transitions an eligible item (stored score >= threshold) to
	// APPROVED. An ineligible item is returned unchanged with no error and
	// no persistence write; callers must inspect Status to detect the no-op.
	Approve(ctx context.Context, id string) (*model.CatalogItem, error)

	// Reject unconditionally transitions an item to REJECTED.
	Reject(ctx context.Context, id string) (*model.CatalogItem, error)

	// AttachImage stores an image in object storage and records its key on
	// the item, rolling back the object if the metadata write fails.
	AttachImage(ctx context.Context, id string, r io.Reader, originalFilename, contentType string, size int64) (*model.CatalogItem, error)

	// ImageURL returns a presigned download URL for the item's image, or
	// ErrNoImage when none was attached.
	ImageURL(ctx context.Context, id string) (string, error)
}

// catalogService is a concrete implementation of CatalogService.
// Dependencies arrive via the constructor; there is no global registry.
type catalogService struct {
	repo  repository.CatalogRepository
	store storage.Storage
	score scoring.Func
}

// NewCatalogService constructs a new CatalogService.
func NewCatalogService(repo repository.CatalogRepository, store storage.Storage, score scoring.Func) CatalogService {
	return &catalogService{repo: repo, store: store, score: score}
}

func (s *catalogService) Create(ctx context.Context, in ItemInput) (*model.CatalogItem, error) {
	titleExists, err := s.repo.ExistsByTitle(ctx, in.Title, "")
	if err != nil {
		return nil, fmt.Errorf("check title uniqueness: %w", err)
	}

	item := model.NewCatalogItem(in.Title, in.Description, in.Category, in.Tags)
	item.SetQualityScore(s.score(in.Title, in.Description, in.Category, in.Tags, !titleExists))

	stored, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("save catalog item: %w", err)
	}
	return stored, nil
}

func (s *catalogService) GetByID(ctx context.Context, id string) (*model.CatalogItem, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

func (s *catalogService) List(ctx context.Context) ([]model.CatalogItem, error) {
	return s.repo.FindAll(ctx)
}

func (s *catalogService) ListByStatus(ctx context.Context, status model.Status) ([]model.CatalogItem, error) {
	return s.repo.FindByStatus(ctx, status)
}

func (s *catalogService) Update(ctx context.Context, id string, in ItemInput) (*model.CatalogItem, error) {
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Exclude the item itself: keeping its own title is not a duplicate.
	titleExists, err := s.repo.ExistsByTitle(ctx, in.Title, item.ID)
	if err != nil {
		return nil, fmt.Errorf("check title uniqueness: %w", err)
	}

	item.UpdateContent(in.Title, in.Description, in.Category, in.Tags)
	item.SetQualityScore(s.score(in.Title, in.Description, in.Category, in.Tags, !titleExists))

	stored, err := s.repo.Update(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("save catalog item: %w", err)
	}
	return stored, nil
}

func (s *catalogService) Delete(ctx context.Context, id string) error {
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	// Best effort: the item record is authoritative, the image object is not.
	if item.ImagePath != "" {
		if err := s.store.Delete(ctx, item.ImagePath); err != nil {
			return fmt.Errorf("delete image: %w", err)
		}
	}

	return s.repo.Delete(ctx, id)
}

func (s *catalogService) Approve(ctx context.Context, id string) (*model.CatalogItem, error) {
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Below the threshold the item is handed back untouched, with no write.
	if !item.CanBeApproved() {
		return item, nil
	}

	item.MarkApproved()
	stored, err := s.repo.Update(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("save catalog item: %w", err)
	}
	return stored, nil
}

func (s *catalogService) Reject(ctx context.Context, id string) (*model.CatalogItem, error) {
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	item.MarkRejected()
	stored, err := s.repo.Update(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("save catalog item: %w", err)
	}
	return stored, nil
}

func (s *catalogService) AttachImage(ctx context.Context, id string, r io.Reader, originalFilename, contentType string, size int64) (*model.CatalogItem, error) {
	if r == nil {
		return nil, ErrReaderNil
	}

	item, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ext := filepath.Ext(originalFilename)
	key := filepath.ToSlash(filepath.Join("catalog", uuid.New().String()+ext))

	if _, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": originalFilename,
			"catalog-item-id":   item.ID,
		},
	}); err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	prev := item.ImagePath
	item.ImagePath = key
	item.UpdatedAt = time.Now().UTC()

	stored, err := s.repo.Update(ctx, item)
	if err != nil {
		// Rollback: delete the freshly uploaded object.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	// Replaced image is orphaned otherwise.
	if prev != "" && prev != key {
		_ = s.store.Delete(ctx, prev)
	}

	return stored, nil
}

func (s *catalogService) ImageURL(ctx context.Context, id string) (string, error) {
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if item.ImagePath == "" {
		return "", ErrNoImage
	}
	return s.store.PresignGet(ctx, item.ImagePath, 15*time.Minute)
}

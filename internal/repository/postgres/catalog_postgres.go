package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"catalogapi/internal/model"
	"catalogapi/internal/repository"
)

// CatalogPostgres is a PostgreSQL implementation of repository.CatalogRepository.
// It uses database/sql with parameterized queries and contains no business logic.
// Tags and the quality score are stored as JSONB columns.
type CatalogPostgres struct {
	db *sql.DB
}

// NewCatalogPostgres creates a new CatalogPostgres repository.
func NewCatalogPostgres(db *sql.DB) *CatalogPostgres {
	return &CatalogPostgres{db: db}
}

var _ repository.CatalogRepository = (*CatalogPostgres)(nil)

const catalogColumns = `id, title, description, category, tags, status, quality_score, image_path, created_at, updated_at`

// Create inserts a new catalog item row and returns the stored record.
func (r *CatalogPostgres) Create(ctx context.Context, item *model.CatalogItem) (*model.CatalogItem, error) {
	const q = `
		INSERT INTO catalog_items (id, title, description, category, tags, status, quality_score, image_path, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + catalogColumns

	tags, score, err := marshalItemFields(item)
	if err != nil {
		return nil, err
	}

	row := r.db.QueryRowContext(ctx, q,
		item.ID,
		item.Title,
		item.Description,
		item.Category,
		tags,
		string(item.Status),
		score,
		item.ImagePath,
		item.CreatedAt,
		item.UpdatedAt,
	)
	return scanItem(row)
}

// FindByID fetches a single catalog item by its ID.
func (r *CatalogPostgres) FindByID(ctx context.Context, id string) (*model.CatalogItem, error) {
	const q = `
		SELECT ` + catalogColumns + `
		FROM catalog_items
		WHERE id = $1
	`
	return scanItem(r.db.QueryRowContext(ctx, q, id))
}

// FindAll returns every catalog item, newest first.
func (r *CatalogPostgres) FindAll(ctx context.Context) ([]model.CatalogItem, error) {
	const q = `
		SELECT ` + catalogColumns + `
		FROM catalog_items
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	return collectItems(rows)
}

// FindByStatus returns items with the given status via the status index.
func (r *CatalogPostgres) FindByStatus(ctx context.Context, status model.Status) ([]model.CatalogItem, error) {
	const q = `
		SELECT ` + catalogColumns + `
		FROM catalog_items
		WHERE status = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, string(status))
	if err != nil {
		return nil, err
	}
	return collectItems(rows)
}

// ExistsByTitle reports whether a row with exactly this title exists,
// optionally ignoring the row with excludeID. Matching is case-sensitive.
func (r *CatalogPostgres) ExistsByTitle(ctx context.Context, title, excludeID string) (bool, error) {
	var exists bool
	if excludeID == "" {
		const q = `SELECT EXISTS (SELECT 1 FROM catalog_items WHERE title = $1)`
		if err := r.db.QueryRowContext(ctx, q, title).Scan(&exists); err != nil {
			return false, err
		}
		return exists, nil
	}

	const q = `SELECT EXISTS (SELECT 1 FROM catalog_items WHERE title = $1 AND id <> $2)`
	if err := r.db.QueryRowContext(ctx, q, title, excludeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Update overwrites the full item row and returns the stored record.
func (r *CatalogPostgres) Update(ctx context.Context, item *model.CatalogItem) (*model.CatalogItem, error) {
	const q = `
		UPDATE catalog_items
		SET title = $2, description = $3, category = $4, tags = $5, status = $6, quality_score = $7, image_path = $8, updated_at = $9
		WHERE id = $1
		RETURNING ` + catalogColumns

	tags, score, err := marshalItemFields(item)
	if err != nil {
		return nil, err
	}

	row := r.db.QueryRowContext(ctx, q,
		item.ID,
		item.Title,
		item.Description,
		item.Category,
		tags,
		string(item.Status),
		score,
		item.ImagePath,
		item.UpdatedAt,
	)
	return scanItem(row)
}

// Delete removes a catalog item by ID. It does not return an error if the
// row does not exist; existence checks belong to the service layer.
func (r *CatalogPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM catalog_items WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

// marshalItemFields encodes the JSONB columns. A nil quality score is stored
// as SQL NULL so unscored items round-trip as unscored.
func marshalItemFields(item *model.CatalogItem) (tags []byte, score any, err error) {
	t := item.Tags
	if t == nil {
		t = []string{}
	}
	tags, err = json.Marshal(t)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal tags: %w", err)
	}

	if item.QualityScore == nil {
		return tags, nil, nil
	}
	raw, err := json.Marshal(item.QualityScore)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal quality score: %w", err)
	}
	return tags, raw, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*model.CatalogItem, error) {
	var (
		item     model.CatalogItem
		status   string
		rawTags  []byte
		rawScore []byte
	)
	if err := row.Scan(
		&item.ID,
		&item.Title,
		&item.Description,
		&item.Category,
		&rawTags,
		&status,
		&rawScore,
		&item.ImagePath,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		return nil, err
	}

	item.Status = model.Status(status)

	item.Tags = []string{}
	if len(rawTags) > 0 {
		if err := json.Unmarshal(rawTags, &item.Tags); err != nil {
			return nil, fmt.Errorf("unmarshal tags: %w", err)
		}
	}

	if len(rawScore) > 0 {
		var score model.QualityScore
		if err := json.Unmarshal(rawScore, &score); err != nil {
			return nil, fmt.Errorf("unmarshal quality score: %w", err)
		}
		item.QualityScore = &score
	}

	return &item, nil
}

func collectItems(rows *sql.Rows) ([]model.CatalogItem, error) {
	defer rows.Close()

	items := make([]model.CatalogItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

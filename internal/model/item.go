package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a catalog item. It is a closed set;
// values other than the constants below never cross the service boundary.
type Status string

const (
	StatusDraft           Status = "DRAFT"
	StatusPendingApproval Status = "PENDING_APPROVAL"
	StatusApproved        Status = "APPROVED"
	StatusRejected        Status = "REJECTED"
)

// ApprovalThreshold is the minimum quality score total required for an item
// to be auto-promoted out of DRAFT and to be eligible for approval.
const ApprovalThreshold = 70

// Valid reports whether s is one of the defined statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPendingApproval, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// ParseStatus converts a raw string into a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown catalog item status %q", raw)
	}
	return s, nil
}

// ScoreBreakdown itemizes the point contributions of a quality score.
type ScoreBreakdown struct {
	Base              int `json:"base"`
	TitleLength       int `json:"title_length"`
	DescriptionLength int `json:"description_length"`
	CategoryProvided  int `json:"category_provided"`
	TagsProvided      int `json:"tags_provided"`
	UniqueTitle       int `json:"unique_title"`
}

// QualityScore is the computed content-completeness rating of an item.
// Total always equals the sum of the breakdown fields.
type QualityScore struct {
	Total     int            `json:"total"`
	Breakdown ScoreBreakdown `json:"breakdown"`
}

// CatalogItem is the managed entity: a product/course/listing with scorable
// metadata. It is a pure domain model with no persistence-specific tags.
type CatalogItem struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Category     string        `json:"category"`
	Tags         []string      `json:"tags"`
	Status       Status        `json:"status"`
	QualityScore *QualityScore `json:"quality_score,omitempty"`
	ImagePath    string        `json:"image_path,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// NewCatalogItem constructs an unscored item in DRAFT with a generated ID.
func NewCatalogItem(title, description, category string, tags []string) *CatalogItem {
	if tags == nil {
		tags = []string{}
	}
	now := time.Now().UTC()
	return &CatalogItem{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		Category:    category,
		Tags:        tags,
		Status:      StatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// UpdateContent replaces the scorable content fields and advances UpdatedAt.
// Status is untouched; only SetQualityScore can move it.
func (i *CatalogItem) UpdateContent(title, description, category string, tags []string) {
	if tags == nil {
		tags = []string{}
	}
	i.Title = title
	i.Description = description
	i.Category = category
	i.Tags = tags
	i.UpdatedAt = time.Now().UTC()
}

// SetQualityScore assigns the computed score. An item still in DRAFT is
// auto-promoted to PENDING_APPROVAL when the total reaches the approval
// threshold; no other state is ever moved by scoring.
func (i *CatalogItem) SetQualityScore(score QualityScore) {
	i.QualityScore = &score
	i.UpdatedAt = time.Now().UTC()

	if i.Status == StatusDraft && score.Total >= ApprovalThreshold {
		i.Status = StatusPendingApproval
	}
}

// CanBeApproved reports whether a score exists and meets the threshold.
func (i *CatalogItem) CanBeApproved() bool {
	return i.QualityScore != nil && i.QualityScore.Total >= ApprovalThreshold
}

// MarkApproved transitions the item to APPROVED. Callers must check
// CanBeApproved first; the entity does not re-verify.
func (i *CatalogItem) MarkApproved() {
	i.Status = StatusApproved
	i.UpdatedAt = time.Now().UTC()
}

// MarkRejected transitions the item to REJECTED unconditionally.
func (i *CatalogItem) MarkRejected() {
	i.Status = StatusRejected
	i.UpdatedAt = time.Now().UTC()
}

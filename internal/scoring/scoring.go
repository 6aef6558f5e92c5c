// Package scoring computes the deterministic quality score of catalog item
// content. It is a pure function of its inputs: no persistence access, no
// side effects, and every input (including empty strings and empty tag
// lists) yields a valid score.
package scoring

import "catalogapi/internal/model"

// Point values per factor. Base always applies, so the minimum total is 40;
// the maximum is 130 with every factor satisfied.
const (
	basePoints        = 40
	titleLengthPoints = 20
	descriptionPoints = 15
	categoryPoints    = 10
	someTagsPoints    = 10
	manyTagsPoints    = 20
	uniqueTitlePoints = 5

	// Title length bounds and the description minimum are inclusive.
	titleMinLen       = 12
	titleMaxLen       = 50
	descriptionMinLen = 60
	someTagsMax       = 3
)

// Func is the scoring contract the lifecycle manager receives by injection.
type Func func(title, description, category string, tags []string, uniqueTitle bool) model.QualityScore

// Calculate scores catalog item content plus a title-uniqueness flag.
// Contributions are independent and additive; Total is always the sum of
// the breakdown fields.
func Calculate(title, description, category string, tags []string, uniqueTitle bool) model.QualityScore {
	breakdown := model.ScoreBreakdown{
		Base:              basePoints,
		TitleLength:       scoreTitleLength(title),
		DescriptionLength: scoreDescriptionLength(description),
		CategoryProvided:  scoreCategoryProvided(category),
		TagsProvided:      scoreTagsProvided(tags),
		UniqueTitle:       scoreUniqueTitle(uniqueTitle),
	}

	total := breakdown.Base +
		breakdown.TitleLength +
		breakdown.DescriptionLength +
		breakdown.CategoryProvided +
		breakdown.TagsProvided +
		breakdown.UniqueTitle

	return model.QualityScore{Total: total, Breakdown: breakdown}
}

func scoreTitleLength(title string) int {
	n := len(title)
	if n >= titleMinLen && n <= titleMaxLen {
		return titleLengthPoints
	}
	return 0
}

func scoreDescriptionLength(description string) int {
	if len(description) >= descriptionMinLen {
		return descriptionPoints
	}
	return 0
}

func scoreCategoryProvided(category string) int {
	if category != "" {
		return categoryPoints
	}
	return 0
}

func scoreTagsProvided(tags []string) int {
	switch n := len(tags); {
	case n == 0:
		return 0
	case n <= someTagsMax:
		return someTagsPoints
	default:
		return manyTagsPoints
	}
}

func scoreUniqueTitle(unique bool) int {
	if unique {
		return uniqueTitlePoints
	}
	return 0
}

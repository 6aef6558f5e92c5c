// Package suggest contains the AI text-suggestion provider abstraction used
// to improve catalog item titles and descriptions.
package suggest

import "context"

// Request carries the content the provider should improve.
type Request struct {
	Title       string
	Description string
}

// Suggestion is the provider's proposed replacement content.
type Suggestion struct {
	SuggestedTitle       string `json:"suggested_title"`
	SuggestedDescription string `json:"suggested_description"`
}

// Suggester is the external AI text-suggestion contract.
type Suggester interface {
	// Suggest returns improved title/description for the given input.
	Suggest(ctx context.Context, req Request) (*Suggestion, error)
}

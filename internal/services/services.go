// package services defines interfaces and clients for the external HTTP APIs
//
// Google Custom Search (notation discovery), Gemini (format conversion)
package services

import (
	"context"

	"github.com/desertthunder/scorefinder/internal/models"
)

// Searcher defines the interface for notation search providers.
type Searcher interface {
	// Search queries the provider for notation files matching the song title
	// and optional artist. URLs present in exclude are dropped from the
	// results. An empty result list is not an error.
	Search(ctx context.Context, title, artist string, exclude map[string]struct{}) ([]models.SearchResult, error)

	// Name returns the name of the provider (e.g., "Google Custom Search")
	Name() string
}

// Converter defines the interface for notation format conversion.
type Converter interface {
	// Convert takes raw file content in the given source format and returns a
	// complete MusicXML document, or an error when no document can be
	// extracted from the service reply.
	Convert(ctx context.Context, content []byte, source models.Format) (string, error)

	// Name returns the name of the conversion backend (e.g., "Gemini")
	Name() string
}

package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/scorefinder/internal/models"
)

var _ list.Item = resultItem{}

// resultItem wraps [models.SearchResult] to implement [list.Item].
type resultItem struct {
	result models.SearchResult
}

func (i resultItem) FilterValue() string { return i.result.Title }
func (i resultItem) Title() string {
	return fmt.Sprintf("%d. %s", i.result.Rank, i.result.Title)
}
func (i resultItem) Description() string {
	desc := string(i.result.Format)
	if i.result.Snippet != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.result.Snippet)
	}
	return fmt.Sprintf("%s\n%s", desc, i.result.URL)
}

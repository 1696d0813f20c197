// package scrape extracts notation file links from HTML result pages.
//
// Search hits frequently land on a score's page rather than the file itself;
// scraping the page for a direct .musicxml/.mid/.pdf link keeps such hits
// usable without changing the one-attempt-per-candidate policy.
package scrape

import (
	"bytes"
	"fmt"
	"net/url"
	"sort"

	"github.com/PuerkitoBio/goquery"
	"github.com/desertthunder/scorefinder/internal/models"
	"github.com/desertthunder/scorefinder/internal/shared"
)

// formatPriority orders scraped links by how useful the format is to the
// pipeline: direct formats first, convertible formats after.
var formatPriority = map[models.Format]int{
	models.FormatMusicXML:  0,
	models.FormatMIDI:      1,
	models.FormatGuitarPro: 2,
	models.FormatABC:       3,
	models.FormatPDF:       4,
}

// Link is a candidate notation file reference found on a page.
type Link struct {
	URL    string
	Format models.Format
}

// NotationLinks parses an HTML document and returns absolute links to
// notation files, best format first. Relative hrefs are resolved against
// pageURL. An error is returned when the page yields no usable links.
func NotationLinks(pageURL string, html []byte) ([]Link, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL %s: %w", pageURL, err)
	}

	seen := make(map[string]struct{})
	var links []Link

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || href == "" {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref).String()

		format := models.DetectFormat(abs)
		if format == models.FormatOther {
			return
		}

		if _, dup := seen[abs]; dup {
			return
		}
		seen[abs] = struct{}{}

		links = append(links, Link{URL: abs, Format: format})
	})

	if len(links) == 0 {
		return nil, fmt.Errorf("%w: no notation links on %s", shared.ErrDownloadFailed, pageURL)
	}

	sort.SliceStable(links, func(i, j int) bool {
		return formatPriority[links[i].Format] < formatPriority[links[j].Format]
	})

	return links, nil
}

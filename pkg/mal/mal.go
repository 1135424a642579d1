// Package mal knows the shape of a MyAnimeList completed-list page: where
// the list lives, which elements hold a row's title, anime link and score,
// and how to turn visible rows into records.
package mal

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"malscraper/pkg/models"
)

const (
	// BaseURL is the site root
	BaseURL = "https://myanimelist.net"

	// RowSelector matches one anime row in the rendered list table. The
	// page fetcher waits on the same selector, so the two stay in sync.
	RowSelector = ".list-table tbody tr"

	titleSelector = ".data.title .link"
	scoreSelector = ".data.score"
)

// ListURL returns the completed-list URL for a user (status=2 is the
// site's "completed" filter)
func ListURL(user string) string {
	return fmt.Sprintf("%s/animelist/%s?status=2", BaseURL, url.PathEscape(user))
}

// ExtractRecords parses completed-anime records out of a fully rendered
// list page. Rows without a title are dropped; rows whose anime link cannot
// be parsed keep a nil AnimeID rather than being dropped; a malformed row
// never aborts the rest of the extraction.
func ExtractRecords(doc *goquery.Document, user string) []models.Record {
	var records []models.Record

	doc.Find(RowSelector).Each(func(_ int, row *goquery.Selection) {
		link := row.Find(titleSelector).First()
		title := strings.TrimSpace(link.Text())
		if title == "" {
			return
		}

		var animeID *int64
		if href, ok := link.Attr("href"); ok {
			animeID = ParseAnimeID(href)
		}

		records = append(records, models.Record{
			User:    user,
			AnimeID: animeID,
			Title:   title,
			Score:   parseScore(row.Find(scoreSelector).First().Text()),
		})
	})

	return records
}

// ParseAnimeID extracts the numeric id from an anime link such as
// https://myanimelist.net/anime/5114/Fullmetal_Alchemist or the relative
// /anime/5114/... form. Returns nil when no id can be parsed.
func ParseAnimeID(href string) *int64 {
	parts := strings.Split(href, "/")
	for i, part := range parts {
		if part != "anime" || i+1 >= len(parts) {
			continue
		}
		id, err := strconv.ParseInt(parts[i+1], 10, 64)
		if err != nil {
			return nil
		}
		return &id
	}
	return nil
}

// parseScore converts the score cell text to a rating. The site shows "-"
// for unrated entries; that and anything else non-numeric yields nil.
func parseScore(text string) *float64 {
	raw := strings.TrimSpace(text)
	if raw == "" || raw == "-" {
		return nil
	}
	score, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &score
}

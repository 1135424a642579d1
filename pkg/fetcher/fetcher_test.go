package fetcher

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	errs "malscraper/pkg/errors"
	"malscraper/pkg/logger"
)

type stubFetcher struct {
	html string
	err  error
}

func (s *stubFetcher) FetchList(ctx context.Context, user string) (*goquery.Document, error) {
	if s.err != nil {
		return nil, s.err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(s.html))
}

const listHTML = `
<table class="list-table"><tbody>
  <tr class="list-table-data">
    <td class="data title"><a class="link" href="/anime/5114/Fullmetal_Alchemist__Brotherhood">Fullmetal Alchemist: Brotherhood</a></td>
    <td class="data score">9</td>
  </tr>
  <tr class="list-table-data">
    <td class="data title"><a class="link" href="/anime/9253/Steins_Gate">Steins;Gate</a></td>
    <td class="data score">-</td>
  </tr>
</tbody></table>`

func TestExtract(t *testing.T) {
	e := NewExtractor(&stubFetcher{html: listHTML}, logger.GetLogger())

	records, err := e.Extract(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].User != "alice" {
		t.Errorf("expected user alice, got %q", records[0].User)
	}
	if records[0].AnimeID == nil || *records[0].AnimeID != 5114 {
		t.Errorf("unexpected anime id: %v", records[0].AnimeID)
	}
	if records[1].Score != nil {
		t.Errorf("unscored entry should have nil score, got %v", *records[1].Score)
	}
}

func TestExtractEmptyListIsSuccess(t *testing.T) {
	e := NewExtractor(&stubFetcher{html: `<table class="list-table"><tbody></tbody></table>`}, logger.GetLogger())

	records, err := e.Extract(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestExtractFetchFailure(t *testing.T) {
	fetchErr := errs.New(errs.KindExtraction, "list table not available for alice")
	e := NewExtractor(&stubFetcher{err: fetchErr}, logger.GetLogger())

	_, err := e.Extract(context.Background(), "alice")
	if err == nil {
		t.Fatal("expected error")
	}
}

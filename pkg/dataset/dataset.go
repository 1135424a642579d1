// Package dataset holds the deduplicated table of (user, anime) records for
// a batch, persisted as parquet in the blob store. The format is columnar
// and self-describing, so batch files written at different times merge
// without a schema migration.
package dataset

import (
	"bytes"
	"fmt"

	"github.com/parquet-go/parquet-go"

	errs "malscraper/pkg/errors"
	"malscraper/pkg/models"
)

// Key returns the blob key holding a batch's persisted table
func Key(prefix, batchID string) string {
	return fmt.Sprintf("%soutput_%s.parquet", prefix, batchID)
}

// Table is an in-memory batch dataset. Records stay in first-observation
// order; Merge keeps the pair (user, anime_id) unique.
type Table struct {
	Records []models.Record
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.Records)
}

// Merge concatenates newRecords onto the table and deduplicates on the
// (user, anime_id) key, keeping the later occurrence. User comparison is
// lowercase-normalized.
func (t *Table) Merge(newRecords []models.Record) {
	index := make(map[models.Key]int, len(t.Records))
	for i, r := range t.Records {
		index[r.Key()] = i
	}

	for _, r := range newRecords {
		if i, ok := index[r.Key()]; ok {
			t.Records[i] = r
			continue
		}
		index[r.Key()] = len(t.Records)
		t.Records = append(t.Records, r)
	}
}

// Encode serializes records to parquet bytes
func Encode(records []models.Record) ([]byte, error) {
	var buf bytes.Buffer

	w := parquet.NewGenericWriter[models.Record](&buf)
	if len(records) > 0 {
		if _, err := w.Write(records); err != nil {
			return nil, errs.Wrap(errs.KindSchema, "failed to encode parquet rows", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, errs.Wrap(errs.KindSchema, "failed to finalize parquet file", err)
	}

	return buf.Bytes(), nil
}

// Decode deserializes parquet bytes into records. Optional columns absent
// from the file come back as nulls rather than failing the read, so schema
// drift between batch writes never breaks a merge.
func Decode(data []byte) ([]models.Record, error) {
	if len(data) == 0 {
		return nil, nil
	}

	file, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errs.Wrap(errs.KindSchema, "failed to open parquet file", err)
	}

	records, err := parquet.Read[models.Record](bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errs.Wrap(errs.KindSchema, "failed to decode parquet file", err)
	}

	// parquet.Read fills fields for columns the file never had with
	// pointers to zero values, not nulls. A zero score would fabricate a
	// rating and a zero anime id would collapse a user's rows onto one
	// dedup key, so absent columns must read back as nil.
	_, hasScore := file.Schema().Lookup("score")
	_, hasAnimeID := file.Schema().Lookup("anime_id")
	if hasScore && hasAnimeID {
		return records, nil
	}
	for i := range records {
		if !hasScore {
			records[i].Score = nil
		}
		if !hasAnimeID {
			records[i].AnimeID = nil
		}
	}
	return records, nil
}

package storage

import (
	"context"
	"fmt"

	"csv2json/internal/records"
)

// DefaultBatchSize is the batch size used by LoadDocument.
const DefaultBatchSize = 1000

// LoadColumns resolves the destination column list for a document. Keyed
// documents load under their column names; positional documents get synthetic
// names col_1..col_N sized to the widest row.
func LoadColumns(doc records.Document) []string {
	if !doc.Positional() {
		return doc.Columns
	}
	width := 0
	for _, row := range doc.Rows {
		if len(row) > width {
			width = len(row)
		}
	}
	cols := make([]string, width)
	for i := range cols {
		cols[i] = fmt.Sprintf("col_%d", i+1)
	}
	return cols
}

// LoadDocument bulk-inserts a converted document into repo through the
// batched loader. Missing fields (and short positional rows) load as NULL.
func LoadDocument(ctx context.Context, repo Repository, doc records.Document, batchSize int) (int64, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	columns := LoadColumns(doc)
	if len(columns) == 0 {
		return 0, nil
	}

	in := make(chan []any, batchSize)
	go func() {
		defer close(in)
		if doc.Positional() {
			for _, row := range doc.Rows {
				out := make([]any, len(columns))
				for i := range row {
					out[i] = row[i]
				}
				select {
				case in <- out:
				case <-ctx.Done():
					return
				}
			}
			return
		}
		for _, rec := range doc.Records {
			out := make([]any, len(columns))
			for i, col := range columns {
				out[i] = rec[col]
			}
			select {
			case in <- out:
			case <-ctx.Done():
				return
			}
		}
	}()

	return LoadBatches(ctx, columns, in, batchSize, repo.CopyFrom)
}

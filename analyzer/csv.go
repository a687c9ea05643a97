package analyzer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/cryptovibes/cryptovibes/pkg/errlvl"
	"github.com/cryptovibes/cryptovibes/sources"
)

// csvHeader is the export column order. Stable: downstream notebooks and the
// dashboard download button depend on it.
var csvHeader = []string{"source", "timestamp", "label", "score", "title", "url", "text"}

// WriteCSV exports the dataset's items, one row per item.
func (d *Dataset) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return errlvl.Wrap(fmt.Errorf("writing csv header: %w", err), errlvl.ERROR)
	}

	for _, item := range d.Items {
		row := []string{
			string(item.Source),
			item.Time.UTC().Format(time.RFC3339),
			item.Label,
			strconv.FormatFloat(item.Score, 'f', -1, 64),
			item.Title,
			item.URL,
			item.Text,
		}
		if err := cw.Write(row); err != nil {
			return errlvl.Wrap(fmt.Errorf("writing csv row: %w", err), errlvl.ERROR)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return errlvl.Wrap(fmt.Errorf("flushing csv: %w", err), errlvl.ERROR)
	}
	return nil
}

// ReadCSV parses an export back into a dataset, recomputing the aggregates
// from the rows. Round-trips source, score and label exactly.
func ReadCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, errlvl.Wrap(fmt.Errorf("reading csv header: %w", err), errlvl.ERROR)
	}
	if len(header) != len(csvHeader) {
		return nil, errlvl.Wrap(fmt.Errorf("unexpected csv header: %v", header), errlvl.ERROR)
	}

	var items []sources.Item
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errlvl.Wrap(fmt.Errorf("reading csv row: %w", err), errlvl.ERROR)
		}

		score, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			return nil, errlvl.Wrap(fmt.Errorf("parsing score %q: %w", row[3], err), errlvl.ERROR)
		}
		ts, _ := time.Parse(time.RFC3339, row[1])

		items = append(items, sources.Item{
			Source: sources.Source(row[0]),
			Time:   ts,
			Label:  row[2],
			Score:  score,
			Title:  row[4],
			URL:    row[5],
			Text:   row[6],
		})
	}

	if len(items) == 0 {
		return nil, errlvl.Wrap(ErrNoSentimentData, errlvl.WARN)
	}

	return aggregateItems(items), nil
}

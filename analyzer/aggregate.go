package analyzer

import (
	"errors"

	"github.com/cryptovibes/cryptovibes/pkg/errlvl"
	"github.com/cryptovibes/cryptovibes/sources"
)

// ErrNoSentimentData means every sentiment source came back empty: nothing
// to aggregate, nothing to grade.
var ErrNoSentimentData = errors.New("no sentiment data collected from any source")

// SourceStat is the per-source slice of the aggregate.
type SourceStat struct {
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`
}

// Dataset is the aggregate over all collected items for one run.
type Dataset struct {
	Items       []sources.Item                `json:"items"`
	MeanScore   float64                       `json:"mean_score"`
	LabelCounts map[string]int                `json:"label_counts"`
	SourceStats map[sources.Source]SourceStat `json:"source_stats"`
}

// Aggregate concatenates the items of the fixed sentiment-source list and
// computes the run aggregate. Price and fear/greed never contribute items.
// The result depends only on the multiset of items, not on arrival order.
func Aggregate(results *Results) (*Dataset, error) {
	var items []sources.Item
	for _, src := range sources.SentimentSources {
		res, found := results.Sentiment[src]
		if !found || !res.OK() {
			continue
		}
		items = append(items, res.Items...)
	}

	if len(items) == 0 {
		return nil, errlvl.Wrap(ErrNoSentimentData, errlvl.WARN)
	}

	return aggregateItems(items), nil
}

// aggregateItems computes the dataset for a flat item slice. Shared by
// Aggregate and ReadCSV.
func aggregateItems(items []sources.Item) *Dataset {
	d := &Dataset{
		Items:       items,
		LabelCounts: make(map[string]int),
		SourceStats: make(map[sources.Source]SourceStat),
	}

	sums := make(map[sources.Source]float64)
	var total float64

	for _, item := range items {
		total += item.Score
		d.LabelCounts[item.Label]++

		stat := d.SourceStats[item.Source]
		stat.Count++
		d.SourceStats[item.Source] = stat
		sums[item.Source] += item.Score
	}

	d.MeanScore = total / float64(len(items))
	for src, stat := range d.SourceStats {
		stat.Mean = sums[src] / float64(stat.Count)
		d.SourceStats[src] = stat
	}

	return d
}

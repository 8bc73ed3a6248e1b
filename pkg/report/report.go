// Package report persists the outcome of mining runs.
//
// A [Report] captures what was mined (input name, dataset hash, settings), how
// the adaptive loop went (one [Attempt] per pass) and the itemsets that were
// found. Reports are identified by a random UUID and kept by a [Store]:
//   - [FileStore] writes one JSON file per report, used by the CLI
//   - [MongoStore] keeps reports in a MongoDB collection, used by the API server
//   - [NullStore] discards everything
//
// # Usage
//
//	store, err := report.NewFileStore("") // $XDG_DATA_HOME/fpminer/reports
//	if err != nil {
//	    return err
//	}
//	r := report.New("baskets.csv", datasetHash)
//	r.ItemSets = sets
//	if err := store.Save(ctx, r); err != nil {
//	    return err
//	}
package report

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ItemSet is a frequent itemset in presentation form.
type ItemSet struct {
	// Items holds the attribute names in the order they were added.
	Items []string `json:"items" bson:"items"`

	// Supports holds the support after each item was added.
	Supports []int `json:"supports" bson:"supports"`

	// Support is the support of the whole set.
	Support int `json:"support" bson:"support"`
}

// Attempt records one pass of the adaptive loop.
type Attempt struct {
	MinSupport float64 `json:"min_support" bson:"min_support"`
	MinCount   int     `json:"min_count" bson:"min_count"`
	Items      int     `json:"items" bson:"items"`
	Nodes      int     `json:"nodes" bson:"nodes"`
	ItemSets   int     `json:"itemsets" bson:"itemsets"`
	Abandoned  bool    `json:"abandoned,omitempty" bson:"abandoned,omitempty"`
	DurationMS int64   `json:"duration_ms" bson:"duration_ms"`
}

// Settings are the mining options a report was produced with.
type Settings struct {
	MinSupport              float64 `json:"min_support" bson:"min_support"`
	MaxItems                int     `json:"max_items" bson:"max_items"`
	MustContain             string  `json:"must_contain,omitempty" bson:"must_contain,omitempty"`
	FindMinNumberOfItemsets bool    `json:"find_min_number_of_itemsets" bson:"find_min_number_of_itemsets"`
	MinNumberOfItemsets     int     `json:"min_number_of_itemsets" bson:"min_number_of_itemsets"`
	MaxNumberOfRetries      int     `json:"max_number_of_retries" bson:"max_number_of_retries"`
	Projection              string  `json:"projection" bson:"projection"`
}

// Report is the stored outcome of one mining run.
type Report struct {
	ID          string    `json:"id" bson:"_id"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	Input       string    `json:"input" bson:"input"`
	DatasetHash string    `json:"dataset_hash" bson:"dataset_hash"`
	Rows        int       `json:"rows" bson:"rows"`
	Columns     int       `json:"columns" bson:"columns"`
	Dropped     []string  `json:"dropped,omitempty" bson:"dropped,omitempty"`

	Settings        Settings  `json:"settings" bson:"settings"`
	Attempts        []Attempt `json:"attempts" bson:"attempts"`
	FinalMinSupport float64   `json:"final_min_support" bson:"final_min_support"`
	FinalMinCount   int       `json:"final_min_count" bson:"final_min_count"`
	ItemSets        []ItemSet `json:"itemsets" bson:"itemsets"`
	DurationMS      int64     `json:"duration_ms" bson:"duration_ms"`
}

// New creates a report with a fresh ID and the current time.
func New(input, datasetHash string) *Report {
	return &Report{
		ID:          uuid.NewString(),
		CreatedAt:   time.Now().UTC(),
		Input:       input,
		DatasetHash: datasetHash,
	}
}

// Store is the interface for report storage backends.
type Store interface {
	// Save stores a report, replacing any report with the same ID.
	Save(ctx context.Context, r *Report) error

	// Get retrieves a report by ID. A missing report is an error with code
	// NOT_FOUND.
	Get(ctx context.Context, id string) (*Report, error)

	// List returns up to limit reports, newest first. A limit of zero or less
	// returns all reports.
	List(ctx context.Context, limit int) ([]*Report, error)

	// Delete removes a report. A missing report is an error with code
	// NOT_FOUND.
	Delete(ctx context.Context, id string) error

	Close() error
}

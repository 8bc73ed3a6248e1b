// Package pipeline runs frequent itemset mining end to end for fpminer.
//
// This package implements the load → binarize → mine → report pipeline shared
// by the CLI and the API server. By centralizing this logic, both entry points
// apply the same defaults, cache keys and report handling.
//
// # Architecture
//
// A run consists of four stages:
//
//  1. Load: Parse a CSV or basket dataset into a table
//  2. Binarize: Resolve each column's positive value and drop unusable columns
//  3. Mine: Run the FP-Growth engine, including the adaptive loop
//  4. Report: Persist a run report and cache the result
//
// Results are cached by dataset content and options, so repeating a run on an
// unchanged file skips stages 1 to 4.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, reports, logger)
//	opts := pipeline.DefaultOptions()
//	opts.MinSupport = 0.05
//	opts.MustContain = "^milk$"
//	result, err := runner.Execute(ctx, pipeline.Input{Name: "baskets.csv", Data: data}, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, set := range result.ItemSets {
//	    fmt.Println(set.Items, set.Support)
//	}
//
// Options can also be read from a TOML, YAML or JSON file with [LoadOptions].
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fpminer/pkg/cache"
	"github.com/matzehuels/fpminer/pkg/core/dataset"
	"github.com/matzehuels/fpminer/pkg/core/fpgrowth"
	errs "github.com/matzehuels/fpminer/pkg/errors"
	"github.com/matzehuels/fpminer/pkg/report"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultMinSupport is the relative support threshold of a fresh run.
	DefaultMinSupport = fpgrowth.DefaultMinSupport

	// DefaultMaxItems leaves itemset length unbounded.
	DefaultMaxItems = -1

	// DefaultMinNumberOfItemsets is the adaptive loop target.
	DefaultMinNumberOfItemsets = fpgrowth.DefaultMinNumberOfItemsets

	// DefaultMaxNumberOfRetries is the adaptive loop attempt budget.
	DefaultMaxNumberOfRetries = fpgrowth.DefaultMaxNumberOfRetries

	// DefaultFormat is the input format.
	DefaultFormat = dataset.FormatCSV

	// DefaultProjection is the conditional tree strategy.
	DefaultProjection = string(fpgrowth.ProjectInPlace)
)

// Tree output formats.
const (
	OutputSVG = "svg"
	OutputDOT = "dot"
)

// ValidFormats is the set of supported input formats.
var ValidFormats = map[string]bool{
	dataset.FormatCSV:    true,
	dataset.FormatBasket: true,
}

// ValidProjections is the set of supported projection strategies.
var ValidProjections = map[string]bool{
	string(fpgrowth.ProjectInPlace): true,
	string(fpgrowth.ProjectClone):   true,
}

// ValidOutputs is the set of supported tree output formats.
var ValidOutputs = map[string]bool{
	OutputSVG: true,
	OutputDOT: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// DatasetOptions describe how an input is parsed and binarized.
type DatasetOptions struct {
	Format       string `json:"format,omitempty" toml:"format" yaml:"format,omitempty"`
	Delimiter    string `json:"delimiter,omitempty" toml:"delimiter" yaml:"delimiter,omitempty"`
	WeightColumn string `json:"weight_column,omitempty" toml:"weight_column" yaml:"weight_column,omitempty"`
	Positive     string `json:"positive,omitempty" toml:"positive" yaml:"positive,omitempty"` // positive value for every column
}

// Options contains all configuration for a mining run.
// The struct can be decoded from JSON, TOML and YAML.
type Options struct {
	DatasetOptions `yaml:",inline"`

	MinSupport              float64 `json:"min_support" toml:"min_support" yaml:"min_support"`
	MaxItems                int     `json:"max_items" toml:"max_items" yaml:"max_items"`
	MustContain             string  `json:"must_contain,omitempty" toml:"must_contain" yaml:"must_contain,omitempty"`
	FindMinNumberOfItemsets bool    `json:"find_min_number_of_itemsets" toml:"find_min_number_of_itemsets" yaml:"find_min_number_of_itemsets"`
	MinNumberOfItemsets     int     `json:"min_number_of_itemsets" toml:"min_number_of_itemsets" yaml:"min_number_of_itemsets"`
	MaxNumberOfRetries      int     `json:"max_number_of_retries" toml:"max_number_of_retries" yaml:"max_number_of_retries"`
	Projection              string  `json:"projection,omitempty" toml:"projection" yaml:"projection,omitempty"`

	// Refresh bypasses cached results.
	Refresh bool `json:"refresh,omitempty" toml:"refresh" yaml:"refresh,omitempty"`

	// Runtime options (not serialized). A nil Logger means the runner's.
	Logger   *log.Logger             `json:"-" toml:"-" yaml:"-"`
	Progress func(fpgrowth.Progress) `json:"-" toml:"-" yaml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// TreeOptions configures rendering of a single FP-tree.
type TreeOptions struct {
	DatasetOptions `yaml:",inline"`

	MinSupport float64 `json:"min_support" toml:"min_support" yaml:"min_support"`
	Output     string  `json:"output,omitempty" toml:"output" yaml:"output,omitempty"`
	Siblings   bool    `json:"siblings,omitempty" toml:"siblings" yaml:"siblings,omitempty"`
	MaxNodes   int     `json:"max_nodes,omitempty" toml:"max_nodes" yaml:"max_nodes,omitempty"`
	Refresh    bool    `json:"refresh,omitempty" toml:"refresh" yaml:"refresh,omitempty"`
}

// DefaultOptions returns the options of a run without configuration.
//
// MinSupport has no zero-value default because zero is a meaningful threshold,
// so callers start from DefaultOptions and override what they need.
func DefaultOptions() Options {
	return Options{
		DatasetOptions:      DatasetOptions{Format: DefaultFormat},
		MinSupport:          DefaultMinSupport,
		MaxItems:            DefaultMaxItems,
		MinNumberOfItemsets: DefaultMinNumberOfItemsets,
		MaxNumberOfRetries:  DefaultMaxNumberOfRetries,
		Projection:          DefaultProjection,
	}
}

// Input is a dataset to mine.
type Input struct {
	// Name identifies the input in logs and reports, typically a file path.
	Name string

	// Data holds the raw dataset in the format of DatasetOptions.Format.
	Data []byte
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// ReportID identifies the stored run report. Empty when reports are
	// disabled.
	ReportID string `json:"report_id,omitempty"`

	// DatasetHash is the content hash of the input.
	DatasetHash string `json:"dataset_hash"`

	// Columns are the binary columns that were mined; Dropped the ones that
	// were not, with the reason.
	Columns []string `json:"columns"`
	Dropped []string `json:"dropped,omitempty"`

	// ItemSets are the itemsets of the final attempt, in discovery order.
	ItemSets []report.ItemSet `json:"itemsets"`
	Attempts []report.Attempt `json:"attempts"`

	MinSupport float64 `json:"min_support"`
	MinCount   int     `json:"min_count"`
	Rows       int     `json:"rows"` // total row weight

	// Stats and CacheInfo describe this invocation and are never cached.
	Stats     Stats     `json:"-"`
	CacheInfo CacheInfo `json:"-"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	LoadTime time.Duration
	MineTime time.Duration
	Items    int // items of the final tree
	Nodes    int // nodes of the final tree
}

// CacheInfo tracks whether the result came from the cache.
type CacheInfo struct {
	Hit bool
	Key string
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that an input format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidOption, "invalid format: %q (must be one of: csv, basket)", format)
	}
	return nil
}

// ValidateProjection checks that a projection strategy is valid.
func ValidateProjection(p string) error {
	if !ValidProjections[p] {
		return errs.New(errs.ErrCodeInvalidOption, "invalid projection: %q (must be one of: inplace, clone)", p)
	}
	return nil
}

// ValidateOutput checks that a tree output format is valid.
func ValidateOutput(output string) error {
	if !ValidOutputs[output] {
		return errs.New(errs.ErrCodeInvalidOption, "invalid output: %q (must be one of: svg, dot)", output)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDatasetDefaults fills an empty format.
func (o *DatasetOptions) SetDatasetDefaults() {
	if o.Format == "" {
		o.Format = DefaultFormat
	}
}

// CSVOptions validates the dataset options and converts them for the readers.
func (o *DatasetOptions) CSVOptions() (dataset.CSVOptions, error) {
	o.SetDatasetDefaults()
	if err := ValidateFormat(o.Format); err != nil {
		return dataset.CSVOptions{}, err
	}
	out := dataset.CSVOptions{WeightColumn: o.WeightColumn}
	if o.Delimiter != "" {
		d, err := errs.ValidateDelimiter(o.Delimiter)
		if err != nil {
			return dataset.CSVOptions{}, err
		}
		out.Delimiter = d
	}
	return out, nil
}

// ValidateAndSetDefaults checks every option and fills the zero values that
// have a default. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if _, err := o.CSVOptions(); err != nil {
		return err
	}
	o.SetMiningDefaults()
	if err := errs.ValidateSupport(o.MinSupport); err != nil {
		return err
	}
	if err := errs.ValidateMaxItems(o.MaxItems); err != nil {
		return err
	}
	if _, err := errs.ValidatePattern(o.MustContain); err != nil {
		return err
	}
	if o.FindMinNumberOfItemsets {
		if err := errs.ValidateRetries(o.MaxNumberOfRetries); err != nil {
			return err
		}
	}
	if o.MinNumberOfItemsets < 0 {
		return errs.New(errs.ErrCodeInvalidOption, "min_number_of_itemsets must not be negative, got %d", o.MinNumberOfItemsets)
	}
	if err := ValidateProjection(o.Projection); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetMiningDefaults sets default values for the engine options.
func (o *Options) SetMiningDefaults() {
	if o.MinNumberOfItemsets == 0 {
		o.MinNumberOfItemsets = DefaultMinNumberOfItemsets
	}
	if o.MaxNumberOfRetries == 0 {
		o.MaxNumberOfRetries = DefaultMaxNumberOfRetries
	}
	if o.Projection == "" {
		o.Projection = DefaultProjection
	}
}

// EngineOptions converts validated options into engine options.
func (o *Options) EngineOptions() (fpgrowth.Options, error) {
	if err := o.ValidateAndSetDefaults(); err != nil {
		return fpgrowth.Options{}, err
	}
	re, _ := errs.ValidatePattern(o.MustContain)
	return fpgrowth.Options{
		MinSupport:              o.MinSupport,
		MaxItems:                o.MaxItems,
		MustContain:             re,
		FindMinNumberOfItemsets: o.FindMinNumberOfItemsets,
		MinNumberOfItemsets:     o.MinNumberOfItemsets,
		MaxNumberOfRetries:      o.MaxNumberOfRetries,
		Projection:              fpgrowth.Projection(o.Projection),
		Progress:                o.Progress,
	}, nil
}

// Settings returns the options as recorded in a run report.
func (o *Options) Settings() report.Settings {
	return report.Settings{
		MinSupport:              o.MinSupport,
		MaxItems:                o.MaxItems,
		MustContain:             o.MustContain,
		FindMinNumberOfItemsets: o.FindMinNumberOfItemsets,
		MinNumberOfItemsets:     o.MinNumberOfItemsets,
		MaxNumberOfRetries:      o.MaxNumberOfRetries,
		Projection:              o.Projection,
	}
}

// ResultKeyOpts returns cache key options for a mining result. The projection
// is left out since both strategies produce the same itemsets.
func (o *Options) ResultKeyOpts() cache.ResultKeyOpts {
	return cache.ResultKeyOpts{
		Format:       o.Format,
		Delimiter:    o.Delimiter,
		WeightColumn: o.WeightColumn,
		Positive:     o.Positive,
		MinSupport:   o.MinSupport,
		MaxItems:     o.MaxItems,
		MustContain:  o.MustContain,
		FindMin:      o.FindMinNumberOfItemsets,
		MinItemSets:  o.MinNumberOfItemsets,
		MaxRetries:   o.MaxNumberOfRetries,
	}
}

// Validate checks the tree options and fills defaults.
func (o *TreeOptions) Validate() error {
	if _, err := o.CSVOptions(); err != nil {
		return err
	}
	if o.Output == "" {
		o.Output = OutputSVG
	}
	if err := ValidateOutput(o.Output); err != nil {
		return err
	}
	if o.MaxNodes < 0 {
		return errs.New(errs.ErrCodeInvalidOption, "max_nodes must not be negative, got %d", o.MaxNodes)
	}
	return errs.ValidateSupport(o.MinSupport)
}

// TreeKeyOpts returns cache key options for a rendered tree.
func (o *TreeOptions) TreeKeyOpts() cache.TreeKeyOpts {
	return cache.TreeKeyOpts{
		Format:       o.Format,
		Delimiter:    o.Delimiter,
		WeightColumn: o.WeightColumn,
		Positive:     o.Positive,
		MinSupport:   o.MinSupport,
		Output:       o.Output,
		Siblings:     o.Siblings,
		MaxNodes:     o.MaxNodes,
	}
}

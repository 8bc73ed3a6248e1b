package pipeline

import (
	"bytes"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fpminer/pkg/core/dataset"
)

// Load parses and binarizes a dataset. Dropped columns are logged as warnings
// and returned in the form stored in reports.
func Load(in Input, opts DatasetOptions, logger *log.Logger) (*dataset.Binary, []string, error) {
	csvOpts, err := opts.CSVOptions()
	if err != nil {
		return nil, nil, err
	}
	table, err := dataset.Read(bytes.NewReader(in.Data), opts.Format, csvOpts)
	if err != nil {
		return nil, nil, err
	}

	ds, warnings, err := dataset.Binarize(table, opts.Positive)
	dropped := make([]string, 0, len(warnings))
	for _, w := range warnings {
		if logger != nil {
			logger.Warn("dropped column", "column", w.Column, "reason", w.Reason)
		}
		dropped = append(dropped, w.String())
	}
	if err != nil {
		return nil, dropped, err
	}
	return ds, dropped, nil
}

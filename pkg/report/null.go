package report

import (
	"context"

	errs "github.com/matzehuels/fpminer/pkg/errors"
)

// NullStore discards reports. It backs runs without --report.
type NullStore struct{}

// NewNullStore creates a null store.
func NewNullStore() *NullStore { return &NullStore{} }

// Save does nothing.
func (*NullStore) Save(context.Context, *Report) error { return nil }

// Get always reports NOT_FOUND.
func (*NullStore) Get(_ context.Context, id string) (*Report, error) {
	return nil, errs.New(errs.ErrCodeNotFound, "report %s not found", id)
}

// List returns no reports.
func (*NullStore) List(context.Context, int) ([]*Report, error) { return nil, nil }

// Delete always reports NOT_FOUND.
func (*NullStore) Delete(_ context.Context, id string) error {
	return errs.New(errs.ErrCodeNotFound, "report %s not found", id)
}

// Close does nothing.
func (*NullStore) Close() error { return nil }

var _ Store = (*NullStore)(nil)

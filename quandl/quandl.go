// Copyright 2022 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package quandl

import (
	"context"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/quandl/date"
	"github.com/stockparfait/quandl/source"
	"github.com/stockparfait/quandl/table"
)

// Quandl is a convenience API over a Source registered in a source.Registry.
type Quandl struct {
	registry *source.Registry
}

// New creates a Quandl client for the default URL.
func New(apiKey string) (*Quandl, error) {
	return NewWithURL(URL, apiKey)
}

// NewWithURL creates a Quandl client for the server at baseURL.
func NewWithURL(baseURL, apiKey string) (*Quandl, error) {
	r := source.NewRegistry()
	if err := r.Register(SourceName, NewSource(baseURL, apiKey, nil)); err != nil {
		return nil, errors.Annotate(err, "failed to register the source")
	}
	return &Quandl{registry: r}, nil
}

// Registry with the Source registered as SourceName.
func (q *Quandl) Registry() *source.Registry { return q.registry }

// Read any Request. See Source.Read for the result types.
func (q *Quandl) Read(ctx context.Context, r Request) (table.Data, error) {
	return q.registry.Read(ctx, r)
}

// read the request and check the result type.
func read[T any](ctx context.Context, q *Quandl, r Request) (T, error) {
	var zero T
	d, err := q.Read(ctx, r)
	if err != nil {
		return zero, err
	}
	res, ok := d.(T)
	if !ok {
		return zero, errors.Reason("%s: unexpected result type %T", r, d)
	}
	return res, nil
}

// TimeSeriesOption modifies a TimeSeriesRequest, e.g. by calling its builder
// methods.
type TimeSeriesOption func(TimeSeriesRequest) TimeSeriesRequest

// DatabaseListingOption modifies a DatabaseListingRequest.
type DatabaseListingOption func(DatabaseListingRequest) DatabaseListingRequest

// DatabaseListing downloads the catalog of all databases with the default
// pagination, unless overridden by the options.
func (q *Quandl) DatabaseListing(ctx context.Context, opts ...DatabaseListingOption) (*table.Frame[int, Field], error) {
	r := NewDatabaseListingRequest()
	for _, o := range opts {
		r = o(r)
	}
	return read[*table.Frame[int, Field]](ctx, q, r)
}

// DatasetListing downloads the codes and descriptions of all the datasets in
// the database, keyed by dataset code.
func (q *Quandl) DatasetListing(ctx context.Context, database string) (*table.Frame[string, Field], error) {
	r, err := NewDatasetListingRequest(database)
	if err != nil {
		return nil, newError(ErrPrecondition, r, err)
	}
	return read[*table.Frame[string, Field]](ctx, q, r)
}

// Metadata downloads the description of the dataset as a single-row frame.
func (q *Quandl) Metadata(ctx context.Context, database, dataset string) (*table.Frame[int, Field], error) {
	r, err := NewMetadataRequest(database, dataset)
	if err != nil {
		return nil, newError(ErrPrecondition, r, err)
	}
	return read[*table.Frame[int, Field]](ctx, q, r)
}

// TimeSeries downloads the dataset between start and end dates, inclusive.
func (q *Quandl) TimeSeries(ctx context.Context, database, dataset string, start, end date.Date, opts ...TimeSeriesOption) (*table.Frame[date.Date, string], error) {
	r, err := NewTimeSeriesRequest(database, dataset, start, end)
	if err != nil {
		return nil, newError(ErrPrecondition, r, err)
	}
	for _, o := range opts {
		r = o(r)
	}
	return read[*table.Frame[date.Date, string]](ctx, q, r)
}

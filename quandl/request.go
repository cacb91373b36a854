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
	"fmt"
	"net/url"
	"strconv"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/quandl/date"
	"github.com/stockparfait/quandl/source"
)

// Operation is the kind of a Request.
type Operation string

// Values of Operation.
const (
	OpTimeSeries      = Operation("timeseries")
	OpDatabaseListing = Operation("databases")
	OpDatasetListing  = Operation("datasets")
	OpMetadata        = Operation("metadata")
)

// Defaults for the database listing pagination.
const (
	DefaultMaxPages = 100
	DefaultPageSize = 100
)

// Request to the provider. It is implemented only by TimeSeriesRequest,
// DatabaseListingRequest, DatasetListingRequest and MetadataRequest. All the
// request types are immutable values; their builder methods return a modified
// copy.
type Request interface {
	source.Options
	fmt.Stringer
	Operation() Operation
	// Path is the URL path relative to the base URL.
	Path() string
	// key is the API key overriding the one of the Source, if not empty.
	key() string
}

var (
	_ Request = TimeSeriesRequest{}
	_ Request = DatabaseListingRequest{}
	_ Request = DatasetListingRequest{}
	_ Request = MetadataRequest{}
)

func checkNonNegative(name string, n int) error {
	if n < 0 {
		return errors.Reason("%s must be >= 0, got %d", name, n)
	}
	return nil
}

// TimeSeriesRequest downloads a single dataset as a table keyed by date.
type TimeSeriesRequest struct {
	database    string
	dataset     string
	start       date.Date
	end         date.Date
	columnIndex int
	rows        int
	limit       int
	descending  bool
	apiKey      string
}

// NewTimeSeriesRequest creates a valid request for the dataset between start
// and end dates, inclusive.
func NewTimeSeriesRequest(database, dataset string, start, end date.Date) (TimeSeriesRequest, error) {
	r := TimeSeriesRequest{database: database, dataset: dataset, start: start, end: end}
	if err := r.Validate(); err != nil {
		return TimeSeriesRequest{}, errors.Annotate(err, "invalid time series request")
	}
	return r, nil
}

func (r TimeSeriesRequest) Operation() Operation { return OpTimeSeries }
func (r TimeSeriesRequest) key() string          { return r.apiKey }

func (r TimeSeriesRequest) Validate() error {
	if r.database == "" {
		return errors.Reason("database is required")
	}
	if r.dataset == "" {
		return errors.Reason("dataset is required")
	}
	if r.start.IsZero() {
		return errors.Reason("start date is required")
	}
	if r.end.IsZero() {
		return errors.Reason("end date is required")
	}
	if r.start.After(r.end) {
		return errors.Reason("end date %s is before start date %s", r.end, r.start)
	}
	if err := checkNonNegative("column index", r.columnIndex); err != nil {
		return err
	}
	if err := checkNonNegative("rows", r.rows); err != nil {
		return err
	}
	return checkNonNegative("limit", r.limit)
}

func (r TimeSeriesRequest) Path() string {
	return "/api/v3/datasets/" + r.database + "/" + r.dataset + ".csv"
}

func (r TimeSeriesRequest) String() string {
	return fmt.Sprintf("%s %s/%s [%s..%s]", r.Operation(), r.database, r.dataset, r.start, r.end)
}

// ColumnIndex requests a single value column by its 1-based index; 0 means all
// the columns.
func (r TimeSeriesRequest) ColumnIndex(i int) TimeSeriesRequest {
	r.columnIndex = i
	return r
}

// Rows limits the number of rows; 0 means unlimited.
func (r TimeSeriesRequest) Rows(n int) TimeSeriesRequest {
	r.rows = n
	return r
}

// Limit the number of rows; 0 means unlimited.
func (r TimeSeriesRequest) Limit(n int) TimeSeriesRequest {
	r.limit = n
	return r
}

// Descending sets the sort order of the rows; the default is ascending.
func (r TimeSeriesRequest) Descending(desc bool) TimeSeriesRequest {
	r.descending = desc
	return r
}

// APIKey overrides the API key of the Source for this request.
func (r TimeSeriesRequest) APIKey(key string) TimeSeriesRequest {
	r.apiKey = key
	return r
}

// Values returns the URL query parameters except the API key. Each call
// creates a new object.
func (r TimeSeriesRequest) Values() url.Values {
	v := make(url.Values)
	v.Set("start_date", r.start.String())
	v.Set("end_date", r.end.String())
	if r.columnIndex > 0 {
		v.Set("column_index", strconv.Itoa(r.columnIndex))
	}
	if r.rows > 0 {
		v.Set("rows", strconv.Itoa(r.rows))
	}
	if r.limit > 0 {
		v.Set("limit", strconv.Itoa(r.limit))
	}
	if r.descending {
		v.Set("order", "desc")
	} else {
		v.Set("order", "asc")
	}
	return v
}

// DatabaseListingRequest downloads the catalog of all databases, page by page.
type DatabaseListingRequest struct {
	maxPages int
	pageSize int
	apiKey   string
}

// NewDatabaseListingRequest creates a request with the default pagination.
func NewDatabaseListingRequest() DatabaseListingRequest {
	return DatabaseListingRequest{}
}

func (r DatabaseListingRequest) Operation() Operation { return OpDatabaseListing }
func (r DatabaseListingRequest) key() string          { return r.apiKey }

func (r DatabaseListingRequest) Validate() error {
	if err := checkNonNegative("max pages", r.maxPages); err != nil {
		return err
	}
	return checkNonNegative("page size", r.pageSize)
}

func (r DatabaseListingRequest) Path() string { return "/api/v3/databases.csv" }

func (r DatabaseListingRequest) String() string {
	return fmt.Sprintf("%s [%d x %d]", r.Operation(), r.Pages(), r.PerPage())
}

// MaxPages sets the maximum number of pages to download; 0 means the default.
func (r DatabaseListingRequest) MaxPages(n int) DatabaseListingRequest {
	r.maxPages = n
	return r
}

// PageSize sets the number of rows per page; 0 means the default.
func (r DatabaseListingRequest) PageSize(n int) DatabaseListingRequest {
	r.pageSize = n
	return r
}

// APIKey overrides the API key of the Source for this request.
func (r DatabaseListingRequest) APIKey(key string) DatabaseListingRequest {
	r.apiKey = key
	return r
}

// Pages is the effective maximum number of pages.
func (r DatabaseListingRequest) Pages() int {
	if r.maxPages == 0 {
		return DefaultMaxPages
	}
	return r.maxPages
}

// PerPage is the effective page size.
func (r DatabaseListingRequest) PerPage() int {
	if r.pageSize == 0 {
		return DefaultPageSize
	}
	return r.pageSize
}

// PageValues returns the URL query parameters for the 0-based page, except the
// API key.
func (r DatabaseListingRequest) PageValues(page int) url.Values {
	v := make(url.Values)
	v.Set("page", strconv.Itoa(page))
	v.Set("per_page", strconv.Itoa(r.PerPage()))
	return v
}

// DatasetListingRequest downloads the codes of all datasets in a database.
type DatasetListingRequest struct {
	database string
	apiKey   string
}

// NewDatasetListingRequest creates a valid request for the database.
func NewDatasetListingRequest(database string) (DatasetListingRequest, error) {
	r := DatasetListingRequest{database: database}
	if err := r.Validate(); err != nil {
		return DatasetListingRequest{}, errors.Annotate(err, "invalid dataset listing request")
	}
	return r, nil
}

func (r DatasetListingRequest) Operation() Operation { return OpDatasetListing }
func (r DatasetListingRequest) key() string          { return r.apiKey }

func (r DatasetListingRequest) Validate() error {
	if r.database == "" {
		return errors.Reason("database is required")
	}
	return nil
}

func (r DatasetListingRequest) Path() string {
	return "/api/v3/databases/" + r.database + "/codes.csv"
}

func (r DatasetListingRequest) String() string {
	return fmt.Sprintf("%s %s", r.Operation(), r.database)
}

// Database code of the request.
func (r DatasetListingRequest) Database() string { return r.database }

// APIKey overrides the API key of the Source for this request.
func (r DatasetListingRequest) APIKey(key string) DatasetListingRequest {
	r.apiKey = key
	return r
}

// MetadataRequest downloads the description of a single dataset.
type MetadataRequest struct {
	database string
	dataset  string
	apiKey   string
}

// NewMetadataRequest creates a valid request for the dataset.
func NewMetadataRequest(database, dataset string) (MetadataRequest, error) {
	r := MetadataRequest{database: database, dataset: dataset}
	if err := r.Validate(); err != nil {
		return MetadataRequest{}, errors.Annotate(err, "invalid metadata request")
	}
	return r, nil
}

func (r MetadataRequest) Operation() Operation { return OpMetadata }
func (r MetadataRequest) key() string          { return r.apiKey }

func (r MetadataRequest) Validate() error {
	if r.database == "" {
		return errors.Reason("database is required")
	}
	if r.dataset == "" {
		return errors.Reason("dataset is required")
	}
	return nil
}

func (r MetadataRequest) Path() string {
	return "/api/v3/datasets/" + r.database + "/" + r.dataset + "/metadata.json"
}

func (r MetadataRequest) String() string {
	return fmt.Sprintf("%s %s/%s", r.Operation(), r.database, r.dataset)
}

// APIKey overrides the API key of the Source for this request.
func (r MetadataRequest) APIKey(key string) MetadataRequest {
	r.apiKey = key
	return r
}

// Descriptor is a flat representation of any Request, suitable for
// configuration files. Fields not used by the operation are ignored. Dates are
// in the YYYY-MM-DD format.
type Descriptor struct {
	Operation   Operation `toml:"operation"`
	APIKey      string    `toml:"api_key"`
	Database    string    `toml:"database"`
	Dataset     string    `toml:"dataset"`
	Start       string    `toml:"start"`
	End         string    `toml:"end"`
	Limit       int       `toml:"limit"`
	Rows        int       `toml:"rows"`
	ColumnIndex int       `toml:"column_index"`
	Descending  bool      `toml:"descending"`
	MaxPages    int       `toml:"max_pages"`
	PageSize    int       `toml:"page_size"`
}

var _ source.Options = &Descriptor{}

// Validate checks that all the fields required by the operation are present.
func (d *Descriptor) Validate() error {
	_, err := d.Request()
	return err
}

func parseDate(name, s string) (date.Date, error) {
	if s == "" {
		return date.Date{}, errors.Reason("%s date is required", name)
	}
	return date.Parse(s)
}

// Request converts the descriptor into a typed, validated Request.
func (d *Descriptor) Request() (Request, error) {
	switch d.Operation {
	case OpTimeSeries:
		start, err := parseDate("start", d.Start)
		if err != nil {
			return nil, err
		}
		end, err := parseDate("end", d.End)
		if err != nil {
			return nil, err
		}
		r, err := NewTimeSeriesRequest(d.Database, d.Dataset, start, end)
		if err != nil {
			return nil, err
		}
		r = r.ColumnIndex(d.ColumnIndex).Rows(d.Rows).Limit(d.Limit)
		r = r.Descending(d.Descending).APIKey(d.APIKey)
		if err := r.Validate(); err != nil {
			return nil, errors.Annotate(err, "invalid time series request")
		}
		return r, nil
	case OpDatabaseListing:
		r := NewDatabaseListingRequest().MaxPages(d.MaxPages).PageSize(d.PageSize)
		r = r.APIKey(d.APIKey)
		if err := r.Validate(); err != nil {
			return nil, errors.Annotate(err, "invalid database listing request")
		}
		return r, nil
	case OpDatasetListing:
		r, err := NewDatasetListingRequest(d.Database)
		if err != nil {
			return nil, err
		}
		return r.APIKey(d.APIKey), nil
	case OpMetadata:
		r, err := NewMetadataRequest(d.Database, d.Dataset)
		if err != nil {
			return nil, err
		}
		return r.APIKey(d.APIKey), nil
	case "":
		return nil, errors.Reason("operation is required")
	}
	return nil, errors.Reason("unknown operation '%s'", d.Operation)
}

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
	"archive/zip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/fetch"
	"github.com/stockparfait/iterator"
	"github.com/stockparfait/logging"
	"github.com/stockparfait/quandl/date"
	"github.com/stockparfait/quandl/source"
	"github.com/stockparfait/quandl/table"
)

// URL is the default base URL of the server. It may be overwritten in tests
// before creating a new Source.
var URL = "https://www.quandl.com"

// SourceName is the name of the Source in a source.Registry.
const SourceName = "quandl"

// Source of the provider's tables, to be registered in a source.Registry.
type Source struct {
	baseURL string      // the base URL of the server
	apiKey  string      // your very own secret key
	vocab   *Vocabulary // shared, read-only
	tempDir string      // for downloaded archives; os.TempDir() when empty
}

var _ source.Source = &Source{}

// NewSource creates a Source for the server at baseURL. A nil vocab means
// DefaultVocabulary().
func NewSource(baseURL, apiKey string, vocab *Vocabulary) *Source {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	return &Source{baseURL: baseURL, apiKey: apiKey, vocab: vocab}
}

// IsSupported is true for any Request or *Descriptor.
func (s *Source) IsSupported(o source.Options) bool {
	switch o.(type) {
	case Request, *Descriptor:
		return true
	}
	return false
}

// Read downloads the table described by the Request. The result is:
//
//   TimeSeriesRequest      - *table.Frame[date.Date, string]
//   DatabaseListingRequest - *table.Frame[int, Field]
//   DatasetListingRequest  - *table.Frame[string, Field]
//   MetadataRequest        - *table.Frame[int, Field]
//
// A *Descriptor is converted to its Request first. All errors are *Error. An
// invalid request fails before any I/O.
func (s *Source) Read(ctx context.Context, o source.Options) (table.Data, error) {
	var req Request
	switch v := o.(type) {
	case Request:
		req = v
	case *Descriptor:
		if v == nil {
			return nil, newError(ErrPrecondition, nil, errors.Reason("nil descriptor"))
		}
		r, err := v.Request()
		if err != nil {
			return nil, newError(ErrPrecondition, nil, err)
		}
		req = r
	default:
		return nil, newError(ErrPrecondition, nil,
			errors.Reason("unsupported options of type %T", o))
	}
	if err := req.Validate(); err != nil {
		return nil, newError(ErrPrecondition, req, err)
	}
	var d table.Data
	var err *Error
	switch r := req.(type) {
	case TimeSeriesRequest:
		d, err = s.timeSeries(ctx, r)
	case DatabaseListingRequest:
		d, err = s.databaseListing(ctx, r)
	case DatasetListingRequest:
		d, err = s.datasetListing(ctx, r)
	case MetadataRequest:
		d, err = s.metadata(ctx, r)
	default:
		err = newError(ErrPrecondition, req, errors.Reason("unsupported request %T", req))
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Source) key(r Request) string {
	if k := r.key(); k != "" {
		return k
	}
	return s.apiKey
}

// withKey adds the API key to the query values.
func (s *Source) withKey(r Request, v url.Values) url.Values {
	if v == nil {
		v = make(url.Values)
	}
	v.Set("api_key", s.key(r))
	return v
}

// get downloads the request's path with the query values. Any non-2xx status
// is an error. The caller must close the response body.
func (s *Source) get(ctx context.Context, r Request, v url.Values) (*http.Response, error) {
	resp, err := fetch.GetRetry(ctx, s.baseURL+r.Path(), s.withKey(r, v), nil)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return nil, errors.Reason("failed to fetch %s: %s", r.Path(), s.redact(r, err.Error()))
	}
	return resp, nil
}

// redact removes the API key from an error message, since the message may
// contain the full URL.
func (s *Source) redact(r Request, msg string) string {
	k := s.key(r)
	if k == "" {
		return msg
	}
	msg = strings.ReplaceAll(msg, url.QueryEscape(k), "<redacted>")
	return strings.ReplaceAll(msg, k, "<redacted>")
}

// remap converts the raw column names to canonical fields.
func remap[R comparable](r Request, v *Vocabulary, f *table.Frame[R, string]) (*table.Frame[R, Field], *Error) {
	var unknown error
	res, err := table.MapColumns(f, func(c string) (Field, error) {
		fl, err := v.Resolve(c)
		if err != nil && unknown == nil {
			unknown = err
		}
		return fl, err
	})
	if unknown != nil {
		return nil, newError(ErrVocabulary, r, unknown)
	}
	if err != nil {
		return nil, newError(ErrParse, r, err)
	}
	return res, nil
}

func (s *Source) timeSeries(ctx context.Context, r TimeSeriesRequest) (*table.Frame[date.Date, string], *Error) {
	resp, err := s.get(ctx, r, r.Values())
	if err != nil {
		return nil, newError(ErrTransport, r, err)
	}
	defer resp.Body.Close()

	f, err := table.ReadCSV(resp.Body, table.CSVOptions[date.Date]{
		Include: func(i int, _ string) bool { return i > 0 },
		RowKey: func(row []string) (date.Date, error) {
			if len(row) == 0 {
				return date.Date{}, errors.Reason("empty row")
			}
			return date.Parse(row[0])
		},
	})
	if err != nil {
		return nil, newError(ErrParse, r, err)
	}
	logging.Debugf(ctx, "%s: %d rows, %d columns", r, f.RowCount(), f.ColCount())
	return f, nil
}

func (s *Source) metadata(ctx context.Context, r MetadataRequest) (*table.Frame[int, Field], *Error) {
	resp, err := s.get(ctx, r, nil)
	if err != nil {
		return nil, newError(ErrTransport, r, err)
	}
	defer resp.Body.Close()

	var info DatasetInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, newError(ErrParse, r, errors.Annotate(err, "failed to decode JSON"))
	}
	f, err := info.Frame()
	if err != nil {
		return nil, newError(ErrParse, r, err)
	}
	return f, nil
}

// databaseColumns of the database listing CSV, in order. Unknown columns are
// inferred, and then fail the vocabulary remapping.
var databaseColumns = []struct {
	name string
	tp   table.Type
}{
	{"name", table.TypeString},
	{"database_code", table.TypeString},
	{"description", table.TypeString},
	{"datasets_count", table.TypeInt},
	{"downloads", table.TypeInt},
	{"premium", table.TypeBool},
	{"image", table.TypeString},
	{"favorite", table.TypeBool},
	{"url_name", table.TypeString},
}

func databaseColumnTypes() map[string]table.Type {
	m := make(map[string]table.Type, len(databaseColumns))
	for _, c := range databaseColumns {
		m[c.name] = c.tp
	}
	return m
}

// databaseSeed is an empty page with all the known columns, so that an empty
// listing still has them.
func databaseSeed() (*table.Frame[int, string], error) {
	f := table.NewFrame[int, string]()
	for _, c := range databaseColumns {
		if err := f.AddColumn(c.name, c.tp, nil); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (s *Source) databasePage(ctx context.Context, r DatabaseListingRequest, page int) (*table.Frame[int, string], *Error) {
	resp, err := s.get(ctx, r, r.PageValues(page))
	if err != nil {
		return nil, newError(ErrTransport, r, errors.Annotate(err, "page %d", page))
	}
	defer resp.Body.Close()

	f, err := table.ReadCSV(resp.Body, table.CSVOptions[int]{
		Exclude:     []string{"id"},
		ColumnTypes: databaseColumnTypes(),
		RowKey: func(row []string) (int, error) {
			if len(row) == 0 {
				return 0, errors.Reason("empty row")
			}
			return strconv.Atoi(row[0])
		},
	})
	if err != nil {
		return nil, newError(ErrParse, r, errors.Annotate(err, "page %d", page))
	}
	return f, nil
}

// databaseListing downloads pages until the first empty page, but no more than
// r.Pages() pages.
func (s *Source) databaseListing(ctx context.Context, r DatabaseListingRequest) (*table.Frame[int, Field], *Error) {
	seed, err := databaseSeed()
	if err != nil {
		return nil, newError(ErrParse, r, err)
	}
	pages := []*table.Frame[int, string]{seed}
	exhausted := false
	for i := 0; i < r.Pages(); i++ {
		f, err := s.databasePage(ctx, r, i)
		if err != nil {
			return nil, err
		}
		logging.Debugf(ctx, "%s: page %d has %d rows", r, i, f.RowCount())
		if f.RowCount() == 0 {
			exhausted = true
			break
		}
		pages = append(pages, f)
	}
	if !exhausted {
		logging.Warningf(ctx, "%s: stopped at %d pages, the listing may be incomplete",
			r, r.Pages())
	}
	u, err := table.Union(pages...)
	if err != nil {
		return nil, newError(ErrParse, r, err)
	}
	logging.Infof(ctx, "%s: %d databases in %d pages", r, u.RowCount(), len(pages)-1)
	return remap(r, s.vocab, u)
}

// zipEntries iterates over the dataset code tables in a zip archive. Each Next
// call reads one entry; the first error stops the iteration and is kept in
// Err.
type zipEntries struct {
	files    []*zip.File
	database string
	Err      error
}

var _ iterator.Iterator[*table.Frame[string, string]] = &zipEntries{}

func (it *zipEntries) Next() (*table.Frame[string, string], bool) {
	for it.Err == nil && len(it.files) > 0 {
		f := it.files[0]
		it.files = it.files[1:]
		if f.FileInfo().IsDir() {
			continue
		}
		fr, err := readCodes(f, it.database)
		if err != nil {
			it.Err = errors.Annotate(err, "failed to read '%s' in archive", f.Name)
			return nil, false
		}
		return fr, true
	}
	return nil, false
}

// readCodes reads a headerless CSV of dataset codes and descriptions.
func readCodes(f *zip.File, database string) (*table.Frame[string, string], error) {
	rc, err := f.Open()
	if err != nil {
		return nil, errors.Annotate(err, "failed to open")
	}
	defer rc.Close()

	codeCol := table.HeadlessColumn(0)
	descCol := table.HeadlessColumn(1)
	fr, err := table.ReadCSV(rc, table.CSVOptions[string]{
		NoHeader:    true,
		Exclude:     []string{codeCol},
		ColumnTypes: map[string]table.Type{descCol: table.TypeString},
		RowKey: func(row []string) (string, error) {
			if len(row) == 0 {
				return "", errors.Reason("empty row")
			}
			return row[0], nil
		},
	})
	if err != nil {
		return nil, err
	}
	if !fr.HasColumn(descCol) {
		if err := fr.AddConstColumn(descCol, table.TypeString, nil); err != nil {
			return nil, err
		}
	}
	if err := fr.RenameColumn(descCol, FieldDescription.String()); err != nil {
		return nil, err
	}
	if err := fr.AddConstColumn(FieldDatabaseCode.String(), table.TypeString, database); err != nil {
		return nil, err
	}
	return fr, nil
}

// codesSeed is an empty codes table, so that an empty archive still has the
// columns.
func codesSeed() (*table.Frame[string, string], error) {
	f := table.NewFrame[string, string]()
	for _, c := range []Field{FieldDescription, FieldDatabaseCode} {
		if err := f.AddColumn(c.String(), table.TypeString, nil); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// download the response body into a new file in the temp directory and
// return its path. The path is set whenever the file was created.
func download(ctx context.Context, s *Source, r Request) (string, error) {
	resp, err := s.get(ctx, r, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	dir := s.tempDir
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, uuid.NewString()+".zip")
	out, err := os.Create(path)
	if err != nil {
		return "", errors.Annotate(err, "failed to create '%s'", path)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return path, errors.Annotate(err, "failed to download into '%s'", path)
	}
	if err := out.Close(); err != nil {
		return path, errors.Annotate(err, "failed to close '%s'", path)
	}
	return path, nil
}

func (s *Source) datasetListing(ctx context.Context, r DatasetListingRequest) (*table.Frame[string, Field], *Error) {
	path, err := download(ctx, s, r)
	if path != "" {
		defer func() {
			if err := os.Remove(path); err != nil {
				logging.Warningf(ctx, "failed to remove '%s': %s", path, err.Error())
			}
		}()
	}
	if err != nil {
		return nil, newError(ErrTransport, r, err)
	}
	z, err := zip.OpenReader(path)
	if err != nil {
		return nil, newError(ErrParse, r, errors.Annotate(err, "failed to open zip archive"))
	}
	defer z.Close()

	seed, err := codesSeed()
	if err != nil {
		return nil, newError(ErrParse, r, err)
	}
	it := &zipEntries{files: z.File, database: r.Database()}
	frames := iterator.Reduce[*table.Frame[string, string], []*table.Frame[string, string]](
		it, []*table.Frame[string, string]{seed}, func(f *table.Frame[string, string], acc []*table.Frame[string, string]) []*table.Frame[string, string] {
			return append(acc, f)
		})
	if it.Err != nil {
		return nil, newError(ErrParse, r, it.Err)
	}
	u, err := table.Union(frames...)
	if err != nil {
		return nil, newError(ErrParse, r, err)
	}
	logging.Infof(ctx, "%s: %d datasets in %d files", r, u.RowCount(), len(frames)-1)
	return remap(r, s.vocab, u)
}

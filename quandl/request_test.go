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
	"net/url"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stockparfait/quandl/date"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRequest(t *testing.T) {
	t.Parallel()

	start := date.New(2014, 1, 6)
	end := date.New(2014, 2, 4)

	Convey("TimeSeriesRequest builds nondestructively", t, func() {
		r, err := NewTimeSeriesRequest("WIKI", "AAPL", start, end)
		So(err, ShouldBeNil)
		So(r.Path(), ShouldEqual, "/api/v3/datasets/WIKI/AAPL.csv")
		So(r.Values(), ShouldResemble, url.Values{
			"start_date": {"2014-01-06"},
			"end_date":   {"2014-02-04"},
			"order":      {"asc"},
		})

		Convey("all options", func() {
			r2 := r.ColumnIndex(4).Rows(5).Limit(10).Descending(true).APIKey("k2")
			So(r2.key(), ShouldEqual, "k2")
			So(r.key(), ShouldEqual, "")
			So(len(r.Values()), ShouldEqual, 3)
			So(r2.Values(), ShouldResemble, url.Values{
				"start_date":   {"2014-01-06"},
				"end_date":     {"2014-02-04"},
				"column_index": {"4"},
				"rows":         {"5"},
				"limit":        {"10"},
				"order":        {"desc"},
			})
		})

		// The rows parameter carries the number of rows, and not the column
		// index.
		Convey("rows and column index are independent", func() {
			So(r.Rows(7).Values()["rows"], ShouldResemble, []string{"7"})
			So(r.Rows(7).Values()["column_index"], ShouldBeNil)
			So(r.ColumnIndex(3).Values()["rows"], ShouldBeNil)
		})

		Convey("validation", func() {
			_, err := NewTimeSeriesRequest("", "AAPL", start, end)
			So(err, ShouldNotBeNil)
			_, err = NewTimeSeriesRequest("WIKI", "", start, end)
			So(err, ShouldNotBeNil)
			_, err = NewTimeSeriesRequest("WIKI", "AAPL", date.Date{}, end)
			So(err, ShouldNotBeNil)
			_, err = NewTimeSeriesRequest("WIKI", "AAPL", start, date.Date{})
			So(err, ShouldNotBeNil)
			_, err = NewTimeSeriesRequest("WIKI", "AAPL", end, start)
			So(err, ShouldNotBeNil)
			_, err = NewTimeSeriesRequest("WIKI", "AAPL", start, start)
			So(err, ShouldBeNil)
			So(r.Limit(-1).Validate(), ShouldNotBeNil)
			So(TimeSeriesRequest{}.Validate(), ShouldNotBeNil)
		})
	})

	Convey("DatabaseListingRequest", t, func() {
		r := NewDatabaseListingRequest()
		So(r.Validate(), ShouldBeNil)
		So(r.Path(), ShouldEqual, "/api/v3/databases.csv")
		So(r.Pages(), ShouldEqual, DefaultMaxPages)
		So(r.PerPage(), ShouldEqual, DefaultPageSize)
		So(r.PageValues(3), ShouldResemble, url.Values{
			"page": {"3"}, "per_page": {"100"}})

		r2 := r.MaxPages(2).PageSize(10)
		So(r.Pages(), ShouldEqual, DefaultMaxPages)
		So(r2.Pages(), ShouldEqual, 2)
		So(r2.PageValues(0), ShouldResemble, url.Values{
			"page": {"0"}, "per_page": {"10"}})
		So(r.PageSize(-1).Validate(), ShouldNotBeNil)
	})

	Convey("DatasetListingRequest and MetadataRequest", t, func() {
		r, err := NewDatasetListingRequest("WIKI")
		So(err, ShouldBeNil)
		So(r.Path(), ShouldEqual, "/api/v3/databases/WIKI/codes.csv")
		So(r.Database(), ShouldEqual, "WIKI")
		_, err = NewDatasetListingRequest("")
		So(err, ShouldNotBeNil)

		m, err := NewMetadataRequest("WIKI", "AAPL")
		So(err, ShouldBeNil)
		So(m.Path(), ShouldEqual, "/api/v3/datasets/WIKI/AAPL/metadata.json")
		So(m.String(), ShouldEqual, "metadata WIKI/AAPL")
		_, err = NewMetadataRequest("WIKI", "")
		So(err, ShouldNotBeNil)
		So(MetadataRequest{}.Validate(), ShouldNotBeNil)
	})

	Convey("Descriptor works", t, func() {
		Convey("missing fields fail validation", func() {
			for _, d := range []Descriptor{
				{},
				{Operation: "bogus"},
				{Operation: OpTimeSeries, Database: "WIKI", Dataset: "AAPL", Start: "2014-01-06"},
				{Operation: OpTimeSeries, Database: "WIKI", Dataset: "AAPL", End: "2014-02-04"},
				{Operation: OpTimeSeries, Dataset: "AAPL", Start: "2014-01-06", End: "2014-02-04"},
				{Operation: OpTimeSeries, Database: "WIKI", Start: "2014-01-06", End: "2014-02-04"},
				{Operation: OpMetadata, Database: "WIKI"},
				{Operation: OpMetadata, Dataset: "AAPL"},
				{Operation: OpDatasetListing},
				{Operation: OpDatabaseListing, MaxPages: -1},
			} {
				So(d.Validate(), ShouldNotBeNil)
			}
		})

		Convey("converts to typed requests", func() {
			d := Descriptor{
				Operation:   OpTimeSeries,
				APIKey:      "k",
				Database:    "WIKI",
				Dataset:     "AAPL",
				Start:       "2014-01-06",
				End:         "2014-02-04",
				Rows:        5,
				ColumnIndex: 4,
				Descending:  true,
			}
			So(d.Validate(), ShouldBeNil)
			r, err := d.Request()
			So(err, ShouldBeNil)
			expected, err := NewTimeSeriesRequest("WIKI", "AAPL", start, end)
			So(err, ShouldBeNil)
			So(r, ShouldResemble, expected.Rows(5).ColumnIndex(4).Descending(true).APIKey("k"))

			d = Descriptor{Operation: OpDatabaseListing, MaxPages: 3}
			r, err = d.Request()
			So(err, ShouldBeNil)
			So(r, ShouldResemble, NewDatabaseListingRequest().MaxPages(3))
		})

		Convey("decodes from TOML", func() {
			var batch struct {
				Requests []Descriptor `toml:"request"`
			}
			dec := toml.NewDecoder(strings.NewReader(`
[[request]]
operation = "metadata"
database = "WIKI"
dataset = "AAPL"

[[request]]
operation = "databases"
page_size = 50
`))
			So(dec.Decode(&batch), ShouldBeNil)
			So(batch.Requests, ShouldResemble, []Descriptor{
				{Operation: OpMetadata, Database: "WIKI", Dataset: "AAPL"},
				{Operation: OpDatabaseListing, PageSize: 50},
			})
		})
	})
}

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

package table

import (
	"bytes"
	"testing"
	"time"

	"github.com/stockparfait/quandl/date"
	"github.com/stockparfait/testutil"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTable(t *testing.T) {
	t.Parallel()

	Convey("Frame printing works", t, func() {
		f := NewFrame[string, string]("Toyota", "Honda")
		So(f.AddColumn("Year", TypeInt, []any{int64(2015), nil}), ShouldBeNil)
		So(f.AddColumn("Model", TypeString, []any{"Prius", "Clarity"}), ShouldBeNil)

		Convey("FormatValue", func() {
			So(FormatValue(nil), ShouldEqual, "")
			So(FormatValue(int64(-3)), ShouldEqual, "-3")
			So(FormatValue(1.5), ShouldEqual, "1.5")
			So(FormatValue(true), ShouldEqual, "TRUE")
			So(FormatValue(false), ShouldEqual, "FALSE")
			So(FormatValue(date.New(2014, 1, 6)), ShouldEqual, "2014-01-06")
			So(FormatValue(time.Date(2018, 3, 27, 21, 46, 11, 0, time.UTC)),
				ShouldEqual, "2018-03-27T21:46:11Z")
			So(FormatValue([]string{"Date", "Open"}), ShouldEqual, "Date|Open")
		})

		Convey("WriteCSV", func() {
			Convey("Default Params", func() {
				var buf bytes.Buffer
				So(f.WriteCSV(&buf, Params{KeyHeader: "Make"}), ShouldBeNil)
				So("\n"+buf.String(), ShouldEqual, `
Make,Year,Model
Toyota,2015,Prius
Honda,,Clarity
`)
			})

			Convey("Limited rows, no header", func() {
				var buf bytes.Buffer
				So(f.WriteCSV(&buf, Params{Rows: 1, NoHeader: true}), ShouldBeNil)
				So("\n"+buf.String(), ShouldEqual, `
Toyota,2015,Prius
`)
			})
		})

		Convey("WriteText", func() {
			Convey("Default Params", func() {
				var buf bytes.Buffer
				So(f.WriteText(&buf, Params{}), ShouldBeNil)
				So("\n"+buf.String(), ShouldEqual, `
   Key | Year |   Model
------ | ---- | -------
Toyota | 2015 |   Prius
 Honda |      | Clarity
`)
			})

			Convey("Limited rows and width, no header", func() {
				var buf bytes.Buffer
				So(f.WriteText(&buf, Params{Rows: 1, NoHeader: true, MaxColWidth: 4}), ShouldBeNil)
				So("\n"+buf.String(), ShouldEqual, `
To.. | 2015 | Pr..
`)
			})

			Convey("rejects narrow columns", func() {
				var buf bytes.Buffer
				So(f.WriteText(&buf, Params{MaxColWidth: 3}), ShouldNotBeNil)
			})
		})
	})

	Convey("Describe works", t, func() {
		f := NewFrame[date.Date, string](
			date.New(2020, 1, 1), date.New(2020, 1, 2), date.New(2020, 1, 3))
		So(f.AddColumn("Open", TypeFloat, []any{1.0, 2.0, 3.0}), ShouldBeNil)
		So(f.AddColumn("Volume", TypeInt, []any{int64(10), nil, nil}), ShouldBeNil)
		So(f.AddColumn("Name", TypeString, []any{"a", "b", "c"}), ShouldBeNil)
		So(f.AddColumn("Empty", TypeFloat, []any{nil, nil, nil}), ShouldBeNil)

		d := f.Describe()
		So(d.RowKeys(), ShouldResemble, []string{
			StatCount, StatMean, StatStdDev, StatMin, StatMax})
		So(d.ColKeys(), ShouldResemble, []string{"Open", "Volume", "Empty"})

		open, ok := d.Column("Open")
		So(ok, ShouldBeTrue)
		So(open.Type, ShouldEqual, TypeFloat)
		So(open.Values[0], ShouldEqual, 3.0)
		So(open.Values[1], ShouldEqual, 2.0)
		So(testutil.Round(open.Values[2].(float64), 3), ShouldEqual, 1.0)
		So(open.Values[3], ShouldEqual, 1.0)
		So(open.Values[4], ShouldEqual, 3.0)

		vol, ok := d.Column("Volume")
		So(ok, ShouldBeTrue)
		So(vol.Values, ShouldResemble, []any{1.0, 10.0, nil, 10.0, 10.0})

		empty, ok := d.Column("Empty")
		So(ok, ShouldBeTrue)
		So(empty.Values, ShouldResemble, []any{0.0, nil, nil, nil, nil})
	})
}

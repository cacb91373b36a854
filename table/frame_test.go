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
	"fmt"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFrame(t *testing.T) {
	t.Parallel()

	Convey("Frame methods work", t, func() {
		f := NewFrame[int, string](1, 2, 3)
		So(f.RowCount(), ShouldEqual, 3)
		So(f.ColCount(), ShouldEqual, 0)

		Convey("AddColumn checks its input", func() {
			So(f.AddColumn("a", TypeInt, []any{int64(1), nil, int64(3)}), ShouldBeNil)
			So(f.AddColumn("a", TypeInt, []any{nil, nil, nil}), ShouldNotBeNil)
			So(f.AddColumn("b", TypeInt, []any{int64(1)}), ShouldNotBeNil)
			So(f.AddColumn("c", TypeInt, []any{1.0, nil, nil}), ShouldNotBeNil)
			So(f.ColKeys(), ShouldResemble, []string{"a"})
			So(f.Value(2, "a"), ShouldEqual, int64(3))
			So(f.Value(1, "a"), ShouldBeNil)
			So(f.Value(5, "a"), ShouldBeNil)
			So(f.Value(0, "missing"), ShouldBeNil)
		})

		Convey("AddConstColumn", func() {
			So(f.AddConstColumn("db", TypeString, "WIKI"), ShouldBeNil)
			c, ok := f.Column("db")
			So(ok, ShouldBeTrue)
			So(c.Values, ShouldResemble, []any{"WIKI", "WIKI", "WIKI"})
			tp, ok := f.ColumnType("db")
			So(ok, ShouldBeTrue)
			So(tp, ShouldEqual, TypeString)
		})

		Convey("first and last keys", func() {
			k, ok := f.FirstRowKey()
			So(ok, ShouldBeTrue)
			So(k, ShouldEqual, 1)
			k, ok = f.LastRowKey()
			So(ok, ShouldBeTrue)
			So(k, ShouldEqual, 3)
			_, ok = NewFrame[int, string]().FirstRowKey()
			So(ok, ShouldBeFalse)
		})

		Convey("RenameColumn keeps position", func() {
			So(f.AddConstColumn("a", TypeInt, int64(1)), ShouldBeNil)
			So(f.AddConstColumn("b", TypeInt, int64(2)), ShouldBeNil)
			So(f.RenameColumn("a", "x"), ShouldBeNil)
			So(f.ColKeys(), ShouldResemble, []string{"x", "b"})
			So(f.RenameColumn("x", "b"), ShouldNotBeNil)
			So(f.RenameColumn("nope", "y"), ShouldNotBeNil)
		})

		Convey("MapColumns", func() {
			So(f.AddConstColumn("a", TypeInt, int64(1)), ShouldBeNil)
			So(f.AddConstColumn("B", TypeInt, int64(2)), ShouldBeNil)

			Convey("converts keys", func() {
				g, err := MapColumns(f, func(c string) (string, error) {
					return strings.ToUpper(c), nil
				})
				So(err, ShouldBeNil)
				So(g.ColKeys(), ShouldResemble, []string{"A", "B"})
				So(g.RowKeys(), ShouldResemble, []int{1, 2, 3})
				So(g.Value(0, "B"), ShouldEqual, int64(2))
			})

			Convey("fails on collisions", func() {
				_, err := MapColumns(f, func(c string) (string, error) { return "X", nil })
				So(err, ShouldNotBeNil)
			})

			Convey("fails on conversion errors", func() {
				_, err := MapColumns(f, func(c string) (int, error) {
					return 0, fmt.Errorf("no %s", c)
				})
				So(err, ShouldNotBeNil)
			})
		})
	})

	Convey("Union works", t, func() {
		f1 := NewFrame[string, string]("A", "AA")
		So(f1.AddColumn("desc", TypeString, []any{"Agilent", "Alcoa"}), ShouldBeNil)
		So(f1.AddColumn("n", TypeInt, []any{int64(1), int64(2)}), ShouldBeNil)

		f2 := NewFrame[string, string]("AAPL", "A")
		So(f2.AddColumn("n", TypeFloat, []any{2.5, nil}), ShouldBeNil)
		So(f2.AddColumn("extra", TypeBool, []any{true, false}), ShouldBeNil)

		Convey("rows and columns in order", func() {
			u, err := Union(f1, f2)
			So(err, ShouldBeNil)
			So(u.RowKeys(), ShouldResemble, []string{"A", "AA", "AAPL", "A"})
			So(u.ColKeys(), ShouldResemble, []string{"desc", "n", "extra"})
			desc, _ := u.Column("desc")
			So(desc.Values, ShouldResemble, []any{"Agilent", "Alcoa", nil, nil})
			n, _ := u.Column("n")
			So(n.Type, ShouldEqual, TypeFloat)
			So(n.Values, ShouldResemble, []any{1.0, 2.0, 2.5, nil})
			extra, _ := u.Column("extra")
			So(extra.Values, ShouldResemble, []any{nil, nil, true, false})
		})

		Convey("all-nil columns adopt the other type", func() {
			f3 := NewFrame[string, string]("X")
			So(f3.AddColumn("desc", TypeInt, []any{nil}), ShouldBeNil)
			u, err := Union(f3, f1)
			So(err, ShouldBeNil)
			tp, _ := u.ColumnType("desc")
			So(tp, ShouldEqual, TypeString)
		})

		Convey("conflicting types fail", func() {
			f3 := NewFrame[string, string]("X")
			So(f3.AddColumn("desc", TypeBool, []any{true}), ShouldBeNil)
			_, err := Union(f1, f3)
			So(err, ShouldNotBeNil)
		})

		Convey("no frames", func() {
			u, err := Union[string, string]()
			So(err, ShouldBeNil)
			So(u.RowCount(), ShouldEqual, 0)
			So(u.ColCount(), ShouldEqual, 0)
		})
	})
}

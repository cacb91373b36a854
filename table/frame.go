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
	"io"
	"time"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/quandl/date"
	"golang.org/x/exp/slices"
)

// Type of the values in a column.
type Type uint8

// Values of Type. Each type has exactly one Go representation of its cells:
//
// TypeString - string
// TypeInt - int64
// TypeFloat - float64
// TypeBool - bool
// TypeDate - date.Date
// TypeTime - time.Time
// TypeStrings - []string
//
// A missing value is always nil, regardless of the type.
const (
	TypeString Type = iota
	TypeInt
	TypeFloat
	TypeBool
	TypeDate
	TypeTime
	TypeStrings
)

func (t Type) String() string {
	switch t {
	case TypeString:
		return "String"
	case TypeInt:
		return "Int"
	case TypeFloat:
		return "Float"
	case TypeBool:
		return "Bool"
	case TypeDate:
		return "Date"
	case TypeTime:
		return "Time"
	case TypeStrings:
		return "Strings"
	}
	return fmt.Sprintf("<Undefined Type: %d>", t)
}

// IsNumeric is true for integer and floating point types.
func (t Type) IsNumeric() bool {
	return t == TypeInt || t == TypeFloat
}

// checkValue verifies that v is a valid cell of type t.
func (t Type) checkValue(v any) error {
	if v == nil {
		return nil
	}
	ok := false
	switch t {
	case TypeString:
		_, ok = v.(string)
	case TypeInt:
		_, ok = v.(int64)
	case TypeFloat:
		_, ok = v.(float64)
	case TypeBool:
		_, ok = v.(bool)
	case TypeDate:
		_, ok = v.(date.Date)
	case TypeTime:
		_, ok = v.(time.Time)
	case TypeStrings:
		_, ok = v.([]string)
	}
	if !ok {
		return errors.Reason("value %v of type %T is not a valid %s", v, v, t)
	}
	return nil
}

// Column of typed values, one per row of the Frame.
type Column struct {
	Type   Type
	Values []any
}

// allNil is true when the column has no values, so its type is only nominal.
func (c *Column) allNil() bool {
	for _, v := range c.Values {
		if v != nil {
			return false
		}
	}
	return true
}

// Floats returns the non-missing values of a numeric column as float64.
func (c *Column) Floats() []float64 {
	res := []float64{}
	for _, v := range c.Values {
		switch x := v.(type) {
		case int64:
			res = append(res, float64(x))
		case float64:
			res = append(res, x)
		}
	}
	return res
}

// Frame is a table with row keys of type R and column keys of type C. Row keys
// keep their insertion order and may repeat; column keys are unique.
type Frame[R, C comparable] struct {
	rows []R
	cols []C
	data []*Column
}

// Data is the part of the Frame API independent of its key types.
type Data interface {
	RowCount() int
	ColCount() int
	Describe() *Frame[string, string]
	WriteCSV(w io.Writer, p Params) error
	WriteText(w io.Writer, p Params) error
}

var _ Data = &Frame[int, string]{}

// NewFrame creates a Frame with the given row keys and no columns.
func NewFrame[R, C comparable](rows ...R) *Frame[R, C] {
	return &Frame[R, C]{rows: append([]R{}, rows...)}
}

// RowCount is the number of rows.
func (f *Frame[R, C]) RowCount() int { return len(f.rows) }

// ColCount is the number of columns.
func (f *Frame[R, C]) ColCount() int { return len(f.cols) }

// RowKeys returns a copy of the row keys in order.
func (f *Frame[R, C]) RowKeys() []R { return append([]R{}, f.rows...) }

// ColKeys returns a copy of the column keys in order.
func (f *Frame[R, C]) ColKeys() []C { return append([]C{}, f.cols...) }

// FirstRowKey returns the first row key, if any.
func (f *Frame[R, C]) FirstRowKey() (R, bool) {
	var zero R
	if len(f.rows) == 0 {
		return zero, false
	}
	return f.rows[0], true
}

// LastRowKey returns the last row key, if any.
func (f *Frame[R, C]) LastRowKey() (R, bool) {
	var zero R
	if len(f.rows) == 0 {
		return zero, false
	}
	return f.rows[len(f.rows)-1], true
}

// HasColumn checks whether the column exists.
func (f *Frame[R, C]) HasColumn(key C) bool {
	return slices.Index(f.cols, key) >= 0
}

// Column returns the column for the key. The column must not be modified.
func (f *Frame[R, C]) Column(key C) (*Column, bool) {
	i := slices.Index(f.cols, key)
	if i < 0 {
		return nil, false
	}
	return f.data[i], true
}

// ColumnType returns the type of the column, or false if it doesn't exist.
func (f *Frame[R, C]) ColumnType(key C) (Type, bool) {
	c, ok := f.Column(key)
	if !ok {
		return TypeString, false
	}
	return c.Type, true
}

// Value returns the cell in the i'th row of the column, nil if missing.
func (f *Frame[R, C]) Value(row int, key C) any {
	c, ok := f.Column(key)
	if !ok || row < 0 || row >= len(c.Values) {
		return nil
	}
	return c.Values[row]
}

// AddColumn appends a new column. The number of values must match the number
// of rows, and each value must be nil or of the column type.
func (f *Frame[R, C]) AddColumn(key C, tp Type, values []any) error {
	if f.HasColumn(key) {
		return errors.Reason("column %v already exists", key)
	}
	if len(values) != len(f.rows) {
		return errors.Reason("column %v has %d values, expected %d",
			key, len(values), len(f.rows))
	}
	for i, v := range values {
		if err := tp.checkValue(v); err != nil {
			return errors.Annotate(err, "column %v, row %d", key, i)
		}
	}
	f.addColumn(key, &Column{Type: tp, Values: append([]any{}, values...)})
	return nil
}

// AddConstColumn appends a new column with the same value in every row.
func (f *Frame[R, C]) AddConstColumn(key C, tp Type, v any) error {
	values := make([]any, len(f.rows))
	for i := range values {
		values[i] = v
	}
	return f.AddColumn(key, tp, values)
}

// addColumn without any checks.
func (f *Frame[R, C]) addColumn(key C, c *Column) {
	f.cols = append(f.cols, key)
	f.data = append(f.data, c)
}

// RenameColumn replaces the column key in place, keeping its position.
func (f *Frame[R, C]) RenameColumn(from, to C) error {
	i := slices.Index(f.cols, from)
	if i < 0 {
		return errors.Reason("no column %v to rename", from)
	}
	if from != to && f.HasColumn(to) {
		return errors.Reason("cannot rename %v: column %v already exists", from, to)
	}
	f.cols[i] = to
	return nil
}

// MapColumns creates a new Frame sharing the row keys and column data of f,
// with each column key converted by m. The first conversion error aborts the
// mapping, and so does mapping two columns to the same key.
func MapColumns[R, C, C2 comparable](f *Frame[R, C], m func(C) (C2, error)) (*Frame[R, C2], error) {
	res := NewFrame[R, C2](f.rows...)
	for i, c := range f.cols {
		c2, err := m(c)
		if err != nil {
			return nil, errors.Annotate(err, "failed to map column %v", c)
		}
		if res.HasColumn(c2) {
			return nil, errors.Reason("columns collide after mapping %v to %v", c, c2)
		}
		res.addColumn(c2, f.data[i])
	}
	return res, nil
}

// unionType resolves the column type when unioning column b into a.
func unionType(a, b *Column) (Type, error) {
	switch {
	case a.Type == b.Type:
		return a.Type, nil
	case b.allNil():
		return a.Type, nil
	case a.allNil():
		return b.Type, nil
	case a.Type.IsNumeric() && b.Type.IsNumeric():
		return TypeFloat, nil
	}
	return a.Type, errors.Reason("conflicting types %s and %s", a.Type, b.Type)
}

// convertValues converts numeric values to float64 when tp is TypeFloat.
func convertValues(values []any, tp Type) []any {
	if tp != TypeFloat {
		return values
	}
	res := make([]any, len(values))
	for i, v := range values {
		if x, ok := v.(int64); ok {
			res[i] = float64(x)
		} else {
			res[i] = v
		}
	}
	return res
}

// Union concatenates frames row-wise. The result has the union of their
// columns in the order of first appearance, and all the rows in the order of
// the frames, including any repeated row keys. Cells of columns missing in a
// frame are nil. Integer and float columns union into float; other type
// conflicts are an error.
func Union[R, C comparable](frames ...*Frame[R, C]) (*Frame[R, C], error) {
	res := NewFrame[R, C]()
	for _, f := range frames {
		res.rows = append(res.rows, f.rows...)
	}
	// Union column types first, then fill in values.
	types := make(map[C]*Column)
	for _, f := range frames {
		for i, c := range f.cols {
			col, ok := types[c]
			if !ok {
				res.cols = append(res.cols, c)
				types[c] = &Column{Type: f.data[i].Type, Values: f.data[i].Values}
				continue
			}
			tp, err := unionType(col, f.data[i])
			if err != nil {
				return nil, errors.Annotate(err, "failed to union column %v", c)
			}
			col.Type = tp
			if !f.data[i].allNil() {
				col.Values = f.data[i].Values // only nil-ness matters from now on
			}
		}
	}
	for _, c := range res.cols {
		col := &Column{Type: types[c].Type, Values: make([]any, 0, len(res.rows))}
		for _, f := range frames {
			fc, ok := f.Column(c)
			if !ok {
				col.Values = append(col.Values, make([]any, len(f.rows))...)
				continue
			}
			col.Values = append(col.Values, convertValues(fc.Values, col.Type)...)
		}
		res.data = append(res.data, col)
	}
	return res, nil
}

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
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/quandl/date"
	"golang.org/x/exp/slices"
)

// CSVOptions configure ReadCSV.
type CSVOptions[R comparable] struct {
	// NoHeader means the first row is data; columns are then named Column-0,
	// Column-1, etc.
	NoHeader bool
	// Exclude these columns from the result by name.
	Exclude []string
	// Include, when not nil, keeps only the columns it returns true for. It is
	// applied in addition to Exclude.
	Include func(index int, name string) bool
	// ColumnTypes override type inference for the named columns.
	ColumnTypes map[string]Type
	// RowKey extracts the row key from the raw CSV row, including any excluded
	// columns. Required.
	RowKey func(row []string) (R, error)
}

// HeadlessColumn is the name of the i'th column of a CSV without a header.
func HeadlessColumn(i int) string {
	return fmt.Sprintf("Column-%d", i)
}

// parseValue converts a raw CSV string to a cell of type tp. An empty string is
// a missing value.
func parseValue(s string, tp Type) (any, error) {
	if s == "" {
		return nil, nil
	}
	switch tp {
	case TypeString:
		return s, nil
	case TypeInt:
		return strconv.ParseInt(s, 10, 64)
	case TypeFloat:
		return strconv.ParseFloat(s, 64)
	case TypeBool:
		switch strings.ToLower(s) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, errors.Reason("not a bool: '%s'", s)
	case TypeDate:
		if len(s) != len("2006-01-02") {
			return nil, errors.Reason("not a date: '%s'", s)
		}
		return date.Parse(s)
	case TypeTime:
		return date.ParseTime(s)
	case TypeStrings:
		return strings.Split(s, "|"), nil
	}
	return nil, errors.Reason("unsupported type %s", tp)
}

// inferredTypes are tried in order; TypeString always succeeds.
var inferredTypes = []Type{TypeInt, TypeFloat, TypeBool, TypeDate}

// inferType finds the most specific type all the values can be parsed as. A
// column of missing values is a string column.
func inferType(values []string) Type {
	if slices.IndexFunc(values, func(s string) bool { return s != "" }) < 0 {
		return TypeString
	}
	for _, tp := range inferredTypes {
		ok := true
		for _, s := range values {
			if _, err := parseValue(s, tp); err != nil {
				ok = false
				break
			}
		}
		if ok {
			return tp
		}
	}
	return TypeString
}

// ReadCSV parses CSV data into a Frame keyed by opts.RowKey with string column
// keys. Column types are inferred from the values, unless overridden in
// opts.ColumnTypes. Input with no data rows results in a Frame with no rows.
func ReadCSV[R comparable](r io.Reader, opts CSVOptions[R]) (*Frame[R, string], error) {
	if opts.RowKey == nil {
		return nil, errors.Reason("RowKey is required")
	}
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, errors.Annotate(err, "failed to read CSV")
	}
	var header []string
	if len(rows) > 0 {
		if opts.NoHeader {
			header = make([]string, len(rows[0]))
			for i := range header {
				header[i] = HeadlessColumn(i)
			}
		} else {
			header = rows[0]
			rows = rows[1:]
		}
	}
	keys := make([]R, len(rows))
	for i, row := range rows {
		if keys[i], err = opts.RowKey(row); err != nil {
			return nil, errors.Annotate(err, "failed to parse row key in row %d", i)
		}
	}
	f := NewFrame[R, string](keys...)
	for j, name := range header {
		if slices.Contains(opts.Exclude, name) {
			continue
		}
		if opts.Include != nil && !opts.Include(j, name) {
			continue
		}
		raw := make([]string, len(rows))
		for i, row := range rows {
			raw[i] = row[j]
		}
		tp, ok := opts.ColumnTypes[name]
		if !ok {
			tp = inferType(raw)
		}
		values := make([]any, len(rows))
		for i, s := range raw {
			if values[i], err = parseValue(s, tp); err != nil {
				return nil, errors.Annotate(err,
					"failed to parse column '%s' in row %d as %s", name, i, tp)
			}
		}
		if err := f.AddColumn(name, tp, values); err != nil {
			return nil, errors.Annotate(err, "failed to add column '%s'", name)
		}
	}
	return f, nil
}

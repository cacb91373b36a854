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
	"time"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/quandl/date"
)

// Params are parameters for pretty-printing or CSV export of Frame data.
type Params struct {
	Rows        int    // max. number of rows to write; 0 = unlimited (default)
	NoHeader    bool   // whether to print the header, default - yes
	MaxColWidth int    // for WriteText only; 0 = unlimited, otherwise must be >= 4
	KeyHeader   string // header of the row key column; default "Key"
}

func (p Params) keyHeader() string {
	if p.KeyHeader == "" {
		return "Key"
	}
	return p.KeyHeader
}

// FormatValue is the string representation of a cell value as it appears in
// the text and CSV output. A missing value is an empty string.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	case date.Date:
		return x.String()
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	case []string:
		return strings.Join(x, "|")
	}
	return fmt.Sprintf("%v", v)
}

// lines converts the frame to rows of strings: the optional header followed by
// up to p.Rows data rows. The row key is always the first column.
func (f *Frame[R, C]) lines(p Params) [][]string {
	var res [][]string
	if !p.NoHeader {
		header := []string{p.keyHeader()}
		for _, c := range f.cols {
			header = append(header, FormatValue(c))
		}
		res = append(res, header)
	}
	for i, r := range f.rows {
		if p.Rows > 0 && i >= p.Rows {
			break
		}
		row := []string{FormatValue(r)}
		for _, c := range f.data {
			row = append(row, FormatValue(c.Values[i]))
		}
		res = append(res, row)
	}
	return res
}

// WriteCSV writes the frame to w in CSV format.
func (f *Frame[R, C]) WriteCSV(w io.Writer, p Params) error {
	cw := csv.NewWriter(w)
	for i, row := range f.lines(p) {
		if err := cw.Write(row); err != nil {
			return errors.Annotate(err, "failed to write line %d", i)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Annotate(err, "failed to flush written rows")
	}
	return nil
}

// truncate s to at most width runes, marking the cut with "..".
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-2]) + ".."
}

// WriteText writes the frame as a text formatted for ease of reading, with
// right-aligned columns separated by " | ".
func (f *Frame[R, C]) WriteText(w io.Writer, p Params) error {
	if p.MaxColWidth != 0 && p.MaxColWidth < 4 {
		return errors.Reason("MaxColWidth [%d] must be 0 or >= 4", p.MaxColWidth)
	}
	lines := f.lines(p)
	widths := make([]int, len(f.cols)+1)
	for _, line := range lines {
		for i, s := range line {
			if n := len([]rune(s)); n > widths[i] {
				widths[i] = n
			}
		}
	}
	if p.MaxColWidth > 0 {
		for i := range widths {
			if widths[i] > p.MaxColWidth {
				widths[i] = p.MaxColWidth
			}
		}
	}
	if !p.NoHeader {
		sep := make([]string, len(widths))
		for i, n := range widths {
			sep[i] = strings.Repeat("-", n)
		}
		lines = append(lines[:1], append([][]string{sep}, lines[1:]...)...)
	}
	for i, line := range lines {
		cells := make([]string, len(line))
		for j, s := range line {
			cells[j] = fmt.Sprintf("%[2]*[1]s", truncate(s, widths[j]), widths[j])
		}
		if _, err := fmt.Fprintf(w, "%s\n", strings.Join(cells, " | ")); err != nil {
			return errors.Annotate(err, "failed to write line %d", i)
		}
	}
	return nil
}

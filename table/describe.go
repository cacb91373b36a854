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
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Rows of the Describe summary.
const (
	StatCount  = "count"
	StatMean   = "mean"
	StatStdDev = "stddev"
	StatMin    = "min"
	StatMax    = "max"
)

// Describe summarizes each numeric column of the frame: the number of
// non-missing values, their mean, sample standard deviation, min and max. The
// result has one Float column per numeric column, keyed by its string
// representation. Statistics undefined for too few values are missing.
func (f *Frame[R, C]) Describe() *Frame[string, string] {
	res := NewFrame[string, string](StatCount, StatMean, StatStdDev, StatMin, StatMax)
	for i, c := range f.data {
		if !c.Type.IsNumeric() {
			continue
		}
		xs := c.Floats()
		values := make([]any, 5)
		values[0] = float64(len(xs))
		if len(xs) > 0 {
			mean, std := stat.MeanStdDev(xs, nil)
			values[1] = mean
			if len(xs) > 1 {
				values[2] = std
			}
			values[3] = floats.Min(xs)
			values[4] = floats.Max(xs)
		}
		// Keys are unique in f, but distinct keys may print the same.
		key := FormatValue(f.cols[i])
		if res.HasColumn(key) {
			continue
		}
		res.addColumn(key, &Column{Type: TypeFloat, Values: values})
	}
	return res
}

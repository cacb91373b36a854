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
	"time"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/quandl/date"
	"github.com/stockparfait/quandl/table"
)

// DatasetDetails is the JSON struct describing a single dataset.
type DatasetDetails struct {
	ID                  int64     `json:"id"`
	DatasetCode         string    `json:"dataset_code"`
	DatabaseCode        string    `json:"database_code"`
	Name                string    `json:"name"`
	Description         string    `json:"description"`
	RefreshedAt         date.Time `json:"refreshed_at"`
	NewestAvailableDate date.Date `json:"newest_available_date"`
	OldestAvailableDate date.Date `json:"oldest_available_date"`
	ColumnNames         []string  `json:"column_names"`
	Frequency           string    `json:"frequency"`
	Type                string    `json:"type"`
	Premium             bool      `json:"premium"`
	DatabaseID          int64     `json:"database_id"`
}

// DatasetInfo is the format returned by the metadata API.
type DatasetInfo struct {
	Dataset DatasetDetails `json:"dataset"`
}

// metadataColumns of the metadata frame, in order.
var metadataColumns = []struct {
	field Field
	tp    table.Type
}{
	{FieldName, table.TypeString},
	{FieldDescription, table.TypeString},
	{FieldDatasetCode, table.TypeString},
	{FieldDatabaseCode, table.TypeString},
	{FieldLastRefreshTime, table.TypeTime},
	{FieldStartDate, table.TypeDate},
	{FieldEndDate, table.TypeDate},
	{FieldDatasetType, table.TypeString},
	{FieldFrequency, table.TypeString},
	{FieldDatabaseID, table.TypeInt},
	{FieldDatasetID, table.TypeInt},
	{FieldPremium, table.TypeBool},
	{FieldColumnNames, table.TypeStrings},
}

// value of the field; zero dates and times are missing values.
func (d *DatasetDetails) value(f Field) any {
	switch f {
	case FieldName:
		return d.Name
	case FieldDescription:
		return d.Description
	case FieldDatasetCode:
		return d.DatasetCode
	case FieldDatabaseCode:
		return d.DatabaseCode
	case FieldLastRefreshTime:
		if t := time.Time(d.RefreshedAt); !t.IsZero() {
			return t
		}
	case FieldStartDate:
		if !d.OldestAvailableDate.IsZero() {
			return d.OldestAvailableDate
		}
	case FieldEndDate:
		if !d.NewestAvailableDate.IsZero() {
			return d.NewestAvailableDate
		}
	case FieldDatasetType:
		return d.Type
	case FieldFrequency:
		return d.Frequency
	case FieldDatabaseID:
		return d.DatabaseID
	case FieldDatasetID:
		return d.ID
	case FieldPremium:
		return d.Premium
	case FieldColumnNames:
		return append([]string{}, d.ColumnNames...)
	}
	return nil
}

// Frame converts the dataset description into a single-row frame keyed by the
// dataset ID.
func (i *DatasetInfo) Frame() (*table.Frame[int, Field], error) {
	f := table.NewFrame[int, Field](int(i.Dataset.ID))
	for _, c := range metadataColumns {
		if err := f.AddColumn(c.field, c.tp, []any{i.Dataset.value(c.field)}); err != nil {
			return nil, errors.Annotate(err, "failed to add column %s", c.field)
		}
	}
	return f, nil
}

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
	"strings"

	"github.com/stockparfait/errors"
)

// Field is a canonical column of the catalog and metadata tables.
type Field uint8

// Values of Field.
const (
	FieldName Field = iota + 1
	FieldDescription
	FieldDatabaseCode
	FieldDatasetCode
	FieldDatasetCount
	FieldDownloads
	FieldPremium
	FieldImageURL
	FieldLastRefreshTime
	FieldStartDate
	FieldEndDate
	FieldDatasetType
	FieldFrequency
	FieldDatabaseID
	FieldDatasetID
	FieldColumnNames
	FieldFavourite
	FieldURLName
)

var fieldNames = map[Field]string{
	FieldName:            "NAME",
	FieldDescription:     "DESCRIPTION",
	FieldDatabaseCode:    "DATABASE_CODE",
	FieldDatasetCode:     "DATASET_CODE",
	FieldDatasetCount:    "DATASET_COUNT",
	FieldDownloads:       "DOWNLOADS",
	FieldPremium:         "PREMIUM",
	FieldImageURL:        "IMAGE_URL",
	FieldLastRefreshTime: "LAST_REFRESH_TIME",
	FieldStartDate:       "START_DATE",
	FieldEndDate:         "END_DATE",
	FieldDatasetType:     "DATASET_TYPE",
	FieldFrequency:       "FREQUENCY",
	FieldDatabaseID:      "DATABASE_ID",
	FieldDatasetID:       "DATASET_ID",
	FieldColumnNames:     "COLUMN_NAMES",
	FieldFavourite:       "FAVOURITE",
	FieldURLName:         "URL_NAME",
}

// String is the canonical name of the field, e.g. DATABASE_CODE.
func (f Field) String() string {
	if s, ok := fieldNames[f]; ok {
		return s
	}
	return fmt.Sprintf("<Undefined Field: %d>", f)
}

// ParseField converts the canonical name of a field back to Field. Unlike
// Vocabulary.Resolve, it does not accept provider aliases.
func ParseField(s string) (Field, error) {
	for f, name := range fieldNames {
		if name == s {
			return f, nil
		}
	}
	return 0, errors.Reason("unknown canonical field name '%s'", s)
}

// UnknownFieldError is returned for a raw column name missing in the
// Vocabulary.
type UnknownFieldError struct {
	Name string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("no match for field named '%s'", e.Name)
}

// Vocabulary maps raw provider column names to canonical fields. The lookup is
// case-insensitive. A Vocabulary is never modified after creation, and is safe
// for concurrent use.
type Vocabulary struct {
	fields map[string]Field
}

// NewVocabulary creates a Vocabulary from aliases of raw names to fields.
func NewVocabulary(aliases map[string]Field) *Vocabulary {
	v := &Vocabulary{fields: make(map[string]Field, len(aliases))}
	for name, f := range aliases {
		v.fields[strings.ToLower(name)] = f
	}
	return v
}

var defaultVocabulary = NewVocabulary(map[string]Field{
	"name":           FieldName,
	"description":    FieldDescription,
	"databasecode":   FieldDatabaseCode,
	"database_code":  FieldDatabaseCode,
	"datasetcode":    FieldDatasetCode,
	"dataset_code":   FieldDatasetCode,
	"datasetcount":   FieldDatasetCount,
	"datasets_count": FieldDatasetCount,
	"downloads":      FieldDownloads,
	"premium":        FieldPremium,
	"imageurl":       FieldImageURL,
	"image":          FieldImageURL,
	"favorite":       FieldFavourite,
	"url_name":       FieldURLName,
})

// DefaultVocabulary of the provider's catalog columns. The same instance is
// shared by all callers.
func DefaultVocabulary() *Vocabulary {
	return defaultVocabulary
}

// Resolve the raw column name into a canonical field.
func (v *Vocabulary) Resolve(raw string) (Field, error) {
	f, ok := v.fields[strings.ToLower(raw)]
	if !ok {
		return 0, &UnknownFieldError{Name: raw}
	}
	return f, nil
}

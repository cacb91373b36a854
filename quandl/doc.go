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

// Package quandl reads time series and catalog tables from the Quandl REST
// API (v3) as typed frames.
//
// Four operations are supported, each with its own Request type:
//
//   - time series of a dataset, keyed by date, with the provider's column names;
//   - the catalog of databases, downloaded page by page until an empty page;
//   - the dataset codes of a database, downloaded as a zip archive of CSV files;
//   - the metadata of a single dataset.
//
// Catalog and metadata columns are canonical Field values. Raw provider column
// names are mapped to fields by a Vocabulary, and an unknown name is an error
// rather than a silently dropped column.
//
// Source implements source.Source and can be registered in any
// source.Registry. Quandl is a simpler API wrapping a Source in its own
// registry:
//
//   q, err := quandl.New(apiKey)
//   ...
//   f, err := q.TimeSeries(ctx, "WIKI", "AAPL", start, end,
//     func(r quandl.TimeSeriesRequest) quandl.TimeSeriesRequest { return r.Descending(true) })
package quandl

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

// Package source is a registry of tabular data sources. A source declares
// which request options it supports, and the registry dispatches each read to
// the first registered source that supports its options.
package source

import (
	"context"
	"sync"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"
	"github.com/stockparfait/quandl/table"
)

// Options describe a single read request. The concrete type identifies the
// kind of the request.
type Options interface {
	Validate() error
}

// Source of tabular data.
type Source interface {
	// IsSupported is true when the source can serve these options.
	IsSupported(o Options) bool
	// Read the data described by the options.
	Read(ctx context.Context, o Options) (table.Data, error)
}

type entry struct {
	name   string
	source Source
}

// Registry of named sources, in the order of registration. It is safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	sources []entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a source under a unique name.
func (r *Registry) Register(name string, s Source) error {
	if s == nil {
		return errors.Reason("source '%s' is nil", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.sources {
		if e.name == name {
			return errors.Reason("source '%s' is already registered", name)
		}
	}
	r.sources = append(r.sources, entry{name: name, source: s})
	return nil
}

// Names of the registered sources in the order of registration.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.sources))
	for i, e := range r.sources {
		names[i] = e.name
	}
	return names
}

// Find the first source supporting the options.
func (r *Registry) Find(o Options) (string, Source, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.sources {
		if e.source.IsSupported(o) {
			return e.name, e.source, true
		}
	}
	return "", nil, false
}

// Read the data from the first source supporting the options. Errors of the
// source are returned as is.
func (r *Registry) Read(ctx context.Context, o Options) (table.Data, error) {
	if o == nil {
		return nil, errors.Reason("options are nil")
	}
	name, s, ok := r.Find(o)
	if !ok {
		return nil, errors.Reason("no source supports options of type %T", o)
	}
	logging.Debugf(ctx, "reading %T from source '%s'", o, name)
	return s.Read(ctx, o)
}

// Package filter implements the cascading multi-select model shared by
// every page. Each dimension's available options are computed under the
// conjunction of all *other* active selections, so narrowing one
// dimension shrinks the rest without discarding the user's own pick on
// the dimension being edited.
package filter

import (
	"sync"

	"github.com/Tincho2002/RRHH-sub000/internal/model"
)

// Model holds the selection set per dimension plus the mutation flag that
// triggers re-render. It never mutates the table it was built on. A
// session's model is shared between the filter and render endpoints, so
// every entrypoint locks.
type Model struct {
	mu         sync.RWMutex
	table      *model.Table
	dims       []string
	selections map[string][]string
	initial    map[string][]string
	mutated    bool
}

// New builds a filter model over a table, seeding every dimension with
// all of its non-sentinel values in canonical order.
func New(table *model.Table, dims []string) *Model {
	m := &Model{
		table:      table,
		dims:       append([]string(nil), dims...),
		selections: make(map[string][]string, len(dims)),
		initial:    make(map[string][]string, len(dims)),
	}
	for _, dim := range dims {
		all := model.SortDimValues(dim, table.NonSentinelUniques(dim))
		m.initial[dim] = append([]string(nil), all...)
		m.selections[dim] = append([]string(nil), all...)
	}
	return m
}

// Dims returns the dimensions the model filters on.
func (m *Model) Dims() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.dims...)
}

// Selection returns the current selection for a dimension.
func (m *Model) Selection(dim string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.selections[dim]...)
}

// Options computes the available options for a dimension under the
// leave-one-out projection: the table filtered by every selection except
// the dimension's own. The sentinel never appears in the result.
func (m *Model) Options(dim string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.optionsLocked(dim)
}

func (m *Model) optionsLocked(dim string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, row := range m.table.Rows {
		if !m.matchesExcept(row, dim) {
			continue
		}
		v := row.Dim(dim)
		if v == model.NotAvailable || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return model.SortDimValues(dim, out)
}

// Commit replaces a dimension's selection. The new selection is
// intersected with the currently available options so the model stays
// well-formed when another filter's narrowing removed a value.
func (m *Model) Commit(dim string, values []string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	available := make(map[string]bool)
	for _, v := range m.optionsLocked(dim) {
		available[v] = true
	}
	next := make([]string, 0, len(values))
	for _, v := range values {
		if available[v] {
			next = append(next, v)
		}
	}
	next = model.SortDimValues(dim, next)
	if !equalStrings(m.selections[dim], next) {
		m.mutated = true
	}
	m.selections[dim] = next
}

// Apply returns the slice selected by the conjunction of all dimensions.
// An empty selection leaves its dimension unconstrained.
func (m *Model) Apply() []model.Row {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Row, 0, len(m.table.Rows))
	for _, row := range m.table.Rows {
		if m.matchesExcept(row, "") {
			out = append(out, row)
		}
	}
	return out
}

// matchesExcept evaluates the selection conjunction, skipping one
// dimension (the leave-one-out projection). skip == "" tests all.
func (m *Model) matchesExcept(row model.Row, skip string) bool {
	for _, dim := range m.dims {
		if dim == skip {
			continue
		}
		sel := m.selections[dim]
		if len(sel) == 0 {
			continue
		}
		v := row.Dim(dim)
		found := false
		for _, s := range sel {
			if s == v {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Reset restores the selections produced at construction and clears the
// mutation flag.
func (m *Model) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for dim, vals := range m.initial {
		m.selections[dim] = append([]string(nil), vals...)
	}
	m.mutated = false
}

// Mutated reports whether any Commit changed state since the last
// ClearMutated. Re-rendering keys off this flag.
func (m *Model) Mutated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mutated
}

// ClearMutated acknowledges a completed render cycle.
func (m *Model) ClearMutated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mutated = false
}

// Snapshot returns a deep copy of the current selections, used for change
// detection across render cycles.
func (m *Model) Snapshot() map[string][]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string][]string, len(m.selections))
	for dim, vals := range m.selections {
		out[dim] = append([]string(nil), vals...)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

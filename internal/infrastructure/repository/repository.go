// Package repository implements the in-memory entity collections behind every
// store. A Repository owns one homogeneous, insertion-ordered collection and
// assigns identifiers itself.
//
// The backing slice is copy-on-write: a mutation always builds a new slice,
// so a slice obtained from All before the mutation keeps its contents. That
// is what lets stores publish collections as immutable snapshots.
//
// A Repository is not safe for concurrent use; the owning store serialises
// access.
package repository

import (
	"iter"
	"slices"

	"github.com/go-playground/validator/v10"

	"github.com/educrm/educrm-hub/internal/domain/shared"
	"github.com/educrm/educrm-hub/pkg/idgen"
)

// Record is an entity with a repository-assigned identifier.
type Record interface {
	RecordID() string
}

// Fields builds a new record from caller-supplied fields once the repository
// has chosen its identifier.
type Fields[T Record] interface {
	Build(id string) T
}

// Config configures a Repository.
type Config struct {
	// Domain and Kind label errors, e.g. "teacher" / "lesson".
	Domain string
	Kind   string

	// IDs issues identifiers. Required.
	IDs idgen.Generator

	// Validate runs presence checks on Fields. Defaults to a shared instance.
	Validate *validator.Validate
}

// Repository is an in-memory collection of T.
type Repository[T Record] struct {
	domain   string
	kind     string
	ids      idgen.Generator
	validate *validator.Validate

	items  []T
	issued map[string]struct{} // every id ever held; ids are never reused
}

var defaultValidate = validator.New(validator.WithRequiredStructEnabled())

// New creates an empty Repository.
func New[T Record](cfg Config) *Repository[T] {
	if cfg.Validate == nil {
		cfg.Validate = defaultValidate
	}
	return &Repository[T]{
		domain:   cfg.Domain,
		kind:     cfg.Kind,
		ids:      cfg.IDs,
		validate: cfg.Validate,
		issued:   make(map[string]struct{}),
	}
}

// Seed appends fixture records keeping their identifiers. Records whose id
// is empty or already issued are skipped.
func (r *Repository[T]) Seed(records ...T) int {
	next := slices.Clone(r.items)
	added := 0
	for _, rec := range records {
		id := rec.RecordID()
		if id == "" {
			continue
		}
		if _, taken := r.issued[id]; taken {
			continue
		}
		r.issued[id] = struct{}{}
		next = append(next, rec)
		added++
	}
	r.items = next
	return added
}

// Add validates fields, builds a record with a fresh identifier and appends
// it. On a validation error nothing changes.
func (r *Repository[T]) Add(fields Fields[T]) (T, error) {
	var zero T
	if err := r.validate.Struct(fields); err != nil {
		return zero, shared.WrapError(r.domain, "Add", shared.ErrValidation, r.kind+" is missing required fields", err)
	}

	rec := fields.Build(r.nextID())

	next := make([]T, len(r.items), len(r.items)+1)
	copy(next, r.items)
	r.items = append(next, rec)
	return rec, nil
}

func (r *Repository[T]) nextID() string {
	for {
		id := r.ids.Next()
		if _, taken := r.issued[id]; !taken {
			r.issued[id] = struct{}{}
			return id
		}
	}
}

// Update applies edit to a copy of the record with id and stores the copy.
// The identifier cannot be changed by edit. Unknown ids leave the collection
// untouched and return a NotFound error.
func (r *Repository[T]) Update(id string, edit func(*T)) (T, error) {
	idx := r.index(id)
	if idx < 0 {
		var zero T
		return zero, shared.NotFound(r.domain, "Update", r.kind, id)
	}

	updated := r.items[idx]
	edit(&updated)
	if updated.RecordID() != id {
		var zero T
		return zero, shared.NewDomainError(r.domain, "Update", shared.ErrInvalidInput, r.kind+" id cannot change")
	}

	next := slices.Clone(r.items)
	next[idx] = updated
	r.items = next
	return updated, nil
}

// Remove deletes the record with id and returns it as it was before
// deletion. Unknown ids leave the collection untouched and return a NotFound
// error.
func (r *Repository[T]) Remove(id string) (T, error) {
	idx := r.index(id)
	if idx < 0 {
		var zero T
		return zero, shared.NotFound(r.domain, "Remove", r.kind, id)
	}

	removed := r.items[idx]
	next := make([]T, 0, len(r.items)-1)
	next = append(next, r.items[:idx]...)
	next = append(next, r.items[idx+1:]...)
	r.items = next
	return removed, nil
}

// RemoveWhere deletes every record matching pred and returns them in
// insertion order.
func (r *Repository[T]) RemoveWhere(pred func(T) bool) []T {
	var removed []T
	kept := make([]T, 0, len(r.items))
	for _, rec := range r.items {
		if pred(rec) {
			removed = append(removed, rec)
			continue
		}
		kept = append(kept, rec)
	}
	if len(removed) > 0 {
		r.items = kept
	}
	return removed
}

// UpdateWhere applies edit to every record matching pred and returns how
// many records changed.
func (r *Repository[T]) UpdateWhere(pred func(T) bool, edit func(*T)) int {
	var next []T
	changed := 0
	for i, rec := range r.items {
		if !pred(rec) {
			continue
		}
		if next == nil {
			next = slices.Clone(r.items)
		}
		edit(&next[i])
		changed++
	}
	if next != nil {
		r.items = next
	}
	return changed
}

// Get returns the record with id.
func (r *Repository[T]) Get(id string) (T, bool) {
	idx := r.index(id)
	if idx < 0 {
		var zero T
		return zero, false
	}
	return r.items[idx], true
}

// Query lazily yields records matching pred in insertion order. It never
// mutates the collection, and iterates the slice current when Query was
// called.
func (r *Repository[T]) Query(pred func(T) bool) iter.Seq[T] {
	items := r.items
	return func(yield func(T) bool) {
		for _, rec := range items {
			if pred != nil && !pred(rec) {
				continue
			}
			if !yield(rec) {
				return
			}
		}
	}
}

// Filter collects the records matching pred.
func (r *Repository[T]) Filter(pred func(T) bool) []T {
	return slices.Collect(r.Query(pred))
}

// All returns the whole collection in insertion order. Callers must not
// modify the returned slice.
func (r *Repository[T]) All() []T {
	return r.items[:len(r.items):len(r.items)]
}

// Len returns the number of records.
func (r *Repository[T]) Len() int {
	return len(r.items)
}

func (r *Repository[T]) index(id string) int {
	return slices.IndexFunc(r.items, func(rec T) bool { return rec.RecordID() == id })
}

package domain

import "time"

// Optional is a value that is either present or absent. Absent filter fields
// are left out of queries.
type Optional[T any] struct {
	value   T
	present bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, present: true}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.present
}

func (o Optional[T]) IsPresent() bool {
	return o.present
}

// SortField selects the timestamp complaint listings are ordered by, newest first.
type SortField string

const (
	SortByCreated SortField = "createdAt"
	SortByUpdated SortField = "updatedAt"
)

// ComplaintFilter is ANDed across all present fields.
type ComplaintFilter struct {
	Owner     Optional[string]
	Authority Optional[string]
	Category  Optional[string]
	City      Optional[string]
	District  Optional[string]
	Status    Optional[ComplaintStatus]
	Since     Optional[time.Time]
	SortBy    SortField
}

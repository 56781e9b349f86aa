package paging

import (
	"math"

	"lendloop/internal/pkg/errs"
)

// MaxLimit is the limit carried by the unpaged sentinel.
const MaxLimit = math.MaxInt32

var (
	ErrIncompletePage  = errs.Mark(errs.New("must provide both from and size or neither"), errs.ErrInvalidArgument)
	ErrNonPositiveSize = errs.Mark(errs.New("size must be positive"), errs.ErrInvalidArgument)
	ErrNegativeOffset  = errs.Mark(errs.New("from must be positive or zero"), errs.ErrInvalidArgument)
)

type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

type Field string

const (
	FieldStart   Field = "start_at"
	FieldID      Field = "id"
	FieldCreated Field = "created_at"
)

type Sort struct {
	Field     Field
	Direction Direction
}

func SortBy(field Field, dir Direction) Sort {
	return Sort{Field: field, Direction: dir}
}

// PageRequest is an immutable (offset, limit, sort) triple. The zero value is
// not valid; construct via New or Unpaged.
type PageRequest struct {
	offset int
	limit  int
	sort   Sort
}

// New builds a page request from optional from/size parameters. Both absent
// means unpaged; exactly one absent is a validation error, as is a
// non-positive size or a negative offset.
func New(from, size *int, sort Sort) (PageRequest, error) {
	if from == nil && size == nil {
		return Unpaged(sort), nil
	}
	if from == nil || size == nil {
		return PageRequest{}, ErrIncompletePage
	}
	if *size <= 0 {
		return PageRequest{}, ErrNonPositiveSize
	}
	if *from < 0 {
		return PageRequest{}, ErrNegativeOffset
	}
	return PageRequest{offset: *from, limit: *size, sort: sort}, nil
}

// Unpaged returns every matching row in order starting at offset zero.
func Unpaged(sort Sort) PageRequest {
	return PageRequest{offset: 0, limit: MaxLimit, sort: sort}
}

func (p PageRequest) Offset() int { return p.offset }
func (p PageRequest) Limit() int  { return p.limit }
func (p PageRequest) Sort() Sort  { return p.sort }

func (p PageRequest) IsUnpaged() bool {
	return p.offset == 0 && p.limit == MaxLimit
}

// Sorted returns a copy carrying the given sort. Query routers use this to
// own the ordering direction regardless of how the request was built.
func (p PageRequest) Sorted(sort Sort) PageRequest {
	return PageRequest{offset: p.offset, limit: p.limit, sort: sort}
}

// Next advances the request by one page.
func (p PageRequest) Next() PageRequest {
	return PageRequest{offset: p.offset + p.limit, limit: p.limit, sort: p.sort}
}

// WithPage returns a request whose offset is advanced by n pages.
func (p PageRequest) WithPage(n int) PageRequest {
	return PageRequest{offset: p.offset + p.limit*n, limit: p.limit, sort: p.sort}
}

// HasPrevious is always false: this is offset-based forward paging, not a
// cursor.
func (p PageRequest) HasPrevious() bool {
	return false
}

// Bounds clamps the request's window against a slice of length n, for callers
// that page an already-materialized result set in memory.
func (p PageRequest) Bounds(n int) (lo, hi int) {
	lo = p.offset
	if lo > n {
		lo = n
	}
	hi = n
	if p.limit < n-lo {
		hi = lo + p.limit
	}
	return lo, hi
}

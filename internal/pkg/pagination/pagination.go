package pagination

import (
	"context"
	"encoding/json"
	"math"
)

const (
	DefaultPageSize   = 10
	DefaultPageNumber = 1

	// MaxPageSize is the largest pageSize the HTTP layer accepts.
	MaxPageSize = 100
)

type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

type Order struct {
	Field     string
	Direction Direction
}

// Query is what a Source receives. Take and Skip are zero for unbounded reads.
type Query struct {
	Filter *Filter
	Order  []Order
	Take   int
	Skip   int
}

// Source is any collection that can list rows for a query, with or without a
// total count. The row type T fixes the projection.
type Source[T any] interface {
	Find(ctx context.Context, q Query) ([]T, error)
	FindAndCount(ctx context.Context, q Query) ([]T, int64, error)
}

// PageRequest carries the optional pageSize/pageNumber pair from the caller.
type PageRequest struct {
	PageSize   *int
	PageNumber *int
}

// IsPaginated reports whether the caller asked for a page at all.
func (r PageRequest) IsPaginated() bool {
	return r.PageSize != nil || r.PageNumber != nil
}

// Resolve applies the defaults for missing or zero values.
func (r PageRequest) Resolve() (size int, number int) {
	size, number = DefaultPageSize, DefaultPageNumber
	if r.PageSize != nil && *r.PageSize > 0 {
		size = *r.PageSize
	}
	if r.PageNumber != nil && *r.PageNumber > 0 {
		number = *r.PageNumber
	}
	return size, number
}

type Page[T any] struct {
	List         []T   `json:"list"`
	Total        int64 `json:"total"`
	CurrentPage  int   `json:"currentPage"`
	PreviousPage *int  `json:"previousPage"`
	NextPage     *int  `json:"nextPage"`
	LastPage     int   `json:"lastPage"`
}

// NewPage builds the navigation metadata for one page of a total.
func NewPage[T any](list []T, total int64, size, number int) Page[T] {
	if list == nil {
		list = []T{}
	}

	lastPage := int(math.Ceil(float64(total) / float64(size)))

	page := Page[T]{
		List:        list,
		Total:       total,
		CurrentPage: number,
		LastPage:    lastPage,
	}
	if next := number + 1; next <= lastPage {
		page.NextPage = &next
	}
	if prev := number - 1; prev >= 1 {
		page.PreviousPage = &prev
	}
	return page
}

// Result is either a page with metadata or the full matching list.
type Result[T any] struct {
	Items []T
	Page  *Page[T]
}

func (r Result[T]) Paginated() bool {
	return r.Page != nil
}

func (r Result[T]) MarshalJSON() ([]byte, error) {
	if r.Page != nil {
		return json.Marshal(r.Page)
	}
	if r.Items == nil {
		return json.Marshal([]T{})
	}
	return json.Marshal(r.Items)
}

// Paginate runs q against src. Without page parameters it returns every
// matching row and no metadata.
func Paginate[T any](ctx context.Context, src Source[T], req PageRequest, q Query) (Result[T], error) {
	if !req.IsPaginated() {
		q.Take, q.Skip = 0, 0
		items, err := src.Find(ctx, q)
		if err != nil {
			return Result[T]{}, err
		}
		return Result[T]{Items: items}, nil
	}

	size, number := req.Resolve()
	q.Take = size
	q.Skip = (number - 1) * size

	items, total, err := src.FindAndCount(ctx, q)
	if err != nil {
		return Result[T]{}, err
	}

	page := NewPage(items, total, size, number)
	return Result[T]{Page: &page}, nil
}

// Map converts the rows of a result, keeping its metadata.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	convert := func(in []T) []U {
		out := make([]U, 0, len(in))
		for _, item := range in {
			out = append(out, fn(item))
		}
		return out
	}

	if r.Page == nil {
		return Result[U]{Items: convert(r.Items)}
	}
	page := Page[U]{
		List:         convert(r.Page.List),
		Total:        r.Page.Total,
		CurrentPage:  r.Page.CurrentPage,
		PreviousPage: r.Page.PreviousPage,
		NextPage:     r.Page.NextPage,
		LastPage:     r.Page.LastPage,
	}
	return Result[U]{Page: &page}
}

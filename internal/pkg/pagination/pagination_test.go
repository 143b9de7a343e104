package pagination

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceSource struct {
	rows      []int
	lastQuery Query
	counted   bool
	err       error
}

func (s *sliceSource) Find(_ context.Context, q Query) ([]int, error) {
	s.lastQuery = q
	s.counted = false
	return s.rows, s.err
}

func (s *sliceSource) FindAndCount(_ context.Context, q Query) ([]int, int64, error) {
	s.lastQuery = q
	s.counted = true
	if s.err != nil {
		return nil, 0, s.err
	}
	start := min(q.Skip, len(s.rows))
	end := min(start+q.Take, len(s.rows))
	return s.rows[start:end], int64(len(s.rows)), nil
}

func intPtr(v int) *int { return &v }

func rows(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestPaginate_NavigationAcrossPages(t *testing.T) {
	src := &sliceSource{rows: rows(25)}

	tests := []struct {
		page     int
		wantLen  int
		wantNext *int
		wantPrev *int
	}{
		{page: 1, wantLen: 10, wantNext: intPtr(2), wantPrev: nil},
		{page: 2, wantLen: 10, wantNext: intPtr(3), wantPrev: intPtr(1)},
		{page: 3, wantLen: 5, wantNext: nil, wantPrev: intPtr(2)},
	}

	for _, tt := range tests {
		result, err := Paginate[int](context.Background(), src, PageRequest{PageSize: intPtr(10), PageNumber: intPtr(tt.page)}, Query{})
		require.NoError(t, err)
		require.True(t, result.Paginated())

		page := result.Page
		assert.Equal(t, int64(25), page.Total)
		assert.Equal(t, 3, page.LastPage)
		assert.Equal(t, tt.page, page.CurrentPage)
		assert.Len(t, page.List, tt.wantLen)
		assert.Equal(t, tt.wantNext, page.NextPage, "next page for page %d", tt.page)
		assert.Equal(t, tt.wantPrev, page.PreviousPage, "previous page for page %d", tt.page)
	}
}

func TestPaginate_TakeAndSkip(t *testing.T) {
	src := &sliceSource{rows: rows(25)}

	_, err := Paginate[int](context.Background(), src, PageRequest{PageSize: intPtr(7), PageNumber: intPtr(3)}, Query{})
	require.NoError(t, err)

	assert.True(t, src.counted)
	assert.Equal(t, 7, src.lastQuery.Take)
	assert.Equal(t, 14, src.lastQuery.Skip)
}

func TestPaginate_NoParamsReturnsFullList(t *testing.T) {
	src := &sliceSource{rows: rows(25)}

	result, err := Paginate[int](context.Background(), src, PageRequest{}, Query{Take: 3, Skip: 4})
	require.NoError(t, err)

	assert.False(t, result.Paginated())
	assert.False(t, src.counted)
	assert.Len(t, result.Items, 25)
	assert.Zero(t, src.lastQuery.Take)
	assert.Zero(t, src.lastQuery.Skip)

	body, err := json.Marshal(result)
	require.NoError(t, err)
	assert.Equal(t, byte('['), body[0])
}

func TestPaginate_DefaultsWhenOnlyOneParam(t *testing.T) {
	src := &sliceSource{rows: rows(25)}

	result, err := Paginate[int](context.Background(), src, PageRequest{PageNumber: intPtr(2)}, Query{})
	require.NoError(t, err)
	assert.Equal(t, DefaultPageSize, src.lastQuery.Take)
	assert.Equal(t, 2, result.Page.CurrentPage)

	result, err = Paginate[int](context.Background(), src, PageRequest{PageSize: intPtr(5), PageNumber: intPtr(0)}, Query{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Page.CurrentPage)
	assert.Zero(t, src.lastQuery.Skip)
}

func TestPaginate_PageBeyondLastPage(t *testing.T) {
	src := &sliceSource{rows: rows(25)}

	result, err := Paginate[int](context.Background(), src, PageRequest{PageSize: intPtr(10), PageNumber: intPtr(9)}, Query{})
	require.NoError(t, err)

	assert.Empty(t, result.Page.List)
	assert.NotNil(t, result.Page.List)
	assert.Nil(t, result.Page.NextPage)
	assert.Equal(t, intPtr(8), result.Page.PreviousPage)
}

func TestPaginate_EmptySource(t *testing.T) {
	src := &sliceSource{}

	result, err := Paginate[int](context.Background(), src, PageRequest{PageSize: intPtr(10), PageNumber: intPtr(1)}, Query{})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Page.LastPage)
	assert.Nil(t, result.Page.NextPage)
	assert.Nil(t, result.Page.PreviousPage)

	body, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{"list":[],"total":0,"currentPage":1,"previousPage":null,"nextPage":null,"lastPage":0}`, string(body))
}

func TestPaginate_PropagatesSourceError(t *testing.T) {
	boom := errors.New("boom")
	src := &sliceSource{err: boom}

	_, err := Paginate[int](context.Background(), src, PageRequest{PageSize: intPtr(10)}, Query{})
	assert.ErrorIs(t, err, boom)

	_, err = Paginate[int](context.Background(), src, PageRequest{}, Query{})
	assert.ErrorIs(t, err, boom)
}

func TestMap_KeepsMetadata(t *testing.T) {
	src := &sliceSource{rows: rows(25)}
	result, err := Paginate[int](context.Background(), src, PageRequest{PageSize: intPtr(10), PageNumber: intPtr(2)}, Query{})
	require.NoError(t, err)

	mapped := Map(result, func(v int) string { return string(rune('a' + v%26)) })

	require.True(t, mapped.Paginated())
	assert.Len(t, mapped.Page.List, 10)
	assert.Equal(t, result.Page.NextPage, mapped.Page.NextPage)
	assert.Equal(t, result.Page.PreviousPage, mapped.Page.PreviousPage)
	assert.Equal(t, result.Page.LastPage, mapped.Page.LastPage)
}

package paging

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPagedList_TotalPages_Rounds_Up(t *testing.T) {
	req := require.New(t)

	p := NewPagedList([]int{1, 2, 3}, 25, 1, 10)
	req.Equal(3, p.TotalPages)

	p = NewPagedList([]int{1, 2, 3}, 30, 1, 10)
	req.Equal(3, p.TotalPages)

	p = NewPagedList([]int{}, 0, 1, 10)
	req.Equal(0, p.TotalPages)
}

func TestPagedList_Navigation_Flags(t *testing.T) {
	req := require.New(t)

	first := NewPagedList([]int{1}, 25, 1, 10)
	req.False(first.HasPrev)
	req.True(first.HasNext)

	middle := NewPagedList([]int{1}, 25, 2, 10)
	req.True(middle.HasPrev)
	req.True(middle.HasNext)

	last := NewPagedList([]int{1}, 25, 3, 10)
	req.True(last.HasPrev)
	req.False(last.HasNext)

	past := NewPagedList([]int{}, 25, 4, 10)
	req.False(past.HasNext)
}

func TestPagedList_Nil_Items_Becomes_Empty_Slice(t *testing.T) {
	req := require.New(t)

	p := NewPagedList[int](nil, 0, 1, 10)
	req.NotNil(p.Items)
	req.Empty(p.Items)
}

func TestMap_Keeps_Metadata(t *testing.T) {
	req := require.New(t)

	p := NewPagedList([]int{1, 2}, 12, 2, 2)
	mapped := Map(p, func(i int) string {
		if i == 1 {
			return "one"
		}
		return "two"
	})

	req.Equal([]string{"one", "two"}, mapped.Items)
	req.Equal(p.TotalCount, mapped.TotalCount)
	req.Equal(p.TotalPages, mapped.TotalPages)
	req.Equal(p.HasNext, mapped.HasNext)
	req.Equal(p.HasPrev, mapped.HasPrev)
}

package flowcore

import (
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMergeMapFlattensInnerStreamsConcurrently(t *testing.T) {
	ctx := NewPipelineContext(nil, nil, nil)
	up := FromAny[int]([]int{1, 2, 3})

	op := NewMergeMap(func(v int) *AsyncIterator[int] {
		return FromAny[int]([]int{v * 10, v * 100})
	}, 0)
	down := op.Apply(up, ctx)

	got, err := drain(down)
	require.NoError(t, err)
	require.Len(t, got, 6)

	sort.Ints(got)
	require.Equal(t, []int{10, 20, 30, 100, 200, 300}, got)
}

func TestMergeMapRespectsConcurrencyLimit(t *testing.T) {
	ctx := NewPipelineContext(nil, nil, nil)
	up := FromAny[int]([]int{1, 2, 3, 4})

	op := NewMergeMap(func(v int) *AsyncIterator[int] {
		return FromAny[int]([]int{v})
	}, 2)
	down := op.Apply(up, ctx)

	got, err := drain(down)
	require.NoError(t, err)
	sort.Ints(got)
	require.Equal(t, []int{1, 2, 3, 4}, got)
}

func TestMergeMapPropagatesInnerStreamError(t *testing.T) {
	ctx := NewPipelineContext(nil, nil, nil)
	up := FromAny[int]([]int{1, 2})
	wantErr := errors.New("inner boom")

	op := NewMergeMap(func(v int) *AsyncIterator[int] {
		inner := NewAsyncIterator[int]()
		if v == 2 {
			go inner.Fail(wantErr)
		} else {
			go func() {
				inner.Push(NextStamp(), v)
				inner.Finish()
			}()
		}
		return inner
	}, 0)
	down := op.Apply(up, ctx)

	_, err := drain(down)
	require.ErrorIs(t, err, wantErr)
}

func TestMergeMapPropagatesUpstreamError(t *testing.T) {
	ctx := NewPipelineContext(nil, nil, nil)
	up := NewAsyncIterator[int]()
	wantErr := errors.New("upstream boom")
	go up.Fail(wantErr)

	op := NewMergeMap(func(v int) *AsyncIterator[int] {
		return FromAny[int]([]int{v})
	}, 0)
	down := op.Apply(up, ctx)

	_, err := drain(down)
	require.ErrorIs(t, err, wantErr)
}

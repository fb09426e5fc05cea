package flowcore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func drain[T any](it *AsyncIterator[T]) ([]T, error) {
	var out []T
	for {
		res := it.Next()
		if res.Done {
			return out, res.Err
		}
		out = append(out, res.Value)
	}
}

func TestFilterKeepsMatching(t *testing.T) {
	ctx := NewPipelineContext(nil, nil, nil)
	up := FromAny[int]([]int{1, 2, 3, 4, 5})

	down := NewFilter(func(v int) bool { return v%2 == 0 }).Apply(up, ctx)

	got, err := drain(down)
	require.NoError(t, err)
	require.Equal(t, []int{2, 4}, got)
}

func TestFilterPropagatesUpstreamError(t *testing.T) {
	ctx := NewPipelineContext(nil, nil, nil)
	up := NewAsyncIterator[int]()
	wantErr := errors.New("boom")
	go up.Fail(wantErr)

	down := NewFilter(func(int) bool { return true }).Apply(up, ctx)

	_, err := drain(down)
	require.ErrorIs(t, err, wantErr)
}

func TestTapForwardsValuesAndRunsSideEffect(t *testing.T) {
	ctx := NewPipelineContext(nil, nil, nil)
	up := FromAny[int]([]int{1, 2, 3})

	var seen []int
	down := NewTap(func(v int) error { seen = append(seen, v); return nil }).Apply(up, ctx)

	got, err := drain(down)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, got)
	require.Equal(t, []int{1, 2, 3}, seen)
}

func TestTapErrorEndsStream(t *testing.T) {
	ctx := NewPipelineContext(nil, nil, nil)
	up := FromAny[int]([]int{1, 2, 3})
	wantErr := errors.New("tap failed")

	down := NewTap(func(v int) error {
		if v == 2 {
			return wantErr
		}
		return nil
	}).Apply(up, ctx)

	got, err := drain(down)
	require.ErrorIs(t, err, wantErr)
	require.Equal(t, []int{1}, got)
}

func TestDelayWhileGatesUntilPredicateFalse(t *testing.T) {
	ctx := NewPipelineContext(nil, nil, nil)
	up := FromAny[int]([]int{1, 2, 3, 4})

	down := NewDelayWhile(func(v int) bool { return v < 3 }).Apply(up, ctx)

	got, err := drain(down)
	require.NoError(t, err)
	require.Equal(t, []int{3, 4}, got)
}

func TestBufferCountEmitsFixedSizeSlices(t *testing.T) {
	ctx := NewPipelineContext(nil, nil, nil)
	up := FromAny[int]([]int{1, 2, 3, 4, 5})

	down := NewBufferCount[int](2).Apply(up, ctx)

	got, err := drain(down)
	require.NoError(t, err)
	require.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, got)
}

func TestUniqueSuppressesDuplicates(t *testing.T) {
	ctx := NewPipelineContext(nil, nil, nil)
	up := FromAny[int]([]int{1, 1, 2, 2, 3, 1})

	down := NewUnique(func(v int) int { return v }).Apply(up, ctx)

	got, err := drain(down)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, got)
}

func TestLastEmitsOnlyFinalValue(t *testing.T) {
	ctx := NewPipelineContext(nil, nil, nil)
	up := FromAny[int]([]int{1, 2, 3})

	down := NewLast[int]().Apply(up, ctx)

	got, err := drain(down)
	require.NoError(t, err)
	require.Equal(t, []int{3}, got)
}

func TestLastFailsOnEmptySource(t *testing.T) {
	ctx := NewPipelineContext(nil, nil, nil)
	up := FromAny[int]([]int{})

	down := NewLast[int]().Apply(up, ctx)

	_, err := drain(down)
	require.ErrorIs(t, err, ErrNoElements)
}

func TestElementAtSelectsPosition(t *testing.T) {
	ctx := NewPipelineContext(nil, nil, nil)
	up := FromAny[int]([]int{10, 20, 30})

	down := NewElementAt[int](1).Apply(up, ctx)

	got, err := drain(down)
	require.NoError(t, err)
	require.Equal(t, []int{20}, got)
}

func TestElementAtNegativeIndexFails(t *testing.T) {
	ctx := NewPipelineContext(nil, nil, nil)
	up := FromAny[int]([]int{1, 2, 3})

	down := NewElementAt[int](-1).Apply(up, ctx)

	_, err := drain(down)
	require.ErrorIs(t, err, ErrInvalidIndex)
}

func TestElementAtOutOfRangeFails(t *testing.T) {
	ctx := NewPipelineContext(nil, nil, nil)
	up := FromAny[int]([]int{1, 2})

	down := NewElementAt[int](5).Apply(up, ctx)

	_, err := drain(down)
	require.ErrorIs(t, err, ErrInvalidIndex)
}

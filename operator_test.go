package flowcore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPipeAppliesSingleOperator(t *testing.T) {
	ctx := NewPipelineContext(nil, nil, nil)
	up := FromAny[int]([]int{1, 2, 3, 4})

	down := Pipe(up, NewFilter(func(v int) bool { return v%2 == 0 }), ctx)

	got, err := drain(down)
	require.NoError(t, err)
	require.Equal(t, []int{2, 4}, got)
	require.Equal(t, []string{"filter"}, ctx.OperatorNames())
}

func TestPipe2ComposesTwoOperatorsInSequence(t *testing.T) {
	ctx := NewPipelineContext(nil, nil, nil)
	up := FromAny[int]([]int{1, 2, 3, 4, 5, 6})

	down := Pipe2(
		up,
		NewFilter(func(v int) bool { return v%2 == 0 }),
		NewBufferCount[int](2),
		ctx,
	)

	got, err := drain(down)
	require.NoError(t, err)
	require.Equal(t, [][]int{{2, 4}, {6}}, got)
	require.Equal(t, []string{"filter", "bufferCount"}, ctx.OperatorNames())
}

func TestPipelineContextRegisterAssignsSequentialIndexes(t *testing.T) {
	ctx := NewPipelineContext(nil, nil, nil)

	i0 := ctx.register("a")
	i1 := ctx.register("b")
	i2 := ctx.register("c")

	require.Equal(t, 0, i0)
	require.Equal(t, 1, i1)
	require.Equal(t, 2, i2)
	require.Equal(t, []string{"a", "b", "c"}, ctx.OperatorNames())
}

func TestPipelineContextRegisterFiresPipeHook(t *testing.T) {
	var gotName string
	var gotIndex int
	hooks := NewRuntimeHooks(nil)
	hooks.OnPipeStream = func(name string, idx int) {
		gotName = name
		gotIndex = idx
	}
	ctx := NewPipelineContext(nil, nil, hooks)

	ctx.register("tap")

	require.Equal(t, "tap", gotName)
	require.Equal(t, 0, gotIndex)
}

func TestOperatorFuncAdaptsPlainFunction(t *testing.T) {
	ctx := NewPipelineContext(nil, nil, nil)
	up := FromAny[int]([]int{1, 2, 3})

	var op Operator[int, int] = OperatorFunc[int, int](func(upstream *AsyncIterator[int], ctx *PipelineContext) *AsyncIterator[int] {
		return NewFilter(func(v int) bool { return v > 1 }).Apply(upstream, ctx)
	})

	down := op.Apply(up, ctx)

	got, err := drain(down)
	require.NoError(t, err)
	require.Equal(t, []int{2, 3}, got)
}

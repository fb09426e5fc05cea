package flowcore

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowcore/flowcore/metrics"
)

func TestRuntimeHooksDefaultsToNoopProvider(t *testing.T) {
	h := NewRuntimeHooks(nil)
	require.NotNil(t, h.Metrics)
}

func TestRuntimeHooksFireCreateStreamCallsCallback(t *testing.T) {
	var got string
	h := NewRuntimeHooks(nil)
	h.OnCreateStream = func(id string) { got = id }

	h.fireCreateStream("stream-1")

	require.Equal(t, "stream-1", got)
}

func TestRuntimeHooksFirePipeOperatorCallsCallback(t *testing.T) {
	var gotName string
	var gotIdx int
	h := NewRuntimeHooks(nil)
	h.OnPipeStream = func(name string, idx int) {
		gotName = name
		gotIdx = idx
	}

	h.firePipeOperator("map", 3)

	require.Equal(t, "map", gotName)
	require.Equal(t, 3, gotIdx)
}

func TestRuntimeHooksNilReceiverIsSafe(t *testing.T) {
	var h *RuntimeHooks
	require.NotPanics(t, func() {
		h.fireCreateStream("x")
		h.firePipeOperator("y", 0)
	})
}

func TestRuntimeHooksCountsAgainstSuppliedProvider(t *testing.T) {
	provider := metrics.NewBasicProvider()
	h := NewRuntimeHooks(provider)

	h.fireCreateStream("s1")
	h.firePipeOperator("filter", 0)
	h.firePipeOperator("tap", 1)

	streams := provider.Counter("flowcore_streams_created_total").(*metrics.BasicCounter)
	operators := provider.Counter("flowcore_operators_applied_total").(*metrics.BasicCounter)

	require.Equal(t, int64(1), streams.Snapshot())
	require.Equal(t, int64(2), operators.Snapshot())
}

func TestRuntimeHooksSurvivesPanickingCallback(t *testing.T) {
	h := NewRuntimeHooks(nil)
	h.OnCreateStream = func(string) { panic("boom") }

	require.NotPanics(t, func() {
		h.fireCreateStream("z")
	})
}

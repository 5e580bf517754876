package execution

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlowState_Merge(t *testing.T) {
	state := NewFlowState("wf", "u1", "")
	state.SetVariable("a", 1)
	state.SetOutput("n1", "x")

	other := NewFlowState("", "", "s1")
	other.SetVariable("a", 2)
	other.SetVariable("b", 3)
	other.SetOutput("n1", "y")
	other.MarkExecuted("n1")

	state.Merge(other)
	v, _ := state.Variable("a")
	assert.Equal(t, 2, v)
	v, _ = state.Variable("b")
	assert.Equal(t, 3, v)
	out, _ := state.Output("n1")
	assert.Equal(t, "y", out)
	assert.Equal(t, []string{"n1"}, state.Executed())
	assert.Equal(t, "s1", state.SessionID)
	assert.Equal(t, "wf", state.WorkflowID)
}

func TestFlowState_ConcurrentOutputs(t *testing.T) {
	state := NewFlowState("wf", "u1", "s1")
	wg := sync.WaitGroup{}
	for _, id := range []string{"a", "b", "c", "d"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			state.SetOutput(id, id)
			state.MarkExecuted(id)
		}(id)
	}
	wg.Wait()
	snapshot := state.Snapshot()
	assert.Len(t, snapshot.NodeOutputs, 4)
	assert.Len(t, snapshot.ExecutedNodes, 4)
}

func TestStateFrom(t *testing.T) {
	state := NewFlowState("wf", "u1", "s1")
	ctx := WithState(context.Background(), state)
	assert.Same(t, state, StateFrom(ctx))
	assert.Nil(t, StateFrom(context.Background()))
}

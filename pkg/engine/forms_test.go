package engine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfej94/NotesStorage/pkg/core"
	"github.com/wolfej94/NotesStorage/pkg/engine"
)

// The three delivery forms of one operation must surface the same outcome
// for the same scripted context.
func TestEngine_FormsSurfaceTheSameError(t *testing.T) {
	sentinel := errors.New("commit refused")
	e := engine.New(nil)
	n := core.Note{ID: uuid.New()}

	ctx := context.Background()

	blocking := e.Insert(ctx, &recordingContext{saveErr: sentinel}, n)
	assert.ErrorIs(t, blocking, sentinel)

	_, fromTask := e.InsertTask(&recordingContext{saveErr: sentinel}, n).Await(ctx)
	assert.ErrorIs(t, fromTask, sentinel)

	done := make(chan error, 1)
	e.InsertAsync(ctx, &recordingContext{saveErr: sentinel}, n, func(err error) { done <- err })
	select {
	case fromCallback := <-done:
		assert.ErrorIs(t, fromCallback, sentinel)
	case <-time.After(2 * time.Second):
		t.Fatal("callback was never invoked")
	}
}

func TestEngine_TaskIsCold(t *testing.T) {
	c := &recordingContext{}
	e := engine.New(nil)

	task := e.InsertTask(c, core.Note{ID: uuid.New()})

	// Nothing may run until the task is started.
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, c.calls)

	_, err := task.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"create", "save"}, c.calls)
}

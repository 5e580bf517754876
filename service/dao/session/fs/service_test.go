package fs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/weaver/model/session"
	"github.com/viant/weaver/service/dao"
	sdao "github.com/viant/weaver/service/dao/session"
)

func TestService(t *testing.T) {
	ctx := context.Background()
	srv, err := New(ctx, t.TempDir(), nil)
	require.NoError(t, err)

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s1 := session.New("s1", "wf", "u1", now)
	s1.Messages = append(s1.Messages, &session.Message{Human: "hi", AI: "hello", Timestamp: now})
	s1.Memory["topic"] = "weather"
	require.NoError(t, srv.Save(ctx, s1))
	require.NoError(t, srv.Save(ctx, session.New("s2", "wf2", "u1", now)))

	loaded, err := srv.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "wf", loaded.WorkflowID)
	require.Len(t, loaded.Messages, 1)
	assert.Equal(t, "hello", loaded.Messages[0].AI)
	assert.Equal(t, "weather", loaded.Memory["topic"])
	assert.True(t, now.Equal(loaded.CreatedAt))

	_, err = srv.Load(ctx, "missing")
	assert.ErrorIs(t, err, dao.ErrNotFound)

	all, err := srv.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	filtered, err := srv.List(ctx, &dao.Parameter{Name: sdao.ParamWorkflowID, Value: "wf2"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "s2", filtered[0].ID)

	require.NoError(t, srv.Delete(ctx, "s1"))
	assert.ErrorIs(t, srv.Delete(ctx, "s1"), dao.ErrNotFound)
	assert.ErrorIs(t, srv.Save(ctx, nil), dao.ErrNilEntity)
}

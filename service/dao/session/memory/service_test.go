package memory

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
	srv := New()
	now := time.Now()

	require.ErrorIs(t, srv.Save(ctx, nil), dao.ErrNilEntity)
	require.ErrorIs(t, srv.Save(ctx, &session.Session{}), dao.ErrInvalidID)

	s1 := session.New("s1", "wf", "u1", now)
	require.NoError(t, srv.Save(ctx, s1))
	require.NoError(t, srv.Save(ctx, session.New("s2", "wf", "u2", now)))
	s1.Context["mutated"] = true

	loaded, err := srv.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, loaded.Context, "store keeps its own copy")

	_, err = srv.Load(ctx, "missing")
	assert.ErrorIs(t, err, dao.ErrNotFound)

	all, err := srv.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	filtered, err := srv.List(ctx, &dao.Parameter{Name: sdao.ParamUserID, Value: "u2"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "s2", filtered[0].ID)

	require.NoError(t, srv.Delete(ctx, "s1"))
	assert.ErrorIs(t, srv.Delete(ctx, "s1"), dao.ErrNotFound)
}

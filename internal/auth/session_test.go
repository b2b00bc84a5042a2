package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionsLifecycle(t *testing.T) {
	sessions := NewMemorySessions()
	ctx := context.Background()

	sid, err := sessions.Create(ctx, Session{UserID: "u1", Username: "alice", Email: "a@x.com"})
	require.NoError(t, err)
	require.NotEmpty(t, sid)

	sess, err := sessions.Get(ctx, sid)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "u1", sess.UserID)
	assert.Equal(t, "alice", sess.Username)
	assert.Equal(t, "a@x.com", sess.Email)

	require.NoError(t, sessions.Delete(ctx, sid))

	sess, err = sessions.Get(ctx, sid)
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestMemorySessionsUnknownID(t *testing.T) {
	sessions := NewMemorySessions()
	sess, err := sessions.Get(context.Background(), "no-such-session")
	require.NoError(t, err)
	assert.Nil(t, sess)
}

package accounts

import (
	"context"
	"testing"

	"github.com/dekarrin/ll1gen/server/dao"
	"github.com/dekarrin/ll1gen/server/serr"
	"github.com/stretchr/testify/assert"
)

func Test_Service_Login(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.CreateAccount(ctx, "alice", "hunter2", "", dao.Normal)
	assert.NoError(err)
	assert.True(created.LastLoginTime.IsZero())

	loggedIn, err := svc.Login(ctx, "alice", "hunter2")
	assert.NoError(err)
	assert.Equal(created.ID, loggedIn.ID)
	assert.False(loggedIn.LastLoginTime.IsZero())
}

func Test_Service_Login_badCredentials(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, "alice", "hunter2", "", dao.Normal)
	assert.NoError(err)

	_, err = svc.Login(ctx, "alice", "wrongpass")
	assert.ErrorIs(err, serr.ErrBadCredentials)

	_, err = svc.Login(ctx, "nobody", "whatever")
	assert.ErrorIs(err, serr.ErrBadCredentials)
}

func Test_Service_Logout(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.CreateAccount(ctx, "alice", "hunter2", "", dao.Normal)
	assert.NoError(err)
	assert.True(created.LastLogoutTime.IsZero())

	loggedOut, err := svc.Logout(ctx, created.ID)
	assert.NoError(err)
	assert.False(loggedOut.LastLogoutTime.IsZero())
}

package accounts

import (
	"context"
	"testing"

	"github.com/dekarrin/ll1gen/server/dao"
	"github.com/dekarrin/ll1gen/server/dao/inmem"
	"github.com/dekarrin/ll1gen/server/serr"
	"github.com/stretchr/testify/assert"
)

func newTestService() Service {
	return Service{DB: inmem.NewDatastore()}
}

func Test_Service_CreateAccount(t *testing.T) {
	testCases := []struct {
		name        string
		username    string
		password    string
		email       string
		expectErr   error
		expectEmail bool
	}{
		{
			name:     "valid account",
			username: "alice",
			password: "hunter2",
			email:    "alice@example.com",
		},
		{
			name:      "blank username",
			username:  "",
			password:  "hunter2",
			expectErr: serr.ErrBadArgument,
		},
		{
			name:      "blank password",
			username:  "bob",
			password:  "",
			expectErr: serr.ErrBadArgument,
		},
		{
			name:      "malformed email",
			username:  "carl",
			password:  "hunter2",
			email:     "not-an-email",
			expectErr: serr.ErrBadArgument,
		},
		{
			name:     "no email is ok",
			username: "dana",
			password: "hunter2",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			svc := newTestService()

			acc, err := svc.CreateAccount(context.Background(), tc.username, tc.password, tc.email, dao.Normal)
			if tc.expectErr != nil {
				assert.ErrorIs(err, tc.expectErr)
				return
			}

			if !assert.NoError(err) {
				return
			}
			assert.Equal(tc.username, acc.Username)
			assert.NotEqual(tc.password, acc.Password, "password should be hashed, not stored in plaintext")
			assert.NotEmpty(acc.ID)
		})
	}
}

func Test_Service_CreateAccount_duplicateUsername(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, "alice", "hunter2", "", dao.Normal)
	assert.NoError(err)

	_, err = svc.CreateAccount(ctx, "alice", "differentpass", "", dao.Normal)
	assert.ErrorIs(err, serr.ErrAlreadyExists)
}

func Test_Service_GetAccount(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.CreateAccount(ctx, "alice", "hunter2", "", dao.Normal)
	assert.NoError(err)

	got, err := svc.GetAccount(ctx, created.ID.String())
	assert.NoError(err)
	assert.Equal(created.ID, got.ID)

	_, err = svc.GetAccount(ctx, "not-a-uuid")
	assert.ErrorIs(err, serr.ErrBadArgument)
}

func Test_Service_UpdateAccount(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.CreateAccount(ctx, "alice", "hunter2", "", dao.Normal)
	assert.NoError(err)

	updated, err := svc.UpdateAccount(ctx, created.ID.String(), "alicia", "alicia@example.com", dao.Admin)
	assert.NoError(err)
	assert.Equal("alicia", updated.Username)
	assert.Equal(dao.Admin, updated.Role)

	_, err = svc.UpdateAccount(ctx, uuidThatDoesNotExist(), "whoever", "", dao.Normal)
	assert.ErrorIs(err, serr.ErrNotFound)
}

func Test_Service_UpdateAccount_usernameCollision(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, "alice", "hunter2", "", dao.Normal)
	assert.NoError(err)
	bob, err := svc.CreateAccount(ctx, "bob", "hunter2", "", dao.Normal)
	assert.NoError(err)

	_, err = svc.UpdateAccount(ctx, bob.ID.String(), "alice", "", dao.Normal)
	assert.ErrorIs(err, serr.ErrAlreadyExists)
}

func Test_Service_UpdatePassword(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.CreateAccount(ctx, "alice", "hunter2", "", dao.Normal)
	assert.NoError(err)

	updated, err := svc.UpdatePassword(ctx, created.ID.String(), "newpass")
	assert.NoError(err)
	assert.NotEqual(created.Password, updated.Password)

	_, err = svc.UpdatePassword(ctx, created.ID.String(), "")
	assert.ErrorIs(err, serr.ErrBadArgument)
}

func Test_Service_DeleteAccount(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.CreateAccount(ctx, "alice", "hunter2", "", dao.Normal)
	assert.NoError(err)

	deleted, err := svc.DeleteAccount(ctx, created.ID.String())
	assert.NoError(err)
	assert.Equal(created.ID, deleted.ID)

	_, err = svc.GetAccount(ctx, created.ID.String())
	assert.ErrorIs(err, serr.ErrNotFound)
}

func uuidThatDoesNotExist() string {
	return "00000000-0000-0000-0000-000000000000"
}

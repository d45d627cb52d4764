package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/notevault/internal/client/models"
	"github.com/dmitrijs2005/notevault/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyCode(t *testing.T) {
	tests := []struct {
		in         string
		wantCode   string
		wantBackup bool
	}{
		{in: "123456", wantCode: "123456", wantBackup: false},
		{in: " 654321\n", wantCode: "654321", wantBackup: false},
		{in: "ABCD2345", wantCode: "ABCD2345", wantBackup: true},
		{in: "12345a", wantCode: "12345a", wantBackup: true},
		{in: "1234567", wantCode: "1234567", wantBackup: true},
	}
	for _, tt := range tests {
		code, backup := classifyCode(tt.in)
		assert.Equal(t, tt.wantCode, code, tt.in)
		assert.Equal(t, tt.wantBackup, backup, tt.in)
	}
}

func TestAuth_RegisterTrimsIdentifiers(t *testing.T) {
	f := newFakeClient()
	a := NewAuthService(f)

	require.NoError(t, a.Register(context.Background(), " a@b.co ", "alice\n", []byte("secret12")))
	assert.Equal(t, []string{"a@b.co", "alice", "secret12"}, f.regArgs)

	f.err = common.ErrDuplicateIdentity
	err := a.Register(context.Background(), "a@b.co", "alice", []byte("secret12"))
	require.ErrorIs(t, err, common.ErrDuplicateIdentity)
}

func TestAuth_LoginWithSecondFactor(t *testing.T) {
	f := newFakeClient()
	f.loginRes = &models.LoginResult{TwoFactorRequired: true, PendingToken: "P"}
	a := NewAuthService(f)
	ctx := context.Background()

	res, err := a.Login(ctx, "alice", []byte("pw"))
	require.NoError(t, err)
	require.True(t, res.TwoFactorRequired)
	assert.False(t, a.LoggedIn())

	_, err = a.CompleteLogin(ctx, res.PendingToken, "ABCD2345")
	require.NoError(t, err)
	assert.Equal(t, "P", f.verify.pending)
	assert.True(t, f.verify.backup)
	assert.True(t, a.LoggedIn())

	a.Logout(ctx)
	assert.False(t, a.LoggedIn())
}

func TestAuth_LoginFailureWrapsSentinel(t *testing.T) {
	f := newFakeClient()
	f.err = common.ErrInvalidCredentials
	a := NewAuthService(f)

	_, err := a.Login(context.Background(), "alice", []byte("bad"))
	require.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestAuth_TwoFactorManagement(t *testing.T) {
	f := newFakeClient()
	f.setup = &models.TwoFactorSetup{Secret: "S", BackupCodes: []string{"A"}}
	f.codes = []string{"X", "Y"}
	a := NewAuthService(f)
	ctx := context.Background()

	setup, err := a.SetupTwoFactor(ctx)
	require.NoError(t, err)
	require.NoError(t, a.ConfirmTwoFactor(ctx, setup, " 123456 "))
	assert.Same(t, f.setup, f.enabled)
	assert.Equal(t, "123456", f.enableCode)

	codes, err := a.BackupCodes(ctx, "123456")
	require.NoError(t, err)
	assert.Equal(t, []string{"X", "Y"}, codes)

	require.NoError(t, a.DisableTwoFactor(ctx, "123456"))
	assert.False(t, f.disable.backup)

	f.err = common.ErrInvalidCode
	err = a.DisableTwoFactor(ctx, "ZZZZ9999")
	require.ErrorIs(t, err, common.ErrInvalidCode)
	assert.True(t, f.disable.backup)
}

func TestAuth_AccountAndActivity(t *testing.T) {
	f := newFakeClient()
	f.loggedIn = true
	f.activity = []*models.Activity{{Action: "login"}}
	a := NewAuthService(f)
	ctx := context.Background()

	list, err := a.Activity(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 5, f.gotLimit)

	require.NoError(t, a.ChangePassword(ctx, []byte("old"), []byte("new")))
	require.NoError(t, a.DeleteAccount(ctx, []byte("pw")))
	assert.False(t, a.LoggedIn())

	f.err = errors.New("down")
	require.Error(t, a.Ping(ctx))
	require.NoError(t, a.Close(ctx))
	assert.True(t, f.closed)
}

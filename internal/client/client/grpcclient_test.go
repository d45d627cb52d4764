package client

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/notevault/internal/api"
	"github.com/dmitrijs2005/notevault/internal/client/models"
	"github.com/dmitrijs2005/notevault/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

/*************
 * Fake server
 *************/

type fakeServer struct {
	api.UnimplementedNoteVaultServer

	loginResp *api.LoginResponse
	err       error
	delay     time.Duration

	gotToken     string
	gotUserAgent string
	gotEnable    *api.EnableTwoFactorRequest
	items        []*api.Item
}

func (f *fakeServer) capture(ctx context.Context) {
	md, _ := metadata.FromIncomingContext(ctx)
	if v := md.Get(common.AccessTokenHeaderName); len(v) > 0 {
		f.gotToken = v[0]
	}
	if v := md.Get("user-agent"); len(v) > 0 {
		f.gotUserAgent = v[0]
	}
}

func (f *fakeServer) Login(ctx context.Context, req *api.LoginRequest) (*api.LoginResponse, error) {
	f.capture(ctx)
	return f.loginResp, f.err
}

func (f *fakeServer) VerifyLogin(ctx context.Context, req *api.VerifyLoginRequest) (*api.LoginResponse, error) {
	f.capture(ctx)
	return f.loginResp, f.err
}

func (f *fakeServer) ListItems(ctx context.Context, _ *emptypb.Empty) (*api.ListItemsResponse, error) {
	f.capture(ctx)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &api.ListItemsResponse{Items: f.items}, nil
}

func (f *fakeServer) SaveItem(ctx context.Context, req *api.SaveItemRequest) (*api.ItemResponse, error) {
	f.capture(ctx)
	return nil, f.err
}

func (f *fakeServer) DeleteAccount(ctx context.Context, req *api.DeleteAccountRequest) (*emptypb.Empty, error) {
	f.capture(ctx)
	if f.err != nil {
		return nil, f.err
	}
	return &emptypb.Empty{}, nil
}

func (f *fakeServer) EnableTwoFactor(ctx context.Context, req *api.EnableTwoFactorRequest) (*emptypb.Empty, error) {
	f.gotEnable = req
	return &emptypb.Empty{}, nil
}

func (f *fakeServer) ExportItems(ctx context.Context, _ *emptypb.Empty) (*api.ExportItemsResponse, error) {
	return &api.ExportItemsResponse{
		URL:       "http://s3/export.json",
		ItemCount: 2,
		ExpiresAt: timestamppb.New(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)),
	}, nil
}

func startFake(t *testing.T, f *fakeServer, timeout time.Duration) (*GRPCClient, *health.Server) {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	api.RegisterNoteVaultServer(s, f)
	hs := health.NewServer()
	hs.SetServingStatus(api.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	c, err := NewGRPCClient("passthrough:///bufnet", timeout,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, hs
}

/*************
 * tests
 *************/

func TestLogin_StoresSessionAndSendsIt(t *testing.T) {
	f := &fakeServer{loginResp: &api.LoginResponse{AccessToken: "S1", Username: "alice"}}
	c, _ := startFake(t, f, time.Second)
	ctx := context.Background()

	require.False(t, c.LoggedIn())

	res, err := c.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, "alice", res.Username)
	assert.False(t, res.TwoFactorRequired)
	assert.Empty(t, f.gotToken, "login itself carries no token")
	assert.True(t, c.LoggedIn())

	_, err = c.ListItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, "S1", f.gotToken)
	assert.True(t, strings.HasPrefix(f.gotUserAgent, "notevault-cli/"), f.gotUserAgent)

	c.Logout()
	assert.False(t, c.LoggedIn())
}

func TestLogin_TwoFactorPendingThenVerify(t *testing.T) {
	f := &fakeServer{loginResp: &api.LoginResponse{TwoFactorRequired: true, PendingToken: "P"}}
	c, _ := startFake(t, f, time.Second)
	ctx := context.Background()

	res, err := c.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	assert.True(t, res.TwoFactorRequired)
	assert.Equal(t, "P", res.PendingToken)
	assert.False(t, c.LoggedIn())

	f.loginResp = &api.LoginResponse{AccessToken: "S2"}
	_, err = c.VerifyLogin(ctx, "P", "123456", false)
	require.NoError(t, err)
	assert.True(t, c.LoggedIn())
}

func TestMapError(t *testing.T) {
	c := &GRPCClient{}

	tests := []struct {
		name       string
		in         error
		want       error
		wantSubstr string
	}{
		{name: "nil", in: nil, want: nil},
		{name: "sentinel", in: status.Error(codes.PermissionDenied, common.ErrInvalidCode.Error()), want: common.ErrInvalidCode},
		{name: "sentinel with detail", in: status.Error(codes.InvalidArgument, "validation error: title too long"),
			want: common.ErrorValidation, wantSubstr: "title too long"},
		{name: "expired", in: status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error()), want: common.ErrTokenExpired},
		{name: "unavailable", in: status.Error(codes.Unavailable, "connection refused"), want: ErrUnavailable},
		{name: "deadline", in: status.Error(codes.DeadlineExceeded, "deadline"), want: ErrUnavailable},
		{name: "unknown text", in: status.Error(codes.Internal, "boom"), wantSubstr: "rpc error"},
		{name: "plain error", in: errors.New("x"), wantSubstr: "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.mapError(tt.in)
			if tt.in == nil {
				require.NoError(t, got)
				return
			}
			require.Error(t, got)
			if tt.want != nil {
				assert.ErrorIs(t, got, tt.want)
			}
			if tt.wantSubstr != "" {
				assert.Contains(t, got.Error(), tt.wantSubstr)
			}
		})
	}
}

func TestCalls_MapServerErrors(t *testing.T) {
	f := &fakeServer{err: status.Error(codes.InvalidArgument, "validation error: title is required")}
	c, _ := startFake(t, f, time.Second)

	_, err := c.SaveItem(context.Background(), "", "blob")
	require.ErrorIs(t, err, common.ErrorValidation)
	assert.Contains(t, err.Error(), "title is required")

	f.err = status.Error(codes.Unauthenticated, common.ErrInvalidCredentials.Error())
	_, err = c.Login(context.Background(), "a", "b")
	require.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestTimeout_BecomesUnavailable(t *testing.T) {
	f := &fakeServer{delay: time.Second}
	c, _ := startFake(t, f, 50*time.Millisecond)

	_, err := c.ListItems(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestPing_UsesHealthService(t *testing.T) {
	c, hs := startFake(t, &fakeServer{}, time.Second)

	require.NoError(t, c.Ping(context.Background()))

	hs.SetServingStatus(api.ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}

func TestDeleteAccount_ForgetsSession(t *testing.T) {
	f := &fakeServer{loginResp: &api.LoginResponse{AccessToken: "S"}}
	c, _ := startFake(t, f, time.Second)
	ctx := context.Background()

	_, err := c.Login(ctx, "alice", "pw")
	require.NoError(t, err)

	f.err = status.Error(codes.Unauthenticated, common.ErrInvalidCredentials.Error())
	require.ErrorIs(t, c.DeleteAccount(ctx, "wrong"), common.ErrInvalidCredentials)
	assert.True(t, c.LoggedIn())

	f.err = nil
	require.NoError(t, c.DeleteAccount(ctx, "pw"))
	assert.False(t, c.LoggedIn())
}

func TestConversions(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	f := &fakeServer{items: []*api.Item{{ID: "i1", Title: "t", CreatedAt: timestamppb.New(created)}}}
	c, _ := startFake(t, f, time.Second)
	ctx := context.Background()

	items, err := c.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "i1", items[0].ID)
	assert.True(t, created.Equal(items[0].CreatedAt))
	assert.True(t, items[0].UpdatedAt.IsZero())

	link, err := c.ExportItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, "http://s3/export.json", link.URL)
	assert.Equal(t, 2, link.ItemCount)
	assert.Equal(t, 2025, link.ExpiresAt.Year())

	setup := &models.TwoFactorSetup{Secret: "SECRET", BackupCodes: []string{"A1", "B2"}}
	require.NoError(t, c.EnableTwoFactor(ctx, setup, "123456"))
	assert.Equal(t, "SECRET", f.gotEnable.Secret)
	assert.Equal(t, "123456", f.gotEnable.Code)
	assert.Equal(t, []string{"A1", "B2"}, f.gotEnable.BackupCodes)
}

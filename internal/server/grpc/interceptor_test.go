package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/notevault/internal/api"
	"github.com/dmitrijs2005/notevault/internal/common"
	"github.com/dmitrijs2005/notevault/internal/logging"
	"github.com/dmitrijs2005/notevault/internal/server/auth"
	"github.com/dmitrijs2005/notevault/internal/server/models"
	"github.com/dmitrijs2005/notevault/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// helper to build server
func newTestServer(issuer *auth.TokenIssuer) *GRPCServer {
	return &GRPCServer{
		logger:   nopLogger{},
		sessions: issuer,
	}
}

func newIssuer() *auth.TokenIssuer {
	return auth.NewTokenIssuer([]byte("secret"), time.Hour, time.Minute)
}

func TestInterceptor_PublicMethod_AllowsWithoutToken(t *testing.T) {
	s := newTestServer(newIssuer())

	for _, m := range []string{api.FullMethod(api.MethodLogin), healthpb.Health_Check_FullMethodName} {
		info := &grpc.UnaryServerInfo{FullMethod: m}
		handlerCalled := false

		h := func(ctx context.Context, req any) (any, error) {
			handlerCalled = true
			return "ok", nil
		}

		resp, err := s.accessTokenInterceptor(context.Background(), nil, info, h)
		require.NoError(t, err, m)
		assert.True(t, handlerCalled, m)
		assert.Equal(t, "ok", resp)
	}
}

func TestInterceptor_ProtectedMethod(t *testing.T) {
	issuer := newIssuer()
	s := newTestServer(issuer)
	info := &grpc.UnaryServerInfo{FullMethod: api.FullMethod(api.MethodSaveItem)}

	session, err := issuer.IssueSession(&models.User{ID: "u1", UserName: "alice"})
	require.NoError(t, err)
	pending, err := issuer.IssuePending("u1")
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
		wantID  string
	}{
		{name: "missing token", wantErr: common.ErrorUnauthorized},
		{name: "garbage token", token: "not-a-valid-jwt", wantErr: common.ErrInvalidToken},
		{name: "pending token is not a session", token: pending, wantErr: common.ErrInvalidToken},
		{name: "valid session", token: session, wantID: "u1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if tt.token != "" {
				ctx = metadata.NewIncomingContext(ctx, metadata.Pairs(common.AccessTokenHeaderName, tt.token))
			}

			var gotID string
			h := func(ctx context.Context, req any) (any, error) {
				gotID, _ = userIDFromContext(ctx)
				return "ok", nil
			}

			_, err := s.accessTokenInterceptor(ctx, nil, info, h)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Equal(t, codes.Unauthenticated, status.Code(err))
				assert.Equal(t, tt.wantErr.Error(), status.Convert(err).Message())
				assert.Empty(t, gotID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, gotID)
		})
	}
}

func TestInterceptor_EveryProtectedMethodNeedsToken(t *testing.T) {
	s := newTestServer(newIssuer())
	for _, m := range api.ServiceDesc.Methods {
		full := api.FullMethod(m.MethodName)
		if _, public := publicMethods[full]; public {
			continue
		}
		_, err := s.accessTokenInterceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: full},
			func(ctx context.Context, req any) (any, error) {
				t.Fatalf("%s reached the handler without a token", full)
				return nil, nil
			})
		assert.Equal(t, codes.Unauthenticated, status.Code(err), full)
	}
}

func TestRequestInterceptor_AttachesClientInfo(t *testing.T) {
	s := newTestServer(newIssuer())

	ctx := peer.NewContext(context.Background(), &peer.Peer{Addr: &net.TCPAddr{IP: net.ParseIP("192.0.2.10"), Port: 5555}})
	ctx = metadata.NewIncomingContext(ctx, metadata.Pairs(common.UserAgentHeaderName, "notevault-cli/1.0"))

	var ci services.ClientInfo
	var reqID string
	_, err := s.requestInterceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/x/y"}, func(ctx context.Context, req any) (any, error) {
		ci = services.ClientInfoFrom(ctx)
		reqID, _ = logging.RequestID(ctx)
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "192.0.2.10", ci.IP)
	assert.Equal(t, "notevault-cli/1.0", ci.UserAgent)
	assert.NotEmpty(t, reqID)
}

func TestClientInfo_PrefersForwardedFor(t *testing.T) {
	ctx := peer.NewContext(context.Background(), &peer.Peer{Addr: &net.TCPAddr{IP: net.ParseIP("10.0.0.1"), Port: 1}})
	ctx = metadata.NewIncomingContext(ctx, metadata.Pairs("x-forwarded-for", "203.0.113.5, 10.0.0.1"))

	assert.Equal(t, "203.0.113.5", clientInfo(ctx).IP)
	assert.Equal(t, services.ClientInfo{}, clientInfo(context.Background()))
}

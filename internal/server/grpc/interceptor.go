package grpc

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/dmitrijs2005/notevault/internal/api"
	"github.com/dmitrijs2005/notevault/internal/common"
	"github.com/dmitrijs2005/notevault/internal/logging"
	"github.com/dmitrijs2005/notevault/internal/server/services"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

type ctxKey string

const userIDKey ctxKey = "userID"

const forwardedForHeader = "x-forwarded-for"

// publicMethods may be called without a session token.
var publicMethods = map[string]struct{}{
	api.FullMethod(api.MethodPing):               {},
	api.FullMethod(api.MethodRegister):           {},
	api.FullMethod(api.MethodLogin):              {},
	api.FullMethod(api.MethodVerifyLogin):        {},
	api.FullMethod(api.MethodBeginPasskeyLogin):  {},
	api.FullMethod(api.MethodFinishPasskeyLogin): {},
	healthpb.Health_Check_FullMethodName:         {},
}

// requestInterceptor tags the context with a request id and the caller's
// address and user agent, and logs the outcome of every call.
func (s *GRPCServer) requestInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	ctx = logging.WithRequestID(ctx, uuid.NewString())
	ctx = services.WithClientInfo(ctx, clientInfo(ctx))

	start := time.Now()
	resp, err := handler(ctx, req)

	s.logger.Info(ctx, "request",
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start))

	return resp, err
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {

	if _, ok := publicMethods[info.FullMethod]; ok {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AccessTokenHeaderName)
		if len(values) > 0 {
			accessToken = values[0]
		}
	}
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, common.ErrorUnauthorized.Error())
	}

	claims, err := s.sessions.ParseSession(accessToken)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
		}
		return nil, status.Error(codes.Unauthenticated, common.ErrInvalidToken.Error())
	}

	ctx = context.WithValue(ctx, userIDKey, claims.UserID)

	return handler(ctx, req)
}

func userIDFromContext(ctx context.Context) (string, error) {
	id, ok := ctx.Value(userIDKey).(string)
	if !ok || id == "" {
		return "", common.ErrorUnauthorized
	}
	return id, nil
}

// clientInfo reads the caller address, preferring the first hop recorded by
// a fronting proxy, and the user agent.
func clientInfo(ctx context.Context) services.ClientInfo {
	var ci services.ClientInfo

	md, _ := metadata.FromIncomingContext(ctx)
	if v := md.Get(common.UserAgentHeaderName); len(v) > 0 {
		ci.UserAgent = v[0]
	}
	if v := md.Get(forwardedForHeader); len(v) > 0 {
		first, _, _ := strings.Cut(v[0], ",")
		ci.IP = strings.TrimSpace(first)
	}

	if ci.IP == "" {
		if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
			addr := p.Addr.String()
			if host, _, err := net.SplitHostPort(addr); err == nil {
				addr = host
			}
			ci.IP = addr
		}
	}
	return ci
}

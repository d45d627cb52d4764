package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/notevault/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var statusCodes = []struct {
	err  error
	code codes.Code
}{
	{common.ErrorInternal, codes.Internal},
	{common.ErrInvalidCredentials, codes.Unauthenticated},
	{common.ErrDuplicateIdentity, codes.AlreadyExists},
	{common.ErrWeakPassword, codes.InvalidArgument},
	{common.ErrInvalidIdentifier, codes.InvalidArgument},
	{common.ErrInvalidCode, codes.PermissionDenied},
	{common.ErrNotEnabled, codes.FailedPrecondition},
	{common.ErrDecryptionFailed, codes.InvalidArgument},
	{common.ErrDuplicateCredential, codes.AlreadyExists},
	{common.ErrUnknownCredential, codes.Unauthenticated},
	{common.ErrorNotFound, codes.NotFound},
	{common.ErrorUnauthorized, codes.Unauthenticated},
	{common.ErrorValidation, codes.InvalidArgument},
	{common.ErrInvalidToken, codes.Unauthenticated},
	{common.ErrTokenExpired, codes.Unauthenticated},
}

// toStatus converts a service error into a gRPC status whose message is the
// sentinel text. Validation errors keep their detail; anything unknown
// becomes Internal.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	for _, m := range statusCodes {
		if !errors.Is(err, m.err) {
			continue
		}
		msg := m.err.Error()
		if m.code == codes.InvalidArgument {
			msg = err.Error()
		}
		return status.Error(m.code, msg)
	}
	return status.Error(codes.Internal, common.ErrorInternal.Error())
}

// fail logs err and converts it for the wire. Internal failures are logged
// as errors; expected outcomes such as a wrong password only at info level.
func (s *GRPCServer) fail(ctx context.Context, op string, err error) error {
	st := toStatus(err)
	if status.Code(st) == codes.Internal {
		s.logger.Error(ctx, op+" failed", "error", err)
	} else {
		s.logger.Info(ctx, op+" rejected", "reason", status.Convert(st).Message())
	}
	return st
}

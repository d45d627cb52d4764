package grpc

import (
	"context"

	"github.com/dmitrijs2005/notevault/internal/api"
	"github.com/dmitrijs2005/notevault/internal/server/auth/passkey"
	"github.com/dmitrijs2005/notevault/internal/server/services"
	"google.golang.org/protobuf/types/known/emptypb"
)

func (s *GRPCServer) Ping(ctx context.Context, req *emptypb.Empty) (*api.PingResponse, error) {

	return &api.PingResponse{Status: "OK"}, nil

}

func (s *GRPCServer) Register(ctx context.Context, req *api.RegisterRequest) (*api.RegisterResponse, error) {

	s.logger.Info(ctx, "Registration request", "username", req.Username)

	user, err := s.users.Register(ctx, req.Email, req.Username, req.Password)
	if err != nil {
		return nil, s.fail(ctx, "register", err)
	}

	s.logger.Info(ctx, "Registered", "user_id", user.ID)
	return &api.RegisterResponse{UserID: user.ID}, nil

}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.LoginResponse, error) {

	res, err := s.users.Login(ctx, req.Identifier, req.Password)
	if err != nil {
		return nil, s.fail(ctx, "login", err)
	}

	return toLoginResponse(res), nil

}

func (s *GRPCServer) VerifyLogin(ctx context.Context, req *api.VerifyLoginRequest) (*api.LoginResponse, error) {

	res, err := s.users.CompleteLogin(ctx, req.PendingToken, req.Code, req.UseBackupCode)
	if err != nil {
		return nil, s.fail(ctx, "verify login", err)
	}

	return toLoginResponse(res), nil

}

func (s *GRPCServer) BeginPasskeyLogin(ctx context.Context, req *emptypb.Empty) (*api.BeginPasskeyLoginResponse, error) {

	ch, err := s.passkeys.BeginAssertion(ctx)
	if err != nil {
		return nil, s.fail(ctx, "begin passkey login", err)
	}

	return &api.BeginPasskeyLoginResponse{Challenge: ch.Challenge, ChallengeToken: ch.Token}, nil

}

func (s *GRPCServer) FinishPasskeyLogin(ctx context.Context, req *api.FinishPasskeyLoginRequest) (*api.LoginResponse, error) {

	assertion := passkey.Assertion{
		CredentialID:      req.CredentialID,
		ClientDataJSON:    req.ClientDataJSON,
		AuthenticatorData: req.AuthenticatorData,
		Signature:         req.Signature,
	}

	res, err := s.users.CompletePasskeyLogin(ctx, req.ChallengeToken, assertion, req.PendingToken)
	if err != nil {
		return nil, s.fail(ctx, "passkey login", err)
	}

	return toLoginResponse(res), nil

}

func (s *GRPCServer) ChangePassword(ctx context.Context, req *api.ChangePasswordRequest) (*emptypb.Empty, error) {

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, s.fail(ctx, "change password", err)
	}

	if err := s.users.ChangePassword(ctx, userID, req.CurrentPassword, req.NewPassword); err != nil {
		return nil, s.fail(ctx, "change password", err)
	}

	return &emptypb.Empty{}, nil

}

func (s *GRPCServer) DeleteAccount(ctx context.Context, req *api.DeleteAccountRequest) (*emptypb.Empty, error) {

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, s.fail(ctx, "delete account", err)
	}

	if err := s.users.DeleteAccount(ctx, userID, req.Password); err != nil {
		return nil, s.fail(ctx, "delete account", err)
	}

	s.logger.Info(ctx, "Account deleted", "user_id", userID)
	return &emptypb.Empty{}, nil

}

func (s *GRPCServer) SetupTwoFactor(ctx context.Context, req *emptypb.Empty) (*api.SetupTwoFactorResponse, error) {

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, s.fail(ctx, "2fa setup", err)
	}

	enr, err := s.twoFactor.RequestEnrollment(ctx, userID)
	if err != nil {
		return nil, s.fail(ctx, "2fa setup", err)
	}

	return &api.SetupTwoFactorResponse{
		Secret:      enr.Secret,
		OTPAuthURL:  enr.URL,
		BackupCodes: enr.BackupCodes,
	}, nil

}

func (s *GRPCServer) EnableTwoFactor(ctx context.Context, req *api.EnableTwoFactorRequest) (*emptypb.Empty, error) {

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, s.fail(ctx, "2fa enable", err)
	}

	if err := s.twoFactor.ConfirmEnrollment(ctx, userID, req.Secret, req.Code, req.BackupCodes); err != nil {
		return nil, s.fail(ctx, "2fa enable", err)
	}

	s.logger.Info(ctx, "Two-factor enabled", "user_id", userID)
	return &emptypb.Empty{}, nil

}

// DisableTwoFactor requires a valid factor before clearing it.
func (s *GRPCServer) DisableTwoFactor(ctx context.Context, req *api.DisableTwoFactorRequest) (*emptypb.Empty, error) {

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, s.fail(ctx, "2fa disable", err)
	}

	if err := s.twoFactor.CheckFactor(ctx, userID, req.Code, req.UseBackupCode); err != nil {
		return nil, s.fail(ctx, "2fa disable", err)
	}
	if err := s.twoFactor.Disable(ctx, userID); err != nil {
		return nil, s.fail(ctx, "2fa disable", err)
	}

	s.logger.Info(ctx, "Two-factor disabled", "user_id", userID)
	return &emptypb.Empty{}, nil

}

func (s *GRPCServer) ViewBackupCodes(ctx context.Context, req *api.ViewBackupCodesRequest) (*api.BackupCodesResponse, error) {

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, s.fail(ctx, "view backup codes", err)
	}

	codes, err := s.twoFactor.ViewBackupCodes(ctx, userID, req.Code)
	if err != nil {
		return nil, s.fail(ctx, "view backup codes", err)
	}

	return &api.BackupCodesResponse{BackupCodes: codes}, nil

}

func (s *GRPCServer) RegisterPasskey(ctx context.Context, req *api.RegisterPasskeyRequest) (*emptypb.Empty, error) {

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, s.fail(ctx, "register passkey", err)
	}

	if err := s.passkeys.Register(ctx, userID, req.CredentialID, req.PublicKey, int(req.Algorithm)); err != nil {
		return nil, s.fail(ctx, "register passkey", err)
	}

	return &emptypb.Empty{}, nil

}

func (s *GRPCServer) ListActivity(ctx context.Context, req *api.ListActivityRequest) (*api.ListActivityResponse, error) {

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, s.fail(ctx, "list activity", err)
	}

	list, err := s.activity.List(ctx, userID, int(req.Limit))
	if err != nil {
		return nil, s.fail(ctx, "list activity", err)
	}

	resp := &api.ListActivityResponse{Entries: make([]*api.ActivityEntry, 0, len(list))}
	for _, a := range list {
		resp.Entries = append(resp.Entries, toActivityEntry(a))
	}
	return resp, nil

}

func toLoginResponse(res *services.LoginResult) *api.LoginResponse {
	out := &api.LoginResponse{
		AccessToken:       res.AccessToken,
		TwoFactorRequired: res.TwoFactorRequired,
		PendingToken:      res.PendingToken,
	}
	if res.User != nil {
		out.Username = res.User.UserName
	}
	return out
}

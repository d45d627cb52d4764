package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/notevault/internal/api"
	"github.com/dmitrijs2005/notevault/internal/buildinfo"
	"github.com/dmitrijs2005/notevault/internal/client/models"
	"github.com/dmitrijs2005/notevault/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn
	client      api.NoteVaultClient
	health      healthpb.HealthClient

	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

// accessTokenInterceptor bounds every call by the configured timeout and
// attaches the session token once one is held.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if token := s.token(); token != "" {
		ctx = withAccessToken(ctx, token)
	}

	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient connects to endpointURL. Extra dial options are appended
// after the defaults.
func NewGRPCClient(endpointURL string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, timeout: timeout}
	if err := c.InitGRPCClient(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient(opts ...grpc.DialOption) error {

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
		grpc.WithUserAgent(buildinfo.UserAgent()),
	}, opts...)

	conn, err := grpc.NewClient(s.endpointURL, dialOpts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = api.NewNoteVaultClient(conn)
	s.health = healthpb.NewHealthClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) setToken(token string) {
	s.mu.Lock()
	s.accessToken = token
	s.mu.Unlock()
}

func (s *GRPCClient) LoggedIn() bool {
	return s.token() != ""
}

// Logout drops the session token. Sessions are stateless on the server, so
// there is nothing to revoke remotely.
func (s *GRPCClient) Logout() {
	s.setToken("")
}

// Ping asks the standard health service whether NoteVault is serving.
func (s *GRPCClient) Ping(ctx context.Context) error {

	resp, err := s.health.Check(ctx, &healthpb.HealthCheckRequest{Service: api.ServiceName})
	if err != nil {
		return s.mapError(err)
	}

	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return ErrUnavailable
	}

	return nil

}

func (s *GRPCClient) Register(ctx context.Context, email, username, password string) error {

	req := &api.RegisterRequest{Email: email, Username: username, Password: password}

	if _, err := s.client.Register(ctx, req); err != nil {
		return s.mapError(err)
	}

	return nil

}

func (s *GRPCClient) Login(ctx context.Context, identifier, password string) (*models.LoginResult, error) {

	resp, err := s.client.Login(ctx, &api.LoginRequest{Identifier: identifier, Password: password})
	if err != nil {
		return nil, s.mapError(err)
	}

	return s.acceptLogin(resp), nil

}

func (s *GRPCClient) VerifyLogin(ctx context.Context, pendingToken, code string, useBackupCode bool) (*models.LoginResult, error) {

	req := &api.VerifyLoginRequest{PendingToken: pendingToken, Code: code, UseBackupCode: useBackupCode}

	resp, err := s.client.VerifyLogin(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}

	return s.acceptLogin(resp), nil

}

func (s *GRPCClient) BeginPasskeyLogin(ctx context.Context) (*models.Challenge, error) {

	resp, err := s.client.BeginPasskeyLogin(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}

	return &models.Challenge{Challenge: resp.Challenge, Token: resp.ChallengeToken}, nil

}

func (s *GRPCClient) FinishPasskeyLogin(ctx context.Context, a PasskeyAssertion) (*models.LoginResult, error) {

	req := &api.FinishPasskeyLoginRequest{
		ChallengeToken:    a.ChallengeToken,
		CredentialID:      a.CredentialID,
		ClientDataJSON:    a.ClientDataJSON,
		AuthenticatorData: a.AuthenticatorData,
		Signature:         a.Signature,
		PendingToken:      a.PendingToken,
	}

	resp, err := s.client.FinishPasskeyLogin(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}

	return s.acceptLogin(resp), nil

}

func (s *GRPCClient) ChangePassword(ctx context.Context, current, next string) error {

	_, err := s.client.ChangePassword(ctx, &api.ChangePasswordRequest{CurrentPassword: current, NewPassword: next})
	return s.mapError(err)

}

// DeleteAccount removes the account and forgets the session on success.
func (s *GRPCClient) DeleteAccount(ctx context.Context, password string) error {

	if _, err := s.client.DeleteAccount(ctx, &api.DeleteAccountRequest{Password: password}); err != nil {
		return s.mapError(err)
	}

	s.Logout()
	return nil

}

func (s *GRPCClient) SetupTwoFactor(ctx context.Context) (*models.TwoFactorSetup, error) {

	resp, err := s.client.SetupTwoFactor(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}

	return &models.TwoFactorSetup{
		Secret:      resp.Secret,
		OTPAuthURL:  resp.OTPAuthURL,
		BackupCodes: resp.BackupCodes,
	}, nil

}

func (s *GRPCClient) EnableTwoFactor(ctx context.Context, setup *models.TwoFactorSetup, code string) error {

	req := &api.EnableTwoFactorRequest{Secret: setup.Secret, Code: code, BackupCodes: setup.BackupCodes}

	_, err := s.client.EnableTwoFactor(ctx, req)
	return s.mapError(err)

}

func (s *GRPCClient) DisableTwoFactor(ctx context.Context, code string, useBackupCode bool) error {

	_, err := s.client.DisableTwoFactor(ctx, &api.DisableTwoFactorRequest{Code: code, UseBackupCode: useBackupCode})
	return s.mapError(err)

}

func (s *GRPCClient) ViewBackupCodes(ctx context.Context, code string) ([]string, error) {

	resp, err := s.client.ViewBackupCodes(ctx, &api.ViewBackupCodesRequest{Code: code})
	if err != nil {
		return nil, s.mapError(err)
	}

	return resp.BackupCodes, nil

}

func (s *GRPCClient) RegisterPasskey(ctx context.Context, credentialID string, publicKey []byte, algorithm int) error {

	req := &api.RegisterPasskeyRequest{CredentialID: credentialID, PublicKey: publicKey, Algorithm: int32(algorithm)}

	_, err := s.client.RegisterPasskey(ctx, req)
	return s.mapError(err)

}

func (s *GRPCClient) SaveItem(ctx context.Context, title, blob string) (*models.Item, error) {

	resp, err := s.client.SaveItem(ctx, &api.SaveItemRequest{Title: title, Blob: blob})
	if err != nil {
		return nil, s.mapError(err)
	}

	return fromItem(resp.Item), nil

}

func (s *GRPCClient) UpdateItem(ctx context.Context, id, title, blob string) (*models.Item, error) {

	resp, err := s.client.UpdateItem(ctx, &api.UpdateItemRequest{ID: id, Title: title, Blob: blob})
	if err != nil {
		return nil, s.mapError(err)
	}

	return fromItem(resp.Item), nil

}

func (s *GRPCClient) GetItem(ctx context.Context, id string) (*models.Item, error) {

	resp, err := s.client.GetItem(ctx, &api.ItemRequest{ID: id})
	if err != nil {
		return nil, s.mapError(err)
	}

	return fromItem(resp.Item), nil

}

func (s *GRPCClient) ListItems(ctx context.Context) ([]*models.Item, error) {

	resp, err := s.client.ListItems(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}

	items := make([]*models.Item, 0, len(resp.Items))
	for _, it := range resp.Items {
		items = append(items, fromItem(it))
	}
	return items, nil

}

func (s *GRPCClient) DeleteItem(ctx context.Context, id string) error {

	_, err := s.client.DeleteItem(ctx, &api.ItemRequest{ID: id})
	return s.mapError(err)

}

func (s *GRPCClient) ExportItems(ctx context.Context) (*models.ExportLink, error) {

	resp, err := s.client.ExportItems(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}

	return &models.ExportLink{
		URL:       resp.URL,
		ItemCount: int(resp.ItemCount),
		ExpiresAt: asTime(resp.ExpiresAt),
	}, nil

}

func (s *GRPCClient) ListActivity(ctx context.Context, limit int) ([]*models.Activity, error) {

	resp, err := s.client.ListActivity(ctx, &api.ListActivityRequest{Limit: int32(limit)})
	if err != nil {
		return nil, s.mapError(err)
	}

	out := make([]*models.Activity, 0, len(resp.Entries))
	for _, e := range resp.Entries {
		out = append(out, &models.Activity{
			ID:        e.ID,
			Action:    e.Action,
			IP:        e.IP,
			UserAgent: e.UserAgent,
			CreatedAt: asTime(e.CreatedAt),
		})
	}
	return out, nil

}

// mapError turns a status back into the sentinel named by its message,
// keeping any detail after the sentinel text. Transport failures become
// ErrUnavailable.
func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrUnavailable
		}
		return err
	}
	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	}

	msg := st.Message()
	if sentinel := common.FromMessage(msg); sentinel != nil {
		if detail := strings.TrimPrefix(msg, sentinel.Error()+": "); detail != msg {
			return fmt.Errorf("%w: %s", sentinel, detail)
		}
		return sentinel
	}
	return fmt.Errorf("rpc error: %w", err)
}

// --- helpers below ---

func (s *GRPCClient) acceptLogin(resp *api.LoginResponse) *models.LoginResult {
	if resp.AccessToken != "" {
		s.setToken(resp.AccessToken)
	}
	return &models.LoginResult{
		Username:          resp.Username,
		TwoFactorRequired: resp.TwoFactorRequired,
		PendingToken:      resp.PendingToken,
	}
}

func fromItem(it *api.Item) *models.Item {
	if it == nil {
		return nil
	}
	return &models.Item{
		ID:        it.ID,
		Title:     it.Title,
		Blob:      it.Blob,
		CreatedAt: asTime(it.CreatedAt),
		UpdatedAt: asTime(it.UpdatedAt),
	}
}

func asTime(ts *timestamppb.Timestamp) time.Time {
	if ts == nil {
		return time.Time{}
	}
	return ts.AsTime()
}

package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/notevault/internal/api"
	"github.com/dmitrijs2005/notevault/internal/logging"
	"github.com/dmitrijs2005/notevault/internal/server/auth"
	"github.com/dmitrijs2005/notevault/internal/server/auth/mfa"
	"github.com/dmitrijs2005/notevault/internal/server/auth/passkey"
	"github.com/dmitrijs2005/notevault/internal/server/models"
	"github.com/dmitrijs2005/notevault/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type userService interface {
	Register(ctx context.Context, email, username, password string) (*models.User, error)
	Login(ctx context.Context, identifier, password string) (*services.LoginResult, error)
	CompleteLogin(ctx context.Context, pendingToken, code string, useBackupCode bool) (*services.LoginResult, error)
	CompletePasskeyLogin(ctx context.Context, challengeToken string, a passkey.Assertion, pendingToken string) (*services.LoginResult, error)
	ChangePassword(ctx context.Context, userID, current, next string) error
	DeleteAccount(ctx context.Context, userID, password string) error
}

type twoFactorService interface {
	RequestEnrollment(ctx context.Context, userID string) (*mfa.Enrollment, error)
	ConfirmEnrollment(ctx context.Context, userID, secret, code string, backupCodes []string) error
	CheckFactor(ctx context.Context, userID, code string, useBackupCode bool) error
	ViewBackupCodes(ctx context.Context, userID, code string) ([]string, error)
	Disable(ctx context.Context, userID string) error
}

type passkeyService interface {
	Register(ctx context.Context, userID, credentialID string, publicKey []byte, algorithm int) error
	BeginAssertion(ctx context.Context) (*services.Challenge, error)
}

type itemService interface {
	Save(ctx context.Context, userID, title, blob string) (*models.Item, error)
	Update(ctx context.Context, userID, id, title, blob string) (*models.Item, error)
	Get(ctx context.Context, userID, id string) (*models.Item, error)
	List(ctx context.Context, userID string) ([]*models.Item, error)
	Delete(ctx context.Context, userID, id string) error
	Export(ctx context.Context, userID string) (*services.Export, error)
}

type activityService interface {
	List(ctx context.Context, userID string, limit int) ([]*models.Activity, error)
}

type sessionParser interface {
	ParseSession(token string) (*auth.Claims, error)
}

// Services groups the business services exposed over gRPC.
type Services struct {
	Users     userService
	TwoFactor twoFactorService
	Passkeys  passkeyService
	Items     itemService
	Activity  activityService
}

type GRPCServer struct {
	api.UnimplementedNoteVaultServer
	address   string
	users     userService
	twoFactor twoFactorService
	passkeys  passkeyService
	items     itemService
	activity  activityService
	sessions  sessionParser
	logger    logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, sessions sessionParser, svc Services) (*GRPCServer, error) {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		users:     svc.Users,
		twoFactor: svc.TwoFactor,
		passkeys:  svc.Passkeys,
		items:     svc.Items,
		activity:  svc.Activity,
		sessions:  sessions,
	}, nil
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	// creates gRPC-server
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.requestInterceptor, s.accessTokenInterceptor))

	// registers services
	api.RegisterNoteVaultServer(srv, s)

	hs := health.NewServer()
	hs.SetServingStatus(api.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		hs.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}

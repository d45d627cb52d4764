package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/notevault/internal/client/client"
	"github.com/dmitrijs2005/notevault/internal/client/config"
	"github.com/dmitrijs2005/notevault/internal/client/services"
	"github.com/dmitrijs2005/notevault/internal/common"
)

type App struct {
	config      *config.Config
	authService services.AuthService
	itemService services.ItemService
	userName    string
	reader      *bufio.Reader
	out         io.Writer
}

func NewApp(c *config.Config) (*App, error) {

	apiClient, err := client.NewGRPCClient(c.ServerEndpointAddr, c.RequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("client init error: %w", err)
	}

	return &App{
		config:      c,
		authService: services.NewAuthService(apiClient),
		itemService: services.NewItemService(apiClient),
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.authService.Close(ctx)

	if err := a.authService.Ping(ctx); err != nil {
		fmt.Fprintf(a.out, "Warning: %s\n", describe(err))
	}

	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.authService.LoggedIn()
}

func (a *App) getStatus() string {
	if !a.isLoggedIn() {
		return ""
	}
	return fmt.Sprintf("(%s)", a.userName)
}

// describe renders err for the user.
func describe(err error) string {
	switch {
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable, try again later"
	case errors.Is(err, common.ErrTokenExpired), errors.Is(err, common.ErrInvalidToken):
		return "session expired, please log in again"
	case errors.Is(err, common.ErrDecryptionFailed):
		return "wrong item password or damaged item"
	default:
		return err.Error()
	}
}

// sessionLost reports whether err means the server no longer accepts the
// held session.
func sessionLost(err error) bool {
	return errors.Is(err, common.ErrTokenExpired) ||
		errors.Is(err, common.ErrInvalidToken) ||
		errors.Is(err, common.ErrorUnauthorized)
}

func wipe(b []byte) {
	common.WipeByteArray(b)
}

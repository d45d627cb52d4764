package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/notevault/internal/common"
	"github.com/dmitrijs2005/notevault/internal/logging"
	"github.com/dmitrijs2005/notevault/internal/server/models"
	"github.com/dmitrijs2005/notevault/internal/server/repositories/repomanager"
)

const (
	DefaultActivityLimit = 20
	MaxActivityLimit     = 100
)

// ClientInfo describes the caller of the current request. It is attached to
// the context by the transport layer and copied into activity entries.
type ClientInfo struct {
	IP        string
	UserAgent string
}

type clientInfoKey struct{}

func WithClientInfo(ctx context.Context, ci ClientInfo) context.Context {
	return context.WithValue(ctx, clientInfoKey{}, ci)
}

func ClientInfoFrom(ctx context.Context) ClientInfo {
	ci, _ := ctx.Value(clientInfoKey{}).(ClientInfo)
	return ci
}

// ActivityService appends to and reads the per-user activity log.
// The log is informational: a failed write never fails the operation that
// produced it.
type ActivityService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewActivityService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *ActivityService {
	return &ActivityService{
		db:          db,
		repomanager: m,
		logger:      logger.With("module", "activity"),
	}
}

// Record writes one entry for userID. Errors are logged and swallowed.
func (s *ActivityService) Record(ctx context.Context, userID, action string) {
	ci := ClientInfoFrom(ctx)
	a := &models.Activity{
		UserID:    userID,
		Action:    action,
		IP:        ci.IP,
		UserAgent: ci.UserAgent,
	}
	if err := s.repomanager.Activity(s.db).Append(ctx, a); err != nil {
		s.logger.Warn(ctx, "activity not recorded", "action", action, "user_id", userID, "error", err)
	}
}

// List returns the most recent entries for userID, newest first. A limit
// outside (0, MaxActivityLimit] falls back to DefaultActivityLimit.
func (s *ActivityService) List(ctx context.Context, userID string, limit int) ([]*models.Activity, error) {
	if limit <= 0 || limit > MaxActivityLimit {
		limit = DefaultActivityLimit
	}
	list, err := s.repomanager.Activity(s.db).ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: list activity: %v", common.ErrorInternal, err)
	}
	return list, nil
}

package services

import (
	"context"
	"database/sql"
	"slices"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/notevault/internal/common"
	"github.com/dmitrijs2005/notevault/internal/dbx"
	"github.com/dmitrijs2005/notevault/internal/logging"
	"github.com/dmitrijs2005/notevault/internal/server/auth"
	"github.com/dmitrijs2005/notevault/internal/server/config"
	"github.com/dmitrijs2005/notevault/internal/server/models"
	"github.com/dmitrijs2005/notevault/internal/server/repositories/activity"
	"github.com/dmitrijs2005/notevault/internal/server/repositories/items"
	"github.com/dmitrijs2005/notevault/internal/server/repositories/passkeys"
	"github.com/dmitrijs2005/notevault/internal/server/repositories/users"
	"golang.org/x/crypto/bcrypt"
)

// --- helpers ---

type nopLogger struct{}

func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger          { return n }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                    "k",
		SessionValidityDuration:      time.Hour,
		PendingLoginValidityDuration: 5 * time.Minute,
		MinPasswordLength:            8,
		BcryptCost:                   bcrypt.MinCost,
		TOTPIssuer:                   "NoteVault",
		PasskeyRPID:                  "vault.test",
		PasskeyOrigin:                "https://vault.test",
		S3Region:                     "us-east-1",
		S3RootUser:                   "minioadmin",
		S3RootPassword:               "minioadmin",
		S3BaseEndpoint:               "http://127.0.0.1:9000",
		S3Bucket:                     "vault",
	}
}

// env wires every service over one in-memory store.
type env struct {
	db        *sql.DB
	mock      sqlmock.Sqlmock
	store     *memStore
	cfg       *config.Config
	tokens    *auth.TokenIssuer
	activity  *ActivityService
	twoFactor *TwoFactorService
	passkeys  *PasskeyService
	users     *UserService
	items     *ItemService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, mock := newSQLMockDB(t)
	store := newMemStore()
	rm := &fakeRepoManager{store: store}
	cfg := testConfig()

	e := &env{db: db, mock: mock, store: store, cfg: cfg}
	e.tokens = auth.NewTokenIssuer([]byte(cfg.SecretKey), cfg.SessionValidityDuration, cfg.PendingLoginValidityDuration)
	e.activity = NewActivityService(db, rm, nopLogger{})
	e.twoFactor = NewTwoFactorService(db, rm, cfg, e.activity)
	e.passkeys = NewPasskeyService(db, rm, cfg, e.tokens, e.activity, nopLogger{})
	e.users = NewUserService(db, rm, cfg, e.tokens, e.twoFactor, e.passkeys, e.activity)
	e.items = NewItemService(db, rm, cfg, e.activity)
	return e
}

// expectTx queues one committed transaction.
func (e *env) expectTx() {
	e.mock.ExpectBegin()
	e.mock.ExpectCommit()
}

// --- in-memory repositories ---

type memStore struct {
	mu       sync.Mutex
	users    map[string]models.User
	codes    map[string][]string
	items    map[string]models.Item
	passkeys map[string]models.Passkey
	used     map[string]bool
	activity []models.Activity
	seq      int64
	clock    time.Time

	activityErr error
	usersErr    error
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]models.User{},
		codes:    map[string][]string{},
		items:    map[string]models.Item{},
		passkeys: map[string]models.Passkey{},
		used:     map[string]bool{},
		clock:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) actions(userID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, a := range s.activity {
		if a.UserID == userID {
			out = append(out, a.Action)
		}
	}
	return out
}

type fakeRepoManager struct{ store *memStore }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository             { return memUsers{m.store} }
func (m *fakeRepoManager) Items(dbx.DBTX) items.Repository             { return memItems{m.store} }
func (m *fakeRepoManager) Passkeys(dbx.DBTX) passkeys.Repository       { return memPasskeys{m.store} }
func (m *fakeRepoManager) Activity(dbx.DBTX) activity.Repository       { return memActivity{m.store} }

type memUsers struct{ s *memStore }

func (r memUsers) Create(_ context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.usersErr != nil {
		return r.s.usersErr
	}
	for _, x := range r.s.users {
		if x.Email == u.Email || x.UserName == u.UserName {
			return common.ErrDuplicateIdentity
		}
	}
	u.CreatedAt = r.s.tick()
	r.s.users[u.ID] = *u
	return nil
}

func (r memUsers) Exists(_ context.Context, email, username string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.usersErr != nil {
		return false, r.s.usersErr
	}
	for _, x := range r.s.users {
		if x.Email == email || x.UserName == username || x.Email == username || x.UserName == email {
			return true, nil
		}
	}
	return false, nil
}

func (r memUsers) GetByIdentifier(_ context.Context, identifier string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.usersErr != nil {
		return nil, r.s.usersErr
	}
	for _, x := range r.s.users {
		if x.Email == identifier || x.UserName == identifier {
			u := x
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.usersErr != nil {
		return nil, r.s.usersErr
	}
	x, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &x, nil
}

func (r memUsers) update(id string, fn func(u *models.User)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.usersErr != nil {
		return r.s.usersErr
	}
	u, ok := r.s.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	fn(&u)
	r.s.users[id] = u
	return nil
}

func (r memUsers) UpdatePasswordHash(_ context.Context, id, hash string) error {
	return r.update(id, func(u *models.User) { u.PasswordHash = hash })
}

func (r memUsers) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	return r.update(id, func(u *models.User) { u.LastLogin = &at })
}

func (r memUsers) SetHasPasskey(_ context.Context, id string) error {
	return r.update(id, func(u *models.User) { u.HasPasskey = true })
}

func (r memUsers) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.users, id)
	delete(r.s.codes, id)
	for k, it := range r.s.items {
		if it.UserID == id {
			delete(r.s.items, k)
		}
	}
	for k, p := range r.s.passkeys {
		if p.UserID == id {
			delete(r.s.passkeys, k)
		}
	}
	r.s.activity = slices.DeleteFunc(r.s.activity, func(a models.Activity) bool { return a.UserID == id })
	return nil
}

func (r memUsers) EnableTwoFactor(_ context.Context, id, secret string, backupCodes []string) error {
	err := r.update(id, func(u *models.User) { u.TwoFactor = &models.TwoFactor{Secret: secret} })
	if err != nil {
		return err
	}
	r.s.mu.Lock()
	r.s.codes[id] = slices.Clone(backupCodes)
	r.s.mu.Unlock()
	return nil
}

func (r memUsers) DisableTwoFactor(_ context.Context, id string) error {
	err := r.update(id, func(u *models.User) { u.TwoFactor = nil })
	if err != nil {
		return err
	}
	r.s.mu.Lock()
	delete(r.s.codes, id)
	r.s.mu.Unlock()
	return nil
}

func (r memUsers) ListBackupCodes(_ context.Context, id string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]string{}, r.s.codes[id]...), nil
}

func (r memUsers) ConsumeBackupCode(_ context.Context, id, code string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.usersErr != nil {
		return false, r.s.usersErr
	}
	u, ok := r.s.users[id]
	if !ok || u.TwoFactor == nil {
		return false, nil
	}
	i := slices.Index(r.s.codes[id], code)
	if i < 0 {
		return false, nil
	}
	r.s.codes[id] = slices.Delete(r.s.codes[id], i, i+1)
	return true, nil
}

type memItems struct{ s *memStore }

func (r memItems) Create(_ context.Context, it *models.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it.CreatedAt = r.s.tick()
	it.UpdatedAt = it.CreatedAt
	r.s.items[it.ID] = *it
	return nil
}

func (r memItems) Update(_ context.Context, it *models.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	x, ok := r.s.items[it.ID]
	if !ok || x.UserID != it.UserID {
		return common.ErrorNotFound
	}
	it.CreatedAt = x.CreatedAt
	it.UpdatedAt = r.s.tick()
	r.s.items[it.ID] = *it
	return nil
}

func (r memItems) Get(_ context.Context, userID, id string) (*models.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	x, ok := r.s.items[id]
	if !ok || x.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return &x, nil
}

func (r memItems) ListByUser(_ context.Context, userID string) ([]*models.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.Item{}
	for _, x := range r.s.items {
		if x.UserID == userID {
			it := x
			out = append(out, &it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memItems) Delete(_ context.Context, userID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	x, ok := r.s.items[id]
	if !ok || x.UserID != userID {
		return common.ErrorNotFound
	}
	delete(r.s.items, id)
	return nil
}

type memPasskeys struct{ s *memStore }

func (r memPasskeys) Create(_ context.Context, p *models.Passkey) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.passkeys[p.CredentialID]; ok {
		return common.ErrDuplicateCredential
	}
	p.CreatedAt = r.s.tick()
	r.s.passkeys[p.CredentialID] = *p
	return nil
}

func (r memPasskeys) GetByCredentialID(_ context.Context, credentialID string) (*models.Passkey, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.passkeys[credentialID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &p, nil
}

func (r memPasskeys) AdvanceSignCount(_ context.Context, credentialID string, count uint32) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.passkeys[credentialID]
	if !ok {
		return false, nil
	}
	if p.SignCount < count || (p.SignCount == 0 && count == 0) {
		p.SignCount = count
		r.s.passkeys[credentialID] = p
		return true, nil
	}
	return false, nil
}

func (r memPasskeys) ConsumeChallenge(_ context.Context, challenge []byte, _ time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.used[string(challenge)] {
		return false, nil
	}
	r.s.used[string(challenge)] = true
	return true, nil
}

type memActivity struct{ s *memStore }

func (r memActivity) Append(_ context.Context, a *models.Activity) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.activityErr != nil {
		return r.s.activityErr
	}
	r.s.seq++
	a.ID = r.s.seq
	a.CreatedAt = r.s.tick()
	r.s.activity = append(r.s.activity, *a)
	return nil
}

func (r memActivity) ListRecent(_ context.Context, userID string, limit int) ([]*models.Activity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.Activity{}
	for i := len(r.s.activity) - 1; i >= 0 && len(out) < limit; i-- {
		if a := r.s.activity[i]; a.UserID == userID {
			out = append(out, &a)
		}
	}
	return out, nil
}

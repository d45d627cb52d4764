package services

import (
	"context"

	"github.com/dmitrijs2005/notevault/internal/client/client"
	"github.com/dmitrijs2005/notevault/internal/client/models"
	"github.com/dmitrijs2005/notevault/internal/common"
)

// fakeClient implements the calls the services make; anything else panics
// through the embedded nil interface.
type fakeClient struct {
	client.Client

	loggedIn bool

	regArgs   []string
	loginRes  *models.LoginResult
	loginArgs []string
	verify    struct {
		pending, code string
		backup        bool
	}
	disable struct {
		code   string
		backup bool
	}
	setup      *models.TwoFactorSetup
	enabled    *models.TwoFactorSetup
	enableCode string
	codes      []string
	activity   []*models.Activity
	gotLimit   int

	saved   map[string]*models.Item
	nextID  int
	export  *models.ExportLink
	err     error
	closed  bool
	deleted []string
}

func newFakeClient() *fakeClient {
	return &fakeClient{saved: map[string]*models.Item{}}
}

func (f *fakeClient) Register(_ context.Context, email, username, password string) error {
	f.regArgs = []string{email, username, password}
	return f.err
}
func (f *fakeClient) Login(_ context.Context, identifier, password string) (*models.LoginResult, error) {
	f.loginArgs = []string{identifier, password}
	if f.err != nil {
		return nil, f.err
	}
	if !f.loginRes.TwoFactorRequired {
		f.loggedIn = true
	}
	return f.loginRes, nil
}
func (f *fakeClient) VerifyLogin(_ context.Context, pending, code string, backup bool) (*models.LoginResult, error) {
	f.verify.pending, f.verify.code, f.verify.backup = pending, code, backup
	if f.err != nil {
		return nil, f.err
	}
	f.loggedIn = true
	return &models.LoginResult{}, nil
}
func (f *fakeClient) Logout()        { f.loggedIn = false }
func (f *fakeClient) LoggedIn() bool { return f.loggedIn }
func (f *fakeClient) Close() error   { f.closed = true; return nil }
func (f *fakeClient) Ping(context.Context) error {
	return f.err
}
func (f *fakeClient) ChangePassword(_ context.Context, current, next string) error {
	return f.err
}
func (f *fakeClient) DeleteAccount(_ context.Context, password string) error {
	if f.err == nil {
		f.loggedIn = false
	}
	return f.err
}
func (f *fakeClient) SetupTwoFactor(context.Context) (*models.TwoFactorSetup, error) {
	return f.setup, f.err
}
func (f *fakeClient) EnableTwoFactor(_ context.Context, setup *models.TwoFactorSetup, code string) error {
	f.enabled, f.enableCode = setup, code
	return f.err
}
func (f *fakeClient) DisableTwoFactor(_ context.Context, code string, backup bool) error {
	f.disable.code, f.disable.backup = code, backup
	return f.err
}
func (f *fakeClient) ViewBackupCodes(_ context.Context, code string) ([]string, error) {
	return f.codes, f.err
}
func (f *fakeClient) ListActivity(_ context.Context, limit int) ([]*models.Activity, error) {
	f.gotLimit = limit
	return f.activity, f.err
}

func (f *fakeClient) SaveItem(_ context.Context, title, blob string) (*models.Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	it := &models.Item{ID: string(rune('a' + f.nextID - 1)), Title: title, Blob: blob}
	f.saved[it.ID] = it
	return it, nil
}
func (f *fakeClient) UpdateItem(_ context.Context, id, title, blob string) (*models.Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	it := &models.Item{ID: id, Title: title, Blob: blob}
	f.saved[id] = it
	return it, nil
}
func (f *fakeClient) GetItem(_ context.Context, id string) (*models.Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	it, ok := f.saved[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return it, nil
}
func (f *fakeClient) ListItems(context.Context) ([]*models.Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*models.Item, 0, len(f.saved))
	for _, it := range f.saved {
		out = append(out, &models.Item{ID: it.ID, Title: it.Title})
	}
	return out, nil
}
func (f *fakeClient) DeleteItem(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.err
}
func (f *fakeClient) ExportItems(context.Context) (*models.ExportLink, error) {
	return f.export, f.err
}

package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/dmitrijs2005/notevault/internal/client/config"
	"github.com/dmitrijs2005/notevault/internal/client/models"
	"github.com/dmitrijs2005/notevault/internal/client/services"
)

// ------------ input stubs ------------

// stubTexts makes getSimpleText return answers in order.
func stubTexts(t *testing.T, answers ...string) func() {
	t.Helper()
	orig := getSimpleText
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if len(answers) == 0 {
			t.Fatalf("unexpected text prompt")
		}
		a := answers[0]
		answers = answers[1:]
		return a, nil
	}
	return func() { getSimpleText = orig }
}

// stubPasswords makes getPassword return secrets in order.
func stubPasswords(t *testing.T, secrets ...string) func() {
	t.Helper()
	orig := getPassword
	getPassword = func(_ io.Writer, _ string) ([]byte, error) {
		if len(secrets) == 0 {
			t.Fatalf("unexpected password prompt")
		}
		s := secrets[0]
		secrets = secrets[1:]
		return []byte(s), nil
	}
	return func() { getPassword = orig }
}

func stubMultiline(t *testing.T, answers ...string) func() {
	t.Helper()
	orig := getMultiline
	getMultiline = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		a := answers[0]
		answers = answers[1:]
		return a, nil
	}
	return func() { getMultiline = orig }
}

func newTestApp(as services.AuthService, is services.ItemService) (*App, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &App{
		config:      &config.Config{ExportDir: "exports"},
		authService: as,
		itemService: is,
		out:         out,
	}, out
}

// ------------ fake services ------------

type fakeAuth struct {
	services.AuthService

	loggedIn bool

	regArgs  []string
	loginRes *models.LoginResult
	loginErr error
	pending  string
	code     string
	passwd   []string
	delPass  string
	setup    *models.TwoFactorSetup
	confirm  string
	codes    []string
	activity []*models.Activity
	err      error
}

func (f *fakeAuth) Register(_ context.Context, email, username string, password []byte) error {
	f.regArgs = []string{email, username, string(password)}
	return f.err
}
func (f *fakeAuth) Login(_ context.Context, identifier string, password []byte) (*models.LoginResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	if !f.loginRes.TwoFactorRequired {
		f.loggedIn = true
	}
	return f.loginRes, nil
}
func (f *fakeAuth) CompleteLogin(_ context.Context, pending, code string) (*models.LoginResult, error) {
	f.pending, f.code = pending, code
	if f.err != nil {
		return nil, f.err
	}
	f.loggedIn = true
	return &models.LoginResult{}, nil
}
func (f *fakeAuth) Logout(context.Context) { f.loggedIn = false }
func (f *fakeAuth) LoggedIn() bool         { return f.loggedIn }
func (f *fakeAuth) ChangePassword(_ context.Context, current, next []byte) error {
	f.passwd = []string{string(current), string(next)}
	return f.err
}
func (f *fakeAuth) DeleteAccount(_ context.Context, password []byte) error {
	f.delPass = string(password)
	return f.err
}
func (f *fakeAuth) SetupTwoFactor(context.Context) (*models.TwoFactorSetup, error) {
	return f.setup, f.err
}
func (f *fakeAuth) ConfirmTwoFactor(_ context.Context, _ *models.TwoFactorSetup, code string) error {
	f.confirm = code
	return f.err
}
func (f *fakeAuth) DisableTwoFactor(_ context.Context, code string) error {
	f.code = code
	return f.err
}
func (f *fakeAuth) BackupCodes(_ context.Context, code string) ([]string, error) {
	f.code = code
	return f.codes, f.err
}
func (f *fakeAuth) Activity(_ context.Context, limit int) ([]*models.Activity, error) {
	return f.activity, f.err
}

type fakeItems struct {
	services.ItemService

	saved    []string
	password string
	item     *models.Item
	note     *models.Note
	list     []*models.Item
	deleted  string
	export   *models.ExportLink
	path     string
	dir      string
	err      error
}

func (f *fakeItems) Save(_ context.Context, title string, note models.Note, pw []byte) (*models.Item, error) {
	f.saved = []string{title, note.Text}
	f.password = string(pw)
	return &models.Item{ID: "id-1", Title: title}, f.err
}
func (f *fakeItems) Edit(_ context.Context, id, title string, note models.Note, pw []byte) (*models.Item, error) {
	f.saved = []string{id, title, note.Text}
	f.password = string(pw)
	return &models.Item{ID: id, Title: title}, f.err
}
func (f *fakeItems) List(context.Context) ([]*models.Item, error) { return f.list, f.err }
func (f *fakeItems) Open(_ context.Context, id string, pw []byte) (*models.Item, *models.Note, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.item, f.note, nil
}
func (f *fakeItems) Delete(_ context.Context, id string) error {
	f.deleted = id
	return f.err
}
func (f *fakeItems) Export(_ context.Context, dir string) (string, *models.ExportLink, error) {
	f.dir = dir
	return f.path, f.export, f.err
}

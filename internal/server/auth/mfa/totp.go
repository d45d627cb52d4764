// Package mfa implements the time-based one-time code factor (RFC 6238) and
// its single-use backup codes.
package mfa

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/notevault/internal/common"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	// Period is the TOTP time step.
	Period = 30
	// Skew is how many steps before and after the current one are accepted.
	Skew = 2

	BackupCodeCount  = 8
	BackupCodeLength = 8

	backupCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	secretSize         = 20
)

// Enrollment is a freshly provisioned, not yet confirmed second factor.
type Enrollment struct {
	Secret      string
	URL         string
	BackupCodes []string
}

// Authenticator generates and checks TOTP codes.
type Authenticator struct {
	issuer string
	now    func() time.Time
}

func NewAuthenticator(issuer string) *Authenticator {
	return &Authenticator{issuer: issuer, now: time.Now}
}

// WithClock returns a copy of a that reads time from now.
func (a *Authenticator) WithClock(now func() time.Time) *Authenticator {
	return &Authenticator{issuer: a.issuer, now: now}
}

// NewEnrollment provisions a secret and a set of backup codes for account.
// Nothing is stored; the caller keeps the values until the user confirms.
func (a *Authenticator) NewEnrollment(account string) (*Enrollment, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      a.issuer,
		AccountName: account,
		Period:      Period,
		SecretSize:  secretSize,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return nil, fmt.Errorf("generate totp key: %w", err)
	}

	codes, err := GenerateBackupCodes(BackupCodeCount)
	if err != nil {
		return nil, fmt.Errorf("generate backup codes: %w", err)
	}

	return &Enrollment{Secret: key.Secret(), URL: key.URL(), BackupCodes: codes}, nil
}

// Validate reports whether code is valid for secret within ±Skew steps of now.
func (a *Authenticator) Validate(code, secret string) bool {
	code = strings.TrimSpace(code)
	if code == "" || secret == "" {
		return false
	}
	ok, err := totp.ValidateCustom(code, secret, a.now().UTC(), validateOpts())
	return err == nil && ok
}

// Code returns the code for secret at t. Used by clients and tests.
func Code(secret string, t time.Time) (string, error) {
	return totp.GenerateCodeCustom(secret, t, validateOpts())
}

// GenerateBackupCodes returns n random uppercase alphanumeric codes.
func GenerateBackupCodes(n int) ([]string, error) {
	codes := make([]string, 0, n)
	seen := make(map[string]struct{}, n)
	for len(codes) < n {
		c, err := common.RandString(BackupCodeLength, backupCodeAlphabet)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		codes = append(codes, c)
	}
	return codes, nil
}

// NormalizeBackupCode makes user input comparable with stored codes.
func NormalizeBackupCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	return strings.ReplaceAll(code, "-", "")
}

// ValidBackupCodeSet reports whether codes look like a set produced by
// GenerateBackupCodes.
func ValidBackupCodeSet(codes []string) bool {
	if len(codes) != BackupCodeCount {
		return false
	}
	seen := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		if len(c) != BackupCodeLength || strings.Trim(c, backupCodeAlphabet) != "" {
			return false
		}
		if _, dup := seen[c]; dup {
			return false
		}
		seen[c] = struct{}{}
	}
	return true
}

func validateOpts() totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    Period,
		Skew:      Skew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	}
}

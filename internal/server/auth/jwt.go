// Package auth contains the server's credential primitives: bcrypt password
// hashing and the signed JWTs that carry sessions, pending second-factor
// logins and passkey challenges.
package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/notevault/internal/common"
	"github.com/dmitrijs2005/notevault/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token purposes. A token is only accepted where its purpose matches.
const (
	PurposeSession   = "session"
	PurposePending   = "mfa_pending"
	PurposeChallenge = "passkey_challenge"
)

// DefaultChallengeValidity bounds how long a passkey challenge can be answered.
const DefaultChallengeValidity = 2 * time.Minute

// Claims holds the standard registered claims plus the NoteVault identity fields.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"uid,omitempty"`
	Email     string `json:"email,omitempty"`
	Username  string `json:"username,omitempty"`
	Purpose   string `json:"purpose"`
	Challenge string `json:"challenge,omitempty"`
}

// TokenIssuer mints and verifies HS256 tokens. Verification is stateless.
type TokenIssuer struct {
	secret            []byte
	sessionValidity   time.Duration
	pendingValidity   time.Duration
	challengeValidity time.Duration
	now               func() time.Time
}

func NewTokenIssuer(secret []byte, sessionValidity, pendingValidity time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:            secret,
		sessionValidity:   sessionValidity,
		pendingValidity:   pendingValidity,
		challengeValidity: DefaultChallengeValidity,
		now:               time.Now,
	}
}

// IssueSession mints the bearer token handed out after a completed login.
func (i *TokenIssuer) IssueSession(u *models.User) (string, error) {
	return i.sign(Claims{
		UserID:   u.ID,
		Email:    u.Email,
		Username: u.UserName,
		Purpose:  PurposeSession,
	}, i.sessionValidity)
}

// ParseSession verifies a session token and returns its claims.
func (i *TokenIssuer) ParseSession(token string) (*Claims, error) {
	return i.parse(token, PurposeSession)
}

// IssuePending mints the token that represents a login waiting for its
// second factor. It cannot be used as a session.
func (i *TokenIssuer) IssuePending(userID string) (string, error) {
	return i.sign(Claims{UserID: userID, Purpose: PurposePending}, i.pendingValidity)
}

func (i *TokenIssuer) ParsePending(token string) (string, error) {
	c, err := i.parse(token, PurposePending)
	if err != nil {
		return "", err
	}
	return c.UserID, nil
}

// IssueChallenge binds a passkey challenge to a short-lived token so the
// server does not have to remember outstanding challenges.
func (i *TokenIssuer) IssueChallenge(challenge []byte) (string, error) {
	return i.sign(Claims{
		Purpose:   PurposeChallenge,
		Challenge: base64.RawURLEncoding.EncodeToString(challenge),
	}, i.challengeValidity)
}

func (i *TokenIssuer) ParseChallenge(token string) ([]byte, error) {
	c, err := i.parse(token, PurposeChallenge)
	if err != nil {
		return nil, err
	}
	challenge, err := base64.RawURLEncoding.DecodeString(c.Challenge)
	if err != nil || len(challenge) == 0 {
		return nil, common.ErrInvalidToken
	}
	return challenge, nil
}

// --- helpers below ---

func (i *TokenIssuer) sign(c Claims, validity time.Duration) (string, error) {
	now := i.now()
	c.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	s, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

func (i *TokenIssuer) parse(tokenString string, purpose string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.Purpose != purpose {
		return nil, common.ErrInvalidToken
	}
	if purpose != PurposeChallenge && claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

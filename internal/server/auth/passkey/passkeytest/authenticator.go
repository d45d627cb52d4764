// Package passkeytest provides a software authenticator for tests.
package passkeytest

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"testing"

	"github.com/dmitrijs2005/notevault/internal/server/auth/passkey"
)

// flagUserPresent is the UP bit of the authenticator data flags.
const flagUserPresent = 0x01

// ClientData is the clientDataJSON an authenticator signs over.
type ClientData struct {
	Type      string `json:"type"`
	Challenge string `json:"challenge"`
	Origin    string `json:"origin"`
}

// Authenticator signs assertions the way a platform authenticator would.
type Authenticator struct {
	CredentialID string
	Alg          int
	RPID         string
	Origin       string
	// Count is reported, then incremented, by every Assert call.
	Count uint32
	// FixedCount keeps Count constant, like authenticators without counters.
	FixedCount bool

	signer crypto.Signer
}

// New creates an authenticator with a fresh key for alg.
func New(t testing.TB, credentialID string, alg int, rpID, origin string) *Authenticator {
	t.Helper()

	var (
		signer crypto.Signer
		err    error
	)
	switch alg {
	case passkey.AlgES256:
		signer, err = ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	case passkey.AlgEdDSA:
		_, signer, err = ed25519.GenerateKey(rand.Reader)
	case passkey.AlgRS256:
		signer, err = rsa.GenerateKey(rand.Reader, 2048)
	default:
		t.Fatalf("unsupported alg %d", alg)
	}
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	return &Authenticator{
		CredentialID: credentialID,
		Alg:          alg,
		RPID:         rpID,
		Origin:       origin,
		Count:        1,
		signer:       signer,
	}
}

// PublicKeyDER returns the SubjectPublicKeyInfo to register.
func (a *Authenticator) PublicKeyDER(t testing.TB) []byte {
	t.Helper()
	der, err := x509.MarshalPKIXPublicKey(a.signer.Public())
	if err != nil {
		t.Fatalf("marshal public key: %v", err)
	}
	return der
}

// Assert answers challenge.
func (a *Authenticator) Assert(t testing.TB, challenge []byte) passkey.Assertion {
	t.Helper()
	return a.AssertWith(t, challenge, ClientData{
		Type:      passkey.ClientDataTypeGet,
		Challenge: base64.RawURLEncoding.EncodeToString(challenge),
		Origin:    a.Origin,
	})
}

// AssertWith signs arbitrary client data, for negative tests.
func (a *Authenticator) AssertWith(t testing.TB, _ []byte, cd ClientData) passkey.Assertion {
	t.Helper()

	clientData, err := json.Marshal(cd)
	if err != nil {
		t.Fatalf("marshal client data: %v", err)
	}
	authData := AuthenticatorData(a.RPID, a.Count)
	if !a.FixedCount {
		a.Count++
	}

	msg := SignedData(authData, clientData)

	var sig []byte
	if a.Alg == passkey.AlgEdDSA {
		sig, err = a.signer.Sign(rand.Reader, msg, crypto.Hash(0))
	} else {
		digest := sha256.Sum256(msg)
		sig, err = a.signer.Sign(rand.Reader, digest[:], crypto.SHA256)
	}
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	return passkey.Assertion{
		CredentialID:      a.CredentialID,
		ClientDataJSON:    clientData,
		AuthenticatorData: authData,
		Signature:         sig,
	}
}

// SignedData is the message an authenticator signs:
// authenticatorData || SHA-256(clientDataJSON).
func SignedData(authData, clientDataJSON []byte) []byte {
	h := sha256.Sum256(clientDataJSON)
	out := make([]byte, 0, len(authData)+len(h))
	out = append(out, authData...)
	return append(out, h[:]...)
}

// AuthenticatorData builds the minimal authenticator data for rpID with the
// user-present flag and the given counter.
func AuthenticatorData(rpID string, signCount uint32) []byte {
	h := sha256.Sum256([]byte(rpID))
	out := make([]byte, len(h)+1+4)
	copy(out, h[:])
	out[len(h)] = flagUserPresent
	binary.BigEndian.PutUint32(out[len(h)+1:], signCount)
	return out
}

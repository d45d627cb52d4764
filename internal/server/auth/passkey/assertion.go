// Package passkey verifies WebAuthn assertions produced by a platform
// authenticator against a stored public key.
//
// Keys are registered as DER SubjectPublicKeyInfo and converted to COSE_Key
// form when an assertion is checked. Client data, authenticator data and the
// signature are verified by go-webauthn.
package passkey

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"
	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/protocol/webauthncose"
)

// COSE algorithm identifiers accepted for registration.
const (
	AlgES256 = int(webauthncose.AlgES256)
	AlgEdDSA = int(webauthncose.AlgEdDSA)
	AlgRS256 = int(webauthncose.AlgRS256)
)

// ClientDataTypeGet is the clientDataJSON type of an assertion ceremony.
const ClientDataTypeGet = string(protocol.AssertCeremony)

// COSE_Key map labels, RFC 9053.
const (
	coseKty = 1
	coseAlg = 3
	coseCrv = -1
	coseX   = -2
	coseY   = -3
	coseN   = -1
	coseE   = -2

	crvP256    = 1
	crvEd25519 = 6
)

// ErrAssertion is returned for every rejected assertion.
var ErrAssertion = errors.New("invalid passkey assertion")

// Assertion is what the authenticator returns for a challenge.
type Assertion struct {
	CredentialID      string
	ClientDataJSON    []byte
	AuthenticatorData []byte
	Signature         []byte
}

// Verifier checks assertions for one relying party.
type Verifier struct {
	RPID   string
	Origin string
}

// COSEKey decodes a DER SubjectPublicKeyInfo, checks that it fits the
// declared COSE algorithm and returns it as a COSE_Key.
func COSEKey(der []byte, alg int) ([]byte, error) {
	pub, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}

	var key map[int]any
	switch alg {
	case AlgES256:
		k, ok := pub.(*ecdsa.PublicKey)
		if !ok || k.Curve != elliptic.P256() {
			return nil, errors.New("ES256 requires a P-256 key")
		}
		key = map[int]any{
			coseKty: int64(webauthncose.EllipticKey),
			coseAlg: int64(alg),
			coseCrv: crvP256,
			coseX:   k.X.FillBytes(make([]byte, 32)),
			coseY:   k.Y.FillBytes(make([]byte, 32)),
		}
	case AlgEdDSA:
		k, ok := pub.(ed25519.PublicKey)
		if !ok {
			return nil, errors.New("EdDSA requires an Ed25519 key")
		}
		key = map[int]any{
			coseKty: int64(webauthncose.OctetKey),
			coseAlg: int64(alg),
			coseCrv: crvEd25519,
			coseX:   []byte(k),
		}
	case AlgRS256:
		k, ok := pub.(*rsa.PublicKey)
		if !ok || k.N.BitLen() < 2048 {
			return nil, errors.New("RS256 requires an RSA key of at least 2048 bits")
		}
		// webauthncose reads the exponent as exactly three bytes
		if k.E <= 0 || k.E > 0xffffff {
			return nil, errors.New("unsupported RSA exponent")
		}
		key = map[int]any{
			coseKty: int64(webauthncose.RSAKey),
			coseAlg: int64(alg),
			coseN:   k.N.Bytes(),
			coseE:   big.NewInt(int64(k.E)).FillBytes(make([]byte, 3)),
		}
	default:
		return nil, fmt.Errorf("unsupported algorithm %d", alg)
	}

	return cbor.Marshal(key)
}

// Verify checks a against the expected challenge and the stored key and
// returns the signature counter reported by the authenticator. Counter
// monotonicity is left to the caller, which owns the stored value.
func (v Verifier) Verify(a Assertion, challenge []byte, publicKey []byte, alg int) (uint32, error) {
	key, err := COSEKey(publicKey, alg)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrAssertion, err)
	}

	parsed, err := parseAssertion(a)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrAssertion, err)
	}

	err = parsed.Verify(
		base64.RawURLEncoding.EncodeToString(challenge),
		v.RPID,
		[]string{v.Origin},
		nil,
		protocol.TopOriginIgnoreVerificationMode,
		"",
		false,
		key,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrAssertion, describe(err))
	}

	return parsed.Response.AuthenticatorData.Counter, nil
}

// --- helpers below ---

type assertionBody struct {
	ID       string            `json:"id"`
	RawID    string            `json:"rawId"`
	Type     string            `json:"type"`
	Response assertionResponse `json:"response"`
}

type assertionResponse struct {
	ClientDataJSON    string `json:"clientDataJSON"`
	AuthenticatorData string `json:"authenticatorData"`
	Signature         string `json:"signature"`
}

// parseAssertion feeds a through the same decoder a browser response takes.
func parseAssertion(a Assertion) (*protocol.ParsedCredentialAssertionData, error) {
	enc := base64.RawURLEncoding.EncodeToString
	id := enc([]byte(a.CredentialID))

	body, err := json.Marshal(assertionBody{
		ID:    id,
		RawID: id,
		Type:  "public-key",
		Response: assertionResponse{
			ClientDataJSON:    enc(a.ClientDataJSON),
			AuthenticatorData: enc(a.AuthenticatorData),
			Signature:         enc(a.Signature),
		},
	})
	if err != nil {
		return nil, err
	}

	parsed, err := protocol.ParseCredentialRequestResponseBody(bytes.NewReader(body))
	if err != nil {
		return nil, describe(err)
	}
	return parsed, nil
}

// describe keeps the protocol error details, which Error() omits.
func describe(err error) error {
	var perr *protocol.Error
	if errors.As(err, &perr) && perr.DevInfo != "" {
		return fmt.Errorf("%s: %s", perr.Details, perr.DevInfo)
	}
	return err
}

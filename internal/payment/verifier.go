// Package payment validates gateway payment confirmations.
package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// Mode is the verifier's configured security posture. There is no implicit
// fallback: running without a secret must be requested explicitly and is
// logged loudly at startup.
type Mode string

const (
	// ModeEnforcing checks every confirmation signature against the shared
	// gateway secret.
	ModeEnforcing Mode = "enforcing"

	// ModeInsecureDemo accepts every confirmation without verification.
	// Only for demo deployments with no gateway secret provisioned.
	ModeInsecureDemo Mode = "insecure-demo"
)

var (
	// ErrNoSecret is returned when an enforcing verifier is constructed
	// without a shared secret.
	ErrNoSecret = errors.New("payment verifier: gateway secret is required unless insecure demo mode is enabled")

	// ErrSecretInDemoMode is returned when a secret is configured but demo
	// mode is also requested; the combination is almost certainly a
	// deployment mistake.
	ErrSecretInDemoMode = errors.New("payment verifier: insecure demo mode enabled but a gateway secret is configured")
)

// Verifier checks a gateway confirmation triple (orderID, paymentID,
// signature) against the deployment-wide shared secret. It is pure: no
// storage access, no side effects.
type Verifier struct {
	mode   Mode
	secret []byte
}

// NewVerifier builds a verifier. Exactly one of secret / insecureDemo must
// be provided.
func NewVerifier(secret string, insecureDemo bool) (*Verifier, error) {
	if insecureDemo {
		if secret != "" {
			return nil, ErrSecretInDemoMode
		}
		return &Verifier{mode: ModeInsecureDemo}, nil
	}
	if secret == "" {
		return nil, ErrNoSecret
	}
	return &Verifier{mode: ModeEnforcing, secret: []byte(secret)}, nil
}

// Mode reports the configured posture so callers can log it.
func (v *Verifier) Mode() Mode {
	return v.mode
}

// Verify reports whether the supplied signature matches the locally computed
// HMAC over "orderID|paymentID". The comparison is constant-time.
func (v *Verifier) Verify(orderID, paymentID, signature string) bool {
	if v.mode == ModeInsecureDemo {
		return true
	}
	expected := ComputeSignature(v.secret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ComputeSignature returns the hex-encoded HMAC-SHA256 of "orderID|paymentID"
// under the given secret. This mirrors what the payment gateway sends in its
// confirmation callback.
func ComputeSignature(secret []byte, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

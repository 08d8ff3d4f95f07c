package http

import (
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
)

// SignatureVerifier validates that a payload genuinely originated from
// Stripe. Each webhook endpoint has its own signing secret, so verifiers are
// constructed per endpoint rather than reading a process-wide secret.
type SignatureVerifier struct {
	secret string
}

func NewSignatureVerifier(secret string) *SignatureVerifier {
	return &SignatureVerifier{secret: secret}
}

// Verify checks the signature header against the exact raw body bytes and
// returns the decoded event. The API version pin is Stripe's, not ours, so
// mismatches are tolerated.
func (v *SignatureVerifier) Verify(payload []byte, sigHeader string) (stripe.Event, error) {
	return webhook.ConstructEventWithOptions(
		payload,
		sigHeader,
		v.secret,
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		},
	)
}

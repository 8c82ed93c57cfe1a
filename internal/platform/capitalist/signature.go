// Package capitalist implements the Capitalist merchant gateway protocol:
// signed payment requests, callback verification and status mapping.
package capitalist

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"sort"
	"strings"
)

// Field names covered by the outbound (payment request) signature.
const (
	SignFieldAmount      = "amount"
	SignFieldCurrency    = "currency"
	SignFieldDescription = "description"
	SignFieldMerchantID  = "merchantid"
	SignFieldNumber      = "number"
)

// Callback field names. The first five are covered by the webhook signature.
const (
	WebhookFieldCurrency        = "c"
	WebhookFieldOperationID     = "o"
	WebhookFieldMerchantAddress = "oa"
	WebhookFieldAmount          = "s"
	WebhookFieldStatus          = "st"
	WebhookFieldPaymentID       = "pid"
	WebhookFieldSign            = "sign"
)

var (
	OutboundSignFields = []string{SignFieldAmount, SignFieldCurrency, SignFieldDescription, SignFieldMerchantID, SignFieldNumber}
	WebhookSignFields  = []string{WebhookFieldCurrency, WebhookFieldOperationID, WebhookFieldMerchantAddress, WebhookFieldAmount, WebhookFieldStatus}
)

var ErrEmptySecret = errors.New("capitalist: empty secret key")

// Sign computes the gateway signature: the values of the required fields,
// ordered by field name and concatenated without separator, HMAC-MD5'd with
// secret and hex encoded. Absent fields contribute an empty string.
func Sign(fields map[string]string, required []string, secret string) string {
	names := append([]string(nil), required...)
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		// missing -> "" matches the gateway's own behaviour
		sb.WriteString(fields[name])
	}

	mac := hmac.New(md5.New, []byte(secret))
	mac.Write([]byte(sb.String()))
	return hex.EncodeToString(mac.Sum(nil))
}

// Signer holds the merchant secret. It must only be constructed in server code.
type Signer struct {
	secret string
}

func NewSigner(secret string) (*Signer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &Signer{secret: secret}, nil
}

func (s *Signer) SignPayment(fields map[string]string) string {
	return Sign(fields, OutboundSignFields, s.secret)
}

func (s *Signer) SignWebhook(fields map[string]string) string {
	return Sign(fields, WebhookSignFields, s.secret)
}

// VerifyWebhook recomputes the callback signature with the local secret and
// compares it byte for byte with received.
func (s *Signer) VerifyWebhook(fields map[string]string, received string) bool {
	expected := s.SignWebhook(fields)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(received)) == 1
}

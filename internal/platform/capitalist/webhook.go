package capitalist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/digideal/paygate/pkg/types"
)

var ErrInvalidPayload = errors.New("invalid webhook payload")

// Gateway status codes.
const (
	StatusFail    = "0"
	StatusSuccess = "1"
	StatusPending = "2"
)

// maxWebhookBody caps a JSON callback body.
const maxWebhookBody = 64 << 10

// WebhookPayload is an inbound callback. It is untrusted until verified.
type WebhookPayload struct {
	OperationID     string `json:"o"`
	MerchantAddress string `json:"oa"`
	Currency        string `json:"c"`
	Amount          string `json:"s"`
	Status          string `json:"st"`
	PaymentID       string `json:"pid"`
	Sign            string `json:"sign"`

	// Raw holds every received field; the signature is computed over it.
	Raw map[string]string `json:"-"`
}

func NewWebhookPayload(raw map[string]string) *WebhookPayload {
	return &WebhookPayload{
		OperationID:     raw[WebhookFieldOperationID],
		MerchantAddress: raw[WebhookFieldMerchantAddress],
		Currency:        raw[WebhookFieldCurrency],
		Amount:          raw[WebhookFieldAmount],
		Status:          raw[WebhookFieldStatus],
		PaymentID:       raw[WebhookFieldPaymentID],
		Sign:            raw[WebhookFieldSign],
		Raw:             raw,
	}
}

// ParseWebhookRequest reads the callback fields from a form body, a JSON body,
// or, for any other content type, the query string.
func ParseWebhookRequest(r *http.Request) (map[string]string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		out := make(map[string]string, len(r.PostForm))
		for k := range r.PostForm {
			out[k] = r.PostForm.Get(k)
		}
		return out, nil
	case "application/json":
		body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		return ParseWebhookJSON(body)
	default:
		q := r.URL.Query()
		out := make(map[string]string, len(q))
		for k := range q {
			out[k] = q.Get(k)
		}
		return out, nil
	}
}

// ParseWebhookJSON flattens a JSON object into string fields. Numbers keep
// their literal text, booleans become "true"/"false", null is dropped and
// nested values are kept as JSON text.
func ParseWebhookJSON(body []byte) (map[string]string, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	out := make(map[string]string, len(obj))
	for k, raw := range obj {
		var v any
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("%w: field %s: %v", ErrInvalidPayload, k, err)
		}
		switch t := v.(type) {
		case nil:
			continue
		case string:
			out[k] = t
		case json.Number:
			out[k] = t.String()
		case bool:
			out[k] = strconv.FormatBool(t)
		default:
			// objects and arrays are kept as compact JSON text for the audit log;
			// a signed field holding one simply fails verification
			var buf bytes.Buffer
			if err := json.Compact(&buf, raw); err != nil {
				return nil, fmt.Errorf("%w: field %s: %v", ErrInvalidPayload, k, err)
			}
			out[k] = buf.String()
		}
	}
	return out, nil
}

// MapStatus translates a gateway status code to the payment and order status
// pair. Unknown codes are treated as pending so protocol additions do not fail.
func MapStatus(code string) (types.PaymentStatus, types.OrderStatus) {
	switch code {
	case StatusSuccess:
		return types.PaymentStatusPaid, types.OrderStatusProcessing
	case StatusFail:
		return types.PaymentStatusFailed, types.OrderStatusCancelled
	default:
		return types.PaymentStatusPending, types.OrderStatusPending
	}
}

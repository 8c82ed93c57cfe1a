package capitalist

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/digideal/paygate/pkg/types"
)

var ErrInvalidIntent = errors.New("invalid payment intent")

const (
	LangRU = "ru"
	LangEN = "en"
)

// Form field names posted to the gateway.
const (
	FormFieldMerchantID     = "merchantid"
	FormFieldNumber         = "number"
	FormFieldCurrency       = "currency"
	FormFieldAmount         = "amount"
	FormFieldDescription    = "description"
	FormFieldSuccessURL     = "success_url"
	FormFieldFailURL        = "fail_url"
	FormFieldStatusURL      = "status_url"
	FormFieldInteractionURL = "interaction_url"
	FormFieldLang           = "lang"
	FormFieldEmail          = "email"
	FormFieldSign           = "sign"
)

// PaymentIntent is what checkout asks the gateway to charge.
type PaymentIntent struct {
	OperationID string
	Amount      decimal.Decimal
	Currency    types.Currency
	Description string
	Email       string
	Lang        string
}

type FormField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// PaymentRequest is the signed payload the browser submits to the gateway.
type PaymentRequest struct {
	Action         string      `json:"action"`
	OperationID    string      `json:"operation_id"`
	MerchantID     string      `json:"merchant_id"`
	Currency       string      `json:"currency"`
	Amount         string      `json:"amount"`
	Description    string      `json:"description"`
	Email          string      `json:"email,omitempty"`
	SuccessURL     string      `json:"success_url"`
	FailURL        string      `json:"fail_url"`
	StatusURL      string      `json:"status_url"`
	InteractionURL string      `json:"interaction_url"`
	Lang           string      `json:"lang"`
	Sign           string      `json:"sign"`
	Fields         []FormField `json:"fields"`
}

// Values returns the form fields as url.Values.
func (r *PaymentRequest) Values() url.Values {
	v := url.Values{}
	for _, f := range r.Fields {
		v.Set(f.Name, f.Value)
	}
	return v
}

// FormatAmount renders amount the way it is both transmitted and signed.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

type BuilderOptions struct {
	MerchantAddress string
	PayURL          string
	SiteURL         string
	InteractionURL  string
	DefaultLang     string
}

// Builder assembles signed payment requests.
type Builder struct {
	opts   BuilderOptions
	signer *Signer
}

func NewBuilder(opts BuilderOptions, signer *Signer) (*Builder, error) {
	if opts.MerchantAddress == "" {
		return nil, errors.New("capitalist: empty merchant address")
	}
	if opts.PayURL == "" || opts.SiteURL == "" || opts.InteractionURL == "" {
		return nil, errors.New("capitalist: pay, site and interaction urls are required")
	}
	if signer == nil {
		return nil, ErrEmptySecret
	}
	if opts.DefaultLang == "" {
		opts.DefaultLang = LangRU
	}
	opts.SiteURL = strings.TrimRight(opts.SiteURL, "/")
	return &Builder{opts: opts, signer: signer}, nil
}

// ReturnURL is the storefront page the gateway sends the buyer back to.
// outcome is one of success, fail, status.
func (b *Builder) ReturnURL(outcome, operationID string) string {
	return fmt.Sprintf("%s/#/payment/%s?order=%s", b.opts.SiteURL, outcome, url.QueryEscape(operationID))
}

// MaxDescriptionLength matches the orders.description column.
const MaxDescriptionLength = 255

func validDescription(s string) bool {
	if strings.TrimSpace(s) == "" || !utf8.ValidString(s) || utf8.RuneCountInString(s) > MaxDescriptionLength {
		return false
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

func (b *Builder) validate(in *PaymentIntent) error {
	if strings.TrimSpace(in.OperationID) == "" {
		return fmt.Errorf("%w: empty operation id", ErrInvalidIntent)
	}
	if !in.Amount.Round(2).IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidIntent)
	}
	if !in.Currency.Supported() {
		return fmt.Errorf("%w: unsupported currency %q", ErrInvalidIntent, in.Currency)
	}
	if !validDescription(in.Description) {
		return fmt.Errorf("%w: description is empty, longer than %d characters or contains control characters", ErrInvalidIntent, MaxDescriptionLength)
	}
	if in.Lang != "" && in.Lang != LangRU && in.Lang != LangEN {
		return fmt.Errorf("%w: unsupported lang %q", ErrInvalidIntent, in.Lang)
	}
	return nil
}

// Validate reports whether in would be accepted by Build.
func (b *Builder) Validate(in PaymentIntent) error {
	return b.validate(&in)
}

// Build validates the intent and produces the signed request.
func (b *Builder) Build(in PaymentIntent) (*PaymentRequest, error) {
	if err := b.validate(&in); err != nil {
		return nil, err
	}
	lang := in.Lang
	if lang == "" {
		lang = b.opts.DefaultLang
	}

	amount := FormatAmount(in.Amount)
	req := &PaymentRequest{
		Action:         b.opts.PayURL,
		OperationID:    in.OperationID,
		MerchantID:     b.opts.MerchantAddress,
		Currency:       string(in.Currency),
		Amount:         amount,
		Description:    in.Description,
		Email:          in.Email,
		SuccessURL:     b.ReturnURL("success", in.OperationID),
		FailURL:        b.ReturnURL("fail", in.OperationID),
		StatusURL:      b.ReturnURL("status", in.OperationID),
		InteractionURL: b.opts.InteractionURL,
		Lang:           lang,
	}
	req.Sign = b.signer.SignPayment(map[string]string{
		SignFieldAmount:      req.Amount,
		SignFieldCurrency:    req.Currency,
		SignFieldDescription: req.Description,
		SignFieldMerchantID:  req.MerchantID,
		SignFieldNumber:      req.OperationID,
	})

	req.Fields = []FormField{
		{FormFieldMerchantID, req.MerchantID},
		{FormFieldNumber, req.OperationID},
		{FormFieldCurrency, req.Currency},
		{FormFieldAmount, req.Amount},
		{FormFieldDescription, req.Description},
		{FormFieldSuccessURL, req.SuccessURL},
		{FormFieldFailURL, req.FailURL},
		{FormFieldStatusURL, req.StatusURL},
		{FormFieldInteractionURL, req.InteractionURL},
		{FormFieldLang, req.Lang},
	}
	if req.Email != "" {
		req.Fields = append(req.Fields, FormField{FormFieldEmail, req.Email})
	}
	req.Fields = append(req.Fields, FormField{FormFieldSign, req.Sign})
	return req, nil
}

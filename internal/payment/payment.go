package payment

import (
	"context"
	"strconv"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/paymentintent"
)

// Provider は決済手段の約束。
// ClientSecretを返す（CODのように決済不要なら空文字）。
type Provider interface {
	CreatePaymentIntent(ctx context.Context, orderID int64, amount float64, currency string) (string, error)
}

// Stripe実装。amountはドル等の主単位で受け取り、最小単位に直して渡す。
type StripeProvider struct {
	key string
}

func NewStripeProvider(key string) *StripeProvider {
	stripe.Key = key
	return &StripeProvider{key: key}
}

func (p *StripeProvider) CreatePaymentIntent(ctx context.Context, orderID int64, amount float64, currency string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(amount * 100)),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("order_id", strconv.FormatInt(orderID, 10))

	pi, err := paymentintent.New(params)
	if err != nil {
		return "", err
	}
	return pi.ClientSecret, nil
}

// COD（代引き）。決済処理は無い。
type CODProvider struct{}

func NewCODProvider() *CODProvider {
	return &CODProvider{}
}

func (p *CODProvider) CreatePaymentIntent(ctx context.Context, orderID int64, amount float64, currency string) (string, error) {
	return "", nil
}

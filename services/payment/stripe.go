package paymentsvc

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	stripe "github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"

	"github.com/trezcool/edumanage/core"
)

type stripeService struct {
	sc *client.API
}

var _ core.PaymentProvider = (*stripeService)(nil)

func NewStripeService(conf *core.Config) core.PaymentProvider {
	sc := new(client.API)
	sc.Init(conf.Stripe.SecretKey, nil)
	return &stripeService{sc: sc}
}

func (svc *stripeService) CreateIntent(ctx context.Context, amount int64, currency string) (core.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx
	// a fresh key per call; retries of the same authorization are the
	// caller's concern
	params.SetIdempotencyKey(uuid.New().String())

	pi, err := svc.sc.PaymentIntents.New(params)
	if err != nil {
		return core.PaymentIntent{}, errors.Wrap(err, "creating stripe payment intent")
	}
	return core.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
	}, nil
}

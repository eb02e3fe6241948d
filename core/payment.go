package core

import "context"

type (
	// PaymentIntent is a provider-issued authorization to charge a payment
	// method. ClientSecret is handed to the frontend to complete the charge.
	PaymentIntent struct {
		ID           string
		ClientSecret string
		Amount       int64 // minor units (cents)
		Currency     string
	}

	// PaymentProvider is any service that can authorize payments.
	PaymentProvider interface {
		CreateIntent(ctx context.Context, amount int64, currency string) (PaymentIntent, error)
	}
)

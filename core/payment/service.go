package payment

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/edumanage/core"
	"github.com/trezcool/edumanage/core/class"
)

type (
	Repository interface {
		CreatePayment(ctx context.Context, p Payment) (Payment, error)
		FilterPaymentsByEmail(ctx context.Context, email string) ([]Payment, error)
	}

	// Service sequences payment authorization with the enrollment-count
	// mutation: a class's enroll counter only moves after the provider
	// accepted the intent.
	Service struct {
		repo     Repository
		classSvc *class.Service
		provider core.PaymentProvider
		mailSvc  core.EmailService
		logger   core.Logger
		currency string
	}
)

func NewService(
	repo Repository,
	classSvc *class.Service,
	provider core.PaymentProvider,
	mailSvc core.EmailService,
	logger core.Logger,
	currency string,
) *Service {
	return &Service{
		repo:     repo,
		classSvc: classSvc,
		provider: provider,
		mailSvc:  mailSvc,
		logger:   logger,
		currency: currency,
	}
}

// CreateIntent authorizes a payment of `price` for the given class and bumps
// its enroll counter. It returns the intent's client secret.
//
// Fails with class.ErrNotFound when the class does not exist. If the counter
// update is lost after the provider already accepted the intent, the intent is
// orphaned; it is logged and the error surfaced so the caller can retry.
func (svc *Service) CreateIntent(ctx context.Context, classID string, price float64) (string, error) {
	cls, err := svc.classSvc.GetByID(ctx, classID)
	if err != nil {
		return "", err
	}

	// two-decimal currency policy: the provider counts minor units
	amount := int64(price * 100)

	intent, err := svc.provider.CreateIntent(ctx, amount, svc.currency)
	if err != nil {
		return "", errors.Wrap(err, "creating payment intent")
	}

	if err = svc.classSvc.IncrementEnroll(ctx, cls.ID.Hex()); err != nil {
		svc.logger.Error(
			fmt.Sprintf("enrollment update lost for class %s; payment intent %s orphaned", cls.ID.Hex(), intent.ID),
			err,
		)
		return "", errors.Wrap(err, "incrementing class enrollment")
	}
	return intent.ClientSecret, nil
}

// Record inserts the ledger entry and mails the payer a receipt.
func (svc *Service) Record(ctx context.Context, np NewPayment) (Payment, error) {
	p := Payment{
		Email:      np.Email,
		ClassID:    np.ClassID,
		ClassTitle: np.ClassTitle,
		Amount:     np.Amount,
		IntentID:   np.IntentID,
		CreatedAt:  time.Now().UTC(),
	}
	p, err := svc.repo.CreatePayment(ctx, p)
	if err != nil {
		return Payment{}, errors.Wrap(err, "recording payment")
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Address: p.Email}},
		Subject: "Payment received",
		BodyStr: fmt.Sprintf("We received your payment of %.2f for %q. Happy learning!", p.Amount, p.ClassTitle),
	})
	return p, nil
}

func (svc *Service) ListByEmail(ctx context.Context, email string) ([]Payment, error) {
	return svc.repo.FilterPaymentsByEmail(ctx, core.CleanString(email, true /* lower */))
}

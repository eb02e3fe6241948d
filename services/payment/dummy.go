package paymentsvc

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/trezcool/edumanage/core"
)

// DummyService fabricates intents in memory. Set Err to simulate provider
// failures.
type DummyService struct {
	Err error

	mu      sync.Mutex
	intents []core.PaymentIntent
}

var _ core.PaymentProvider = (*DummyService)(nil)

func NewDummyService() *DummyService {
	return &DummyService{}
}

func (svc *DummyService) CreateIntent(_ context.Context, amount int64, currency string) (core.PaymentIntent, error) {
	if svc.Err != nil {
		return core.PaymentIntent{}, svc.Err
	}
	id := "pi_" + uuid.New().String()
	intent := core.PaymentIntent{
		ID:           id,
		ClientSecret: id + "_secret_" + uuid.New().String(),
		Amount:       amount,
		Currency:     currency,
	}
	svc.mu.Lock()
	svc.intents = append(svc.intents, intent)
	svc.mu.Unlock()
	return intent, nil
}

// CreatedIntents returns a copy of every intent created so far.
func (svc *DummyService) CreatedIntents() []core.PaymentIntent {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	out := make([]core.PaymentIntent, len(svc.intents))
	copy(out, svc.intents)
	return out
}

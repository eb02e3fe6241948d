package dummydb

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trezcool/edumanage/core/payment"
)

type paymentRepository struct {
	db *paymentTable
}

var _ payment.Repository = (*paymentRepository)(nil) // interface compliance check

func NewPaymentRepository(db *DB) payment.Repository {
	return &paymentRepository{db: db.payments}
}

func (repo *paymentRepository) CreatePayment(_ context.Context, p payment.Payment) (payment.Payment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	p.ID = primitive.NewObjectID()
	repo.db.table[p.ID] = &p
	return p, nil
}

func (repo *paymentRepository) FilterPaymentsByEmail(_ context.Context, email string) ([]payment.Payment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	payments := make([]payment.Payment, 0)
	for _, p := range repo.db.table {
		if p.Email == email {
			payments = append(payments, *p)
		}
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].CreatedAt.After(payments[j].CreatedAt) })
	return payments, nil
}

package mongorepos

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/edumanage/core/payment"
)

type paymentRepository struct {
	col *mongo.Collection
}

var _ payment.Repository = (*paymentRepository)(nil) // interface compliance check

func NewPaymentRepository(db *mongo.Database) payment.Repository {
	return &paymentRepository{col: db.Collection(paymentsCollection)}
}

func (repo *paymentRepository) CreatePayment(ctx context.Context, p payment.Payment) (payment.Payment, error) {
	p.ID = primitive.NewObjectID()
	if _, err := repo.col.InsertOne(ctx, p); err != nil {
		return payment.Payment{}, errors.Wrap(err, "inserting payment")
	}
	return p, nil
}

func (repo *paymentRepository) FilterPaymentsByEmail(ctx context.Context, email string) ([]payment.Payment, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cur, err := repo.col.Find(ctx, bson.M{"email": email}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "querying payments")
	}
	var payments []payment.Payment
	if err = cur.All(ctx, &payments); err != nil {
		return nil, errors.Wrap(err, "decoding payments")
	}
	return payments, nil
}

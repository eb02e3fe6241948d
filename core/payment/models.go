package payment

import (
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trezcool/edumanage/core"
)

// Payment is an immutable ledger entry recording one completed payment.
// Entries are only ever inserted; nothing in the app mutates or deletes them.
type Payment struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Email      string             `json:"email" bson:"email"`
	ClassID    string             `json:"class_id" bson:"class_id"`
	ClassTitle string             `json:"class_title,omitempty" bson:"class_title,omitempty"`
	Amount     float64            `json:"amount" bson:"amount"`
	IntentID   string             `json:"intent_id,omitempty" bson:"intent_id,omitempty"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"` // UTC
}

// NewPayment contains information needed to record a completed payment.
type NewPayment struct {
	Email      string  `json:"email" validate:"required,email"`
	ClassID    string  `json:"class_id" validate:"required"`
	ClassTitle string  `json:"class_title"`
	Amount     float64 `json:"amount" validate:"required,gte=0"`
	IntentID   string  `json:"intent_id"`
}

func (np *NewPayment) Validate(validate *validator.Validate) error {
	np.Email = core.CleanString(np.Email, true /* lower */)
	np.ClassTitle = core.CleanString(np.ClassTitle)
	return validate.Struct(np)
}

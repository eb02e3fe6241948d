package teacherreq

import (
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trezcool/edumanage/core"
)

// Statuses
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Request is a pending application to become a teacher. Approved requests
// mirror the role promotion applied to the user record.
type Request struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name       string             `json:"name" bson:"name"`
	Email      string             `json:"email" bson:"email"`
	Experience string             `json:"experience,omitempty" bson:"experience,omitempty"`
	Title      string             `json:"title,omitempty" bson:"title,omitempty"`
	Category   string             `json:"category,omitempty" bson:"category,omitempty"`
	Status     string             `json:"status" bson:"status"`
	Role       string             `json:"role,omitempty" bson:"role,omitempty"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"` // UTC
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"` // UTC
}

func (r *Request) IsApproved() bool { return r.Status == StatusApproved }

// NewRequest contains information needed to file a teacher application.
type NewRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Experience string `json:"experience"`
	Title      string `json:"title"`
	Category   string `json:"category"`
}

func (nr *NewRequest) Validate(validate *validator.Validate) error {
	nr.Name = core.CleanString(nr.Name)
	nr.Email = core.CleanString(nr.Email, true /* lower */)
	nr.Title = core.CleanString(nr.Title)
	return validate.Struct(nr)
}

package class

import (
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trezcool/edumanage/core"
)

// Statuses. A class is created pending and only ever moves to approve or
// rejected, through admin-gated calls.
const (
	StatusPending  = "pending"
	StatusApproved = "approve"
	StatusRejected = "rejected"
)

type Class struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	TeacherName  string             `json:"teacher_name,omitempty" bson:"teacher_name,omitempty"`
	TeacherEmail string             `json:"teacher_email" bson:"teacher_email"`
	Title        string             `json:"title" bson:"title"`
	Description  string             `json:"description,omitempty" bson:"description,omitempty"`
	Price        float64            `json:"price" bson:"price"`
	Image        string             `json:"image,omitempty" bson:"image,omitempty"`
	Status       string             `json:"status" bson:"status"`
	Enroll       int                `json:"enroll" bson:"enroll"`
	Assignments  []Assignment       `json:"assignments,omitempty" bson:"assignments,omitempty"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"` // UTC
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"` // UTC
}

type Assignment struct {
	Title       string    `json:"title" bson:"title" validate:"required"`
	Description string    `json:"description" bson:"description"`
	Deadline    time.Time `json:"deadline" bson:"deadline"`
}

func (a *Assignment) Validate(validate *validator.Validate) error {
	a.Title = core.CleanString(a.Title)
	a.Description = core.CleanString(a.Description)
	return validate.Struct(a)
}

// NewClass contains information needed to create a new Class.
type NewClass struct {
	TeacherName  string  `json:"teacher_name"`
	TeacherEmail string  `json:"teacher_email" validate:"required,email"`
	Title        string  `json:"title" validate:"required"`
	Description  string  `json:"description"`
	Price        float64 `json:"price" validate:"required,gte=0"`
	Image        string  `json:"image" validate:"omitempty,url"`
}

func (nc *NewClass) Validate(validate *validator.Validate) error {
	nc.TeacherName = core.CleanString(nc.TeacherName)
	nc.TeacherEmail = core.CleanString(nc.TeacherEmail, true /* lower */)
	nc.Title = core.CleanString(nc.Title)
	return validate.Struct(nc)
}

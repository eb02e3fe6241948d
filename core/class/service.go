package class

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("class not found")

type (
	Repository interface {
		CreateClass(ctx context.Context, cls Class) (Class, error)
		QueryAllClasses(ctx context.Context) ([]Class, error)
		FilterClassesByStatus(ctx context.Context, status string) ([]Class, error)
		FilterClassesByTeacher(ctx context.Context, email string) ([]Class, error)
		GetClassByID(ctx context.Context, id string) (Class, error)
		// UpdateClassStatus conditionally moves a class from status `from` to
		// `to`; it fails with ErrNotFound when no class matches both id and
		// `from`.
		UpdateClassStatus(ctx context.Context, id, from, to string) error
		AddClassAssignment(ctx context.Context, id string, a Assignment) error
		// IncrementClassEnroll bumps the enroll counter by one as a single
		// store-side operation. Concurrent calls must all be counted; callers
		// never read-modify-write this field.
		IncrementClassEnroll(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, nc NewClass) (Class, error) {
	now := time.Now().UTC()
	cls := Class{
		TeacherName:  nc.TeacherName,
		TeacherEmail: nc.TeacherEmail,
		Title:        nc.Title,
		Description:  nc.Description,
		Price:        nc.Price,
		Image:        nc.Image,
		Status:       StatusPending,
		Enroll:       0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return svc.repo.CreateClass(ctx, cls)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Class, error) {
	return svc.repo.QueryAllClasses(ctx)
}

// QueryApproved returns the publicly visible classes.
func (svc *Service) QueryApproved(ctx context.Context) ([]Class, error) {
	return svc.repo.FilterClassesByStatus(ctx, StatusApproved)
}

func (svc *Service) QueryByTeacher(ctx context.Context, email string) ([]Class, error) {
	return svc.repo.FilterClassesByTeacher(ctx, email)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Class, error) {
	return svc.repo.GetClassByID(ctx, id)
}

func (svc *Service) Approve(ctx context.Context, id string) error {
	return svc.repo.UpdateClassStatus(ctx, id, StatusPending, StatusApproved)
}

func (svc *Service) Reject(ctx context.Context, id string) error {
	return svc.repo.UpdateClassStatus(ctx, id, StatusPending, StatusRejected)
}

func (svc *Service) AddAssignment(ctx context.Context, id string, a Assignment) error {
	return svc.repo.AddClassAssignment(ctx, id, a)
}

func (svc *Service) IncrementEnroll(ctx context.Context, id string) error {
	return svc.repo.IncrementClassEnroll(ctx, id)
}

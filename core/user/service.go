package user

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/edumanage/core"
)

var (
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("a user with this email already exists")
)

type (
	Repository interface {
		// CheckEmailUniqueness returns ErrEmailExists when a user with this
		// email is already stored. The collection carries no unique index;
		// this check is the only duplicate guard on the insert path.
		CheckEmailUniqueness(ctx context.Context, email string) error
		CreateUser(ctx context.Context, usr User) (User, error)
		QueryAllUsers(ctx context.Context) ([]User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		// SetUserRole is idempotent; it fails with ErrNotFound only when no
		// user matches id.
		SetUserRole(ctx context.Context, id, role string) error
		DeleteUserByID(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkUniqueness(email string) error {
	if err := svc.repo.CheckEmailUniqueness(context.Background(), email); err != nil {
		if errors.Cause(err) == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	now := time.Now().UTC()
	usr := User{
		Name:      nu.Name,
		Email:     nu.Email,
		Photo:     nu.Photo,
		Role:      RoleStudent,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateUser(ctx, usr)
}

func (svc *Service) QueryAll(ctx context.Context) ([]User, error) {
	return svc.repo.QueryAllUsers(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

// IsAdmin reports whether the user with this email currently holds the admin
// role. The role is re-read from the store on every call; role changes take
// effect on the very next request.
func (svc *Service) IsAdmin(ctx context.Context, email string) (bool, error) {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return usr.IsAdmin(), nil
}

func (svc *Service) PromoteAdmin(ctx context.Context, id string) error {
	return svc.repo.SetUserRole(ctx, id, RoleAdmin)
}

func (svc *Service) PromoteTeacherByEmail(ctx context.Context, email string) error {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return errors.Wrap(err, "finding user by email")
	}
	return svc.repo.SetUserRole(ctx, usr.ID.Hex(), RoleTeacher)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteUserByID(ctx, id)
}

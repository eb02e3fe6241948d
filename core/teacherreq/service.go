package teacherreq

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/edumanage/core"
	"github.com/trezcool/edumanage/core/user"
)

var ErrNotFound = errors.New("teacher request not found")

type (
	Repository interface {
		CreateRequest(ctx context.Context, req Request) (Request, error)
		QueryAllRequests(ctx context.Context) ([]Request, error)
		GetRequestByID(ctx context.Context, id string) (Request, error)
		// GetRequestByEmail returns the latest request filed for this email.
		GetRequestByEmail(ctx context.Context, email string) (Request, error)
		UpdateRequestStatus(ctx context.Context, id, status, role string) error
	}

	Service struct {
		repo    Repository
		usrSvc  *user.Service
		mailSvc core.EmailService
	}
)

func NewService(repo Repository, usrSvc *user.Service, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, usrSvc: usrSvc, mailSvc: mailSvc}
}

func (svc *Service) Create(ctx context.Context, nr NewRequest) (Request, error) {
	now := time.Now().UTC()
	req := Request{
		Name:       nr.Name,
		Email:      nr.Email,
		Experience: nr.Experience,
		Title:      nr.Title,
		Category:   nr.Category,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return svc.repo.CreateRequest(ctx, req)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Request, error) {
	return svc.repo.QueryAllRequests(ctx)
}

// IsApprovedTeacher reports whether this email holds an approved teacher
// application. Like the admin check, the status is re-read from the store on
// every call.
func (svc *Service) IsApprovedTeacher(ctx context.Context, email string) (bool, error) {
	req, err := svc.repo.GetRequestByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return req.IsApproved() && req.Role == user.RoleTeacher, nil
}

// Approve marks the request approved and promotes the requesting user to the
// teacher role; the promotion is visible on the user's very next request.
func (svc *Service) Approve(ctx context.Context, id string) error {
	req, err := svc.repo.GetRequestByID(ctx, id)
	if err != nil {
		return err
	}
	if err = svc.repo.UpdateRequestStatus(ctx, id, StatusApproved, user.RoleTeacher); err != nil {
		return errors.Wrap(err, "updating request status")
	}
	if err = svc.usrSvc.PromoteTeacherByEmail(ctx, req.Email); err != nil {
		// the request may predate the user record; the role lands whenever
		// the user signs up
		if errors.Cause(err) != user.ErrNotFound {
			return errors.Wrap(err, "promoting user to teacher")
		}
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: req.Name, Address: req.Email}},
		Subject: "Teacher application approved",
		BodyStr: fmt.Sprintf("Hi %s,\n\nYour application to teach on EduManage has been approved. "+
			"You can now publish classes from your dashboard.", req.Name),
	})
	return nil
}

func (svc *Service) Reject(ctx context.Context, id string) error {
	return svc.repo.UpdateRequestStatus(ctx, id, StatusRejected, "")
}

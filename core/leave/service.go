package leave

import (
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/user"
)

var (
	ErrNotFound = errors.New("leave request not found")

	errAlreadyDecided = errors.New("leave request has already been decided")
)

type (
	Repository interface {
		CreateRequest(req Request) (Request, error)
		GetRequestByID(id string) (Request, error)
		// QueryRequestsByStudent and QueryAllRequests sort by submission time descending.
		QueryRequestsByStudent(studentID string) ([]Request, error)
		QueryAllRequests() ([]Request, error)
		UpdateRequest(req Request) (Request, error)
	}

	Service struct {
		repo    Repository
		users   user.Repository
		mailSvc core.EmailService
	}
)

func NewService(repo Repository, users user.Repository, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, users: users, mailSvc: mailSvc}
}

// Submit files a new request for the student; it always starts out pending.
func (svc *Service) Submit(studentID string, nr NewRequest) (Request, error) {
	return svc.repo.CreateRequest(Request{
		ID:          uuid.New().String(),
		StudentID:   studentID,
		Reason:      nr.Reason,
		FromDate:    nr.FromDate,
		ToDate:      nr.ToDate,
		Status:      StatusPending,
		SubmittedAt: time.Now().UTC(),
	})
}

// Decide applies an admin's ruling. Only pending requests may transition;
// re-deciding an approved/rejected request is rejected.
func (svc *Service) Decide(id string, d Decision) (Request, error) {
	req, err := svc.repo.GetRequestByID(id)
	if err != nil {
		return Request{}, err
	}
	if !req.IsPending() {
		return Request{}, core.NewValidationError(errAlreadyDecided)
	}
	req.Status = d.Status
	req.AdminRemarks = d.AdminRemarks
	req, err = svc.repo.UpdateRequest(req)
	if err != nil {
		return Request{}, err
	}
	svc.sendDecisionMail(req)
	return req, nil
}

func (svc *Service) ForStudent(studentID string) ([]Request, error) {
	return svc.repo.QueryRequestsByStudent(studentID)
}

func (svc *Service) QueryAll() ([]Request, error) {
	return svc.repo.QueryAllRequests()
}

func (svc *Service) sendDecisionMail(req Request) {
	if svc.mailSvc == nil {
		return
	}
	usr, err := svc.users.GetUserByID(req.StudentID)
	if err != nil || usr.Email == "" {
		return
	}
	body := fmt.Sprintf("Hi %s,\n\nYour leave request (%s to %s) has been %s.\n",
		usr.FullName, req.FromDate, req.ToDate, req.Status)
	if req.AdminRemarks != "" {
		body += fmt.Sprintf("\nRemarks: %s\n", req.AdminRemarks)
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.FullName, Address: usr.Email}},
		Subject: "Leave request " + req.Status,
		BodyStr: body,
	})
}

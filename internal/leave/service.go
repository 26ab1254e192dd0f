package leave

import (
	"context"
	"fmt"
	"strings"

	"github.com/meridian-hr/meridian/internal/shared"
)

// Service holds leave request business rules.
type Service struct {
	repo RepositoryPort
}

// NewService constructs a service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Apply files a new request on behalf of the principal. Requests always start
// Pending regardless of who files them.
func (s *Service) Apply(ctx context.Context, principal *shared.Principal, in RequestInput) (Request, error) {
	if principal == nil || principal.UserID <= 0 {
		return Request{}, fmt.Errorf("%w: no authenticated user", shared.ErrUnauthorized)
	}
	if err := validateInput(&in); err != nil {
		return Request{}, err
	}
	name := principal.Name
	if name == "" {
		name = principal.Email
	}
	req, err := s.repo.Create(ctx, Request{
		UserID:    principal.UserID,
		UserName:  name,
		LeaveType: in.LeaveType,
		FromDate:  in.FromDate,
		ToDate:    in.ToDate,
		Reason:    in.Reason,
		Status:    StatusPending,
	})
	if err != nil {
		return Request{}, fmt.Errorf("apply leave: %w", err)
	}
	return req, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Request, error) {
	req, err := s.repo.Get(ctx, id)
	if err != nil {
		return Request{}, fmt.Errorf("get leave %d: %w", id, err)
	}
	return req, nil
}

// MyRequests pages through the principal's own requests only.
func (s *Service) MyRequests(ctx context.Context, principal *shared.Principal, filters shared.ListFilters) (shared.PagedResult[Request], error) {
	if principal == nil || principal.UserID <= 0 {
		return shared.PagedResult[Request]{}, fmt.Errorf("%w: no authenticated user", shared.ErrUnauthorized)
	}
	list, total, err := s.repo.ListForUser(ctx, principal.UserID, filters)
	if err != nil {
		return shared.PagedResult[Request]{}, fmt.Errorf("list my leaves: %w", err)
	}
	return shared.NewPagedResult(list, filters, total), nil
}

func (s *Service) AllRequests(ctx context.Context, filters shared.ListFilters) (shared.PagedResult[Request], error) {
	list, total, err := s.repo.ListAll(ctx, filters)
	if err != nil {
		return shared.PagedResult[Request]{}, fmt.Errorf("list all leaves: %w", err)
	}
	return shared.NewPagedResult(list, filters, total), nil
}

func (s *Service) PendingRequests(ctx context.Context) ([]Request, error) {
	list, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending leaves: %w", err)
	}
	if list == nil {
		list = []Request{}
	}
	return list, nil
}

// UpdateStatus moves a Pending request to Approved or Rejected. Any other
// transition is refused.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (Request, error) {
	decision := NormalizeDecision(status)
	if decision == "" {
		return Request{}, fmt.Errorf("%w: status must be Approved or Rejected", shared.ErrValidation)
	}
	req, err := s.repo.Get(ctx, id)
	if err != nil {
		return Request{}, fmt.Errorf("get leave %d: %w", id, err)
	}
	if req.Status != StatusPending {
		return Request{}, fmt.Errorf("%w: leave already processed", shared.ErrConflict)
	}
	if err := s.repo.UpdateStatus(ctx, id, decision); err != nil {
		return Request{}, fmt.Errorf("update leave %d status: %w", id, err)
	}
	req.Status = decision
	return req, nil
}

// Update edits a request. Only the requester may edit, and only while Pending.
func (s *Service) Update(ctx context.Context, id int64, principal *shared.Principal, in RequestInput) (Request, error) {
	req, err := s.ownedPending(ctx, id, principal)
	if err != nil {
		return Request{}, err
	}
	if err := validateInput(&in); err != nil {
		return Request{}, err
	}
	if err := s.repo.UpdateFields(ctx, id, in); err != nil {
		return Request{}, fmt.Errorf("update leave %d: %w", id, err)
	}
	req.LeaveType = in.LeaveType
	req.FromDate = in.FromDate
	req.ToDate = in.ToDate
	req.Reason = in.Reason
	return req, nil
}

// Delete removes a request. Only the requester may delete, and only while
// Pending.
func (s *Service) Delete(ctx context.Context, id int64, principal *shared.Principal) error {
	if _, err := s.ownedPending(ctx, id, principal); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete leave %d: %w", id, err)
	}
	return nil
}

// ownedPending loads the request and checks both the ownership and the
// Pending state rules. A request owned by someone else reads as not found so
// callers cannot probe other users' requests.
func (s *Service) ownedPending(ctx context.Context, id int64, principal *shared.Principal) (Request, error) {
	if principal == nil || principal.UserID <= 0 {
		return Request{}, fmt.Errorf("%w: no authenticated user", shared.ErrUnauthorized)
	}
	req, err := s.repo.Get(ctx, id)
	if err != nil {
		return Request{}, fmt.Errorf("get leave %d: %w", id, err)
	}
	if req.UserID != principal.UserID {
		return Request{}, fmt.Errorf("%w: leave not found", shared.ErrNotFound)
	}
	if req.Status != StatusPending {
		return Request{}, fmt.Errorf("%w: only pending leave can be changed", shared.ErrConflict)
	}
	return req, nil
}

func validateInput(in *RequestInput) error {
	in.LeaveType = strings.TrimSpace(in.LeaveType)
	in.Reason = strings.TrimSpace(in.Reason)
	if in.LeaveType == "" {
		return fmt.Errorf("%w: leave type is required", shared.ErrValidation)
	}
	if in.FromDate.IsZero() || in.ToDate.IsZero() {
		return fmt.Errorf("%w: from and to dates are required", shared.ErrValidation)
	}
	if in.ToDate.Before(in.FromDate) {
		return fmt.Errorf("%w: from date cannot be after to date", shared.ErrValidation)
	}
	return nil
}

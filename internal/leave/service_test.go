package leave

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-hr/meridian/internal/shared"
)

type mockLeaveRepo struct {
	requests map[int64]Request
	nextID   int64
}

func newMockLeaveRepo() *mockLeaveRepo {
	return &mockLeaveRepo{requests: make(map[int64]Request), nextID: 1}
}

func (m *mockLeaveRepo) Create(ctx context.Context, req Request) (Request, error) {
	req.ID = m.nextID
	m.nextID++
	m.requests[req.ID] = req
	return req, nil
}

func (m *mockLeaveRepo) Get(ctx context.Context, id int64) (Request, error) {
	req, ok := m.requests[id]
	if !ok {
		return Request{}, shared.ErrNotFound
	}
	return req, nil
}

func (m *mockLeaveRepo) ListForUser(ctx context.Context, userID int64, filters shared.ListFilters) ([]Request, int, error) {
	var list []Request
	for _, req := range m.requests {
		if req.UserID == userID {
			list = append(list, req)
		}
	}
	return list, len(list), nil
}

func (m *mockLeaveRepo) ListAll(ctx context.Context, filters shared.ListFilters) ([]Request, int, error) {
	var list []Request
	for _, req := range m.requests {
		list = append(list, req)
	}
	return list, len(list), nil
}

func (m *mockLeaveRepo) ListPending(ctx context.Context) ([]Request, error) {
	var list []Request
	for _, req := range m.requests {
		if req.Status == StatusPending {
			list = append(list, req)
		}
	}
	return list, nil
}

func (m *mockLeaveRepo) UpdateFields(ctx context.Context, id int64, in RequestInput) error {
	req, ok := m.requests[id]
	if !ok {
		return shared.ErrNotFound
	}
	req.LeaveType = in.LeaveType
	req.FromDate = in.FromDate
	req.ToDate = in.ToDate
	req.Reason = in.Reason
	m.requests[id] = req
	return nil
}

func (m *mockLeaveRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	req, ok := m.requests[id]
	if !ok {
		return shared.ErrNotFound
	}
	req.Status = status
	m.requests[id] = req
	return nil
}

func (m *mockLeaveRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.requests[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.requests, id)
	return nil
}

var _ RepositoryPort = (*mockLeaveRepo)(nil)

func validInput() RequestInput {
	return RequestInput{
		LeaveType: "Annual",
		FromDate:  time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		ToDate:    time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
		Reason:    "vacation",
	}
}

func requester() *shared.Principal {
	return &shared.Principal{UserID: 10, Name: "Pat", Email: "pat@example.com"}
}

func TestApplyStartsPending(t *testing.T) {
	svc := NewService(newMockLeaveRepo())

	req, err := svc.Apply(context.Background(), requester(), validInput())
	require.NoError(t, err)
	assert.Equal(t, StatusPending, req.Status)
	assert.Equal(t, int64(10), req.UserID)
	assert.Equal(t, "Pat", req.UserName)
}

func TestApplyRequiresPrincipal(t *testing.T) {
	svc := NewService(newMockLeaveRepo())
	_, err := svc.Apply(context.Background(), nil, validInput())
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestApplyRejectsInvertedDates(t *testing.T) {
	svc := NewService(newMockLeaveRepo())
	in := validInput()
	in.FromDate, in.ToDate = in.ToDate, in.FromDate
	_, err := svc.Apply(context.Background(), requester(), in)
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdateStatusApproves(t *testing.T) {
	repo := newMockLeaveRepo()
	svc := NewService(repo)
	req, err := svc.Apply(context.Background(), requester(), validInput())
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), req.ID, "approved")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, updated.Status)
}

func TestUpdateStatusRejectsSecondDecision(t *testing.T) {
	repo := newMockLeaveRepo()
	svc := NewService(repo)
	req, err := svc.Apply(context.Background(), requester(), validInput())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), req.ID, StatusApproved)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), req.ID, StatusRejected)
	assert.ErrorIs(t, err, shared.ErrConflict)
	assert.Equal(t, StatusApproved, repo.requests[req.ID].Status)
}

func TestUpdateStatusRefusesPendingAndUnknownValues(t *testing.T) {
	repo := newMockLeaveRepo()
	svc := NewService(repo)
	req, err := svc.Apply(context.Background(), requester(), validInput())
	require.NoError(t, err)

	for _, status := range []string{"Pending", "Cancelled", ""} {
		_, err := svc.UpdateStatus(context.Background(), req.ID, status)
		assert.ErrorIs(t, err, shared.ErrValidation, "status %q", status)
	}
}

func TestUpdateOnlyByRequesterWhilePending(t *testing.T) {
	repo := newMockLeaveRepo()
	svc := NewService(repo)
	req, err := svc.Apply(context.Background(), requester(), validInput())
	require.NoError(t, err)

	// Someone else's edit reads as not found, not forbidden.
	other := &shared.Principal{UserID: 99}
	_, err = svc.Update(context.Background(), req.ID, other, validInput())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	in := validInput()
	in.LeaveType = "Sick"
	updated, err := svc.Update(context.Background(), req.ID, requester(), in)
	require.NoError(t, err)
	assert.Equal(t, "Sick", updated.LeaveType)

	// Processed requests are frozen.
	_, err = svc.UpdateStatus(context.Background(), req.ID, StatusApproved)
	require.NoError(t, err)
	_, err = svc.Update(context.Background(), req.ID, requester(), in)
	assert.ErrorIs(t, err, shared.ErrConflict)
}

func TestDeleteOnlyByRequesterWhilePending(t *testing.T) {
	repo := newMockLeaveRepo()
	svc := NewService(repo)
	req, err := svc.Apply(context.Background(), requester(), validInput())
	require.NoError(t, err)

	other := &shared.Principal{UserID: 99}
	assert.ErrorIs(t, svc.Delete(context.Background(), req.ID, other), shared.ErrNotFound)

	_, err = svc.UpdateStatus(context.Background(), req.ID, StatusRejected)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Delete(context.Background(), req.ID, requester()), shared.ErrConflict)

	fresh, err := svc.Apply(context.Background(), requester(), validInput())
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), fresh.ID, requester()))
	_, err = svc.Get(context.Background(), fresh.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestMyRequestsScopedToRequester(t *testing.T) {
	repo := newMockLeaveRepo()
	svc := NewService(repo)
	_, err := svc.Apply(context.Background(), requester(), validInput())
	require.NoError(t, err)
	_, err = svc.Apply(context.Background(), &shared.Principal{UserID: 99, Name: "Other"}, validInput())
	require.NoError(t, err)

	page, err := svc.MyRequests(context.Background(), requester(), shared.ListFilters{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(10), page.Items[0].UserID)
}

func TestPendingRequestsFilter(t *testing.T) {
	repo := newMockLeaveRepo()
	svc := NewService(repo)
	first, err := svc.Apply(context.Background(), requester(), validInput())
	require.NoError(t, err)
	_, err = svc.Apply(context.Background(), requester(), validInput())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), first.ID, StatusApproved)
	require.NoError(t, err)

	pending, err := svc.PendingRequests(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, StatusPending, pending[0].Status)
}

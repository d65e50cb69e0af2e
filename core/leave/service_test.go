package leave_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/leave"
	"github.com/trezcool/shule/core/user"
	inmemdb "github.com/trezcool/shule/storage/database/inmem"
)

func setup(t *testing.T) (*leave.Service, user.Repository) {
	t.Helper()
	db := inmemdb.Open()
	users := inmemdb.NewUserRepository(db)
	return leave.NewService(inmemdb.NewLeaveRepository(db), users, nil), users
}

func createStudent(t *testing.T, users user.Repository) user.User {
	t.Helper()
	now := time.Now().UTC()
	usr, err := users.CreateUser(user.User{
		ID:        uuid.New().String(),
		Username:  "stud",
		Email:     "stud@test.cd",
		Role:      user.RoleStudent,
		FullName:  "Stud Ent",
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)
	return usr
}

func newRequest(reason string, from, to core.Date) leave.NewRequest {
	return leave.NewRequest{Reason: reason, FromDate: from, ToDate: to}
}

func TestSubmit(t *testing.T) {
	svc, users := setup(t)
	stud := createStudent(t, users)

	req, err := svc.Submit(stud.ID, newRequest("family event",
		core.NewDate(2025, time.October, 1), core.NewDate(2025, time.October, 3)))
	require.NoError(t, err)
	assert.Equal(t, leave.StatusPending, req.Status)
	assert.NotEmpty(t, req.ID)
	assert.False(t, req.SubmittedAt.IsZero())

	mine, err := svc.ForStudent(stud.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
}

func TestNewRequestValidate(t *testing.T) {
	validate, _ := core.NewValidator()

	t.Run("ok", func(t *testing.T) {
		nr := newRequest("sick", core.NewDate(2025, time.October, 1), core.NewDate(2025, time.October, 1))
		assert.NoError(t, nr.Validate(validate))
	})
	t.Run("missing reason", func(t *testing.T) {
		nr := newRequest("", core.NewDate(2025, time.October, 1), core.NewDate(2025, time.October, 2))
		assert.Error(t, nr.Validate(validate))
	})
	t.Run("missing dates", func(t *testing.T) {
		nr := newRequest("sick", core.Date{}, core.Date{})
		err := nr.Validate(validate)
		require.Error(t, err)
		vErr, ok := err.(*core.ValidationError)
		require.True(t, ok)
		assert.Len(t, vErr.Fields, 2)
	})
	t.Run("from after to", func(t *testing.T) {
		nr := newRequest("sick", core.NewDate(2025, time.October, 5), core.NewDate(2025, time.October, 2))
		assert.Error(t, nr.Validate(validate))
	})
}

func TestDecide(t *testing.T) {
	svc, users := setup(t)
	stud := createStudent(t, users)

	req, err := svc.Submit(stud.ID, newRequest("family event",
		core.NewDate(2025, time.October, 1), core.NewDate(2025, time.October, 3)))
	require.NoError(t, err)

	t.Run("approve pending", func(t *testing.T) {
		got, err := svc.Decide(req.ID, leave.Decision{Status: leave.StatusApproved, AdminRemarks: "ok"})
		require.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, got.Status)
		assert.Equal(t, "ok", got.AdminRemarks)
	})
	t.Run("re-deciding is rejected", func(t *testing.T) {
		_, err := svc.Decide(req.ID, leave.Decision{Status: leave.StatusRejected})
		require.Error(t, err)
		_, ok := err.(*core.ValidationError)
		assert.True(t, ok)
	})
	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.Decide("nope", leave.Decision{Status: leave.StatusApproved})
		assert.Equal(t, leave.ErrNotFound, err)
	})
}

func TestQueryAllOrdering(t *testing.T) {
	svc, users := setup(t)
	stud := createStudent(t, users)

	first, err := svc.Submit(stud.ID, newRequest("first",
		core.NewDate(2025, time.October, 1), core.NewDate(2025, time.October, 1)))
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := svc.Submit(stud.ID, newRequest("second",
		core.NewDate(2025, time.October, 2), core.NewDate(2025, time.October, 2)))
	require.NoError(t, err)

	all, err := svc.QueryAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	// newest first
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libraryhub/libraryhub-go/internal/model"
)

func boolPtr(b bool) *bool { return &b }

func TestProfile(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	userID := svc.register(t, "a@x.com", "p1")

	require.NoError(t, svc.users.UpdateProfile(ctx, userID, model.ProfileUpdateRequest{
		Phone:   strPtr("555-0100"),
		Address: strPtr("1 Main St"),
	}))

	p, err := svc.users.Profile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Test User", p.Name)
	assert.Equal(t, "555-0100", p.Phone)
	assert.Equal(t, "1 Main St", p.Address)

	_, err = svc.users.Profile(ctx, 999)
	assert.Equal(t, ErrUserNotFound, err)
	assert.Equal(t, ErrUserNotFound, svc.users.UpdateProfile(ctx, 999, model.ProfileUpdateRequest{Name: strPtr("x")}))
}

func TestAdminUpdate(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	userID := svc.register(t, "a@x.com", "p1")

	suspended := model.UserStatusSuspended
	require.NoError(t, svc.users.AdminUpdate(ctx, userID, model.AdminUserUpdateRequest{Status: &suspended, IsSubscriber: boolPtr(true)}))

	p, err := svc.users.Profile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, model.UserStatusSuspended, p.Status)
	assert.True(t, p.IsSubscriber)

	bogus := model.UserStatus("banned")
	assert.Equal(t, ErrInvalidStatus, svc.users.AdminUpdate(ctx, userID, model.AdminUserUpdateRequest{Status: &bogus}))
	assert.Equal(t, ErrUserNotFound, svc.users.AdminUpdate(ctx, 999, model.AdminUserUpdateRequest{IsSubscriber: boolPtr(false)}))
}

func TestUserStats(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	userID := svc.register(t, "a@x.com", "p1")
	first := svc.addBook(t, "One", 1)
	second := svc.addBook(t, "Two", 1)

	_, err := svc.ledger.Borrow(ctx, userID, first)
	require.NoError(t, err)
	_, err = svc.ledger.Borrow(ctx, userID, second)
	require.NoError(t, err)
	_, err = svc.ledger.Return(ctx, userID, first)
	require.NoError(t, err)

	stats, err := svc.users.Stats(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.CurrentBorrowed)
	assert.Equal(t, 1, stats.TotalReturned)
	assert.Equal(t, 2, stats.TotalBorrowed)
	assert.False(t, stats.MemberSince.IsZero())
}

func TestIsAdmin(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	userID := svc.register(t, "a@x.com", "p1")
	adminID := svc.registerAdmin(t, "admin@x.com", "secret")

	tests := []struct {
		id   int64
		want bool
	}{
		{id: userID, want: false},
		{id: adminID, want: true},
		{id: 999, want: false},
	}

	for _, tt := range tests {
		got, err := svc.users.IsAdmin(ctx, tt.id)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "IsAdmin(%d)", tt.id)
	}
}

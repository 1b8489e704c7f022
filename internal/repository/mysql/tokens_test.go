package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/libraryhub/libraryhub-go/internal/model"
	"github.com/libraryhub/libraryhub-go/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshTokenCreateWithoutExpiry(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRefreshTokenRepository(db)

	mock.ExpectExec(`INSERT INTO refresh_tokens \(user_id, token, expires_at\) VALUES \(\?, \?, \?\)`).
		WithArgs(int64(1), "tok123", nil).
		WillReturnResult(sqlmock.NewResult(3, 1))

	tok := &model.RefreshToken{UserID: 1, Token: "tok123"}
	require.NoError(t, repo.Create(context.Background(), tok))
	assert.Equal(t, int64(3), tok.ID)
}

func TestRefreshTokenCreateDBError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRefreshTokenRepository(db)

	mock.ExpectExec(`INSERT INTO refresh_tokens`).WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), &model.RefreshToken{UserID: 1, Token: "tok123"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestRefreshTokenFind(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRefreshTokenRepository(db)
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM refresh_tokens WHERE token = \?`).
		WithArgs("tok123").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token", "created_at", "expires_at"}).
			AddRow(3, 1, "tok123", created, nil))

	tok, err := repo.Find(context.Background(), "tok123")
	require.NoError(t, err)
	assert.Equal(t, int64(1), tok.UserID)
	assert.Nil(t, tok.ExpiresAt)
}

func TestRefreshTokenFindNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRefreshTokenRepository(db)

	mock.ExpectQuery(`FROM refresh_tokens`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token", "created_at", "expires_at"}))

	_, err := repo.Find(context.Background(), "nope")
	if err != repository.ErrTokenNotFound {
		t.Errorf("Find() error = %v, want %v", err, repository.ErrTokenNotFound)
	}
}

func TestRefreshTokenDeleteUnknownIsNotAnError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRefreshTokenRepository(db)

	mock.ExpectExec(`DELETE FROM refresh_tokens WHERE token = \?`).
		WithArgs("nope").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "nope"))
}

func TestRefreshTokenFindForUpdateLocksRow(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRefreshTokenRepository(db)

	mock.ExpectQuery(`FROM refresh_tokens WHERE token = \? FOR UPDATE`).
		WithArgs("tok123").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token", "created_at", "expires_at"}).
			AddRow(3, 7, "tok123", time.Now(), nil))

	tok, err := repo.FindForUpdate(context.Background(), "tok123")
	require.NoError(t, err)
	assert.Equal(t, int64(7), tok.UserID)
}

func TestRefreshTokenConsume(t *testing.T) {
	tests := []struct {
		name    string
		removed int64
		wantErr error
	}{
		{name: "row removed", removed: 1},
		{name: "already gone", removed: 0, wantErr: repository.ErrTokenNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			repo := NewRefreshTokenRepository(db)

			mock.ExpectExec(`DELETE FROM refresh_tokens WHERE token = \?`).
				WithArgs("tok123").
				WillReturnResult(sqlmock.NewResult(0, tt.removed))

			err := repo.Consume(context.Background(), "tok123")
			assert.Equal(t, tt.wantErr, err)
		})
	}
}

func TestPasswordResetLifecycle(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPasswordResetRepository(db)
	expires := time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO password_resets \(user_id, token, expires_at, used\)`).
		WithArgs(int64(1), "reset-tok", expires, false).
		WillReturnResult(sqlmock.NewResult(8, 1))
	mock.ExpectQuery(`(?s)FROM password_resets WHERE token = \? FOR UPDATE`).
		WithArgs("reset-tok").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token", "expires_at", "used", "created_at"}).
			AddRow(8, 1, "reset-tok", expires, false, expires.Add(-time.Hour)))
	mock.ExpectExec(`UPDATE password_resets SET used = TRUE WHERE id = \?`).
		WithArgs(int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ctx := context.Background()
	pr := &model.PasswordReset{UserID: 1, Token: "reset-tok", ExpiresAt: expires}
	require.NoError(t, repo.Create(ctx, pr))
	assert.Equal(t, int64(8), pr.ID)

	got, err := repo.GetForUpdate(ctx, "reset-tok")
	require.NoError(t, err)
	assert.False(t, got.Used)
	assert.True(t, got.ExpiresAt.Equal(expires))

	require.NoError(t, repo.MarkUsed(ctx, got.ID))
}

func TestPasswordResetGetForUpdateNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPasswordResetRepository(db)

	mock.ExpectQuery(`FROM password_resets`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token", "expires_at", "used", "created_at"}))

	_, err := repo.GetForUpdate(context.Background(), "nope")
	if err != repository.ErrTokenNotFound {
		t.Errorf("GetForUpdate() error = %v, want %v", err, repository.ErrTokenNotFound)
	}
}

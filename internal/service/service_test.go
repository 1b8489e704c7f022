package service

import (
	"context"
	"testing"
	"time"

	"github.com/libraryhub/libraryhub-go/internal/crypto"
	"github.com/libraryhub/libraryhub-go/internal/model"
	"github.com/libraryhub/libraryhub-go/internal/repository/memory"
)

type testServices struct {
	store   *memory.Store
	creds   *CredentialService
	tokens  *TokenService
	auth    *AuthService
	catalog *CatalogService
	ledger  *LedgerService
	users   *UserService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	return newTestServicesWith(t, TokenConfig{Secret: "test-secret", AccessTTL: time.Hour})
}

func newTestServicesWith(t *testing.T, cfg TokenConfig) *testServices {
	t.Helper()

	store := memory.NewStore()
	creds := NewCredentialService(store, crypto.SchemePBKDF2SHA256, time.Hour)
	tokens := NewTokenService(store, cfg)
	ledger := NewLedgerService(store, 0)

	return &testServices{
		store:   store,
		creds:   creds,
		tokens:  tokens,
		auth:    NewAuthService(store, creds, tokens, true),
		catalog: NewCatalogService(store),
		ledger:  ledger,
		users:   NewUserService(store, ledger),
	}
}

func (s *testServices) register(t *testing.T, email, password string) int64 {
	t.Helper()
	resp, err := s.auth.Register(context.Background(), model.RegisterRequest{
		Name:     "Test User",
		Email:    email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("Register(%q) unexpected error: %v", email, err)
	}
	return resp.UserID
}

func (s *testServices) registerAdmin(t *testing.T, email, password string) int64 {
	t.Helper()
	hash, err := s.creds.Hash(password)
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}
	u := &model.User{Name: "Admin", Email: email, PasswordHash: hash, IsAdmin: true}
	if err := s.store.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	return u.ID
}

func (s *testServices) addBook(t *testing.T, title string, copies int) int64 {
	t.Helper()
	resp, err := s.catalog.Create(context.Background(), model.CreateBookRequest{
		Title:       title,
		Author:      "Author",
		Category:    "Fiction",
		TotalCopies: &copies,
	})
	if err != nil {
		t.Fatalf("Create(%q) unexpected error: %v", title, err)
	}
	return resp.BookID
}

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }

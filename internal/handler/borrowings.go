package handler

import (
	"net/http"

	"github.com/libraryhub/libraryhub-go/internal/middleware"
	"github.com/libraryhub/libraryhub-go/internal/model"
	"github.com/libraryhub/libraryhub-go/internal/response"
	"github.com/libraryhub/libraryhub-go/internal/service"
)

// BorrowingHandler handles HTTP requests for the borrowing ledger.
// Every route is behind Authenticate.
type BorrowingHandler struct {
	service *service.LedgerService
}

// NewBorrowingHandler creates a new BorrowingHandler.
func NewBorrowingHandler(svc *service.LedgerService) *BorrowingHandler {
	return &BorrowingHandler{service: svc}
}

// HandleBorrow handles POST /api/borrow requests.
func (h *BorrowingHandler) HandleBorrow(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	var req model.BorrowRequest
	if err := decode(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	resp, err := h.service.Borrow(r.Context(), userID, req.BookID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Success(w, http.StatusCreated, resp)
}

// HandleReturn handles POST /api/return-book requests.
func (h *BorrowingHandler) HandleReturn(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	var req model.BorrowRequest
	if err := decode(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	resp, err := h.service.Return(r.Context(), userID, req.BookID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, resp)
}

// HandleUserBorrowings handles GET /api/users/{id}/borrowings requests.
func (h *BorrowingHandler) HandleUserBorrowings(w http.ResponseWriter, r *http.Request) {
	requesterID, _ := middleware.UserIDFromContext(r.Context())

	userID, ok := pathID(r, "id")
	if !ok {
		writeError(w, r, service.ErrUserNotFound)
		return
	}

	resp, err := h.service.ListForUser(r.Context(), requesterID, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, resp)
}

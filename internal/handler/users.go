package handler

import (
	"net/http"

	"github.com/libraryhub/libraryhub-go/internal/middleware"
	"github.com/libraryhub/libraryhub-go/internal/model"
	"github.com/libraryhub/libraryhub-go/internal/response"
	"github.com/libraryhub/libraryhub-go/internal/service"
)

// UserHandler handles HTTP requests for profiles and account administration.
type UserHandler struct {
	service *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{service: svc}
}

// HandleProfile handles GET /api/users/profile requests.
func (h *UserHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	resp, err := h.service.Profile(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, resp)
}

// HandleUpdateProfile handles PUT /api/users/profile requests.
func (h *UserHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	var req model.ProfileUpdateRequest
	if err := decode(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	if err := h.service.UpdateProfile(r.Context(), userID, req); err != nil {
		writeError(w, r, err)
		return
	}

	response.Message(w, http.StatusOK, "profile updated")
}

// HandleStats handles GET /api/users/stats requests.
func (h *UserHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	resp, err := h.service.Stats(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, resp)
}

// HandleAdminUpdate handles PUT /api/admin/users/{id} requests.
func (h *UserHandler) HandleAdminUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "id")
	if !ok {
		writeError(w, r, service.ErrUserNotFound)
		return
	}

	var req model.AdminUserUpdateRequest
	if err := decode(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	if err := h.service.AdminUpdate(r.Context(), userID, req); err != nil {
		writeError(w, r, err)
		return
	}

	response.Message(w, http.StatusOK, "user updated")
}

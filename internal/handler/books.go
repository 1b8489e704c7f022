package handler

import (
	"net/http"
	"strconv"

	"github.com/libraryhub/libraryhub-go/internal/middleware"
	"github.com/libraryhub/libraryhub-go/internal/model"
	"github.com/libraryhub/libraryhub-go/internal/response"
	"github.com/libraryhub/libraryhub-go/internal/service"
)

// BookHandler handles HTTP requests for the book catalog.
type BookHandler struct {
	service *service.CatalogService
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(svc *service.CatalogService) *BookHandler {
	return &BookHandler{service: svc}
}

// HandleList handles GET /api/books requests.
func (h *BookHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.BookFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Sort:     model.ParseBookSort(q.Get("sort")),
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		filter.Limit = limit
	}

	viewerID, _ := middleware.UserIDFromContext(r.Context())

	books, err := h.service.List(r.Context(), filter.Normalize(), viewerID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, model.BookListResponse{Books: books})
}

// HandleGet handles GET /api/books/{id} requests.
func (h *BookHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, r, service.ErrBookNotFound)
		return
	}

	viewerID, _ := middleware.UserIDFromContext(r.Context())

	book, err := h.service.View(r.Context(), id, viewerID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, book)
}

// HandleCreate handles POST /api/books requests.
func (h *BookHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req model.CreateBookRequest
	if err := decode(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	resp, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Success(w, http.StatusCreated, resp)
}

// HandleUpdate handles PUT /api/books/{id} requests.
func (h *BookHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, r, service.ErrBookNotFound)
		return
	}

	var patch model.BookPatch
	if err := decode(w, r, &patch); err != nil {
		writeDecodeError(w, err)
		return
	}

	if err := h.service.Update(r.Context(), id, patch); err != nil {
		writeError(w, r, err)
		return
	}

	response.Message(w, http.StatusOK, "book updated")
}

// HandleDelete handles DELETE /api/books/{id} requests.
func (h *BookHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, r, service.ErrBookNotFound)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	response.Message(w, http.StatusOK, "book deleted")
}

// HandleCategories handles GET /api/categories requests.
func (h *BookHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, model.CategoriesResponse{Categories: categories})
}

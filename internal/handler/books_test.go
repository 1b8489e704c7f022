package handler

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libraryhub/libraryhub-go/internal/response"
)

func TestBookAdminGate(t *testing.T) {
	s := newTestServer(t)
	member, _ := s.registerAndLogin("a@x.com", "p1")

	res := s.do(http.MethodPost, "/api/books", `{"title":"Dune","author":"Herbert"}`, "")
	assert.Equal(t, http.StatusUnauthorized, res.code)

	res = s.do(http.MethodPost, "/api/books", `{"title":"Dune","author":"Herbert"}`, member)
	assert.Equal(t, http.StatusForbidden, res.code)
	assert.Equal(t, response.CodeForbidden, res.env.ErrorCode)

	res = s.do(http.MethodDelete, "/api/books/1", "", member)
	assert.Equal(t, http.StatusForbidden, res.code)
}

func TestBookCRUD(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()

	id := s.createBook(admin, `{"title":"Dune","author":"Herbert","category":"Science Fiction","price":12.5,"total_copies":3}`)
	path := "/api/books/" + strconv.FormatInt(id, 10)

	res := s.do(http.MethodGet, path, "", "")
	require.Equal(t, http.StatusOK, res.code)
	assert.Equal(t, "Dune", res.data["title"])
	assert.Equal(t, float64(3), res.data["available_copies"])

	res = s.do(http.MethodPut, path, `{"title":"Dune Messiah","available_copies":2}`, admin)
	require.Equal(t, http.StatusOK, res.code)

	res = s.do(http.MethodGet, path, "", "")
	assert.Equal(t, "Dune Messiah", res.data["title"])
	assert.Equal(t, float64(2), res.data["available_copies"])

	res = s.do(http.MethodPut, path, `{"available_copies":9}`, admin)
	assert.Equal(t, http.StatusBadRequest, res.code)

	res = s.do(http.MethodPut, "/api/books/999", `{"title":"x"}`, admin)
	assert.Equal(t, http.StatusNotFound, res.code)

	res = s.do(http.MethodDelete, path, "", admin)
	require.Equal(t, http.StatusOK, res.code)
	res = s.do(http.MethodDelete, path, "", admin)
	assert.Equal(t, http.StatusOK, res.code, "delete is idempotent")

	res = s.do(http.MethodGet, path, "", "")
	assert.Equal(t, http.StatusNotFound, res.code)

	res = s.do(http.MethodGet, "/api/books/abc", "", "")
	assert.Equal(t, http.StatusNotFound, res.code)
}

func TestBookGetPricedForViewer(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()
	member, _ := s.registerAndLogin("a@x.com", "p1")
	subscriber, subscriberID := s.registerAndLogin("s@x.com", "p1")

	res := s.do(http.MethodPut, "/api/admin/users/"+strconv.FormatInt(subscriberID, 10), `{"is_subscriber":true}`, admin)
	require.Equal(t, http.StatusOK, res.code)

	id := s.createBook(admin, `{"title":"Dune","author":"Herbert","price":12.5,"has_pdf":true}`)
	path := "/api/books/" + strconv.FormatInt(id, 10)

	tests := []struct {
		name  string
		token string
		want  float64
	}{
		{name: "anonymous", want: 12.5},
		{name: "member", token: member, want: 12.5},
		{name: "subscriber", token: subscriber, want: 0},
		{name: "bad token", token: "garbage", want: 12.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := s.do(http.MethodGet, path, "", tt.token)
			require.Equal(t, http.StatusOK, res.code)
			assert.Equal(t, tt.want, res.data["display_price"])
			assert.Equal(t, 12.5, res.data["price"])
			assert.Equal(t, "Available", res.data["availability"])
		})
	}
}

func TestBookCreateValidation(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()

	for _, body := range []string{
		`{"author":"Herbert"}`,
		`{"title":"Dune"}`,
		`{"title":"Dune","author":"Herbert","total_copies":0}`,
		`{"title":"Dune","author":"Herbert","total_copies":1,"available_copies":2}`,
	} {
		res := s.do(http.MethodPost, "/api/books", body, admin)
		assert.Equal(t, http.StatusBadRequest, res.code, body)
		assert.Equal(t, response.CodeValidation, res.env.ErrorCode, body)
	}
}

func TestBookDeleteInUse(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()
	member, _ := s.registerAndLogin("a@x.com", "p1")
	id := s.createBook(admin, `{"title":"Dune","author":"Herbert"}`)
	idStr := strconv.FormatInt(id, 10)

	res := s.do(http.MethodPost, "/api/borrow", `{"book_id":`+idStr+`}`, member)
	require.Equal(t, http.StatusCreated, res.code)

	res = s.do(http.MethodDelete, "/api/books/"+idStr, "", admin)
	assert.Equal(t, http.StatusConflict, res.code)
	assert.Equal(t, response.CodeBookInUse, res.env.ErrorCode)
}

func TestBookListing(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()
	s.createBook(admin, `{"title":"Dune","author":"Frank Herbert","category":"Science Fiction","price":10,"rating":5,"has_pdf":true}`)
	s.createBook(admin, `{"title":"Emma","author":"Jane Austen","category":"Classics","price":8,"rating":3}`)
	s.createBook(admin, `{"title":"Persuasion","author":"Jane Austen","category":"Classics","price":7,"rating":4}`)

	titles := func(res result) []string {
		var out []string
		for _, b := range res.data["books"].([]any) {
			out = append(out, b.(map[string]any)["title"].(string))
		}
		return out
	}

	tests := []struct {
		query string
		want  []string
	}{
		{query: "", want: []string{"Persuasion", "Emma", "Dune"}},
		{query: "?search=austen", want: []string{"Persuasion", "Emma"}},
		{query: "?category=Classics&sort=title_az", want: []string{"Emma", "Persuasion"}},
		{query: "?category=all&sort=rating", want: []string{"Dune", "Persuasion", "Emma"}},
		{query: "?limit=1", want: []string{"Persuasion"}},
		{query: "?search=100%25", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			res := s.do(http.MethodGet, "/api/books"+tt.query, "", "")
			require.Equal(t, http.StatusOK, res.code)
			assert.Equal(t, tt.want, titles(res))
		})
	}
}

func TestBookListingSubscriberPrice(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()
	s.createBook(admin, `{"title":"Dune","author":"Herbert","price":10,"has_pdf":true}`)
	member, memberID := s.registerAndLogin("a@x.com", "p1")

	firstBook := func(token string) map[string]any {
		res := s.do(http.MethodGet, "/api/books", "", token)
		require.Equal(t, http.StatusOK, res.code)
		return res.data["books"].([]any)[0].(map[string]any)
	}

	assert.Equal(t, float64(10), firstBook("")["display_price"])
	assert.Equal(t, float64(10), firstBook(member)["display_price"])
	assert.Equal(t, "Available", firstBook("")["availability"])

	res := s.do(http.MethodPut, "/api/admin/users/"+strconv.FormatInt(memberID, 10), `{"is_subscriber":true}`, admin)
	require.Equal(t, http.StatusOK, res.code)

	assert.Equal(t, float64(0), firstBook(member)["display_price"])
	assert.Equal(t, float64(10), firstBook(member)["price"])
	assert.Equal(t, float64(10), firstBook("garbage-token")["display_price"])
}

func TestCategoriesEndpoint(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()
	s.createBook(admin, `{"title":"A","author":"X","category":"Poetry"}`)
	s.createBook(admin, `{"title":"B","author":"X","category":"Drama"}`)

	res := s.do(http.MethodGet, "/api/categories", "", "")

	require.Equal(t, http.StatusOK, res.code)
	assert.Equal(t, []any{"Drama", "Poetry"}, res.data["categories"])
}

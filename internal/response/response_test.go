package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()

	Success(rec, http.StatusCreated, map[string]int64{"book_id": 7})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"success","data":{"book_id":7}}`, rec.Body.String())
}

func TestError(t *testing.T) {
	rec := httptest.NewRecorder()

	Error(rec, http.StatusNotFound, CodeNotFound, "book not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var env Envelope
	require.NoError(t, JSON.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, StatusError, env.Status)
	assert.Equal(t, CodeNotFound, env.ErrorCode)
	assert.Equal(t, "book not found", env.Message)
	assert.Nil(t, env.Data)
}

func TestMessage(t *testing.T) {
	rec := httptest.NewRecorder()

	Message(rec, http.StatusOK, "logged out")

	assert.JSONEq(t, `{"status":"success","message":"logged out"}`, rec.Body.String())
}

package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func respond(t *testing.T, err error) (*httptest.ResponseRecorder, HTTPError) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

	Respond(c, err)

	var body HTTPError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestRespondMapsKinds(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{ErrBusiness("invalid_state"), http.StatusBadRequest, "invalid_state"},
		{ErrUnauthenticated("invalid_token", "invalid token"), http.StatusUnauthorized, "invalid_token"},
		{ErrForbidden("forbidden", "no"), http.StatusForbidden, "forbidden"},
		{ErrNotFound("loan_not_found", "loan not found"), http.StatusNotFound, "loan_not_found"},
		{ErrConflict("insufficient_stock", "not enough"), http.StatusConflict, "insufficient_stock"},
		{fmt.Errorf("wrapped: %w", ErrConflict("username_taken", "taken")), http.StatusConflict, "username_taken"},
	}

	for _, tc := range cases {
		w, body := respond(t, tc.err)
		assert.Equal(t, tc.status, w.Code)
		assert.Equal(t, tc.code, body.Code)
		assert.NotEmpty(t, body.Message)
	}
}

func TestRespondHidesUnexpectedErrors(t *testing.T) {
	w, body := respond(t, errors.New("pq: connection refused to 10.0.0.1"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "something went wrong", body.Message)
	assert.NotContains(t, w.Body.String(), "10.0.0.1")
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, IsUniqueViolation(fmt.Errorf("create: %w", gorm.ErrDuplicatedKey)))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(nil))
}

func TestIsBusiness(t *testing.T) {
	err := fmt.Errorf("ctx: %w", ErrBusiness("invalid_date"))
	assert.True(t, IsBusiness(err, "invalid_date"))
	assert.False(t, IsBusiness(err, "invalid_state"))

	kind, ok := KindOf(ErrNotFound("x", "y"))
	assert.True(t, ok)
	assert.Equal(t, KindNotFound, kind)
}

func TestFieldErrors(t *testing.T) {
	type req struct {
		Name     string `validate:"required"`
		Quantity int    `validate:"gte=1"`
	}

	err := validator.New().Struct(req{})
	out := FieldErrors(err)

	require.Len(t, out, 2)
	assert.Equal(t, FieldError{Field: "Name", Message: "is required"}, out[0])
	assert.Equal(t, FieldError{Field: "Quantity", Message: "must be greater than or equal to 1"}, out[1])

	out = FieldErrors(errors.New("unexpected EOF"))
	assert.Equal(t, []FieldError{{Field: "_", Message: "unexpected EOF"}}, out)
}

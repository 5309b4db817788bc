package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/care-io/service-booking/pkg/domain"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.NewFieldValidationError("area", "location.area is required"), http.StatusBadRequest, "invalid_argument"},
		{domain.NewUnauthenticatedError(""), http.StatusUnauthorized, "unauthenticated"},
		{domain.NewForbiddenError("booking does not belong to this user"), http.StatusForbidden, "forbidden"},
		{domain.NewNotFoundError("Service", "1"), http.StatusNotFound, "not_found"},
		{domain.NewInvalidStateError("Completed", "Cancelled"), http.StatusConflict, "invalid_state"},
		{domain.NewConflictError("email already registered"), http.StatusConflict, "conflict"},
		{domain.NewStorageError("save booking", errors.New("boom")), http.StatusInternalServerError, "internal"},
		{errors.New("unexpected"), http.StatusInternalServerError, "internal"},
	}

	for _, tc := range cases {
		status, body := Classify(fmt.Errorf("wrapped: %w", tc.err))
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, body.Code, tc.err.Error())
	}
}

func TestError_HidesStorageDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, domain.NewStorageError("save booking", errors.New("pq: password authentication failed")))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "password authentication")

	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Equal(t, "internal", env.Error.Code)
}

func TestError_CarriesValidationField(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, domain.NewFieldValidationError("area", "location.area is required"))

	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "area", env.Error.Field)
	assert.Equal(t, "location.area is required", env.Error.Message)
}

func TestPaginated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Paginated(c, []string{"a"}, 21, 2, 10)

	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NotNil(t, env.Meta)
	assert.Equal(t, 3, env.Meta.TotalPages)
	assert.Equal(t, int64(21), env.Meta.Total)
}

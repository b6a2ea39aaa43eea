package dto

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	cases := map[string]int{
		ErrCodeInternal:        http.StatusInternalServerError,
		ErrCodeTimeout:         http.StatusGatewayTimeout,
		ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
		ErrCodeValidation:      http.StatusBadRequest,
		ErrCodeInvalidInput:    http.StatusBadRequest,
		ErrCodeNotFound:        http.StatusNotFound,
		ErrCodeConflict:        http.StatusConflict,
		ErrCodeInvalidState:    http.StatusUnprocessableEntity,
		"SOMETHING_ELSE":       http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, GetHTTPStatus(code), code)
	}
}

func TestNormalizeErrorCode_DomainCodes(t *testing.T) {
	for _, code := range []string{
		"INVALID_PERIOD", "INVALID_DATE", "INVALID_DATE_RANGE",
		"INVALID_STATUS", "INVALID_QUANTITY", "INVALID_PRICE", "INVALID_AMOUNT",
	} {
		assert.Equal(t, ErrCodeInvalidInput, NormalizeErrorCode(code), code)
	}
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode("NOT_FOUND"))
	assert.Equal(t, ErrCodeInvalidState, NormalizeErrorCode("INVALID_STATE"))
}

func TestNormalizeErrorCode_PassThrough(t *testing.T) {
	assert.Equal(t, ErrCodeTimeout, NormalizeErrorCode(ErrCodeTimeout))
	assert.Equal(t, "CUSTOM", NormalizeErrorCode("CUSTOM"))
}

func TestEveryMappedCodeHasStatus(t *testing.T) {
	for from, to := range domainCodes {
		_, ok := httpStatusByCode[to]
		assert.True(t, ok, "%s maps to %s which has no status", from, to)
		assert.True(t, strings.HasPrefix(to, "ERR_"), to)
	}
}

func TestNewErrorResponse_NormalizesCode(t *testing.T) {
	resp := NewErrorResponseWithRequestID("INVALID_PERIOD", "unknown period", "")

	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeInvalidInput, resp.Error.Code)
	assert.Equal(t, "unknown period", resp.Error.Message)
	assert.NotZero(t, resp.Error.Timestamp)
}

func TestNewErrorResponseWithHelp(t *testing.T) {
	resp := NewErrorResponseWithHelp(ErrCodeInvalidInput, "bad range", "req-7", "dates use YYYY-MM-DD")

	require.NotNil(t, resp.Error)
	assert.Equal(t, "req-7", resp.Error.RequestID)
	assert.Equal(t, "dates use YYYY-MM-DD", resp.Error.Help)
}

func TestNewValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("Validation failed", "req-9", []ValidationDetail{
		{Field: "period", Message: "period is required"},
	})

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "period", resp.Error.Details[0].Field)
}

func TestErrorResponse_JSONShape(t *testing.T) {
	before := time.Now()
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Order not found", "req-1")

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, false, body["success"])
	assert.NotContains(t, body, "data")

	info := body["error"].(map[string]any)
	assert.Equal(t, ErrCodeNotFound, info["code"])
	assert.Equal(t, "req-1", info["request_id"])
	assert.NotContains(t, info, "details")
	assert.False(t, resp.Error.Timestamp.Before(before))
}

func TestNewSuccessResponse(t *testing.T) {
	resp := NewSuccessResponse(map[string]string{"period": "monthly"})

	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Data)
	assert.Nil(t, resp.Error)
}

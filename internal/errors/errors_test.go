package errors

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-dashboard/internal/dataset"
)

func TestFromDataset(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   ErrorCode
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "missing file",
			err:        &dataset.UnavailableError{Path: "sales_data.csv", Err: fs.ErrNotExist},
			wantCode:   CodeDataUnavailable,
			wantStatus: http.StatusServiceUnavailable,
			wantMsg:    "Error: The file 'sales_data.csv' was not found. Please make sure it's in the same folder.",
		},
		{
			name:       "malformed file",
			err:        &dataset.MalformedError{Path: "sales_data.csv", Line: 4, Column: "Sales", Value: "x", Reason: "not a number"},
			wantCode:   CodeDataMalformed,
			wantStatus: http.StatusUnprocessableEntity,
			wantMsg:    "could not be parsed",
		},
		{
			name:       "cancelled",
			err:        context.Canceled,
			wantCode:   CodeDataUnavailable,
			wantStatus: http.StatusServiceUnavailable,
			wantMsg:    "interrupted",
		},
		{
			name:       "unknown",
			err:        stderrors.New("boom"),
			wantCode:   CodeInternal,
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "unexpected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := FromDataset(tt.err)
			assert.Equal(t, tt.wantCode, appErr.Code)
			assert.Equal(t, tt.wantStatus, appErr.StatusCode)
			assert.Contains(t, appErr.Message, tt.wantMsg)
			assert.ErrorIs(t, appErr, tt.err)
		})
	}
}

func TestFromDataset_PassesAppErrorThrough(t *testing.T) {
	original := BadRequest("limit must be a positive integer")
	assert.Same(t, original, FromDataset(original))
}

func TestWriteError(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	rec := httptest.NewRecorder()

	WriteError(rec, logger, &dataset.UnavailableError{Path: "x.csv", Err: fs.ErrNotExist}, "req-1")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code      string `json:"code"`
			Message   string `json:"message"`
			RequestID string `json:"request_id"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, string(CodeDataUnavailable), body.Error.Code)
	assert.Equal(t, "req-1", body.Error.RequestID)
	assert.Contains(t, body.Error.Message, "x.csv")
	assert.Contains(t, logs.String(), `"level":"ERROR"`)
}

func TestWriteError_ClientErrorsLogAtWarn(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	rec := httptest.NewRecorder()

	WriteError(rec, logger, BadRequest("bad limit"), "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, logs.String(), `"level":"WARN"`)
}

func TestWriteSuccessWithHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccessWithHeaders(rec, map[string]int{"total": 3}, map[string]string{"Cache-Control": "public, max-age=300"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=300", rec.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"data":{"total":3},"success":true}`, rec.Body.String())
}

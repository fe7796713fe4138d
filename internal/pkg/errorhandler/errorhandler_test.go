package errorhandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mwork/relay-api/internal/pkg/apperr"
	"github.com/mwork/relay-api/internal/pkg/response"
)

func TestHandleErrorMapsKinds(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"not found", apperr.NotFound("friend request not found"), http.StatusNotFound, "NOT_FOUND", "friend request not found"},
		{"wrapped conflict", fmt.Errorf("send: %w", apperr.Conflict("already contacts")), http.StatusConflict, "CONFLICT", "already contacts"},
		{"invalid state", apperr.InvalidState("report already resolved"), http.StatusConflict, "INVALID_STATE", "report already resolved"},
		{"forbidden", apperr.Forbidden("admin role required"), http.StatusForbidden, "FORBIDDEN", "admin role required"},
		{"persistence", apperr.Persistence("report resolve", errors.New("deadlock")), http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"},
		{"untyped", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			HandleError(context.Background(), rr, tt.err)

			if rr.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, rr.Code)
			}
			var resp response.Response
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.Success || resp.Error == nil {
				t.Fatalf("expected error envelope, got %+v", resp)
			}
			if resp.Error.Code != tt.code || resp.Error.Message != tt.message {
				t.Fatalf("expected %s/%q, got %s/%q", tt.code, tt.message, resp.Error.Code, resp.Error.Message)
			}
		})
	}
}

func TestHandlePanicAnswers500(t *testing.T) {
	rr := httptest.NewRecorder()
	HandlePanic(context.Background(), rr, "nil map write", "stack")

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
}

package friendship

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/mwork/relay-api/internal/middleware"
	"github.com/mwork/relay-api/internal/pkg/response"
)

func asUser(id uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.UserIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var resp response.Response
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v (%s)", err, w.Body.String())
		}
	}
	return w, resp
}

func TestHandlerSendAndAccept(t *testing.T) {
	svc, m := newTestService()
	alice, bob := m.addUser("alice"), m.addUser("bob")
	h := NewHandler(svc)

	w, _ := do(t, h.Routes(asUser(alice)), http.MethodPost, "/", `{"to_user_id":"`+bob.String()+`"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var requestID uuid.UUID
	for id := range m.requests {
		requestID = id
	}

	w, _ = do(t, h.Routes(asUser(alice)), http.MethodPost, "/"+requestID.String()+"/accept", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("sender accepting: expected 404, got %d", w.Code)
	}

	w, _ = do(t, h.Routes(asUser(bob)), http.MethodPost, "/"+requestID.String()+"/accept", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w, resp := do(t, h.Routes(asUser(bob)), http.MethodPost, "/"+requestID.String()+"/reject", "")
	if w.Code != http.StatusConflict || resp.Error == nil || resp.Error.Code != "INVALID_STATE" {
		t.Fatalf("expected 409 INVALID_STATE, got %d %+v", w.Code, resp.Error)
	}
}

func TestHandlerSendValidation(t *testing.T) {
	svc, m := newTestService()
	alice := m.addUser("alice")
	routes := NewHandler(svc).Routes(asUser(alice))

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed json", `{`, http.StatusBadRequest},
		{"unknown field", `{"to":"x"}`, http.StatusBadRequest},
		{"missing recipient", `{}`, http.StatusUnprocessableEntity},
		{"bad uuid", `{"to_user_id":"nope"}`, http.StatusUnprocessableEntity},
		{"self", `{"to_user_id":"` + alice.String() + `"}`, http.StatusBadRequest},
		{"unknown recipient", `{"to_user_id":"` + uuid.New().String() + `"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := do(t, routes, http.MethodPost, "/", tt.body)
			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, w.Code, w.Body.String())
			}
		})
	}
}

func TestHandlerAcceptInvalidID(t *testing.T) {
	svc, m := newTestService()
	routes := NewHandler(svc).Routes(asUser(m.addUser("bob")))

	w, _ := do(t, routes, http.MethodPost, "/not-a-uuid/accept", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

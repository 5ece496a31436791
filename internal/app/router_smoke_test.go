package app

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRouterSmoke(t *testing.T) {
	router := NewRouter(Config{
		CSRFEnforced:        false,
		AuthRateLimitPerMin: 60,
		OperatorEmail:       "usuario@exemplo.com",
	}, nil, nil)

	tests := []struct {
		name       string
		method     string
		target     string
		wantStatus int
	}{
		{name: "healthz", method: http.MethodGet, target: "/healthz", wantStatus: http.StatusOK},
		{name: "metrics", method: http.MethodGet, target: "/metrics", wantStatus: http.StatusOK},
		{name: "login_invalid_body", method: http.MethodPost, target: "/api/v1/auth/login", wantStatus: http.StatusBadRequest},
		{name: "auth_me_unauthorized", method: http.MethodGet, target: "/api/v1/auth/me", wantStatus: http.StatusUnauthorized},
		{name: "questions_unauthorized", method: http.MethodGet, target: "/api/v1/questions", wantStatus: http.StatusUnauthorized},
		{name: "exams_unauthorized", method: http.MethodGet, target: "/api/v1/exams", wantStatus: http.StatusUnauthorized},
		{name: "import_unauthorized", method: http.MethodPost, target: "/api/v1/questions/import", wantStatus: http.StatusUnauthorized},
		{name: "export_unauthorized", method: http.MethodGet, target: "/api/v1/exams/1/export", wantStatus: http.StatusUnauthorized},
		{name: "summary_unauthorized", method: http.MethodGet, target: "/api/v1/report/summary", wantStatus: http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.target, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tc.wantStatus {
				t.Fatalf("%s %s: got status %d, want %d", tc.method, tc.target, w.Code, tc.wantStatus)
			}
		})
	}
}

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestValidateAgentKey(t *testing.T) {
	if err := ValidateAgentKey("", "secret"); err != ErrMissingAgentKey {
		t.Fatalf("expected ErrMissingAgentKey, got %v", err)
	}
	if err := ValidateAgentKey("wrong", "secret"); err != ErrInvalidAgentKey {
		t.Fatalf("expected ErrInvalidAgentKey, got %v", err)
	}
	if err := ValidateAgentKey("secret", "secret"); err != nil {
		t.Fatalf("expected valid key, got %v", err)
	}
}

func TestAgentAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AgentAuthMiddleware("secret"))
	r.POST("/report", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"malformed header", "Token secret", http.StatusUnauthorized},
		{"wrong key", "Bearer nope", http.StatusUnauthorized},
		{"valid key", "Bearer secret", http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequestWithContext(context.Background(), "POST", "/report", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, w.Code)
			}
		})
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"bookhaven.id/bookreview/internal/entity"
	"bookhaven.id/bookreview/pkg/auth"
	"bookhaven.id/bookreview/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func newTestRouter(tokens *auth.TokenManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	m := NewAuthMiddleware(tokens)

	protected := router.Group("", m.RequireAuth())
	protected.GET("/whoami", func(c *gin.Context) {
		claims, err := response.GetClaims(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"email": claims.Email, "role": claims.Role})
	})

	adminOnly := protected.Group("", m.RequireAdmin())
	adminOnly.GET("/admin-area", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	return router
}

func request(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(TokenHeader, token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequireAuthMissingToken(t *testing.T) {
	router := newTestRouter(auth.NewTokenManager("test-secret"))

	if w := request(router, "/whoami", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
}

func TestRequireAuthInvalidToken(t *testing.T) {
	router := newTestRouter(auth.NewTokenManager("test-secret"))

	if w := request(router, "/whoami", "garbage"); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with garbage token, got %d", w.Code)
	}

	other := auth.NewTokenManager("other-secret")
	token, err := other.Generate(uuid.New(), "x@y.z", "X", entity.RoleUser)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if w := request(router, "/whoami", token); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with foreign-secret token, got %d", w.Code)
	}
}

func TestRequireAuthValidToken(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret")
	router := newTestRouter(tokens)

	token, err := tokens.Generate(uuid.New(), "ana@example.com", "Ana", entity.RoleUser)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	w := request(router, "/whoami", token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRequireAuthTokenViaQueryParam(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret")
	router := newTestRouter(tokens)

	token, err := tokens.Generate(uuid.New(), "ws@example.com", "WS", entity.RoleUser)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami?token="+token, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with query token, got %d", w.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret")
	router := newTestRouter(tokens)

	userToken, err := tokens.Generate(uuid.New(), "user@example.com", "User", entity.RoleUser)
	if err != nil {
		t.Fatalf("generate user token: %v", err)
	}
	if w := request(router, "/admin-area", userToken); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", w.Code)
	}

	adminToken, err := tokens.Generate(uuid.New(), "admin@example.com", "Admin", entity.RoleAdmin)
	if err != nil {
		t.Fatalf("generate admin token: %v", err)
	}
	if w := request(router, "/admin-area", adminToken); w.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", w.Code)
	}
}

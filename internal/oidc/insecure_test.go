package oidc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"github.com/zerpitt/prompt-keeper-project/pkg/middleware"
)

func mint(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("any-key"))
	require.NoError(t, err)
	return s
}

func TestInsecureVerifier_ParsesClaims(t *testing.T) {
	raw := mint(t, jwt.MapClaims{"sub": "user-1", "email": "a@example.com", "exp": time.Now().Add(time.Hour).Unix()})

	tok, err := NewInsecureVerifier().Verify(context.Background(), raw)
	require.NoError(t, err)
	var claims struct {
		Sub   string `json:"sub"`
		Email string `json:"email"`
	}
	require.NoError(t, tok.Claims(&claims))
	require.Equal(t, "user-1", claims.Sub)
	require.Equal(t, "a@example.com", claims.Email)
}

func TestInsecureVerifier_Rejects(t *testing.T) {
	v := NewInsecureVerifier()
	_, err := v.Verify(context.Background(), "not-a-jwt")
	require.Error(t, err)

	expired := mint(t, jwt.MapClaims{"sub": "user-1", "exp": time.Now().Add(-time.Hour).Unix()})
	_, err = v.Verify(context.Background(), expired)
	require.Error(t, err)
}

func TestInsecureVerifier_WithAuthMiddleware(t *testing.T) {
	g := gin.New()
	g.GET("/", middleware.AuthMiddleware(NewInsecureVerifier()), func(c *gin.Context) {
		c.String(http.StatusOK, middleware.UserID(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mint(t, jwt.MapClaims{"sub": "owner-7"}))
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "owner-7", w.Body.String())
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumea_back_end/internal/models"
	"lumea_back_end/internal/utils"
)

func authTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthRequired(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id")})
	})
	return r
}

func TestAuthRequiredAcceptsIssuedToken(t *testing.T) {
	// La clé n'existe que dans l'environnement au moment de la requête, pas au
	// chargement du package : l'émission et la vérification doivent quand même
	// partager la même clé
	t.Setenv("JWT_SECRET", "cle-de-test")

	token, err := utils.GenerateJWT(models.User{ID: "u-1", Email: "a@b.fr", Role: "user"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	authTestRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"u-1"`)
}

func TestAuthRequiredSharedFallbackSecret(t *testing.T) {
	// Sans JWT_SECRET, émission et vérification retombent sur la même clé par
	// défaut — un token émis reste vérifiable
	t.Setenv("JWT_SECRET", "")

	token, err := utils.GenerateJWT(models.User{ID: "u-2", Email: "c@d.fr", Role: "user"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	authTestRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRequiredRejectsBadTokens(t *testing.T) {
	t.Setenv("JWT_SECRET", "cle-de-test")

	cases := []struct {
		name   string
		header string
	}{
		{"header absent", ""},
		{"format invalide", "Token abc"},
		{"token forgé", "Bearer eyJhbGciOiJIUzI1NiJ9.e30.invalide"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			authTestRouter().ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAuthRequiredRejectsTokenSignedWithOtherKey(t *testing.T) {
	t.Setenv("JWT_SECRET", "ancienne-cle")
	token, err := utils.GenerateJWT(models.User{ID: "u-3", Email: "e@f.fr", Role: "user"})
	require.NoError(t, err)

	// La clé change : les tokens émis avant ne sont plus acceptés
	t.Setenv("JWT_SECRET", "nouvelle-cle")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	authTestRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

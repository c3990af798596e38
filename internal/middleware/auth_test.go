package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fundloop/fundloop/backend/internal/utils"
	"github.com/gin-gonic/gin"
)

func protectedRouter() *gin.Engine {
	router := gin.New()
	router.Use(AuthRequired())
	router.GET("/me", func(c *gin.Context) {
		c.JSON(200, gin.H{"user_id": GetUserID(c), "role": GetRole(c)})
	})
	return router
}

func TestAuthRequired_MissingHeader(t *testing.T) {
	utils.SetJWTSecret("middleware-test-secret")
	router := protectedRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/me", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, expected %d", w.Code, http.StatusUnauthorized)
	}
}

func TestAuthRequired_BadFormat(t *testing.T) {
	utils.SetJWTSecret("middleware-test-secret")
	router := protectedRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Token abc")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, expected %d", w.Code, http.StatusUnauthorized)
	}
}

func TestAuthRequired_ValidToken(t *testing.T) {
	utils.SetJWTSecret("middleware-test-secret")
	router := protectedRouter()

	token, err := utils.GenerateToken(7, "alice", "user", 1)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, expected %d", w.Code, http.StatusOK)
	}
}

func TestAdminRequired(t *testing.T) {
	utils.SetJWTSecret("middleware-test-secret")

	router := gin.New()
	router.Use(AuthRequired(), AdminRequired())
	router.GET("/admin", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	userToken, _ := utils.GenerateToken(1, "alice", "user", 1)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("user status = %d, expected %d", w.Code, http.StatusForbidden)
	}

	adminToken, _ := utils.GenerateToken(2, "root", "admin", 1)
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("admin status = %d, expected %d", w.Code, http.StatusOK)
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/hanifahuq/MelloBackend/models"
	"github.com/hanifahuq/MelloBackend/utils"
)

func roleTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	utils.Logger = zap.NewNop()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/users", nil)
	return c, w
}

func TestRoleMiddlewareAllowsMatchingRole(t *testing.T) {
	c, _ := roleTestContext(t)
	c.Set("user", models.User{Role: models.RoleAdmin})

	RoleMiddleware(models.RoleAdmin)(c)
	assert.False(t, c.IsAborted())
}

func TestRoleMiddlewareForbidsOtherRoles(t *testing.T) {
	c, w := roleTestContext(t)
	c.Set("user", models.User{Role: models.RoleUser})

	RoleMiddleware(models.RoleAdmin)(c)
	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRoleMiddlewareRequiresAuthenticatedUser(t *testing.T) {
	c, w := roleTestContext(t)

	RoleMiddleware(models.RoleAdmin)(c)
	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

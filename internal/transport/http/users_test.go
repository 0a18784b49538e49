package http

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	req := require.New(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterUsers(r.Group("/api/users"))

	w, u := do(t, r, http.MethodPost, "/api/users", gin.H{"name": " Alice "})
	req.Equal(http.StatusCreated, w.Code)
	req.Equal("Alice", u["name"])
	req.NotEmpty(u["id"])

	w, body := do(t, r, http.MethodPost, "/api/users", gin.H{"name": strings.Repeat("x", 37)})
	req.Equal(http.StatusBadRequest, w.Code)
	req.Equal("display name too long", body["error"])

	w, _ = do(t, r, http.MethodPost, "/api/users", gin.H{})
	req.Equal(http.StatusBadRequest, w.Code)
}

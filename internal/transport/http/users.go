package http

import (
	"net/http"

	"github.com/dkeye/Meet/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type CreateUserRequest struct {
	Name string `json:"name" binding:"required"`
}

// RegisterUsers mounts POST / which issues a visitor identity for a name.
// Identities are not stored; the frontend keeps the returned id.
func RegisterUsers(g *gin.RouterGroup) {
	g.POST("", createUser)
}

func createUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid name"})
		return
	}
	u, err := domain.NewUser(req.Name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	log.Info().Str("module", "transport.http").Str("user", string(u.ID)).Msg("user created")
	c.JSON(http.StatusCreated, u)
}

package server

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ifuryst/beacon/internal/service"
)

const principalKey = "principal"

// requireAdmin rejects the request unless it carries a live session token.
func (s *Server) requireAdmin(c *gin.Context) {
	principal, err := s.Auth.Authenticate(c.Request.Context(), bearerToken(c))
	if err != nil {
		s.fail(c, err)
		return
	}

	c.Set(principalKey, principal)
	c.Next()
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func principal(c *gin.Context) *service.Principal {
	if v, exists := c.Get(principalKey); exists {
		if p, isPrincipal := v.(*service.Principal); isPrincipal {
			return p
		}
	}
	return nil
}

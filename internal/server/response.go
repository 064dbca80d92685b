package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ifuryst/beacon/internal/apperr"
)

const requestIDKey = "request_id"

// envelope is the body of every API response.
type envelope struct {
	Success bool                `json:"success"`
	Data    any                 `json:"data,omitempty"`
	Message string              `json:"message,omitempty"`
	Fields  []apperr.FieldError `json:"fields,omitempty"`
}

func ok(c *gin.Context, status int, data any) {
	c.JSON(status, envelope{Success: true, Data: data})
}

// fail writes the client-safe form of err. Internal causes are logged, never sent.
func (s *Server) fail(c *gin.Context, err error) {
	appErr := apperr.From(err)

	if appErr.Kind == apperr.KindInternal || appErr.Kind == apperr.KindUpstreamTimeout {
		s.Logger.Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.String("kind", appErr.Kind.String()),
			zap.Error(err))
	}

	c.AbortWithStatusJSON(appErr.Kind.Status(), envelope{
		Message: appErr.Message,
		Fields:  appErr.Fields,
	})
}

// bind decodes the JSON body into in and runs its binding rules.
func bind(c *gin.Context, in any) error {
	if err := c.ShouldBindJSON(in); err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return appErr
		}
		return apperr.Validation(apperr.FieldError{Field: "body", Message: "must be a valid JSON object"})
	}
	return nil
}

func created(c *gin.Context, id uint, slug string) {
	ok(c, http.StatusCreated, gin.H{"id": id, "slug": slug})
}

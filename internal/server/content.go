package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ifuryst/beacon/internal/query"
	"github.com/ifuryst/beacon/internal/service"
)

// contentService is the part of service.ContentService the handlers use.
type contentService[T any, PT service.Entity] interface {
	Definition() *query.Definition
	List(ctx context.Context, scope query.Scope, req query.Request) (*query.Page[T], error)
	Get(ctx context.Context, scope query.Scope, key string) (PT, error)
	Create(ctx context.Context, in service.Input[T]) (PT, error)
	Update(ctx context.Context, id uint, in service.Input[T]) (PT, error)
	Delete(ctx context.Context, id uint) error
	Transition(ctx context.Context, id uint, status string) (PT, error)
}

type resource[T any, PT service.Entity] struct {
	path  string
	svc   contentService[T, PT]
	input func() service.Input[T]
}

type statusInput struct {
	Status string `json:"status" binding:"required"`
}

// registerContent mounts the public, admin and mutation routes of one resource.
func registerContent[T any, PT service.Entity](api, admin *gin.RouterGroup, gate gin.HandlerFunc, r *resource[T, PT], s *Server) {
	base := "/" + r.path

	api.GET(base, r.list(s, query.Public))
	api.GET(base+"/:key", r.get(s, query.Public))
	admin.GET(base, r.list(s, query.Admin))
	admin.GET(base+"/:key", r.get(s, query.Admin))

	api.POST(base, gate, r.create(s))
	api.PUT(base+"/:key", gate, r.update(s))
	api.DELETE(base+"/:key", gate, r.delete(s))
	api.PATCH(base+"/:key/status", gate, r.status(s))
}

func (r *resource[T, PT]) list(s *Server, scope query.Scope) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := s.listRequest(c, r.svc.Definition())
		if err != nil {
			s.fail(c, err)
			return
		}

		page, err := r.svc.List(c.Request.Context(), scope, req)
		if err != nil {
			s.fail(c, err)
			return
		}
		ok(c, http.StatusOK, page)
	}
}

func (r *resource[T, PT]) get(s *Server, scope query.Scope) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, err := r.svc.Get(c.Request.Context(), scope, c.Param("key"))
		if err != nil {
			s.fail(c, err)
			return
		}
		ok(c, http.StatusOK, rec)
	}
}

func (r *resource[T, PT]) create(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		in := r.input()
		if err := bind(c, in); err != nil {
			s.fail(c, err)
			return
		}

		rec, err := r.svc.Create(c.Request.Context(), in)
		if err != nil {
			s.fail(c, err)
			return
		}
		created(c, rec.GetID(), rec.GetSlug())
	}
}

func (r *resource[T, PT]) update(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c, "key")
		if err != nil {
			s.fail(c, err)
			return
		}

		in := r.input()
		if err := bind(c, in); err != nil {
			s.fail(c, err)
			return
		}

		rec, err := r.svc.Update(c.Request.Context(), id, in)
		if err != nil {
			s.fail(c, err)
			return
		}
		ok(c, http.StatusOK, rec)
	}
}

func (r *resource[T, PT]) delete(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c, "key")
		if err != nil {
			s.fail(c, err)
			return
		}

		if err := r.svc.Delete(c.Request.Context(), id); err != nil {
			s.fail(c, err)
			return
		}
		ok(c, http.StatusOK, gin.H{"id": id})
	}
}

func (r *resource[T, PT]) status(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c, "key")
		if err != nil {
			s.fail(c, err)
			return
		}

		var in statusInput
		if err := bind(c, &in); err != nil {
			s.fail(c, err)
			return
		}

		rec, err := r.svc.Transition(c.Request.Context(), id, in.Status)
		if err != nil {
			s.fail(c, err)
			return
		}
		ok(c, http.StatusOK, rec)
	}
}

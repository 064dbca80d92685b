package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ifuryst/beacon/internal/service"
)

type sessionResponse struct {
	Token     string    `json:"token"`
	Subject   string    `json:"subject"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var in service.LoginInput
	if err := bind(c, &in); err != nil {
		s.fail(c, err)
		return
	}

	token, p, err := s.Auth.Login(c.Request.Context(), &in)
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, sessionResponse{Token: token, Subject: p.Subject, ExpiresAt: p.ExpiresAt})
}

func (s *Server) handleLogout(c *gin.Context) {
	if err := s.Auth.Logout(c.Request.Context(), bearerToken(c)); err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"logged_out": true})
}

func (s *Server) handleMe(c *gin.Context) {
	ok(c, http.StatusOK, principal(c))
}

func (s *Server) handleCategories(c *gin.Context) {
	categories, err := s.Taxonomy.Categories(c.Request.Context(), c.Query("kind"))
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, categories)
}

func (s *Server) handleCreateCategory(c *gin.Context) {
	var in service.CategoryInput
	if err := bind(c, &in); err != nil {
		s.fail(c, err)
		return
	}

	cat, err := s.Taxonomy.CreateCategory(c.Request.Context(), &in)
	if err != nil {
		s.fail(c, err)
		return
	}
	created(c, cat.ID, cat.Slug)
}

func (s *Server) handleTags(c *gin.Context) {
	tags, err := s.Taxonomy.Tags(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, tags)
}

func (s *Server) handleAuthors(c *gin.Context) {
	authors, err := s.Taxonomy.Authors(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, authors)
}

func (s *Server) handleCreateAuthor(c *gin.Context) {
	var in service.AuthorInput
	if err := bind(c, &in); err != nil {
		s.fail(c, err)
		return
	}

	author, err := s.Taxonomy.CreateAuthor(c.Request.Context(), &in)
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"id": author.ID})
}

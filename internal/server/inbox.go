package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ifuryst/beacon/internal/service"
)

func (s *Server) handleSubmitContact(c *gin.Context) {
	var in service.ContactInput
	if err := bind(c, &in); err != nil {
		s.fail(c, err)
		return
	}

	sub, err := s.Inbox.SubmitContact(c.Request.Context(), &in, c.ClientIP())
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"id": sub.ID})
}

func (s *Server) handleApply(c *gin.Context) {
	var in service.ApplicationInput
	if err := bind(c, &in); err != nil {
		s.fail(c, err)
		return
	}

	app, err := s.Inbox.Apply(c.Request.Context(), c.Param("key"), &in)
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"id": app.ID})
}

func (s *Server) handleListContacts(c *gin.Context) {
	req, err := s.listRequest(c, service.ContactDefinition)
	if err != nil {
		s.fail(c, err)
		return
	}

	page, err := s.Inbox.ListContacts(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, page)
}

func (s *Server) handleGetContact(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		s.fail(c, err)
		return
	}

	sub, err := s.Inbox.GetContact(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, sub)
}

func (s *Server) handleContactStatus(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		s.fail(c, err)
		return
	}

	var in statusInput
	if err := bind(c, &in); err != nil {
		s.fail(c, err)
		return
	}

	sub, err := s.Inbox.SetContactStatus(c.Request.Context(), id, in.Status)
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, sub)
}

func (s *Server) handleListApplications(c *gin.Context) {
	req, err := s.listRequest(c, service.ApplicationDefinition)
	if err != nil {
		s.fail(c, err)
		return
	}

	page, err := s.Inbox.ListApplications(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, page)
}

func (s *Server) handleGetApplication(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		s.fail(c, err)
		return
	}

	app, err := s.Inbox.GetApplication(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, app)
}

func (s *Server) handleApplicationStatus(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		s.fail(c, err)
		return
	}

	var in statusInput
	if err := bind(c, &in); err != nil {
		s.fail(c, err)
		return
	}

	app, err := s.Inbox.SetApplicationStatus(c.Request.Context(), id, in.Status)
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, app)
}

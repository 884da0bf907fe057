package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"proyectos/internal/models"
	"proyectos/internal/storage"
)

type projectRequest struct {
	Name        string `json:"nombre"`
	Description string `json:"descripcion"`
	Image       string `json:"imagen"`
	CreatedAt   string `json:"fecha"`
}

// handleListProjects returns all available projects.
func (s *Server) handleListProjects(c *gin.Context) {
	projects, err := s.store.ListProjects(c.Request.Context())
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	if projects == nil {
		projects = []models.Project{}
	}
	respondSuccess(c, http.StatusOK, projects)
}

// handleCreateProject creates a new project entity.
func (s *Server) handleCreateProject(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	project, err := s.store.CreateProject(c.Request.Context(), models.Project{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		CreatedAt:   req.CreatedAt,
	})
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if s.metrics != nil {
		s.metrics.ProjectsCreated.Inc()
	}
	respondSuccess(c, http.StatusCreated, project)
}

// handleGetProject returns a single project.
func (s *Server) handleGetProject(c *gin.Context) {
	project, err := s.store.GetProject(c.Request.Context(), c.Param("id"))
	if errors.Is(err, storage.ErrNotFound) {
		s.respondNotFound(c)
		return
	}
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondSuccess(c, http.StatusOK, project)
}

// handleUpdateProject applies a full or partial replacement.
func (s *Server) handleUpdateProject(c *gin.Context) {
	var patch models.ProjectPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	project, err := s.store.UpdateProject(c.Request.Context(), c.Param("id"), patch)
	if errors.Is(err, storage.ErrNotFound) {
		s.respondNotFound(c)
		return
	}
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	respondSuccess(c, http.StatusOK, project)
}

// handleDeleteProject removes a project.
func (s *Server) handleDeleteProject(c *gin.Context) {
	err := s.store.DeleteProject(c.Request.Context(), c.Param("id"))
	if errors.Is(err, storage.ErrNotFound) {
		s.respondNotFound(c)
		return
	}
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	if s.metrics != nil {
		s.metrics.ProjectsDeleted.Inc()
	}
	respondSuccess(c, http.StatusOK, gin.H{"message": "Proyecto eliminado"})
}

func (s *Server) respondNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"message": "Proyecto no encontrado"})
}

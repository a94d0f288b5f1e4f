package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/milad-sol/task-manager/internal/apperrors"
	"github.com/milad-sol/task-manager/internal/dto"
	"github.com/milad-sol/task-manager/internal/middleware"
	"github.com/milad-sol/task-manager/internal/services"
	"github.com/milad-sol/task-manager/internal/utils"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// CreateProject creates a new project owned by the actor
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "")
		return
	}

	project, err := h.projectService.CreateProject(actor, services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// ListProjects returns the projects visible to the actor
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	projects, total, err := h.projectService.ListProjects(actor, params.Page, params.Limit)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectListResponse(projects, params.Page, params.Limit, total))
}

// GetProject returns a single visible project
func (h *ProjectHandler) GetProject(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(actor, id)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// UpdateProject edits project fields (owner only)
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "")
		return
	}

	project, err := h.projectService.UpdateProject(actor, id, services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// DeleteProject removes a project and its tasks (owner only)
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(actor, id); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SetMembers applies a batch of membership additions and removals
func (h *ProjectHandler) SetMembers(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	var req struct {
		Add    []uint64 `json:"add"`
		Remove []uint64 `json:"remove"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "")
		return
	}

	project, err := h.projectService.SetMembers(actor, id, services.SetMembersInput{
		Add:    req.Add,
		Remove: req.Remove,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// parseID reads the :id path parameter; on failure it writes a 400 response.
func parseID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apperrors.BadRequest(c, "Invalid id")
		return 0, false
	}
	return id, true
}

func parseUint(raw string) (uint64, error) {
	return strconv.ParseUint(raw, 10, 64)
}

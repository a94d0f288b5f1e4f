package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/milad-sol/task-manager/internal/apperrors"
	"github.com/milad-sol/task-manager/internal/dto"
	"github.com/milad-sol/task-manager/internal/middleware"
	"github.com/milad-sol/task-manager/internal/services"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetProfile returns the current user and the projects visible to them
func (h *UserHandler) GetProfile(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	user, projects, err := h.userService.Profile(actor)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProfileResponse(*user, projects))
}

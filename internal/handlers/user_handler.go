package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "igen/internal/errors"
	"igen/internal/models"
	"igen/internal/services"
)

// UserHandler handles user administration.
type UserHandler struct {
	userService  services.UserServicer
	auditService services.AuditServicer
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService services.UserServicer, auditService services.AuditServicer) *UserHandler {
	return &UserHandler{userService: userService, auditService: auditService}
}

// CreateUserRequest represents the request payload for creating a user.
type CreateUserRequest struct {
	UserID     string   `json:"user_id" binding:"required,min=3,max=150"`
	Password   string   `json:"password" binding:"required,min=8,max=128"`
	FullName   string   `json:"full_name" binding:"max=255"`
	Role       string   `json:"role" binding:"required,user_role"`
	CompanyIDs []string `json:"company_ids" binding:"omitempty,dive,uuid"`
}

// CreateUser creates a user
// @Summary     Create a user
// @Description Create a user with a role and company assignments (super users only)
// @Tags        users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateUserRequest true "User details"
// @Success     201 {object} UserResponse "User created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     409 {object} ErrorResponse "Duplicate user id"
// @Router      /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.CreateUser(services.CreateUserRequest{
		UserID:     req.UserID,
		Password:   req.Password,
		FullName:   req.FullName,
		Role:       models.Role(req.Role),
		CompanyIDs: req.CompanyIDs,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actorID, "CREATE_USER", "user", user.ID, c.ClientIP(),
		map[string]any{"user_id": user.UserID, "role": user.Role, "company_ids": req.CompanyIDs})

	c.JSON(http.StatusCreated, gin.H{"user": newUserResponse(user)})
}

// DeleteUser soft-deletes a user
// @Summary     Delete a user
// @Description Soft-delete a user (super users only)
// @Tags        users
// @Security    BearerAuth
// @Param       id path string true "User ID"
// @Success     204 "Deleted"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := requireParam(c.Param("id"), "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if id == actorID {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "You cannot delete your own account"))
		return
	}

	if err := h.userService.DeleteUser(id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actorID, "DELETE_USER", "user", id, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}

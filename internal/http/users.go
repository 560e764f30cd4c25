package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/azrova/azrovadash/internal/service"
)

func (h *Handler) Profile(c *gin.Context) {
	h.render(c, http.StatusOK, "profile.html", gin.H{})
}

// ListUsers shows the local user directory. Any authenticated user can view
// the list; the mutating actions below are admin-only.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.accounts.ListUsers(c.Request.Context())
	if err != nil {
		h.render(c, http.StatusOK, "users.html", gin.H{
			"users":     nil,
			"loadError": "Could not load users. Please try again later.",
		})
		return
	}

	h.render(c, http.StatusOK, "users.html", gin.H{
		"users": users,
	})
}

func (h *Handler) ToggleRole(c *gin.Context) {
	actor := sessionUser(c)

	targetID, ok := parseUserID(c)
	if !ok {
		return
	}

	if err := h.accounts.ToggleRole(c.Request.Context(), actor.ID, targetID); err != nil {
		switch {
		case errors.Is(err, service.ErrSelfTarget):
			c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot change your own role."})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update the user role."})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) AdminDeleteUser(c *gin.Context) {
	actor := sessionUser(c)

	targetID, ok := parseUserID(c)
	if !ok {
		return
	}

	if err := h.accounts.AdminDeleteUser(c.Request.Context(), actor.ID, targetID); err != nil {
		switch {
		case errors.Is(err, service.ErrSelfTarget):
			c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot delete your own account from here."})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrOwningServers):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete the user."})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func parseUserID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID."})
		return 0, false
	}
	return id, true
}

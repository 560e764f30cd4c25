package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/azrova/azrovadash/internal/service"
)

func (h *Handler) SettingsPage(c *gin.Context) {
	h.render(c, http.StatusOK, "settings.html", gin.H{})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	user := sessionUser(c)

	username := c.PostForm("username")
	email := c.PostForm("email")
	lastName := c.PostForm("lastName")

	err := h.accounts.UpdateProfile(c.Request.Context(), user.ID, user.Email, username, email, lastName)
	if err != nil {
		var partial *service.PartialFailureError
		if errors.As(err, &partial) {
			redirectError(c, "/settings", "Profile update partially completed. Please contact an administrator.")
			return
		}
		redirectError(c, "/settings", userMessage(err, "Failed to update your profile."))
		return
	}

	// The session snapshot carries the identity shown in the nav; refresh it
	// so the change is visible without a re-login.
	if err := updateSessionProfile(c, username, email); err != nil {
		redirectError(c, "/settings", "Profile updated, but your session could not be refreshed. Please log in again.")
		return
	}

	redirectSuccess(c, "/settings", "Profile updated successfully.")
}

func (h *Handler) ChangePassword(c *gin.Context) {
	user := sessionUser(c)

	current := c.PostForm("currentPassword")
	newPassword := c.PostForm("newPassword")
	confirm := c.PostForm("confirmPassword")

	err := h.accounts.ChangePassword(c.Request.Context(), user.ID, user.Email, current, newPassword, confirm)
	if err != nil {
		redirectError(c, "/settings", userMessage(err, "Failed to change your password."))
		return
	}

	redirectSuccess(c, "/settings", "Password changed successfully.")
}

func (h *Handler) DeleteAccount(c *gin.Context) {
	user := sessionUser(c)

	err := h.accounts.DeleteAccount(c.Request.Context(), user.ID, user.Email)
	if err != nil {
		var partial *service.PartialFailureError
		if errors.As(err, &partial) {
			redirectError(c, "/settings", "Account deletion partially completed. Please contact an administrator.")
			return
		}
		redirectError(c, "/settings", userMessage(err, "Failed to delete your account."))
		return
	}

	if err := destroySession(c); err != nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	redirectSuccess(c, "/login", "Your account has been deleted.")
}

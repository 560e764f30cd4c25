package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/azrova/azrovadash/internal/service"
)

func (h *Handler) LoginPage(c *gin.Context) {
	if currentUser(c) != nil {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	h.render(c, http.StatusOK, "login.html", gin.H{})
}

func (h *Handler) Login(c *gin.Context) {
	login := c.PostForm("login")
	password := c.PostForm("password")

	if login == "" || password == "" {
		redirectError(c, "/login", "All fields are required.")
		return
	}

	user, err := h.accounts.Login(c.Request.Context(), login, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			redirectError(c, "/login", err.Error())
			return
		}
		redirectError(c, "/login", "Something went wrong. Please try again.")
		return
	}

	if err := loginSession(c, user); err != nil {
		redirectError(c, "/login", "Could not establish a session. Please try again.")
		return
	}

	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *Handler) RegisterPage(c *gin.Context) {
	if currentUser(c) != nil {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	h.render(c, http.StatusOK, "register.html", gin.H{})
}

func (h *Handler) Register(c *gin.Context) {
	input := service.RegisterInput{
		Username:        c.PostForm("username"),
		LastName:        c.PostForm("lastName"),
		Email:           c.PostForm("email"),
		Password:        c.PostForm("password"),
		ConfirmPassword: c.PostForm("confirmPassword"),
	}

	_, err := h.accounts.Register(c.Request.Context(), input)
	if err != nil {
		var partial *service.PartialFailureError
		if errors.As(err, &partial) {
			redirectError(c, "/register", "Registration could not be completed. Please contact an administrator.")
			return
		}
		redirectError(c, "/register", userMessage(err, "Registration failed. Please try again."))
		return
	}

	redirectSuccess(c, "/login", "Account created successfully. Please log in.")
}

func (h *Handler) Logout(c *gin.Context) {
	if err := destroySession(c); err != nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

// Credentials shows the panel address so users can log into it directly with
// the same email and password they registered here.
func (h *Handler) Credentials(c *gin.Context) {
	h.render(c, http.StatusOK, "credentials.html", gin.H{
		"panelURL": h.cfg.Panel.BaseURL,
	})
}

package http

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/azrova/azrovadash/internal/config"
	"github.com/azrova/azrovadash/internal/models"
	"github.com/azrova/azrovadash/internal/panel"
	"github.com/azrova/azrovadash/internal/resources"
	"github.com/azrova/azrovadash/internal/service"
)

type Handler struct {
	cfg      *config.Config
	accounts *service.AccountService
	servers  *service.ServerService
	store    *resources.Store
}

func NewHandler(cfg *config.Config, accounts *service.AccountService, servers *service.ServerService, store *resources.Store) *Handler {
	return &Handler{
		cfg:      cfg,
		accounts: accounts,
		servers:  servers,
		store:    store,
	}
}

// sessionUser returns the snapshot stashed by AuthRequired, or falls back to
// reading the session directly for routes outside the protected group.
func sessionUser(c *gin.Context) *models.SessionUser {
	if v, ok := c.Get(contextKeyUser); ok {
		if user, ok := v.(*models.SessionUser); ok {
			return user
		}
	}
	return currentUser(c)
}

// redirectWith sends a 302 carrying a flash message as a query parameter.
// Templates read error/success straight from the query string.
func redirectWith(c *gin.Context, path, key, message string) {
	c.Redirect(http.StatusFound, path+"?"+key+"="+url.QueryEscape(message))
}

func redirectError(c *gin.Context, path, message string) {
	redirectWith(c, path, "error", message)
}

func redirectSuccess(c *gin.Context, path, message string) {
	redirectWith(c, path, "success", message)
}

func (h *Handler) render(c *gin.Context, status int, template string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["appName"]; !ok {
		data["appName"] = h.cfg.App.Name
	}
	if user := sessionUser(c); user != nil {
		data["user"] = user
	}
	if msg := c.Query("error"); msg != "" {
		data["error"] = msg
	}
	if msg := c.Query("success"); msg != "" {
		data["success"] = msg
	}
	c.HTML(status, template, data)
}

// userMessage picks the text shown to the user for err. Validation errors,
// quota rejections, the account sentinels and panel API details are safe to
// render; anything else is internal and masked by the fallback.
func userMessage(err error, fallback string) string {
	var validation service.ValidationError
	if errors.As(err, &validation) {
		return validation.Error()
	}
	var limit *service.LimitError
	if errors.As(err, &limit) {
		return limit.Message
	}
	var apiErr *panel.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrDuplicateUser),
		errors.Is(err, service.ErrPanelUserMissing),
		errors.Is(err, service.ErrOwningServers),
		errors.Is(err, service.ErrIncorrectPassword),
		errors.Is(err, service.ErrServerNotOwned),
		errors.Is(err, service.ErrUserNotFound):
		return err.Error()
	}
	return fallback
}

func (h *Handler) NotFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "404.html", gin.H{})
}

// InternalError is wired as the gin recovery handler.
func (h *Handler) InternalError(c *gin.Context, err any) {
	h.render(c, http.StatusInternalServerError, "500.html", gin.H{})
	c.Abort()
}

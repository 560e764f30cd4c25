package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/azrova/azrovadash/internal/models"
	"github.com/azrova/azrovadash/internal/service"
)

func (h *Handler) ListServers(c *gin.Context) {
	user := sessionUser(c)

	servers, serverLimit, err := h.servers.ListServers(c.Request.Context(), user.Email)
	if err != nil {
		// Known causes keep their message, most notably the missing panel
		// account, so the user can tell onboarding failures apart from
		// transient panel outages.
		h.render(c, http.StatusOK, "servers.html", gin.H{
			"servers":     []models.PanelServer{},
			"serverLimit": serverLimit,
			"loadError":   userMessage(err, "Could not load your servers. Please try again later."),
		})
		return
	}

	h.render(c, http.StatusOK, "servers.html", gin.H{
		"servers":     servers,
		"serverLimit": serverLimit,
	})
}

func (h *Handler) CreateServerPage(c *gin.Context) {
	user := sessionUser(c)

	data, err := h.servers.PrepareCreate(c.Request.Context(), user.Email)
	if err != nil {
		var limit *service.LimitError
		if errors.As(err, &limit) {
			redirectError(c, "/servers", limit.Message)
			return
		}
		redirectError(c, "/servers", userMessage(err, "Could not load the server creation form."))
		return
	}

	h.render(c, http.StatusOK, "servers_create.html", gin.H{
		"defaults": data.Defaults,
		"nodes":    data.Nodes,
		"eggs":     data.Eggs,
	})
}

func (h *Handler) CreateServer(c *gin.Context) {
	user := sessionUser(c)

	input := models.CreateServerInput{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		NodeID:      formInt(c, "node_id"),
		EggID:       formInt(c, "egg_id"),
		Memory:      formInt(c, "memory"),
		Disk:        formInt(c, "disk"),
		CPU:         formInt(c, "cpu"),
		IO:          formInt(c, "io"),
		Backups:     formInt(c, "backups"),
		Databases:   formInt(c, "databases"),
	}

	_, err := h.servers.CreateServer(c.Request.Context(), user.Email, input)
	if err != nil {
		redirectError(c, "/servers/create", userMessage(err, "Failed to create the server. Please try again."))
		return
	}

	redirectSuccess(c, "/servers", "Server created successfully.")
}

func (h *Handler) DeleteServer(c *gin.Context) {
	user := sessionUser(c)

	serverUUID, ok := parseServerID(c)
	if !ok {
		return
	}

	if err := h.servers.DeleteServer(c.Request.Context(), user.Email, serverUUID); err != nil {
		if errors.Is(err, service.ErrServerNotOwned) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete the server."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) ServerStatus(c *gin.Context) {
	user := sessionUser(c)

	serverUUID, ok := parseServerID(c)
	if !ok {
		return
	}

	status, err := h.servers.ServerStatus(c.Request.Context(), user.Email, serverUUID)
	if err != nil {
		if errors.Is(err, service.ErrServerNotOwned) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch server status."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": status})
}

// parseServerID validates the :id route parameter as a UUID and writes a 400
// response itself when it is malformed.
func parseServerID(c *gin.Context) (string, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid server ID."})
		return "", false
	}
	return id.String(), true
}

// formInt reads a numeric form field, treating blank or malformed values as
// zero so the configured defaults apply.
func formInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.PostForm(key))
	if err != nil {
		return 0
	}
	return n
}

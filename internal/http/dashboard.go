package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Dashboard renders the resource overview. Stats assembly never fails; when
// the panel or the resource config is unreachable every figure degrades to
// "N/A / N/A" and the page still renders.
func (h *Handler) Dashboard(c *gin.Context) {
	user := sessionUser(c)
	stats := h.servers.BuildDashboardStats(c.Request.Context(), user.Email)

	h.render(c, http.StatusOK, "dashboard.html", gin.H{
		"stats": stats,
	})
}

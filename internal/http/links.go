package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/azrova/azrovadash/internal/models"
)

// Links renders the operator-curated link collection. A missing or broken
// links file shows an empty page rather than an error.
func (h *Handler) Links(c *gin.Context) {
	links, err := h.store.LoadLinks()
	if err != nil {
		links = []models.Link{}
	}

	h.render(c, http.StatusOK, "links.html", gin.H{
		"links": links,
	})
}

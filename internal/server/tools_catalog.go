package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tajirhq/tajir/internal/locale"
	"github.com/tajirhq/tajir/internal/tools"
)

type toolEntry struct {
	Slug     string `json:"slug"`
	Category string `json:"category"`
	Name     string `json:"name"`
	Endpoint string `json:"endpoint"`
}

// ListTools returns the localized tool catalog the landing grid is
// rendered from.
func (s *Server) ListTools(c *gin.Context) {
	loc := requestLocale(c.Query("locale"))

	catalog := tools.Catalog()
	out := make([]toolEntry, 0, len(catalog))
	for _, tool := range catalog {
		out = append(out, toolEntry{
			Slug:     tool.Slug,
			Category: string(tool.Category),
			Name:     locale.Label(loc, tool.NameKey),
			Endpoint: tool.Endpoint,
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

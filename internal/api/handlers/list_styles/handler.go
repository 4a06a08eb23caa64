package list_styles

import (
	"net/http"

	"github.com/inksync/studio-booking/internal/api/handlers"
	"github.com/inksync/studio-booking/internal/service/resources/models"
)

type StyleCatalog interface {
	Styles() *models.StyleListResponse
}

type Handler struct {
	catalog StyleCatalog
}

func NewHandler(catalog StyleCatalog) *Handler {
	return &Handler{catalog: catalog}
}

// Handle GET /api/v1/styles
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.catalog.Styles())
}

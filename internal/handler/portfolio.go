package handler

import (
	"net/http"

	"github.com/templui/portfolio/internal/service"
)

type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
	}
}

// Show returns every public section in one response.
func (h *PortfolioHandler) Show(w http.ResponseWriter, r *http.Request) {
	portfolio, err := h.portfolioService.Get(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		fail(w, r, err, "Failed to load portfolio")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": portfolio})
}

package handler

import (
	"net/http"

	"github.com/guivr/ohmydashboard-sub002/internal/handler/dto"
	"github.com/guivr/ohmydashboard-sub002/internal/model"
)

// AccountDirectory exposes the loaded integration registry.
type AccountDirectory interface {
	Integrations() []string
	Accounts() []model.Account
}

// IntegrationHandler handles integration discovery endpoints.
type IntegrationHandler struct {
	directory AccountDirectory
}

// NewIntegrationHandler creates a new IntegrationHandler.
func NewIntegrationHandler(directory AccountDirectory) *IntegrationHandler {
	return &IntegrationHandler{directory: directory}
}

// List handles GET /api/v1/integrations.
//
// Accounts are empty until the first sync loads the registry.
func (h *IntegrationHandler) List(w http.ResponseWriter, r *http.Request) {
	integrations := h.directory.Integrations()
	if integrations == nil {
		integrations = []string{}
	}

	accounts := h.directory.Accounts()
	if accounts == nil {
		accounts = []model.Account{}
	}

	writeJSON(w, http.StatusOK, dto.IntegrationsResponse{
		Integrations: integrations,
		Accounts:     accounts,
	})
}

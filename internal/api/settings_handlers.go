package api

import (
	"net/http"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/http/response"
	"github.com/shelfmark/shelfmark-server/internal/service"
)

// handleGetSettings returns the reader settings.
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.settingsService.GetSettings(r.Context())
	if err != nil {
		s.logger.Error("Failed to get settings", "error", err)
		response.InternalError(w, "Failed to retrieve settings", s.logger)
		return
	}

	response.Success(w, settings, s.logger)
}

// handleUpdateSettings applies a partial reader settings update.
func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req service.SettingsUpdate
	if err := decodeBody(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	settings, err := s.settingsService.UpdateSettings(r.Context(), &req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, settings, s.logger)
}

// themeBody is the body of GET and PUT /theme.
type themeBody struct {
	Theme domain.AppTheme `json:"theme"`
}

// handleGetTheme returns the app-wide theme.
func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := s.settingsService.GetTheme(r.Context())
	if err != nil {
		s.logger.Error("Failed to get theme", "error", err)
		response.InternalError(w, "Failed to retrieve theme", s.logger)
		return
	}

	response.Success(w, themeBody{Theme: theme}, s.logger)
}

// handleSetTheme replaces the app-wide theme.
func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var req themeBody
	if err := decodeBody(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	if err := s.settingsService.SetTheme(r.Context(), req.Theme); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, themeBody{Theme: req.Theme}, s.logger)
}

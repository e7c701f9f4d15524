package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shelfmark/shelfmark-server/internal/http/response"
	"github.com/shelfmark/shelfmark-server/internal/service"
)

// handleListNotes returns standalone notes, pinned first. A ?q= query
// filters by case-insensitive substring over title, content, and tags.
func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := s.noteService.ListNotes(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.logger.Error("Failed to list notes", "error", err)
		response.InternalError(w, "Failed to retrieve notes", s.logger)
		return
	}

	response.Success(w, notes, s.logger)
}

// handleCreateNote creates a standalone note.
func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var req service.CreateNoteRequest
	if err := decodeBody(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	note, err := s.noteService.CreateNote(r.Context(), &req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, note, s.logger)
}

// handleGetNote returns a single note by ID.
func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	note, err := s.noteService.GetNote(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, note, s.logger)
}

// handleUpdateNote replaces a note's content.
func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateNoteRequest
	if err := decodeBody(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	note, err := s.noteService.UpdateNote(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, note, s.logger)
}

// handleDeleteNote removes a note. Idempotent.
func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := s.noteService.DeleteNote(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

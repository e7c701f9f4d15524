package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shelfmark/shelfmark-server/internal/http/response"
	"github.com/shelfmark/shelfmark-server/internal/service"
)

// handleListBookmarks returns a book's bookmarks, oldest first.
func (s *Server) handleListBookmarks(w http.ResponseWriter, r *http.Request) {
	bookmarks, err := s.bookmarkService.ListBookmarks(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, bookmarks, s.logger)
}

// handleAddBookmark creates a bookmark in a book.
func (s *Server) handleAddBookmark(w http.ResponseWriter, r *http.Request) {
	var req service.AddBookmarkRequest
	if err := decodeBody(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	bookmark, err := s.bookmarkService.AddBookmark(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, bookmark, s.logger)
}

// handleDeleteBookmark removes one bookmark. Idempotent.
func (s *Server) handleDeleteBookmark(w http.ResponseWriter, r *http.Request) {
	err := s.bookmarkService.DeleteBookmark(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "bookmarkID"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleClearBookmarks removes every bookmark of a book.
func (s *Server) handleClearBookmarks(w http.ResponseWriter, r *http.Request) {
	if err := s.bookmarkService.ClearBookmarks(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleListBookNotes returns a book's annotations ordered by chapter
// then position.
func (s *Server) handleListBookNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := s.bookmarkService.ListBookNotes(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, notes, s.logger)
}

// handleAddBookNote creates an annotation anchored inside a book.
func (s *Server) handleAddBookNote(w http.ResponseWriter, r *http.Request) {
	var req service.AddBookNoteRequest
	if err := decodeBody(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	note, err := s.bookmarkService.AddBookNote(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, note, s.logger)
}

// handleUpdateBookNote replaces the text of an existing annotation.
func (s *Server) handleUpdateBookNote(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateBookNoteRequest
	if err := decodeBody(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	note, err := s.bookmarkService.UpdateBookNote(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "noteID"), &req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, note, s.logger)
}

// handleDeleteBookNote removes one annotation. Idempotent.
func (s *Server) handleDeleteBookNote(w http.ResponseWriter, r *http.Request) {
	err := s.bookmarkService.DeleteBookNote(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "noteID"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

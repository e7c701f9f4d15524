package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shelfmark/shelfmark-server/internal/http/response"
	"github.com/shelfmark/shelfmark-server/internal/reader"
)

// handleReaderDocument serves the renderer bridge HTML page for a book.
// Opening the page stamps the book's last-opened time.
func (s *Server) handleReaderDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	bookID := chi.URLParam(r, "id")

	book, err := s.bookService.MarkOpened(ctx, bookID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	settings, err := s.settingsService.GetSettings(ctx)
	if err != nil {
		s.logger.Error("Failed to get settings for reader", "error", err)
		response.InternalError(w, "Failed to retrieve settings", s.logger)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = reader.WriteDocument(w, reader.DocumentData{
		Book:     book,
		Settings: settings,
		FileURL:  fmt.Sprintf("/api/v1/books/%s/file", bookID),
		EventURL: fmt.Sprintf("/reader/%s/events", bookID),
	})
	if err != nil {
		s.logger.Error("Failed to render reader document", "book_id", bookID, "error", err)
	}
}

// handleReaderEvent receives one bridge message from the renderer.
func (s *Server) handleReaderEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	msg, err := reader.ParseMessage(body)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	if err := s.bridge.HandleMessage(r.Context(), chi.URLParam(r, "id"), msg); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/http/response"
	"github.com/shelfmark/shelfmark-server/internal/library"
)

// maxUploadSize caps EPUB uploads at 200 MiB.
const maxUploadSize = 200 << 20

// handleListBooks returns the whole library, newest first.
func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := s.bookService.ListBooks(r.Context())
	if err != nil {
		s.logger.Error("Failed to list books", "error", err)
		response.InternalError(w, "Failed to retrieve books", s.logger)
		return
	}

	response.Success(w, books, s.logger)
}

// handleImportBook accepts a multipart EPUB upload and imports it into
// the library.
func (s *Server) handleImportBook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "A multipart 'file' field is required", s.logger)
		return
	}
	defer file.Close()

	book, err := s.bookService.ImportBook(r.Context(), &library.Upload{
		Filename: header.Filename,
		Data:     file,
	})
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, book, s.logger)
}

// handleGetBook returns a single book by ID.
func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	book, err := s.bookService.GetBook(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, book, s.logger)
}

// handleDeleteBook removes a book, its file, its cover, and all child
// records.
func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	if err := s.bookService.DeleteBook(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleGetBookFile serves the EPUB payload.
func (s *Server) handleGetBookFile(w http.ResponseWriter, r *http.Request) {
	path, err := s.bookService.GetBookFile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	w.Header().Set("Content-Type", domain.EPUBMediaType)
	http.ServeFile(w, r, path)
}

// handleGetBookCover serves the stored cover image.
func (s *Server) handleGetBookCover(w http.ResponseWriter, r *http.Request) {
	book, err := s.bookService.GetBook(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	if book.CoverPath == "" {
		response.NotFound(w, "Book has no cover", s.logger)
		return
	}

	http.ServeFile(w, r, book.CoverPath)
}

// handleGetProgress returns the reading progress projection for a book.
func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := s.bookService.GetProgress(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, progress, s.logger)
}

// updateProgressRequest is the body of PUT /books/{id}/progress.
type updateProgressRequest struct {
	Progress float64 `json:"progress"`
}

// handleUpdateProgress records a new reading position for a book.
func (s *Server) handleUpdateProgress(w http.ResponseWriter, r *http.Request) {
	var req updateProgressRequest
	if err := decodeBody(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	bookID := chi.URLParam(r, "id")
	if err := s.bookService.UpdateProgress(r.Context(), bookID, req.Progress); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	progress, err := s.bookService.GetProgress(r.Context(), bookID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, progress, s.logger)
}

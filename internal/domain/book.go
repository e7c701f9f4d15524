// Package domain contains the core business entities for the Shelfmark library.
package domain

import "time"

// Book represents an imported EPUB in the library.
//
// The EPUB file itself lives on disk under the managed books directory;
// the Book record only references it. Bookmarks and annotations are child
// records keyed by BookID and are never embedded here, so every write of
// a Book stays small.
type Book struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description,omitempty"`

	FilePath string `json:"file_path"`
	FileSize int64  `json:"file_size"`
	FileType string `json:"file_type"`

	CoverPath string `json:"cover_path,omitempty"`
	CoverHash string `json:"cover_hash,omitempty"` // BlurHash placeholder

	TotalChapters int `json:"total_chapters,omitempty"`

	// Progress is a percentage in [0,100]. Position is the last location
	// reported by the renderer, same scale.
	ReadingProgress  float64   `json:"reading_progress"`
	LastReadPosition float64   `json:"last_read_position"`
	LastReadAt       time.Time `json:"last_read_at,omitzero"`

	AddedAt      time.Time `json:"added_at"`
	LastOpenedAt time.Time `json:"last_opened_at,omitzero"`

	// Missing is set when the underlying file disappeared out-of-band.
	Missing bool `json:"missing,omitempty"`
}

// NewBook creates a library record for a freshly imported file.
func NewBook(id, title, author, filePath string, fileSize int64) *Book {
	return &Book{
		ID:       id,
		Title:    title,
		Author:   author,
		FilePath: filePath,
		FileSize: fileSize,
		FileType: EPUBMediaType,
		AddedAt:  time.Now(),
	}
}

// EPUBMediaType is the only media type accepted by import.
const EPUBMediaType = "application/epub+zip"

// SetProgress records a new reading position, clamped to [0,100].
func (b *Book) SetProgress(progress float64) {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	b.ReadingProgress = progress
	b.LastReadPosition = progress
	b.LastReadAt = time.Now()
}

// Bookmark marks a position within a book.
//
// Position uses the same 0-100 scale the renderer reports; it is stored
// as given and never interpreted by the server.
type Bookmark struct {
	ID        string    `json:"id"`
	BookID    string    `json:"book_id"`
	Position  float64   `json:"position"`
	Chapter   int       `json:"chapter,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// BookNote is an annotation anchored to a chapter and position within a
// book. Distinct from the standalone Note entity.
type BookNote struct {
	ID        string    `json:"id"`
	BookID    string    `json:"book_id"`
	Chapter   int       `json:"chapter"`
	Position  float64   `json:"position"`
	Text      string    `json:"text"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

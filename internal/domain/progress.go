package domain

import "time"

// ReadingProgress is a projection of the progress fields embedded in a
// Book, returned to clients that only care about position.
type ReadingProgress struct {
	BookID    string    `json:"book_id"`
	Position  float64   `json:"position"`
	Progress  float64   `json:"progress"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// ProgressForBook extracts the reading progress projection from a book.
func ProgressForBook(b *Book) *ReadingProgress {
	return &ReadingProgress{
		BookID:    b.ID,
		Position:  b.LastReadPosition,
		Progress:  b.ReadingProgress,
		UpdatedAt: b.LastReadAt,
	}
}

package domain

import "time"

// Note is a standalone notebook entry, unrelated to any book.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	Pinned    bool      `json:"is_pinned"`
	Color     string    `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewNote creates a note with creation timestamps set.
func NewNote(id, title, content string, tags []string) *Note {
	now := time.Now()
	return &Note{
		ID:        id,
		Title:     title,
		Content:   content,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch bumps the updated timestamp after an edit.
func (n *Note) Touch() {
	n.UpdatedAt = time.Now()
}

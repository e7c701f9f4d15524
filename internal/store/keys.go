package store

// Key registry. Every collection lives under exactly one prefix; the
// singleton records use fixed keys. Bookmarks and book annotations are
// child records of a book, so their keys embed the owning book ID.
const (
	bookPrefix     = "book:"     // book:{bookID}
	notePrefix     = "note:"     // note:{noteID}
	bookmarkPrefix = "bookmark:" // bookmark:{bookID}:{bookmarkID}
	bookNotePrefix = "booknote:" // booknote:{bookID}:{bookNoteID}

	settingsKey = "settings" // single ReaderSettings record
	themeKey    = "theme"    // single AppTheme value
	instanceKey = "instance" // single Instance record
)

// bookmarkScope returns the key prefix covering all bookmarks of a book.
func bookmarkScope(bookID string) string {
	return bookmarkPrefix + bookID + ":"
}

// bookmarkKey returns the key for one bookmark.
func bookmarkKey(bookID, bookmarkID string) string {
	return bookmarkScope(bookID) + bookmarkID
}

// bookNoteScope returns the key prefix covering all annotations of a book.
func bookNoteScope(bookID string) string {
	return bookNotePrefix + bookID + ":"
}

// bookNoteKey returns the key for one annotation.
func bookNoteKey(bookID, bookNoteID string) string {
	return bookNoteScope(bookID) + bookNoteID
}

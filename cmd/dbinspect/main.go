// Command dbinspect dumps a summary of a Shelfmark database for
// debugging. It opens the store read-only, so it is safe to run against
// a live data directory.
package main

import (
	"encoding/json/v2"
	"fmt"
	"log"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/shelfmark/shelfmark-server/internal/domain"
)

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/Shelfmark/db")
	}

	opts := badger.DefaultOptions(dbPath).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Database Inspection ===")
	fmt.Println()

	bookCount := 0
	missingCount := 0
	inProgress := 0
	noteCount := 0
	bookmarkCount := 0
	annotationCount := 0

	err = db.View(func(txn *badger.Txn) error {
		if err := forPrefix(txn, "book:", func(val []byte) error {
			var book domain.Book
			if err := json.Unmarshal(val, &book); err != nil {
				return err
			}

			bookCount++
			if book.Missing {
				missingCount++
			}
			if book.ReadingProgress > 0 && book.ReadingProgress < 100 {
				inProgress++
			}

			if bookCount <= 5 {
				fmt.Printf("Book: %s\n", book.Title)
				fmt.Printf("  ID: %s\n", book.ID)
				fmt.Printf("  Author: %s\n", book.Author)
				fmt.Printf("  Chapters: %d\n", book.TotalChapters)
				fmt.Printf("  Progress: %.1f%%\n", book.ReadingProgress)
				if book.Missing {
					fmt.Printf("  MISSING FILE: %s\n", book.FilePath)
				}
				fmt.Println()
			}
			return nil
		}); err != nil {
			return err
		}

		if err := forPrefix(txn, "note:", func([]byte) error {
			noteCount++
			return nil
		}); err != nil {
			return err
		}

		if err := forPrefix(txn, "bookmark:", func([]byte) error {
			bookmarkCount++
			return nil
		}); err != nil {
			return err
		}

		return forPrefix(txn, "booknote:", func([]byte) error {
			annotationCount++
			return nil
		})
	})

	if err != nil {
		log.Fatalf("Error iterating database: %v", err)
	}

	fmt.Println("=== Summary ===")
	fmt.Printf("Total books: %d\n", bookCount)
	fmt.Printf("Books in progress: %d\n", inProgress)
	fmt.Printf("Books with missing files: %d\n", missingCount)
	fmt.Printf("Standalone notes: %d\n", noteCount)
	fmt.Printf("Bookmarks: %d\n", bookmarkCount)
	fmt.Printf("Annotations: %d\n", annotationCount)
}

// forPrefix visits every value under a key prefix.
func forPrefix(txn *badger.Txn, prefix string, fn func(val []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
		if err := it.Item().Value(fn); err != nil {
			return err
		}
	}
	return nil
}

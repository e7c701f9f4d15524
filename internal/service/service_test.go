package service

import (
	"archive/zip"
	"bytes"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/shelfmark/shelfmark-server/internal/library"
	"github.com/shelfmark/shelfmark-server/internal/logger"
	"github.com/shelfmark/shelfmark-server/internal/media/images"
	"github.com/shelfmark/shelfmark-server/internal/sse"
	"github.com/shelfmark/shelfmark-server/internal/store"
	"github.com/shelfmark/shelfmark-server/internal/validation"
	"github.com/stretchr/testify/require"
)

// captureEmitter records emitted events for assertions.
type captureEmitter struct {
	events []sse.Event
}

func (c *captureEmitter) Emit(event sse.Event) {
	c.events = append(c.events, event)
}

func (c *captureEmitter) types() []sse.EventType {
	out := make([]sse.EventType, 0, len(c.events))
	for _, e := range c.events {
		out = append(out, e.Type)
	}
	return out
}

type testEnv struct {
	store    *store.Store
	books    *BookService
	library  *library.Manager
	emitter  *captureEmitter
	dataPath string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := logger.New(logger.Config{Writer: io.Discard, Level: slog.LevelError})

	dataPath := t.TempDir()
	s, err := store.New(filepath.Join(dataPath, "db"), log.Logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	lib, err := library.NewManager(filepath.Join(dataPath, "books"), log.Logger)
	require.NoError(t, err)

	coverStorage, err := images.NewStorage(dataPath)
	require.NoError(t, err)
	covers := images.NewProcessor(coverStorage, log.Logger)

	emitter := &captureEmitter{}
	books := NewBookService(s, lib, covers, emitter, log.Logger)

	return &testEnv{
		store:    s,
		books:    books,
		library:  lib,
		emitter:  emitter,
		dataPath: dataPath,
	}
}

func newTestValidator() *validation.Validator {
	return validation.New()
}

// makeEPUB builds a minimal valid EPUB in memory.
func makeEPUB(t *testing.T, title, author string) []byte {
	t.Helper()

	opf := `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" xmlns:dc="http://purl.org/dc/elements/1.1/" version="3.0">
  <metadata>
    <dc:title>` + title + `</dc:title>
    <dc:creator>` + author + `</dc:creator>
  </metadata>
  <manifest>
    <item id="ch1" href="ch1.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch2" href="ch2.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine>
    <itemref idref="ch1"/>
    <itemref idref="ch2"/>
  </spine>
</package>`

	container := `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	mt, err := w.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	require.NoError(t, err)
	_, err = mt.Write([]byte("application/epub+zip"))
	require.NoError(t, err)

	for name, data := range map[string]string{
		"META-INF/container.xml": container,
		"OEBPS/content.opf":      opf,
	} {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(data))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return buf.Bytes()
}

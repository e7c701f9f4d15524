package epub

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const containerEntry = `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

// fakeCover is not a real image, just recognizable bytes.
var fakeCover = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x01, 0x02}

type entry struct {
	name string
	data []byte
}

func buildEPUB(t *testing.T, entries []entry) string {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	// mimetype first, stored uncompressed, as real packagers write it.
	mt, err := w.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	require.NoError(t, err)
	_, err = mt.Write([]byte(MediaType))
	require.NoError(t, err)

	for _, e := range entries {
		f, err := w.Create(e.name)
		require.NoError(t, err)
		_, err = f.Write(e.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	path := filepath.Join(t.TempDir(), "book.epub")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func TestParseBasicMetadata(t *testing.T) {
	opf := `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" xmlns:dc="http://purl.org/dc/elements/1.1/" version="3.0">
  <metadata>
    <dc:title>The Master and Margarita</dc:title>
    <dc:creator>Mikhail Bulgakov</dc:creator>
    <dc:description>The devil comes to Moscow.</dc:description>
    <dc:language>en</dc:language>
  </metadata>
  <manifest>
    <item id="ch1" href="ch1.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch2" href="ch2.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch3" href="ch3.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine>
    <itemref idref="ch1"/>
    <itemref idref="ch2"/>
    <itemref idref="ch3"/>
  </spine>
</package>`

	path := buildEPUB(t, []entry{
		{"META-INF/container.xml", []byte(containerEntry)},
		{"OEBPS/content.opf", []byte(opf)},
	})

	meta, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, "The Master and Margarita", meta.Title)
	assert.Equal(t, "Mikhail Bulgakov", meta.Author)
	assert.Equal(t, "The devil comes to Moscow.", meta.Description)
	assert.Equal(t, "en", meta.Language)
	assert.Equal(t, 3, meta.ChapterCount)
	assert.Nil(t, meta.Cover)
}

func TestParseCoverEPUB3(t *testing.T) {
	opf := `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" xmlns:dc="http://purl.org/dc/elements/1.1/" version="3.0">
  <metadata><dc:title>Covered</dc:title></metadata>
  <manifest>
    <item id="cover" href="images/cover.jpg" media-type="image/jpeg" properties="cover-image"/>
    <item id="ch1" href="ch1.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine><itemref idref="ch1"/></spine>
</package>`

	path := buildEPUB(t, []entry{
		{"META-INF/container.xml", []byte(containerEntry)},
		{"OEBPS/content.opf", []byte(opf)},
		{"OEBPS/images/cover.jpg", fakeCover},
	})

	meta, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, fakeCover, meta.Cover)
	assert.Equal(t, "image/jpeg", meta.CoverType)
}

func TestParseCoverEPUB2Meta(t *testing.T) {
	opf := `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" xmlns:dc="http://purl.org/dc/elements/1.1/" version="2.0">
  <metadata>
    <dc:title>Old Style</dc:title>
    <meta name="cover" content="cover-img"/>
  </metadata>
  <manifest>
    <item id="cover-img" href="cover.png" media-type="image/png"/>
    <item id="ch1" href="ch1.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine><itemref idref="ch1"/></spine>
</package>`

	path := buildEPUB(t, []entry{
		{"META-INF/container.xml", []byte(containerEntry)},
		{"OEBPS/content.opf", []byte(opf)},
		{"OEBPS/cover.png", fakeCover},
	})

	meta, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, fakeCover, meta.Cover)
	assert.Equal(t, "image/png", meta.CoverType)
}

func TestParseHTMLDescription(t *testing.T) {
	opf := `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" xmlns:dc="http://purl.org/dc/elements/1.1/" version="3.0">
  <metadata>
    <dc:title>Formatted</dc:title>
    <dc:description>&lt;p&gt;A &lt;b&gt;bold&lt;/b&gt; tale.&lt;/p&gt;</dc:description>
  </metadata>
  <manifest><item id="ch1" href="ch1.xhtml" media-type="application/xhtml+xml"/></manifest>
  <spine><itemref idref="ch1"/></spine>
</package>`

	path := buildEPUB(t, []entry{
		{"META-INF/container.xml", []byte(containerEntry)},
		{"OEBPS/content.opf", []byte(opf)},
	})

	meta, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, "A **bold** tale.", meta.Description)
}

func TestParseMultipleAuthors(t *testing.T) {
	opf := `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" xmlns:dc="http://purl.org/dc/elements/1.1/" version="3.0">
  <metadata>
    <dc:title>Joint Work</dc:title>
    <dc:creator>Arkady Strugatsky</dc:creator>
    <dc:creator>Boris Strugatsky</dc:creator>
  </metadata>
  <manifest><item id="ch1" href="ch1.xhtml" media-type="application/xhtml+xml"/></manifest>
  <spine><itemref idref="ch1"/></spine>
</package>`

	path := buildEPUB(t, []entry{
		{"META-INF/container.xml", []byte(containerEntry)},
		{"OEBPS/content.opf", []byte(opf)},
	})

	meta, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, "Arkady Strugatsky, Boris Strugatsky", meta.Author)
}

func TestParseNotAZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not.epub")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0644))

	_, err := Parse(path)
	require.ErrorIs(t, err, ErrNotEPUB)
}

func TestParseMissingContainer(t *testing.T) {
	path := buildEPUB(t, []entry{
		{"OEBPS/content.opf", []byte("<package/>")},
	})

	_, err := Parse(path)
	require.ErrorIs(t, err, ErrNotEPUB)
}

func TestParseWrongMimetype(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("mimetype")
	require.NoError(t, err)
	_, err = f.Write([]byte("application/zip"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	path := filepath.Join(t.TempDir(), "wrong.epub")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	_, err = Parse(path)
	require.ErrorIs(t, err, ErrNotEPUB)
}

func TestParseReader(t *testing.T) {
	opf := `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" xmlns:dc="http://purl.org/dc/elements/1.1/" version="3.0">
  <metadata><dc:title>Buffered</dc:title></metadata>
  <manifest><item id="ch1" href="ch1.xhtml" media-type="application/xhtml+xml"/></manifest>
  <spine><itemref idref="ch1"/></spine>
</package>`

	path := buildEPUB(t, []entry{
		{"META-INF/container.xml", []byte(containerEntry)},
		{"OEBPS/content.opf", []byte(opf)},
	})

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	meta, err := ParseReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, "Buffered", meta.Title)
}

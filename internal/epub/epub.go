// Package epub extracts metadata from EPUB files: title, author,
// description, cover image, and chapter count. It reads only the OPF
// package document and the cover entry, never the full content.
package epub

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// MediaType is the MIME type of an EPUB container.
const MediaType = "application/epub+zip"

// ErrNotEPUB is returned when the file is not a valid EPUB container.
var ErrNotEPUB = errors.New("not a valid epub file")

// Metadata is what we extract from an EPUB package document.
type Metadata struct {
	Title       string
	Author      string
	Description string // Markdown; HTML descriptions are converted
	Language    string

	ChapterCount int // number of spine entries

	Cover     []byte // raw cover image, nil when the book has none
	CoverType string // media type of the cover image
}

// container.xml points at the OPF package document.
type containerXML struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

// packageDoc is the subset of the OPF package document we care about.
type packageDoc struct {
	Metadata struct {
		Titles      []string `xml:"title"`
		Creators    []string `xml:"creator"`
		Description string   `xml:"description"`
		Language    string   `xml:"language"`
		Metas       []struct {
			Name    string `xml:"name,attr"`
			Content string `xml:"content,attr"`
		} `xml:"meta"`
	} `xml:"metadata"`
	Manifest struct {
		Items []manifestItem `xml:"item"`
	} `xml:"manifest"`
	Spine struct {
		ItemRefs []struct {
			IDRef string `xml:"idref,attr"`
		} `xml:"itemref"`
	} `xml:"spine"`
}

type manifestItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr"`
}

// Parse opens the EPUB at the given path and extracts its metadata.
func Parse(filePath string) (*Metadata, error) {
	zr, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotEPUB, err)
	}
	defer zr.Close()

	return parse(&zr.Reader)
}

// ParseReader extracts metadata from EPUB data already in memory,
// e.g. an uploaded file buffered before import.
func ParseReader(r io.ReaderAt, size int64) (*Metadata, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotEPUB, err)
	}
	return parse(zr)
}

func parse(zr *zip.Reader) (*Metadata, error) {
	// The mimetype entry is required by the spec, but real-world files
	// sometimes omit it. Reject only an explicitly wrong value.
	if mt, err := readEntry(zr, "mimetype"); err == nil {
		if strings.TrimSpace(string(mt)) != MediaType {
			return nil, fmt.Errorf("%w: mimetype is %q", ErrNotEPUB, strings.TrimSpace(string(mt)))
		}
	}

	opfPath, err := rootfilePath(zr)
	if err != nil {
		return nil, err
	}

	opfData, err := readEntry(zr, opfPath)
	if err != nil {
		return nil, fmt.Errorf("%w: missing package document %s", ErrNotEPUB, opfPath)
	}

	var pkg packageDoc
	if err := xml.Unmarshal(opfData, &pkg); err != nil {
		return nil, fmt.Errorf("%w: malformed package document: %v", ErrNotEPUB, err)
	}

	meta := &Metadata{
		Title:        first(pkg.Metadata.Titles),
		Author:       strings.Join(nonEmpty(pkg.Metadata.Creators), ", "),
		Description:  htmlToMarkdown(strings.TrimSpace(pkg.Metadata.Description)),
		Language:     pkg.Metadata.Language,
		ChapterCount: len(pkg.Spine.ItemRefs),
	}

	if item, ok := coverItem(&pkg); ok {
		coverPath := resolveHref(opfPath, item.Href)
		if data, err := readEntry(zr, coverPath); err == nil {
			meta.Cover = data
			meta.CoverType = item.MediaType
		}
	}

	return meta, nil
}

// rootfilePath reads META-INF/container.xml and returns the location of
// the OPF package document.
func rootfilePath(zr *zip.Reader) (string, error) {
	data, err := readEntry(zr, "META-INF/container.xml")
	if err != nil {
		return "", fmt.Errorf("%w: missing META-INF/container.xml", ErrNotEPUB)
	}

	var c containerXML
	if err := xml.Unmarshal(data, &c); err != nil {
		return "", fmt.Errorf("%w: malformed container.xml: %v", ErrNotEPUB, err)
	}
	if len(c.Rootfiles) == 0 || c.Rootfiles[0].FullPath == "" {
		return "", fmt.Errorf("%w: container.xml names no rootfile", ErrNotEPUB)
	}
	return c.Rootfiles[0].FullPath, nil
}

// coverItem finds the manifest item holding the cover image. EPUB 3
// marks it with properties="cover-image"; EPUB 2 uses a meta entry
// named "cover" whose content is the item ID.
func coverItem(pkg *packageDoc) (manifestItem, bool) {
	for _, item := range pkg.Manifest.Items {
		for prop := range strings.FieldsSeq(item.Properties) {
			if prop == "cover-image" {
				return item, true
			}
		}
	}

	for _, m := range pkg.Metadata.Metas {
		if m.Name != "cover" || m.Content == "" {
			continue
		}
		for _, item := range pkg.Manifest.Items {
			if item.ID == m.Content {
				return item, true
			}
		}
	}

	return manifestItem{}, false
}

// resolveHref resolves a manifest href relative to the OPF location.
func resolveHref(opfPath, href string) string {
	return path.Join(path.Dir(opfPath), href)
}

func readEntry(zr *zip.Reader, name string) ([]byte, error) {
	f, err := zr.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func first(values []string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

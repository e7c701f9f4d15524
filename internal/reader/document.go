package reader

import (
	"fmt"
	"html/template"
	"io"

	"github.com/shelfmark/shelfmark-server/internal/domain"
)

// DocumentData is what the reader page template needs.
type DocumentData struct {
	Book     *domain.Book
	Settings *domain.ReaderSettings
	FileURL  string // where the EPUB payload is served
	EventURL string // where bridge messages are posted
}

// themeColors maps reader themes to page colors.
var themeColors = map[domain.ReaderTheme][2]string{
	domain.ThemeLight: {"#ffffff", "#1a1a1a"},
	domain.ThemeDark:  {"#1a1a1a", "#e8e8e8"},
	domain.ThemeSepia: {"#f4ecd8", "#5b4636"},
}

var documentTmpl = template.Must(template.New("reader").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Book.Title}}</title>
<script src="https://cdn.jsdelivr.net/npm/jszip@3.10.1/dist/jszip.min.js"></script>
<script src="https://cdn.jsdelivr.net/npm/epubjs@0.3.93/dist/epub.min.js"></script>
<style>
  html, body { margin: 0; height: 100%; background: {{.Background}}; color: {{.Foreground}}; }
  #viewer { height: 100%; }
</style>
</head>
<body>
<div id="viewer"></div>
<script>
  const book = ePub({{.FileURL}});
  const rendition = book.renderTo("viewer", {
    width: "100%",
    height: "100%",
    flow: {{.Flow}}
  });
  rendition.themes.fontSize({{.FontSize}} + "px");
  rendition.display();

  function send(msg) {
    fetch({{.EventURL}}, {
      method: "POST",
      headers: {"Content-Type": "application/json"},
      body: JSON.stringify(msg)
    }).catch(function () {});
  }

  book.ready.then(function () {
    return book.locations.generate(1000);
  }).then(function () {
    {{if gt .Position 0.0}}
    rendition.display(book.locations.cfiFromPercentage({{.Position}} / 100));
    {{end}}
  });

  rendition.on("relocated", function (location) {
    if (book.locations.length() === 0) { return; }
    const pct = book.locations.percentageFromCfi(location.start.cfi) * 100;
    send({type: "progress", progress: pct});
  });

  book.on("openFailed", function (err) {
    send({type: "error", error: String(err)});
  });
</script>
</body>
</html>
`))

// templateContext flattens DocumentData for the template.
type templateContext struct {
	Book       *domain.Book
	FileURL    string
	EventURL   string
	Background string
	Foreground string
	Flow       string
	FontSize   int
	Position   float64
}

// WriteDocument renders the reader page for a book with the current
// settings applied.
func WriteDocument(w io.Writer, data DocumentData) error {
	colors, ok := themeColors[data.Settings.Theme]
	if !ok {
		colors = themeColors[domain.ThemeLight]
	}

	flow := "scrolled-doc"
	if data.Settings.ScrollMode == domain.ScrollModePage {
		flow = "paginated"
	}

	ctx := templateContext{
		Book:       data.Book,
		FileURL:    data.FileURL,
		EventURL:   data.EventURL,
		Background: colors[0],
		Foreground: colors[1],
		Flow:       flow,
		FontSize:   data.Settings.FontSize,
		Position:   data.Book.LastReadPosition,
	}

	if err := documentTmpl.Execute(w, ctx); err != nil {
		return fmt.Errorf("render reader document: %w", err)
	}
	return nil
}

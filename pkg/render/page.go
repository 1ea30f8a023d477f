package render

import (
	"fmt"
	"io"

	"github.com/weft-ui/weft/pkg/vdom"
)

// PageData contains everything needed to render a complete HTML document
// around a tree snapshot.
type PageData struct {
	// Body is the root node for the page content.
	Body *vdom.VNode

	// Title is the page title.
	Title string

	// Lang is the language attribute for the html element.
	// Defaults to "en" if not specified.
	Lang string

	// StyleSheets contains paths to external stylesheets.
	StyleSheets []string

	// Styles contains inline CSS blocks.
	Styles []string

	// StreamID identifies the live patch stream this snapshot belongs to.
	// The client presents it when opening the feed.
	StreamID string

	// ClientScript is the path of the feed client script.
	// No script tag is emitted when empty.
	ClientScript string
}

// RenderPage renders a complete HTML document to the given writer.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	if _, err := w.Write([]byte("<!DOCTYPE html>\n")); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, `<html lang="%s">`+"\n", escapeAttr(lang)); err != nil {
		return err
	}

	if err := r.renderHead(w, page); err != nil {
		return err
	}

	if _, err := w.Write([]byte("<body>\n")); err != nil {
		return err
	}
	if err := r.RenderToWriter(w, page.Body); err != nil {
		return err
	}
	if err := r.renderClientScript(w, page); err != nil {
		return err
	}

	_, err := w.Write([]byte("</body>\n</html>\n"))
	return err
}

// renderHead renders the document head section.
func (r *Renderer) renderHead(w io.Writer, page PageData) error {
	if _, err := w.Write([]byte("<head>\n")); err != nil {
		return err
	}
	if _, err := w.Write([]byte(`  <meta charset="utf-8">` + "\n")); err != nil {
		return err
	}
	if _, err := w.Write([]byte(`  <meta name="viewport" content="width=device-width, initial-scale=1">` + "\n")); err != nil {
		return err
	}

	if page.Title != "" {
		if _, err := fmt.Fprintf(w, "  <title>%s</title>\n", escapeHTML(page.Title)); err != nil {
			return err
		}
	}

	for _, href := range page.StyleSheets {
		if _, err := fmt.Fprintf(w, `  <link rel="stylesheet" href="%s">`+"\n", escapeAttr(href)); err != nil {
			return err
		}
	}
	for _, style := range page.Styles {
		if _, err := fmt.Fprintf(w, "  <style>%s</style>\n", style); err != nil {
			return err
		}
	}

	_, err := w.Write([]byte("</head>\n"))
	return err
}

// renderClientScript exposes the stream ID and loads the feed client.
func (r *Renderer) renderClientScript(w io.Writer, page PageData) error {
	if page.StreamID != "" {
		if _, err := fmt.Fprintf(w, `  <script>window.__WEFT_STREAM__="%s";</script>`+"\n",
			escapeAttr(page.StreamID)); err != nil {
			return err
		}
	}

	if page.ClientScript != "" {
		if _, err := fmt.Fprintf(w, `  <script src="%s" defer></script>`+"\n",
			escapeAttr(page.ClientScript)); err != nil {
			return err
		}
	}

	return nil
}

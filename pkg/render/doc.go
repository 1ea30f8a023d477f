// Package render converts node trees into HTML.
//
// The renderer produces deterministic markup: attributes are emitted in
// sorted order, text and attribute values are escaped, void elements are
// self-closing, and fragments splice their children without a wrapper.
// Boolean attributes render as the bare name when true and disappear when
// false.
//
// Elements that declare event handlers additionally carry data-on-<event>
// markers and, when the node is bound to a live instance, a data-weft-id
// attribute. A feed client uses these to forward events back to the engine.
//
// # Basic Usage
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(node)
//
// # Full Page Rendering
//
// RenderPage wraps a tree snapshot in a complete document with DOCTYPE,
// head, stylesheets, and the stream bootstrap script:
//
//	page := render.PageData{
//	    Body:     root,
//	    Title:    "weft",
//	    StreamID: stream.ID,
//	}
//	err := renderer.RenderPage(w, page)
package render

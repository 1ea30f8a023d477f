// Package weft provides the public API for the weft reconciliation
// engine.
//
// This is the recommended import for most applications:
//
//	import "github.com/weft-ui/weft"
//
// Usage:
//
//	prev := weft.Ul(weft.Li(weft.Key("a"), "alpha"))
//	next := weft.Ul(weft.Li(weft.Key("a"), "alpha!"))
//	patches := weft.Diff(prev, next)
package weft

import (
	"github.com/weft-ui/weft/pkg/engine"
	"github.com/weft-ui/weft/pkg/render"
	"github.com/weft-ui/weft/pkg/vdom"
)

// =============================================================================
// Tree primitives (re-export from pkg/vdom)
// =============================================================================

// VNode is one node of an element tree.
type VNode = vdom.VNode

// Attrs holds a node's attributes.
type Attrs = vdom.Attrs

// Event is a UI event dispatched to a handler.
type Event = vdom.Event

// Handler reacts to an Event.
type Handler = vdom.Handler

// Patch is one reconciliation operation.
type Patch = vdom.Patch

// PatchOp identifies a patch operation.
type PatchOp = vdom.PatchOp

// Patch operations.
const (
	OpCreate  = vdom.OpCreate
	OpUpdate  = vdom.OpUpdate
	OpDelete  = vdom.OpDelete
	OpReplace = vdom.OpReplace
	OpMove    = vdom.OpMove
)

// Diff reconciles prev against next and returns the patches that
// transform one into the other.
var Diff = vdom.Diff

// Reconcile is Diff with pass statistics.
var Reconcile = vdom.Reconcile

// ParseJSON builds a tree from its JSON form.
var ParseJSON = vdom.ParseJSON

// =============================================================================
// Construction helpers (the common subset; pkg/vdom has the full set)
// =============================================================================

var (
	El       = vdom.El
	Text     = vdom.Text
	Textf    = vdom.Textf
	Fragment = vdom.Fragment

	Div    = vdom.Div
	Span   = vdom.Span
	P      = vdom.P
	Ul     = vdom.Ul
	Li     = vdom.Li
	Button = vdom.Button
	Input  = vdom.Input

	Key   = vdom.Key
	Class = vdom.Class
	ID    = vdom.ID
	Style = vdom.Style
)

// =============================================================================
// Engine (re-export from pkg/engine)
// =============================================================================

// Engine drives reconcile passes and produces the patch stream.
type Engine = engine.Engine

// Pass summarizes one engine operation.
type Pass = engine.Pass

// NewEngine creates an engine. See pkg/engine for options.
var NewEngine = engine.New

// =============================================================================
// Rendering (re-export from pkg/render)
// =============================================================================

// RenderHTML renders a tree to an HTML string.
func RenderHTML(node *VNode) (string, error) {
	return render.NewRenderer(render.RendererConfig{}).RenderToString(node)
}

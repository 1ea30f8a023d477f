package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/weft-ui/weft/pkg/vdom"
)

func TestRenderText(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	html, err := renderer.RenderToString(vdom.Text("Hello, World!"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if html != "Hello, World!" {
		t.Errorf("got %q, want %q", html, "Hello, World!")
	}
}

func TestRenderTextEscaping(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	html, err := renderer.RenderToString(vdom.Text("<script>alert('xss')</script>"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("HTML should be escaped, got %q", html)
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Errorf("should contain escaped script tag, got %q", html)
	}
}

func TestRenderNil(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	html, err := renderer.RenderToString(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if html != "" {
		t.Errorf("got %q, want empty", html)
	}
}

func TestRenderElement(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	node := vdom.Div(vdom.Class("container"),
		vdom.H1(vdom.Text("Title")),
		vdom.P(vdom.Text("Content")),
	)
	html, err := renderer.RenderToString(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, `<div class="container">`) {
		t.Errorf("should contain div with class, got %q", html)
	}
	if !strings.Contains(html, "<h1>Title</h1>") {
		t.Errorf("should contain h1, got %q", html)
	}
	if !strings.Contains(html, "<p>Content</p>") {
		t.Errorf("should contain p, got %q", html)
	}
}

func TestRenderVoidElements(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	tests := []struct {
		name string
		node *vdom.VNode
		want string
	}{
		{
			name: "input",
			node: vdom.Input(vdom.Type("text"), vdom.Name("email")),
			want: `<input name="email" type="text">`,
		},
		{
			name: "br",
			node: vdom.Br(),
			want: "<br>",
		},
		{
			name: "img",
			node: vdom.Img(vdom.Src("/image.png"), vdom.Alt("test")),
			want: `<img alt="test" src="/image.png">`,
		},
		{
			name: "hr",
			node: vdom.Hr(),
			want: "<hr>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html, err := renderer.RenderToString(tt.node)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if html != tt.want {
				t.Errorf("got %q, want %q", html, tt.want)
			}
			if strings.Contains(html, "</"+tt.name+">") {
				t.Errorf("void element should not have closing tag, got %q", html)
			}
		})
	}
}

func TestRenderBooleanAttributes(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	node := vdom.Input(
		vdom.Type("checkbox"),
		vdom.Checked(true),
		vdom.Disabled(false),
	)
	html, err := renderer.RenderToString(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if html != `<input checked type="checkbox">` {
		t.Errorf("got %q, want %q", html, `<input checked type="checkbox">`)
	}
}

func TestRenderAttributesSorted(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	node := vdom.Div(
		vdom.ID("main"),
		vdom.Class("box"),
		vdom.Title("hover"),
	)
	html, err := renderer.RenderToString(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<div class="box" id="main" title="hover"></div>`
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}
}

func TestRenderAttributeEscaping(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	node := vdom.Div(vdom.Title(`say "hi" & <go>`))
	html, err := renderer.RenderToString(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<div title="say &quot;hi&quot; &amp; &lt;go&gt;"></div>`
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}
}

func TestRenderNumberAttr(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	node := vdom.Img(vdom.Src("/x.png"), vdom.Width(640), vdom.Height(480))
	html, err := renderer.RenderToString(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, `width="640"`) || !strings.Contains(html, `height="480"`) {
		t.Errorf("numeric attributes missing, got %q", html)
	}
}

// The key participates in reconciliation identity; it never reaches the
// markup, whether lifted into the Key field or left in a literal map.
func TestRenderKeyNotRendered(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	lifted := vdom.Li(vdom.Key("item-1"), vdom.Text("A"))
	literal := &vdom.VNode{Kind: vdom.KindElement, Tag: "li",
		Attrs: vdom.Attrs{"key": "item-2"}}

	for _, node := range []*vdom.VNode{lifted, literal} {
		html, err := renderer.RenderToString(node)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(html, "key=") {
			t.Errorf("key should not be rendered, got %q", html)
		}
	}
}

// Element builders splice fragments away at construction time; the
// renderer still handles one arriving as a root or a literal child.
func TestRenderFragment(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	frag := vdom.Fragment(
		vdom.Span(vdom.Text("one")),
		vdom.Span(vdom.Text("two")),
	)
	html, err := renderer.RenderToString(frag)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "<span>one</span><span>two</span>"
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}

	literal := &vdom.VNode{Kind: vdom.KindElement, Tag: "div",
		Children: []*vdom.VNode{frag}}
	html, err = renderer.RenderToString(literal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if html != "<div>"+want+"</div>" {
		t.Errorf("got %q, want %q", html, "<div>"+want+"</div>")
	}
}

func TestRenderEventMarkers(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	node := vdom.Button(
		vdom.OnClick(func(e vdom.Event) {}),
		vdom.OnInput(func(e vdom.Event) {}),
		vdom.Text("Go"),
	)
	html, err := renderer.RenderToString(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, `data-on-click="true"`) {
		t.Errorf("missing click marker, got %q", html)
	}
	if !strings.Contains(html, `data-on-input="true"`) {
		t.Errorf("missing input marker, got %q", html)
	}
	if strings.Contains(html, "onclick") {
		t.Errorf("raw handler attribute leaked into markup: %q", html)
	}
}

type fakeBinding uint64

func (f fakeBinding) ID() uint64 { return uint64(f) }

func TestRenderBindingID(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	interactive := vdom.Button(vdom.OnClick(func(e vdom.Event) {}))
	interactive.Ref = fakeBinding(7)
	html, err := renderer.RenderToString(interactive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, `data-weft-id="7"`) {
		t.Errorf("missing binding ID, got %q", html)
	}

	// A bound element without handlers has no events to route.
	inert := vdom.Div()
	inert.Ref = fakeBinding(9)
	html, err = renderer.RenderToString(inert)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(html, "data-weft-id") {
		t.Errorf("inert element should carry no binding ID, got %q", html)
	}
}

func TestRenderUnknownKind(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	_, err := renderer.RenderToString(&vdom.VNode{Kind: vdom.VKind(9)})
	if err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestRenderPretty(t *testing.T) {
	renderer := NewRenderer(RendererConfig{Pretty: true})

	node := vdom.Div(vdom.Ul(vdom.Li(vdom.Text("x"))))
	html, err := renderer.RenderToString(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, "\n  <ul>") {
		t.Errorf("expected indented ul, got %q", html)
	}
	if !strings.HasSuffix(html, "</div>\n") {
		t.Errorf("expected trailing newline after root, got %q", html)
	}
}

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) { return 0, errors.New("closed") }

func TestRenderWriterError(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	if err := renderer.RenderToWriter(failWriter{}, vdom.Div()); err == nil {
		t.Fatalf("expected writer error to propagate")
	}
}

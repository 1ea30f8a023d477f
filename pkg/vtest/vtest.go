package vtest

import (
	"strings"
	"testing"

	"github.com/weft-ui/weft/pkg/render"
	"github.com/weft-ui/weft/pkg/vdom"
)

// MustParse builds a tree from its JSON form, failing the test on
// malformed input.
func MustParse(t *testing.T, src string) *vdom.VNode {
	t.Helper()
	node, err := vdom.ParseJSON([]byte(src))
	if err != nil {
		t.Fatalf("vtest: parse tree: %v", err)
	}
	return node
}

// Render renders a tree to HTML.
func Render(t *testing.T, node *vdom.VNode) string {
	t.Helper()
	html, err := render.NewRenderer(render.RendererConfig{}).RenderToString(node)
	if err != nil {
		t.Fatalf("vtest: render: %v", err)
	}
	return html
}

// ExpectContains asserts that the rendered HTML contains want.
func ExpectContains(t *testing.T, html, want string) {
	t.Helper()
	if !strings.Contains(html, want) {
		t.Errorf("expected output to contain %q\n%s", want, html)
	}
}

// ExpectNotContains asserts that the rendered HTML does not contain
// unwanted.
func ExpectNotContains(t *testing.T, html, unwanted string) {
	t.Helper()
	if strings.Contains(html, unwanted) {
		t.Errorf("expected output not to contain %q\n%s", unwanted, html)
	}
}

// Ops tallies a patch list by operation.
func Ops(patches []vdom.Patch) map[vdom.PatchOp]int {
	ops := make(map[vdom.PatchOp]int)
	for _, p := range patches {
		ops[p.Op]++
	}
	return ops
}

// ExpectOps asserts the per-operation counts of a diff. Operations
// absent from want must be absent from the diff.
func ExpectOps(t *testing.T, patches []vdom.Patch, want map[vdom.PatchOp]int) {
	t.Helper()
	got := Ops(patches)
	for op, n := range want {
		if got[op] != n {
			t.Errorf("op %s: got %d, want %d", op, got[op], n)
		}
	}
	for op, n := range got {
		if _, expected := want[op]; !expected {
			t.Errorf("op %s: got %d, want none", op, n)
		}
	}
}

// ExpectNoDiff asserts that two trees reconcile to zero patches.
func ExpectNoDiff(t *testing.T, prev, next *vdom.VNode) {
	t.Helper()
	if patches := vdom.Diff(prev, next); len(patches) != 0 {
		t.Errorf("expected no patches, got %d:", len(patches))
		for _, p := range patches {
			t.Logf("  %s", p.String())
		}
	}
}

// KeyedList builds a ul whose li children carry the given keys, each
// with its key as text. Handy for exercising reorder diffs.
func KeyedList(keys ...string) *vdom.VNode {
	items := make([]*vdom.VNode, len(keys))
	for i, k := range keys {
		items[i] = vdom.Li(vdom.Key(k), k)
	}
	return vdom.Ul(items)
}

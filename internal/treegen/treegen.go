// Package treegen generates deterministic random trees and list
// permutations for property tests. Same seed, same tree.
package treegen

import (
	"fmt"
	"math/rand"

	"github.com/weft-ui/weft/pkg/vdom"
)

// Gen produces random trees from a fixed seed.
type Gen struct {
	rng *rand.Rand
}

// New creates a generator. Tests should use a constant seed so failures
// reproduce.
func New(seed int64) *Gen {
	return &Gen{rng: rand.New(rand.NewSource(seed))}
}

var tags = []string{"div", "span", "ul", "li", "p", "section", "a", "strong"}

var classes = []string{"row", "col", "card", "active", "muted", ""}

// KeyedList builds a ul of n keyed li items. Keys are item-0..item-n-1
// in order; item text varies with the generator state so successive
// calls differ.
func (g *Gen) KeyedList(n int) *vdom.VNode {
	items := make([]*vdom.VNode, n)
	for i := range items {
		items[i] = vdom.Li(
			vdom.Key(fmt.Sprintf("item-%d", i)),
			fmt.Sprintf("item %d rev %d", i, g.rng.Intn(1000)),
		)
	}
	return vdom.Ul(items)
}

// Permute returns a ul with the same keyed items as list, in a random
// order. Item text is preserved so the diff is pure moves.
func (g *Gen) Permute(list *vdom.VNode) *vdom.VNode {
	n := len(list.Children)
	items := make([]*vdom.VNode, n)
	copy(items, list.Children)
	g.rng.Shuffle(n, func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
	out := vdom.Ul()
	out.Children = items
	return out
}

// Tree builds a random element tree with the given depth budget. Leaf
// nodes are text; interior nodes carry random tags, classes and keyed
// children.
func (g *Gen) Tree(depth int) *vdom.VNode {
	if depth <= 0 || g.rng.Intn(4) == 0 {
		return vdom.Text(fmt.Sprintf("leaf %d", g.rng.Intn(10000)))
	}

	tag := tags[g.rng.Intn(len(tags))]
	args := []any{}
	if class := classes[g.rng.Intn(len(classes))]; class != "" {
		args = append(args, vdom.Class(class))
	}
	n := g.rng.Intn(4)
	for i := 0; i < n; i++ {
		child := g.Tree(depth - 1)
		if child.Kind == vdom.KindElement && g.rng.Intn(2) == 0 {
			child.Key = fmt.Sprintf("k%d", i)
		}
		args = append(args, child)
	}
	return vdom.El(tag, args...)
}

// Mutate returns a copy of tree with some text nodes rewritten and
// some attributes toggled. Structure and keys are preserved.
func (g *Gen) Mutate(tree *vdom.VNode) *vdom.VNode {
	if tree == nil {
		return nil
	}
	out := *tree
	switch tree.Kind {
	case vdom.KindText:
		if g.rng.Intn(3) == 0 {
			out.Text = fmt.Sprintf("leaf %d", g.rng.Intn(10000))
		}
	case vdom.KindElement, vdom.KindFragment:
		if len(tree.Attrs) > 0 && g.rng.Intn(3) == 0 {
			out.Attrs = make(vdom.Attrs, len(tree.Attrs))
			for k, v := range tree.Attrs {
				out.Attrs[k] = v
			}
			out.Attrs["class"] = classes[g.rng.Intn(len(classes)-1)]
		}
		if len(tree.Children) > 0 {
			out.Children = make([]*vdom.VNode, len(tree.Children))
			for i, c := range tree.Children {
				out.Children[i] = g.Mutate(c)
			}
		}
	}
	return &out
}

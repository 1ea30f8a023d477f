package vdom

import (
	"fmt"
	"math/rand"
	"testing"
)

func BenchmarkElementCreation(b *testing.B) {
	b.Run("simple div", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = Div(Class("card"))
		}
	})

	b.Run("with children", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = Div(Class("card"),
				H1(Text("Title")),
				P(Text("Content")),
			)
		}
	})

	b.Run("with event handler", func(b *testing.B) {
		handler := func(Event) {}
		for i := 0; i < b.N; i++ {
			_ = Button(OnClick(handler), Text("Click"))
		}
	})

	b.Run("complex card", func(b *testing.B) {
		handler := func(Event) {}
		for i := 0; i < b.N; i++ {
			_ = Div(Class("card"),
				Header(
					H2(Text("Card Title")),
				),
				Main(
					P(Text("Card content goes here")),
					P(Text("More content")),
				),
				Footer(
					Button(OnClick(handler), Text("Save")),
					Button(OnClick(handler), Text("Cancel")),
				),
			)
		}
	})
}

func BenchmarkDeepTreeCreation(b *testing.B) {
	b.Run("depth 5", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = createDeepTree(5)
		}
	})

	b.Run("depth 10", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = createDeepTree(10)
		}
	})
}

func createDeepTree(depth int) *VNode {
	if depth == 0 {
		return Text("Leaf")
	}
	return Div(Class("level"), createDeepTree(depth-1))
}

func BenchmarkReconcileSameTree(b *testing.B) {
	tree := createLargeTree(100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Diff(tree, tree)
	}
}

func BenchmarkReconcileTextChange(b *testing.B) {
	prev := Div(
		H1(Text("Old Title")),
		P(Text("Content")),
	)
	next := Div(
		H1(Text("New Title")),
		P(Text("Content")),
	)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Diff(prev, next)
	}
}

func BenchmarkReconcileAttributeChange(b *testing.B) {
	prev := Div(Class("old"), ID("test"))
	next := Div(Class("new"), ID("test"))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Diff(prev, next)
	}
}

func BenchmarkReconcileUnkeyedChildren(b *testing.B) {
	for _, n := range []int{10, 100} {
		b.Run(fmt.Sprintf("%d children", n), func(b *testing.B) {
			prev := createUnkeyedList(n)
			next := createUnkeyedListModified(n)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = Diff(prev, next)
			}
		})
	}
}

func BenchmarkReconcileKeyedReversal(b *testing.B) {
	for _, n := range []int{10, 100} {
		b.Run(fmt.Sprintf("%d children", n), func(b *testing.B) {
			prev := createKeyedList(n)
			next := createReversedKeyedList(n)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = Diff(prev, next)
			}
		})
	}
}

func BenchmarkReconcileKeyedShuffle(b *testing.B) {
	// Shuffles defeat the cursor strategies and exercise the key index.
	for _, n := range []int{10, 100} {
		b.Run(fmt.Sprintf("%d children", n), func(b *testing.B) {
			prev := createKeyedList(n)
			next := createShuffledKeyedList(n, 1)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = Diff(prev, next)
			}
		})
	}
}

func BenchmarkReconcileKeyedAddition(b *testing.B) {
	prev := createKeyedList(100)
	next := createKeyedListWithAddition(100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Diff(prev, next)
	}
}

func BenchmarkReconcileKeyedRemoval(b *testing.B) {
	prev := createKeyedList(100)
	next := createKeyedListWithRemoval(100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Diff(prev, next)
	}
}

func BenchmarkReconcileLargeTree(b *testing.B) {
	for _, n := range []int{100, 1000} {
		b.Run(fmt.Sprintf("%d nodes", n), func(b *testing.B) {
			prev := createLargeTree(n)
			next := createLargeTreeWithChange(n)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = Diff(prev, next)
			}
		})
	}
}

func BenchmarkRange(b *testing.B) {
	items := make([]int, 100)
	for i := range items {
		items[i] = i
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Range(items, func(item int, index int) *VNode {
			return Li(Key(index), Textf("Item %d", item))
		})
	}
}

func BenchmarkFragment(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Fragment(
			Div(),
			Span(),
			P(),
			Button(),
			Input(),
		)
	}
}

// Helper functions for benchmarks

func createLargeTree(n int) *VNode {
	children := make([]*VNode, n/10)
	for i := range children {
		items := make([]*VNode, 10)
		for j := range items {
			items[j] = Li(Textf("Item %d", i*10+j))
		}
		children[i] = Ul(items)
	}
	return Div(Class("container"), children)
}

func createLargeTreeWithChange(n int) *VNode {
	children := make([]*VNode, n/10)
	for i := range children {
		items := make([]*VNode, 10)
		for j := range items {
			text := fmt.Sprintf("Item %d", i*10+j)
			if i == 0 && j == 0 {
				text = "Changed Item"
			}
			items[j] = Li(Text(text))
		}
		children[i] = Ul(items)
	}
	return Div(Class("container"), children)
}

func createUnkeyedList(n int) *VNode {
	children := make([]*VNode, n)
	for i := range children {
		children[i] = Li(Textf("Item %d", i))
	}
	return Ul(children)
}

func createUnkeyedListModified(n int) *VNode {
	children := make([]*VNode, n)
	for i := range children {
		text := fmt.Sprintf("Item %d", i)
		if i == n/2 {
			text = "Modified"
		}
		children[i] = Li(Text(text))
	}
	return Ul(children)
}

func createKeyedList(n int) *VNode {
	children := make([]*VNode, n)
	for i := range children {
		children[i] = Li(Key(fmt.Sprintf("key-%d", i)), Textf("Item %d", i))
	}
	return Ul(children)
}

func createReversedKeyedList(n int) *VNode {
	children := make([]*VNode, n)
	for i := range children {
		j := n - 1 - i
		children[i] = Li(Key(fmt.Sprintf("key-%d", j)), Textf("Item %d", j))
	}
	return Ul(children)
}

func createShuffledKeyedList(n int, seed int64) *VNode {
	order := rand.New(rand.NewSource(seed)).Perm(n)
	children := make([]*VNode, n)
	for i, j := range order {
		children[i] = Li(Key(fmt.Sprintf("key-%d", j)), Textf("Item %d", j))
	}
	return Ul(children)
}

func createKeyedListWithAddition(n int) *VNode {
	children := make([]*VNode, n+1)
	for i := 0; i < n/2; i++ {
		children[i] = Li(Key(fmt.Sprintf("key-%d", i)), Textf("Item %d", i))
	}
	children[n/2] = Li(Key("new-key"), Text("New Item"))
	for i := n/2 + 1; i <= n; i++ {
		children[i] = Li(Key(fmt.Sprintf("key-%d", i-1)), Textf("Item %d", i-1))
	}
	return Ul(children)
}

func createKeyedListWithRemoval(n int) *VNode {
	children := make([]*VNode, n-1)
	j := 0
	for i := 0; i < n; i++ {
		if i == n/2 {
			continue // Skip middle item
		}
		children[j] = Li(Key(fmt.Sprintf("key-%d", i)), Textf("Item %d", i))
		j++
	}
	return Ul(children)
}

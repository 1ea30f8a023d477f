package protocol

import (
	"fmt"
	"testing"

	"github.com/weft-ui/weft/pkg/vdom"
)

func benchList(n int) *vdom.VNode {
	items := make([]*vdom.VNode, n)
	for i := range items {
		items[i] = vdom.Li(vdom.Key(fmt.Sprintf("item-%d", i)), fmt.Sprintf("Item %d", i))
	}
	return vdom.Ul(items)
}

func BenchmarkEncodePass(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		prev := benchList(n)
		next := benchList(n + 1)
		patches := vdom.Diff(prev, next)

		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				EncodePass(uint64(i), patches)
			}
		})
	}
}

func BenchmarkDecodePatches(b *testing.B) {
	prev := benchList(100)
	next := benchList(101)
	frame := EncodePass(1, vdom.Diff(prev, next))

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := DecodePatches(frame); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEncodeSnapshot(b *testing.B) {
	root := benchList(200)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		EncodeSnapshot(&Snapshot{Seq: uint64(i), Root: ToWire(root)})
	}
}

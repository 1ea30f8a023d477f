package protocol

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/weft-ui/weft/pkg/vdom"
)

func patchesRoundTrip(t *testing.T, pf *PatchesFrame) *PatchesFrame {
	t.Helper()
	decoded, err := DecodePatches(EncodePatches(pf))
	if err != nil {
		t.Fatalf("DecodePatches: %v", err)
	}
	return decoded
}

func TestPatchesFrameRoundTrip(t *testing.T) {
	parent := &NodeWire{Kind: vdom.KindElement, Tag: "ul", Key: "list"}
	pf := &PatchesFrame{
		Seq: 9,
		Patches: []Patch{
			{
				Op: vdom.OpCreate,
				Node: &NodeWire{Kind: vdom.KindElement, Tag: "li", Key: "d", Children: []*NodeWire{
					{Kind: vdom.KindText, Text: "Durian"},
				}},
				Parent: parent,
				From:   -1,
				To:     3,
			},
			{
				Op:   vdom.OpUpdate,
				Old:  &NodeWire{Kind: vdom.KindElement, Tag: "li", Key: "a", Attrs: map[string]string{"class": "old"}},
				New:  &NodeWire{Kind: vdom.KindElement, Tag: "li", Key: "a", Attrs: map[string]string{"class": "new"}},
				From: -1,
				To:   -1,
			},
			{
				Op:   vdom.OpDelete,
				Node: &NodeWire{Kind: vdom.KindElement, Tag: "li", Key: "b"},
				From: 1,
				To:   -1,
			},
			{
				Op:   vdom.OpReplace,
				Old:  &NodeWire{Kind: vdom.KindElement, Tag: "li", Key: "c"},
				New:  &NodeWire{Kind: vdom.KindElement, Tag: "p", Children: []*NodeWire{{Kind: vdom.KindText, Text: "x"}}},
				From: -1,
				To:   -1,
			},
			{
				Op:     vdom.OpMove,
				Node:   &NodeWire{Kind: vdom.KindElement, Tag: "li", Key: "e"},
				Parent: parent,
				From:   4,
				To:     0,
			},
		},
	}

	decoded := patchesRoundTrip(t, pf)
	if decoded.Seq != 9 {
		t.Errorf("Seq = %d, want 9", decoded.Seq)
	}
	if !reflect.DeepEqual(decoded, pf) {
		t.Errorf("Round trip mismatch:\n got %+v\nwant %+v", decoded, pf)
	}
}

func TestPatchesFrameEmpty(t *testing.T) {
	decoded := patchesRoundTrip(t, &PatchesFrame{Seq: 1})
	if len(decoded.Patches) != 0 {
		t.Errorf("Patches = %d, want 0", len(decoded.Patches))
	}
}

func TestDecodePatchesInvalidOp(t *testing.T) {
	e := NewEncoder()
	e.WriteUvarint(1)    // seq
	e.WriteUvarint(1)    // count
	e.WriteByte(0x7F)    // bogus op
	if _, err := DecodePatches(e.Bytes()); !errors.Is(err, ErrInvalidPatchOp) {
		t.Errorf("err = %v, want ErrInvalidPatchOp", err)
	}
}

func TestEncodePassFromReconciler(t *testing.T) {
	prev := vdom.Ul(
		vdom.Li(vdom.Key("a"), "one"),
		vdom.Li(vdom.Key("b"), "two"),
	)
	next := vdom.Ul(
		vdom.Li(vdom.Key("b"), "two"),
		vdom.Li(vdom.Key("a"), "one"),
	)

	frame := EncodePass(3, vdom.Diff(prev, next))
	decoded, err := DecodePatches(frame)
	if err != nil {
		t.Fatalf("DecodePatches: %v", err)
	}
	if decoded.Seq != 3 {
		t.Errorf("Seq = %d, want 3", decoded.Seq)
	}
	moves := 0
	for _, p := range decoded.Patches {
		if p.Op == vdom.OpMove {
			moves++
			if p.Parent == nil || p.Parent.Tag != "ul" {
				t.Errorf("Move parent = %+v, want ul descriptor", p.Parent)
			}
		}
	}
	if moves == 0 {
		t.Error("Expected at least one Move after a swap")
	}
}

// bulkCreates builds count Create patches, each carrying textLen bytes of
// payload text.
func bulkCreates(count, textLen int) []vdom.Patch {
	parent := vdom.Ul(vdom.Key("list"))
	text := strings.Repeat("x", textLen)
	patches := make([]vdom.Patch, count)
	for i := range patches {
		patches[i] = vdom.Patch{
			Op:     vdom.OpCreate,
			Node:   vdom.Li(vdom.Key(fmt.Sprintf("k%d", i)), text),
			Parent: parent,
			From:   -1,
			To:     i,
		}
	}
	return patches
}

func TestEncodePassFramesSingle(t *testing.T) {
	patches := bulkCreates(3, 10)
	frames, err := EncodePassFrames(7, patches)
	if err != nil {
		t.Fatalf("EncodePassFrames: %v", err)
	}
	if len(frames) != 1 {
		t.Fatalf("frames = %d, want 1", len(frames))
	}
	if !frames[0].Flags.Has(FlagFinal) {
		t.Error("lone frame should carry FlagFinal")
	}
	if !bytes.Equal(frames[0].Payload, EncodePass(7, patches)) {
		t.Error("single-frame payload should match the unsplit encoding")
	}
}

// A pass whose payload exceeds one frame must split rather than let the
// u16 length in the header wrap and corrupt the stream.
func TestEncodePassFramesSplit(t *testing.T) {
	patches := bulkCreates(1500, 64)
	if len(EncodePass(2, patches)) <= MaxPayloadSize {
		t.Fatal("test pass is not large enough to force a split")
	}

	frames, err := EncodePassFrames(2, patches)
	if err != nil {
		t.Fatalf("EncodePassFrames: %v", err)
	}
	if len(frames) < 2 {
		t.Fatalf("frames = %d, want a split", len(frames))
	}

	var keys []string
	for i, f := range frames {
		if len(f.Payload) > MaxPayloadSize {
			t.Fatalf("frame %d payload = %d bytes, exceeds limit", i, len(f.Payload))
		}
		wantFinal := i == len(frames)-1
		if f.Flags.Has(FlagFinal) != wantFinal {
			t.Errorf("frame %d FlagFinal = %v, want %v", i, !wantFinal, wantFinal)
		}

		// The header length must survive encode and decode intact.
		decoded, err := DecodeFrame(f.Encode())
		if err != nil {
			t.Fatalf("frame %d: DecodeFrame: %v", i, err)
		}
		if len(decoded.Payload) != len(f.Payload) {
			t.Fatalf("frame %d payload truncated: %d decoded, %d encoded", i, len(decoded.Payload), len(f.Payload))
		}

		pf, err := DecodePatches(decoded.Payload)
		if err != nil {
			t.Fatalf("frame %d: DecodePatches: %v", i, err)
		}
		if want := uint64(2 + i); pf.Seq != want {
			t.Errorf("frame %d seq = %d, want %d", i, pf.Seq, want)
		}
		for _, p := range pf.Patches {
			keys = append(keys, p.Node.Key)
		}
	}

	if len(keys) != len(patches) {
		t.Fatalf("patches across frames = %d, want %d", len(keys), len(patches))
	}
	for i, key := range keys {
		if want := fmt.Sprintf("k%d", i); key != want {
			t.Fatalf("patch %d key = %q, want %q", i, key, want)
		}
	}
}

func TestEncodePassFramesOversizedPatch(t *testing.T) {
	if _, err := EncodePassFrames(1, bulkCreates(1, MaxPayloadSize+1)); !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("err = %v, want ErrFrameTooLarge", err)
	}
}

func TestFromTreePatchStripsUpdateChildren(t *testing.T) {
	old := vdom.Div(vdom.Class("a"), vdom.Span("deep"))
	next := vdom.Div(vdom.Class("b"), vdom.Span("deep"))

	w := FromTreePatch(vdom.Patch{Op: vdom.OpUpdate, Old: old, New: next, From: -1, To: -1})
	if len(w.New.Children) != 0 {
		t.Error("Update payload should not carry children; they travel as their own patches")
	}
	if w.New.Attrs["class"] != "b" {
		t.Errorf("class = %q, want b", w.New.Attrs["class"])
	}
}

func TestToTreePatchReconstruction(t *testing.T) {
	node := vdom.Li(vdom.Key("z"), "last")
	parent := vdom.Ul(vdom.Key("root"))

	w := FromTreePatch(vdom.Patch{Op: vdom.OpCreate, Node: node, Parent: parent, From: -1, To: 2})
	back := w.ToTreePatch()

	if back.Op != vdom.OpCreate || back.To != 2 {
		t.Errorf("op/to = %v/%d", back.Op, back.To)
	}
	if back.Node.Key != "z" || back.Node.Children[0].Text != "last" {
		t.Errorf("Node = %+v", back.Node)
	}
	if back.Parent.Key != "root" {
		t.Errorf("Parent key = %q", back.Parent.Key)
	}
}

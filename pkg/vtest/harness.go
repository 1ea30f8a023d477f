package vtest

import (
	"context"
	"testing"

	"github.com/weft-ui/weft/pkg/engine"
	"github.com/weft-ui/weft/pkg/protocol"
	"github.com/weft-ui/weft/pkg/vdom"
)

// Harness drives an engine pass by pass and decodes what comes out the
// subscriber side, so a test can assert on wire frames without a
// network.
type Harness struct {
	t      *testing.T
	Engine *engine.Engine
	frames <-chan []byte
	subID  uint64
}

// NewHarness mounts root on a fresh engine and subscribes to its output.
func NewHarness(t *testing.T, root *vdom.VNode, opts ...engine.Option) *Harness {
	t.Helper()
	e := engine.New(opts...)
	if _, err := e.Mount(context.Background(), root); err != nil {
		t.Fatalf("vtest: mount: %v", err)
	}
	id, ch := e.Subscribe()
	t.Cleanup(e.Close)
	return &Harness{t: t, Engine: e, frames: ch, subID: id}
}

// Render runs one pass, failing the test on error.
func (h *Harness) Render(next *vdom.VNode) engine.Pass {
	h.t.Helper()
	pass, err := h.Engine.Render(context.Background(), next)
	if err != nil {
		h.t.Fatalf("vtest: render: %v", err)
	}
	return pass
}

// NextFrame returns the next subscriber frame, decoded. Fails when no
// frame is pending; frames are delivered synchronously during Render.
func (h *Harness) NextFrame() *protocol.Frame {
	h.t.Helper()
	select {
	case raw := <-h.frames:
		frame, err := protocol.DecodeFrame(raw)
		if err != nil {
			h.t.Fatalf("vtest: decode frame: %v", err)
		}
		return frame
	default:
		h.t.Fatal("vtest: no frame pending")
		return nil
	}
}

// NextPatches returns the next subscriber frame decoded as a patch
// frame.
func (h *Harness) NextPatches() *protocol.PatchesFrame {
	h.t.Helper()
	frame := h.NextFrame()
	if frame.Type != protocol.FramePatches {
		h.t.Fatalf("vtest: frame type %v, want Patches", frame.Type)
	}
	pf, err := protocol.DecodePatches(frame.Payload)
	if err != nil {
		h.t.Fatalf("vtest: decode patches: %v", err)
	}
	return pf
}

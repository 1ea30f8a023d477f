package protocol

import (
	"errors"
	"fmt"

	"github.com/weft-ui/weft/pkg/vdom"
)

// ErrInvalidPatchOp is returned when a patch payload names an unknown
// operation.
var ErrInvalidPatchOp = errors.New("protocol: invalid patch op")

// Patch is the wire form of one tree operation. Node payloads carry only
// what the far side needs: Create and Replace ship the full new subtree,
// Update ships the new node without children (child changes arrive as
// their own patches), Delete and Move ship a shallow descriptor, and the
// parent of a placement is identified by a shallow descriptor too.
type Patch struct {
	Op     vdom.PatchOp
	Node   *NodeWire // Create: full subtree; Delete/Move: shallow
	Old    *NodeWire // Update/Replace: shallow descriptor of the superseded node
	New    *NodeWire // Update: shallow; Replace: full subtree
	Parent *NodeWire // Create/Move: shallow descriptor; nil at the root
	From   int       // Move/Delete: previous-list position; -1 otherwise
	To     int       // Move/Create: next-list position; -1 otherwise
}

// FromTreePatch converts a reconciler patch to wire form.
func FromTreePatch(p vdom.Patch) Patch {
	w := Patch{Op: p.Op, From: p.From, To: p.To}
	switch p.Op {
	case vdom.OpCreate:
		w.Node = ToWire(p.Node)
		w.Parent = parentWire(p.Parent)
	case vdom.OpUpdate:
		w.Old = nodeWire(p.Old)
		w.New = nodeWire(p.New)
	case vdom.OpDelete:
		w.Node = nodeWire(p.Node)
	case vdom.OpReplace:
		w.Old = nodeWire(p.Old)
		w.New = ToWire(p.New)
	case vdom.OpMove:
		w.Node = nodeWire(p.Node)
		w.Parent = parentWire(p.Parent)
	}
	return w
}

// ToTreePatch converts a wire patch back to reconciler form. The nodes
// are fresh reconstructions; bindings and handlers do not survive the
// wire.
func (p Patch) ToTreePatch() vdom.Patch {
	return vdom.Patch{
		Op:     p.Op,
		Node:   p.Node.ToNode(),
		Old:    p.Old.ToNode(),
		New:    p.New.ToNode(),
		Parent: p.Parent.ToNode(),
		From:   p.From,
		To:     p.To,
	}
}

func nodeWire(v *vdom.VNode) *NodeWire {
	if v == nil {
		return nil
	}
	return shallowWire(v)
}

func parentWire(v *vdom.VNode) *NodeWire {
	if v == nil {
		return nil
	}
	w := shallowWire(v)
	w.Attrs = nil // placement needs identity, not state
	return w
}

// PatchesFrame is the payload of a FramePatches frame: one reconcile pass.
type PatchesFrame struct {
	Seq     uint64
	Patches []Patch
}

// EncodePatches encodes a PatchesFrame to bytes.
func EncodePatches(pf *PatchesFrame) []byte {
	e := NewEncoder()
	EncodePatchesTo(e, pf)
	return e.Bytes()
}

// EncodePatchesTo encodes a PatchesFrame using the provided encoder.
func EncodePatchesTo(e *Encoder, pf *PatchesFrame) {
	e.WriteUvarint(pf.Seq)
	e.WriteUvarint(uint64(len(pf.Patches)))
	for i := range pf.Patches {
		encodePatch(e, &pf.Patches[i])
	}
}

// EncodePass converts and encodes one reconciler pass in a single step.
func EncodePass(seq uint64, patches []vdom.Patch) []byte {
	pf := &PatchesFrame{Seq: seq, Patches: make([]Patch, len(patches))}
	for i, p := range patches {
		pf.Patches[i] = FromTreePatch(p)
	}
	return EncodePatches(pf)
}

// EncodePassFrames encodes one reconciler pass as a batch of FramePatches
// frames, splitting whenever the next patch would push the payload past
// MaxPayloadSize. Each frame carries its own sequence number, consecutive
// from startSeq, and the last frame has FlagFinal set. A single patch too
// large for one frame cannot be split; that yields ErrFrameTooLarge.
func EncodePassFrames(startSeq uint64, patches []vdom.Patch) ([]*Frame, error) {
	encoded := make([][]byte, len(patches))
	for i, p := range patches {
		wp := FromTreePatch(p)
		e := NewEncoder()
		encodePatch(e, &wp)
		encoded[i] = e.Bytes()
	}

	var frames []*Frame
	seq := startSeq
	for i := 0; i < len(encoded) || len(frames) == 0; {
		size, n := 0, 0
		for i+n < len(encoded) {
			next := len(encoded[i+n])
			if UvarintLen(seq)+UvarintLen(uint64(n+1))+size+next > MaxPayloadSize {
				break
			}
			size += next
			n++
		}
		if n == 0 && i < len(encoded) {
			return nil, fmt.Errorf("%w: patch %d encodes to %d bytes", ErrFrameTooLarge, i, len(encoded[i]))
		}
		e := NewEncoderWithCap(UvarintLen(seq) + UvarintLen(uint64(n)) + size)
		e.WriteUvarint(seq)
		e.WriteUvarint(uint64(n))
		for _, b := range encoded[i : i+n] {
			e.WriteBytes(b)
		}
		frames = append(frames, NewFrame(FramePatches, e.Bytes()))
		seq++
		i += n
	}
	frames[len(frames)-1].Flags |= FlagFinal
	return frames, nil
}

// DecodePatches decodes a PatchesFrame from bytes.
func DecodePatches(data []byte) (*PatchesFrame, error) {
	d := NewDecoder(data)
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	count, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}
	pf := &PatchesFrame{Seq: seq}
	if count > 0 {
		pf.Patches = make([]Patch, count)
		for i := 0; i < count; i++ {
			if err := decodePatch(d, &pf.Patches[i]); err != nil {
				return nil, fmt.Errorf("patch %d: %w", i, err)
			}
		}
	}
	return pf, nil
}

func encodePatch(e *Encoder, p *Patch) {
	e.WriteByte(byte(p.Op))
	switch p.Op {
	case vdom.OpCreate:
		EncodeNode(e, p.Node)
		EncodeNode(e, p.Parent)
		e.WriteSvarint(int64(p.To))
	case vdom.OpUpdate:
		EncodeNode(e, p.Old)
		EncodeNode(e, p.New)
	case vdom.OpDelete:
		EncodeNode(e, p.Node)
		e.WriteSvarint(int64(p.From))
	case vdom.OpReplace:
		EncodeNode(e, p.Old)
		EncodeNode(e, p.New)
	case vdom.OpMove:
		EncodeNode(e, p.Node)
		EncodeNode(e, p.Parent)
		e.WriteSvarint(int64(p.From))
		e.WriteSvarint(int64(p.To))
	}
}

func decodePatch(d *Decoder, p *Patch) error {
	opByte, err := d.ReadByte()
	if err != nil {
		return err
	}
	p.Op = vdom.PatchOp(opByte)
	p.From, p.To = -1, -1

	switch p.Op {
	case vdom.OpCreate:
		if p.Node, err = DecodeNode(d); err != nil {
			return err
		}
		if p.Parent, err = DecodeNode(d); err != nil {
			return err
		}
		to, err := d.ReadSvarint()
		if err != nil {
			return err
		}
		p.To = int(to)
	case vdom.OpUpdate:
		if p.Old, err = DecodeNode(d); err != nil {
			return err
		}
		if p.New, err = DecodeNode(d); err != nil {
			return err
		}
	case vdom.OpDelete:
		if p.Node, err = DecodeNode(d); err != nil {
			return err
		}
		from, err := d.ReadSvarint()
		if err != nil {
			return err
		}
		p.From = int(from)
	case vdom.OpReplace:
		if p.Old, err = DecodeNode(d); err != nil {
			return err
		}
		if p.New, err = DecodeNode(d); err != nil {
			return err
		}
	case vdom.OpMove:
		if p.Node, err = DecodeNode(d); err != nil {
			return err
		}
		if p.Parent, err = DecodeNode(d); err != nil {
			return err
		}
		from, err := d.ReadSvarint()
		if err != nil {
			return err
		}
		to, err := d.ReadSvarint()
		if err != nil {
			return err
		}
		p.From, p.To = int(from), int(to)
	default:
		return fmt.Errorf("%w: op 0x%02X", ErrInvalidPatchOp, opByte)
	}
	return nil
}

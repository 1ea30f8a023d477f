package protocol

import (
	"fmt"
	"strings"

	"github.com/weft-ui/weft/pkg/vdom"
)

// nilNodeMarker encodes a nil node on the wire.
const nilNodeMarker = 0xFF

// NodeWire is the wire form of a tree node. Bindings and event handler
// attributes are stripped; attribute values are flattened to strings.
type NodeWire struct {
	Kind     vdom.VKind
	Tag      string            // KindElement
	Key      string            // KindElement identity key
	Attrs    map[string]string // KindElement, string attributes only
	Children []*NodeWire       // KindElement/KindFragment
	Text     string            // KindText
}

// ToWire converts a node subtree to wire form. Handlers and the "key"
// pseudo-attribute are dropped; Ref never leaves the process.
func ToWire(node *vdom.VNode) *NodeWire {
	if node == nil {
		return nil
	}
	w := shallowWire(node)
	for _, child := range node.Children {
		if child != nil {
			w.Children = append(w.Children, ToWire(child))
		}
	}
	return w
}

// shallowWire converts one node without its children. Update payloads use
// this form: child changes travel as their own patches.
func shallowWire(node *vdom.VNode) *NodeWire {
	w := &NodeWire{
		Kind: node.Kind,
		Tag:  node.Tag,
		Key:  node.Key,
		Text: node.Text,
	}
	for key, val := range node.Attrs {
		if len(key) > 2 && strings.EqualFold(key[:2], "on") {
			continue
		}
		if key == "key" {
			continue
		}
		if w.Attrs == nil {
			w.Attrs = make(map[string]string, len(node.Attrs))
		}
		w.Attrs[key] = attrString(val)
	}
	return w
}

// ToNode converts the wire form back to a plain node. Handlers cannot be
// restored; attributes come back as strings.
func (w *NodeWire) ToNode() *vdom.VNode {
	if w == nil {
		return nil
	}
	node := &vdom.VNode{
		Kind: w.Kind,
		Tag:  w.Tag,
		Key:  w.Key,
		Text: w.Text,
	}
	if len(w.Attrs) > 0 {
		node.Attrs = make(vdom.Attrs, len(w.Attrs))
		for k, v := range w.Attrs {
			node.Attrs[k] = v
		}
	}
	for _, child := range w.Children {
		node.Children = append(node.Children, child.ToNode())
	}
	return node
}

func attrString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// EncodeNode encodes a node subtree using the provided encoder.
func EncodeNode(e *Encoder, node *NodeWire) {
	if node == nil {
		e.WriteByte(nilNodeMarker)
		return
	}
	e.WriteByte(byte(node.Kind))
	switch node.Kind {
	case vdom.KindText:
		e.WriteString(node.Text)
	default:
		e.WriteString(node.Tag)
		e.WriteString(node.Key)
		e.WriteUvarint(uint64(len(node.Attrs)))
		for k, v := range node.Attrs {
			e.WriteString(k)
			e.WriteString(v)
		}
		e.WriteUvarint(uint64(len(node.Children)))
		for _, child := range node.Children {
			EncodeNode(e, child)
		}
	}
}

// DecodeNode decodes a node subtree, enforcing MaxNodeDepth.
func DecodeNode(d *Decoder) (*NodeWire, error) {
	return decodeNode(d, 0)
}

func decodeNode(d *Decoder, depth int) (*NodeWire, error) {
	if err := checkDepth(depth, MaxNodeDepth); err != nil {
		return nil, err
	}

	kindByte, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	if kindByte == nilNodeMarker {
		return nil, nil
	}

	node := &NodeWire{Kind: vdom.VKind(kindByte)}
	if node.Kind == vdom.KindText {
		node.Text, err = d.ReadString()
		return node, err
	}

	if node.Tag, err = d.ReadString(); err != nil {
		return nil, err
	}
	if node.Key, err = d.ReadString(); err != nil {
		return nil, err
	}

	attrCount, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}
	if attrCount > 0 {
		node.Attrs = make(map[string]string, attrCount)
		for i := 0; i < attrCount; i++ {
			key, err := d.ReadString()
			if err != nil {
				return nil, err
			}
			val, err := d.ReadString()
			if err != nil {
				return nil, err
			}
			node.Attrs[key] = val
		}
	}

	childCount, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}
	for i := 0; i < childCount; i++ {
		child, err := decodeNode(d, depth+1)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

// Snapshot is a full-tree frame payload, sent on connect and whenever a
// consumer's resume point has fallen out of history.
type Snapshot struct {
	Seq  uint64    // Sequence the tree is current as of
	Root *NodeWire // nil for an empty tree
}

// EncodeSnapshot encodes a Snapshot to bytes.
func EncodeSnapshot(s *Snapshot) []byte {
	e := NewEncoder()
	e.WriteUvarint(s.Seq)
	EncodeNode(e, s.Root)
	return e.Bytes()
}

// DecodeSnapshot decodes a Snapshot from bytes.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	d := NewDecoder(data)
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	root, err := DecodeNode(d)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Seq: seq, Root: root}, nil
}

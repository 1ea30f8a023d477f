package vdom

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// JSON tree form:
//
//	{"tag":"ul","attrs":{"class":"list"},"children":[
//	    {"tag":"li","key":"a","children":["Apple"]},
//	    "loose text",
//	    42
//	]}
//
// Elements are objects, text nodes are bare strings, and stray numbers or
// booleans in child positions are coerced to text. Null children are
// dropped. This mirrors what the reconciler accepts from any producer:
// malformed child entries normalize instead of failing.

type jsonNode struct {
	Tag      string            `json:"tag,omitempty"`
	Key      string            `json:"key,omitempty"`
	Attrs    map[string]any    `json:"attrs,omitempty"`
	Children []json.RawMessage `json:"children,omitempty"`
	Text     *string           `json:"text,omitempty"`
	Fragment []json.RawMessage `json:"fragment,omitempty"`
}

// ParseJSON decodes a tree from its JSON form.
func ParseJSON(data []byte) (*VNode, error) {
	node := &VNode{}
	if err := json.Unmarshal(data, node); err != nil {
		return nil, fmt.Errorf("parse tree: %w", err)
	}
	return node, nil
}

// MarshalJSON encodes the node in the JSON tree form. Event handlers are
// not serializable and are dropped.
func (v *VNode) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindText:
		return json.Marshal(v.Text)

	case KindFragment:
		children, err := marshalChildren(v.Children)
		if err != nil {
			return nil, err
		}
		return json.Marshal(map[string]any{"fragment": children})

	default:
		out := jsonNode{Tag: v.Tag, Key: getKey(v)}
		for key, val := range v.Attrs {
			if isEventHandler(key) || key == "key" {
				continue
			}
			if out.Attrs == nil {
				out.Attrs = make(map[string]any)
			}
			out.Attrs[key] = val
		}
		for _, child := range v.Children {
			if child == nil {
				continue
			}
			raw, err := json.Marshal(child)
			if err != nil {
				return nil, err
			}
			out.Children = append(out.Children, raw)
		}
		return json.Marshal(out)
	}
}

func marshalChildren(children []*VNode) ([]json.RawMessage, error) {
	var out []json.RawMessage
	for _, child := range children {
		if child == nil {
			continue
		}
		raw, err := json.Marshal(child)
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return out, nil
}

// UnmarshalJSON decodes any JSON value into a node: objects become elements
// (or fragments when tagless), strings become text, numbers and booleans
// coerce to text, arrays become fragments.
func (v *VNode) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty node")
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = VNode{Kind: KindText, Text: s}
		return nil

	case '[':
		var raws []json.RawMessage
		if err := json.Unmarshal(data, &raws); err != nil {
			return err
		}
		children, err := unmarshalChildren(raws)
		if err != nil {
			return err
		}
		*v = VNode{Kind: KindFragment, Children: children}
		return nil

	case '{':
		var jn jsonNode
		if err := json.Unmarshal(data, &jn); err != nil {
			return err
		}
		switch {
		case jn.Text != nil:
			*v = VNode{Kind: KindText, Text: *jn.Text}
		case jn.Fragment != nil:
			children, err := unmarshalChildren(jn.Fragment)
			if err != nil {
				return err
			}
			*v = VNode{Kind: KindFragment, Children: children}
		case jn.Tag == "":
			children, err := unmarshalChildren(jn.Children)
			if err != nil {
				return err
			}
			*v = VNode{Kind: KindFragment, Children: children}
		default:
			children, err := unmarshalChildren(jn.Children)
			if err != nil {
				return err
			}
			key := jn.Key
			if key == "" {
				if s, ok := jn.Attrs["key"].(string); ok {
					key = s
				}
			}
			delete(jn.Attrs, "key")
			*v = VNode{
				Kind:     KindElement,
				Tag:      jn.Tag,
				Key:      key,
				Attrs:    jn.Attrs,
				Children: children,
			}
		}
		return nil

	default:
		// Number, boolean, or null. Null nodes are dropped by the parent;
		// at the top level they decode to an empty fragment.
		if bytes.Equal(data, []byte("null")) {
			*v = VNode{Kind: KindFragment}
			return nil
		}
		if !json.Valid(data) {
			return fmt.Errorf("malformed node: %.32q", data)
		}
		*v = VNode{Kind: KindText, Text: string(data)}
		return nil
	}
}

func unmarshalChildren(raws []json.RawMessage) ([]*VNode, error) {
	var out []*VNode
	for _, raw := range raws {
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
			continue
		}
		child := &VNode{}
		if err := child.UnmarshalJSON(trimmed); err != nil {
			return nil, err
		}
		out = append(out, child)
	}
	return out, nil
}

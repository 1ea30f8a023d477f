package vdom

import (
	"encoding/json"
	"testing"
)

func TestParseJSON(t *testing.T) {
	data := []byte(`{
		"tag": "ul",
		"attrs": {"class": "list"},
		"children": [
			{"tag": "li", "key": "a", "children": ["Apple"]},
			{"tag": "li", "key": "b", "children": ["Banana"]}
		]
	}`)

	node, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}

	if node.Tag != "ul" {
		t.Errorf("Tag = %v, want ul", node.Tag)
	}
	if node.Attrs["class"] != "list" {
		t.Errorf("class = %v, want list", node.Attrs["class"])
	}
	if len(node.Children) != 2 {
		t.Fatalf("Children len = %v, want 2", len(node.Children))
	}
	if node.Children[0].Key != "a" {
		t.Errorf("First child key = %v, want a", node.Children[0].Key)
	}
	if node.Children[0].Children[0].Text != "Apple" {
		t.Errorf("First child text = %v, want Apple", node.Children[0].Children[0].Text)
	}
}

func TestParseJSONCoercion(t *testing.T) {
	t.Run("bare string is text", func(t *testing.T) {
		node, err := ParseJSON([]byte(`"hello"`))
		if err != nil {
			t.Fatalf("ParseJSON: %v", err)
		}
		if node.Kind != KindText || node.Text != "hello" {
			t.Errorf("node = %+v, want text hello", node)
		}
	})

	t.Run("number coerces to text", func(t *testing.T) {
		node, err := ParseJSON([]byte(`{"tag":"span","children":[42, true]}`))
		if err != nil {
			t.Fatalf("ParseJSON: %v", err)
		}
		if len(node.Children) != 2 {
			t.Fatalf("Children len = %v, want 2", len(node.Children))
		}
		if node.Children[0].Text != "42" {
			t.Errorf("Child text = %v, want 42", node.Children[0].Text)
		}
		if node.Children[1].Text != "true" {
			t.Errorf("Child text = %v, want true", node.Children[1].Text)
		}
	})

	t.Run("null children dropped", func(t *testing.T) {
		node, err := ParseJSON([]byte(`{"tag":"div","children":[null, "x", null]}`))
		if err != nil {
			t.Fatalf("ParseJSON: %v", err)
		}
		if len(node.Children) != 1 {
			t.Errorf("Children len = %v, want 1", len(node.Children))
		}
	})

	t.Run("array is fragment", func(t *testing.T) {
		node, err := ParseJSON([]byte(`["a", {"tag":"b"}]`))
		if err != nil {
			t.Fatalf("ParseJSON: %v", err)
		}
		if node.Kind != KindFragment || len(node.Children) != 2 {
			t.Errorf("node = %+v, want fragment of 2", node)
		}
	})

	t.Run("tagless object is fragment", func(t *testing.T) {
		node, err := ParseJSON([]byte(`{"children":["x"]}`))
		if err != nil {
			t.Fatalf("ParseJSON: %v", err)
		}
		if node.Kind != KindFragment {
			t.Errorf("Kind = %v, want KindFragment", node.Kind)
		}
	})

	t.Run("null is empty fragment", func(t *testing.T) {
		node, err := ParseJSON([]byte(`null`))
		if err != nil {
			t.Fatalf("ParseJSON: %v", err)
		}
		if node.Kind != KindFragment || len(node.Children) != 0 {
			t.Errorf("node = %+v, want empty fragment", node)
		}
	})

	t.Run("key lifted from attrs", func(t *testing.T) {
		node, err := ParseJSON([]byte(`{"tag":"li","attrs":{"key":"a","class":"x"}}`))
		if err != nil {
			t.Fatalf("ParseJSON: %v", err)
		}
		if node.Key != "a" {
			t.Errorf("Key = %v, want a", node.Key)
		}
		if _, ok := node.Attrs["key"]; ok {
			t.Error("key must not remain in Attrs")
		}
	})

	t.Run("malformed input fails", func(t *testing.T) {
		if _, err := ParseJSON([]byte(`{"tag":`)); err == nil {
			t.Error("Expected an error for truncated JSON")
		}
	})
}

func TestMarshalJSON(t *testing.T) {
	t.Run("element", func(t *testing.T) {
		node := Ul(Class("list"), Li(Key("a"), Text("Apple")))

		data, err := json.Marshal(node)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}

		back, err := ParseJSON(data)
		if err != nil {
			t.Fatalf("ParseJSON: %v", err)
		}
		if back.Tag != "ul" || back.Attrs["class"] != "list" {
			t.Errorf("round trip lost the element shape: %+v", back)
		}
		if back.Children[0].Key != "a" {
			t.Errorf("round trip lost the key: %+v", back.Children[0])
		}
		if back.Children[0].Children[0].Text != "Apple" {
			t.Errorf("round trip lost the text: %+v", back.Children[0])
		}
	})

	t.Run("text marshals as bare string", func(t *testing.T) {
		data, err := json.Marshal(Text("hi"))
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if string(data) != `"hi"` {
			t.Errorf("Marshal = %s, want \"hi\"", data)
		}
	})

	t.Run("fragment", func(t *testing.T) {
		data, err := json.Marshal(Fragment(Text("a"), Div()))
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		back, err := ParseJSON(data)
		if err != nil {
			t.Fatalf("ParseJSON: %v", err)
		}
		if back.Kind != KindFragment || len(back.Children) != 2 {
			t.Errorf("round trip = %+v, want fragment of 2", back)
		}
	})

	t.Run("handlers dropped", func(t *testing.T) {
		node := Button(Class("btn"), OnClick(func(Event) {}))

		data, err := json.Marshal(node)
		if err != nil {
			t.Fatalf("Marshal should skip handlers, got %v", err)
		}
		back, err := ParseJSON(data)
		if err != nil {
			t.Fatalf("ParseJSON: %v", err)
		}
		if _, ok := back.Attrs["onclick"]; ok {
			t.Error("Handler survived serialization")
		}
		if back.Attrs["class"] != "btn" {
			t.Errorf("class = %v, want btn", back.Attrs["class"])
		}
	})
}

func TestJSONRoundTripReconciles(t *testing.T) {
	// A parsed copy of a tree must reconcile against the original with no
	// patches: the wire form carries everything identity depends on.
	tree := Div(Class("app"),
		Ul(
			Li(Key("a"), Text("Apple")),
			Li(Key("b"), Text("Banana")),
		),
		P(ID("note"), Text("2 items")),
	)

	data, err := json.Marshal(tree)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}

	if patches := Diff(tree, back); len(patches) != 0 {
		t.Errorf("Expected 0 patches after round trip, got %d: %v", len(patches), patches)
	}
}

package vdom

import "testing"

func TestText(t *testing.T) {
	node := Text("Hello, World!")

	if node.Kind != KindText {
		t.Errorf("Kind = %v, want KindText", node.Kind)
	}
	if node.Text != "Hello, World!" {
		t.Errorf("Text = %v, want 'Hello, World!'", node.Text)
	}
}

func TestTextf(t *testing.T) {
	node := Textf("Count: %d", 42)
	if node.Text != "Count: 42" {
		t.Errorf("Text = %v, want 'Count: 42'", node.Text)
	}
}

func TestRaw(t *testing.T) {
	node := Raw("<strong>Bold</strong>")

	if node.Kind != KindRaw {
		t.Errorf("Kind = %v, want KindRaw", node.Kind)
	}
	if node.Text != "<strong>Bold</strong>" {
		t.Errorf("Text = %v, want '<strong>Bold</strong>'", node.Text)
	}
}

func TestFragment(t *testing.T) {
	t.Run("with VNodes", func(t *testing.T) {
		node := Fragment(Div(), Span(), P())
		if node.Kind != KindFragment {
			t.Errorf("Kind = %v, want KindFragment", node.Kind)
		}
		if len(node.Children) != 3 {
			t.Errorf("Children len = %v, want 3", len(node.Children))
		}
	})

	t.Run("with nil filtered", func(t *testing.T) {
		var missing *VNode
		node := Fragment(Div(), nil, missing, Span())
		if len(node.Children) != 2 {
			t.Errorf("Children len = %v, want 2", len(node.Children))
		}
	})

	t.Run("with slice", func(t *testing.T) {
		node := Fragment([]*VNode{Div(), nil, Span()})
		if len(node.Children) != 2 {
			t.Errorf("Children len = %v, want 2", len(node.Children))
		}
	})

	t.Run("with nested any slice", func(t *testing.T) {
		node := Fragment([]any{"a", []any{Div()}})
		if len(node.Children) != 2 {
			t.Errorf("Children len = %v, want 2", len(node.Children))
		}
	})

	t.Run("with string", func(t *testing.T) {
		node := Fragment("Hello")
		if len(node.Children) != 1 {
			t.Fatalf("Children len = %v, want 1", len(node.Children))
		}
		if node.Children[0].Kind != KindText {
			t.Errorf("Child kind = %v, want KindText", node.Children[0].Kind)
		}
	})

	t.Run("with component", func(t *testing.T) {
		node := Fragment(Func(func() *VNode { return Text("x") }))
		if node.Children[0].Kind != KindComponent {
			t.Errorf("Child kind = %v, want KindComponent", node.Children[0].Kind)
		}
	})
}

func TestIf(t *testing.T) {
	node := Div()
	if If(true, node) != node {
		t.Error("If(true) should return node")
	}
	if If(false, node) != nil {
		t.Error("If(false) should return nil")
	}
}

func TestWhen(t *testing.T) {
	called := false
	fn := func() *VNode {
		called = true
		return Div()
	}

	if When(false, fn) != nil || called {
		t.Error("When(false) should not call fn")
	}
	if When(true, fn) == nil || !called {
		t.Error("When(true) should call fn")
	}
}

func TestRange(t *testing.T) {
	items := []string{"a", "", "c"}
	nodes := Range(items, func(item string, i int) *VNode {
		if item == "" {
			return nil
		}
		return Li(Text(item))
	})
	if len(nodes) != 2 {
		t.Errorf("len = %d, want 2", len(nodes))
	}
}

func TestKey(t *testing.T) {
	a := Key(42)
	if a.Key != "key" || a.Value != "42" {
		t.Errorf("Key(42) = %+v", a)
	}
}

func TestEither(t *testing.T) {
	a, b := Div(), Span()
	if Either(a, b) != a {
		t.Error("Either should prefer first")
	}
	if Either(nil, b) != b {
		t.Error("Either should fall back to second")
	}
}

package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Node is a single UI element: panel, label, button or image. It has optional class and id for
// CSS matching, bounds (set by the engine during Draw) and optional text.
type Node struct {
	Type  string // "panel", "label", "button", "image"
	Class string // e.g. "details" for .details
	ID    string // e.g. "popup" for #popup
	Text  string // may span several lines

	// Parent positions the node inside another one (after the parent's padding).
	Parent *Node
	// Offset is added to the styled position, used to stack children.
	Offset rl.Vector2
	// Height, when > 0, overrides the styled height.
	Height float32
	Image  rl.Texture2D
	// Action is reported by HitTest; nodes without one are not clickable.
	Action string
	Alpha  float32 // 0–1, multiplies every colour of the node
	Hidden bool

	Bounds rl.Rectangle
	pad    float32
}

// NewNode creates a node with type and optional class, id, and text.
func NewNode(typ, class, id, text string) *Node {
	return &Node{Type: typ, Class: class, ID: id, Text: text, Alpha: 1}
}

// Button returns a clickable label.
func Button(class, text, action string) *Node {
	n := NewNode("button", class, "", text)
	n.Action = action
	return n
}

// Contains reports whether (x, y) lies inside the node's last drawn bounds.
func (n *Node) Contains(x, y float32) bool {
	b := n.Bounds
	return x >= b.X && x < b.X+b.Width && y >= b.Y && y < b.Y+b.Height
}

func (n *Node) hidden() bool {
	for p := n; p != nil; p = p.Parent {
		if p.Hidden {
			return true
		}
	}
	return false
}

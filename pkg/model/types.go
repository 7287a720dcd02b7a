package model

// FieldKind is the input-control category inferred for a leaf.
type FieldKind string

const (
	FieldKindText     FieldKind = "text"
	FieldKindTextArea FieldKind = "textarea"
	FieldKindNumber   FieldKind = "number"
	FieldKindFloat    FieldKind = "float"
	FieldKindDate     FieldKind = "date"
	FieldKindDateTime FieldKind = "datetime"
	FieldKindCheckbox FieldKind = "checkbox"
)

// StyleTag returns the extra style tag a renderer attaches to controls of
// this kind. Checkboxes render as switches; other kinds have none.
func (k FieldKind) StyleTag() string {
	if k == FieldKindCheckbox {
		return "switch"
	}
	return ""
}

// Field describes one leaf of an encoded document.
type Field struct {
	// Path is the full composite path, root name included.
	Path string
	// Key is the last path segment, used as the control label.
	Key   string
	Value Value
	Kind  FieldKind
}

// Text returns the value as written into the control.
func (f Field) Text() string {
	return f.Value.Text()
}

// Checked reports whether a checkbox field is set.
func (f Field) Checked() bool {
	return f.Kind == FieldKindCheckbox && f.Value.AsBool()
}

// Group is one nesting level of the grouping tree. Title is the last segment
// of the container path (the root name for the outermost group).
type Group struct {
	Title    string
	Path     string
	Children []Node
}

// Node is either a nested Group or a reference to a leaf in Layout.Fields.
type Node struct {
	Group *Group
	Field int
}

// IsGroup reports whether n is a nesting level rather than a leaf.
func (n Node) IsGroup() bool { return n.Group != nil }

// Layout is the encoder output: leaves in pre-order plus the grouping tree.
type Layout struct {
	Root   string
	Fields []Field
	Tree   Node
}

// Walk visits the tree depth first, calling enter/leave around groups and
// leaf for every field reference.
func (l Layout) Walk(enter func(depth int, g *Group), leave func(depth int, g *Group), leaf func(depth int, f Field)) {
	walkNode(l, l.Tree, 0, enter, leave, leaf)
}

func walkNode(l Layout, n Node, depth int, enter, leave func(int, *Group), leaf func(int, Field)) {
	if n.Group == nil {
		if leaf != nil && n.Field >= 0 && n.Field < len(l.Fields) {
			leaf(depth, l.Fields[n.Field])
		}
		return
	}
	if enter != nil {
		enter(depth, n.Group)
	}
	for _, child := range n.Group.Children {
		walkNode(l, child, depth+1, enter, leave, leaf)
	}
	if leave != nil {
		leave(depth, n.Group)
	}
}

package cdx

// Prop is one typed attribute of a Node, in document order. Unknown
// properties keep an empty Name and an Unformatted payload.
type Prop struct {
	Tag   Tag
	Name  string
	Value Value
}

// Node is one object of the document tree. It owns its properties and
// children exclusively; the tree has no cycles and no sharing. Nodes with
// unregistered tags are flagged Unknown and survive a binary round-trip
// opaquely.
type Node struct {
	Tag      Tag
	Name     string // CDXML element name, "" for unknown objects
	ID       uint32
	Props    []Prop
	Children []*Node
	Unknown  bool

	// MarkupOnly marks nodes which must not be written to binary.
	// ChemDraw renders stereo indicator tags read from a CDX file twice
	// when the file also spells them explicitly, so the markup reader
	// flags them instead of dropping them.
	MarkupOnly bool
}

// NewNode creates a node for a registered element name. It panics on
// unregistered names and is meant for programmatic document building.
func NewNode(element string, id uint32) *Node {
	e, ok := LookupObjectName(element)
	if !ok {
		panic("cdx: no object registered for element " + element)
	}
	return &Node{Tag: e.Tag, Name: element, ID: id}
}

// Prop returns the value of the property with the given attribute name.
func (n *Node) Prop(name string) (Value, bool) {
	for _, p := range n.Props {
		if p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}

// SetProp sets a property by attribute name, replacing an existing value
// in place or appending. Unregistered names panic; property mutation is a
// programmatic operation on known attributes.
func (n *Node) SetProp(name string, v Value) {
	e, ok := LookupPropertyName(name)
	if !ok {
		panic("cdx: no property registered for attribute " + name)
	}
	for i, p := range n.Props {
		if p.Name == name {
			n.Props[i].Value = v
			return
		}
	}
	n.Props = append(n.Props, Prop{Tag: e.Tag, Name: name, Value: v})
}

// DeleteProp removes a property by attribute name. Removing an absent
// property is a no-op.
func (n *Node) DeleteProp(name string) {
	for i, p := range n.Props {
		if p.Name == name {
			n.Props = append(n.Props[:i], n.Props[i+1:]...)
			return
		}
	}
}

// AppendChild adds a child node.
func (n *Node) AppendChild(child *Node) {
	n.Children = append(n.Children, child)
}

// ChildrenNamed returns all direct children with the given element name.
func (n *Node) ChildrenNamed(element string) []*Node {
	var r []*Node
	for _, c := range n.Children {
		if c.Name == element {
			r = append(r, c)
		}
	}
	return r
}

// Walk visits n and its subtree depth-first in document order. Returning
// false from the visitor prunes the subtree below the visited node.
func (n *Node) Walk(visit func(*Node) bool) {
	if !visit(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(visit)
	}
}

// ---------------------------------------------------------------------------

// Document is a parsed CDX or CDXML document. Root is the document object
// itself; Fonts and Colors alias the table values stored among the root's
// properties, so table edits are visible to both codecs without any
// copying.
type Document struct {
	Root     *Node
	Fonts    *FontTable
	Colors   *ColorTable
	nextID   uint32
	warnings []DecodeWarning
	problems []DecodeError
}

// Warnings returns the non-fatal issues collected while decoding the
// document.
func (d *Document) Warnings() []DecodeWarning {
	return d.warnings
}

// Problems returns the decoding errors the decoder recovered from, such
// as property payloads it preserved opaquely instead of interpreting.
func (d *Document) Problems() []DecodeError {
	return d.problems
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{
		Root:   &Node{Tag: TagDocument, Name: "CDXML"},
		nextID: 1,
	}
}

// NewID hands out the next unused object ID.
func (d *Document) NewID() uint32 {
	id := d.nextID
	d.nextID++
	return id
}

// noteID makes sure NewID never hands out an ID at or below the given one.
func (d *Document) noteID(id uint32) {
	if id >= d.nextID {
		d.nextID = id + 1
	}
}

// Walk visits every node of the document depth-first.
func (d *Document) Walk(visit func(*Node) bool) {
	if d.Root != nil {
		d.Root.Walk(visit)
	}
}

// FindNode returns the node with the given object ID.
func (d *Document) FindNode(id uint32) *Node {
	var found *Node
	d.Walk(func(n *Node) bool {
		if found != nil {
			return false
		}
		if n.ID == id && n != d.Root {
			found = n
			return false
		}
		return true
	})
	return found
}

// EnsureFontTable returns the document font table, installing an empty one
// as a root property if the document has none.
func (d *Document) EnsureFontTable() *FontTable {
	if d.Fonts == nil {
		d.Fonts = &FontTable{OSType: 1}
		d.Root.Props = append([]Prop{{Tag: TagFontTable, Name: "fonttable", Value: d.Fonts}}, d.Root.Props...)
	}
	return d.Fonts
}

// EnsureColorTable returns the document color table, installing an empty
// one as a root property if the document has none.
func (d *Document) EnsureColorTable() *ColorTable {
	if d.Colors == nil {
		d.Colors = &ColorTable{}
		d.Root.Props = append([]Prop{{Tag: TagColorTable, Name: "colortable", Value: d.Colors}}, d.Root.Props...)
	}
	return d.Colors
}

// hookTables wires Fonts and Colors to table values found among the root
// properties. Called by both codecs after the root node is populated.
func (d *Document) hookTables() {
	for _, p := range d.Root.Props {
		switch v := p.Value.(type) {
		case *FontTable:
			d.Fonts = v
		case *ColorTable:
			d.Colors = v
		}
	}
}

// Pages returns the page nodes of the document.
func (d *Document) Pages() []*Node {
	return d.Root.ChildrenNamed("page")
}

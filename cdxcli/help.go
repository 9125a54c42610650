package main

import (
	"strings"

	"github.com/pterm/pterm"
)

func helpOp(intp *Intp, op *Op) (error, bool) {
	help(op.arg)
	return nil, false
}

func help(topic string) {
	tracer().Infof("help %v", topic)
	t := strings.ToLower(topic)
	switch t {
	case "tree", "node", "nodes", "object", "objects":
		pterm.Info.Println("Document tree")
		pterm.Println(`
	A ChemDraw document is a tree of objects. Every object has a tag,
	an ID, a list of typed properties and a list of children:
	+----------+-------------------------------+
	| document | fonttable, colortable, styles |
	+----------+-------------------------------+
	     |
	+----------+-------------------------------+
	| page     | BoundingBox, ...              |
	+----------+-------------------------------+
	     |
	+----------+-------------------------------+
	| fragment | n (atoms), b (bonds), t, ...  |
	+----------+-------------------------------+
	Navigate with 'nodes' to list children, 'down:<index>' to descend,
	'up' (or '..') to go back, and 'find:<id>' to jump to an object.
	`)
	case "prop", "props", "attribute", "attributes":
		pterm.Info.Println("Properties")
		pterm.Println(`
	Properties are typed values attached to an object. In CDXML they
	appear as attributes, in CDX as tagged binary records:
	+-----------+--------+---------------------+
	| Attribute | Tag    | Value               |
	+-----------+--------+---------------------+
	| p         | 0x0200 | 146.50 89.25        |
	| Element   | 0x0402 | 8                   |
	+-----------+--------+---------------------+
	'props' lists the properties of the current object; 'props:<substr>'
	filters by attribute name. Unknown properties decoded from binary
	are kept verbatim and shown with their tag only.
	`)
	default:
		pterm.Info.Println("Commands")
		pterm.Println(`
	open:<file>     load a CDX or CDXML file
	info            document summary
	nodes           list children of the current object
	down:<index>    descend into a child
	up  (or ..)     go back up
	find:<id>       jump to the object with the given ID
	props[:<name>]  list properties of the current object
	text            show the styled text of the current object
	fonts, colors   show the document tables
	print           show the current location
	help:<topic>    more on 'tree' or 'props'
	quit            leave
	`)
	}
}

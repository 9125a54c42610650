/*
Package chem adapts neutral molecule object models to chemical drawing
documents.

Toolkits like RDKit or CDK describe a molecule as a graph of atoms and
bonds with 2D coordinates. Drawing files describe the same molecule as a
tree of drawing objects with fonts, styles and page geometry. This package
bridges the two: FromMolecule lays a molecule graph out as a document with
a page, one fragment per connected component, atom and bond nodes, and
text labels for atoms which ChemDraw draws with a symbol.

Coordinates are normalized on the way in. The molecule's bond lengths are
scaled to the document's bond length setting, the y axis is flipped
(drawing files grow downwards), and the drawing is placed with a margin
from the page border.

# Status

Molecule layout comes from the caller. Structures without coordinates are
rejected rather than laid out here.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 Norbert Pillmayer <norbert.pillmayer@gmx.de>
*/
package chem

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'chem.mol'.
func tracer() tracing.Trace {
	return tracing.Select("chem.mol")
}

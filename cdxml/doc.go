/*
Package cdxml reads and writes the CDXML markup form of ChemDraw
documents. It shares the document model and the tag registry with the
binary codec in package cdx; converting between the two formats is a
matter of decoding with one package and encoding with the other.

The two formats disagree on structure in a handful of places. The binary
form stores the font table, the color table, text style runs, label
styles and "represents" links as properties, while CDXML renders them as
child elements or attribute groups. This package owns those
reconciliation rules; each rule is its own inverse under a round trip.

Byte fidelity is a guarantee of the binary codec only. CDXML output is
content-equivalent: ChemDraw accepts it, and re-reading it yields an
equivalent document tree.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package cdxml

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'chem.cdxml'
func tracer() tracing.Trace {
	return tracing.Select("chem.cdxml")
}

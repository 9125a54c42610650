/*
Package slides composes many chemical structures into one grid document.

A slide is a single page with a column/row grid of cells. Each input
document contributes one cell: a group node holding the document's
fragments, scaled down to fit, plus a text block with per-structure
property values below the structure. Properties are additionally attached
as annotation objects, which survive export to SD files.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 Norbert Pillmayer <norbert.pillmayer@gmx.de>
*/
package slides

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'chem.slides'.
func tracer() tracing.Trace {
	return tracing.Select("chem.slides")
}

/*
Package chemdraw converts chemical drawing files between their binary
(CDX) and markup (CDXML) forms.

Both forms describe the same document: a tree of drawing objects with
typed properties, plus shared font and color tables. Package cdx holds
that document model together with the binary codec, package cdxml the
markup codec. This package is the convenience surface on top: read a
file in either form, get a *cdx.Document, write it back out in either
form.

	doc, err := chemdraw.ReadCDXFile("caffeine.cdx")
	if err != nil { ... }
	err = chemdraw.WriteCDXMLFile(doc, "caffeine.cdxml")

Batch conversion of many files runs through ConvertBatch, which bounds
its concurrency and isolates per-file failures.

The sister packages chem, styler and slides build on the document model:
molecule import, style normalization and grid composition.

# Status

Round-trips of files written by ChemDraw 8 through 21 are covered.
Drawing objects and properties this module does not know are carried
through binary round-trips opaquely and dropped, with a diagnostic, on
conversion to markup.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 Norbert Pillmayer <norbert.pillmayer@gmx.de>
*/
package chemdraw

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'chem.convert'.
func tracer() tracing.Trace {
	return tracing.Select("chem.convert")
}

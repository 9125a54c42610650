/*
Package cdx provides access to ChemDraw CDX documents.
Intended audience for this package are:

▪︎ converters between CDX and CDXML (see the sister package cdxml)

▪︎ tools that post-process chemical drawings, e.g. style normalizers and
slide generators

▪︎ any application needing the internal structure of a CDX file available,
and possibly extending the package by handling additional tags

CDX is a binary container of nested, tag-addressed records. Package `cdx`
will not interpret the chemistry contained in a drawing, but rather expose
the object tree to the client. For example, it is not possible to ask
package `cdx` for the molecular weight of a fragment. Clients have to walk
the nodes and consult the appropriate properties themselves. From this
point of view, `cdx` is a low-level package.

The format has been produced by many ChemDraw versions over three decades,
and files in the wild routinely deviate from the published specification
(extra padding after fixed-width values, missing style-run counts, pre-release
headers). Package `cdx` tries to circumvent known quirks and to reproduce
them byte-for-byte when writing a document back out.

# Status

Work in progress. The registry of known tags covers the object and property
tags produced by current ChemDraw versions for drawings; records with tags
outside the registry are preserved opaquely and survive a binary round-trip
unchanged.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package cdx

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'chem.cdx'
func tracer() tracing.Trace {
	return tracing.Select("chem.cdx")
}

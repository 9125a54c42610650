/*
Package styler normalizes the drawing style of chemical documents.

Documents collected from different sources carry different bond lengths,
line widths and label fonts. The styler rewrites a document in place to a
single target style: document-level settings, a global rescale so that
the average bond length matches the style, label font and size rewrites,
and removal of per-atom and per-bond style overrides so that the document
settings take effect.

A style comes from one of three sources: a named built-in style (ACS 1996
or Wiley), a template document whose style is copied, or an explicit
configuration, either in code or from a TOML file.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 Norbert Pillmayer <norbert.pillmayer@gmx.de>
*/
package styler

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'chem.style'.
func tracer() tracing.Trace {
	return tracing.Select("chem.style")
}

package cdx

import "fmt"

// Tag identifies a record in a CDX data stream. Tags are 16 bit values with
// the high bit discriminating between the two record kinds: object records
// (high bit set) carry a 32 bit object ID and nest, property records (high
// bit clear) carry a length-prefixed payload.
type Tag uint16

// IsObject returns true if t denotes an object record.
func (t Tag) IsObject() bool {
	return t&0x8000 != 0
}

// String returns the semantic name of the tag if it is registered, and a
// hex representation otherwise.
func (t Tag) String() string {
	if t.IsObject() {
		if e, ok := LookupObject(t); ok {
			return e.Name
		}
	} else {
		if e, ok := LookupProperty(t); ok {
			return e.Name
		}
	}
	return fmt.Sprintf("0x%04X", uint16(t))
}

// Well-known tags which the codecs treat specially. All other tags are
// driven by the registry tables.
const (
	TagEndOfObject Tag = 0x0000 // terminates an object record
	TagDocument    Tag = 0x8000 // the root object of every stream
	TagPage        Tag = 0x8001
	TagGroup       Tag = 0x8002
	TagFragment    Tag = 0x8003
	TagNode        Tag = 0x8004
	TagBond        Tag = 0x8005
	TagText        Tag = 0x8006
	TagGraphic     Tag = 0x8007
	TagObjectTag   Tag = 0x8011

	TagFontTable     Tag = 0x0100
	TagColorTable    Tag = 0x0300
	TagTextProp      Tag = 0x0700
	TagLabelStyle    Tag = 0x080A
	TagCaptionStyle  Tag = 0x080B
	TagRepresents    Tag = 0x000E
	TagObjectTagType Tag = 0x0D00
	TagObjectTagVal  Tag = 0x0D05
)

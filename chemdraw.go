package chemdraw

import (
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/chemfile/chemdraw/cdx"
	"github.com/chemfile/chemdraw/cdxml"
)

// ReadCDX decodes a binary drawing file from a reader.
func ReadCDX(r io.Reader) (*cdx.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return cdx.Decode(data)
}

// ReadCDXFile decodes the binary drawing file at path.
func ReadCDXFile(path string) (*cdx.Document, error) {
	return cdx.DecodeFile(path)
}

// FromBase64CDX decodes a base64-encoded binary drawing, the form
// ChemDraw's JavaScript API hands out.
func FromBase64CDX(encoded string) (*cdx.Document, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("not valid base64: %w", err)
	}
	return cdx.Decode(data)
}

// ToBase64CDX encodes a document as base64-wrapped binary.
func ToBase64CDX(doc *cdx.Document) (string, error) {
	data, err := cdx.Encode(doc)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// ReadCDXML parses a markup drawing file from a reader.
func ReadCDXML(r io.Reader) (*cdx.Document, error) {
	return cdxml.Read(r)
}

// ReadCDXMLFile parses the markup drawing file at path.
func ReadCDXMLFile(path string) (*cdx.Document, error) {
	return cdxml.ReadFile(path)
}

// ReadCDXMLString parses markup held in a string.
func ReadCDXMLString(markup string) (*cdx.Document, error) {
	return cdxml.Unmarshal([]byte(markup))
}

// WriteCDX writes a document as binary to w. The document is encoded
// fully before the first byte is written.
func WriteCDX(doc *cdx.Document, w io.Writer) error {
	data, err := cdx.Encode(doc)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteCDXFile writes a document as a binary file.
func WriteCDXFile(doc *cdx.Document, path string) error {
	return cdx.EncodeFile(doc, path)
}

// WriteCDXML writes a document as markup to w.
func WriteCDXML(doc *cdx.Document, w io.Writer) error {
	return cdxml.Write(doc, w)
}

// WriteCDXMLFile writes a document as a markup file.
func WriteCDXMLFile(doc *cdx.Document, path string) error {
	return cdxml.WriteFile(doc, path)
}

// ToCDXML renders a document as markup.
func ToCDXML(doc *cdx.Document) (string, error) {
	data, err := cdxml.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ToCDX encodes a document as binary.
func ToCDX(doc *cdx.Document) ([]byte, error) {
	return cdx.Encode(doc)
}

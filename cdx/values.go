package cdx

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Value codec dispatch. The registry names a type per property; this file
// maps type names to the decode (binary payload) and parse (CDXML
// attribute) directions. The encode directions live on the Value types
// themselves.

var scalarValueTypes = map[string]bool{
	"INT8":             true,
	"UINT8":            true,
	"INT16":            true,
	"UINT16":           true,
	"INT32":            true,
	"UINT32":           true,
	"FLOAT64":          true,
	"CDXCoordinate":    true,
	"CDXPoint2D":       true,
	"CDXPoint3D":       true,
	"CDXRectangle":     true,
	"CDXBoolean":       true,
	"CDXBooleanImplied": true,
	"CDXColorRef":      true,
	"CDXCharge":        true,
	"CDXBondOrder":     true,
	"CDXObjectIDArray": true,
	"CDXINT16List":     true,
	"CDXCurvePoints":   true,
	"CDXRepresents":    true,
	"CDXUnformatted":   true,
	"CDXCompressed":    true,
	"CDXLineHeight":    true,
	"CDXTenthsINT16":   true,
	"CDXAngle":         true,
	"CDXString":        true,
	"CDXFontTable":     true,
	"CDXColorTable":    true,
	"CDXFontStyle":     true,
	"CDXTagValue":      true,
}

func knownValueType(name string) bool {
	if scalarValueTypes[name] {
		return true
	}
	if t, ok := strings.CutPrefix(name, "enum:"); ok {
		_, exists := enumTables[t]
		return exists
	}
	if t, ok := strings.CutPrefix(name, "flags:"); ok {
		_, exists := flagTables[t]
		return exists
	}
	return false
}

// decodeEnv carries the context a payload decoder may need: the element
// the property sits on and the document font table for charset resolution.
type decodeEnv struct {
	element string
	fonts   *FontTable
	utf8    bool
}

func needBytes(typeName string, data binarySegm, n int) error {
	if len(data) < n {
		return fmt.Errorf("%s: payload of %d bytes, need %d", typeName, len(data), n)
	}
	return nil
}

// decodeValue interprets a binary property payload according to the
// registry type name.
func decodeValue(typeName string, data binarySegm, env *decodeEnv) (Value, error) {
	if t, ok := strings.CutPrefix(typeName, "enum:"); ok {
		return decodeEnum(enumTables[t], data)
	}
	if t, ok := strings.CutPrefix(typeName, "flags:"); ok {
		return decodeFlags(flagTables[t], data)
	}
	switch typeName {
	case "INT8":
		if err := needBytes(typeName, data, 1); err != nil {
			return nil, err
		}
		return Int8(data[0]), nil
	case "UINT8":
		if err := needBytes(typeName, data, 1); err != nil {
			return nil, err
		}
		return UInt8(data[0]), nil
	case "INT16":
		if err := needBytes(typeName, data, 2); err != nil {
			return nil, err
		}
		return Int16(u16(data)), nil
	case "UINT16":
		if err := needBytes(typeName, data, 2); err != nil {
			return nil, err
		}
		return UInt16(u16(data)), nil
	case "INT32":
		if err := needBytes(typeName, data, 4); err != nil {
			return nil, err
		}
		return Int32(u32(data)), nil
	case "UINT32":
		if err := needBytes(typeName, data, 4); err != nil {
			return nil, err
		}
		return UInt32(u32(data)), nil
	case "FLOAT64":
		if err := needBytes(typeName, data, 8); err != nil {
			return nil, err
		}
		return Float64(math.Float64frombits(u64(data))), nil
	case "CDXCoordinate":
		if err := needBytes(typeName, data, 4); err != nil {
			return nil, err
		}
		return Coordinate(int32(u32(data))), nil
	case "CDXPoint2D":
		if err := needBytes(typeName, data, 8); err != nil {
			return nil, err
		}
		return Point2D{Y: Coordinate(int32(u32(data))), X: Coordinate(int32(u32(data[4:])))}, nil
	case "CDXPoint3D":
		if err := needBytes(typeName, data, 12); err != nil {
			return nil, err
		}
		return Point3D{
			X: Coordinate(int32(u32(data))),
			Y: Coordinate(int32(u32(data[4:]))),
			Z: Coordinate(int32(u32(data[8:]))),
		}, nil
	case "CDXRectangle":
		if err := needBytes(typeName, data, 16); err != nil {
			return nil, err
		}
		return Rectangle{
			Top:    Coordinate(int32(u32(data))),
			Left:   Coordinate(int32(u32(data[4:]))),
			Bottom: Coordinate(int32(u32(data[8:]))),
			Right:  Coordinate(int32(u32(data[12:]))),
		}, nil
	case "CDXBoolean":
		if err := needBytes(typeName, data, 1); err != nil {
			return nil, err
		}
		return Boolean(data[0] != 0), nil
	case "CDXBooleanImplied":
		return BooleanImplied(true), nil
	case "CDXColorRef":
		if err := needBytes(typeName, data, 2); err != nil {
			return nil, err
		}
		ref := ColorRef{Index: u16(data)}
		if len(data) > 2 {
			ref.trailer = append([]byte(nil), data[2:]...)
		}
		return ref, nil
	case "CDXCharge":
		switch len(data) {
		case 1:
			return Charge{Val: int32(int8(data[0]))}, nil
		case 4:
			return Charge{Val: int32(u32(data)), wide: true}, nil
		}
		return nil, fmt.Errorf("charge: payload of %d bytes", len(data))
	case "CDXBondOrder":
		if err := needBytes(typeName, data, 2); err != nil {
			return nil, err
		}
		return BondOrder(u16(data)), nil
	case "CDXObjectIDArray":
		if len(data)%4 != 0 {
			return nil, fmt.Errorf("object ID array: payload of %d bytes", len(data))
		}
		ids := make(ObjectIDList, len(data)/4)
		for i := range ids {
			ids[i] = u32(data[i*4:])
		}
		return ids, nil
	case "CDXINT16List":
		if err := needBytes(typeName, data, 2); err != nil {
			return nil, err
		}
		n := int(u16(data))
		if 2+2*n > len(data) {
			return nil, fmt.Errorf("int16 list: count %d does not fit %d bytes", n, len(data))
		}
		l := make(Int16List, n)
		for i := range l {
			l[i] = int16(u16(data[2+2*i:]))
		}
		return l, nil
	case "CDXCurvePoints":
		if err := needBytes(typeName, data, 2); err != nil {
			return nil, err
		}
		n := int(u16(data))
		if 2+8*n > len(data) {
			return nil, fmt.Errorf("curve points: count %d does not fit %d bytes", n, len(data))
		}
		cp := make(CurvePoints, n)
		for i := range cp {
			off := 2 + 8*i
			cp[i] = Point2D{
				Y: Coordinate(int32(u32(data[off:]))),
				X: Coordinate(int32(u32(data[off+4:]))),
			}
		}
		return cp, nil
	case "CDXRepresents":
		if err := needBytes(typeName, data, 6); err != nil {
			return nil, err
		}
		return Represents{ObjectID: u32(data), Attribute: Tag(u16(data[4:]))}, nil
	case "CDXUnformatted":
		return Unformatted(append([]byte(nil), data...)), nil
	case "CDXCompressed":
		return Compressed(append([]byte(nil), data...)), nil
	case "CDXLineHeight":
		if err := needBytes(typeName, data, 2); err != nil {
			return nil, err
		}
		return LineHeight(u16(data)), nil
	case "CDXTenthsINT16":
		if err := needBytes(typeName, data, 2); err != nil {
			return nil, err
		}
		return TenthsInt16(int16(u16(data))), nil
	case "CDXAngle":
		if err := needBytes(typeName, data, 4); err != nil {
			return nil, err
		}
		return Angle(int32(u32(data))), nil
	case "CDXString":
		return decodeString(data, env)
	case "CDXFontTable":
		return decodeFontTable(data)
	case "CDXColorTable":
		return decodeColorTable(data)
	case "CDXFontStyle":
		return decodeFontStyle(data)
	case "CDXTagValue":
		return TagValue{Raw: append([]byte(nil), data...)}, nil
	}
	return nil, fmt.Errorf("no decoder for value type %s", typeName)
}

// parseValue interprets a CDXML attribute string according to the
// registry type name.
func parseValue(typeName string, s string, env *decodeEnv) (Value, error) {
	if t, ok := strings.CutPrefix(typeName, "enum:"); ok {
		return parseEnum(enumTables[t], s)
	}
	if t, ok := strings.CutPrefix(typeName, "flags:"); ok {
		return parseFlags(flagTables[t], s)
	}
	switch typeName {
	case "INT8":
		v, err := strconv.ParseInt(s, 10, 8)
		return Int8(v), err
	case "UINT8":
		v, err := strconv.ParseUint(s, 10, 8)
		return UInt8(v), err
	case "INT16":
		v, err := strconv.ParseInt(s, 10, 16)
		return Int16(v), err
	case "UINT16":
		v, err := strconv.ParseUint(s, 10, 16)
		return UInt16(v), err
	case "INT32":
		v, err := strconv.ParseInt(s, 10, 32)
		return Int32(v), err
	case "UINT32":
		v, err := strconv.ParseUint(s, 10, 32)
		return UInt32(v), err
	case "FLOAT64":
		v, err := strconv.ParseFloat(s, 64)
		return Float64(v), err
	case "CDXCoordinate":
		v, err := strconv.ParseFloat(s, 64)
		return CoordinateFromPoints(v), err
	case "CDXPoint2D":
		fs, err := splitFloats(s, 2)
		if err != nil {
			return nil, err
		}
		return Point2D{X: CoordinateFromPoints(fs[0]), Y: CoordinateFromPoints(fs[1])}, nil
	case "CDXPoint3D":
		fs, err := splitFloats(s, 3)
		if err != nil {
			return nil, err
		}
		return Point3D{
			X: CoordinateFromPoints(fs[0]),
			Y: CoordinateFromPoints(fs[1]),
			Z: CoordinateFromPoints(fs[2]),
		}, nil
	case "CDXRectangle":
		fs, err := splitFloats(s, 4)
		if err != nil {
			return nil, err
		}
		return Rectangle{
			Left:   CoordinateFromPoints(fs[0]),
			Top:    CoordinateFromPoints(fs[1]),
			Right:  CoordinateFromPoints(fs[2]),
			Bottom: CoordinateFromPoints(fs[3]),
		}, nil
	case "CDXBoolean":
		return Boolean(s == "yes" || s == "true"), nil
	case "CDXBooleanImplied":
		return BooleanImplied(s == "yes" || s == "true"), nil
	case "CDXColorRef":
		v, err := strconv.ParseUint(s, 10, 16)
		return ColorRef{Index: uint16(v)}, err
	case "CDXCharge":
		v, err := strconv.ParseInt(s, 10, 32)
		return Charge{Val: int32(v), wide: v < math.MinInt8 || v > math.MaxInt8}, err
	case "CDXBondOrder":
		return ParseBondOrder(s)
	case "CDXObjectIDArray":
		fields := strings.Fields(s)
		ids := make(ObjectIDList, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseUint(f, 10, 32)
			if err != nil {
				return nil, err
			}
			ids[i] = uint32(v)
		}
		return ids, nil
	case "CDXINT16List":
		fields := strings.Fields(s)
		l := make(Int16List, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseInt(f, 10, 16)
			if err != nil {
				return nil, err
			}
			l[i] = int16(v)
		}
		return l, nil
	case "CDXCurvePoints":
		fields := strings.Fields(s)
		if len(fields)%2 != 0 {
			return nil, fmt.Errorf("curve points: odd number of values")
		}
		cp := make(CurvePoints, len(fields)/2)
		for i := range cp {
			x, err := strconv.ParseFloat(fields[2*i], 64)
			if err != nil {
				return nil, err
			}
			y, err := strconv.ParseFloat(fields[2*i+1], 64)
			if err != nil {
				return nil, err
			}
			cp[i] = Point2D{X: CoordinateFromPoints(x), Y: CoordinateFromPoints(y)}
		}
		return cp, nil
	case "CDXUnformatted":
		b, err := hex.DecodeString(s)
		return Unformatted(b), err
	case "CDXCompressed":
		b, err := base64.StdEncoding.DecodeString(s)
		return Compressed(b), err
	case "CDXLineHeight":
		switch s {
		case "variable":
			return LineHeight(0), nil
		case "auto":
			return LineHeight(1), nil
		}
		v, err := strconv.ParseFloat(s, 64)
		return LineHeight(uint16(math.Round(v * 20.0))), err
	case "CDXTenthsINT16":
		v, err := strconv.ParseFloat(s, 64)
		return TenthsInt16(int16(math.Round(v * 10.0))), err
	case "CDXAngle":
		v, err := strconv.ParseFloat(s, 64)
		return Angle(int32(math.Round(v * 65536.0))), err
	case "CDXString":
		st := NewPlainText(s)
		if env != nil && env.utf8 {
			st.utf8 = true
		}
		return st, nil
	case "CDXTagValue":
		return TagValue{Raw: encodeCharset(s, nil)}, nil
	case "CDXFontStyle", "CDXFontTable", "CDXColorTable", "CDXRepresents":
		return nil, fmt.Errorf("%s is reconciled from markup structure, not parsed from an attribute", typeName)
	}
	return nil, fmt.Errorf("no parser for value type %s", typeName)
}

func splitFloats(s string, n int) ([]float64, error) {
	fields := strings.Fields(s)
	if len(fields) != n {
		return nil, fmt.Errorf("expected %d coordinates, got %d", n, len(fields))
	}
	fs := make([]float64, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		fs[i] = v
	}
	return fs, nil
}

package container

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
)

// dtype tags stored in the datasets and attrs tables.
const (
	dtypeString      = "string"
	dtypeFloat64     = "float64"
	dtypeInt64       = "int64"
	dtypeBool        = "bool"
	dtypeFloatArray  = "float64[]"
	dtypeIntArray    = "int64[]"
	dtypeFloat2D     = "float64[][]"
	dtypeStringArray = "string[]"
)

// encodeValue packs a dataset payload into (dtype, rows, cols, blob).
// Scalars use rows=cols=0; 1-D arrays use rows=len, cols=0.
func encodeValue(v Value) (dtype string, rows, cols int64, data []byte, err error) {
	switch val := v.(type) {
	case String:
		return dtypeString, 0, 0, []byte(val), nil
	case Float:
		return dtypeFloat64, 0, 0, encodeFloat(float64(val)), nil
	case Int:
		return dtypeInt64, 0, 0, encodeInt(int64(val)), nil
	case FloatArray:
		return dtypeFloatArray, int64(len(val)), 0, encodeFloats(val), nil
	case IntArray:
		data := make([]byte, 0, len(val)*8)
		for _, n := range val {
			data = append(data, encodeInt(n)...)
		}
		return dtypeIntArray, int64(len(val)), 0, data, nil
	case Float2D:
		if err := checkValue(val); err != nil {
			return "", 0, 0, nil, err
		}
		flat := make([]float64, 0, len(val)*len(val[0]))
		for _, row := range val {
			flat = append(flat, row...)
		}
		return dtypeFloat2D, int64(len(val)), int64(len(val[0])), encodeFloats(flat), nil
	case StringArray:
		data, err := json.Marshal([]string(val))
		if err != nil {
			return "", 0, 0, nil, fmt.Errorf("encode string array: %w", err)
		}
		return dtypeStringArray, int64(len(val)), 0, data, nil
	default:
		return "", 0, 0, nil, fmt.Errorf("unsupported dataset payload %T", v)
	}
}

// decodeValue is the inverse of encodeValue.
func decodeValue(dtype string, rows, cols int64, data []byte) (Value, error) {
	switch dtype {
	case dtypeString:
		return String(data), nil
	case dtypeFloat64:
		f, err := decodeFloat(data)
		if err != nil {
			return nil, err
		}
		return Float(f), nil
	case dtypeInt64:
		n, err := decodeInt(data)
		if err != nil {
			return nil, err
		}
		return Int(n), nil
	case dtypeFloatArray:
		arr, err := decodeFloats(data, rows)
		if err != nil {
			return nil, err
		}
		return FloatArray(arr), nil
	case dtypeIntArray:
		if int64(len(data)) != rows*8 {
			return nil, fmt.Errorf("int array blob has %d bytes, want %d", len(data), rows*8)
		}
		out := make(IntArray, rows)
		for i := range out {
			n, err := decodeInt(data[i*8 : i*8+8])
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case dtypeFloat2D:
		flat, err := decodeFloats(data, rows*cols)
		if err != nil {
			return nil, err
		}
		out := make(Float2D, rows)
		for i := int64(0); i < rows; i++ {
			out[i] = flat[i*cols : (i+1)*cols]
		}
		return out, nil
	case dtypeStringArray:
		var arr []string
		if err := json.Unmarshal(data, &arr); err != nil {
			return nil, fmt.Errorf("decode string array: %w", err)
		}
		return StringArray(arr), nil
	default:
		return nil, fmt.Errorf("unknown dataset dtype %q", dtype)
	}
}

// encodeAttr packs an attribute value into (dtype, blob).
func encodeAttr(v any) (dtype string, data []byte, err error) {
	switch val := v.(type) {
	case string:
		return dtypeString, []byte(val), nil
	case float64:
		return dtypeFloat64, encodeFloat(val), nil
	case int64:
		return dtypeInt64, encodeInt(val), nil
	case bool:
		if val {
			return dtypeBool, []byte{1}, nil
		}
		return dtypeBool, []byte{0}, nil
	case []float64:
		return dtypeFloatArray, encodeFloats(val), nil
	case []string:
		data, err := json.Marshal(val)
		if err != nil {
			return "", nil, fmt.Errorf("encode string-array attr: %w", err)
		}
		return dtypeStringArray, data, nil
	default:
		return "", nil, fmt.Errorf("unsupported attribute kind %T", v)
	}
}

// decodeAttr is the inverse of encodeAttr.
func decodeAttr(dtype string, data []byte) (any, error) {
	switch dtype {
	case dtypeString:
		return string(data), nil
	case dtypeFloat64:
		return decodeFloat(data)
	case dtypeInt64:
		return decodeInt(data)
	case dtypeBool:
		if len(data) != 1 {
			return nil, fmt.Errorf("bool attr blob has %d bytes, want 1", len(data))
		}
		return data[0] != 0, nil
	case dtypeFloatArray:
		return decodeFloats(data, int64(len(data)/8))
	case dtypeStringArray:
		var arr []string
		if err := json.Unmarshal(data, &arr); err != nil {
			return nil, fmt.Errorf("decode string-array attr: %w", err)
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unknown attr dtype %q", dtype)
	}
}

func encodeFloat(f float64) []byte {
	return binary.LittleEndian.AppendUint64(nil, math.Float64bits(f))
}

func decodeFloat(data []byte) (float64, error) {
	if len(data) != 8 {
		return 0, fmt.Errorf("float blob has %d bytes, want 8", len(data))
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(data)), nil
}

func encodeInt(n int64) []byte {
	return binary.LittleEndian.AppendUint64(nil, uint64(n))
}

func decodeInt(data []byte) (int64, error) {
	if len(data) != 8 {
		return 0, fmt.Errorf("int blob has %d bytes, want 8", len(data))
	}
	return int64(binary.LittleEndian.Uint64(data)), nil
}

func encodeFloats(vals []float64) []byte {
	data := make([]byte, 0, len(vals)*8)
	for _, f := range vals {
		data = binary.LittleEndian.AppendUint64(data, math.Float64bits(f))
	}
	return data
}

func decodeFloats(data []byte, n int64) ([]float64, error) {
	if int64(len(data)) != n*8 {
		return nil, fmt.Errorf("float array blob has %d bytes, want %d", len(data), n*8)
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[i*8:]))
	}
	return out, nil
}

package field

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// NullValue is the value of an attribute that is absent or JSON null.
var NullValue = Value{kind: Null, data: "null"}

type Kind byte

const (
	Null   = Kind(gjson.Null)
	False  = Kind(gjson.False)
	Number = Kind(gjson.Number)
	String = Kind(gjson.String)
	True   = Kind(gjson.True)
	JSON   = Kind(gjson.JSON)
)

func (kind Kind) String() string {
	switch kind {
	case Null:
		return "null"
	case False, True:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	default:
		return "json"
	}
}

// Value is a single attribute value. The data is kept exactly as it was
// read so that a value can be written back out verbatim.
type Value struct {
	kind Kind
	data string
	num  float64
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) Data() string {
	return v.data
}

func (v Value) Num() float64 {
	return v.num
}

// IsNull returns true for JSON null and for the zero Value.
func (v Value) IsNull() bool {
	return v.kind == Null
}

// Equals returns true when both values have the same kind and data.
func (v Value) Equals(b Value) bool {
	if v.kind == Null && b.kind == Null {
		return true
	}
	return v.kind == b.kind && v.data == b.data
}

func (v Value) JSON() string {
	switch v.Kind() {
	case Number:
		switch v.Data() {
		case "NaN":
			return `"NaN"`
		case "+Inf":
			return `"+Inf"`
		case "-Inf":
			return `"-Inf"`
		default:
			return v.Data()
		}
	case String:
		return string(gjson.AppendJSONString(nil, v.Data()))
	case True:
		return "true"
	case False:
		return "false"
	case JSON:
		return v.Data()
	}
	return "null"
}

// FromJSON converts a parsed JSON value, such as a GeoJSON property, into
// a Value.
func FromJSON(r gjson.Result) Value {
	switch r.Type {
	case gjson.Null:
		return NullValue
	case gjson.False:
		return Value{kind: False, data: "false"}
	case gjson.True:
		return Value{kind: True, data: "true"}
	case gjson.Number:
		return Value{kind: Number, data: r.Raw, num: r.Num}
	case gjson.String:
		return Value{kind: String, data: r.Str}
	default:
		return Value{kind: JSON, data: string(pretty.Ugly([]byte(r.Raw)))}
	}
}

var nan = math.NaN()
var pinf = math.Inf(+1)
var ninf = math.Inf(-1)

// ValueOf converts user supplied text, such as a command line argument,
// into a Value.
func ValueOf(data string) Value {
	data = strings.TrimSpace(data)
	num, err := strconv.ParseFloat(data, 64)
	if err == nil {
		if math.IsInf(num, +1) {
			return Value{kind: Number, data: "+Inf", num: pinf}
		} else if math.IsInf(num, -1) {
			return Value{kind: Number, data: "-Inf", num: ninf}
		} else if math.IsNaN(num) {
			return Value{kind: Number, data: "NaN", num: nan}
		}
		// "000123" and "000_123" parse as floats but are not JSON numbers.
		if gjson.Valid(data) {
			return Value{kind: Number, data: data, num: num}
		}
	} else if gjson.Valid(data) {
		return FromJSON(gjson.Parse(data))
	}
	return Value{kind: String, data: data}
}

type Field struct {
	name  string
	value Value
}

func (f Field) Name() string {
	return f.name
}

func (f Field) Value() Value {
	return f.value
}

// New returns a field with the provided name and value.
func New(name string, value Value) Field {
	return Field{name: name, value: value}
}

// Make returns a field from text, see ValueOf.
func Make(name, data string) Field {
	return Field{
		strings.TrimSpace(name),
		ValueOf(data),
	}
}

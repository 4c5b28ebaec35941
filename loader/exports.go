package loader

import (
	"fmt"
	"strings"

	"github.com/tetratelabs/wazero/api"
	"go.bytecodealliance.org/wit"

	wasmradix "github.com/wippyai/wasm-radix"
)

// Param is a named parameter of an export.
type Param struct {
	Type wit.Type
	Name string
}

// TypeName returns the WIT name of the parameter type.
func (p Param) TypeName() string {
	return witTypeName(p.Type)
}

// ExportSpec describes an export at the WIT level. The core signature the
// binary must carry is derived from it with the wasm-bindgen lowering rules.
type ExportSpec struct {
	Result wit.Type
	Name   string
	Params []Param
}

func typeName(name string) *string {
	return &name
}

var (
	fractionType = &wit.TypeDef{
		Name: typeName("fraction"),
		Kind: &wit.Record{
			Fields: []wit.Field{
				{Name: "numer", Type: wit.S32{}},
				{Name: "denom", Type: wit.S32{}},
				{Name: "difference", Type: wit.F64{}},
			},
		},
	}
	numStringType = &wit.TypeDef{
		Name: typeName("num-string"),
		Kind: &wit.Record{
			Fields: []wit.Field{
				{Name: "num", Type: wit.F64{}},
				{Name: "str", Type: wit.String{}},
			},
		},
	}
)

// RequiredExports are the conversion functions a radix module must export.
var RequiredExports = []ExportSpec{
	{
		Name:   wasmradix.ExportDecimalToRadix,
		Params: []Param{{Name: "large", Type: wit.F64{}}, {Name: "base", Type: wit.U32{}}},
		Result: wit.String{},
	},
	{
		Name:   wasmradix.ExportFloatToFraction,
		Params: []Param{{Name: "dec-val", Type: wit.F64{}}, {Name: "precision", Type: wit.S32{}}},
		Result: fractionType,
	},
	{
		Name:   wasmradix.ExportFractionToUnit,
		Params: []Param{{Name: "numer", Type: wit.S32{}}, {Name: "denom", Type: wit.S32{}}, {Name: "base", Type: wit.U32{}}},
		Result: wit.String{},
	},
	{
		Name:   wasmradix.ExportRadixFractionToRadix,
		Params: []Param{{Name: "num-string", Type: wit.String{}}, {Name: "base", Type: wit.U32{}}},
		Result: numStringType,
	},
	{
		Name:   wasmradix.ExportRadixToDecimal,
		Params: []Param{{Name: "rad-val", Type: wit.String{}}, {Name: "base", Type: wit.U32{}}},
		Result: wit.F64{},
	},
}

// Struct accessor exports used to read handle results.
const (
	exportFractionNumer   = "fraction_numerator"
	exportFractionDenom   = "fraction_denominator"
	exportFractionDiff    = "fraction_difference"
	exportFractionFree    = "__wbg_fraction_free"
	exportNumStringFloat  = "numstring_as_float"
	exportNumStringString = "numstring_as_string"
	exportNumStringFree   = "__wbg_numstring_free"
)

// AccessorExports are the exports the handle results of RequiredExports
// are read and released through.
var AccessorExports = []ExportSpec{
	{Name: exportFractionNumer, Params: []Param{{Name: "self", Type: fractionType}}, Result: wit.S32{}},
	{Name: exportFractionDenom, Params: []Param{{Name: "self", Type: fractionType}}, Result: wit.S32{}},
	{Name: exportFractionDiff, Params: []Param{{Name: "self", Type: fractionType}}, Result: wit.F64{}},
	{Name: exportFractionFree, Params: []Param{{Name: "self", Type: fractionType}}},
	{Name: exportNumStringFloat, Params: []Param{{Name: "self", Type: numStringType}}, Result: wit.F64{}},
	{Name: exportNumStringString, Params: []Param{{Name: "self", Type: numStringType}}, Result: wit.String{}},
	{Name: exportNumStringFree, Params: []Param{{Name: "self", Type: numStringType}}},
}

// LookupSpec finds a required or accessor export spec by name.
func LookupSpec(name string) (ExportSpec, bool) {
	for _, specs := range [][]ExportSpec{RequiredExports, AccessorExports} {
		for _, s := range specs {
			if s.Name == name {
				return s, true
			}
		}
	}
	return ExportSpec{}, false
}

// CoreSignature lowers s to the core signature wasm-bindgen emits.
// A string result becomes a leading retptr parameter.
func (s ExportSpec) CoreSignature() (params, results []api.ValueType, err error) {
	if s.Result != nil {
		switch r := s.Result.(type) {
		case wit.String:
			params = append(params, api.ValueTypeI32)
		default:
			vt, err := lowerScalar(r)
			if err != nil {
				return nil, nil, fmt.Errorf("%s result: %w", s.Name, err)
			}
			results = append(results, vt)
		}
	}
	for _, p := range s.Params {
		switch t := p.Type.(type) {
		case wit.String:
			params = append(params, api.ValueTypeI32, api.ValueTypeI32)
		default:
			vt, err := lowerScalar(t)
			if err != nil {
				return nil, nil, fmt.Errorf("%s param %s: %w", s.Name, p.Name, err)
			}
			params = append(params, vt)
		}
	}
	return params, results, nil
}

func lowerScalar(t wit.Type) (api.ValueType, error) {
	switch t := t.(type) {
	case wit.F64:
		return api.ValueTypeF64, nil
	case wit.F32:
		return api.ValueTypeF32, nil
	case wit.U32, wit.S32, wit.U16, wit.S16, wit.U8, wit.S8, wit.Bool, wit.Char:
		return api.ValueTypeI32, nil
	case wit.U64, wit.S64:
		return api.ValueTypeI64, nil
	case *wit.TypeDef:
		// exported structs travel as pointers
		if _, ok := t.Kind.(*wit.Record); ok {
			return api.ValueTypeI32, nil
		}
	}
	return 0, fmt.Errorf("unsupported type %s", witTypeName(t))
}

// WIT renders s as a WIT function type.
func (s ExportSpec) WIT() string {
	var b strings.Builder
	b.WriteString("func(")
	for i, p := range s.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name)
		b.WriteString(": ")
		b.WriteString(witTypeName(p.Type))
	}
	b.WriteByte(')')
	if s.Result != nil {
		b.WriteString(" -> ")
		b.WriteString(witTypeName(s.Result))
	}
	return b.String()
}

func witTypeName(t wit.Type) string {
	switch t := t.(type) {
	case wit.Bool:
		return "bool"
	case wit.U8:
		return "u8"
	case wit.S8:
		return "s8"
	case wit.U16:
		return "u16"
	case wit.S16:
		return "s16"
	case wit.U32:
		return "u32"
	case wit.S32:
		return "s32"
	case wit.U64:
		return "u64"
	case wit.S64:
		return "s64"
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	case wit.Char:
		return "char"
	case wit.String:
		return "string"
	case *wit.TypeDef:
		if t.Name != nil {
			return *t.Name
		}
		return "record"
	}
	return fmt.Sprintf("%T", t)
}

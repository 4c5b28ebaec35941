package engine

import (
	"sort"
	"strings"

	"github.com/tetratelabs/wazero/api"
)

// ExportedFunc describes a function in a module's export table.
type ExportedFunc struct {
	Name    string
	Params  []api.ValueType
	Results []api.ValueType
}

// Signature renders the core signature, e.g. "(i32, f64, i32) -> ()".
func (f ExportedFunc) Signature() string {
	return FormatSignature(f.Params, f.Results)
}

// Matches reports whether the function has exactly the given core signature.
func (f ExportedFunc) Matches(params, results []api.ValueType) bool {
	return equalTypes(f.Params, params) && equalTypes(f.Results, results)
}

// FormatSignature renders a core signature in the same form as
// ExportedFunc.Signature.
func FormatSignature(params, results []api.ValueType) string {
	var b strings.Builder
	writeTypes(&b, params)
	b.WriteString(" -> ")
	writeTypes(&b, results)
	return b.String()
}

func writeTypes(b *strings.Builder, types []api.ValueType) {
	b.WriteByte('(')
	for i, t := range types {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(api.ValueTypeName(t))
	}
	b.WriteByte(')')
}

func equalTypes(a, b []api.ValueType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ExportTable maps export names to function descriptions. It is built once
// per compiled module and never modified.
type ExportTable map[string]ExportedFunc

func newExportTable(defs map[string]api.FunctionDefinition) ExportTable {
	table := make(ExportTable, len(defs))
	for name, def := range defs {
		table[name] = ExportedFunc{
			Name:    name,
			Params:  def.ParamTypes(),
			Results: def.ResultTypes(),
		}
	}
	return table
}

// Lookup returns the named export.
func (t ExportTable) Lookup(name string) (ExportedFunc, bool) {
	f, ok := t[name]
	return f, ok
}

// Names returns the export names in sorted order.
func (t ExportTable) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of exported functions.
func (t ExportTable) Len() int {
	return len(t)
}

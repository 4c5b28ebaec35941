package engine

// ImportObject is the set of host bindings offered to a guest at
// instantiation. It is always empty: nothing is provided, so any declared
// import fails to resolve.
type ImportObject struct{}

// Resolve reports whether the object provides module#name. It never does.
func (ImportObject) Resolve(module, name string) bool {
	return false
}

// Len returns the number of provided bindings.
func (ImportObject) Len() int {
	return 0
}

// unresolved returns the "module#name" keys of imports the object cannot
// provide.
func (o ImportObject) unresolved(imports []Import) []string {
	var missing []string
	for _, imp := range imports {
		if !o.Resolve(imp.Module, imp.Name) {
			missing = append(missing, imp.Key())
		}
	}
	return missing
}

package model

// ScopedName is a generated CSS class name for a module-local class.
type ScopedName struct {
	Module  Path
	Local   string
	ScopeID string
	Name    string
}

package core

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registryMu sync.RWMutex
	tables     = make(map[string]TableDefinition)
	forms      = make(map[string]FormDefinition)
)

// RegisterTable adds a table definition to the registry.
// Panics if a table with the same key is already registered.
func RegisterTable(def TableDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := tables[def.Info.Key]; exists {
		panic(fmt.Sprintf("table already registered: %s", def.Info.Key))
	}
	if def.Source == "" {
		def.Source = def.Info.Key
	}
	if def.OrderBy == "" && len(def.Columns) > 0 {
		def.OrderBy = def.Columns[0].Key
	}

	tables[def.Info.Key] = def
}

// RegisterForm adds a form definition to the registry.
// Panics if a form with the same key is already registered.
func RegisterForm(def FormDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := forms[def.Key]; exists {
		panic(fmt.Sprintf("form already registered: %s", def.Key))
	}
	forms[def.Key] = def
}

// Table returns a table definition by key.
func Table(key string) (TableDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := tables[key]
	return def, ok
}

// Form returns a form definition by key.
func Form(key string) (FormDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := forms[key]
	return def, ok
}

// Tables returns all registered tables sorted by group then key.
func Tables() []TableDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]TableDefinition, 0, len(tables))
	for _, def := range tables {
		result = append(result, def)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Info.Group != result[j].Info.Group {
			return result[i].Info.Group < result[j].Info.Group
		}
		return result[i].Info.Key < result[j].Info.Key
	})
	return result
}

// Forms returns all registered forms sorted by key.
func Forms() []FormDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]FormDefinition, 0, len(forms))
	for _, def := range forms {
		result = append(result, def)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})
	return result
}

// Groups returns the unique table groups, sorted.
func Groups() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	seen := make(map[string]bool)
	for _, def := range tables {
		seen[def.Info.Group] = true
	}
	groups := make([]string, 0, len(seen))
	for g := range seen {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}

// Clear removes all registered tables and forms.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	tables = make(map[string]TableDefinition)
	forms = make(map[string]FormDefinition)
}

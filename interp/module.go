package interp

import (
	"fmt"

	"github.com/adrian-randa/otr/value"
)

// ProcEntry pairs a callable procedure with its exported flag.
type ProcEntry struct {
	Proc     Procedure
	Exported bool
}

// StructEntry pairs a struct prototype with its exported flag.
type StructEntry struct {
	Prototype value.StructPrototype
	Exported  bool
}

// Module is a named collection of procedures and struct prototypes, as
// produced by compiling a single source file. Modules are immutable once
// compiled; a *Module is shared by reference among every Environment that
// loads it.
type Module struct {
	ID      string
	Procs   map[string]*ProcEntry
	Structs map[string]*StructEntry
}

// NewModule creates an empty module named id.
func NewModule(id string) *Module {
	return &Module{
		ID:      id,
		Procs:   make(map[string]*ProcEntry),
		Structs: make(map[string]*StructEntry),
	}
}

// AddProcedure inserts proc under name, initially private. Export marks it
// exported afterward.
func (m *Module) AddProcedure(name string, proc Procedure) *ProcEntry {
	entry := &ProcEntry{Proc: proc}
	m.Procs[name] = entry
	return entry
}

// AddStruct inserts proto under name, initially private.
func (m *Module) AddStruct(name string, proto value.StructPrototype) *StructEntry {
	entry := &StructEntry{Prototype: proto}
	m.Structs[name] = entry
	return entry
}

// Export marks member (a procedure or struct prototype name) as exported.
// Fails if no member by that name exists in this module.
func (m *Module) Export(member string) error {
	if p, ok := m.Procs[member]; ok {
		p.Exported = true
		return nil
	}
	if s, ok := m.Structs[member]; ok {
		s.Exported = true
		return nil
	}
	return fmt.Errorf("module %q has no member %q to export", m.ID, member)
}

// HasMember reports whether name names a declared procedure or struct
// prototype in this module, exported or not.
func (m *Module) HasMember(name string) bool {
	if _, ok := m.Procs[name]; ok {
		return true
	}
	_, ok := m.Structs[name]
	return ok
}

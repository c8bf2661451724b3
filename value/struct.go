package value

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// Member is a single field of a struct instance: its declared visibility
// plus its current value.
type Member struct {
	IsPublic bool
	Value    Value
}

// structContents holds a struct instance's fields. A StructCell's contents
// pointer is nil exactly when the cell has been moved out, per the shared
// cell design in the module's ownership notes: moving takes the contents
// pointer and leaves the source cell empty.
type structContents struct {
	order  []string
	fields map[string]*Member
}

// StructCell is the shared-mutable, singly-owned cell backing a Struct
// value. A StructRef Value wraps the same cell pointer as a non-owning
// observer: once the cell is moved out (contents == nil), both the owning
// binding and any outstanding StructRef report "use of moved value".
type StructCell struct {
	Prototype ModuleAddress
	contents  *structContents
}

// FieldDecl is one field of a struct prototype: its name and declared
// visibility.
type FieldDecl struct {
	Name     string
	IsPublic bool
}

// StructPrototype is a ModuleAddress plus its ordered, visibility-tagged
// field declarations. Instantiate produces a fresh Struct value whose
// fields are Null except where a field override sets them.
type StructPrototype struct {
	Address ModuleAddress
	Fields  []FieldDecl
}

// Instantiate builds a new Struct value with every field set to Null,
// except as overridden by overrides (evaluated by the caller in source
// order and passed in as name/value pairs). allowPrivate permits setting
// non-public fields, the same-module construction case.
func (p StructPrototype) Instantiate(overrides []FieldOverrideValue, allowPrivate bool) (Value, error) {
	contents := &structContents{
		fields: make(map[string]*Member, len(p.Fields)),
	}
	declared := make(map[string]bool, len(p.Fields))
	for _, f := range p.Fields {
		contents.order = append(contents.order, f.Name)
		contents.fields[f.Name] = &Member{IsPublic: f.IsPublic, Value: Null()}
		declared[f.Name] = true
	}

	for _, ov := range overrides {
		if !declared[ov.Name] {
			return Value{}, fmt.Errorf("struct %s has no field %q", p.Address, ov.Name)
		}
		member := contents.fields[ov.Name]
		if !member.IsPublic && !allowPrivate {
			return Value{}, fmt.Errorf("Tried to access a private field!")
		}
		member.Value = ov.Value
	}

	cell := &StructCell{Prototype: p.Address, contents: contents}
	return Value{Kind: StructKind, Cell: cell}, nil
}

// FieldOverrideValue is an already-evaluated field override: a field name
// paired with the value to install in the new instance.
type FieldOverrideValue struct {
	Name  string
	Value Value
}

// Moved reports whether this cell's contents have already been taken.
func (c *StructCell) Moved() bool { return c.contents == nil }

// MoveOut takes this cell's contents and returns a brand-new, non-moved
// cell wrapping them, leaving the receiver moved. Subsequent reads through
// the receiver (directly, or through any StructRef observing it) fail.
func (c *StructCell) MoveOut() (*StructCell, error) {
	if c.contents == nil {
		return nil, fmt.Errorf("Use of moved value")
	}
	contents := c.contents
	c.contents = nil
	return &StructCell{Prototype: c.Prototype, contents: contents}, nil
}

// RefValue produces a StructRef Value observing this cell without moving
// it. The reference's validity ends the moment the cell is moved out.
func (c *StructCell) RefValue() Value {
	return Value{Kind: StructRefKind, Cell: c}
}

// Clone deep-copies this cell's contents into a new, independently owned
// cell. Fails if the cell has already been moved out.
func (c *StructCell) Clone() (*StructCell, error) {
	if c.contents == nil {
		return nil, fmt.Errorf("Use of moved value")
	}
	fields := make(map[string]*Member, len(c.contents.fields))
	for name, m := range c.contents.fields {
		cloned, err := m.Value.DeepClone()
		if err != nil {
			return nil, err
		}
		fields[name] = &Member{IsPublic: m.IsPublic, Value: cloned}
	}
	return &StructCell{
		Prototype: c.Prototype,
		contents: &structContents{
			order:  slices.Clone(c.contents.order),
			fields: fields,
		},
	}, nil
}

// Field looks up a field by name, enforcing cross-module visibility:
// sameModule must be true for the read/write to see a non-public field.
// Fails if the cell has been moved out or the field is not declared.
func (c *StructCell) Field(name string, sameModule bool) (*Member, error) {
	if c.contents == nil {
		return nil, fmt.Errorf("Use of moved value")
	}
	member, ok := c.contents.fields[name]
	if !ok {
		return nil, fmt.Errorf("struct %s has no field %q", c.Prototype, name)
	}
	if !member.IsPublic && !sameModule {
		return nil, fmt.Errorf("Tried to access a private field!")
	}
	return member, nil
}

// FieldNames returns the declared field names in declaration order. Fails
// if the cell has been moved out.
func (c *StructCell) FieldNames() ([]string, error) {
	if c.contents == nil {
		return nil, fmt.Errorf("Use of moved value")
	}
	return slices.Clone(c.contents.order), nil
}

package interp

import (
	"github.com/adrian-randa/otr/runtimeerr"
	"github.com/adrian-randa/otr/value"
)

// Frame is a single lexical binding level: identifier to value, addressed
// through a pointer so nested writes (array elements, struct fields) can
// mutate in place.
type Frame map[string]*value.Value

// Scope is a non-empty stack of frames. Lookup walks from the top frame
// downward; a Push must not shadow a binding already present in the *same*
// frame, but re-entering an if/while body (a fresh Grow'd frame) may reuse a
// name from an enclosing frame.
type Scope struct {
	frames []Frame
}

// NewScope builds a scope with a single base frame, matching the non-empty
// stack invariant.
func NewScope() *Scope {
	return &Scope{frames: []Frame{make(Frame)}}
}

func (s *Scope) top() Frame {
	return s.frames[len(s.frames)-1]
}

// Bind installs name=v in the top frame unconditionally, used once at call
// entry to inject argument bindings (arguments are declared by the
// procedure's signature, never by a PushVarToScope instruction).
func (s *Scope) Bind(name string, v value.Value) {
	cp := v
	s.top()[name] = &cp
}

// Push binds name to Null in the top frame. Fails if name is already bound
// in that same frame.
func (s *Scope) Push(name string) error {
	top := s.top()
	if _, ok := top[name]; ok {
		return runtimeerr.New("variable %q already declared in this scope", name)
	}
	null := value.Null()
	top[name] = &null
	tracer().Debugf("interp: scope push %q", name)
	return nil
}

// Pop removes name from the top frame. Fails if name is absent there.
func (s *Scope) Pop(name string) error {
	top := s.top()
	if _, ok := top[name]; !ok {
		return runtimeerr.New("variable %q not found in this scope", name)
	}
	delete(top, name)
	tracer().Debugf("interp: scope pop %q", name)
	return nil
}

// Grow pushes a fresh, empty frame (entering an if/while/for body).
func (s *Scope) Grow() {
	s.frames = append(s.frames, make(Frame))
	tracer().Debugf("interp: scope grow, depth %d", len(s.frames))
}

// Shrink pops the top frame (leaving an if/while/for body). Panics if called
// on the base frame: the compiler's GrowStack/ShrinkStack pairing guarantees
// this never happens for well-formed compiled procedures.
func (s *Scope) Shrink() {
	if len(s.frames) <= 1 {
		panic("interp: attempt to shrink scope below its base frame")
	}
	s.frames = s.frames[:len(s.frames)-1]
	tracer().Debugf("interp: scope shrink, depth %d", len(s.frames))
}

// Lookup finds name's innermost binding, walking from the top frame down to
// the base frame.
func (s *Scope) Lookup(name string) (*value.Value, error) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i][name]; ok {
			return v, nil
		}
	}
	return nil, runtimeerr.New("variable %q not found", name)
}

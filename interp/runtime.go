package interp

import (
	"github.com/npillmayer/schuko/tracing"

	"github.com/adrian-randa/otr/runtimeerr"
	"github.com/adrian-randa/otr/value"
)

func tracer() tracing.Trace {
	return tracing.Select("otr.interp")
}

// RuntimeObject is the fully linked result of compilation: every loaded
// module plus, optionally, the ModuleAddress of the procedure decorated
// with @entrypoint.
type RuntimeObject struct {
	Env        *Environment
	Entrypoint *value.ModuleAddress
}

// Run invokes the entrypoint procedure with no arguments. Fails if no
// procedure was decorated @entrypoint during compilation.
func (r *RuntimeObject) Run() (value.Value, error) {
	if r.Entrypoint == nil {
		return value.Value{}, runtimeerr.New("missing entrypoint")
	}
	tracer().Infof("interp: running entrypoint %s", *r.Entrypoint)
	return r.Env.CallProcedure(*r.Entrypoint, nil)
}

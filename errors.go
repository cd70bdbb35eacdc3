package aspen

import (
	"errors"
	"fmt"
)

// ErrUnknownResource is returned when an instance references a mesh or shader
// name that was never registered. Callers can skip the offending instance and
// keep loading, or treat it as fatal — the library never terminates the
// process itself.
var ErrUnknownResource = errors.New("aspen: unknown resource key")

// ShaderError reports a failed shader program compile/link/validate. Log
// carries the compiler or linker output verbatim so a misconfigured build is
// diagnosable from the error alone.
type ShaderError struct {
	Name string // program name as registered
	Log  string // compiler/linker log text
}

func (e *ShaderError) Error() string {
	return fmt.Sprintf("aspen: shader program %q failed to compile/link: %s", e.Name, e.Log)
}

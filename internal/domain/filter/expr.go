package filter

import (
	"sync"

	"github.com/google/cel-go/cel"

	"rbadmin/internal/core/apperror"
	"rbadmin/internal/core/record"
)

var (
	envOnce sync.Once
	env     *cel.Env
	envErr  error
)

func recordEnv() (*cel.Env, error) {
	envOnce.Do(func() {
		env, envErr = cel.NewEnv(
			cel.Variable("record", cel.MapType(cel.StringType, cel.DynType)),
		)
	})
	return env, envErr
}

// CompileExpr compiles a CEL boolean expression over `record`, for example
// `record.status == "failed" && record.amount > 100.0`.
// Records for which evaluation fails (missing key, type mismatch) are filtered out.
func CompileExpr(src string) (Predicate[record.Record], error) {
	e, err := recordEnv()
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	ast, iss := e.Compile(src)
	if iss != nil && iss.Err() != nil {
		return nil, apperror.NewValidation("invalid filter expression").
			WithDetail("expression", src).
			WithDetail("error", iss.Err().Error())
	}
	if out := ast.OutputType().String(); out != "bool" && out != "dyn" {
		return nil, apperror.NewValidation("filter expression must be boolean").
			WithDetail("expression", src).
			WithDetail("type", out)
	}

	prg, err := e.Program(ast)
	if err != nil {
		return nil, apperror.NewValidation("invalid filter expression").
			WithDetail("expression", src).
			WithDetail("error", err.Error())
	}

	return func(r record.Record) bool {
		out, _, err := prg.Eval(map[string]any{"record": map[string]any(r)})
		if err != nil {
			return false
		}
		ok, _ := out.Value().(bool)
		return ok
	}, nil
}

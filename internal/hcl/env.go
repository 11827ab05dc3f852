package hcl

import (
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// environMap turns KEY=VALUE pairs into a map. Entries without '=' are skipped.
func environMap(environ []string) map[string]string {
	envMap := make(map[string]string, len(environ))
	for _, e := range environ {
		pair := strings.SplitN(e, "=", 2)
		if len(pair) == 2 {
			envMap[pair[0]] = pair[1]
		}
	}
	return envMap
}

// newEvalContext exposes the environment as the `env` object plus a small
// set of string helpers. An empty environment still yields an object, so
// `lookup(env, ...)` works everywhere.
func newEvalContext(environ []string) *hcl.EvalContext {
	vals := make(map[string]cty.Value)
	for k, v := range environMap(environ) {
		vals[k] = cty.StringVal(v)
	}
	env := cty.EmptyObjectVal
	if len(vals) > 0 {
		env = cty.ObjectVal(vals)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": env,
		},
		Functions: map[string]function.Function{
			"coalesce":  stdlib.CoalesceFunc,
			"format":    stdlib.FormatFunc,
			"lookup":    stdlib.LookupFunc,
			"lower":     stdlib.LowerFunc,
			"trimspace": stdlib.TrimSpaceFunc,
			"upper":     stdlib.UpperFunc,
		},
	}
}

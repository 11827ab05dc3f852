package unroll

import (
	"fmt"
	"strings"
)

// Policy decides what happens to a repeat block still open at end of input.
type Policy int

const (
	// PolicyWarn drops the block and logs a warning.
	PolicyWarn Policy = iota
	// PolicySilent drops the block quietly, like the legacy tool.
	PolicySilent
	// PolicyError fails the whole run.
	PolicyError
	// PolicyFlush treats end of input as a label and writes the block.
	PolicyFlush
)

var policyNames = map[Policy]string{
	PolicyWarn:   "warn",
	PolicySilent: "silent",
	PolicyError:  "error",
	PolicyFlush:  "flush",
}

// PolicyNames lists the accepted policy names in a stable order.
func PolicyNames() []string {
	return []string{"warn", "silent", "error", "flush"}
}

// String returns the configuration name of the policy.
func (p Policy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy converts a configuration name into a Policy. The empty string
// means PolicyWarn.
func ParsePolicy(s string) (Policy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PolicyWarn, nil
	}
	for p, name := range policyNames {
		if name == s {
			return p, nil
		}
	}
	return PolicyWarn, fmt.Errorf("unknown unterminated-block policy %q: must be one of %s", s, strings.Join(PolicyNames(), ", "))
}

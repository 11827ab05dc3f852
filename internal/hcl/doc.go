// Package hcl provides the concrete HCL implementation of the config.Loader
// interface. It parses the optional `unroll.hcl` project file, evaluates its
// expressions against the process environment and translates the result
// into the format-agnostic config.Settings.
//
// A project file looks like this; both blocks are optional:
//
//	expander {
//	  keyword        = "repeat"
//	  comment_prefix = ";"
//	  label_pattern  = "^\\w*:"
//	  unterminated   = "warn"
//	  max_repeat     = 4096
//	}
//
//	output {
//	  path = "${lookup(env, "BUILD_DIR", "build")}/pwm.S"
//	}
package hcl

package hcl

// fileRoot is the top-level structure of a project file.
type fileRoot struct {
	Expander *ExpanderBlock `hcl:"expander,block"`
	Output   *OutputBlock   `hcl:"output,block"`
}

// ExpanderBlock represents the `expander` block. Pointer fields stay nil when
// the attribute is absent, so the loader can tell "unset" from "zero".
type ExpanderBlock struct {
	Keyword       *string `hcl:"keyword,optional"`
	CommentPrefix *string `hcl:"comment_prefix,optional"`
	LabelPattern  *string `hcl:"label_pattern,optional"`
	Unterminated  *string `hcl:"unterminated,optional"`
	MaxRepeat     *int    `hcl:"max_repeat,optional"`
}

// OutputBlock represents the `output` block.
type OutputBlock struct {
	Path string `hcl:"path"`
}

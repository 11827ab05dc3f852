// Package unroll implements the repeat expander: a single forward pass over
// line-oriented assembly source that duplicates blocks marked with a
// `; repeat N` comment.
//
// A block starts on the line after a directive and ends at the next label
// line (an identifier followed by a colon at column 0). The block is written
// N times immediately before that label. Everything else passes through
// byte for byte, including line terminators.
//
//	loop: ; repeat 3
//	    add r0,r1      <- written 3 times
//	end:
//
// Only one block can be open at a time. What happens when the input ends
// with a block still open is controlled by Policy.
package unroll

package unroll

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/unroll/internal/ctxlog"
)

// DefaultMaxRepeat caps repeat counts unless configured otherwise.
const DefaultMaxRepeat = 65536

// Options configures an Expander.
type Options struct {
	// Rules classifies lines. Nil means DefaultRules.
	Rules *Rules
	// Unterminated selects the end-of-input behavior for an open block.
	Unterminated Policy
	// MaxRepeat is the largest accepted count. Zero disables the limit.
	MaxRepeat int
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Rules:        DefaultRules(),
		Unterminated: PolicyWarn,
		MaxRepeat:    DefaultMaxRepeat,
	}
}

// Stats summarizes one expansion.
type Stats struct {
	LinesRead      int
	LinesWritten   int
	Directives     int
	BlocksExpanded int
	LinesDropped   int
	BytesWritten   int64
}

type state int

const (
	stateIdle state = iota
	stateAccumulating
)

// Expander is the repeat state machine. Feed it every input line in order,
// then call Close. An Expander is not safe for concurrent use.
type Expander struct {
	w    io.Writer
	opts Options

	state         state
	count         int
	directiveLine int
	directiveText string
	block         strings.Builder
	blockLines    int

	lineNo int
	stats  Stats
	closed bool
}

// New creates an Expander writing to w.
func New(w io.Writer, opts Options) (*Expander, error) {
	if w == nil {
		return nil, errors.New("unroll: nil writer")
	}
	if opts.MaxRepeat < 0 {
		return nil, fmt.Errorf("unroll: max repeat must not be negative, got %d", opts.MaxRepeat)
	}
	if _, ok := policyNames[opts.Unterminated]; !ok {
		return nil, fmt.Errorf("unroll: unknown policy %v", opts.Unterminated)
	}
	if opts.Rules == nil {
		opts.Rules = DefaultRules()
	}
	return &Expander{w: w, opts: opts}, nil
}

// Feed processes one line. The line should include its terminator, if any;
// it is written back exactly as given.
func (e *Expander) Feed(ctx context.Context, line string) error {
	if e.closed {
		return errors.New("unroll: feed after close")
	}
	e.lineNo++
	e.stats.LinesRead++

	if raw, ok := e.opts.Rules.Directive(line); ok {
		return e.directive(ctx, line, raw)
	}

	if e.state == stateIdle {
		return e.emit(line)
	}

	if e.opts.Rules.IsLabel(line) {
		if err := e.flush(ctx); err != nil {
			return err
		}
		return e.emit(line)
	}

	e.block.WriteString(line)
	e.blockLines++
	return nil
}

func (e *Expander) directive(ctx context.Context, line, raw string) error {
	logger := ctxlog.FromContext(ctx)

	if e.state == stateAccumulating {
		// A labelled directive closes the open block and opens the next
		// one. Any other directive here would be a nested block.
		if !e.opts.Rules.IsLabel(line) {
			return &LineError{
				Line: e.lineNo,
				Text: trimEOL(line),
				Err:  fmt.Errorf("%w: block opened on line %d is still open", ErrNestedDirective, e.directiveLine),
			}
		}
		if err := e.flush(ctx); err != nil {
			return err
		}
	}

	count, err := parseCount(raw, e.opts.MaxRepeat)
	if err != nil {
		return &LineError{Line: e.lineNo, Text: trimEOL(line), Err: err}
	}

	e.state = stateAccumulating
	e.count = count
	e.directiveLine = e.lineNo
	e.directiveText = trimEOL(line)
	e.stats.Directives++
	logger.Debug("Repeat block opened.", "line", e.lineNo, "count", count)

	return e.emit(line)
}

// flush writes the open block count times and returns to idle.
func (e *Expander) flush(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	text := e.block.String()
	for i := 0; i < e.count; i++ {
		if _, err := io.WriteString(e.w, text); err != nil {
			return fmt.Errorf("failed to write repeat block: %w", err)
		}
	}
	e.stats.LinesWritten += e.count * e.blockLines
	e.stats.BytesWritten += int64(e.count) * int64(len(text))
	e.stats.BlocksExpanded++
	logger.Debug("Repeat block expanded.", "directive_line", e.directiveLine, "block_lines", e.blockLines, "count", e.count)

	e.reset()
	return nil
}

func (e *Expander) reset() {
	e.state = stateIdle
	e.count = 0
	e.directiveLine = 0
	e.directiveText = ""
	e.block.Reset()
	e.blockLines = 0
}

func (e *Expander) emit(line string) error {
	n, err := io.WriteString(e.w, line)
	e.stats.BytesWritten += int64(n)
	if err != nil {
		return fmt.Errorf("failed to write line %d: %w", e.lineNo, err)
	}
	e.stats.LinesWritten++
	return nil
}

// Close signals end of input and applies the unterminated-block policy.
// Calling Close more than once is a no-op.
func (e *Expander) Close(ctx context.Context) error {
	if e.closed {
		return nil
	}
	e.closed = true
	if e.state == stateIdle {
		return nil
	}

	logger := ctxlog.FromContext(ctx)
	switch e.opts.Unterminated {
	case PolicyFlush:
		logger.Debug("End of input closes open repeat block.", "directive_line", e.directiveLine)
		return e.flush(ctx)
	case PolicyError:
		err := &LineError{
			Line: e.directiveLine,
			Text: e.directiveText,
			Err:  fmt.Errorf("%w: no label after %d buffered lines", ErrUnterminatedBlock, e.blockLines),
		}
		e.reset()
		return err
	case PolicyWarn:
		logger.Warn("Input ended inside a repeat block, buffered lines dropped.",
			"directive_line", e.directiveLine,
			"directive", e.directiveText,
			"dropped_lines", e.blockLines,
		)
	default:
		logger.Debug("Dropping unterminated repeat block.", "directive_line", e.directiveLine, "dropped_lines", e.blockLines)
	}
	e.stats.LinesDropped += e.blockLines
	e.reset()
	return nil
}

// Stats returns the counters accumulated so far.
func (e *Expander) Stats() Stats {
	return e.stats
}

// Expand streams r through a new Expander into w. On error, w may already
// hold part of the output; use ExpandBytes for all-or-nothing results.
func Expand(ctx context.Context, r io.Reader, w io.Writer, opts Options) (Stats, error) {
	bw := bufio.NewWriter(w)
	exp, err := New(bw, opts)
	if err != nil {
		return Stats{}, err
	}

	br := bufio.NewReader(r)
	for {
		line, readErr := br.ReadString('\n')
		if line != "" {
			if err := exp.Feed(ctx, line); err != nil {
				return exp.Stats(), err
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return exp.Stats(), fmt.Errorf("failed to read input: %w", readErr)
		}
	}

	if err := exp.Close(ctx); err != nil {
		return exp.Stats(), err
	}
	if err := bw.Flush(); err != nil {
		return exp.Stats(), fmt.Errorf("failed to flush output: %w", err)
	}
	return exp.Stats(), nil
}

// ExpandBytes expands src in memory. The returned slice is nil on error.
func ExpandBytes(ctx context.Context, src []byte, opts Options) ([]byte, Stats, error) {
	var out bytes.Buffer
	out.Grow(len(src))
	stats, err := Expand(ctx, bytes.NewReader(src), &out, opts)
	if err != nil {
		return nil, stats, err
	}
	return out.Bytes(), stats, nil
}

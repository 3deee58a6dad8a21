// Package source owns the source text being compiled and accumulates
// the diagnostics produced while compiling it, matching spec.md §7's
// three disjoint error categories (lex/parse, resolution, runtime).
//
// The accumulate-then-check shape here is the same one the teacher
// repository uses for its own scanner.ErrorList (a slice appended to
// during a single pass, inspected for emptiness once the pass is
// done), generalized from the Rust original's ErrorReporter
// (original_source/ella-source/src/lib.rs), which wraps the same idea
// behind interior mutability because Rust cannot easily thread a
// mutable accumulator through a borrow-checked recursive-descent
// parser the way Go can just pass a pointer.
package source

import (
	"fmt"

	"github.com/mna/ember/lang/token"
)

// Kind classifies a Diagnostic by compilation phase.
type Kind int

const (
	// LexError is an unexpected byte or malformed literal.
	LexError Kind = iota
	// ParseError is an unexpected token.
	ParseError
	// ResolveError is an unresolved identifier or other static misuse
	// the grammar cannot reject.
	ResolveError
)

func (k Kind) String() string {
	switch k {
	case LexError:
		return "lex error"
	case ParseError:
		return "parse error"
	case ResolveError:
		return "resolve error"
	default:
		return "error"
	}
}

// Diagnostic is a single structured compile-time error, with a byte
// span into the Source that produced it.
type Diagnostic struct {
	Kind    Kind
	Message string
	Span    token.Span
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s (at %s)", d.Kind, d.Message, d.Span)
}

// Source owns the source text of one compilation unit and accumulates
// diagnostics reported against it.
type Source struct {
	Name    string
	Content string

	Diagnostics []Diagnostic

	lineStarts []token.Pos // byte offset of the start of each line; lineStarts[0] == 0
}

// New returns a Source wrapping content, with name used only for
// diagnostic rendering (e.g. a file path, or "<repl>").
func New(name, content string) *Source {
	s := &Source{Name: name, Content: content, lineStarts: []token.Pos{0}}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			s.lineStarts = append(s.lineStarts, token.Pos(i+1))
		}
	}
	return s
}

// Errorf accumulates a new Diagnostic. Compilation continues: per
// spec.md §4.1/§4.2, the parser and resolver both keep going after
// reporting an error so that later phases see as complete a picture as
// possible, but the driver must call HasErrors before running anything
// a Diagnostic was reported against.
func (s *Source) Errorf(kind Kind, span token.Span, format string, args ...any) {
	s.Diagnostics = append(s.Diagnostics, Diagnostic{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Span:    span,
	})
}

// HasErrors reports whether any diagnostic was recorded.
func (s *Source) HasErrors() bool { return len(s.Diagnostics) > 0 }

// Line returns the 1-based source line containing byte offset pos.
func (s *Source) Line(pos token.Pos) int {
	// binary search over lineStarts for the last start <= pos
	lo, hi := 0, len(s.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if s.lineStarts[mid] <= pos {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1
}

// Text returns the substring covered by span.
func (s *Source) Text(span token.Span) string {
	if int(span.End) > len(s.Content) {
		span.End = token.Pos(len(s.Content))
	}
	if span.Start < 0 || span.Start > span.End {
		return ""
	}
	return s.Content[span.Start:span.End]
}

package value

// Str is an interned, immutable string object. Two Str objects with
// the same content are always the same pointer (see Intern), which is
// what lets Value.Equal treat object equality for strings as a cheap
// pointer comparison in the common case and still fall back to
// content comparison for the rare un-interned one.
type Str struct {
	S string
}

func (s *Str) Type() string   { return "string" }
func (s *Str) String() string { return s.S }

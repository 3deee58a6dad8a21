package value

import "github.com/dolthub/swiss"

// Interner deduplicates string objects so that equal source-level
// strings share one *Str, making Value.Equal a pointer comparison in
// the common case. One Interner is shared by the compiler (for string
// literals and identifier names used as global keys) and the running
// VM (for strings produced by concatenation), grounded on the
// teacher's use of github.com/dolthub/swiss for its machine.Map type.
type Interner struct {
	m *swiss.Map[string, *Str]
}

// NewInterner returns an Interner with initial capacity for at least
// size distinct strings.
func NewInterner(size int) *Interner {
	return &Interner{m: swiss.NewMap[string, *Str](uint32(size))}
}

// Intern returns the canonical *Str for s, creating it on first use.
func (in *Interner) Intern(s string) *Str {
	if v, ok := in.m.Get(s); ok {
		return v
	}
	v := &Str{S: s}
	in.m.Put(s, v)
	return v
}

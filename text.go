package dynamic

import (
	"bytes"
	"fmt"
	"strings"
	"unsafe"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Whitespace is the default character set for Strip.
const Whitespace = " \n\t\r"

// Text is a list of single-byte ISO-8859-1 characters. Its storage always
// holds one byte more than its length, a trailing NUL.
//
// Every operation that produces text allocates a new tracked Text on the
// stack of its receiver.
type Text struct {
	buf List[byte]
}

// textOf allocates a tracked text holding p.
func textOf(st *Stack, p []byte) Text {
	l := New[byte](st, len(p)+1)
	if l.b == nil {
		return Text{}
	}
	copy(l.b.data, p)
	l.b.data[len(p)] = 0
	l.b.length = len(p)
	return Text{buf: l}
}

// NewText returns a tracked copy of s. Runes outside ISO-8859-1 are
// replaced.
func NewText(st *Stack, s string) Text {
	p, err := encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder()).Bytes([]byte(s))
	if err != nil {
		p = []byte(s)
	}
	return textOf(st, p)
}

// Textf formats according to a fmt format specifier and returns the result
// as a tracked Text.
func Textf(st *Stack, format string, args ...any) Text {
	return NewText(st, fmt.Sprintf(format, args...))
}

func (t Text) live(op string) *block[byte] {
	return t.buf.live(op)
}

func (t Text) bytes(op string) []byte {
	b := t.live(op)
	return b.data[:b.length]
}

// derive allocates a text on the receiver's stack.
func (t Text) derive(p []byte) Text {
	return textOf(t.live("derive").st, p)
}

// Addr returns the address identifying t in its frame.
func (t Text) Addr() unsafe.Pointer {
	return t.buf.Addr()
}

// IsNil reports whether t is the null text.
func (t Text) IsNil() bool {
	return t.buf.IsNil()
}

// Len returns the number of characters, excluding the terminator.
func (t Text) Len() int {
	return t.buf.Len()
}

// At returns the character at idx. Negative indices count from the end.
func (t Text) At(idx int) byte {
	return t.buf.At(idx)
}

// Bytes returns the characters without the terminator. The slice aliases t.
func (t Text) Bytes() []byte {
	if t.IsNil() {
		return nil
	}
	return t.bytes("Bytes")
}

// CString returns the characters followed by the NUL terminator.
func (t Text) CString() []byte {
	b := t.live("CString")
	return b.data[: b.length+1 : b.length+1]
}

// List returns the underlying character list.
func (t Text) List() List[byte] {
	return t.buf
}

// String decodes t into a Go string.
func (t Text) String() string {
	if !t.buf.Valid() {
		return ""
	}
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(t.bytes("String"))
	if err != nil {
		return string(t.bytes("String"))
	}
	return string(s)
}

// Free releases t immediately.
func (t Text) Free() {
	t.buf.Free()
}

// Append writes s at the end of t in place and returns the possibly
// relocated handle. On allocation failure t is returned unchanged.
func (t Text) Append(s Text) Text {
	src := s.bytes("Append")
	t.live("Append")
	// One extra slot keeps room for the terminator.
	if !t.buf.grow(len(src) + 1) {
		return t
	}
	b := t.buf.b
	copy(b.data[b.length:], src)
	b.length += len(src)
	b.data[b.length] = 0
	return t
}

// Concat returns t followed by s.
func (t Text) Concat(s Text) Text {
	a, c := t.bytes("Concat"), s.bytes("Concat")
	out := make([]byte, 0, len(a)+len(c))
	return t.derive(append(append(out, a...), c...))
}

// Slice returns the characters from start up to stop taken every step,
// with the same bound rules as List.Slice.
func (t Text) Slice(start, stop, step int) Text {
	s := t.bytes("Slice")
	start, stop, ok := resolveSlice("Slice", start, stop, step, len(s))
	if !ok {
		return t.derive(nil)
	}
	k := step
	if k < 0 {
		k = -k
	}
	out := make([]byte, 0, (stop-start+k-1)/k)
	if step > 0 {
		for i := start; i < stop; i += step {
			out = append(out, s[i])
		}
	} else {
		for i := stop - 1; i >= start; i += step {
			out = append(out, s[i])
		}
	}
	return t.derive(out)
}

// Capitalize returns a copy with the first character upper-cased.
func (t Text) Capitalize() Text {
	out := t.derive(t.bytes("Capitalize"))
	if p := out.Bytes(); len(p) > 0 {
		p[0] = toUpper(p[0])
	}
	return out
}

// Upper returns a copy with ASCII letters upper-cased.
func (t Text) Upper() Text {
	out := t.derive(t.bytes("Upper"))
	p := out.Bytes()
	for i := range p {
		p[i] = toUpper(p[i])
	}
	return out
}

// Lower returns a copy with ASCII letters lower-cased.
func (t Text) Lower() Text {
	out := t.derive(t.bytes("Lower"))
	p := out.Bytes()
	for i := range p {
		p[i] = toLower(p[i])
	}
	return out
}

// Equal reports whether t and s hold the same characters.
func (t Text) Equal(s Text) bool {
	return bytes.Equal(t.bytes("Equal"), s.bytes("Equal"))
}

// Join concatenates parts with sep between consecutive elements. The result
// lives on sep's stack.
func Join(sep Text, parts List[Text]) Text {
	d := sep.bytes("Join")
	n := 0
	for i, p := range parts.Elems() {
		if i > 0 {
			n += len(d)
		}
		n += p.Len()
	}
	out := make([]byte, 0, n)
	for i, p := range parts.Elems() {
		if i > 0 {
			out = append(out, d...)
		}
		out = append(out, p.bytes("Join")...)
	}
	return sep.derive(out)
}

// Split cuts t around every occurrence of sep and returns the pieces, so
// that Join(sep, t.Split(sep)) equals t.
func (t Text) Split(sep Text) List[Text] {
	s, d := t.bytes("Split"), sep.bytes("Split")
	if len(d) == 0 {
		panicUsage("Split", "empty separator")
	}
	st := t.live("Split").st
	pieces := bytes.Split(s, d)
	out := New[Text](st, len(pieces))
	for _, p := range pieces {
		out = out.Append(textOf(st, p))
	}
	return out
}

// Find returns the index of the first occurrence of sub, or -1.
func (t Text) Find(sub Text) int {
	return bytes.Index(t.bytes("Find"), sub.bytes("Find"))
}

// IsAlpha reports whether every character is an ASCII letter.
// The empty text satisfies every character-class predicate.
func (t Text) IsAlpha() bool {
	return all(t.bytes("IsAlpha"), isAlpha)
}

// IsDigit reports whether every character is an ASCII digit.
func (t Text) IsDigit() bool {
	return all(t.bytes("IsDigit"), isDigit)
}

// IsAlnum reports whether every character is an ASCII letter or digit.
func (t Text) IsAlnum() bool {
	return all(t.bytes("IsAlnum"), func(c byte) bool { return isAlpha(c) || isDigit(c) })
}

// HasPrefix reports whether t begins with prefix.
func (t Text) HasPrefix(prefix Text) bool {
	return bytes.HasPrefix(t.bytes("HasPrefix"), prefix.bytes("HasPrefix"))
}

// HasSuffix reports whether t ends with suffix.
func (t Text) HasSuffix(suffix Text) bool {
	return bytes.HasSuffix(t.bytes("HasSuffix"), suffix.bytes("HasSuffix"))
}

// ContainsByte reports whether c occurs in t.
func (t Text) ContainsByte(c byte) bool {
	return bytes.IndexByte(t.bytes("ContainsByte"), c) >= 0
}

// Strip returns a copy without leading and trailing characters from chars.
func (t Text) Strip(chars string) Text {
	s := t.bytes("Strip")
	start, end := 0, len(s)
	for start < end && strings.IndexByte(chars, s[start]) >= 0 {
		start++
	}
	for end > start && strings.IndexByte(chars, s[end-1]) >= 0 {
		end--
	}
	return t.Slice(start, end, 1)
}

func all(p []byte, pred func(byte) bool) bool {
	for _, c := range p {
		if !pred(c) {
			return false
		}
	}
	return true
}

func isAlpha(c byte) bool { return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' }

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func toUpper(c byte) byte {
	if 'a' <= c && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

func toLower(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c - 'A' + 'a'
	}
	return c
}

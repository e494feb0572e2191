package dynamic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextUpperConcat(t *testing.T) {
	st := newTestStack(t, Config{})
	s := NewText(st, "abcd1234")

	upper := s.Upper()
	require.Equal(t, "ABCD1234", upper.String())
	require.Equal(t, "abcd1234", s.String(), "Upper returns a copy")

	require.Equal(t, "ABCD1234X", upper.Concat(NewText(st, "X")).String())
}

func TestTextTerminator(t *testing.T) {
	st := newTestStack(t, Config{})
	s := NewText(st, "abc")

	require.Equal(t, 3, s.Len())
	require.Equal(t, []byte("abc"), s.Bytes())
	require.Equal(t, []byte("abc\x00"), s.CString())

	s = s.Append(NewText(st, "defghijklmnop"))
	require.Equal(t, "abcdefghijklmnop", s.String())
	require.Equal(t, byte(0), s.CString()[s.Len()])
	require.True(t, st.Tracked(s.Addr()))

	empty := NewText(st, "")
	require.Equal(t, 0, empty.Len())
	require.Equal(t, []byte{0}, empty.CString())
}

func TestTextAppendSelf(t *testing.T) {
	st := newTestStack(t, Config{})
	s := NewText(st, "ab")
	s = s.Append(s)
	require.Equal(t, "abab", s.String())
}

func TestTextf(t *testing.T) {
	st := newTestStack(t, Config{})
	require.Equal(t, "3-x-1.50", Textf(st, "%d-%s-%.2f", 3, "x", 1.5).String())

	inner := NewText(st, "in")
	require.Equal(t, "[in]", Textf(st, "[%s]", inner).String())
}

func TestTextLatin1(t *testing.T) {
	st := newTestStack(t, Config{})

	s := NewText(st, "café")
	require.Equal(t, 4, s.Len(), "one byte per character")
	require.Equal(t, byte(0xe9), s.At(-1))
	require.Equal(t, "café", s.String())

	require.Equal(t, 1, NewText(st, "日").Len(), "unsupported runes are replaced")
}

func TestTextSlice(t *testing.T) {
	st := newTestStack(t, Config{})
	s := NewText(st, "abcd1234")

	tests := []struct {
		name              string
		start, stop, step int
		want              string
	}{
		{"identity", 0, 8, 1, "abcd1234"},
		{"every other", 0, 7, 2, "ac13"},
		{"reverse", 0, 8, -1, "4321dcba"},
		{"reverse every other", 0, 8, -2, "42db"},
		{"negative start", -4, 8, 1, "1234"},
		{"negative stop", 0, -4, 1, "abcd"},
		{"start equals stop", 3, 3, 1, ""},
		{"empty after resolution", -8, 0, 1, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, s.Slice(tt.start, tt.stop, tt.step).String())
		})
	}

	requireUsagePanic(t, func() { s.Slice(0, 8, 0) })
	requireUsagePanic(t, func() { s.Slice(5, 2, 1) })
	requireBoundsPanic(t, func() { s.Slice(8, 9, 1) })
	requireBoundsPanic(t, func() { s.Slice(0, 9, 1) })
}

func TestTextCase(t *testing.T) {
	st := newTestStack(t, Config{})

	assert.Equal(t, "Hello world", NewText(st, "hello world").Capitalize().String())
	assert.Equal(t, "1abc", NewText(st, "1abc").Capitalize().String())
	assert.Equal(t, "", NewText(st, "").Capitalize().String())
	assert.Equal(t, "mixed case 42", NewText(st, "MiXeD CaSe 42").Lower().String())
	assert.Equal(t, "MIXED CASE 42", NewText(st, "MiXeD CaSe 42").Upper().String())
}

func TestTextPredicates(t *testing.T) {
	st := newTestStack(t, Config{})
	text := func(s string) Text { return NewText(st, s) }

	tests := []struct {
		in                  string
		alpha, digit, alnum bool
	}{
		{"abcXYZ", true, false, true},
		{"0123", false, true, true},
		{"ab12", false, false, true},
		{"ab 12", false, false, false},
		{"", true, true, true},
	}
	for _, tt := range tests {
		s := text(tt.in)
		assert.Equal(t, tt.alpha, s.IsAlpha(), "IsAlpha(%q)", tt.in)
		assert.Equal(t, tt.digit, s.IsDigit(), "IsDigit(%q)", tt.in)
		assert.Equal(t, tt.alnum, s.IsAlnum(), "IsAlnum(%q)", tt.in)
	}

	s := text("hello world")
	assert.True(t, s.Equal(text("hello world")))
	assert.False(t, s.Equal(text("hello")))
	assert.True(t, s.HasPrefix(text("hello")))
	assert.False(t, s.HasPrefix(text("world")))
	assert.False(t, text("he").HasPrefix(s))
	assert.True(t, s.HasSuffix(text("world")))
	assert.False(t, s.HasSuffix(text("hello")))
	assert.True(t, s.ContainsByte('w'))
	assert.False(t, s.ContainsByte('z'))
	assert.Equal(t, 6, s.Find(text("world")))
	assert.Equal(t, -1, s.Find(text("moon")))
}

func TestTextStrip(t *testing.T) {
	st := newTestStack(t, Config{})

	require.Equal(t, "hi there", NewText(st, " \t hi there\r\n").Strip(Whitespace).String())
	require.Equal(t, "", NewText(st, " \n ").Strip(Whitespace).String())
	require.Equal(t, "", NewText(st, "").Strip(Whitespace).String())
	require.Equal(t, "b", NewText(st, "xxbyy").Strip("xy").String())
}

func TestJoinSplitRoundTrip(t *testing.T) {
	st := newTestStack(t, Config{})
	sep := NewText(st, ", ")

	for _, in := range []string{"a, b, c", "a, , c", ", leading", "none", ""} {
		s := NewText(st, in)
		parts := s.Split(sep)
		require.True(t, Join(sep, parts).Equal(s), "round trip of %q", in)
	}

	parts := NewText(st, "x--y--z").Split(NewText(st, "--"))
	require.Equal(t, 3, parts.Len())
	require.Equal(t, "y", parts.At(1).String())

	requireUsagePanic(t, func() { NewText(st, "x").Split(NewText(st, "")) })
}

func TestJoin(t *testing.T) {
	st := newTestStack(t, Config{})
	parts := Of(st, NewText(st, "hello "), NewText(st, "world "), NewText(st, "from"))

	require.Equal(t, "hello |world |from", Join(NewText(st, "|"), parts).String())
	require.Equal(t, "", Join(NewText(st, "|"), New[Text](st, 0)).String())
}

func TestTextOpsAreTracked(t *testing.T) {
	st := newTestStack(t, Config{})
	st.PushFrame()

	s := NewText(st, "abc")
	u := s.Upper()
	require.Equal(t, 2, st.FrameLen())

	st.Collect(nil)
	require.False(t, s.List().Valid())
	require.False(t, u.List().Valid())
	require.Equal(t, "", u.String())
}

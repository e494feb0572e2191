package dynamic

import (
	"fmt"
	"strings"
)

// Kind is the conversion kind selected by an element format.
type Kind int

const (
	KindUnknown Kind = iota
	KindInt
	KindFloat
	KindPointer
	KindChar
	KindString
	KindValue
	KindList
)

var kindNames = [...]string{
	KindUnknown: "unknown",
	KindInt:     "integer",
	KindFloat:   "float",
	KindPointer: "pointer",
	KindChar:    "char",
	KindString:  "string",
	KindValue:   "value",
	KindList:    "nested-list",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[KindUnknown]
	}
	return kindNames[k]
}

// Verb is a parsed element format.
type Verb struct {
	// Format is the fmt-ready format for one element. For KindList it is
	// the format of the inner list.
	Format string
	Kind   Kind
}

const (
	flagChars       = "%.-+# 0123456789"
	lengthModifiers = "hlLjzt"
)

// ParseVerb parses a printf-style element format such as "%d", "%.2lf" or
// "%c". C length modifiers are accepted and dropped. A leading '[' marks a
// list of lists whose elements use the rest of the format.
func ParseVerb(format string) Verb {
	if strings.HasPrefix(format, "[") {
		return Verb{Format: format[1:], Kind: KindList}
	}
	i := 0
	for i < len(format) && strings.IndexByte(flagChars, format[i]) >= 0 {
		i++
	}
	j := i
	for j < len(format) && strings.IndexByte(lengthModifiers, format[j]) >= 0 {
		j++
	}
	if j == len(format) {
		return Verb{Format: format, Kind: KindUnknown}
	}
	verb, kind := format[j], KindUnknown
	switch verb {
	case 'd', 'o', 'x', 'X':
		kind = KindInt
	case 'i', 'u':
		verb, kind = 'd', KindInt
	case 'f', 'F', 'e', 'E', 'g', 'G':
		kind = KindFloat
	case 'a':
		verb, kind = 'x', KindFloat
	case 'A':
		verb, kind = 'X', KindFloat
	case 'p':
		kind = KindPointer
	case 'c':
		kind = KindChar
	case 's':
		kind = KindString
	case 'v':
		kind = KindValue
	default:
		return Verb{Format: format, Kind: KindUnknown}
	}
	return Verb{Format: format[:i] + string(verb) + format[j+1:], Kind: kind}
}

// formatElem renders one scalar element. Characters are single-quoted and
// strings double-quoted.
func formatElem(vb Verb, v any) string {
	switch vb.Kind {
	case KindUnknown:
		return cannotUse(vb.Format, v)
	case KindChar:
		return "'" + fmt.Sprintf(vb.Format, v) + "'"
	case KindString:
		return `"` + fmt.Sprintf(vb.Format, v) + `"`
	default:
		return fmt.Sprintf(vb.Format, v)
	}
}

func cannotUse(format string, v any) string {
	return fmt.Sprintf("<cannot use '%s' on %v>", format, v)
}

// FormatValue renders v with an element format as a tracked Text.
func FormatValue[T any](st *Stack, format string, v T) Text {
	vb := ParseVerb(format)
	if vb.Kind == KindList {
		if n, ok := any(v).(nestedList); ok {
			return n.stringify(vb.Format)
		}
		return NewText(st, cannotUse(format, v))
	}
	return NewText(st, formatElem(vb, v))
}

// nestedList is implemented by every List[T], letting a list of lists
// render one bracket depth per level.
type nestedList interface {
	stringify(format string) Text
}

func (l List[T]) stringify(format string) Text {
	return Stringify(l, format)
}

// Stringify renders l as "[e1, e2, ...]", each element formatted with
// format (see ParseVerb). The result is tracked in the caller's frame;
// intermediate texts are released before Stringify returns.
func Stringify[T any](l List[T], format string) Text {
	if format == "" {
		panicUsage("Stringify", "empty format")
	}
	st := l.live("Stringify").st
	if st == nil {
		st = Default()
	}
	return Run(st, func() Text {
		parts := New[Text](st, max(l.Len(), 1))
		for _, v := range l.Elems() {
			parts = parts.Append(FormatValue(st, format, v))
		}
		return Textf(st, "[%s]", Join(NewText(st, ", "), parts))
	})
}

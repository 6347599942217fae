package ir

import (
	"strconv"
	"strings"

	"inkspect/internal/syntax"
)

// ValueKind is the value shape an argument kind accepts.
type ValueKind int

const (
	ValueNone ValueKind = iota
	ValueU32
	ValueU32OrWildcard
	ValueString
	ValueBool
	ValuePath
)

// StringSubKind refines ValueString with the expected string content.
type StringSubKind int

const (
	StringAny StringSubKind = iota
	StringCommaList
	StringSpaceList
	StringIdentifier
)

// PathSubKind refines ValuePath with the expected path target.
type PathSubKind int

const (
	PathAny PathSubKind = iota
	PathEnvironment
)

// ValueSpec is the full value expectation for one argument kind.
type ValueSpec struct {
	Kind   ValueKind
	String StringSubKind
	Path   PathSubKind
}

// ExpectedValue returns what value shape an argument kind requires.
func (k ArgKind) ExpectedValue() ValueSpec {
	switch k {
	case AdditionalContracts:
		return ValueSpec{Kind: ValueString, String: StringSpaceList}
	case Env, Environment:
		return ValueSpec{Kind: ValuePath, Path: PathEnvironment}
	case Extension:
		return ValueSpec{Kind: ValueU32}
	case HandleStatus, Derive:
		return ValueSpec{Kind: ValueBool}
	case KeepAttr:
		return ValueSpec{Kind: ValueString, String: StringCommaList}
	case Namespace:
		return ValueSpec{Kind: ValueString, String: StringIdentifier}
	case Selector:
		return ValueSpec{Kind: ValueU32OrWildcard}
	default:
		return ValueSpec{Kind: ValueNone}
	}
}

// MetaKind is the observed shape of a parsed argument value.
type MetaKind int

const (
	MetaInt MetaKind = iota
	MetaString
	MetaBool
	MetaPath
	MetaWildcard
	MetaOther
)

// MetaValue is one parsed `name = value` right-hand side.
type MetaValue struct {
	Kind  MetaKind
	Text  string
	Range syntax.TextRange
}

// AsU32 parses the value as an unsigned 32-bit integer, handling the
// 0x prefix and underscore separators.
func (v *MetaValue) AsU32() (uint32, bool) {
	if v == nil || v.Kind != MetaInt {
		return 0, false
	}
	text := strings.ReplaceAll(v.Text, "_", "")
	var n uint64
	var err error
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		n, err = strconv.ParseUint(text[2:], 16, 32)
	} else {
		n, err = strconv.ParseUint(text, 10, 32)
	}
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}

// AsString returns the unquoted string content.
func (v *MetaValue) AsString() (string, bool) {
	if v == nil || v.Kind != MetaString {
		return "", false
	}
	s, err := strconv.Unquote(v.Text)
	if err != nil {
		return "", false
	}
	return s, true
}

// AsBool parses a boolean literal value.
func (v *MetaValue) AsBool() (bool, bool) {
	if v == nil || v.Kind != MetaBool {
		return false, false
	}
	return v.Text == "true", true
}

// Matches reports whether the observed value satisfies an expectation.
// Content-level checks (identifier validity, list well-formedness) are
// included so diagnostics can rely on a single predicate.
func (v *MetaValue) Matches(spec ValueSpec) bool {
	switch spec.Kind {
	case ValueNone:
		return v == nil
	case ValueU32:
		_, ok := v.AsU32()
		return ok
	case ValueU32OrWildcard:
		if v != nil && v.Kind == MetaWildcard {
			return true
		}
		_, ok := v.AsU32()
		return ok
	case ValueBool:
		_, ok := v.AsBool()
		return ok
	case ValuePath:
		return v != nil && (v.Kind == MetaPath || (v.Kind == MetaOther && v.Text != ""))
	case ValueString:
		s, ok := v.AsString()
		if !ok {
			return false
		}
		switch spec.String {
		case StringIdentifier:
			return isIdentifier(s)
		case StringCommaList:
			return isNonEmptyList(s, ",")
		case StringSpaceList:
			return strings.TrimSpace(s) != ""
		default:
			return true
		}
	}
	return false
}

func isIdentifier(s string) bool {
	if s == "" || s == "_" {
		return false
	}
	for i, r := range s {
		alpha := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if i == 0 {
			if !alpha {
				return false
			}
			continue
		}
		if !alpha && !(r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

func isNonEmptyList(s, sep string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	for _, part := range strings.Split(s, sep) {
		if strings.TrimSpace(part) == "" {
			return false
		}
	}
	return true
}

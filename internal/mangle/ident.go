package mangle

import (
	"strconv"
	"strings"
	"unicode"
)

// sanitizeCIdent rewrites s into an ASCII C identifier: every rune
// that isn't a letter, digit, or underscore becomes '_', following the
// whitelist-via-strings.Map idiom the Ficus teacher uses for its own
// Go-identifier sanitizing (internal/ext/codegen.go's identifier); a
// leading digit additionally gets an underscore prefixed, since C
// (unlike Go) allows a bare identifier to start with '_' but never
// with a digit.
func sanitizeCIdent(s string) string {
	if s == "" {
		return "X"
	}
	clean := strings.Map(func(r rune) rune {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, s)
	for _, r := range clean {
		if unicode.IsDigit(r) {
			return "_" + clean
		}
		break
	}
	return clean
}

// lengthPrefixed builds the "<nameLen><name>" piece of a candidate
// mangled name, matching Itanium-style name mangling.
func lengthPrefixed(name string) string {
	return strconv.Itoa(len(name)) + name
}

// compress replaces every occurrence of modPrefix in s after the
// first with an indexed back-reference marker "M<k>", keeping repeated
// module-prefix occurrences from bloating every mangled name in a
// large module.
func compress(s, modPrefix string) string {
	if modPrefix == "" || !strings.Contains(s, modPrefix) {
		return s
	}
	first := strings.Index(s, modPrefix)
	head := s[:first+len(modPrefix)]
	rest := s[first+len(modPrefix):]
	return head + strings.ReplaceAll(rest, modPrefix, "M0")
}

// scopePrefix is the `<>__` scope chain built by walking enclosing
// module scopes; this pipeline processes one flat module at a time, so
// the chain is just the module's own sanitized name, or empty for the
// distinguished "Builtins" module.
func scopePrefix(moduleName string) string {
	if moduleName == "" || moduleName == "Builtins" {
		return ""
	}
	return sanitizeCIdent(moduleName) + "__"
}

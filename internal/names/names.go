// Package names validates and classifies Component Model identifiers
// (spec.md §6 "Naming rules"). Names arrive in the resolved IR as raw
// UTF-8; this package NFC-normalizes them at this boundary the same way
// the teacher codebase normalizes source text at its lexer boundary, so
// kebab-case and strong-uniqueness checks never depend on which
// canonically-equal byte form a producer happened to emit.
package names

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// kebabWord is one lowercase-letter-then-digits run; kebab-case names are
// one or more kebabWords joined by single hyphens (spec.md §4.1, Glossary).
var kebabWord = regexp.MustCompile(`^[a-z][0-9a-z]*$`)

// IsKebabCase reports whether name is lowercase-word-dash-lowercase-word
// per the Glossary's kebab-case rule.
func IsKebabCase(name string) bool {
	name = norm.NFC.String(name)
	if name == "" {
		return false
	}
	for _, word := range strings.Split(name, "-") {
		if !kebabWord.MatchString(word) {
			return false
		}
	}
	return true
}

// interfaceShape matches `ns:pkg/path[@version]`, e.g. "wasi:io/poll@0.2.0".
var interfaceShape = regexp.MustCompile(`^[a-z][0-9a-z-]*(?:[.][a-z][0-9a-z-]*)*:[a-z][0-9a-z-]*(?:[.][a-z][0-9a-z-]*)*(?:/[a-z][0-9a-z-]*(?:[.][a-z][0-9a-z-]*)*)+(?:@[0-9][0-9A-Za-z.+-]*)?$`)

// labelPattern matches the bracketed labels a stripped name carries, e.g.
// "[implements=ns:pkg/iface]", "[method]a.b", "[static]a.b", "[constructor]a".
var labelPattern = regexp.MustCompile(`^\[([a-z]+)(?:=([^\]]+))?\](.*)$`)

// NameKind classifies a name the way spec.md §6 does.
type NameKind int

const (
	KindPlain NameKind = iota
	KindInterface
	KindImplementsLabeled
	KindMethodLabeled
)

// Classify reports the kind of an externname and whether it is
// structurally well-formed for that kind.
func Classify(raw string) (kind NameKind, ok bool) {
	name := norm.NFC.String(raw)
	if m := labelPattern.FindStringSubmatch(name); m != nil {
		switch m[1] {
		case "implements":
			return KindImplementsLabeled, interfaceShape.MatchString(m[2])
		case "method", "static", "constructor":
			return KindMethodLabeled, m[3] != ""
		}
		return KindPlain, false
	}
	if interfaceShape.MatchString(name) {
		return KindInterface, true
	}
	return KindPlain, IsKebabCase(name)
}

// StrippedLabel returns the canonical form used for conflict detection:
// bracketed labels ([implements=...], [method]/[static]/[constructor]) are
// stripped, leaving the bare name they annotate, normalized to NFC. This is
// the basis for "strong uniqueness" (spec.md §6, Design Notes §9).
func StrippedLabel(raw string) string {
	name := norm.NFC.String(raw)
	if m := labelPattern.FindStringSubmatch(name); m != nil {
		switch m[1] {
		case "method", "static", "constructor":
			return m[3]
		case "implements":
			// The bare plain name the label is attached to, if any,
			// follows the closing bracket; an implements label with no
			// trailing name collides only with other implements labels
			// for the same interface.
			if m[3] != "" {
				return m[3]
			}
			return "[implements=" + m[2] + "]"
		}
	}
	return name
}

// CheckUnique reports the first duplicate stripped label found among
// names, or ("", false) if all names are unique. Order of names is
// preserved in the error to keep duplicate reports deterministic.
func CheckUnique(names []string) (dup string, found bool) {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		stripped := StrippedLabel(n)
		if seen[stripped] {
			return n, true
		}
		seen[stripped] = true
	}
	return "", false
}

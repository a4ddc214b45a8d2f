// Package formset implements the indexed field-naming protocol used to
// submit variable-length collections of sub-forms: fields are named
// "<prefix>-<index>-<field>", each prefix carries a "<prefix>-TOTAL_FORMS"
// management counter, and per-row deletion is signalled through a
// "<prefix>-<index>-DELETE" marker rather than by omitting the row.
package formset

import (
	"errors"
	"strconv"
	"strings"
)

// Known block prefixes. The server allocates one formset per prefix.
const (
	PrefixSection      = "section"
	PrefixTextContent  = "text_content"
	PrefixImageContent = "image_content"
	PrefixVideoContent = "video_content"
	PrefixQuiz         = "quiz"
)

// Management and deletion field suffixes.
const (
	TotalFormsSuffix   = "TOTAL_FORMS"
	InitialFormsSuffix = "INITIAL_FORMS"
	DeleteSuffix       = "DELETE"
)

// Placeholder tokens found in clonable block templates. Both forms are
// replaced; older templates use __num__ where newer ones use __prefix__.
const (
	PlaceholderPrefix = "__prefix__"
	PlaceholderNum    = "__num__"
)

// ErrUnknownPrefix is returned when a management counter was never
// registered for a prefix. Callers treat this as a logged no-op, never
// as a crash.
var ErrUnknownPrefix = errors.New("formset: no management counter for prefix")

// FieldName builds the submitted name of one field of one indexed row by
// instantiating the canonical row template, so generated names and cloned
// template attributes go through the same substitution.
func FieldName(prefix string, index int, field string) string {
	return SubstituteIndex(prefix+"-"+PlaceholderPrefix+"-"+field, index)
}

// ManagementName builds the submitted name of a management counter field.
func ManagementName(prefix, suffix string) string {
	return prefix + "-" + suffix
}

// SubstituteIndex rewrites every placeholder token in attr with the given
// index. Template attributes contain the token exactly once, so a single
// row never ends up with two different indices.
func SubstituteIndex(attr string, index int) string {
	value := strconv.Itoa(index)
	attr = strings.ReplaceAll(attr, PlaceholderPrefix, value)
	return strings.ReplaceAll(attr, PlaceholderNum, value)
}

// SplitFieldName decomposes a submitted field name into its prefix, row
// index and field. ok is false for management fields and anything else
// that does not follow the indexed convention.
func SplitFieldName(prefix, name string) (index int, field string, ok bool) {
	rest, found := strings.CutPrefix(name, prefix+"-")
	if !found {
		return 0, "", false
	}

	indexPart, fieldPart, found := strings.Cut(rest, "-")
	if !found || fieldPart == "" {
		return 0, "", false
	}

	index, err := strconv.Atoi(indexPart)
	if err != nil || index < 0 {
		return 0, "", false
	}

	return index, fieldPart, true
}

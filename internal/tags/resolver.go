// Package tags canonicalizes free-form topic and concept strings.
package tags

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/vytor/studyflash/internal/models"
)

// Resolver looks strings up in a Golden List. It is safe for concurrent use.
type Resolver struct {
	list  *GoldenList
	byKey map[string]models.Tag
	byID  map[int]models.Tag
}

func NewResolver(list *GoldenList) *Resolver {
	r := &Resolver{
		list:  list,
		byKey: make(map[string]models.Tag, list.Len()),
		byID:  make(map[int]models.Tag, list.Len()),
	}
	for _, t := range list.tags {
		r.byKey[foldKey(t.Name)] = t
		r.byID[t.ID] = t
	}
	return r
}

// foldKey normalizes s for case-insensitive comparison. Casers are not goroutine-safe,
// so a fresh one is created per call.
func foldKey(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// ResolveTopicTag returns the canonical spelling of input, ignoring case and surrounding
// whitespace. Anything other than an exact match reports false.
func (r *Resolver) ResolveTopicTag(input string) (string, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", false
	}
	t, ok := r.byKey[foldKey(trimmed)]
	if !ok {
		return "", false
	}
	return t.Name, true
}

func (r *Resolver) IsValidTopic(input string) bool {
	_, ok := r.ResolveTopicTag(input)
	return ok
}

// TopicTag is ResolveTopicTag returning the full tag.
func (r *Resolver) TopicTag(input string) (models.Tag, bool) {
	name, ok := r.ResolveTopicTag(input)
	if !ok {
		return models.Tag{}, false
	}
	return r.byKey[foldKey(name)], true
}

// Lookup returns the tag with the given id.
func (r *Resolver) Lookup(id int) (models.Tag, bool) {
	t, ok := r.byID[id]
	return t, ok
}

func (r *Resolver) Tags() []models.Tag {
	return r.list.Tags()
}

// Version is the Golden List version the resolver was built from.
func (r *Resolver) Version() string {
	return r.list.Version()
}

// ResolveConceptTag turns "  fire exit ROUTE " into "FireExitRoute".
func ResolveConceptTag(input string) string {
	words := strings.Fields(cases.Lower(language.Und).String(input))
	var sb strings.Builder
	for _, w := range words {
		first, size := utf8.DecodeRuneInString(w)
		sb.WriteRune(unicode.ToUpper(first))
		sb.WriteString(w[size:])
	}
	return sb.String()
}

// ResolveConceptTag is the method form of the package function.
func (r *Resolver) ResolveConceptTag(input string) string {
	return ResolveConceptTag(input)
}

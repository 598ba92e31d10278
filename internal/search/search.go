// Package search ranks adventures against a query on one of their fields.
package search

import (
	"sort"
	"strings"
	"unicode"

	"github.com/sahilm/fuzzy"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	apperrors "github.com/rcliao/cyoa/internal/errors"
	"github.com/rcliao/cyoa/internal/model"
)

// Searchable fields.
const (
	FieldTitle  = "title"
	FieldAuthor = "author"
)

var fields = map[string]func(*model.Adventure) string{
	FieldTitle:  func(a *model.Adventure) string { return a.Title },
	FieldAuthor: func(a *model.Adventure) string { return a.Author },
}

// Fields returns the names of the searchable fields.
func Fields() []string {
	out := make([]string, 0, len(fields))
	for name := range fields {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Match tiers, best first.
const (
	tierExact = iota
	tierPrefix
	tierInfix
	tierFuzzy
	tierNone
)

type ranked struct {
	adv  *model.Adventure
	key  string
	tier int
}

// SearchBy orders adventures by how well field matches query. Nothing is
// dropped: exact matches come first, then prefix, substring and fuzzy
// subsequence matches, then adventures that do not match at all. Inside a
// tier adventures are ordered by the field ascending, then by id.
//
// An empty query sorts every adventure by the field. Comparison ignores case
// and diacritics. An unknown field fails with INVALID_SEARCH_TYPE.
func SearchBy(adventures []*model.Adventure, query, field string) ([]*model.Adventure, error) {
	rs, err := rank(adventures, query, field)
	if err != nil {
		return nil, err
	}
	return collect(rs, false), nil
}

// Filter is SearchBy without the adventures that do not match.
func Filter(adventures []*model.Adventure, query, field string) ([]*model.Adventure, error) {
	rs, err := rank(adventures, query, field)
	if err != nil {
		return nil, err
	}
	return collect(rs, true), nil
}

func rank(adventures []*model.Adventure, query, field string) ([]ranked, error) {
	get, ok := fields[field]
	if !ok {
		return nil, apperrors.WithMetadata(apperrors.CodeInvalidSearchType,
			"invalid search type "+field, map[string]string{"field": field})
	}

	q := Normalize(query)
	rs := make([]ranked, 0, len(adventures))
	for _, a := range adventures {
		key := Normalize(get(a))
		tier := tierExact
		if query != "" {
			tier = matchTier(key, q)
		}
		rs = append(rs, ranked{adv: a, key: key, tier: tier})
	}

	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].tier != rs[j].tier {
			return rs[i].tier < rs[j].tier
		}
		if rs[i].key != rs[j].key {
			return rs[i].key < rs[j].key
		}
		return rs[i].adv.ID < rs[j].adv.ID
	})
	return rs, nil
}

func matchTier(key, q string) int {
	switch {
	case key == q:
		return tierExact
	case strings.HasPrefix(key, q):
		return tierPrefix
	case strings.Contains(key, q):
		return tierInfix
	case len(fuzzy.Find(q, []string{key})) > 0:
		return tierFuzzy
	}
	return tierNone
}

func collect(rs []ranked, matchesOnly bool) []*model.Adventure {
	out := make([]*model.Adventure, 0, len(rs))
	for _, r := range rs {
		if matchesOnly && r.tier == tierNone {
			continue
		}
		out = append(out, r.adv)
	}
	return out
}

// Normalize folds case and removes diacritics, so "Ölfeld" and "olfeld"
// compare equal.
func Normalize(in string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC, cases.Fold())
	out, _, err := transform.String(t, in)
	if err != nil {
		return strings.ToLower(in)
	}
	return out
}

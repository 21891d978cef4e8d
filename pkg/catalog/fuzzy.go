package catalog

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// nameSource adapts an ordered drug slice to fuzzy.Source.
type nameSource []Drug

func (s nameSource) String(i int) string { return s[i].Name }
func (s nameSource) Len() int            { return len(s) }

// Fuzzy ranks drugs by how well their name matches query as a subsequence,
// best first. limit <= 0 returns every match.
func (c *Catalog) Fuzzy(query string, limit int) []Drug {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil
	}
	src := nameSource(c.All())
	matches := fuzzy.FindFrom(q, src)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]Drug, len(matches))
	for i, m := range matches {
		out[i] = src[m.Index]
	}
	return out
}

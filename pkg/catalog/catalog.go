package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/btree"
)

var ErrDuplicateDrug = errors.New("catalog: duplicate drug id")

// nameKey orders drugs by case-folded name, then id.
type nameKey struct {
	name string
	id   string
}

func nameKeyLess(a, b nameKey) bool {
	if a.name != b.name {
		return a.name < b.name
	}
	return a.id < b.id
}

// Catalog is an immutable set of drugs indexed by id and by name.
type Catalog struct {
	byID   map[string]Drug
	byName *btree.BTreeG[nameKey]
}

// New builds a catalog. Ids must be unique.
func New(drugs []Drug) (*Catalog, error) {
	c := &Catalog{
		byID:   make(map[string]Drug, len(drugs)),
		byName: btree.NewBTreeG[nameKey](nameKeyLess),
	}
	for _, d := range drugs {
		if _, dup := c.byID[d.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateDrug, d.ID)
		}
		c.byID[d.ID] = d
		c.byName.Set(nameKey{name: strings.ToLower(d.Name), id: d.ID})
	}
	return c, nil
}

// Len returns the number of drugs.
func (c *Catalog) Len() int {
	return len(c.byID)
}

// Get looks a drug up by id.
func (c *Catalog) Get(id string) (Drug, bool) {
	d, ok := c.byID[id]
	return d, ok
}

// All returns every drug ordered by name.
func (c *Catalog) All() []Drug {
	out := make([]Drug, 0, c.Len())
	c.byName.Scan(func(k nameKey) bool {
		out = append(out, c.byID[k.id])
		return true
	})
	return out
}

// Search returns drugs whose name or mechanism contains query, ignoring case,
// ordered by name. A blank query matches everything.
func (c *Catalog) Search(query string) []Drug {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return c.All()
	}
	var out []Drug
	c.byName.Scan(func(k nameKey) bool {
		d := c.byID[k.id]
		if strings.Contains(k.name, q) || strings.Contains(strings.ToLower(d.Mechanism), q) {
			out = append(out, d)
		}
		return true
	})
	return out
}

// Prefix returns drugs whose name starts with prefix, ignoring case. It walks
// only the matching range of the name index.
func (c *Catalog) Prefix(prefix string) []Drug {
	p := strings.ToLower(strings.TrimSpace(prefix))
	var out []Drug
	c.byName.Ascend(nameKey{name: p}, func(k nameKey) bool {
		if !strings.HasPrefix(k.name, p) {
			return false
		}
		out = append(out, c.byID[k.id])
		return true
	})
	return out
}

// Lookup resolves a user-typed reference: an exact id, an exact name, or a
// unique name prefix.
func (c *Catalog) Lookup(ref string) (Drug, bool) {
	if d, ok := c.byID[ref]; ok {
		return d, true
	}
	matches := c.Prefix(ref)
	for _, d := range matches {
		if strings.EqualFold(d.Name, strings.TrimSpace(ref)) {
			return d, true
		}
	}
	if len(matches) == 1 {
		return matches[0], true
	}
	return Drug{}, false
}

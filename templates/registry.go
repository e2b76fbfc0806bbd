// Package templates maps stored template identifiers to page renderers.
package templates

import (
	"regexp"
	"strconv"
	"strings"
)

// TemplateID is the closed set of page templates.
type TemplateID int

const (
	Classic TemplateID = iota
	Floral
	Minimal

	templateCount
)

// Default is used whenever an identifier cannot be resolved.
const Default = Classic

type definition struct {
	key         string
	name        string
	sectionKeys []string
}

var definitions = [...]definition{
	Classic: {
		key:         "template001",
		name:        "Classic",
		sectionKeys: []string{"hero", "about", "story", "events", "gallery", "families", "party", "chat"},
	},
	Floral: {
		key:         "template002",
		name:        "Floral",
		sectionKeys: []string{"hero", "story", "about", "gallery", "events", "party", "families", "chat"},
	},
	Minimal: {
		key:         "template003",
		name:        "Minimal",
		sectionKeys: []string{"hero", "events", "about", "gallery", "chat"},
	},
}

// Adding a TemplateID without a definition (or the reverse) fails to compile.
var (
	_ [len(definitions) - int(templateCount)]struct{}
	_ [int(templateCount) - len(definitions)]struct{}
)

// Historical identifiers without digits.
var aliases = map[string]TemplateID{
	"classic":  Classic,
	"elegant":  Classic,
	"royal":    Classic,
	"floral":   Floral,
	"garden":   Floral,
	"romantic": Floral,
	"minimal":  Minimal,
	"modern":   Minimal,
	"simple":   Minimal,
}

var (
	digitRun = regexp.MustCompile(`\d+`)
	byKey    = func() map[string]TemplateID {
		m := make(map[string]TemplateID, len(definitions))
		for id, def := range definitions {
			m[def.key] = TemplateID(id)
		}
		return m
	}()
)

// Normalize resolves any stored identifier ("1", "template-1", "001",
// "template001", "Floral") to a registered template. It never fails: unknown
// input resolves to Default.
func Normalize(raw string) TemplateID {
	s := strings.ToLower(strings.TrimSpace(raw))

	if digits := digitRun.FindString(s); digits != "" {
		if n, err := strconv.Atoi(digits); err == nil {
			if id, ok := byKey[canonicalKey(n)]; ok {
				return id
			}
		}
	}

	if id, ok := aliases[s]; ok {
		return id
	}
	return Default
}

// NormalizeKey is Normalize returning the canonical "templateNNN" key.
func NormalizeKey(raw string) string {
	return Normalize(raw).Key()
}

func canonicalKey(n int) string {
	s := strconv.Itoa(n)
	if len(s) < 3 {
		s = strings.Repeat("0", 3-len(s)) + s
	}
	return "template" + s
}

// Valid reports whether id is a registered template.
func (id TemplateID) Valid() bool {
	return id >= 0 && id < templateCount
}

func (id TemplateID) Key() string {
	if !id.Valid() {
		return definitions[Default].key
	}
	return definitions[id].key
}

func (id TemplateID) String() string {
	if !id.Valid() {
		return definitions[Default].name
	}
	return definitions[id].name
}

// All lists every registered template in declaration order.
func All() []TemplateID {
	ids := make([]TemplateID, 0, templateCount)
	for id := TemplateID(0); id < templateCount; id++ {
		ids = append(ids, id)
	}
	return ids
}

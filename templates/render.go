package templates

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/LovationAdmin/wedding-api/models"
)

//go:embed files/*.html
var files embed.FS

// Template is a registered page renderer.
type Template struct {
	ID          TemplateID
	Key         string
	Name        string
	SectionKeys []string

	page *template.Template
}

var funcs = template.FuncMap{
	"mapsURL": func(address string) string {
		return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(address)
	},
	"eventURL": func(slug, guestID, eventID string) string {
		q := url.Values{}
		q.Set("event_id", eventID)
		if guestID != "" {
			q.Set("guest", guestID)
		}
		return "/w/" + url.PathEscape(slug) + "?" + q.Encode()
	},
	"initials": func(name string) string {
		var b strings.Builder
		for _, part := range strings.Fields(name) {
			r, _ := utf8.DecodeRuneInString(part)
			b.WriteRune(unicode.ToUpper(r))
		}
		return b.String()
	},
}

var registry = func() [templateCount]Template {
	var r [templateCount]Template
	for i, def := range definitions {
		page := template.Must(template.New(def.key).Funcs(funcs).ParseFS(files,
			"files/sections.html",
			"files/"+def.key+".html",
		))
		r[i] = Template{
			ID:          TemplateID(i),
			Key:         def.key,
			Name:        def.name,
			SectionKeys: def.sectionKeys,
			page:        page,
		}
	}
	return r
}()

// Get returns the renderer for id, falling back to Default.
func Get(id TemplateID) Template {
	if !id.Valid() {
		id = Default
	}
	return registry[id]
}

// Lookup normalizes raw and returns its renderer.
func Lookup(raw string) Template {
	return Get(Normalize(raw))
}

// Render writes the full page. Sections switched off in vm.Sections are
// skipped. Output is buffered so a failing section never leaves a half page.
func (t Template) Render(w io.Writer, vm models.ViewModel) error {
	var buf bytes.Buffer

	if err := t.page.ExecuteTemplate(&buf, "head", vm); err != nil {
		return fmt.Errorf("render %s head: %w", t.Key, err)
	}
	for _, key := range t.SectionKeys {
		if !vm.Sections.Visible(key) {
			continue
		}
		if err := t.page.ExecuteTemplate(&buf, key, vm); err != nil {
			return fmt.Errorf("render %s section %s: %w", t.Key, key, err)
		}
	}
	if err := t.page.ExecuteTemplate(&buf, "foot", vm); err != nil {
		return fmt.Errorf("render %s foot: %w", t.Key, err)
	}

	_, err := buf.WriteTo(w)
	return err
}

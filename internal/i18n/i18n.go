// Package i18n holds the English and Arabic UI tables and key lookup.
package i18n

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

const (
	English = "en"
	Arabic  = "ar"
)

// Params are the named arguments passed to function-valued entries.
type Params map[string]interface{}

// Entry is either a plain string or a function rendering dynamic text.
type Entry interface {
	Render(p Params) string
}

// Text is a static entry.
type Text string

func (t Text) Render(Params) string { return string(t) }

// Func is a dynamic entry.
type Func func(p Params) string

func (f Func) Render(p Params) string {
	if p == nil {
		p = Params{}
	}
	return f(p)
}

// Table maps message keys to entries for one language.
type Table map[string]Entry

var tables = map[string]Table{
	English: EN,
	Arabic:  AR,
}

var matcher = language.NewMatcher([]language.Tag{language.English, language.Arabic})

// Supported reports whether lang has a table.
func Supported(lang string) bool {
	_, ok := tables[lang]
	return ok
}

// Languages returns the supported language codes in stable order.
func Languages() []string {
	out := make([]string, 0, len(tables))
	for lang := range tables {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

// Match picks the best supported language for an Accept-Language header
// value or a bare tag. Unknown input falls back to English.
func Match(acceptLanguage string) string {
	if strings.TrimSpace(acceptLanguage) == "" {
		return English
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return English
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return English
	}
	if idx == 1 {
		return Arabic
	}
	return English
}

// Dir returns the text direction for lang.
func Dir(lang string) string {
	if lang == Arabic {
		return "rtl"
	}
	return "ltr"
}

// Translator resolves keys against one language table.
type Translator struct {
	lang  string
	table Table
}

// New returns a translator for lang. Unsupported languages use English.
func New(lang string) *Translator {
	table, ok := tables[lang]
	if !ok {
		lang = English
		table = EN
	}
	return &Translator{lang: lang, table: table}
}

func (t *Translator) Lang() string { return t.lang }

// Get returns the rendered entry for key. A missing key is returned as-is.
func (t *Translator) Get(key string, params ...Params) string {
	entry, ok := t.table[key]
	if !ok {
		return key
	}
	var p Params
	if len(params) > 0 {
		p = params[0]
	}
	return entry.Render(p)
}

// Has reports whether key exists in the table.
func (t *Translator) Has(key string) bool {
	_, ok := t.table[key]
	return ok
}

// Lookup resolves key when it exists and returns fallback otherwise.
func (t *Translator) Lookup(key, fallback string) string {
	if t.Has(key) {
		return t.Get(key)
	}
	return fallback
}

// Static exports every static entry of the table, rendering function
// entries with their placeholders left in braces.
func (t *Translator) Static() map[string]string {
	out := make(map[string]string, len(t.table))
	for key, entry := range t.table {
		switch e := entry.(type) {
		case Text:
			out[key] = string(e)
		case Func:
			out[key] = e.Render(placeholderParams)
		}
	}
	return out
}

var placeholderParams = Params{
	"version":         "{version}",
	"email":           "{email}",
	"count":           "{count}",
	"name":            "{name}",
	"toolName":        "{toolName}",
	"categoryName":    "{categoryName}",
	"categoryIdValue": "{categoryIdValue}",
}

func str(p Params, key string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

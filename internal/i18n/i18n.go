// Package i18n holds the display-language message catalog.
//
// Hebrew is the default display language of the clinic; English is kept as a
// secondary locale for operators and tests. Messages are registered once at
// init into a catalog.Builder and printed through message.Printer values.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

var supportedTags = []language.Tag{
	language.Hebrew,
	language.English,
}

var (
	tagMatcher = language.NewMatcher(supportedTags)
	builder    = catalog.NewBuilder(catalog.Fallback(language.Hebrew))
	tables     = make(map[language.Tag]map[string]string, len(supportedTags))
)

func init() {
	register(language.Hebrew, hebrew)
	register(language.English, english)
}

func register(tag language.Tag, entries map[string]string) {
	for key, msg := range entries {
		if err := builder.SetString(tag, key, msg); err != nil {
			panic("i18n: register " + tag.String() + " " + key + ": " + err.Error())
		}
	}
	tables[tag] = entries
}

// Default returns the default display language.
func Default() language.Tag {
	return language.Hebrew
}

// Match maps any tag onto the closest supported one.
func Match(tag language.Tag) language.Tag {
	if tag == language.Und {
		return Default()
	}
	_, idx, conf := tagMatcher.Match(tag)
	if conf == language.No {
		return Default()
	}
	return supportedTags[idx]
}

// Parse resolves a locale string such as "he", "en-US" or "iw".
// Unknown or malformed values fall back to the default language.
func Parse(value string) language.Tag {
	value = strings.TrimSpace(value)
	if value == "" {
		return Default()
	}
	tag, err := language.Parse(value)
	if err != nil {
		return Default()
	}
	return Match(tag)
}

// Printer returns a message printer bound to the catalog for the supplied tag.
// Printers are not safe for concurrent use; create one per operation.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(Match(tag), message.Catalog(builder))
}

// Lookup returns the raw, unformatted message for key in the given language.
func Lookup(tag language.Tag, key string) (string, bool) {
	msg, ok := tables[Match(tag)][key]
	return msg, ok
}

// MatchAccept picks the best supported language for an Accept-Language
// header. An empty, malformed or unmatched header yields fallback.
func MatchAccept(header string, fallback language.Tag) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, idx, conf := tagMatcher.Match(tags...)
	if conf == language.No {
		return fallback
	}
	return supportedTags[idx]
}

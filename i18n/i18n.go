// Package i18n translates the messages xcdocx prints on stderr.
//
// Only the tool's own chatter is translated: progress lines, warnings and the
// metadata progress table. The JSON result line on stdout and the error texts
// inside it stay in English so scripts can match them.
//
// The catalogs live in locales/<lang>/LC_MESSAGES/xcdocx.po and are embedded
// in the binary. A message without a translation is printed as written.
package i18n

import (
	"embed"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
)

//go:embed all:locales
var locales embed.FS

const domain = "xcdocx"

var po *gotext.Locale

// Init loads the catalog for lang, or for the language of the environment
// when lang is empty. Call it before the first T or N.
func Init(lang string) {
	if lang == "" {
		lang = detectLanguage()
	}

	po = gotext.NewLocaleFSWithPath(lang, locales, "locales")
	po.AddDomain(domain)
	po.SetDomain(domain)
}

// T returns the translation of msgid.
func T(msgid string) string {
	if po == nil {
		return msgid
	}
	return po.Get(msgid)
}

// N returns the translation of a message with a count, picking the plural
// form through the catalog's Plural-Forms rule.
func N(singular, plural string, n int) string {
	if po == nil {
		if n == 1 {
			return singular
		}
		return plural
	}
	return po.GetN(singular, plural, n)
}

// localeEnv is the gettext lookup order.
var localeEnv = []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"}

func detectLanguage() string {
	for _, env := range localeEnv {
		if lang := normalizeLocale(os.Getenv(env)); lang != "" {
			return lang
		}
	}
	return "en"
}

// normalizeLocale turns "nl_NL.UTF-8@euro" or "nl:en" into "nl_NL" and "nl".
// The C and POSIX locales yield "".
func normalizeLocale(val string) string {
	val, _, _ = strings.Cut(val, ":")
	if i := strings.IndexAny(val, ".@"); i >= 0 {
		val = val[:i]
	}
	if val == "C" || val == "POSIX" {
		return ""
	}
	return val
}

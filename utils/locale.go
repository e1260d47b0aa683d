package utils

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Locale is a supported display language.
type Locale string

const (
	LocaleFr Locale = "fr"
	LocaleEn Locale = "en"
)

// ParseLocale normalizes arbitrary input to a supported locale. French is the default.
func ParseLocale(input string) Locale {
	if input == "en" {
		return LocaleEn
	}
	return LocaleFr
}

// ResolveLocale picks the request locale: lang query param first, then the
// Accept-Language header prefix.
func ResolveLocale(c *fiber.Ctx) Locale {
	if lang := c.Query("lang"); lang != "" {
		return ParseLocale(lang)
	}
	accept := c.Get("Accept-Language")
	if strings.HasPrefix(accept, "en") {
		return LocaleEn
	}
	return LocaleFr
}

// PickLocalized resolves a bilingual field pair. The requested locale wins,
// then the other language, then the fallback. A display field is never empty
// as long as any localized value exists.
func PickLocalized(en, fr string, locale Locale, fallback string) string {
	if locale == LocaleFr {
		if fr != "" {
			return fr
		}
		if en != "" {
			return en
		}
		return fallback
	}
	if en != "" {
		return en
	}
	if fr != "" {
		return fr
	}
	return fallback
}

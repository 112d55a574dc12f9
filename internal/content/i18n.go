package content

import "strings"

// Languages lists the supported language codes, default first.
var Languages = []string{"en", "zh"}

const DefaultLanguage = "en"

// NormalizeLang maps a front matter or query language value to a supported
// code, defaulting to English.
func NormalizeLang(lang string) string {
	normalized := strings.ToLower(strings.TrimSpace(lang))
	if len(normalized) > 2 {
		normalized = normalized[:2]
	}
	for _, supported := range Languages {
		if normalized == supported {
			return normalized
		}
	}
	return DefaultLanguage
}

// LanguageNames returns display names for the language switcher.
func LanguageNames() map[string]string {
	return map[string]string{
		"en": "English",
		"zh": "中文",
	}
}

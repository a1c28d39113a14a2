package utils

import (
	"golang.org/x/text/language"
)

// GetLanguage normalizes the passed in language tag to its base code, returning empty
// when the tag cannot be parsed with high confidence.
func GetLanguage(s string) string {
	lang, err := language.Parse(s)
	if err != nil {
		return ""
	}

	base, confidence := lang.Base()
	if confidence < language.High {
		return ""
	}
	return base.String()
}

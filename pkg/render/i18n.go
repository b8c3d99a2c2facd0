package render

import (
	"errors"
	"strings"
)

// ErrMissingTranslator is passed to MissingTranslationHandler when no
// translator is configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Translator resolves a message key for a locale. Keys are the source
// strings, so an untranslated label stays readable.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler returns the text used when key cannot be
// translated.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

// Translate calls f.
func (f TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return f(locale, key, args...)
}

// Translate returns the translation of key, falling back to onMissing and
// then to key itself.
func Translate(locale, key string, t Translator, onMissing MissingTranslationHandler) string {
	if strings.TrimSpace(key) == "" {
		return key
	}

	if t == nil {
		if onMissing != nil {
			return onMissing(locale, key, nil, ErrMissingTranslator)
		}
		return key
	}

	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	if onMissing != nil {
		return onMissing(locale, key, nil, err)
	}
	return key
}

// LocalizeLabels returns a copy of labels with every value translated.
func LocalizeLabels(labels map[string]string, locale string, t Translator, onMissing MissingTranslationHandler) map[string]string {
	if labels == nil {
		return nil
	}
	out := make(map[string]string, len(labels))
	for name, value := range labels {
		out[name] = Translate(locale, value, t, onMissing)
	}
	return out
}

package i18n

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"forex-signal-bot/internal/domain"
)

// Message keys.
const (
	KeyLanguagePrompt   = "language_prompt"
	KeyLanguageSet      = "language_set"
	KeyLanguageButton   = "language_button"
	KeyUnauthorized     = "unauthorized"
	KeyPairPrompt       = "pair_prompt"
	KeyHorizonPrompt    = "horizon_prompt"
	KeyAnalyzing        = "analyzing"
	KeySessionMissing   = "session_missing"
	KeyBusy             = "busy"
	KeyResult           = "result"
	KeyErrorUnavailable = "error_unavailable"
	KeyErrorRejected    = "error_rejected"
	KeyErrorMalformed   = "error_malformed"
	KeyErrorGeneric     = "error_generic"
	KeyHelp             = "help"
)

//go:embed messages.yaml
var defaultMessages []byte

// Catalog resolves message keys to localized text.
type Catalog struct {
	fallback domain.Language
	messages map[domain.Language]map[string]string
}

// Default parses the embedded catalog.
func Default(fallback domain.Language) (*Catalog, error) {
	return Parse(defaultMessages, fallback)
}

func Parse(raw []byte, fallback domain.Language) (*Catalog, error) {
	var parsed map[string]map[string]string
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse message catalog: %w", err)
	}

	messages := make(map[domain.Language]map[string]string, len(parsed))
	for code, entries := range parsed {
		lang, err := domain.ParseLanguage(code)
		if err != nil {
			return nil, fmt.Errorf("message catalog: %w", err)
		}
		messages[lang] = entries
	}
	if _, ok := messages[fallback]; !ok {
		return nil, fmt.Errorf("message catalog has no %q section", fallback)
	}
	return &Catalog{fallback: fallback, messages: messages}, nil
}

// Fallback is the language used for sessions that never picked one.
func (c *Catalog) Fallback() domain.Language {
	return c.fallback
}

// Text formats the message for key in lang. Missing translations fall back to
// the default language, then to the key itself.
func (c *Catalog) Text(lang domain.Language, key string, args ...any) string {
	format, ok := c.messages[lang][key]
	if !ok {
		format, ok = c.messages[c.fallback][key]
	}
	if !ok {
		return key
	}
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// HorizonLabel is the localized button and result label for h.
func (c *Catalog) HorizonLabel(lang domain.Language, h domain.Horizon) string {
	return c.Text(lang, "horizon_"+string(h))
}

func (c *Catalog) DirectionLabel(lang domain.Language, d domain.Direction) string {
	if d == domain.DirectionLong {
		return c.Text(lang, "direction_long")
	}
	return c.Text(lang, "direction_short")
}

package i18n

import (
	"embed"
	"encoding/json"
	"sync"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var locales embed.FS

var (
	mu     sync.RWMutex
	bundle *goi18n.Bundle
)

// Init creates the message bundle and loads the embedded locales.
func Init() error {
	b := goi18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)

	for _, path := range []string{"locales/active.en.json", "locales/active.id.json"} {
		if _, err := b.LoadMessageFileFS(locales, path); err != nil {
			return err
		}
	}

	mu.Lock()
	bundle = b
	mu.Unlock()
	return nil
}

// Load adds an extra message file from disk, e.g. an operator override.
func Load(path string) error {
	mu.Lock()
	defer mu.Unlock()
	if bundle == nil {
		return nil
	}
	_, err := bundle.LoadMessageFile(path)
	return err
}

// Localize renders messageID for the given accept-language values. fallback
// is returned verbatim when the bundle is not initialized or has no entry.
func Localize(langs []string, messageID string, data map[string]interface{}, fallback string) string {
	mu.RLock()
	b := bundle
	mu.RUnlock()
	if b == nil {
		return fallback
	}

	loc := goi18n.NewLocalizer(b, langs...)
	msg, err := loc.Localize(&goi18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil || msg == "" {
		return fallback
	}
	return msg
}

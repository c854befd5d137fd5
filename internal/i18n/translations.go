package i18n

import (
	"embed"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

//go:embed active.*.toml
var localeFS embed.FS

// Translator is a thin wrapper around go-i18n's Bundle/Localizer
type Translator struct {
	localizer *i18n.Localizer
	logger    *zap.Logger
}

// NewTranslator loads the embedded catalogs and localizes into the given locale,
// falling back to Russian
func NewTranslator(locale string, logger *zap.Logger) (*Translator, error) {
	bundle := i18n.NewBundle(language.Russian)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	if _, err := bundle.LoadMessageFileFS(localeFS, "active.ru.toml"); err != nil {
		return nil, err
	}

	return &Translator{
		localizer: i18n.NewLocalizer(bundle, locale, language.Russian.String()),
		logger:    logger,
	}, nil
}

// T renders the message identified by key. Unknown keys render as the key itself.
func (t *Translator) T(key string, data map[string]any) string {
	msg, err := t.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		t.logger.Warn("Localize failed", zap.String("key", key), zap.Error(err))
		return key
	}
	return msg
}

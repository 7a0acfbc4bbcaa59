// Package i18n translates user-facing messages for the bin packing service.
package i18n

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

const (
	// DefaultLocale is the default language locale (English).
	DefaultLocale = "en"
	// AcceptLanguageHeader is the HTTP header name for language preference.
	AcceptLanguageHeader = "Accept-Language"
	// LangParam is the query parameter that overrides Accept-Language.
	LangParam = "lang"
)

// supportedLocales is indexed by matcher results; the first entry is the fallback.
var (
	supportedLocales = []string{"en", "pt", "nl"}
	matcher          = language.NewMatcher([]language.Tag{
		language.English,
		language.Portuguese,
		language.Dutch,
	})
)

var (
	defaultTranslator *Translator
	translatorOnce    sync.Once
)

// Translator handles message translation for different locales.
type Translator struct {
	messages map[string]map[string]string
}

// NewTranslator creates a new translator with the default messages.
func NewTranslator() *Translator {
	return &Translator{
		messages: getDefaultMessages(),
	}
}

// GetTranslator returns the default singleton translator instance.
func GetTranslator() *Translator {
	translatorOnce.Do(func() {
		defaultTranslator = NewTranslator()
	})
	return defaultTranslator
}

// Translate returns the message for key in locale, falling back to
// DefaultLocale and finally to the key itself.
func (t *Translator) Translate(key, locale string) string {
	if locale == "" {
		locale = DefaultLocale
	}

	localeMessages, ok := t.messages[locale]
	if !ok {
		localeMessages = t.messages[DefaultLocale]
	}

	if msg, ok := localeMessages[key]; ok {
		return msg
	}
	if msg, ok := t.messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// GetLocale resolves the response locale from the lang query parameter,
// then Accept-Language, then DefaultLocale.
func GetLocale(c *gin.Context) string {
	if lang := strings.TrimSpace(c.Query(LangParam)); lang != "" {
		if tag, err := language.Parse(lang); err == nil {
			if locale, ok := match(tag); ok {
				return locale
			}
		}
	}

	acceptLang := strings.TrimSpace(c.GetHeader(AcceptLanguageHeader))
	if acceptLang == "" {
		return DefaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	if locale, ok := match(tags...); ok {
		return locale
	}
	return DefaultLocale
}

func match(tags ...language.Tag) (string, bool) {
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return "", false
	}
	return supportedLocales[index], true
}

func getDefaultMessages() map[string]map[string]string {
	return map[string]map[string]string{
		"en": {
			"error.invalid_request":           "Invalid request",
			"error.invalid_request_body":      "Invalid request body",
			"error.internal_error":            "An unexpected error occurred",
			"error.unauthorized":              "Unauthorized",
			"error.api_key_required":          "API key is required",
			"error.invalid_api_key":           "Invalid API key",
			"error.forbidden":                 "Forbidden",
			"error.not_found":                 "Not found",
			"error.rate_limit_exceeded":       "Too many requests, please try again later",
			"error.conflict":                  "Conflict",
			"error.timeout":                   "Request timed out",
			"error.validation.container":      "container: width, height and depth must be positive, or a known profile must be given",
			"error.validation.items":          "items: every item needs an id, positive dimensions and a quantity of at least 1",
			"error.items_too_heavy":           "The items weigh more than the container can carry",
			"error.items_do_not_fit":          "At least one item is larger than the container",
			"error.allocation_infeasible":     "The items could not all be placed in the container",
			"error.too_many_items":            "Too many items in one request",
			"error.invalid_share_token":       "Invalid or expired share link",
			"error.unsupported_export_format": "Unsupported export format",
			"error.import_failed":             "The spreadsheet could not be read",
			"error.profile_not_found":         "Container profile not found",

			"success.allocation_completed": "Allocation completed successfully",
		},
		"pt": {
			"error.invalid_request":           "Requisição inválida",
			"error.invalid_request_body":      "Corpo da requisição inválido",
			"error.internal_error":            "Ocorreu um erro inesperado",
			"error.unauthorized":              "Não autorizado",
			"error.api_key_required":          "Chave de API é obrigatória",
			"error.invalid_api_key":           "Chave de API inválida",
			"error.forbidden":                 "Proibido",
			"error.not_found":                 "Não encontrado",
			"error.rate_limit_exceeded":       "Muitas requisições, tente novamente mais tarde",
			"error.conflict":                  "Conflito",
			"error.timeout":                   "Tempo da requisição esgotado",
			"error.validation.container":      "container: largura, altura e profundidade devem ser positivas, ou um perfil conhecido deve ser informado",
			"error.validation.items":          "items: cada item precisa de um id, dimensões positivas e quantidade de pelo menos 1",
			"error.items_too_heavy":           "Os itens pesam mais do que o contêiner suporta",
			"error.items_do_not_fit":          "Pelo menos um item é maior que o contêiner",
			"error.allocation_infeasible":     "Não foi possível colocar todos os itens no contêiner",
			"error.too_many_items":            "Itens demais em uma única requisição",
			"error.invalid_share_token":       "Link de compartilhamento inválido ou expirado",
			"error.unsupported_export_format": "Formato de exportação não suportado",
			"error.import_failed":             "Não foi possível ler a planilha",
			"error.profile_not_found":         "Perfil de contêiner não encontrado",

			"success.allocation_completed": "Alocação concluída com sucesso",
		},
		"nl": {
			"error.invalid_request":           "Ongeldig verzoek",
			"error.invalid_request_body":      "Ongeldige aanvraag body",
			"error.internal_error":            "Er is een onverwachte fout opgetreden",
			"error.unauthorized":              "Niet geautoriseerd",
			"error.api_key_required":          "API-sleutel is vereist",
			"error.invalid_api_key":           "Ongeldige API-sleutel",
			"error.forbidden":                 "Verboden",
			"error.not_found":                 "Niet gevonden",
			"error.rate_limit_exceeded":       "Te veel verzoeken, probeer het later opnieuw",
			"error.conflict":                  "Conflict",
			"error.timeout":                   "Verzoek is verlopen",
			"error.validation.container":      "container: breedte, hoogte en diepte moeten positief zijn, of een bekend profiel moet worden opgegeven",
			"error.validation.items":          "items: elk item heeft een id, positieve afmetingen en een aantal van minstens 1 nodig",
			"error.items_too_heavy":           "De items wegen meer dan de container kan dragen",
			"error.items_do_not_fit":          "Minstens één item is groter dan de container",
			"error.allocation_infeasible":     "Niet alle items konden in de container worden geplaatst",
			"error.too_many_items":            "Te veel items in één verzoek",
			"error.invalid_share_token":       "Ongeldige of verlopen deellink",
			"error.unsupported_export_format": "Niet-ondersteund exportformaat",
			"error.import_failed":             "Het spreadsheet kon niet worden gelezen",
			"error.profile_not_found":         "Containerprofiel niet gevonden",

			"success.allocation_completed": "Toewijzing succesvol voltooid",
		},
	}
}

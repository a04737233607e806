package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var messages = map[string]map[string]string{
	"en": {
		"invalid_type":       "invalid type",
		"duplicate_key":      "duplicate key",
		"parse_error":        "parse error",
		"truncated":          "truncated",
		"malformed_document": "malformed document",
		"invalid_format":     "invalid format",
	},
	"ja": {
		"invalid_type":       "型が不正です",
		"duplicate_key":      "キーが重複しています",
		"parse_error":        "解析エラー",
		"truncated":          "打ち切られました",
		"malformed_document": "ドキュメントが不正です",
		"invalid_format":     "形式が不正です",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := messages[t.lang][code]
	if !ok {
		return code
	}
	if k := data["key"]; k != "" {
		msg += " (" + k + ")"
	}
	return msg
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if _, ok := messages[lang]; !ok {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }

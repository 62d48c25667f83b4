package telegram

import (
	"strings"

	"github.com/kitbuilder587/isou-search-bot/internal/search"
)

// /simple, /deep -> соответствующий режим поиска
// обычный текст -> defaultMode
func ParseQueryCommand(text string, defaultMode search.Mode) (question string, mode search.Mode) {
	text = strings.TrimSpace(text)

	if text == "" {
		return "", defaultMode
	}

	if !strings.HasPrefix(text, "/") {
		return text, defaultMode
	}

	parts := strings.SplitN(text, " ", 2)
	command := strings.ToLower(parts[0])

	var rest string
	if len(parts) > 1 {
		rest = normalizeSpaces(parts[1])
	}

	switch command {
	case "/simple":
		return rest, search.ModeSimple
	case "/deep":
		return rest, search.ModeDeep
	default:
		return text, defaultMode
	}
}

func normalizeSpaces(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

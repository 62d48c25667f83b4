package telegram

import (
	"fmt"
	"html"
	"strings"

	"github.com/kitbuilder587/isou-search-bot/internal/search"
)

func FormatSearchResult(result *search.SearchResult) string {
	if result.Answer == "" && result.Related == "" && len(result.Images) == 0 {
		return "По вашему запросу ничего не найдено."
	}

	var sb strings.Builder
	sb.WriteString(html.EscapeString(result.Answer))

	if len(result.Images) > 0 {
		sb.WriteString("\n\n━━━━━━━━━━━━━━━━━━━━━\n")
		sb.WriteString("<b>Изображения:</b>\n")

		for i, img := range result.Images {
			name := img.Name
			if name == "" {
				name = img.Source
			}
			if name == "" {
				name = "изображение"
			}
			link := img.URL
			if link == "" {
				link = img.Img
			}
			escapedLink := html.EscapeString(link)
			sb.WriteString(fmt.Sprintf("%d. %s\n   <a href=\"%s\">%s</a>\n",
				i+1,
				html.EscapeString(name),
				escapedLink,
				html.EscapeString(truncateURL(link, 50)),
			))
		}
	}

	if result.Related != "" {
		sb.WriteString("\n\n━━━━━━━━━━━━━━━━━━━━━\n")
		sb.WriteString("<b>Похожие вопросы:</b>\n")
		sb.WriteString(html.EscapeString(result.Related))
	}

	return sb.String()
}

func SplitMessage(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var messages []string
	for len(text) > 0 {
		if len(text) <= maxLen {
			messages = append(messages, text)
			break
		}

		splitPoint := findSafeSplitPoint(text, maxLen)
		if splitPoint <= 0 || splitPoint > len(text) {
			splitPoint = maxLen
		}

		messages = append(messages, text[:splitPoint])
		text = text[splitPoint:]
	}

	return messages
}

func findSafeSplitPoint(text string, maxLen int) int {
	// ищем пробел или перевод строки, не ломая HTML-теги
	for i := maxLen - 1; i > maxLen/2; i-- {
		if i >= len(text) {
			continue
		}
		if isInsideHTMLTag(text, i) {
			continue
		}

		if text[i] == '\n' || text[i] == ' ' {
			return i + 1
		}
	}

	// внутри тега - ищем конец
	if maxLen < len(text) && isInsideHTMLTag(text, maxLen) {
		for i := maxLen; i < len(text); i++ {
			if text[i] == '>' {
				for j := i + 1; j < len(text) && j < i+50; j++ {
					if text[j] == '\n' || text[j] == ' ' {
						return j + 1
					}
				}
				return i + 1
			}
		}
	}

	for i := maxLen - 1; i > 0; i-- {
		if text[i] == ' ' || text[i] == '\n' {
			return i + 1
		}
	}

	return maxLen
}

func isInsideHTMLTag(text string, pos int) bool {
	if pos >= len(text) || pos < 0 {
		return false
	}
	for i := pos; i >= 0; i-- {
		if text[i] == '>' {
			return false
		}
		if text[i] == '<' {
			return true
		}
	}
	return false
}

func truncateURL(url string, maxLen int) string {
	if len(url) <= maxLen {
		return url
	}
	return url[:maxLen-3] + "..."
}

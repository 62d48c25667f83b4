package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/kitbuilder587/isou-search-bot/internal/search"
	"github.com/kitbuilder587/isou-search-bot/internal/service"
)

type Handler struct {
	bot *Bot
}

func NewHandler(bot *Bot) *Handler {
	return &Handler{bot: bot}
}

func (h *Handler) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	h.bot.logger.Info("received message",
		zap.Int64("user_id", msg.From.ID),
		zap.String("username", msg.From.UserName),
		zap.Bool("is_command", msg.IsCommand()),
	)

	if msg.IsCommand() {
		cmd := msg.Command()
		if cmd == "simple" || cmd == "deep" {
			h.handleQuery(ctx, msg)
			return
		}
		h.handleCommand(ctx, msg)
	} else {
		h.handleQuery(ctx, msg)
	}
}

func (h *Handler) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		h.handleStart(ctx, msg)
	case "help":
		h.handleHelp(ctx, msg)
	default:
		h.bot.Send(msg.Chat.ID, "Неизвестная команда. Используйте /help для справки.")
	}
}

func (h *Handler) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	h.bot.Send(msg.Chat.ID, "Добро пожаловать! Я ищу ответы через isou.chat и возвращаю ответ, изображения и похожие вопросы.\n\nИспользуйте /help для просмотра доступных команд.")
}

func (h *Handler) handleHelp(ctx context.Context, msg *tgbotapi.Message) {
	helpText := `<b>Доступные команды:</b>

/start - Начало работы
/help - Показать эту справку

<b>Режимы поиска:</b>
/simple вопрос - Быстрый поиск
/deep вопрос - Глубокое исследование

<b>Как использовать:</b>
Просто отправьте ваш вопрос, и я найду ответ через поисковый сервис isou.chat.

<b>Примеры:</b>
• Обычный вопрос: "Какая погода в Дели?"
• Быстрый поиск: /simple что такое SSE?
• Глубокое исследование: /deep история поисковых систем`

	h.bot.Send(msg.Chat.ID, helpText)
}

func (h *Handler) handleQuery(ctx context.Context, msg *tgbotapi.Message) {
	question, mode := ParseQueryCommand(msg.Text, h.bot.defaultMode)

	h.processQuery(ctx, msg, question, mode)
}

func (h *Handler) processQuery(ctx context.Context, msg *tgbotapi.Message, question string, mode search.Mode) {
	if !h.bot.rateLimiter.Allow(msg.From.ID) {
		resetTime := h.bot.rateLimiter.ResetTime(msg.From.ID)
		h.bot.logger.Warn("rate limit exceeded",
			zap.Int64("user_id", msg.From.ID),
			zap.Time("reset_at", resetTime),
		)
		h.bot.RecordRateLimitHit(msg.From.ID)
		h.bot.Send(msg.Chat.ID, "Слишком много запросов. Пожалуйста, подождите минуту.")
		return
	}

	h.bot.SendTyping(msg.Chat.ID)

	req := &service.SearchRequest{
		UserID: msg.From.ID,
		Query:  question,
		Mode:   mode,
	}

	h.bot.logger.Info("processing search query",
		zap.Int64("user_id", msg.From.ID),
		zap.String("mode", string(mode)),
	)

	result, err := h.bot.searchService.Process(ctx, req)
	if err != nil {
		h.bot.logger.Error("search query failed",
			zap.Error(err),
			zap.Int64("user_id", msg.From.ID),
		)
		h.bot.Send(msg.Chat.ID, mapErrorToMessage(err))
		return
	}

	formattedResponse := FormatSearchResult(result)
	modeIndicator := h.formatModeIndicator(mode)
	if modeIndicator != "" {
		formattedResponse = modeIndicator + "\n\n" + formattedResponse
	}

	messages := SplitMessage(formattedResponse, 4096) // лимит телеграма
	for _, m := range messages {
		if err := h.bot.Send(msg.Chat.ID, m); err != nil {
			h.bot.logger.Error("failed to send message", zap.Error(err))
		}
	}
}

func (h *Handler) formatModeIndicator(mode search.Mode) string {
	switch mode {
	case search.ModeDeep:
		return "<i>Глубокое исследование</i>"
	case search.ModeSimple:
		return ""
	default:
		return ""
	}
}

func mapErrorToMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrEmptyQuery):
		return "Пустой запрос. Введите ваш вопрос."
	case errors.Is(err, service.ErrQueryTooLong):
		return "Запрос слишком длинный. Максимум 1000 символов."
	case errors.Is(err, service.ErrUnknownMode):
		return "Неизвестный режим поиска. Используйте /simple или /deep."
	case errors.Is(err, search.ErrRequestFailed):
		return "Поисковый сервис недоступен. Попробуйте позже."
	case errors.Is(err, search.ErrInvalidResponse):
		return "Не удалось разобрать ответ поискового сервиса. Попробуйте позже."
	default:
		return "Произошла ошибка. Попробуйте позже."
	}
}

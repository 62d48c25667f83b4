package telegram

import (
	"context"
	"errors"
	"fmt"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/kitbuilder587/isou-search-bot/internal/ratelimit"
	"github.com/kitbuilder587/isou-search-bot/internal/search"
	"github.com/kitbuilder587/isou-search-bot/internal/service"
)

func TestMapErrorToMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"empty query", service.ErrEmptyQuery, "Пустой запрос. Введите ваш вопрос."},
		{"too long", service.ErrQueryTooLong, "Запрос слишком длинный. Максимум 1000 символов."},
		{"unknown mode", service.ErrUnknownMode, "Неизвестный режим поиска. Используйте /simple или /deep."},
		{"request failed", search.ErrRequestFailed, "Поисковый сервис недоступен. Попробуйте позже."},
		{"invalid response", search.ErrInvalidResponse, "Не удалось разобрать ответ поискового сервиса. Попробуйте позже."},
		{"unknown", errors.New("some random error"), "Произошла ошибка. Попробуйте позже."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapErrorToMessage(tt.err)
			if got != tt.want {
				t.Errorf("mapErrorToMessage() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMapErrorToMessage_WrappedErrors(t *testing.T) {
	wrappedErr := fmt.Errorf("search: %w", search.ErrRequestFailed)
	got := mapErrorToMessage(wrappedErr)
	want := "Поисковый сервис недоступен. Попробуйте позже."
	if got != want {
		t.Errorf("mapErrorToMessage(wrapped) = %v, want %v", got, want)
	}
}

func TestMapErrorToMessage_AllKnownErrors(t *testing.T) {
	defaultMsg := "Произошла ошибка. Попробуйте позже."

	knownErrors := []error{
		service.ErrEmptyQuery,
		service.ErrQueryTooLong,
		service.ErrUnknownMode,
		search.ErrRequestFailed,
		search.ErrInvalidResponse,
	}

	for _, err := range knownErrors {
		got := mapErrorToMessage(err)
		if got == defaultMsg {
			t.Errorf("Known error %v should have custom message, got default", err)
		}
	}
}

type TrackingSearchService struct {
	LastRequest *service.SearchRequest
	LastMode    search.Mode
	CallCount   int
	Result      *search.SearchResult
	Error       error
}

func (m *TrackingSearchService) Process(ctx context.Context, req *service.SearchRequest) (*search.SearchResult, error) {
	m.CallCount++
	m.LastRequest = req
	m.LastMode = req.Mode

	if m.Error != nil {
		return nil, m.Error
	}
	if m.Result != nil {
		return m.Result, nil
	}
	return &search.SearchResult{
		Answer: "Mock answer",
	}, nil
}

func createTestBot(searchSvc *TrackingSearchService) *Bot {
	logger := zap.NewNop()

	bot := &Bot{
		api:           nil, // We won't use API in tests
		searchService: searchSvc,
		logger:        logger,
		rateLimiter:   ratelimit.New(ratelimit.Config{RequestsPerMinute: 100}),
		defaultMode:   search.ModeSimple,
	}
	bot.handler = NewHandler(bot)
	return bot
}

func createTestMessage(userID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		From: &tgbotapi.User{
			ID:       userID,
			UserName: "testuser",
		},
		Chat: &tgbotapi.Chat{
			ID: userID,
		},
		Text: text,
	}
}

func TestHandler_SimpleCommand(t *testing.T) {
	searchSvc := &TrackingSearchService{
		Result: &search.SearchResult{Answer: "Simple answer"},
	}
	bot := createTestBot(searchSvc)
	handler := NewHandler(bot)

	msg := createTestMessage(123, "/simple что такое API?")
	handler.HandleMessage(context.Background(), msg)

	if searchSvc.CallCount != 1 {
		t.Errorf("CallCount = %d, want 1", searchSvc.CallCount)
	}
	if searchSvc.LastMode != search.ModeSimple {
		t.Errorf("Mode = %v, want %v", searchSvc.LastMode, search.ModeSimple)
	}
	if searchSvc.LastRequest.Query != "что такое API?" {
		t.Errorf("Query = %q, want 'что такое API?'", searchSvc.LastRequest.Query)
	}
	if searchSvc.LastRequest.UserID != 123 {
		t.Errorf("UserID = %d, want 123", searchSvc.LastRequest.UserID)
	}
}

func TestHandler_DeepCommand(t *testing.T) {
	searchSvc := &TrackingSearchService{
		Result: &search.SearchResult{Answer: "Deep answer"},
	}
	bot := createTestBot(searchSvc)
	handler := NewHandler(bot)

	msg := createTestMessage(123, "/deep анализ рынка")
	handler.HandleMessage(context.Background(), msg)

	if searchSvc.CallCount != 1 {
		t.Errorf("CallCount = %d, want 1", searchSvc.CallCount)
	}
	if searchSvc.LastMode != search.ModeDeep {
		t.Errorf("Mode = %v, want %v", searchSvc.LastMode, search.ModeDeep)
	}
	if searchSvc.LastRequest.Query != "анализ рынка" {
		t.Errorf("Query = %q, want 'анализ рынка'", searchSvc.LastRequest.Query)
	}
}

func TestHandler_PlainText(t *testing.T) {
	searchSvc := &TrackingSearchService{
		Result: &search.SearchResult{Answer: "Plain answer"},
	}
	bot := createTestBot(searchSvc)
	handler := NewHandler(bot)

	msg := createTestMessage(123, "обычный вопрос без команды")
	handler.HandleMessage(context.Background(), msg)

	if searchSvc.CallCount != 1 {
		t.Errorf("CallCount = %d, want 1", searchSvc.CallCount)
	}
	if searchSvc.LastMode != search.ModeSimple {
		t.Errorf("Mode = %v, want default %v", searchSvc.LastMode, search.ModeSimple)
	}
	if searchSvc.LastRequest.Query != "обычный вопрос без команды" {
		t.Errorf("Query = %q, want 'обычный вопрос без команды'", searchSvc.LastRequest.Query)
	}
}

func TestHandler_PlainText_DeepDefault(t *testing.T) {
	searchSvc := &TrackingSearchService{}
	bot := createTestBot(searchSvc)
	bot.defaultMode = search.ModeDeep
	handler := NewHandler(bot)

	msg := createTestMessage(123, "обычный вопрос")
	handler.HandleMessage(context.Background(), msg)

	if searchSvc.CallCount != 1 {
		t.Errorf("CallCount = %d, want 1", searchSvc.CallCount)
	}
	if searchSvc.LastMode != search.ModeDeep {
		t.Errorf("Mode = %v, want configured default %v", searchSvc.LastMode, search.ModeDeep)
	}
}

func TestHandler_EmptyQuery(t *testing.T) {
	searchSvc := &TrackingSearchService{
		Error: service.ErrEmptyQuery,
	}
	bot := createTestBot(searchSvc)
	handler := NewHandler(bot)

	msg := createTestMessage(123, "/simple ")
	handler.HandleMessage(context.Background(), msg)

	if searchSvc.CallCount != 1 {
		t.Errorf("CallCount = %d, want 1", searchSvc.CallCount)
	}
	if searchSvc.LastMode != search.ModeSimple {
		t.Errorf("Mode = %v, want %v", searchSvc.LastMode, search.ModeSimple)
	}
}

func TestHandler_HelpCommand(t *testing.T) {
	searchSvc := &TrackingSearchService{}
	bot := createTestBot(searchSvc)
	handler := NewHandler(bot)

	// без entities телеграм не считает сообщение командой
	msg := createTestMessage(123, "/help")
	msg.Entities = []tgbotapi.MessageEntity{
		{Type: "bot_command", Offset: 0, Length: 5},
	}
	handler.HandleMessage(context.Background(), msg)

	if searchSvc.CallCount != 0 {
		t.Errorf("CallCount = %d, want 0 for /help", searchSvc.CallCount)
	}
}

func TestHandler_RateLimit(t *testing.T) {
	searchSvc := &TrackingSearchService{}
	bot := createTestBot(searchSvc)
	bot.rateLimiter = ratelimit.New(ratelimit.Config{RequestsPerMinute: 1})
	handler := NewHandler(bot)

	msg := createTestMessage(123, "первый вопрос")
	handler.HandleMessage(context.Background(), msg)

	msg = createTestMessage(123, "второй вопрос")
	handler.HandleMessage(context.Background(), msg)

	if searchSvc.CallCount != 1 {
		t.Errorf("CallCount = %d, want 1 (second request rate limited)", searchSvc.CallCount)
	}
}

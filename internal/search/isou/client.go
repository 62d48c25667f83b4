package isou

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/isou-search-bot/internal/search"
)

const (
	defaultBaseURL  = "https://isou.chat/api/search"
	defaultTimeout  = 10 * time.Second
	defaultModel    = "yi-lightning"
	defaultProvider = "ollama"
	defaultEngine   = "SEARXNG"
	defaultLanguage = "all"

	doneMarker = "[DONE]"
)

type Config struct {
	Mode     search.Mode
	Category search.Category
	BaseURL  string
	Timeout  time.Duration
	// Stream включает инкрементальное чтение ответа. Итоговый
	// SearchResult одинаков в обоих режимах.
	Stream bool
	// OnAnswer вызывается на каждый фрагмент ответа, только при Stream.
	OnAnswer func(delta string)
	Model    string
	Provider string
	Engine   string
	Language string
}

type Client struct {
	mode     search.Mode
	category search.Category
	baseURL  string
	stream   bool
	onAnswer func(string)
	model    string
	provider string
	engine   string
	language string
	client   *http.Client
	logger   *zap.Logger
}

func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if !cfg.Mode.IsValid() {
		return nil, fmt.Errorf("%w: %q", search.ErrInvalidMode, string(cfg.Mode))
	}
	if !cfg.Category.IsValid() {
		return nil, fmt.Errorf("%w: %q", search.ErrInvalidCategory, string(cfg.Category))
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Provider == "" {
		cfg.Provider = defaultProvider
	}
	if cfg.Engine == "" {
		cfg.Engine = defaultEngine
	}
	if cfg.Language == "" {
		cfg.Language = defaultLanguage
	}

	return &Client{
		mode:     cfg.Mode,
		category: cfg.Category,
		baseURL:  cfg.BaseURL,
		stream:   cfg.Stream,
		onAnswer: cfg.OnAnswer,
		model:    cfg.Model,
		provider: cfg.Provider,
		engine:   cfg.Engine,
		language: cfg.Language,
		client:   &http.Client{Timeout: cfg.Timeout},
		logger:   logger,
	}, nil
}

func (c *Client) Mode() search.Mode { return c.mode }

type isouRequest struct {
	Stream     bool     `json:"stream"`
	Model      string   `json:"model"`
	Provider   string   `json:"provider"`
	Mode       string   `json:"mode"`
	Language   string   `json:"language"`
	Categories []string `json:"categories"`
	Engine     string   `json:"engine"`
	Locally    bool     `json:"locally"`
	Reload     bool     `json:"reload"`
}

type isouEnvelope struct {
	Data *json.RawMessage `json:"data"`
}

type isouEvent struct {
	Image   json.RawMessage `json:"image"`
	Answer  *string         `json:"answer"`
	Related string          `json:"related"`
}

type isouImage struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Source    string `json:"source"`
	URL       string `json:"url"`
	Img       string `json:"img"`
	Thumbnail string `json:"thumbnail"`
	Snippet   string `json:"snippet"`
	Engine    string `json:"engine"`
}

func (c *Client) Search(ctx context.Context, query string) (*search.SearchResult, error) {
	isouReq := isouRequest{
		Stream:     true,
		Model:      c.model,
		Provider:   c.provider,
		Mode:       c.mode.String(),
		Language:   c.language,
		Categories: []string{c.category.String()},
		Engine:     c.engine,
		Locally:    false,
		Reload:     false,
	}

	body, err := json.Marshal(isouReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"?"+params.Encode(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	setHeaders(httpReq)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", search.ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", search.ErrRequestFailed, resp.StatusCode)
	}

	result := &search.SearchResult{}
	if c.stream {
		err = c.consumeStream(resp.Body, result)
	} else {
		err = c.consumeBuffered(resp.Body, result)
	}
	if err != nil {
		return nil, err
	}

	c.logger.Debug("search completed",
		zap.String("mode", c.mode.String()),
		zap.String("category", c.category.String()),
		zap.Int("images", len(result.Images)),
		zap.Int("answer_len", len(result.Answer)))

	return result, nil
}

func (c *Client) consumeBuffered(body io.Reader, result *search.SearchResult) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", search.ErrRequestFailed, err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		payload, ok := eventPayload(line)
		if !ok {
			continue
		}
		if payload == doneMarker {
			break
		}
		if err := c.applyEvent(payload, result); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) consumeStream(body io.Reader, result *search.SearchResult) error {
	reader := bufio.NewReader(body)
	for {
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			// обрыв соединения: недочитанный хвост строки не разбираем
			return fmt.Errorf("%w: read stream: %v", search.ErrRequestFailed, err)
		}

		if payload, ok := eventPayload(line); ok {
			if payload == doneMarker {
				return nil
			}
			if perr := c.applyEvent(payload, result); perr != nil {
				return perr
			}
		}

		if err == io.EOF {
			return nil
		}
	}
}

func eventPayload(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "data:") {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(line, "data:")), true
}

func (c *Client) applyEvent(payload string, result *search.SearchResult) error {
	var env isouEnvelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		return fmt.Errorf("%w: decode event: %v", search.ErrInvalidResponse, err)
	}
	if env.Data == nil || string(*env.Data) == "null" {
		return fmt.Errorf("%w: event without data field", search.ErrInvalidResponse)
	}

	// поле data приходит либо объектом, либо строкой с вложенным JSON
	raw := []byte(*env.Data)
	if len(raw) > 0 && raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return fmt.Errorf("%w: decode data string: %v", search.ErrInvalidResponse, err)
		}
		raw = []byte(inner)
	}

	var ev isouEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return fmt.Errorf("%w: decode data: %v", search.ErrInvalidResponse, err)
	}

	if len(ev.Image) > 0 && string(ev.Image) != "null" {
		var img isouImage
		if err := json.Unmarshal(ev.Image, &img); err != nil {
			return fmt.Errorf("%w: decode image: %v", search.ErrInvalidResponse, err)
		}
		result.Images = append(result.Images, search.ImageResult{
			ID:        img.ID,
			Name:      img.Name,
			Source:    img.Source,
			URL:       img.URL,
			Img:       img.Img,
			Thumbnail: img.Thumbnail,
			Snippet:   img.Snippet,
			Engine:    img.Engine,
		})
	}

	if ev.Answer != nil {
		result.Answer += *ev.Answer
		if c.stream && c.onAnswer != nil {
			c.onAnswer(*ev.Answer)
		}
	}

	if ev.Related != "" {
		result.Related += ev.Related
	}

	return nil
}

func setHeaders(req *http.Request) {
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Accept-Language", "en-US,en;q=0.8")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://isou.chat")
	req.Header.Set("Sec-Fetch-Dest", "empty")
	req.Header.Set("Sec-Fetch-Mode", "cors")
	req.Header.Set("Sec-Fetch-Site", "same-origin")
	req.Header.Set("Sec-GPC", "1")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36")
	req.Header.Set("sec-ch-ua", `"Brave";v="131", "Chromium";v="131", "Not_A_Brand";v="24"`)
	req.Header.Set("sec-ch-ua-mobile", "?0")
	req.Header.Set("sec-ch-ua-platform", `"Windows"`)
}

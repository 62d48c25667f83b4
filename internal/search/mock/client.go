package mock

import (
	"context"
	"sync"
	"time"

	"github.com/kitbuilder587/isou-search-bot/internal/search"
)

type Client struct {
	Result *search.SearchResult
	Error  error
	Delay  time.Duration

	CallCount  int
	LastQuery  string
	AllQueries []string

	mu sync.Mutex
}

func New() *Client {
	return &Client{}
}

func (c *Client) WithResult(result *search.SearchResult) *Client {
	c.Result = result
	return c
}

func (c *Client) WithError(err error) *Client {
	c.Error = err
	return c
}

func (c *Client) WithDelay(delay time.Duration) *Client {
	c.Delay = delay
	return c
}

func (c *Client) Search(ctx context.Context, query string) (*search.SearchResult, error) {
	c.mu.Lock()
	c.CallCount++
	c.LastQuery = query
	c.AllQueries = append(c.AllQueries, query)
	delay := c.Delay
	err := c.Error
	result := c.Result
	c.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	if err != nil {
		return nil, err
	}

	if result == nil {
		return &search.SearchResult{}, nil
	}

	// копия вместе со слайсом картинок, чтобы вызывающий не менял
	// настроенный результат
	copied := *result
	copied.Images = append([]search.ImageResult(nil), result.Images...)
	return &copied, nil
}

func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CallCount = 0
	c.LastQuery = ""
	c.AllQueries = nil
}

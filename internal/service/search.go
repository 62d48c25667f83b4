package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/isou-search-bot/internal/metrics"
	"github.com/kitbuilder587/isou-search-bot/internal/search"
)

const MaxQueryLength = 1000

var (
	ErrEmptyQuery   = errors.New("empty query")
	ErrQueryTooLong = errors.New("query too long")
	ErrUnknownMode  = errors.New("unknown search mode")
)

type SearchRequest struct {
	UserID int64
	Query  string
	Mode   search.Mode
}

func (r *SearchRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return ErrEmptyQuery
	}
	if len(r.Query) > MaxQueryLength {
		return ErrQueryTooLong
	}
	return nil
}

func (r *SearchRequest) Sanitize() {
	r.Query = strings.TrimSpace(r.Query)
	if len(r.Query) > MaxQueryLength {
		r.Query = r.Query[:MaxQueryLength]
	}
}

type SearchService interface {
	Process(ctx context.Context, req *SearchRequest) (*search.SearchResult, error)
}

type SearchConfig struct {
	QueryTimeout time.Duration
}

// SearchServiceDeps - зависимости для SearchService.
// Clients - по клиенту на каждый режим поиска, режим фиксируется
// при создании клиента.
type SearchServiceDeps struct {
	Clients map[search.Mode]search.SearchClient
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	Config  SearchConfig
}

type searchService struct {
	clients map[search.Mode]search.SearchClient
	logger  *zap.Logger
	metrics *metrics.Metrics
	config  SearchConfig
}

func NewSearchService(deps SearchServiceDeps) SearchService {
	if deps.Config.QueryTimeout == 0 {
		deps.Config.QueryTimeout = 30 * time.Second
	}

	return &searchService{
		clients: deps.Clients,
		logger:  deps.Logger,
		metrics: deps.Metrics,
		config:  deps.Config,
	}
}

func (s *searchService) Process(ctx context.Context, req *SearchRequest) (*search.SearchResult, error) {
	startTime := time.Now()

	if s.metrics != nil {
		s.metrics.IncRequestsInFlight()
		defer s.metrics.DecRequestsInFlight()
	}

	if err := req.Validate(); err != nil {
		if s.metrics != nil {
			s.metrics.RecordRequest("search", "validation_error", time.Since(startTime))
		}
		return nil, err
	}
	req.Sanitize()

	client, ok := s.clients[req.Mode]
	if !ok {
		if s.metrics != nil {
			s.metrics.RecordRequest("search", "validation_error", time.Since(startTime))
		}
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, string(req.Mode))
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.QueryTimeout)
	defer cancel()

	s.logger.Info("processing search",
		zap.Int64("user_id", req.UserID),
		zap.Int("query_length", len(req.Query)),
		zap.String("mode", req.Mode.String()),
	)

	searchStart := time.Now()
	result, err := client.Search(ctx, req.Query)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordSearchRequest(req.Mode.String(), "error", time.Since(searchStart))
			s.metrics.RecordRequest("search", "error", time.Since(startTime))
		}
		return nil, fmt.Errorf("search: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordSearchRequest(req.Mode.String(), "success", time.Since(searchStart))
		s.metrics.RecordSearchImages(len(result.Images))
		s.metrics.RecordRequest("search", "success", time.Since(startTime))
	}

	s.logger.Info("search processed",
		zap.Int64("user_id", req.UserID),
		zap.String("mode", req.Mode.String()),
		zap.Int("images", len(result.Images)),
		zap.Int("answer_length", len(result.Answer)),
	)

	return result, nil
}

package search

import (
	"context"
	"errors"
)

var (
	ErrInvalidMode     = errors.New("invalid search mode")
	ErrInvalidCategory = errors.New("invalid search category")
	ErrRequestFailed   = errors.New("search request failed")
	ErrInvalidResponse = errors.New("invalid search response")
)

type Mode string

const (
	ModeSimple Mode = "simple"
	ModeDeep   Mode = "deep"
)

func (m Mode) IsValid() bool {
	switch m {
	case ModeSimple, ModeDeep:
		return true
	}
	return false
}

func (m Mode) String() string { return string(m) }

type Category string

const (
	CategoryGeneral Category = "general"
	CategoryScience Category = "science"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryGeneral, CategoryScience:
		return true
	}
	return false
}

func (c Category) String() string { return string(c) }

type SearchClient interface {
	Search(ctx context.Context, query string) (*SearchResult, error)
}

// SearchResult - агрегированный ответ поиска: картинки, текст ответа
// и связанные вопросы, собранные из потока событий.
type SearchResult struct {
	Images  []ImageResult
	Answer  string
	Related string
}

type ImageResult struct {
	ID        string
	Name      string
	Source    string
	URL       string
	Img       string
	Thumbnail string
	Snippet   string
	Engine    string
}

package llm

import (
	"context"
	"fmt"
	"strconv"

	g "github.com/serpapi/google-search-results-golang"
)

// SerpSearch queries Google through SerpApi for supporting context.
type SerpSearch struct {
	apiKey string
	lang   string
}

func NewSerpSearch(apiKey, lang string) *SerpSearch {
	if lang == "" {
		lang = "id"
	}
	return &SerpSearch{apiKey: apiKey, lang: lang}
}

func (s *SerpSearch) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if s.apiKey == "" {
		return nil, ErrNoCredential
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 3
	}

	parameter := map[string]string{
		"engine": "google",
		"q":      query,
		"hl":     s.lang,
		"num":    strconv.Itoa(limit),
	}

	search := g.NewGoogleSearch(parameter, s.apiKey)
	data, err := search.GetJSON()
	if err != nil {
		return nil, fmt.Errorf("serpapi search: %w", err)
	}

	organic, ok := data["organic_results"].([]interface{})
	if !ok {
		return nil, nil
	}

	results := make([]SearchResult, 0, limit)
	for _, item := range organic {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		title, _ := entry["title"].(string)
		snippet, _ := entry["snippet"].(string)
		if title == "" && snippet == "" {
			continue
		}
		results = append(results, SearchResult{Title: title, Content: snippet})
		if len(results) >= limit {
			break
		}
	}
	return results, nil
}

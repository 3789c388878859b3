// Package feed lists issues from the RSS feed instead of the HTML index page.
package feed

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"

	"twir-bot/internal/digest"
	"twir-bot/internal/domain/model"
	"twir-bot/internal/domain/ports"
)

// Source implements ports.IssueSource over an RSS or Atom feed.
type Source struct {
	fetcher ports.PageFetcher
	feedURL string
	parser  *gofeed.Parser
}

var _ ports.IssueSource = (*Source)(nil)

// NewSource creates a Source reading feedURL.
func NewSource(fetcher ports.PageFetcher, feedURL string) *Source {
	return &Source{
		fetcher: fetcher,
		feedURL: feedURL,
		parser:  gofeed.NewParser(),
	}
}

// NewIssues returns the feed items above watermark in feed order.
func (s *Source) NewIssues(ctx context.Context, watermark int) ([]model.IssueRef, error) {
	data, err := s.fetcher.Fetch(ctx, s.feedURL)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}

	parsed, err := s.parser.ParseString(data)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	refs, err := issueRefs(parsed.Items)
	if err != nil {
		return nil, err
	}
	return digest.FilterNewer(refs, watermark), nil
}

func issueRefs(items []*gofeed.Item) ([]model.IssueRef, error) {
	refs := make([]model.IssueRef, 0, len(items))
	for _, item := range items {
		id, err := digest.ParseIssueID(item.Title)
		if err != nil {
			return nil, err
		}
		link := strings.TrimSpace(item.Link)
		if link == "" {
			return nil, &digest.ParseError{Kind: digest.ErrMissingIssueURL, Element: strings.TrimSpace(item.Title)}
		}
		refs = append(refs, model.IssueRef{ID: id, URL: link})
	}
	return refs, nil
}

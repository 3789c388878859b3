package web

import (
	"context"
	"fmt"
	"net/url"

	"twir-bot/internal/digest"
	"twir-bot/internal/domain/model"
	"twir-bot/internal/domain/ports"
	"twir-bot/internal/markup"
)

// IndexSource lists issues from the HTML index page.
type IndexSource struct {
	fetcher  ports.PageFetcher
	indexURL string
}

var _ ports.IssueSource = (*IndexSource)(nil)

// NewIndexSource creates an IndexSource reading indexURL.
func NewIndexSource(fetcher ports.PageFetcher, indexURL string) *IndexSource {
	return &IndexSource{fetcher: fetcher, indexURL: indexURL}
}

// NewIssues returns the issues above watermark in page order (newest first).
func (s *IndexSource) NewIssues(ctx context.Context, watermark int) ([]model.IssueRef, error) {
	page, err := s.fetcher.Fetch(ctx, s.indexURL)
	if err != nil {
		return nil, fmt.Errorf("fetch index: %w", err)
	}

	doc, err := markup.ParseString(page)
	if err != nil {
		return nil, err
	}

	refs, err := digest.ScanIndex(doc, watermark)
	if err != nil {
		return nil, fmt.Errorf("scan index: %w", err)
	}

	base, err := url.Parse(s.indexURL)
	if err != nil {
		return nil, fmt.Errorf("parse index url: %w", err)
	}
	for i := range refs {
		refs[i].URL = resolve(base, refs[i].URL)
	}
	return refs, nil
}

// resolve makes href absolute against base. Unparsable hrefs are kept as is.
func resolve(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

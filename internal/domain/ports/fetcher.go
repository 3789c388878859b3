package ports

import (
	"context"

	"twir-bot/internal/domain/model"
)

// PageFetcher downloads the raw markup behind a URL.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// IssueSource lists the issues newer than the watermark, newest first.
type IssueSource interface {
	NewIssues(ctx context.Context, watermark int) ([]model.IssueRef, error)
}

package digest

import (
	"strconv"
	"strings"

	"twir-bot/internal/domain/model"
	"twir-bot/internal/markup"
)

const postTitleSelector = ".post-title a"

// ScanIndex lists the issues linked from the index page whose id is above
// watermark. Entries keep page order, which is newest first.
func ScanIndex(doc markup.Node, watermark int) ([]model.IssueRef, error) {
	anchors := doc.Find(postTitleSelector)
	refs := make([]model.IssueRef, 0, len(anchors))
	for _, anchor := range anchors {
		title := anchor.Text()
		id, err := ParseIssueID(title)
		if err != nil {
			return nil, err
		}

		href, ok := anchor.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return nil, parseError(ErrMissingIssueURL, strings.TrimSpace(title))
		}

		refs = append(refs, model.IssueRef{ID: id, URL: strings.TrimSpace(href)})
	}
	return FilterNewer(refs, watermark), nil
}

// ParseIssueID reads the issue number from the last whitespace-separated token of a title.
func ParseIssueID(title string) (int, error) {
	fields := strings.Fields(title)
	if len(fields) == 0 {
		return 0, parseError(ErrMalformedIssueID, "empty title")
	}

	last := fields[len(fields)-1]
	id, err := strconv.Atoi(last)
	if err != nil || id <= 0 {
		return 0, parseError(ErrMalformedIssueID, strconv.Quote(last))
	}
	return id, nil
}

// FilterNewer keeps the refs whose id is strictly greater than watermark, preserving order.
func FilterNewer(refs []model.IssueRef, watermark int) []model.IssueRef {
	newer := make([]model.IssueRef, 0, len(refs))
	for _, ref := range refs {
		if ref.ID > watermark {
			newer = append(newer, ref)
		}
	}
	return newer
}

// OldestFirst returns a reversed copy of refs so that page-ordered issues are
// delivered in ascending id order.
func OldestFirst(refs []model.IssueRef) []model.IssueRef {
	out := make([]model.IssueRef, len(refs))
	for i, ref := range refs {
		out[len(refs)-1-i] = ref
	}
	return out
}

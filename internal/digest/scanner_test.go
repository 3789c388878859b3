package digest

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twir-bot/internal/domain/model"
	"twir-bot/internal/markup"
)

func indexPage(entries ...string) string {
	var b strings.Builder
	b.WriteString("<html><body><div class=\"posts\">")
	for _, entry := range entries {
		b.WriteString(`<div class="row post-title">`)
		b.WriteString(entry)
		b.WriteString(`</div>`)
	}
	b.WriteString("</div></body></html>")
	return b.String()
}

func issueAnchor(id int) string {
	return fmt.Sprintf(`<a href="https://this-week-in-rust.org/blog/issue-%d/">This Week in Rust %d</a>`, id, id)
}

func parseDoc(t *testing.T, page string) markup.Node {
	t.Helper()
	doc, err := markup.ParseString(page)
	require.NoError(t, err)
	return doc
}

func TestScanIndex_FiltersByWatermark(t *testing.T) {
	doc := parseDoc(t, indexPage(issueAnchor(12), issueAnchor(11), issueAnchor(10)))

	refs, err := ScanIndex(doc, 10)
	require.NoError(t, err)

	assert.Equal(t, []model.IssueRef{
		{ID: 12, URL: "https://this-week-in-rust.org/blog/issue-12/"},
		{ID: 11, URL: "https://this-week-in-rust.org/blog/issue-11/"},
	}, refs)
	assert.Equal(t, []int{11, 12}, ids(OldestFirst(refs)))
}

func TestScanIndex_ComparesNumerically(t *testing.T) {
	doc := parseDoc(t, indexPage(issueAnchor(100), issueAnchor(99), issueAnchor(9)))

	refs, err := ScanIndex(doc, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{100, 99}, ids(refs))
}

func TestScanIndex_NothingNew(t *testing.T) {
	doc := parseDoc(t, indexPage(issueAnchor(5), issueAnchor(4)))

	refs, err := ScanIndex(doc, 5)
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestScanIndex_MalformedTitle(t *testing.T) {
	doc := parseDoc(t, indexPage(issueAnchor(3), `<a href="/special/">A special edition</a>`))

	_, err := ScanIndex(doc, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedIssueID))
	assert.Contains(t, err.Error(), `"edition"`)
}

func TestScanIndex_MissingHref(t *testing.T) {
	doc := parseDoc(t, indexPage(`<a>This Week in Rust 7</a>`))

	_, err := ScanIndex(doc, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingIssueURL)
}

func TestParseIssueID(t *testing.T) {
	id, err := ParseIssueID("  This Week in Rust\n 512 ")
	require.NoError(t, err)
	assert.Equal(t, 512, id)

	for _, bad := range []string{"", "   ", "Rust 1.0", "Issue #5", "Issue -3", "Issue 0"} {
		_, err := ParseIssueID(bad)
		assert.ErrorIs(t, err, ErrMalformedIssueID, bad)
	}
}

func ids(refs []model.IssueRef) []int {
	out := make([]int, 0, len(refs))
	for _, ref := range refs {
		out = append(out, ref.ID)
	}
	return out
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twir-bot/internal/digest"
	"twir-bot/internal/domain/model"
)

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any) {}
func (nopLogger) Error(context.Context, string, ...any) {}

type fakeSource struct {
	refs []model.IssueRef
	seen []int
}

func (s *fakeSource) NewIssues(_ context.Context, watermark int) ([]model.IssueRef, error) {
	s.seen = append(s.seen, watermark)
	return digest.FilterNewer(s.refs, watermark), nil
}

type fakePages map[string]string

func (p fakePages) Fetch(_ context.Context, url string) (string, error) {
	page, ok := p[url]
	if !ok {
		return "", fmt.Errorf("no page for %s", url)
	}
	return page, nil
}

type forwardCall struct {
	target    string
	messageID int64
}

type fakeNotifier struct {
	sent      []string
	forwarded []forwardCall
	nextID    int64
	noIDs     bool
	failOn    string
}

func (n *fakeNotifier) Send(_ context.Context, text string) (int64, error) {
	if n.failOn != "" && strings.Contains(text, n.failOn) {
		return 0, errors.New("transport down")
	}
	n.sent = append(n.sent, text)
	if n.noIDs {
		return 0, nil
	}
	n.nextID++
	return n.nextID, nil
}

func (n *fakeNotifier) Forward(_ context.Context, target string, messageID int64) error {
	n.forwarded = append(n.forwarded, forwardCall{target: target, messageID: messageID})
	return nil
}

type memWatermark struct {
	id    int
	saves int
}

func (m *memWatermark) Load(context.Context) (int, error) { return m.id, nil }

func (m *memWatermark) Save(_ context.Context, id int) error {
	m.id = id
	m.saves++
	return nil
}

func issueURL(id int) string {
	return fmt.Sprintf("https://this-week-in-rust.org/blog/issue-%d/", id)
}

func issuePage(id int) string {
	return fmt.Sprintf(`<html><body><div class="post">
<span class="time-prefix">Wed, %d Jan 2024</span>
<h2>Crate of the Week</h2>
<p>This week's crate is <a href="https://crates.io/crates/c%d">c%d</a>.</p>
<h2>Updates from Rust Community</h2>
<h3>Official</h3>
<ul><li><a href="https://blog.rust-lang.org/p%d.html">Post %d</a></li></ul>
<h2>Updates from the Rust Project</h2>
<ul><li><a href="https://github.com/rust-lang/rust/pull/%d">PR %d</a></li></ul>
</div></body></html>`, id, id, id, id, id, id, id)
}

func refs(ids ...int) []model.IssueRef {
	out := make([]model.IssueRef, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.IssueRef{ID: id, URL: issueURL(id)})
	}
	return out
}

func newDelivery(source *fakeSource, pages fakePages, notifier *fakeNotifier, wm *memWatermark, cfg IssueDeliveryConfig) *IssueDelivery {
	return NewIssueDelivery(source, pages, digest.NewExtractor(nopLogger{}, digest.ExtractorOptions{}), notifier, wm, nopLogger{}, cfg)
}

func TestIssueDelivery_DeliversOldestFirstAndSavesMax(t *testing.T) {
	source := &fakeSource{refs: refs(12, 11, 10)}
	pages := fakePages{issueURL(11): issuePage(11), issueURL(12): issuePage(12)}
	notifier := &fakeNotifier{}
	wm := &memWatermark{id: 10}

	err := newDelivery(source, pages, notifier, wm, IssueDeliveryConfig{}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int{10}, source.seen)
	require.Len(t, notifier.sent, 8)
	assert.True(t, strings.HasPrefix(notifier.sent[0], "<b>This Week in Rust #11</b>"))
	assert.True(t, strings.HasPrefix(notifier.sent[4], "<b>This Week in Rust #12</b>"))
	assert.Equal(t, 12, wm.id)
	assert.Equal(t, 1, wm.saves)
}

func TestIssueDelivery_FailureKeepsWatermark(t *testing.T) {
	source := &fakeSource{refs: refs(12, 11, 10)}
	pages := fakePages{
		issueURL(11): issuePage(11),
		issueURL(12): strings.Replace(issuePage(12), "<h2>Crate of the Week</h2>", "", 1),
	}
	notifier := &fakeNotifier{}
	wm := &memWatermark{id: 10}

	err := newDelivery(source, pages, notifier, wm, IssueDeliveryConfig{}).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, digest.ErrParagraphNotFound)
	assert.Contains(t, err.Error(), "issue #12")
	assert.Contains(t, err.Error(), issueURL(12))

	// Issue 11 went out, but the watermark stays at 10.
	assert.Len(t, notifier.sent, 4)
	assert.Equal(t, 10, wm.id)
	assert.Zero(t, wm.saves)
}

func TestIssueDelivery_SendFailureAborts(t *testing.T) {
	source := &fakeSource{refs: refs(2, 1)}
	pages := fakePages{issueURL(1): issuePage(1), issueURL(2): issuePage(2)}
	notifier := &fakeNotifier{failOn: "#1</b>"}
	wm := &memWatermark{}

	err := newDelivery(source, pages, notifier, wm, IssueDeliveryConfig{}).Run(context.Background())
	require.Error(t, err)
	assert.Empty(t, notifier.sent)
	assert.Zero(t, wm.saves)
}

func TestIssueDelivery_NothingNew(t *testing.T) {
	source := &fakeSource{refs: refs(5, 4)}
	notifier := &fakeNotifier{}
	wm := &memWatermark{id: 5}

	err := newDelivery(source, fakePages{}, notifier, wm, IssueDeliveryConfig{}).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, notifier.sent)
	assert.Zero(t, wm.saves)
}

func TestIssueDelivery_ForwardsHeadMessage(t *testing.T) {
	source := &fakeSource{refs: refs(3)}
	pages := fakePages{issueURL(3): issuePage(3)}
	notifier := &fakeNotifier{}
	wm := &memWatermark{}

	cfg := IssueDeliveryConfig{ForwardTo: []string{"@a", "@b"}}
	require.NoError(t, newDelivery(source, pages, notifier, wm, cfg).Run(context.Background()))

	assert.Equal(t, []forwardCall{{target: "@a", messageID: 1}, {target: "@b", messageID: 1}}, notifier.forwarded)
}

func TestIssueDelivery_NoMessageIDSkipsForward(t *testing.T) {
	source := &fakeSource{refs: refs(3)}
	pages := fakePages{issueURL(3): issuePage(3)}
	notifier := &fakeNotifier{noIDs: true}
	wm := &memWatermark{}

	cfg := IssueDeliveryConfig{ForwardTo: []string{"@a"}}
	require.NoError(t, newDelivery(source, pages, notifier, wm, cfg).Run(context.Background()))

	assert.Empty(t, notifier.forwarded)
	assert.Len(t, notifier.sent, 4)
	assert.Equal(t, 3, wm.id)
}

func TestIssueDelivery_DryRunDoesNotSave(t *testing.T) {
	source := &fakeSource{refs: refs(3)}
	pages := fakePages{issueURL(3): issuePage(3)}
	notifier := &fakeNotifier{}
	wm := &memWatermark{id: 2}

	cfg := IssueDeliveryConfig{DryRun: true}
	require.NoError(t, newDelivery(source, pages, notifier, wm, cfg).Run(context.Background()))

	assert.Len(t, notifier.sent, 4)
	assert.Equal(t, 2, wm.id)
	assert.Zero(t, wm.saves)
}

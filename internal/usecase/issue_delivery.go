package usecase

import (
	"context"
	"fmt"
	"time"

	"twir-bot/internal/digest"
	"twir-bot/internal/domain/model"
	"twir-bot/internal/domain/ports"
	"twir-bot/internal/markup"
)

// IssueDelivery delivers every issue newer than the watermark, oldest first,
// and advances the watermark only once the whole batch went out.
type IssueDelivery struct {
	issues    ports.IssueSource
	pages     ports.PageFetcher
	extractor *digest.Extractor
	notifier  ports.Notifier
	watermark ports.WatermarkStore
	logger    ports.Logger
	forwardTo []string
	dryRun    bool
}

// IssueDeliveryConfig controls optional behaviours of the batch.
type IssueDeliveryConfig struct {
	// ForwardTo lists the chats the head message of each issue is forwarded to.
	ForwardTo []string
	// DryRun delivers normally but never writes the watermark.
	DryRun bool
}

// NewIssueDelivery constructs an IssueDelivery use case.
func NewIssueDelivery(
	issues ports.IssueSource,
	pages ports.PageFetcher,
	extractor *digest.Extractor,
	notifier ports.Notifier,
	watermark ports.WatermarkStore,
	logger ports.Logger,
	cfg IssueDeliveryConfig,
) *IssueDelivery {
	return &IssueDelivery{
		issues:    issues,
		pages:     pages,
		extractor: extractor,
		notifier:  notifier,
		watermark: watermark,
		logger:    logger,
		forwardTo: cfg.ForwardTo,
		dryRun:    cfg.DryRun,
	}
}

// Run executes one batch. Any failure aborts the rest of the batch and leaves
// the watermark untouched, so issues delivered before it are sent again on the
// next run.
func (d *IssueDelivery) Run(ctx context.Context) error {
	start := time.Now()

	lastID, err := d.watermark.Load(ctx)
	if err != nil {
		d.logger.Error(ctx, "failed to load watermark", "error", err)
		return err
	}
	d.logger.Info(ctx, "starting issue delivery", "last_id", lastID)

	refs, err := d.issues.NewIssues(ctx, lastID)
	if err != nil {
		d.logger.Error(ctx, "failed to list issues", "error", err)
		return err
	}
	if len(refs) == 0 {
		d.logger.Info(ctx, "nothing to send", "last_id", lastID)
		return nil
	}
	d.logger.Info(ctx, "new issues found", "count", len(refs))

	maxID := lastID
	for _, ref := range digest.OldestFirst(refs) {
		if err := d.deliverIssue(ctx, ref); err != nil {
			d.logger.Error(ctx, "issue delivery failed", "id", ref.ID, "url", ref.URL, "error", err)
			return fmt.Errorf("issue #%d (%s): %w", ref.ID, ref.URL, err)
		}
		if ref.ID > maxID {
			maxID = ref.ID
		}
	}

	if d.dryRun {
		d.logger.Info(ctx, "dry run, watermark not saved", "last_id", maxID)
	} else {
		if err := d.watermark.Save(ctx, maxID); err != nil {
			d.logger.Error(ctx, "failed to save watermark", "error", err)
			return err
		}
		d.logger.Info(ctx, "watermark saved", "last_id", maxID)
	}

	d.logger.Info(ctx, "issue delivery completed", "count", len(refs), "duration", time.Since(start))
	return nil
}

func (d *IssueDelivery) deliverIssue(ctx context.Context, ref model.IssueRef) error {
	d.logger.Info(ctx, "fetching issue", "id", ref.ID, "url", ref.URL)

	page, err := d.pages.Fetch(ctx, ref.URL)
	if err != nil {
		return fmt.Errorf("fetch issue: %w", err)
	}

	doc, err := markup.ParseString(page)
	if err != nil {
		return err
	}

	article, err := d.extractor.Extract(ctx, doc, ref)
	if err != nil {
		return fmt.Errorf("extract issue: %w", err)
	}

	for _, message := range digest.Render(article) {
		messageID, err := d.notifier.Send(ctx, message.Text)
		if err != nil {
			return fmt.Errorf("send message: %w", err)
		}
		if message.Forward {
			if err := d.forward(ctx, messageID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *IssueDelivery) forward(ctx context.Context, messageID int64) error {
	if len(d.forwardTo) == 0 {
		return nil
	}
	if messageID == 0 {
		d.logger.Error(ctx, "can't forward, no message id returned")
		return nil
	}
	for _, target := range d.forwardTo {
		if err := d.notifier.Forward(ctx, target, messageID); err != nil {
			return fmt.Errorf("forward message to %s: %w", target, err)
		}
	}
	return nil
}

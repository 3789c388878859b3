package digest

import (
	"context"
	"slices"
	"strings"

	"twir-bot/internal/domain/model"
	"twir-bot/internal/domain/ports"
	"twir-bot/internal/markup"
)

// Recognised top-level section titles. Matching is exact and case-sensitive.
const (
	CrateOfWeekTitle = "Crate of the Week"
	CommunityTitle   = "Updates from Rust Community"
	CoreProjectTitle = "Updates from the Rust Project"
)

type section int

const (
	sectionNone section = iota
	sectionCrate
	sectionCommunity
	sectionCore
)

// ExtractorOptions describes which elements play which role in an issue page.
type ExtractorOptions struct {
	TopHeadings  []string
	SubHeadings  []string
	DateSelector string
}

// DefaultExtractorOptions matches the markup of the published issue pages.
func DefaultExtractorOptions() ExtractorOptions {
	return ExtractorOptions{
		TopHeadings:  []string{"h2"},
		SubHeadings:  []string{"h3", "h4"},
		DateSelector: ".time-prefix",
	}
}

// Extractor maps the flat, heading-delimited body of an issue page to a model.Article.
type Extractor struct {
	opts   ExtractorOptions
	logger ports.Logger
}

// NewExtractor builds an Extractor. Empty option fields fall back to the defaults.
func NewExtractor(logger ports.Logger, opts ExtractorOptions) *Extractor {
	defaults := DefaultExtractorOptions()
	if len(opts.TopHeadings) == 0 {
		opts.TopHeadings = defaults.TopHeadings
	}
	if len(opts.SubHeadings) == 0 {
		opts.SubHeadings = defaults.SubHeadings
	}
	if opts.DateSelector == "" {
		opts.DateSelector = defaults.DateSelector
	}
	return &Extractor{opts: opts, logger: logger}
}

// scan is the state of one linear pass over the body siblings.
type scan struct {
	section  section
	category string

	crate        *model.CrateOfWeek
	sawCommunity bool
	community    []model.NamedLinkGroup
	sawCore      bool
	core         model.LinkGroup
}

// Extract parses one issue page.
func (e *Extractor) Extract(ctx context.Context, doc markup.Node, ref model.IssueRef) (model.Article, error) {
	date, err := e.publishedDate(doc)
	if err != nil {
		return model.Article{}, err
	}

	drop := func(err error) {
		if e.logger != nil {
			e.logger.Debug(ctx, "skipping list item", "issue", ref.ID, "error", err)
		}
	}

	st := &scan{}
	for _, node := range e.body(doc).Children() {
		tag := node.Tag()
		switch {
		case slices.Contains(e.opts.TopHeadings, tag):
			st.enter(visibleText(node))
		case slices.Contains(e.opts.SubHeadings, tag):
			if st.section == sectionCommunity {
				st.category = visibleText(node)
			}
		case tag == "p":
			if st.section == sectionCrate && st.crate == nil {
				crate, err := crateFromParagraph(node)
				if err != nil {
					return model.Article{}, err
				}
				st.crate = &crate
			}
		case tag == "ul" || tag == "ol":
			st.list(node, drop)
		}
	}

	if st.crate == nil {
		return model.Article{}, parseError(ErrParagraphNotFound, CrateOfWeekTitle)
	}
	if !st.sawCommunity {
		return model.Article{}, parseError(ErrStructureNotFound, CommunityTitle)
	}
	if !st.sawCore {
		return model.Article{}, parseError(ErrStructureNotFound, CoreProjectTitle)
	}
	if len(st.core) == 0 {
		return model.Article{}, parseError(ErrStructureNotFound, "list under "+CoreProjectTitle)
	}

	return model.Article{
		ID:            ref.ID,
		URL:           Escape(ref.URL),
		PublishedDate: date,
		Community:     model.CommunityUpdates{Groups: st.community},
		CrateOfWeek:   *st.crate,
		Core:          model.CoreUpdates(st.core),
	}, nil
}

func (s *scan) enter(title string) {
	s.category = ""
	switch title {
	case CrateOfWeekTitle:
		s.section = sectionCrate
	case CommunityTitle:
		s.section = sectionCommunity
		s.sawCommunity = true
	case CoreProjectTitle:
		s.section = sectionCore
		s.sawCore = true
	default:
		s.section = sectionNone
	}
}

func (s *scan) list(node markup.Node, drop func(error)) {
	switch s.section {
	case sectionCommunity:
		if s.category == "" {
			return
		}
		links := collectLinks(node, drop)
		if len(links) == 0 {
			return
		}
		s.community = append(s.community, model.NamedLinkGroup{
			Category: Escape(s.category),
			Links:    links,
		})
		s.category = ""
	case sectionCore:
		if len(s.core) > 0 {
			return
		}
		s.core = collectLinks(node, drop)
	}
}

func (e *Extractor) publishedDate(doc markup.Node) (string, error) {
	markers := doc.Find(e.opts.DateSelector)
	if len(markers) == 0 {
		return "", parseError(ErrTimeNotFound, e.opts.DateSelector)
	}
	date := visibleText(markers[0])
	if date == "" {
		return "", parseError(ErrTimeNotFound, e.opts.DateSelector)
	}
	return Escape(date), nil
}

// body returns the element whose children are the section siblings: the parent
// of the first recognised top-level heading, or <body> when there is none.
func (e *Extractor) body(doc markup.Node) markup.Node {
	for _, heading := range doc.Find(strings.Join(e.opts.TopHeadings, ", ")) {
		switch visibleText(heading) {
		case CrateOfWeekTitle, CommunityTitle, CoreProjectTitle:
			if parent, ok := heading.Parent(); ok {
				return parent
			}
		}
	}
	if bodies := doc.Find("body"); len(bodies) > 0 {
		return bodies[0]
	}
	return doc
}

func crateFromParagraph(p markup.Node) (model.CrateOfWeek, error) {
	anchors := p.Find("a")
	if len(anchors) == 0 {
		return model.CrateOfWeek{}, parseError(ErrLinkNotFound, CrateOfWeekTitle+" paragraph")
	}
	href, ok := anchors[0].Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return model.CrateOfWeek{}, parseError(ErrLinkNotFound, CrateOfWeekTitle+" anchor href")
	}

	return model.CrateOfWeek{
		Name:        Escape(visibleText(anchors[0])),
		URL:         Escape(strings.TrimSpace(href)),
		Description: Escape(visibleText(p)),
	}, nil
}

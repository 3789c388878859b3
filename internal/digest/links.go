package digest

import (
	"strconv"
	"strings"

	"twir-bot/internal/domain/model"
	"twir-bot/internal/markup"
)

// discussMarker is appended by the site to items that link a discussion thread.
const discussMarker = ". [discuss]"

// LinkFromListItem builds a Link from a list item: its visible text without the
// discussion marker, and the href of its first anchor.
func LinkFromListItem(item markup.Node) (model.Link, error) {
	text := strings.TrimSpace(strings.ReplaceAll(visibleText(item), discussMarker, ""))

	anchors := item.Find("a")
	if len(anchors) == 0 {
		return model.Link{}, parseError(ErrNextNotFound, "anchor in list item "+strconv.Quote(text))
	}
	href, ok := anchors[0].Attr("href")
	if !ok {
		return model.Link{}, parseError(ErrHrefNotFound, "href in list item "+strconv.Quote(text))
	}

	return model.Link{
		URL:  Escape(strings.TrimSpace(href)),
		Text: Escape(text),
	}, nil
}

// collectLinks turns every direct list item of list into a Link. Nested lists
// stay part of their parent item. Items that cannot be turned into a link are
// reported to drop and skipped.
func collectLinks(list markup.Node, drop func(error)) model.LinkGroup {
	items := list.Children()
	links := make(model.LinkGroup, 0, len(items))
	for _, item := range items {
		if item.Tag() != "li" {
			continue
		}
		link, err := LinkFromListItem(item)
		if err != nil {
			if drop != nil {
				drop(err)
			}
			continue
		}
		links = append(links, link)
	}
	return links
}

// visibleText returns the node text with runs of whitespace collapsed.
func visibleText(n markup.Node) string {
	return strings.Join(strings.Fields(n.Text()), " ")
}

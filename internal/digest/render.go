package digest

import (
	"fmt"
	"strings"

	"twir-bot/internal/domain/model"
)

const (
	communityHeading = "<b>" + CommunityTitle + "</b>"
	coreHeading      = "<b>" + CoreProjectTitle + "</b>"
)

// RenderLink renders the link text followed by an anchor labelled with ShortLabel.
func RenderLink(link model.Link) string {
	return fmt.Sprintf("%s\n<a href=\"%s\">%s</a>\n", link.Text, link.URL, ShortLabel(link.URL))
}

// RenderLinks renders every link of group separated by a blank line.
func RenderLinks(group model.LinkGroup) string {
	parts := make([]string, 0, len(group))
	for _, link := range group {
		parts = append(parts, RenderLink(link))
	}
	return strings.Join(parts, "\n")
}

// RenderHead renders the issue header block.
func RenderHead(a model.Article) string {
	return fmt.Sprintf("<b>This Week in Rust #%d</b> - %s\n\n%s", a.ID, strings.ToLower(a.PublishedDate), a.URL)
}

// RenderCommunity renders the non-empty community groups under the section
// title. With no groups only the title is returned.
func RenderCommunity(c model.CommunityUpdates) string {
	var b strings.Builder
	b.WriteString(communityHeading)
	for _, group := range c.Groups {
		if len(group.Links) == 0 {
			continue
		}
		b.WriteString("\n\n<b>")
		b.WriteString(group.Category)
		b.WriteString("</b>\n\n")
		b.WriteString(RenderLinks(group.Links))
	}
	return b.String()
}

// RenderCrateOfWeek renders the crate anchor followed by its description.
func RenderCrateOfWeek(c model.CrateOfWeek) string {
	return fmt.Sprintf("<b>%s:</b> <a href=\"%s\">%s</a>\n\n%s\n", CrateOfWeekTitle, c.URL, c.Name, c.Description)
}

// RenderCore renders the core updates block.
func RenderCore(c model.CoreUpdates) string {
	links := RenderLinks(model.LinkGroup(c))
	if links == "" {
		return coreHeading
	}
	return coreHeading + "\n\n" + links
}

// Render turns an article into the blocks to deliver, in delivery order.
// Only the head block is marked for forwarding.
func Render(a model.Article) []model.Message {
	return []model.Message{
		{Text: RenderHead(a), Forward: true},
		{Text: RenderCommunity(a.Community)},
		{Text: RenderCrateOfWeek(a.CrateOfWeek)},
		{Text: RenderCore(a.Core)},
	}
}

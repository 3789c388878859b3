package model

// IssueRef is one issue entry listed on the index page.
type IssueRef struct {
	ID  int
	URL string
}

// Link is a single delivered link. Both fields are HTML-escaped on construction.
type Link struct {
	URL  string
	Text string
}

// LinkGroup is an ordered list of links.
type LinkGroup []Link

// CrateOfWeek is the highlighted crate of an issue.
type CrateOfWeek struct {
	Name        string
	URL         string
	Description string
}

// NamedLinkGroup is one categorized subsection of community updates.
type NamedLinkGroup struct {
	Category string
	Links    LinkGroup
}

// CommunityUpdates holds the non-empty community subsections in document order.
type CommunityUpdates struct {
	Groups []NamedLinkGroup
}

// CoreUpdates lists the links about the project itself.
type CoreUpdates LinkGroup

// Article is the structured content extracted from one issue page.
type Article struct {
	ID            int
	URL           string
	PublishedDate string
	Community     CommunityUpdates
	CrateOfWeek   CrateOfWeek
	Core          CoreUpdates
}

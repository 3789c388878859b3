package digest

import (
	"regexp"
	"strings"
)

var (
	githubURL  = regexp.MustCompile(`^https?://github\.com(?:/(.*))?$`)
	mediumURL  = regexp.MustCompile(`^https?://medium\.com/([^/?#]+)`)
	schemePart = regexp.MustCompile(`^https?://`)
	pageSuffix = regexp.MustCompile(`\.html?$`)
	pathSuffix = regexp.MustCompile(`/.*$`)
)

// ShortLabel reduces a URL to the short text shown inside its anchor.
//
// GitHub links keep their path, Medium links keep the publication or author
// handle, anything else is reduced to its host.
func ShortLabel(url string) string {
	if m := githubURL.FindStringSubmatch(url); m != nil {
		if m[1] == "" {
			return "github.com"
		}
		return m[1]
	}
	if m := mediumURL.FindStringSubmatch(url); m != nil {
		return "medium.com/" + m[1]
	}

	label := schemePart.ReplaceAllString(url, "")
	label = pageSuffix.ReplaceAllString(label, "")
	label = pathSuffix.ReplaceAllString(label, "")
	if label == "" {
		return strings.TrimSpace(url)
	}
	return label
}

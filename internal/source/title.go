package source

import "strings"

// minTitleLen is the shortest title a listing source will emit. Shorter
// anchors are navigation chrome, not headlines.
const minTitleLen = 15

var titleArtifacts = []string{
	"Read More", "READ MORE", "Continue Reading",
	"Click here", "View Details", "Share", "Tweet",
	"Advertisement", "Sponsored", "|", "–",
}

// cleanTitle collapses whitespace, strips listing boilerplate, and truncates
// overlong titles on a word boundary.
func cleanTitle(title string) string {
	if title == "" {
		return ""
	}

	title = strings.Join(strings.Fields(title), " ")

	for _, artifact := range titleArtifacts {
		title = strings.ReplaceAll(title, artifact, "")
	}

	title = strings.Trim(title, " .,;:-–|")

	if len(title) > 150 {
		truncated := title[:150]
		if lastSpace := strings.LastIndex(truncated, " "); lastSpace > 100 {
			title = truncated[:lastSpace] + "..."
		}
	}

	return title
}

var skipURLPatterns = []string{
	"/videos/", "/photos/", "/gallery/", "/live-blog/",
	"/subscribe", "/newsletter", "/contact", "/about",
	"/privacy", "/terms", "/advertise", "/jobs",
	"facebook.com", "twitter.com", "instagram.com",
	"youtube.com", "whatsapp.com", "telegram.me",
}

var validURLPatterns = []string{
	"/section/", "/article/", "/explained/", "/opinion/",
	"/sports/", "/business/", "/cities/", "/lifestyle/",
	"/entertainment/", "/technology/", "/world/",
}

// validArticleURL filters out navigation, media galleries, and social links.
func validArticleURL(siteHost, rawURL string) bool {
	lower := strings.ToLower(rawURL)

	for _, p := range skipURLPatterns {
		if strings.Contains(lower, p) {
			return false
		}
	}

	if !strings.Contains(lower, siteHost) {
		return false
	}

	for _, p := range validURLPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}

	// Deep enough paths are usually stories even without a known section.
	return strings.Count(rawURL, "/") >= 4
}

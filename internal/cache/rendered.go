package cache

import "time"

// RenderedTTL bounds how long a render stays cached. Previews render every
// keystroke of a draft, so most entries are never read again.
const RenderedTTL = 10 * time.Minute

// RenderedContent represents cached rendered markdown.
type RenderedContent struct {
	HTML []byte
}

var renderedMarkdownCache = newRenderedCache()

func newRenderedCache() *Cache[string, *RenderedContent] {
	return NewCacheWithTTL[string, *RenderedContent](RenderedTTL)
}

// renderKey joins what was rendered with the theme it was rendered in.
func renderKey(source, syntaxTheme string) string {
	return source + ":" + syntaxTheme
}

func GetRenderedMarkdown(contentHash, syntaxTheme string) (*RenderedContent, bool) {
	return renderedMarkdownCache.Get(renderKey(contentHash, syntaxTheme))
}

func SetRenderedMarkdown(contentHash, syntaxTheme string, html []byte) {
	renderedMarkdownCache.Set(renderKey(contentHash, syntaxTheme), &RenderedContent{
		HTML: html,
	})
}

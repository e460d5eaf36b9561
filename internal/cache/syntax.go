package cache

import "html/template"

// Stylesheets depend on the formatter options as well as the theme, so they
// are keyed by both, like rendered markdown.
var syntaxCache = NewCache[string, template.CSS]()

func GetSyntaxCSS(variant, syntaxTheme string) (template.CSS, bool) {
	return syntaxCache.Get(renderKey(variant, syntaxTheme))
}

func SetSyntaxCSS(variant, syntaxTheme string, css template.CSS) {
	syntaxCache.Set(renderKey(variant, syntaxTheme), css)
}

package config

// Backend endpoints, relative to APIConfig.BaseURL.
const (
	APIPostsPath    = "/api/v1/post"
	APIProjectsPath = "/api/v1/project"
	APILoginPath    = "/api/v1/auth/login"
)

// Cache tags invalidated after a successful mutation. Messages are local and
// never cached, the tag only reaches event stream subscribers.
const (
	TagPosts    = "POSTS"
	TagProjects = "PROJECTS"
	TagMessages = "MESSAGES"
)

package gitrepo

import "strings"

// Provider knows how to turn a repository URL from a hosting service into
// the form used for cloning. Fleet lists carry https URLs; cloning happens
// over ssh so the machine's deploy keys apply.
type Provider interface {
	// Name returns the provider name (e.g. "github", "bitbucket")
	Name() string

	// MatchesURL returns true if the URL belongs to this provider
	MatchesURL(url string) bool

	// CloneURL converts the URL to the ssh form used for cloning
	CloneURL(url string) string
}

// Registry holds registered providers and allows auto-detection
type Registry struct {
	providers []Provider
}

// NewRegistry creates a new provider registry
func NewRegistry() *Registry {
	return &Registry{
		providers: make([]Provider, 0),
	}
}

// Register adds a provider to the registry
func (r *Registry) Register(p Provider) {
	r.providers = append(r.providers, p)
}

// Detect finds the appropriate provider for a given URL. URLs from
// unrecognized hosts get the passthrough provider: they are cloned as-is.
func (r *Registry) Detect(url string) Provider {
	for _, p := range r.providers {
		if p.MatchesURL(url) {
			return p
		}
	}
	return passthroughProvider{}
}

// DefaultRegistry is the global provider registry with common providers pre-registered
var DefaultRegistry = NewRegistry()

func init() {
	DefaultRegistry.Register(&GitHubProvider{})
	DefaultRegistry.Register(&BitbucketProvider{})
}

// RepoNameFromURL derives the repository name from a URL: the last path
// segment, stripped of ".git" and a trailing "/browse" (Bitbucket web UI
// links end in /browse).
func RepoNameFromURL(url string) string {
	url = strings.TrimSuffix(strings.TrimSpace(url), "/")
	url = strings.TrimSuffix(url, "/browse")
	url = strings.TrimSuffix(url, ".git")

	if idx := strings.LastIndexAny(url, "/:"); idx >= 0 {
		url = url[idx+1:]
	}
	return url
}

// passthroughProvider leaves URLs untouched for hosts without ssh rewriting.
type passthroughProvider struct{}

func (passthroughProvider) Name() string           { return "generic" }
func (passthroughProvider) MatchesURL(string) bool { return true }
func (passthroughProvider) CloneURL(url string) string {
	return strings.TrimSuffix(strings.TrimSpace(url), "/")
}

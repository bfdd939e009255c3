package gitrepo

import "strings"

// GitHubProvider implements Provider for GitHub repositories
type GitHubProvider struct{}

func (g *GitHubProvider) Name() string {
	return "github"
}

func (g *GitHubProvider) MatchesURL(url string) bool {
	url = strings.ToLower(url)
	return strings.Contains(url, "github.com")
}

func (g *GitHubProvider) CloneURL(url string) string {
	url = strings.TrimSuffix(strings.TrimSpace(url), "/")
	if strings.HasPrefix(url, "https://github.com/") {
		return strings.Replace(url, "https://github.com/", "git@github.com:", 1)
	}
	return url
}

package gitrepo

import "strings"

// BitbucketProvider implements Provider for Bitbucket repositories
type BitbucketProvider struct{}

func (b *BitbucketProvider) Name() string {
	return "bitbucket"
}

func (b *BitbucketProvider) MatchesURL(url string) bool {
	url = strings.ToLower(url)
	return strings.Contains(url, "bitbucket.org")
}

func (b *BitbucketProvider) CloneURL(url string) string {
	url = strings.TrimSuffix(strings.TrimSpace(url), "/")
	if strings.HasPrefix(url, "https://bitbucket.org/") {
		return strings.Replace(url, "https://bitbucket.org/", "git@bitbucket.org:", 1)
	}
	return url
}

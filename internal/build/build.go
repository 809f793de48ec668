// Package build holds the version information set at link time with
// -ldflags "-X github.com/ItsNotGoodName/x-stackwm/internal/build.version=v1.0.0".
package build

import "time"

var (
	commit  = ""
	date    = ""
	version = "dev"
	repoURL = ""
)

func init() {
	Current = newBuild(commit, date, version, repoURL)
}

var Current Build

type Build struct {
	Commit     string    `json:"commit,omitempty"`
	Version    string    `json:"version,omitempty"`
	Date       time.Time `json:"date,omitempty"`
	RepoURL    string    `json:"repo_url,omitempty"`
	CommitURL  string    `json:"commit_url,omitempty"`
	ReleaseURL string    `json:"release_url,omitempty"`
}

func newBuild(commit, date, version, repoURL string) Build {
	parsed, _ := time.Parse(time.RFC3339, date)

	b := Build{
		Commit:  commit,
		Version: version,
		Date:    parsed,
		RepoURL: repoURL,
	}
	if repoURL != "" {
		if commit != "" {
			b.CommitURL = repoURL + "/tree/" + commit
		}
		b.ReleaseURL = repoURL + "/releases/tag/" + version
	}
	return b
}

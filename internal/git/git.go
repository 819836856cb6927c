package git

import (
	"fmt"
	"os/exec"
	"strings"
)

// RepoRoot returns the root directory of the git repository containing dir.
func RepoRoot(dir string) (string, error) {
	out, err := exec.Command("git", "-C", dir, "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", fmt.Errorf("not a git repository: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// RemoteURL returns the URL of the named remote in the repository at dir,
// normalized to host/owner/name.
func RemoteURL(dir, remote string) (string, error) {
	root, err := RepoRoot(dir)
	if err != nil {
		return "", err
	}
	out, err := exec.Command("git", "-C", root, "remote", "get-url", remote).CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("reading remote %s: %s: %w", remote, strings.TrimSpace(string(out)), err)
	}
	return NormalizeRemote(strings.TrimSpace(string(out))), nil
}

// NormalizeRemote rewrites SSH and HTTPS remotes as host/owner/name, so
// "git@github.com:acme/api.git" and "https://github.com/acme/api" both
// become "github.com/acme/api".
func NormalizeRemote(url string) string {
	url = strings.TrimSpace(url)
	for _, prefix := range []string{"https://", "http://", "ssh://", "git://"} {
		url = strings.TrimPrefix(url, prefix)
	}
	if at := strings.Index(url, "@"); at >= 0 {
		url = url[at+1:]
	}
	if host, path, ok := strings.Cut(url, ":"); ok && !strings.Contains(host, "/") {
		url = host + "/" + path
	}
	url = strings.TrimSuffix(url, "/")
	return strings.TrimSuffix(url, ".git")
}

// ResolveCommit returns the abbreviated hash of the commit ref points to.
func ResolveCommit(dir, ref string) (string, error) {
	out, err := exec.Command("git", "-C", dir, "rev-parse", "--verify", "--short=12", ref+"^{commit}").CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("resolving %s: %s: %w", ref, strings.TrimSpace(string(out)), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// ResolveCommits resolves each ref in order and stops at the first failure.
func ResolveCommits(dir string, refs []string) ([]string, error) {
	hashes := make([]string, 0, len(refs))
	for _, ref := range refs {
		h, err := ResolveCommit(dir, ref)
		if err != nil {
			return nil, err
		}
		hashes = append(hashes, h)
	}
	return hashes, nil
}

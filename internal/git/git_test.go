package git

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRemote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"git@github.com:acme/api.git", "github.com/acme/api"},
		{"https://github.com/acme/api", "github.com/acme/api"},
		{"https://github.com/acme/api.git/", "github.com/acme/api"},
		{"ssh://git@gitlab.com/group/sub/repo.git", "gitlab.com/group/sub/repo"},
		{"https://user@bitbucket.org/team/repo.git", "bitbucket.org/team/repo"},
		{"github.com/acme/api", "github.com/acme/api"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeRemote(tt.in), tt.in)
	}
}

// initRepo creates a repository with one commit and an origin remote.
func initRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	run := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com")
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}
	run("init", "-q")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("hi\n"), 0o644))
	run("add", "README")
	run("commit", "-q", "-m", "initial")
	run("remote", "add", "origin", "git@github.com:acme/api.git")
	return dir
}

func TestRepoCommands(t *testing.T) {
	dir := initRepo(t)

	root, err := RepoRoot(dir)
	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	url, err := RemoteURL(dir, "origin")
	require.NoError(t, err)
	assert.Equal(t, "github.com/acme/api", url)

	_, err = RemoteURL(dir, "upstream")
	assert.Error(t, err)

	hashes, err := ResolveCommits(dir, []string{"HEAD"})
	require.NoError(t, err)
	require.Len(t, hashes, 1)
	assert.Regexp(t, `^[0-9a-f]{12}$`, hashes[0])

	_, err = ResolveCommits(dir, []string{"HEAD", "no-such-ref"})
	assert.Error(t, err)
}

func TestRepoRootOutsideRepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	_, err := RepoRoot(t.TempDir())
	assert.Error(t, err)
}

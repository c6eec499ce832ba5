package metrics

import (
	"context"
	"errors"
	"strings"

	"github.com/mkoster/presage/internal/vcs"
	"github.com/mkoster/presage/pkg/models"
)

// ErrNoParent is returned when the HEAD commit has no parent to diff
// against (a repository with a single commit).
var ErrNoParent = errors.New("head commit has no parent to diff against")

// GitProvider derives change-set metrics from the HEAD commit of a git
// repository: files touched, added and deleted lines, and the changed
// file paths used for critical-path matching.
type GitProvider struct {
	path   string
	opener vcs.Opener
}

// GitOption is a functional option for configuring GitProvider.
type GitOption func(*GitProvider)

// WithOpener sets the VCS opener (useful for testing).
func WithOpener(opener vcs.Opener) GitOption {
	return func(p *GitProvider) {
		p.opener = opener
	}
}

// NewGitProvider creates a provider reading from the repository at path.
func NewGitProvider(path string, opts ...GitOption) *GitProvider {
	p := &GitProvider{
		path:   path,
		opener: vcs.DefaultOpener(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Collect diffs HEAD against its first parent and sums the result.
func (p *GitProvider) Collect(ctx context.Context) (models.ChangeMetrics, error) {
	repo, err := p.opener.PlainOpenWithDetect(p.path)
	if err != nil {
		return models.ChangeMetrics{}, err
	}

	head, err := repo.Head()
	if err != nil {
		return models.ChangeMetrics{}, err
	}

	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return models.ChangeMetrics{}, err
	}

	select {
	case <-ctx.Done():
		return models.ChangeMetrics{}, ctx.Err()
	default:
	}

	return FromCommit(commit)
}

// FromCommit extracts change-set metrics from a single commit by
// diffing it against its first parent.
func FromCommit(commit vcs.Commit) (models.ChangeMetrics, error) {
	if commit.NumParents() == 0 {
		return models.ChangeMetrics{}, ErrNoParent
	}

	parent, err := commit.Parent(0)
	if err != nil {
		return models.ChangeMetrics{}, err
	}
	parentTree, err := parent.Tree()
	if err != nil {
		return models.ChangeMetrics{}, err
	}
	commitTree, err := commit.Tree()
	if err != nil {
		return models.ChangeMetrics{}, err
	}

	changes, err := parentTree.Diff(commitTree)
	if err != nil {
		return models.ChangeMetrics{}, err
	}

	var additions, deletions int
	paths := make([]string, 0, len(changes))

	for _, change := range changes {
		path := change.ToName()
		if path == "" {
			path = change.FromName() // deleted file
		}
		paths = append(paths, path)

		patch, err := change.Patch()
		if err != nil {
			continue
		}
		for _, filePatch := range patch.FilePatches() {
			for _, chunk := range filePatch.Chunks() {
				lines := strings.Count(chunk.Content(), "\n")
				switch chunk.Type() {
				case vcs.ChunkAdd:
					additions += lines
				case vcs.ChunkDelete:
					deletions += lines
				}
			}
		}
	}

	return models.NewChangeMetrics(len(paths), additions, deletions, paths), nil
}

// Package ignore answers whether a path inside a repository should be
// invisible to the filesystem watcher. It combines a fast set of well-known
// directory names with hierarchical .gitignore matching built on go-git's
// glob implementation.
package ignore

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// wellKnownDirs are skipped without consulting any .gitignore file.
var wellKnownDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	".idea":        true,
	".vscode":      true,
	"node_modules": true,
	"__pycache__":  true,
	".cache":       true,
}

// Matcher checks paths against the repository's .gitignore hierarchy.
// It is used from a single goroutine at a time.
type Matcher struct {
	root     string
	matchers map[string]gitignore.Matcher // parent dir -> combined matcher
	patterns map[string][]gitignore.Pattern
}

// NewMatcher creates a Matcher rooted at the repository worktree.
func NewMatcher(root string) *Matcher {
	return &Matcher{
		root:     root,
		matchers: make(map[string]gitignore.Matcher),
		patterns: make(map[string][]gitignore.Pattern),
	}
}

// Ignored reports whether path should be hidden from the watcher. isDir must
// be true for directories so directory-only patterns ("build/") apply.
func (m *Matcher) Ignored(path string, isDir bool) bool {
	if isDir && wellKnownDirs[filepath.Base(path)] {
		return true
	}

	if path == m.root {
		return false
	}

	rel, err := filepath.Rel(m.root, path)
	if err != nil {
		rel = path
	}

	components := splitPath(rel)
	if len(components) == 0 {
		return false
	}

	return m.matcherFor(filepath.Dir(path)).Match(components, isDir)
}

// matcherFor returns a matcher combining every .gitignore from the root down
// to dir, cached per directory.
func (m *Matcher) matcherFor(dir string) gitignore.Matcher {
	if cached, ok := m.matchers[dir]; ok {
		return cached
	}

	var all []gitignore.Pattern

	current := m.root
	all = append(all, m.patternsIn(current)...)

	if rel, err := filepath.Rel(m.root, dir); err == nil && rel != "." {
		for _, part := range splitPath(rel) {
			current = filepath.Join(current, part)
			all = append(all, m.patternsIn(current)...)
		}
	}

	matcher := gitignore.NewMatcher(all)
	m.matchers[dir] = matcher

	return matcher
}

// patternsIn parses and caches the .gitignore file of one directory.
func (m *Matcher) patternsIn(dir string) []gitignore.Pattern {
	if cached, ok := m.patterns[dir]; ok {
		return cached
	}

	var domain []string
	if rel, err := filepath.Rel(m.root, dir); err == nil && rel != "." {
		domain = splitPath(rel)
	}

	var patterns []gitignore.Pattern
	if content, err := os.ReadFile(filepath.Join(dir, ".gitignore")); err == nil {
		for _, line := range strings.Split(string(content), "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			patterns = append(patterns, gitignore.ParsePattern(line, domain))
		}
	}

	m.patterns[dir] = patterns

	return patterns
}

func splitPath(path string) []string {
	path = filepath.ToSlash(path)
	if path == "" || path == "." {
		return nil
	}
	return strings.Split(path, "/")
}

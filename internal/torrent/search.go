package torrent

import (
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
)

// Search joins directory scans against a size index of descriptors. It is
// read only after construction and can serve any number of scans.
type Search struct {
	index   Index
	opts    SearchOptions
	display *Display
}

func NewSearch(index Index, opts SearchOptions, display *Display) *Search {
	return &Search{index: index, opts: opts, display: display}
}

// Matches lazily yields a Match for every file under root whose size and
// piece hashes verify against an indexed descriptor. Files whose size is
// unknown to the index are dismissed without ever being opened.
func (s *Search) Matches(root string) iter.Seq[Match] {
	return func(yield func(Match) bool) {
		for cand := range s.walk(root) {
			descriptors := s.index[cand.size]
			if len(descriptors) == 0 {
				continue
			}
			match, ok := s.matchCandidate(cand, descriptors)
			if !ok {
				continue
			}
			if !yield(match) {
				return
			}
		}
	}
}

// openFile lets tests observe which candidates get opened.
var openFile = os.Open

// matchCandidate tries every descriptor sharing the candidate's size; the
// first one that verifies wins. Read failures are reported and treated as
// non-matches.
func (s *Search) matchCandidate(cand candidate, descriptors []*Descriptor) (Match, bool) {
	f, err := openFile(cand.path)
	if err != nil {
		s.display.ShowWarning(fmt.Sprintf("cannot open %s: %v", cand.path, err))
		return Match{}, false
	}
	defer f.Close()

	for _, d := range descriptors {
		ok, err := d.Verify(f, s.opts.Threshold)
		if err != nil {
			s.display.ShowWarning(fmt.Sprintf("error verifying %s: %v", cand.path, err))
			continue
		}
		if ok {
			return Match{IsPath: cand.path, WantPath: d.Path}, true
		}
	}

	return Match{}, false
}

// walk yields every regular file under root together with its size. root may
// also name a single file. Problems with individual entries are reported and
// the entry skipped; they never terminate the scan.
func (s *Search) walk(root string) iter.Seq[candidate] {
	return func(yield func(candidate) bool) {
		info, err := os.Stat(root)
		if err != nil {
			s.display.ShowWarning(fmt.Sprintf("cannot stat %s: %v", root, err))
			return
		}

		if !info.IsDir() {
			if info.Mode().IsRegular() && !s.ignored(root) {
				yield(candidate{path: root, size: info.Size()})
			}
			return
		}

		visited := make(map[string]struct{})
		if resolved, err := filepath.EvalSymlinks(root); err == nil {
			visited[resolved] = struct{}{}
		}
		s.walkDir(root, visited, yield)
	}
}

// walkDir recurses through dir. Symbolic links are only followed when the
// search is configured for it; directories reached through a link are
// tracked by resolved path so link cycles terminate. Returns false once the
// consumer stops taking candidates.
func (s *Search) walkDir(dir string, visited map[string]struct{}, yield func(candidate) bool) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		s.display.ShowWarning(fmt.Sprintf("cannot read directory %s: %v", dir, err))
		return true
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		switch {
		case entry.Type()&fs.ModeSymlink != 0:
			if !s.opts.FollowSymlinks {
				continue
			}
			target, err := os.Stat(path)
			if err != nil {
				s.display.ShowWarning(fmt.Sprintf("cannot resolve symlink %s: %v", path, err))
				continue
			}
			if target.IsDir() {
				if !s.enterDir(path, visited) {
					continue
				}
				if !s.walkDir(path, visited, yield) {
					return false
				}
				continue
			}
			if !target.Mode().IsRegular() {
				continue
			}
			if s.ignored(path) {
				continue
			}
			if !yield(candidate{path: path, size: target.Size()}) {
				return false
			}

		case entry.IsDir():
			if !s.walkDir(path, visited, yield) {
				return false
			}

		case entry.Type().IsRegular():
			if s.ignored(path) {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				s.display.ShowWarning(fmt.Sprintf("cannot stat %s: %v", path, err))
				continue
			}
			if !yield(candidate{path: path, size: info.Size()}) {
				return false
			}
		}
	}

	return true
}

// enterDir records a symlinked directory before descending into it. A
// directory whose resolved path was already seen closes a cycle and is
// skipped.
func (s *Search) enterDir(path string, visited map[string]struct{}) bool {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		s.display.ShowWarning(fmt.Sprintf("cannot resolve symlink %s: %v", path, err))
		return false
	}
	if _, seen := visited[resolved]; seen {
		s.display.ShowWarning(fmt.Sprintf("skipping %s: already visited", path))
		return false
	}
	visited[resolved] = struct{}{}
	return true
}

func (s *Search) ignored(path string) bool {
	ignore, err := shouldIgnoreFile(path, s.opts.ExcludePatterns, s.opts.IncludePatterns)
	if err != nil {
		s.display.ShowWarning(err.Error())
		return false
	}
	return ignore
}

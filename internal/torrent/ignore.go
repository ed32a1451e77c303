package torrent

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// file patterns to ignore while scanning (case insensitive) - These are always ignored.
var ignoredPatterns = []string{
	".torrent",
	".ds_store",
	"thumbs.db",
	"desktop.ini",
	"zone.identifier", // https://superuser.com/questions/1692240/auto-generated-zone-identity-files-can-should-i-delete
}

// directories to ignore while scanning (case insensitive) - These are always ignored.
var ignoredDirNames = []string{
	"@eadir",
}

// shouldIgnoreFile checks if a file should be ignored based on predefined patterns,
// user-defined include patterns, and user-defined exclude patterns (glob matching).
// Logic:
// 1. Check built-in ignored patterns (always ignored).
// 2. If include patterns are provided:
//   - Check if the file matches any include pattern. If yes, KEEP the file (return false).
//   - If it does not match any include pattern, IGNORE the file (return true).
//
// 3. If NO include patterns are provided:
//   - Check if the file matches any exclude pattern. If yes, IGNORE the file (return true).
//
// 4. If none of the above conditions cause the file to be ignored, KEEP the file (return false).
func shouldIgnoreFile(path string, excludePatterns []string, includePatterns []string) (bool, error) {
	if shouldIgnoreDir(path) {
		return true, nil
	}

	// 1. Check built-in patterns (always ignored)
	lowerPath := strings.ToLower(path)
	for _, pattern := range ignoredPatterns {
		if strings.HasSuffix(lowerPath, pattern) {
			return true, nil
		}
	}

	// 2. Check include patterns if provided
	if len(includePatterns) > 0 {
		for _, patternGroup := range includePatterns {
			for _, pattern := range strings.Split(patternGroup, ",") {
				pattern = strings.TrimSpace(pattern)
				if pattern == "" {
					continue
				}
				match, err := matchPattern(pattern, path)
				if err != nil {
					return false, fmt.Errorf("invalid include pattern %q: %w", pattern, err)
				}
				if match {
					return false, nil // Keep the file because it matches an include pattern
				}
			}
		}
		return true, nil // Ignore the file because include patterns were given, but none matched
	}

	// 3. If NO include patterns were provided, check exclude patterns
	for _, patternGroup := range excludePatterns {
		for _, pattern := range strings.Split(patternGroup, ",") {
			pattern = strings.TrimSpace(pattern)
			if pattern == "" {
				continue
			}
			match, err := matchPattern(pattern, path)
			if err != nil {
				return false, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
			}
			if match {
				return true, nil // Ignore if it matches an exclude pattern (and no include patterns were specified)
			}
		}
	}

	// 4. Keep the file if no ignore conditions were met
	return false, nil
}

// matchPattern matches a single glob against a path, case insensitively.
// Patterns containing a slash (or **) are matched against the whole
// slash-separated path, plain patterns only against the base name.
func matchPattern(pattern, path string) (bool, error) {
	pattern = strings.ToLower(pattern)
	if strings.Contains(pattern, "/") || strings.Contains(pattern, "**") {
		return doublestar.Match(pattern, strings.ToLower(filepath.ToSlash(path)))
	}
	return doublestar.Match(pattern, strings.ToLower(filepath.Base(path)))
}

// ValidatePatterns reports the first malformed glob among the given pattern
// groups. Groups are comma separated, like the flags that carry them.
func ValidatePatterns(patternGroups []string) error {
	for _, group := range patternGroups {
		for _, pattern := range strings.Split(group, ",") {
			pattern = strings.TrimSpace(pattern)
			if pattern == "" {
				continue
			}
			if !doublestar.ValidatePattern(pattern) {
				return fmt.Errorf("invalid glob pattern %q", pattern)
			}
		}
	}
	return nil
}

// shouldIgnoreDir checks if any directory segment in the path should be ignored.
func shouldIgnoreDir(path string) bool {
	lowerPath := strings.ToLower(path)
	segments := strings.FieldsFunc(lowerPath, func(r rune) bool {
		return r == '/' || r == '\\'
	})

	for _, segment := range segments {
		if slices.Contains(ignoredDirNames, segment) {
			return true
		}
	}

	return false
}

// Package include implements the dsl's `!include` resolver (spec.md §4.5):
// resolving a filesystem path (a single file or a directory, parsed
// recursively in stable lexicographic order) or an https:// URL into the
// source text the parser should splice in next, plus include-cycle
// detection by canonical path equality.
//
// The directory walk is adapted directly from the teacher's
// internal/hcl_adapter/loader.go findAllHCLFiles (the same
// os.Stat-then-filepath.Walk shape, generalized from a hard-coded ".hcl"
// filter to any regular file, since a dsl include target has no fixed
// extension convention). The HTTPS fetch path is new: the teacher never
// reads configuration over the network, only over loopback HTTP
// (modules/http_client), so it is grounded on that package's plain
// *http.Client usage rather than on a higher-level HTTP client.
package include

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// IsURL reports whether target is an https:// include target. Plain http://
// is deliberately excluded: spec.md §4.5/§6 only ever allows https.
func IsURL(target string) bool {
	return len(target) >= len("https://") && target[:len("https://")] == "https://"
}

// ResolveFiles turns a filesystem include target into an ordered list of
// file paths to parse: the path itself if it names a file, or every regular
// file beneath it in stable lexicographic order if it names a directory.
func ResolveFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("error accessing path %s: %w", root, err)
	}

	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string
	err = filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// Package texscan extracts citation keys from LaTeX documents.
package texscan

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"citefetch/internal/provider"
)

// citationRegex matches the recognized citation commands and captures the
// brace-delimited, comma-separated key list. Longest command names come
// first so the alternation cannot stop at a shorter prefix. An unbalanced
// brace simply fails to match; that occurrence yields no keys.
var citationRegex = regexp.MustCompile(`(?:fullciteown|autocite|textcite|citep|citet|cite)\{([^}]+)\}`)

// Result holds the classified citation keys found in a document corpus.
type Result struct {
	// ByProvider maps provider name to the set of cited keys carrying
	// that provider's prefix.
	ByProvider map[string]map[string]bool
	// Unused holds keys matching no provider prefix. They are tracked
	// for visibility but never fetched.
	Unused map[string]bool
	// Files lists the scanned document paths in walk order.
	Files []string
}

// NewResult returns an empty Result with all provider buckets allocated.
func NewResult() *Result {
	r := &Result{
		ByProvider: make(map[string]map[string]bool),
		Unused:     make(map[string]bool),
	}
	for _, p := range provider.All {
		r.ByProvider[p.Name] = make(map[string]bool)
	}
	return r
}

// addKey classifies one trimmed key into its bucket.
func (r *Result) addKey(key string) {
	if p, ok := provider.Classify(key); ok {
		r.ByProvider[p.Name][key] = true
		return
	}
	r.Unused[key] = true
}

// ScanLine extracts and classifies every citation key on one line of
// document text. A line may contain several citation commands, and each
// command may cite several comma-separated keys.
func (r *Result) ScanLine(line string) {
	for _, m := range citationRegex.FindAllStringSubmatch(line, -1) {
		for _, key := range strings.Split(m[1], ",") {
			r.addKey(strings.TrimSpace(key))
		}
	}
}

// scanFile scans one document line by line.
func (r *Result) scanFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)
	for scanner.Scan() {
		r.ScanLine(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}

// ScanDir walks root recursively and scans every .tex file not named in
// the ignore set. Ignore matches on the file's base name, as the original
// exclusion list did.
func ScanDir(root string, ignore map[string]bool) (*Result, error) {
	result := NewResult()

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if filepath.Ext(name) != ".tex" || ignore[name] {
			return nil
		}
		result.Files = append(result.Files, path)
		return result.scanFile(path)
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	return result, nil
}

// SortedKeys returns the keys of a set in sorted order, for deterministic
// output and iteration.
func SortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

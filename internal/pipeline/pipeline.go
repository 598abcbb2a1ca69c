// Package pipeline sequences the citefetch run: read the local BibTeX
// files, scan the LaTeX documents, diff cited keys against known keys,
// fetch the missing records, and merge them into the local files.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"citefetch/internal/bib"
	"citefetch/internal/fetch"
	"citefetch/internal/provider"
	"citefetch/internal/texscan"
)

// Options configures a run. All state lives here or in State; there are
// no package-level variables.
type Options struct {
	// TexDir is the root of the LaTeX document tree.
	TexDir string
	// Ignore lists document base names to skip.
	Ignore map[string]bool
	// Files maps provider name to the local BibTeX file path.
	Files map[string]string
	// Providers defaults to provider.All; tests substitute instances
	// whose URL templates point at a local server.
	Providers []provider.Provider
	// Client performs the HTTP fetches. Required unless only Scan and
	// Diff phases run.
	Client *fetch.Client
	// Out receives progress output. Defaults to io.Discard.
	Out io.Writer
}

// State carries the key sets produced by a run.
type State struct {
	// Known pools entry keys from all local files into one set. A key
	// found in any file counts as known for every provider.
	Known map[string]bool
	// Scan holds the cited keys per provider plus the unused bucket.
	Scan *texscan.Result
	// Fetched tracks keys appended during this run, per provider.
	Fetched map[string]map[string]bool
}

// Pipeline runs the phases in order against shared state.
type Pipeline struct {
	opts Options
}

// New creates a pipeline, filling in option defaults.
func New(opts Options) *Pipeline {
	if opts.Providers == nil {
		opts.Providers = provider.All
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	return &Pipeline{opts: opts}
}

func (p *Pipeline) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.opts.Out, format, args...)
}

// file returns the local BibTeX path for a provider, falling back to the
// provider's default file name.
func (p *Pipeline) file(prov provider.Provider) string {
	if path, ok := p.opts.Files[prov.Name]; ok && path != "" {
		return path
	}
	return prov.DefaultFile
}

// ReadKnown reads every provider file and pools the entry keys into one
// known-key set. Missing files contribute nothing and are reported
// informationally.
func (p *Pipeline) ReadKnown() (map[string]bool, error) {
	known := make(map[string]bool)

	for _, prov := range p.opts.Providers {
		path := p.file(prov)
		if _, err := os.Stat(path); err != nil {
			p.printf("\nBibTeX file %s not found, will try to create it.\n", path)
			continue
		}
		p.printf("\nReading existing BibTeX file %s\n", path)
		keys, err := bib.ReadKeys(path)
		if err != nil {
			return nil, err
		}
		for k := range keys {
			known[k] = true
		}
	}

	p.printf("\nThe following keys have been found in your BibTeX files:\n")
	for _, k := range texscan.SortedKeys(known) {
		p.printf("%s\n", k)
	}

	return known, nil
}

// ScanDocuments walks the document tree and extracts classified citation
// keys.
func (p *Pipeline) ScanDocuments() (*texscan.Result, error) {
	p.printf("\nReading your LaTeX documents:\n")
	result, err := texscan.ScanDir(p.opts.TexDir, p.opts.Ignore)
	if err != nil {
		return nil, err
	}
	for _, f := range result.Files {
		p.printf("%s\n", f)
	}

	for _, prov := range p.opts.Providers {
		p.reportKeys(prov.Name, result.ByProvider[prov.Name])
	}
	p.reportKeys("unused", result.Unused)

	return result, nil
}

func (p *Pipeline) reportKeys(name string, keys map[string]bool) {
	p.printf("\nThe following %s keys have been found in your LaTeX files:\n", name)
	for _, k := range texscan.SortedKeys(keys) {
		p.printf("%s\n", k)
	}
}

// Missing returns cited-minus-known in sorted order.
func Missing(cited, known map[string]bool) []string {
	var missing []string
	for k := range cited {
		if !known[k] {
			missing = append(missing, k)
		}
	}
	sort.Strings(missing)
	return missing
}

// FetchMissing fetches each missing key for one provider and merges the
// returned records into the provider's file. A failed fetch is logged and
// counted; the remaining keys still run, and records already appended
// stay intact. Returns the number of failed keys.
func (p *Pipeline) FetchMissing(ctx context.Context, prov provider.Provider, missing []string, known, fetched map[string]bool) (int, error) {
	path := p.file(prov)

	if len(missing) == 0 {
		if _, err := os.Stat(path); err != nil {
			p.printf("\nYou do not have a %s BibTeX file, nothing needs to be fetched. :-)\n", prov.Name)
		} else {
			p.printf("\nYour %s BibTeX file is up to date, nothing needs to be fetched. :-)\n", prov.Name)
		}
		return 0, nil
	}

	p.printf("\nFetching BibTeX records for missing keys from %s:\n", prov.Name)

	failed := 0
	for _, key := range missing {
		p.printf("%s\n", key)

		body, err := p.opts.Client.Get(ctx, prov.URL(key))
		if err != nil {
			p.printf("(fetching %s failed: %v)\n", key, err)
			failed++
			continue
		}

		err = bib.AppendRecords(path, body, known, fetched, func(skipped string) {
			p.printf("(not adding %s to %s BibTeX file, it is already there.)\n", skipped, prov.Name)
		})
		if err != nil {
			return failed, err
		}
	}

	return failed, nil
}

// Run executes the full pipeline and returns the resulting state. The
// returned error is non-nil when any key failed to fetch, after all
// providers have run.
func (p *Pipeline) Run(ctx context.Context) (*State, error) {
	state := &State{Fetched: make(map[string]map[string]bool)}

	var err error
	if state.Known, err = p.ReadKnown(); err != nil {
		return nil, err
	}
	if state.Scan, err = p.ScanDocuments(); err != nil {
		return nil, err
	}

	failed := 0
	for _, prov := range p.opts.Providers {
		missing := Missing(state.Scan.ByProvider[prov.Name], state.Known)
		fetched := make(map[string]bool)
		state.Fetched[prov.Name] = fetched

		n, err := p.FetchMissing(ctx, prov, missing, state.Known, fetched)
		failed += n
		if err != nil {
			return state, err
		}
	}

	p.printf("\nAll done. :-)\n")

	if failed > 0 {
		return state, fmt.Errorf("%d record fetch(es) failed", failed)
	}
	return state, nil
}

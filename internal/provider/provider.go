// Package provider defines the four bibliographic sources citefetch can
// fetch records from and classifies citation keys among them.
package provider

import (
	"fmt"
	"strings"
)

// Provider describes one external bibliographic source. The four sources
// share one code path; only these values differ between them.
type Provider struct {
	// Name is the human-readable provider name used in progress output.
	Name string
	// Prefix is the literal citation-key prefix, including the colon.
	Prefix string
	// DefaultFile is the default local BibTeX file for this provider.
	DefaultFile string
	// URLTemplate builds the record URL; it contains exactly one %s,
	// replaced with the key's suffix (the key minus its prefix).
	URLTemplate string
}

// The four fixed providers, in fetch order.
var (
	Cogprints = Provider{
		Name:        "Cogprints",
		Prefix:      "Cogprints:",
		DefaultFile: "cogprints.bib",
		URLTemplate: "https://web-archive.southampton.ac.uk/cogprints.org/%s.bib.html",
	}
	DBLP = Provider{
		Name:        "DBLP",
		Prefix:      "DBLP:",
		DefaultFile: "dblp.bib",
		URLTemplate: "https://dblp.org/rec/%s.bib",
	}
	Microsoft = Provider{
		Name:        "Microsoft",
		Prefix:      "Microsoft:",
		DefaultFile: "microsoft.bib",
		URLTemplate: "https://www.microsoft.com/en-us/research/publication/%s/bibtex/",
	}
	Springer = Provider{
		Name:        "Springer",
		Prefix:      "Springer:",
		DefaultFile: "springer.bib",
		URLTemplate: "https://citation-needed.springer.com/v2/references/10.1007/%s",
	}
)

// All lists the providers in the order they are scanned and fetched.
var All = []Provider{Cogprints, DBLP, Microsoft, Springer}

// Suffix returns the key with the provider prefix stripped.
func (p Provider) Suffix(key string) string {
	return strings.TrimPrefix(key, p.Prefix)
}

// URL builds the record URL for a key carrying this provider's prefix.
func (p Provider) URL(key string) string {
	return fmt.Sprintf(p.URLTemplate, p.Suffix(key))
}

// Classify matches a citation key against the provider prefixes.
// First matching prefix wins; the prefixes are mutually exclusive so
// order only matters for symmetry with the original tool. Keys matching
// no prefix return ok=false and belong in the unused bucket.
func Classify(key string) (Provider, bool) {
	for _, p := range All {
		if strings.HasPrefix(key, p.Prefix) {
			return p, true
		}
	}
	return Provider{}, false
}

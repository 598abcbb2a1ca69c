// Package bib reads and appends BibTeX files at the level of detail this
// tool needs: entry keys and whole-record text blocks. It never parses
// fields.
package bib

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Regex patterns.
// entryHeaderRegex matches an entry header line: @type{key,
// The key-set scan is line oriented; a header split across lines is
// missed. That matches the original tool's behavior.
var entryHeaderRegex = regexp.MustCompile(`@\w+\{([^,]+),`)

// recordRegex matches one whole record in fetched text: from @type{ up to
// a closing brace that starts a line, without crossing into the next
// record's @.
var recordRegex = regexp.MustCompile(`(?s)@[a-zA-Z]+\{[^@]*\n\}`)

// recordKeyRegex extracts the key from a record's header.
var recordKeyRegex = regexp.MustCompile(`^@[a-zA-Z]+\{([^,]+),`)

// ReadKeys scans a BibTeX file line by line and returns the set of entry
// keys it contains. A missing file is not an error; it contributes an
// empty set (the file will be created on the first append).
func ReadKeys(path string) (map[string]bool, error) {
	keys := make(map[string]bool)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return keys, nil
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		for _, m := range entryHeaderRegex.FindAllStringSubmatch(scanner.Text(), -1) {
			keys[strings.TrimSpace(m[1])] = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return keys, nil
}

// SplitRecords splits fetched text into whole-record blocks. Text outside
// record boundaries (HTML wrappers, blank lines) is discarded.
func SplitRecords(text string) []string {
	return recordRegex.FindAllString(text, -1)
}

// RecordKey extracts the entry key from one record block. ok is false
// when the block does not start with a well-formed header.
func RecordKey(record string) (string, bool) {
	m := recordKeyRegex.FindStringSubmatch(record)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// AppendRecords appends the records found in fetched text to the file at
// path, skipping any record whose key is already in known (entries present
// in the local files at scan time) or fetched (keys appended earlier in
// this run). Appended keys are added to fetched, so a key appearing in
// several payloads is written once. The file is created if needed.
//
// skipped receives the key of each record that was not appended; it may
// be nil.
func AppendRecords(path, text string, known, fetched map[string]bool, skipped func(key string)) error {
	records := SplitRecords(text)
	if len(records) == 0 {
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("opening %s for append: %w", path, err)
	}
	defer f.Close()

	for _, record := range records {
		key, ok := RecordKey(record)
		if !ok {
			continue
		}
		if known[key] || fetched[key] {
			if skipped != nil {
				skipped(key)
			}
			continue
		}
		if _, err := f.WriteString(record + "\n\n"); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fetched[key] = true
	}

	return nil
}

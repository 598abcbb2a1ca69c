package bib

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const twoRecords = `@inproceedings{DBLP:conf/focs/Yao82a,
  author    = {Andrew Chi{-}Chih Yao},
  title     = {Protocols for Secure Computations},
  year      = {1982}
}

@article{DBLP:journals/cacm/Knuth74,
  author  = {Donald E. Knuth},
  title   = {Computer Programming as an Art},
  year    = {1974}
}
`

func TestReadKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dblp.bib")
	if err := os.WriteFile(path, []byte(twoRecords), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	keys, err := ReadKeys(path)
	if err != nil {
		t.Fatalf("ReadKeys: %v", err)
	}

	if len(keys) != 2 {
		t.Fatalf("ReadKeys() = %v, want 2 keys", keys)
	}
	for _, want := range []string{"DBLP:conf/focs/Yao82a", "DBLP:journals/cacm/Knuth74"} {
		if !keys[want] {
			t.Errorf("ReadKeys() missing %s", want)
		}
	}
}

func TestReadKeys_DuplicateHeadersCountOnce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dup.bib")
	content := "@article{DBLP:a,\n}\n@misc{DBLP:a,\n}\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	keys, err := ReadKeys(path)
	if err != nil {
		t.Fatalf("ReadKeys: %v", err)
	}
	if len(keys) != 1 || !keys["DBLP:a"] {
		t.Errorf("ReadKeys() = %v, want exactly {DBLP:a}", keys)
	}
}

func TestReadKeys_MissingFile(t *testing.T) {
	keys, err := ReadKeys(filepath.Join(t.TempDir(), "absent.bib"))
	if err != nil {
		t.Fatalf("ReadKeys on missing file: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("ReadKeys() on missing file = %v, want empty set", keys)
	}
}

func TestSplitRecords(t *testing.T) {
	records := SplitRecords(twoRecords)
	if len(records) != 2 {
		t.Fatalf("SplitRecords() found %d records, want 2", len(records))
	}
	if !strings.HasPrefix(records[0], "@inproceedings{DBLP:conf/focs/Yao82a,") {
		t.Errorf("first record = %q", records[0])
	}
	if !strings.HasSuffix(records[1], "\n}") {
		t.Errorf("record should end at the closing brace line, got %q", records[1])
	}
}

func TestSplitRecords_IgnoresSurroundingText(t *testing.T) {
	// Cogprints serves records wrapped in HTML.
	wrapped := "<html><pre>\n@misc{Cogprints:4081,\n  title = {T}\n}\n</pre></html>"
	records := SplitRecords(wrapped)
	if len(records) != 1 {
		t.Fatalf("SplitRecords() found %d records, want 1", len(records))
	}
	if got, _ := RecordKey(records[0]); got != "Cogprints:4081" {
		t.Errorf("RecordKey() = %q, want Cogprints:4081", got)
	}
}

func TestRecordKey(t *testing.T) {
	tests := []struct {
		name   string
		record string
		want   string
		wantOK bool
	}{
		{"plain", "@article{DBLP:a,\n  title={T}\n}", "DBLP:a", true},
		{"no header", "not a record", "", false},
		{"no comma", "@article{brokenheader}", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := RecordKey(tt.record)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("RecordKey(%q) = %q, %v; want %q, %v",
					tt.record, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestAppendRecords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dblp.bib")

	known := map[string]bool{"DBLP:journals/cacm/Knuth74": true}
	fetched := make(map[string]bool)
	var skipped []string

	err := AppendRecords(path, twoRecords, known, fetched, func(key string) {
		skipped = append(skipped, key)
	})
	if err != nil {
		t.Fatalf("AppendRecords: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading result: %v", err)
	}
	content := string(data)

	if !strings.Contains(content, "@inproceedings{DBLP:conf/focs/Yao82a,") {
		t.Errorf("unknown record should be appended, got:\n%s", content)
	}
	if strings.Contains(content, "DBLP:journals/cacm/Knuth74") {
		t.Errorf("known record should be skipped, got:\n%s", content)
	}
	if len(skipped) != 1 || skipped[0] != "DBLP:journals/cacm/Knuth74" {
		t.Errorf("skipped = %v, want the known key", skipped)
	}
	if !fetched["DBLP:conf/focs/Yao82a"] {
		t.Errorf("appended key should be tracked in fetched, got %v", fetched)
	}
}

func TestAppendRecords_Idempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dblp.bib")

	known := make(map[string]bool)
	fetched := make(map[string]bool)

	if err := AppendRecords(path, twoRecords, known, fetched, nil); err != nil {
		t.Fatalf("first AppendRecords: %v", err)
	}
	if err := AppendRecords(path, twoRecords, known, fetched, nil); err != nil {
		t.Fatalf("second AppendRecords: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading result: %v", err)
	}

	if got := strings.Count(string(data), "@inproceedings{DBLP:conf/focs/Yao82a,"); got != 1 {
		t.Errorf("record appears %d times after two merges, want 1", got)
	}
	if got := strings.Count(string(data), "@article{DBLP:journals/cacm/Knuth74,"); got != 1 {
		t.Errorf("record appears %d times after two merges, want 1", got)
	}
}

func TestAppendRecords_EmptyPayloadCreatesNoFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.bib")

	if err := AppendRecords(path, "no records here", nil, map[string]bool{}, nil); err != nil {
		t.Fatalf("AppendRecords: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file should not be created for a payload with no records")
	}
}

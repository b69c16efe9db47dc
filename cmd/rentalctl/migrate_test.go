package main

import (
	"strings"
	"testing"
)

func TestSplitSQL(t *testing.T) {
	script := `-- schema
CREATE TABLE a (
    id text PRIMARY KEY
);
CREATE INDEX a_idx ON a (id);
`
	statements := splitSQL(script)
	if len(statements) != 2 {
		t.Fatalf("expected 2 statements, got %d: %q", len(statements), statements)
	}
	if !strings.HasPrefix(statements[0], "CREATE TABLE a") {
		t.Fatalf("comment line should be dropped: %q", statements[0])
	}
}

func TestUpSectionStopsAtDown(t *testing.T) {
	content := "CREATE TABLE a (id text);\n-- +migrate Down\nDROP TABLE a;\n"
	if up := upSection(content); strings.Contains(up, "DROP") {
		t.Fatalf("down section leaked into up: %q", up)
	}
}

func TestRestoreRequiresInput(t *testing.T) {
	cmd := restoreCmd()
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected missing --in to fail")
	}
}

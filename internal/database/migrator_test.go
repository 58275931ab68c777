package database

import (
	"io/fs"
	"strings"
	"testing"
)

func TestMigrationsEmbedded(t *testing.T) {
	subtree, err := Migrations()
	if err != nil {
		t.Fatalf("Migrations: %v", err)
	}

	entries, err := fs.ReadDir(subtree, ".")
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected at least one embedded migration")
	}

	body, err := fs.ReadFile(subtree, entries[0].Name())
	if err != nil {
		t.Fatalf("read %s: %v", entries[0].Name(), err)
	}
	if !strings.Contains(string(body), "CREATE TABLE memories") {
		t.Fatalf("first migration does not create the memories table")
	}
	if !strings.Contains(string(body), "---- create above / drop below ----") {
		t.Fatalf("first migration has no down section")
	}
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mr-zlaam/googleMapScraper/loader"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"MAPSCRAPER_INPUT", "MAPSCRAPER_OUTPUT", "MAPSCRAPER_FAILED", "CHUNK_NUM",
		"MAPSCRAPER_MAX_CONCURRENT", "MAPSCRAPER_BATCH_SIZE", "MAPSCRAPER_URL_LIMIT",
		"MAPSCRAPER_LOG_LEVEL", "MAPSCRAPER_LOG_FORMAT",
	} {
		t.Setenv(k, "")
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"crawl"}, &stdout, &stderr); code != 2 {
		t.Errorf("exit = %d, want 2", code)
	}
	if !strings.Contains(stderr.String(), "unknown command") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestScrape_MalformedInputWritesNothing(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "links.json")
	if err := os.WriteFile(in, []byte(`{"url": "x"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out.csv")
	failed := filepath.Join(dir, "failed.csv")

	var stdout, stderr bytes.Buffer
	code := run([]string{"scrape", "-input", in, "-output", out, "-failed", failed}, &stdout, &stderr)

	if code != 1 {
		t.Fatalf("exit = %d, want 1", code)
	}
	for _, p := range []string{out, failed} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("%s should not exist", p)
		}
	}
	if !strings.Contains(stdout.String(), "INVALID_INPUT") {
		t.Errorf("log should name the input error, got %q", stdout.String())
	}
}

func TestScrape_InvalidConfig(t *testing.T) {
	clearEnv(t)
	var stdout, stderr bytes.Buffer

	code := run([]string{"-input", "in.json", "-output", "out.csv", "-batch-size", "0"}, &stdout, &stderr)

	if code != 1 {
		t.Fatalf("exit = %d, want 1", code)
	}
	if !strings.Contains(stdout.String(), "INVALID_CONFIG") {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestConvertThenSplit(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "export.csv")
	csvData := "name,place.url,other.url\n" +
		"A,https://maps/a,https://maps/b\n" +
		"B,https://maps/c,\n"
	if err := os.WriteFile(csvPath, []byte(csvData), 0o644); err != nil {
		t.Fatal(err)
	}
	links := filepath.Join(dir, "links.json")

	var stdout, stderr bytes.Buffer
	if code := run([]string{"convert", "-csv", csvPath, "-out", links}, &stdout, &stderr); code != 0 {
		t.Fatalf("convert exit = %d, stderr %q, stdout %q", code, stderr.String(), stdout.String())
	}

	chunks := filepath.Join(dir, "chunks")
	if code := run([]string{"split", "-input", links, "-size", "2", "-dir", chunks}, &stdout, &stderr); code != 0 {
		t.Fatalf("split exit = %d, stdout %q", code, stdout.String())
	}

	first, err := loader.Load(filepath.Join(chunks, loader.ChunkFileName(1)), 0)
	if err != nil {
		t.Fatal(err)
	}
	second, err := loader.Load(filepath.Join(chunks, loader.ChunkFileName(2)), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 2 || len(second) != 1 || second[0] != "https://maps/c" {
		t.Errorf("chunks = %v / %v", first, second)
	}
}

func TestSplit_BadRange(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	links := filepath.Join(dir, "links.json")
	if err := loader.WriteJSON(links, []string{"a", "b"}); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	if code := run([]string{"split", "-input", links, "-start", "3", "-dir", dir}, &stdout, &stderr); code != 1 {
		t.Errorf("exit = %d, want 1", code)
	}
}

package report

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteAll_WritesAllFourFiles(t *testing.T) {
	dir := t.TempDir()
	suite := buildSampleSuite()
	suite.Name = "my suite"

	if err := WriteAll(dir, suite); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	want := []string{
		"my_suite_report.txt",
		"my_suite_report.json",
		"TEST-my_suite.xml",
		"my_suite_report.html",
	}
	for _, name := range want {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s to exist: %v", name, err)
		}
	}

	for _, name := range want {
		if _, err := os.Stat(filepath.Join(dir, name+".tmp")); err == nil {
			t.Fatalf("temp file for %s should have been renamed away", name)
		}
	}
}

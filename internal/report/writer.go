package report

import (
	"os"
	"path/filepath"
	"regexp"
)

// nonAlnum matches every character that isn't alphanumeric, for the
// filename-sanitization rule of spec §6 ("Filenames replace any
// non-alphanumeric character with _").
var nonAlnum = regexp.MustCompile(`[^A-Za-z0-9]`)

// SanitizeFilename replaces every non-alphanumeric character in name with
// an underscore.
func SanitizeFilename(name string) string {
	return nonAlnum.ReplaceAllString(name, "_")
}

// WriteAll renders and atomically writes all four report outputs into dir:
// {suite}_report.txt, {suite}_report.json, TEST-{suite}.xml, and
// {suite}_report.html, per spec §6.
func WriteAll(dir string, s Suite) error {
	base := SanitizeFilename(s.Name)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	if err := writeAtomic(filepath.Join(dir, base+"_report.txt"), []byte(RenderText(s))); err != nil {
		return err
	}

	jsonBody, err := RenderJSON(s)
	if err != nil {
		return err
	}
	if err := writeAtomic(filepath.Join(dir, base+"_report.json"), jsonBody); err != nil {
		return err
	}

	junitBody, err := RenderJUnit(s)
	if err != nil {
		return err
	}
	if err := writeAtomic(filepath.Join(dir, "TEST-"+base+".xml"), junitBody); err != nil {
		return err
	}

	htmlBody, err := RenderHTML(s)
	if err != nil {
		return err
	}
	if err := writeAtomic(filepath.Join(dir, base+"_report.html"), htmlBody); err != nil {
		return err
	}

	return nil
}

// writeAtomic writes data to a temp file in the target directory then
// renames it into place, matching the teacher's WriteJSONAtomic idiom so a
// crash mid-write never leaves a half-written report file behind.
func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

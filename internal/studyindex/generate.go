package studyindex

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/clinops/trialpulse/internal/contracts"
)

var (
	studyNamePattern = regexp.MustCompile(`(?i)study\s*\d+`)
	whitespaceRun    = regexp.MustCompile(`\s+`)
	firstNumber      = regexp.MustCompile(`\d+`)
)

// Generate scans dir for study folders and lists the .xlsx exports of each.
// Entries are ordered by the study number in their name; folders without
// one sort first. Exports in the other decodable formats (csv, html, xls)
// are not picked up and need a hand-written index entry.
func Generate(dir string) ([]contracts.Study, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	studies := make([]contracts.Study, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		files, err := studyFiles(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}

		studies = append(studies, contracts.Study{
			ID:     StudyID(entry.Name()),
			Name:   StudyName(entry.Name()),
			Folder: entry.Name(),
			Files:  files,
		})
	}

	sort.SliceStable(studies, func(i, j int) bool {
		return studyNumber(studies[i].Name) < studyNumber(studies[j].Name)
	})
	return studies, nil
}

// WriteIndex generates the index for dir and writes it as indented JSON
func WriteIndex(dir, out string) ([]contracts.Study, error) {
	studies, err := Generate(dir)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(studies, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode study index: %w", err)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return nil, fmt.Errorf("write study index: %w", err)
	}
	return studies, nil
}

// StudyID lower-cases a folder name and replaces whitespace runs with "-"
func StudyID(folder string) string {
	return strings.ToLower(whitespaceRun.ReplaceAllString(folder, "-"))
}

// StudyName extracts "STUDY N" from a folder name, or returns the folder
func StudyName(folder string) string {
	match := studyNamePattern.FindString(folder)
	if match == "" {
		return folder
	}
	// only the first whitespace run is collapsed
	if loc := whitespaceRun.FindStringIndex(match); loc != nil {
		match = match[:loc[0]] + " " + match[loc[1]:]
	}
	return strings.ToUpper(match)
}

func studyFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	files := []string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".xlsx") {
			continue
		}
		files = append(files, name)
	}
	return files, nil
}

func studyNumber(name string) int {
	n, err := strconv.Atoi(firstNumber.FindString(name))
	if err != nil {
		return 0
	}
	return n
}

// Package projectinfo reads per-project metadata and the optional Markdown body
// stored next to it.
package projectinfo

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrNotFound is returned when no metadata file exists for a project.
	ErrNotFound = errors.New("projectinfo: not found")
	// ErrParse is matched by every *ParseError.
	ErrParse = errors.New("projectinfo: parse")
)

// CandidateFiles lists the metadata file names tried in order.
var CandidateFiles = []string{
	"projectData.json",
	"projectInfo.json",
	"project.json",
	"projectdata.json",
}

// Info is the metadata of a single project. Every field is optional.
type Info struct {
	Name        string   `json:"project_name"`
	Description string   `json:"project_description"`
	State       string   `json:"project_state"`
	Tools       []string `json:"project_tools"`
	Images      []string `json:"project_images"`
	Videos      []string `json:"project_videos"`
	// ContentPath is relative to the project directory.
	ContentPath string `json:"project_content"`
	Links       []Link `json:"project_links"`
}

// Link is an external reference shown in the links table.
type Link struct {
	Link        string `json:"link"`
	Description string `json:"description"`
}

// ParseError reports a metadata file that exists but cannot be decoded.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("projectinfo: parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrParse) match any ParseError.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// Dir returns the filesystem directory of the project at rel under baseDir.
func Dir(baseDir, rel string) string {
	rel = strings.TrimLeft(rel, "/")
	return filepath.Join(baseDir, filepath.FromSlash(rel))
}

// LoadInfo reads the first candidate metadata file present in the project
// directory. A missing directory or no candidate at all yields ErrNotFound.
func LoadInfo(baseDir, rel string) (Info, error) {
	dir := Dir(baseDir, rel)
	for _, name := range CandidateFiles {
		info, err := readInfo(filepath.Join(dir, name))
		if err == nil {
			return info, nil
		}
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return Info{}, err
	}
	return Info{}, fmt.Errorf("%w: %s", ErrNotFound, dir)
}

func readInfo(path string) (Info, error) {
	stat, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Info{}, ErrNotFound
		}
		return Info{}, fmt.Errorf("projectinfo: stat %s: %w", path, err)
	}
	if !stat.Mode().IsRegular() {
		return Info{}, ErrNotFound
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Info{}, fmt.Errorf("projectinfo: read %s: %w", path, err)
	}
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return Info{}, &ParseError{Path: path, Err: err}
	}
	return info, nil
}

// LoadMarkdown reads the Markdown body at contentPath relative to the project
// directory. A blank contentPath returns "" without touching the filesystem.
func LoadMarkdown(baseDir, rel, contentPath string) (string, error) {
	if strings.TrimSpace(contentPath) == "" {
		return "", nil
	}
	path := filepath.Join(Dir(baseDir, rel), filepath.FromSlash(contentPath))
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("projectinfo: read markdown: %w", err)
	}
	return string(data), nil
}

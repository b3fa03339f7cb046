package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the YAML layout. Durations are strings ("15s").
type fileConfig struct {
	Server struct {
		Addr           string `yaml:"addr"`
		ReadTimeout    string `yaml:"read_timeout"`
		WriteTimeout   string `yaml:"write_timeout"`
		IdleTimeout    string `yaml:"idle_timeout"`
		RequestTimeout string `yaml:"request_timeout"`
	} `yaml:"server"`
	Showcase struct {
		Prefix           string `yaml:"prefix"`
		TreeFile         string `yaml:"tree_file"`
		DataDir          string `yaml:"data_dir"`
		PageTemplate     string `yaml:"page_template"`
		SanitizeMarkdown *bool  `yaml:"sanitize_markdown"`
	} `yaml:"showcase"`
	Components struct {
		Prefix string   `yaml:"prefix"`
		Root   string   `yaml:"root"`
		Simple []string `yaml:"simple"`
	} `yaml:"components"`
	Static struct {
		Dir string `yaml:"dir"`
	} `yaml:"static"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// loadYAMLFile reads the YAML file and flattens it onto the env key space so it can
// sit at the bottom of the lookup chain.
func loadYAMLFile(path string, required bool) (map[string]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if required {
			return nil, fmt.Errorf("config: %s: %w", path, ErrConfigFileMissing)
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", path, err)
	}

	values := map[string]string{}
	set := func(key, value string) {
		if strings.TrimSpace(value) != "" {
			values[key] = value
		}
	}
	set("SHOWCASE_ADDR", fc.Server.Addr)
	set("SHOWCASE_READ_TIMEOUT", fc.Server.ReadTimeout)
	set("SHOWCASE_WRITE_TIMEOUT", fc.Server.WriteTimeout)
	set("SHOWCASE_IDLE_TIMEOUT", fc.Server.IdleTimeout)
	set("SHOWCASE_REQUEST_TIMEOUT", fc.Server.RequestTimeout)
	set("SHOWCASE_PROJECTS_PREFIX", fc.Showcase.Prefix)
	set("SHOWCASE_TREE_FILE", fc.Showcase.TreeFile)
	set("SHOWCASE_PROJECT_DATA_DIR", fc.Showcase.DataDir)
	set("SHOWCASE_PAGE_TEMPLATE", fc.Showcase.PageTemplate)
	if fc.Showcase.SanitizeMarkdown != nil {
		values["SHOWCASE_SANITIZE_MARKDOWN"] = fmt.Sprint(*fc.Showcase.SanitizeMarkdown)
	}
	set("SHOWCASE_COMPONENTS_PREFIX", fc.Components.Prefix)
	set("SHOWCASE_COMPONENTS_ROOT", fc.Components.Root)
	set("SHOWCASE_SIMPLE_COMPONENTS", strings.Join(fc.Components.Simple, ","))
	set("SHOWCASE_STATIC_DIR", fc.Static.Dir)
	set("LOG_LEVEL", fc.Log.Level)
	return values, nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	file, err := os.Open(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	values := make(map[string]string)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		values[key] = strings.Trim(strings.TrimSpace(value), "\"'")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", absPath, err)
	}
	return values, nil
}

package importer

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// RecipeFile is the top-level YAML structure of a recipe file. A file may
// define several recipes.
type RecipeFile struct {
	Recipes []RecipeImport `yaml:"recipes"`
}

// RecipeImport defines one recipe.
type RecipeImport struct {
	Name    string       `yaml:"name"`
	Variety string       `yaml:"variety"`
	Steps   []StepImport `yaml:"steps"`
}

// StepImport defines one grow phase. Steps are ordered by Order when set,
// otherwise by their position in the list.
type StepImport struct {
	Order       *int         `yaml:"order,omitempty"`
	Action      string       `yaml:"action"`
	Duration    int          `yaml:"duration"`
	Unit        string       `yaml:"unit,omitempty"`
	WeightGrams *float64     `yaml:"weight_grams,omitempty"`
	Water       *WaterImport `yaml:"water,omitempty"`
	Wetting     string       `yaml:"wetting,omitempty"`
	Notes       string       `yaml:"notes,omitempty"`
}

type WaterImport struct {
	Type        string `yaml:"type"`
	Method      string `yaml:"method,omitempty"`
	TimesPerDay int    `yaml:"times_per_day,omitempty"`
}

// ParseRecipeYAML decodes a recipe file payload. Unknown keys are rejected
// so that typos do not silently drop a field.
func ParseRecipeYAML(data []byte) (*RecipeFile, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("recipe file is empty")
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var file RecipeFile
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("parsing recipe file: %w", err)
	}
	return &file, nil
}

// LoadRecipeFile reads and parses a recipe YAML file.
func LoadRecipeFile(path string) (*RecipeFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	file, err := ParseRecipeYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return file, nil
}

// LoadRecipeDir parses every *.yaml and *.yml file in dir, in name order.
// A missing directory yields no files.
func LoadRecipeDir(dir string) ([]*RecipeFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading recipe dir %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	files := make([]*RecipeFile, 0, len(names))
	for _, name := range names {
		f, err := LoadRecipeFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

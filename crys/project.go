package crys

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// ProjectFileName is the project file looked up next to compiled sources.
const ProjectFileName = "crysjs.yml"

// Project is the parsed contents of crysjs.yml.
type Project struct {
	// Path is the absolute location the project was loaded from.
	Path string
	// RequirePath overrides the runtime module imported by compiled code.
	RequirePath string
	// Exports names extra functions the runtime module provides.
	Exports []string
	// Prelude lists scripts, relative to the project file, run before any
	// program in the interpreter.
	Prelude []string
}

type projectFile struct {
	RequirePath string   `yaml:"requirePath"`
	Exports     []string `yaml:"exports"`
	Prelude     []string `yaml:"prelude"`
}

// ProjectError aggregates validation failures.
type ProjectError struct {
	Issues []string
}

func (e *ProjectError) Error() string {
	var b strings.Builder
	b.WriteString("project validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

var exportName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// LoadProject parses and validates a project file.
func LoadProject(path string) (*Project, error) {
	if path == "" {
		return nil, fmt.Errorf("project: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("project: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("project: open %s: %w", absPath, err)
	}
	defer file.Close()

	proj, err := DecodeProject(file)
	if err != nil {
		return nil, fmt.Errorf("project: %s: %w", absPath, err)
	}
	proj.Path = absPath
	for i, p := range proj.Prelude {
		if !filepath.IsAbs(p) {
			proj.Prelude[i] = filepath.Join(filepath.Dir(absPath), p)
		}
	}
	return proj, nil
}

// DecodeProject reads a project from r. Unknown keys are rejected; an empty
// document gives the zero project.
func DecodeProject(r io.Reader) (*Project, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var raw projectFile
	if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse: %w", err)
	}

	proj := &Project{
		RequirePath: strings.TrimSpace(raw.RequirePath),
		Exports:     raw.Exports,
		Prelude:     raw.Prelude,
	}
	if err := proj.validate(); err != nil {
		return nil, err
	}
	return proj, nil
}

func (p *Project) validate() error {
	var errs ProjectError
	for i, name := range p.Exports {
		if !exportName.MatchString(name) {
			errs.Issues = append(errs.Issues, fmt.Sprintf("exports[%d] %q is not a valid function name", i, name))
		}
	}
	for i, path := range p.Prelude {
		if strings.TrimSpace(path) == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("prelude[%d] must be a non-empty path", i))
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// Library returns base extended with the project's exports.
func (p *Project) Library(base *Library) *Library {
	lib := base.Clone()
	if p != nil {
		lib.Declare(p.Exports...)
	}
	return lib
}

package prompt

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Status string

const (
	StatusActive     Status = "active"
	StatusDeprecated Status = "deprecated"
	StatusRetired    Status = "retired"
)

func parseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusActive, StatusDeprecated, StatusRetired:
		return Status(s), nil
	default:
		return "", fmt.Errorf("invalid status %q (want active, deprecated, or retired)", s)
	}
}

// Version is a strict MAJOR.MINOR.PATCH triple. Comparison is numeric per
// component, so 1.10.0 sorts above 1.9.0.
type Version struct {
	Major int
	Minor int
	Patch int
}

func ParseVersion(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("invalid version %q (want MAJOR.MINOR.PATCH)", s)
	}
	nums := make([]int, 3)
	for i, part := range parts {
		if part == "" {
			return Version{}, fmt.Errorf("invalid version %q (empty component)", s)
		}
		for _, c := range part {
			if c < '0' || c > '9' {
				return Version{}, fmt.Errorf("invalid version %q (non-numeric component %q)", s, part)
			}
		}
		if len(part) > 1 && part[0] == '0' {
			return Version{}, fmt.Errorf("invalid version %q (leading zero in %q)", s, part)
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return Version{}, fmt.Errorf("invalid version %q: %w", s, err)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

func (v Version) Compare(o Version) int {
	if v.Major != o.Major {
		return cmpInt(v.Major, o.Major)
	}
	if v.Minor != o.Minor {
		return cmpInt(v.Minor, o.Minor)
	}
	return cmpInt(v.Patch, o.Patch)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Definition is one immutable prompt template version loaded from disk.
// ContentHash is always recomputed from the on-disk content at load time; a
// hash asserted inside metadata is never trusted.
type Definition struct {
	Task        string
	Version     Version
	Status      Status
	System      string
	Template    string
	Variables   []string
	MaxTokens   int
	Temperature float32
	Metadata    map[string]interface{}
	ContentHash string
	Source      string
}

func (d *Definition) Key() string {
	return d.Task + "@" + d.Version.String()
}

type fileDefinition struct {
	Task        string                 `yaml:"task"`
	Version     string                 `yaml:"version"`
	Status      string                 `yaml:"status"`
	System      string                 `yaml:"system"`
	Template    string                 `yaml:"template"`
	Variables   []string               `yaml:"variables"`
	MaxTokens   *int                   `yaml:"max_tokens"`
	Temperature *float32               `yaml:"temperature"`
	Metadata    map[string]interface{} `yaml:"metadata"`
}

func parseFile(path string) (*Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var fd fileDefinition
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&fd); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty definition file")
		}
		return nil, err
	}

	if strings.TrimSpace(fd.Task) == "" {
		return nil, fmt.Errorf("missing required field %q", "task")
	}
	if strings.TrimSpace(fd.Version) == "" {
		return nil, fmt.Errorf("missing required field %q", "version")
	}
	version, err := ParseVersion(fd.Version)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(fd.Status) == "" {
		return nil, fmt.Errorf("missing required field %q", "status")
	}
	status, err := parseStatus(fd.Status)
	if err != nil {
		return nil, err
	}
	if fd.Template == "" {
		return nil, fmt.Errorf("missing required field %q", "template")
	}
	if fd.Variables == nil {
		return nil, fmt.Errorf("missing required field %q (use an empty list for templates without placeholders)", "variables")
	}
	seen := make(map[string]bool, len(fd.Variables))
	for _, name := range fd.Variables {
		if name == "" {
			return nil, fmt.Errorf("empty variable name in %q", "variables")
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate variable %q", name)
		}
		seen[name] = true
	}
	if fd.MaxTokens == nil {
		return nil, fmt.Errorf("missing required field %q", "max_tokens")
	}
	if *fd.MaxTokens <= 0 {
		return nil, fmt.Errorf("max_tokens must be positive, got %d", *fd.MaxTokens)
	}
	if fd.Temperature == nil {
		return nil, fmt.Errorf("missing required field %q", "temperature")
	}
	if *fd.Temperature < 0 || *fd.Temperature > 1 {
		return nil, fmt.Errorf("temperature must be in [0, 1], got %g", *fd.Temperature)
	}

	variables := make([]string, len(fd.Variables))
	copy(variables, fd.Variables)
	sort.Strings(variables)

	return &Definition{
		Task:        fd.Task,
		Version:     version,
		Status:      status,
		System:      fd.System,
		Template:    fd.Template,
		Variables:   variables,
		MaxTokens:   *fd.MaxTokens,
		Temperature: *fd.Temperature,
		Metadata:    fd.Metadata,
		ContentHash: computeHash(fd.System, fd.Template),
		Source:      path,
	}, nil
}

func computeHash(system, template string) string {
	h := sha256.New()
	_, _ = h.Write([]byte(system))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(template))
	return hex.EncodeToString(h.Sum(nil))
}

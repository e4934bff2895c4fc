package prompt

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// VerifyIntegrity recomputes the content hash over the definition's current
// template content and compares it to the hash captured at load time.
func VerifyIntegrity(def *Definition) bool {
	return computeHash(def.System, def.Template) == def.ContentHash
}

type FileReport struct {
	Path    string `json:"path"`
	Task    string `json:"task,omitempty"`
	Version string `json:"version,omitempty"`
	Status  Status `json:"status,omitempty"`
	Hash    string `json:"hash,omitempty"`
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
}

type TaskReport struct {
	Task      string `json:"task"`
	Versions  int    `json:"versions"`
	HasActive bool   `json:"has_active"`
}

type Report struct {
	Dir   string       `json:"dir"`
	Files []FileReport `json:"files"`
	Tasks []TaskReport `json:"tasks"`
	OK    bool         `json:"ok"`
}

// Verify is the pre-deploy sanity check: it parses every definition file in
// dir independently (no all-or-nothing short circuit) and reports per-file
// parse results, computed hashes, and per-task active coverage. It never
// touches a serving registry.
func Verify(dir string) (*Report, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &LoadError{Dir: dir, Err: err}
	}

	report := &Report{Dir: dir, OK: true}
	type taskState struct {
		versions  map[string]string
		hasActive bool
	}
	tasks := make(map[string]*taskState)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		def, err := parseFile(path)
		if err != nil {
			report.Files = append(report.Files, FileReport{Path: path, OK: false, Error: err.Error()})
			report.OK = false
			continue
		}

		fr := FileReport{
			Path:    path,
			Task:    def.Task,
			Version: def.Version.String(),
			Status:  def.Status,
			Hash:    def.ContentHash,
			OK:      true,
		}
		state := tasks[def.Task]
		if state == nil {
			state = &taskState{versions: make(map[string]string)}
			tasks[def.Task] = state
		}
		if prev, dup := state.versions[def.Version.String()]; dup {
			fr.OK = false
			fr.Error = "duplicate (task, version), already defined in " + prev
			report.OK = false
		} else {
			state.versions[def.Version.String()] = path
			if def.Status == StatusActive {
				state.hasActive = true
			}
		}
		report.Files = append(report.Files, fr)
	}

	names := make([]string, 0, len(tasks))
	for task := range tasks {
		names = append(names, task)
	}
	sort.Strings(names)
	for _, task := range names {
		state := tasks[task]
		report.Tasks = append(report.Tasks, TaskReport{
			Task:      task,
			Versions:  len(state.versions),
			HasActive: state.hasActive,
		})
		if !state.hasActive {
			report.OK = false
		}
	}
	return report, nil
}

package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/camberhealth/clinsum/internal/platform/logger"
)

// snapshot is an immutable index of loaded definitions. Readers always see
// one complete snapshot; Reload builds a new one and swaps the pointer.
type snapshot struct {
	byTask   map[string][]*Definition
	byKey    map[string]*Definition
	loadedAt time.Time
}

// Load parses every .yaml/.yml file under dir. All-or-nothing: one malformed
// file fails the entire load, since serving a partially loaded prompt set is
// worse than refusing to start.
func Load(dir string) ([]*Definition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &LoadError{Dir: dir, Err: err}
	}

	var defs []*Definition
	seen := make(map[string]string)
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
			return nil, &LoadError{Dir: dir, Path: path, Err: err}
		}
		if prev, ok := seen[def.Key()]; ok {
			return nil, &LoadError{Dir: dir, Path: path, Err: fmt.Errorf("duplicate (task, version) %s already defined in %s", def.Key(), prev)}
		}
		seen[def.Key()] = path
		defs = append(defs, def)
	}
	return defs, nil
}

func buildSnapshot(defs []*Definition) *snapshot {
	snap := &snapshot{
		byTask:   make(map[string][]*Definition),
		byKey:    make(map[string]*Definition, len(defs)),
		loadedAt: time.Now(),
	}
	for _, def := range defs {
		snap.byTask[def.Task] = append(snap.byTask[def.Task], def)
		snap.byKey[def.Key()] = def
	}
	for task := range snap.byTask {
		list := snap.byTask[task]
		sort.Slice(list, func(i, j int) bool {
			return list[i].Version.Compare(list[j].Version) < 0
		})
	}
	return snap
}

// Registry answers version-resolution queries against an atomically swapped
// in-memory index. Lookups never block each other; Reload is serialized via
// singleflight so at most one reload is in flight.
type Registry struct {
	dir     string
	log     *logger.Logger
	snap    atomic.Pointer[snapshot]
	reloads singleflight.Group
}

func NewRegistry(dir string, log *logger.Logger) (*Registry, error) {
	defs, err := Load(dir)
	if err != nil {
		return nil, err
	}
	r := &Registry{dir: dir, log: log.With("component", "PromptRegistry")}
	r.snap.Store(buildSnapshot(defs))
	r.log.Info("Prompt registry loaded", "dir", dir, "definitions", len(defs))
	return r, nil
}

// Reload re-runs Load and swaps in the new index only on full success. On
// failure the previously loaded index remains in effect.
func (r *Registry) Reload() error {
	_, err, _ := r.reloads.Do("reload", func() (interface{}, error) {
		defs, err := Load(r.dir)
		if err != nil {
			r.log.Error("Prompt reload failed, keeping serving index", "dir", r.dir, "error", err)
			return nil, err
		}
		r.snap.Store(buildSnapshot(defs))
		r.log.Info("Prompt registry reloaded", "dir", r.dir, "definitions", len(defs))
		return nil, nil
	})
	return err
}

// ResolveLatest returns the highest active version for task. Deprecated and
// retired versions are never eligible.
func (r *Registry) ResolveLatest(task string) (*Definition, error) {
	list := r.snap.Load().byTask[task]
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].Status == StatusActive {
			return list[i], nil
		}
	}
	return nil, &NotFoundError{Task: task}
}

// ResolveVersion is an exact (task, version) lookup regardless of status, so
// callers can pin a deprecated version for reproducibility.
func (r *Registry) ResolveVersion(task, version string) (*Definition, error) {
	v, err := ParseVersion(version)
	if err != nil {
		return nil, &NotFoundError{Task: task, Version: version}
	}
	def, ok := r.snap.Load().byKey[task+"@"+v.String()]
	if !ok {
		return nil, &NotFoundError{Task: task, Version: version}
	}
	return def, nil
}

type VersionInfo struct {
	Version string `json:"version"`
	Status  Status `json:"status"`
}

// ListVersions returns all known versions for task, ascending. An unknown
// task yields an empty list, not an error.
func (r *Registry) ListVersions(task string) []VersionInfo {
	list := r.snap.Load().byTask[task]
	out := make([]VersionInfo, 0, len(list))
	for _, def := range list {
		out = append(out, VersionInfo{Version: def.Version.String(), Status: def.Status})
	}
	return out
}

// Tasks returns the known task names, sorted.
func (r *Registry) Tasks() []string {
	byTask := r.snap.Load().byTask
	out := make([]string, 0, len(byTask))
	for task := range byTask {
		out = append(out, task)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) Dir() string { return r.dir }

func (r *Registry) DefinitionCount() int {
	return len(r.snap.Load().byKey)
}

func (r *Registry) LoadedAt() time.Time {
	return r.snap.Load().loadedAt
}

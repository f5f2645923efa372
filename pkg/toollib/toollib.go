// Package toollib loads cutter definitions from a JSON tool library. The
// file is an object keyed by tool id:
//
//	{"1": {"id": 1, "name": "1/4 EM", "dia": 0.25, "flutes": 3, "material": "carbide"}}
package toollib

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/chazu/swarf/pkg/blackbook"
	"github.com/samber/lo"
)

// ErrToolNotFound is returned when no tool matches a reference.
var ErrToolNotFound = errors.New("tool not found")

// Tool is one library entry.
type Tool struct {
	ID       int                    `json:"id"`
	Name     string                 `json:"name"`
	Dia      float64                `json:"dia"`
	Flutes   int                    `json:"flutes"`
	Material blackbook.ToolMaterial `json:"material"`
	MaxRPM   *float64               `json:"max_rpm,omitempty"`
	Stickout *float64               `json:"stickout,omitempty"`
	Length   *float64               `json:"length,omitempty"`
}

// Geometry returns the resolver's view of the tool.
func (t *Tool) Geometry() blackbook.ToolGeometry {
	g := blackbook.ToolGeometry{Diameter: t.Dia, Flutes: t.Flutes, Material: t.Material}
	if t.Stickout != nil {
		g.Stickout = *t.Stickout
	}
	return g
}

// Library is a set of tools keyed by id string.
type Library struct {
	tools map[string]*Tool
}

// New returns an empty library.
func New() *Library {
	return &Library{tools: make(map[string]*Tool)}
}

// Load reads a library file.
func Load(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("toollib: %w", err)
	}
	lib, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("toollib: %s: %w", path, err)
	}
	return lib, nil
}

// Parse decodes library JSON.
func Parse(data []byte) (*Library, error) {
	tools := make(map[string]*Tool)
	if err := json.Unmarshal(data, &tools); err != nil {
		return nil, err
	}
	for key, t := range tools {
		if t == nil {
			return nil, fmt.Errorf("tool %q: empty entry", key)
		}
		if t.Dia <= 0 {
			return nil, fmt.Errorf("tool %q: diameter must be positive", key)
		}
		if t.Flutes < 1 {
			return nil, fmt.Errorf("tool %q: flutes must be at least 1", key)
		}
	}
	return &Library{tools: tools}, nil
}

// Add inserts or replaces a tool under its id.
func (l *Library) Add(t *Tool) {
	l.tools[strconv.Itoa(t.ID)] = t
}

// Len returns the number of tools.
func (l *Library) Len() int {
	if l == nil {
		return 0
	}
	return len(l.tools)
}

// ByID finds a tool by its numeric id.
func (l *Library) ByID(id int) (*Tool, error) {
	if l != nil {
		if t, ok := l.tools[strconv.Itoa(id)]; ok {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: id %d", ErrToolNotFound, id)
}

// ByName finds a tool by name: an exact case-insensitive match wins,
// otherwise the lowest-numbered tool whose name contains name.
func (l *Library) ByName(name string) (*Tool, error) {
	want := strings.ToLower(name)
	tools := l.List()
	if t, ok := lo.Find(tools, func(t *Tool) bool { return strings.ToLower(t.Name) == want }); ok {
		return t, nil
	}
	if t, ok := lo.Find(tools, func(t *Tool) bool { return strings.Contains(strings.ToLower(t.Name), want) }); ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrToolNotFound, name)
}

// Get resolves a reference that is either an id or a name.
func (l *Library) Get(ref string) (*Tool, error) {
	if id, err := strconv.Atoi(ref); err == nil {
		if t, err := l.ByID(id); err == nil {
			return t, nil
		}
	}
	return l.ByName(ref)
}

// List returns all tools ordered by id.
func (l *Library) List() []*Tool {
	if l == nil {
		return nil
	}
	tools := lo.Values(l.tools)
	slices.SortFunc(tools, func(a, b *Tool) int { return a.ID - b.ID })
	return tools
}

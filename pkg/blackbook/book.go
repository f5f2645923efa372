package blackbook

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Book is a read-only material table. It is safe for concurrent use once
// constructed.
type Book struct {
	materials map[string]*Material
}

// New returns a Book over the built-in material table.
func New() *Book {
	return NewFromMaterials(DefaultMaterials())
}

// NewFromMaterials builds a Book from an explicit table, such as one
// loaded from the store. Later entries replace earlier ones of the same
// name.
func NewFromMaterials(ms []*Material) *Book {
	b := &Book{materials: make(map[string]*Material, len(ms))}
	for _, m := range ms {
		if m == nil || m.Name == "" {
			continue
		}
		b.materials[m.Name] = m
	}
	return b
}

// Lookup finds a material by exact name, then case-insensitive name, then
// grade alias ("6061-T6" finds "Aluminum 6061-T6").
func (b *Book) Lookup(id string) (*Material, error) {
	if m, ok := b.materials[id]; ok {
		return m, nil
	}
	want := strings.TrimSpace(id)
	if want != "" {
		for _, name := range b.Materials() {
			m := b.materials[name]
			if strings.EqualFold(m.Name, want) {
				return m, nil
			}
		}
		for _, name := range b.Materials() {
			m := b.materials[name]
			if lo.ContainsBy(m.Grades, func(g string) bool { return strings.EqualFold(g, want) }) {
				return m, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownMaterial, id)
}

// Resolve computes cutting parameters for a material, tool and engagement.
func (b *Book) Resolve(materialID string, tool ToolGeometry, eng Engagement) (*CuttingParameters, error) {
	m, err := b.Lookup(materialID)
	if err != nil {
		return nil, err
	}
	return Compute(m, tool, eng)
}

// ChipLoad returns the interpolated base chip load for a tool.
func (b *Book) ChipLoad(materialID string, diameter float64, tm ToolMaterial) (float64, error) {
	m, err := b.Lookup(materialID)
	if err != nil {
		return 0, err
	}
	return LookupChipLoad(m, diameter, tm), nil
}

// SFMRange returns the surface speed range for a tool material.
func (b *Book) SFMRange(materialID string, tm ToolMaterial) (SFMRange, error) {
	m, err := b.Lookup(materialID)
	if err != nil {
		return SFMRange{}, err
	}
	return LookupSFM(m, tm), nil
}

// Preset applies a roughing, finishing or adaptive strategy.
func (b *Book) Preset(materialID string, tool ToolGeometry, kind PresetKind) (RecommendedParameters, error) {
	m, err := b.Lookup(materialID)
	if err != nil {
		return RecommendedParameters{}, err
	}
	return ComputePreset(m, tool, kind)
}

// Materials returns every material name, sorted.
func (b *Book) Materials() []string {
	names := lo.Keys(b.materials)
	slices.Sort(names)
	return names
}

// ByCategory returns the materials in a category, sorted by name.
func (b *Book) ByCategory(c MaterialCategory) []*Material {
	out := lo.Filter(lo.Values(b.materials), func(m *Material, _ int) bool {
		return m.Category == c
	})
	slices.SortFunc(out, func(x, y *Material) int { return strings.Compare(x.Name, y.Name) })
	return out
}

// All returns every material, sorted by name.
func (b *Book) All() []*Material {
	return lo.Map(b.Materials(), func(name string, _ int) *Material { return b.materials[name] })
}

// Package gazetteer supplies region centroids for regions with no
// facility records. The table is injectable: built-in defaults, a YAML
// file, or a point shapefile.
package gazetteer

import (
	"os"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/caremesh/caremesh-cli/internal/geo"
)

// Gazetteer maps region names to centroid coordinates, with a country
// center fallback for unknown regions.
type Gazetteer struct {
	centers map[string]geo.Point
	names   []string // sorted; keeps fuzzy matching deterministic
	center  geo.Point
}

// New builds a Gazetteer from the given entries and default country center.
// Region names are matched case-insensitively.
func New(center geo.Point, entries map[string]geo.Point) *Gazetteer {
	centers := make(map[string]geo.Point, len(entries))
	names := make([]string, 0, len(entries))
	for name, pt := range entries {
		key := strings.ToLower(name)
		centers[key] = pt
		names = append(names, key)
	}
	sort.Strings(names)
	return &Gazetteer{centers: centers, names: names, center: center}
}

// Default returns the built-in gazetteer: Kenyan provinces with
// approximate centroids, centered on the country midpoint. Suits the
// Kenya pilot dataset; other deployments should load their own table.
func Default() *Gazetteer {
	return New(geo.Point{Lat: 0.0236, Lng: 37.9062}, map[string]geo.Point{
		"Nairobi":       {Lat: -1.2921, Lng: 36.8219},
		"Central":       {Lat: -0.75, Lng: 37.0},
		"Coast":         {Lat: -3.5, Lng: 39.5},
		"Eastern":       {Lat: 0.5, Lng: 38.0},
		"North Eastern": {Lat: 1.5, Lng: 40.0},
		"Nyanza":        {Lat: -0.5, Lng: 34.5},
		"Rift Valley":   {Lat: 0.5, Lng: 35.5},
		"Western":       {Lat: 0.5, Lng: 34.5},
	})
}

// Lookup returns the centroid for a region. Matching is case-insensitive
// with a bidirectional substring fallback, mirroring the gap detector's
// region matching. The second return is false when only the country
// center could be offered.
func (g *Gazetteer) Lookup(region string) (geo.Point, bool) {
	key := strings.ToLower(strings.TrimSpace(region))
	if pt, ok := g.centers[key]; ok {
		return pt, true
	}
	for _, name := range g.names {
		if key != "" && (strings.Contains(name, key) || strings.Contains(key, name)) {
			return g.centers[name], true
		}
	}
	return g.center, false
}

// Center returns the default country center.
func (g *Gazetteer) Center() geo.Point {
	return g.center
}

// Len returns the number of known regions.
func (g *Gazetteer) Len() int {
	return len(g.centers)
}

// yamlFile is the on-disk YAML gazetteer format.
type yamlFile struct {
	Center  geo.Point            `yaml:"center"`
	Regions map[string]geo.Point `yaml:"regions"`
}

// LoadYAML reads a gazetteer from a YAML file:
//
//	center: {lat: 0.0236, lng: 37.9062}
//	regions:
//	  Nairobi: {lat: -1.2921, lng: 36.8219}
func LoadYAML(path string) (*Gazetteer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "gazetteer: read %s", path)
	}

	var f yamlFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrapf(err, "gazetteer: parse %s", path)
	}
	if len(f.Regions) == 0 {
		return nil, eris.Errorf("gazetteer: %s defines no regions", path)
	}

	return New(f.Center, f.Regions), nil
}

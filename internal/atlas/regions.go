package atlas

import "fmt"

// BaseSize is the reference atlas space the region table is authored in.
// Larger atlases scale every region proportionally.
const BaseSize = 256

// Region is a named rectangle of the shared body texture atlas, in
// BaseSize space.
type Region struct {
	X, Y, W, H int
}

// Regions is the closed set of body atlas regions the mesh UVs were
// authored against.
var Regions = map[string]Region{
	"ArmUpper":   {X: 0, Y: 0, W: 128, H: 64},
	"ArmLower":   {X: 0, Y: 64, W: 128, H: 64},
	"Hand":       {X: 0, Y: 128, W: 128, H: 32},
	"FaceUpper":  {X: 0, Y: 160, W: 128, H: 32},
	"FaceLower":  {X: 0, Y: 192, W: 128, H: 64},
	"TorsoUpper": {X: 128, Y: 0, W: 128, H: 64},
	"TorsoLower": {X: 128, Y: 64, W: 128, H: 32},
	"LegUpper":   {X: 128, Y: 96, W: 128, H: 64},
	"LegLower":   {X: 128, Y: 160, W: 128, H: 64},
	"Foot":       {X: 128, Y: 224, W: 128, H: 32},
}

// RegionByName looks up a region from the closed set.
func RegionByName(name string) (Region, error) {
	r, ok := Regions[name]
	if !ok {
		return Region{}, fmt.Errorf("atlas: unknown region %q", name)
	}
	return r, nil
}

// scaled maps the region from BaseSize space into an atlas of the given
// edge size.
func (r Region) scaled(size int) Region {
	if size == BaseSize {
		return r
	}
	return Region{
		X: r.X * size / BaseSize,
		Y: r.Y * size / BaseSize,
		W: r.W * size / BaseSize,
		H: r.H * size / BaseSize,
	}
}

// Layer names the canonical compositing order for equipment slots:
// later layers visually win over earlier ones.
type Layer int

const (
	LayerSkin Layer = iota
	LayerFace
	LayerUnderwear
	LayerShirt
	LayerChest
	LayerTabard
	LayerLegs
	LayerBoots
	LayerBracers
	LayerGloves
)

var layerNames = map[string]Layer{
	"Skin":      LayerSkin,
	"Face":      LayerFace,
	"Underwear": LayerUnderwear,
	"Shirt":     LayerShirt,
	"Chest":     LayerChest,
	"Tabard":    LayerTabard,
	"Legs":      LayerLegs,
	"Boots":     LayerBoots,
	"Bracers":   LayerBracers,
	"Gloves":    LayerGloves,
}

// LayerByName resolves a layer name from a compositing recipe.
func LayerByName(name string) (Layer, error) {
	l, ok := layerNames[name]
	if !ok {
		return 0, fmt.Errorf("atlas: unknown layer %q", name)
	}
	return l, nil
}

// AngelaMos | 2026
// selector.go

package catalog

import (
	"strings"

	"github.com/carterperez-dev/orderdesk/internal/cascade"
)

const (
	LevelBrand = "brand"
	LevelModel = "model"
	LevelColor = "color"
	LevelSpecs = "specs"
)

// Selection holds the choices made so far. A non-empty CustomBrand replaces
// Brand, whether or not the catalog knows it.
type Selection struct {
	Brand       string `json:"brand"`
	CustomBrand string `json:"custom_brand"`
	Model       string `json:"model"`
	Color       string `json:"color"`
}

// EffectiveBrand is the brand the cascade filters on.
func (s Selection) EffectiveBrand() string {
	if custom := strings.TrimSpace(s.CustomBrand); custom != "" {
		return custom
	}
	return s.Brand
}

// Options lists the values available at every level. Levels past the first
// unchosen one are empty. Next names that first unchosen level.
type Options struct {
	Brands []string `json:"brands"`
	Models []string `json:"models"`
	Colors []string `json:"colors"`
	Specs  []string `json:"specs"`
	Next   string   `json:"next"`
}

// Resolve runs the brand, model, color, specs cascade over a snapshot of the
// catalog. It never modifies models.
func Resolve(models []Model, sel Selection) Options {
	brand := sel.EffectiveBrand()

	levels := cascade.Walk(models,
		cascade.Step[Model]{Key: brandOf, Chosen: brand},
		cascade.Step[Model]{Key: modelOf, Chosen: sel.Model},
		cascade.Step[Model]{Key: colorOf, Chosen: sel.Color},
		cascade.Step[Model]{Key: specsOf},
	)

	opts := Options{
		Brands: orEmpty(levels[0]),
		Models: orEmpty(levels[1]),
		Colors: orEmpty(levels[2]),
		Specs:  orEmpty(levels[3]),
	}

	switch {
	case brand == "":
		opts.Next = LevelBrand
	case sel.Model == "":
		opts.Next = LevelModel
	case sel.Color == "":
		opts.Next = LevelColor
	default:
		opts.Next = LevelSpecs
	}

	return opts
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

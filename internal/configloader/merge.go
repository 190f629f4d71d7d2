package configloader

import "github.com/yaklabco/gofurigana/pkg/config"

// merge returns base with every field set in override applied on top. Zero
// strings and numbers, nil pointers and nil slices count as unset; a set
// slice replaces the base slice instead of extending it.
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	out := *base

	setNonZero(&out.Placeholder, override.Placeholder)
	setNonZero(&out.Flavor, override.Flavor)
	setNonZero(&out.Render, override.Render)
	setNonZero(&out.Format, override.Format)
	setNonZero(&out.Jobs, override.Jobs)
	setNonZero(&out.OutDir, override.OutDir)
	setNonZero(&out.Width, override.Width)

	setNonNil(&out.Enabled, override.Enabled)
	setNonNil(&out.StrictOrder, override.StrictOrder)

	setNonNil(&out.Style.LineHeightMultiple, override.Style.LineHeightMultiple)
	setNonNil(&out.Style.TextOffsetMultiple, override.Style.TextOffsetMultiple)
	setNonZero(&out.Style.Alignment, override.Style.Alignment)

	if override.Ignore != nil {
		out.Ignore = override.Ignore
	}
	if override.Extensions != nil {
		out.Extensions = override.Extensions
	}

	return &out
}

func setNonZero[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}

func setNonNil[T any](dst **T, v *T) {
	if v != nil {
		*dst = v
	}
}

// MergeAll folds configs left to right; later ones win.
func MergeAll(configs ...*config.Config) *config.Config {
	var out *config.Config
	for _, cfg := range configs {
		out = merge(out, cfg)
	}
	return out
}

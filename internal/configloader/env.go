package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/gofurigana/pkg/config"
)

const envVarPrefix = "FURIGANA_"

// EnvVar is a FURIGANA_* variable that overrides one configuration field.
type EnvVar struct {
	Name        string
	Description string

	apply func(cfg *config.Config, value string) error
}

// EnvVars lists the supported environment variables in documentation order.
func EnvVars() []EnvVar {
	return []EnvVar{
		{envVarPrefix + "ENABLED", "turn furigana processing on or off", boolVar(func(c *config.Config, v bool) { c.Enabled = &v })},
		{envVarPrefix + "PLACEHOLDER", "padding inserted around wide readings", stringVar(func(c *config.Config, v string) { c.Placeholder = v })},
		{envVarPrefix + "FLAVOR", "markdown flavor: commonmark or gfm", stringVar(func(c *config.Config, v string) { c.Flavor = config.Flavor(v) })},
		{envVarPrefix + "RENDER", "renderer: terminal, html, text or markup", stringVar(func(c *config.Config, v string) { c.Render = v })},
		{envVarPrefix + "STRICT_ORDER", "reject unordered or overlapping annotations", boolVar(func(c *config.Config, v bool) { c.StrictOrder = &v })},
		{envVarPrefix + "LINE_HEIGHT_MULTIPLE", "base line height multiple", floatVar(func(c *config.Config, v float64) { c.Style.LineHeightMultiple = &v })},
		{envVarPrefix + "TEXT_OFFSET_MULTIPLE", "extra distance between reading and base", floatVar(func(c *config.Config, v float64) { c.Style.TextOffsetMultiple = &v })},
		{envVarPrefix + "ALIGNMENT", "paragraph alignment: left, center or right", stringVar(func(c *config.Config, v string) { c.Style.Alignment = v })},
		{envVarPrefix + "JOBS", "parallel workers, 0 for one per CPU", intVar(func(c *config.Config, v int) { c.Jobs = v })},
		{envVarPrefix + "FORMAT", "report format: text, table or json", stringVar(func(c *config.Config, v string) { c.Format = config.OutputFormat(v) })},
		{envVarPrefix + "IGNORE", "comma separated ignore patterns", listVar(func(c *config.Config, v []string) { c.Ignore = v })},
		{envVarPrefix + "EXTENSIONS", "comma separated document extensions", listVar(func(c *config.Config, v []string) { c.Extensions = v })},
	}
}

// LoadFromEnv applies every set FURIGANA_* variable to cfg.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}
	for _, v := range EnvVars() {
		value := os.Getenv(v.Name)
		if value == "" {
			continue
		}
		if err := v.apply(cfg, value); err != nil {
			return fmt.Errorf("%s: %w", v.Name, err)
		}
	}
	return nil
}

func stringVar(set func(*config.Config, string)) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		set(cfg, value)
		return nil
	}
}

func boolVar(set func(*config.Config, bool)) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", value)
		}
		set(cfg, b)
		return nil
	}
}

func intVar(set func(*config.Config, int)) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer %q", value)
		}
		set(cfg, n)
		return nil
	}
}

func floatVar(set func(*config.Config, float64)) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q", value)
		}
		set(cfg, f)
		return nil
	}
}

// listVar splits a comma separated value, dropping empty items.
func listVar(set func(*config.Config, []string)) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		var items []string
		for item := range strings.SplitSeq(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		set(cfg, items)
		return nil
	}
}

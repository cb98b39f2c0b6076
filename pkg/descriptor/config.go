package descriptor

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// TextConfig bounds string inputs (text, textarea, email, password).
type TextConfig struct {
	MinLength *int   `mapstructure:"minLength" json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength *int   `mapstructure:"maxLength" json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Pattern   string `mapstructure:"pattern" json:"pattern,omitempty" yaml:"pattern,omitempty"`
}

// NumberConfig bounds numeric inputs.
type NumberConfig struct {
	Min *float64 `mapstructure:"min" json:"min,omitempty" yaml:"min,omitempty"`
	Max *float64 `mapstructure:"max" json:"max,omitempty" yaml:"max,omitempty"`
	// Step is a renderer hint only; it never participates in validation.
	Step float64 `mapstructure:"step" json:"step,omitempty" yaml:"step,omitempty"`
}

// SelectConfig lists the static choices for select and multiselect fields.
type SelectConfig struct {
	Options []Choice `mapstructure:"options" json:"options,omitempty" yaml:"options,omitempty"`
}

// PaginatedSelectConfig points a paginatedSelect field at a remote option
// endpoint. LabelKey/ValueKey name the record keys mapped into options when no
// transform is supplied.
type PaginatedSelectConfig struct {
	Endpoint       string `mapstructure:"endpoint" json:"endpoint" yaml:"endpoint"`
	PageSize       int    `mapstructure:"pageSize" json:"pageSize,omitempty" yaml:"pageSize,omitempty"`
	SearchParam    string `mapstructure:"searchParam" json:"searchParam,omitempty" yaml:"searchParam,omitempty"`
	LabelKey       string `mapstructure:"labelKey" json:"labelKey,omitempty" yaml:"labelKey,omitempty"`
	ValueKey       string `mapstructure:"valueKey" json:"valueKey,omitempty" yaml:"valueKey,omitempty"`
	DebounceMillis int    `mapstructure:"debounceMillis" json:"debounceMillis,omitempty" yaml:"debounceMillis,omitempty"`
}

// ArrayConfig declares the nested row shape for repeatable groups.
type ArrayConfig struct {
	Fields   []Field `mapstructure:"fields" json:"fields" yaml:"fields"`
	MinItems *int    `mapstructure:"minItems" json:"minItems,omitempty" yaml:"minItems,omitempty"`
	MaxItems *int    `mapstructure:"maxItems" json:"maxItems,omitempty" yaml:"maxItems,omitempty"`
}

// DateRangeConfig selects between a single date and a {startDate,endDate}
// pair.
type DateRangeConfig struct {
	Range bool `mapstructure:"range" json:"range,omitempty" yaml:"range,omitempty"`
}

// ImageConfig configures image and file fields. UploadURL is consulted when no
// upload function is injected; see pkg/upload for the selection order.
type ImageConfig struct {
	UploadURL string   `mapstructure:"uploadUrl" json:"uploadUrl,omitempty" yaml:"uploadUrl,omitempty"`
	Accept    []string `mapstructure:"accept" json:"accept,omitempty" yaml:"accept,omitempty"`
	MaxSize   int64    `mapstructure:"maxSize" json:"maxSize,omitempty" yaml:"maxSize,omitempty"`
	Multiple  bool     `mapstructure:"multiple" json:"multiple,omitempty" yaml:"multiple,omitempty"`
}

// DecodeConfig normalises a field's Config into the typed struct pointed at by
// target. The source may already be the typed struct (page-constructed
// descriptors) or a loosely-typed map (YAML/JSON definitions); both decode
// through the same path.
func DecodeConfig(source any, target any) error {
	if source == nil {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("descriptor: build config decoder: %w", err)
	}
	if err := dec.Decode(source); err != nil {
		return fmt.Errorf("descriptor: decode config: %w", err)
	}
	return nil
}

// TextConfig decodes the field's config as TextConfig.
func (f Field) TextConfig() (TextConfig, error) {
	var cfg TextConfig
	err := DecodeConfig(f.Config, &cfg)
	return cfg, err
}

// NumberConfig decodes the field's config as NumberConfig.
func (f Field) NumberConfig() (NumberConfig, error) {
	var cfg NumberConfig
	err := DecodeConfig(f.Config, &cfg)
	return cfg, err
}

// SelectConfig decodes the field's config as SelectConfig.
func (f Field) SelectConfig() (SelectConfig, error) {
	var cfg SelectConfig
	err := DecodeConfig(f.Config, &cfg)
	return cfg, err
}

// PaginatedSelectConfig decodes the field's config as PaginatedSelectConfig.
func (f Field) PaginatedSelectConfig() (PaginatedSelectConfig, error) {
	var cfg PaginatedSelectConfig
	err := DecodeConfig(f.Config, &cfg)
	return cfg, err
}

// ArrayConfig decodes the field's config as ArrayConfig.
func (f Field) ArrayConfig() (ArrayConfig, error) {
	var cfg ArrayConfig
	err := DecodeConfig(f.Config, &cfg)
	return cfg, err
}

// DateRangeConfig decodes the field's config as DateRangeConfig.
func (f Field) DateRangeConfig() (DateRangeConfig, error) {
	var cfg DateRangeConfig
	err := DecodeConfig(f.Config, &cfg)
	return cfg, err
}

// ImageConfig decodes the field's config as ImageConfig.
func (f Field) ImageConfig() (ImageConfig, error) {
	var cfg ImageConfig
	err := DecodeConfig(f.Config, &cfg)
	return cfg, err
}

package tuning

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed tuning.schema.json
var schemaJSON string

const schemaURL = "tuning.schema.json"

type Tuning struct {
	TickRateHz int   `yaml:"tick_rate_hz" json:"tick_rate_hz"`
	MaxStepMs  int   `yaml:"max_step_ms" json:"max_step_ms"`
	Seed       int64 `yaml:"seed" json:"seed"`

	Field     Field     `yaml:"field" json:"field"`
	Obstacles Obstacles `yaml:"obstacles" json:"obstacles"`
	Robots    Robots    `yaml:"robots" json:"robots"`

	// TargetSelection is "random" (default) or "nearest".
	TargetSelection string `yaml:"target_selection" json:"target_selection"`

	LogEveryTicks int `yaml:"log_every_ticks" json:"log_every_ticks"`
}

type Field struct {
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

type Obstacles struct {
	Count int        `yaml:"count" json:"count"`
	Size  [2]float64 `yaml:"size" json:"size"`
}

type Robots struct {
	Count   int      `yaml:"count" json:"count"`
	Speed   float64  `yaml:"speed" json:"speed"`
	Energy  float64  `yaml:"energy" json:"energy"`
	Modules []string `yaml:"modules" json:"modules"`
}

// Defaults mirrors the reference setup: a 1920x1080 field, five obstacles and
// a single robot moving at 100 units/s.
func Defaults() Tuning {
	return Tuning{
		TickRateHz: 60,
		MaxStepMs:  250,
		Seed:       1337,
		Field:      Field{Width: 1920, Height: 1080},
		Obstacles:  Obstacles{Count: 5, Size: [2]float64{40, 40}},
		Robots: Robots{
			Count:  1,
			Speed:  100,
			Energy: 100,
		},
		TargetSelection: "random",
		LogEveryTicks:   300,
	}
}

// Load reads a tuning.yaml on top of Defaults. The raw document is checked
// against the embedded schema before decoding.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	return Parse(raw)
}

// LoadOrDefaults is Load, except that a missing file yields Defaults and
// found=false instead of an error.
func LoadOrDefaults(path string) (t Tuning, found bool, err error) {
	t, err = Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Defaults(), false, nil
	}
	if err != nil {
		return t, true, err
	}
	return t, true, nil
}

func Parse(raw []byte) (Tuning, error) {
	t := Defaults()
	if err := validateSchema(raw); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	var errs []error
	if t.TickRateHz <= 0 {
		errs = append(errs, fmt.Errorf("tick_rate_hz must be > 0 (got %d)", t.TickRateHz))
	}
	if t.MaxStepMs < 0 {
		errs = append(errs, fmt.Errorf("max_step_ms must be >= 0 (got %d)", t.MaxStepMs))
	}
	if t.Field.Width <= 0 || t.Field.Height <= 0 {
		errs = append(errs, fmt.Errorf("field must have positive size (got %gx%g)", t.Field.Width, t.Field.Height))
	}
	if t.Obstacles.Count <= 0 {
		errs = append(errs, fmt.Errorf("obstacles.count must be > 0 (got %d)", t.Obstacles.Count))
	}
	if t.Obstacles.Size[0] < 0 || t.Obstacles.Size[1] < 0 {
		errs = append(errs, errors.New("obstacles.size must be non-negative"))
	}
	if t.Obstacles.Size[0] > t.Field.Width || t.Obstacles.Size[1] > t.Field.Height {
		errs = append(errs, errors.New("obstacles.size does not fit in the field"))
	}
	if t.Robots.Count <= 0 {
		errs = append(errs, fmt.Errorf("robots.count must be > 0 (got %d)", t.Robots.Count))
	}
	if t.Robots.Speed <= 0 {
		errs = append(errs, fmt.Errorf("robots.speed must be > 0 (got %g)", t.Robots.Speed))
	}
	switch strings.ToLower(strings.TrimSpace(t.TargetSelection)) {
	case "", "random", "nearest":
	default:
		errs = append(errs, fmt.Errorf("target_selection must be random or nearest (got %q)", t.TargetSelection))
	}
	return errors.Join(errs...)
}

func validateSchema(raw []byte) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return err
	}
	if doc == nil {
		// Empty file: all defaults.
		return nil
	}
	// Round-trip through JSON so the validator sees json.Number/map[string]any.
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	s, err := compileSchema()
	if err != nil {
		return err
	}
	return s.Validate(v)
}

func compileSchema() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
		return nil, err
	}
	return c.Compile(schemaURL)
}

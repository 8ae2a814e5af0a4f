package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

const ConfigFile = "config.yaml"

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// Config is the sandbox configuration. Gravity is in m/s², sizes are in
// pixels.
type Config struct {
	PixelsPerMeter float64        `yaml:"pixels_per_meter"`
	Gravity        Vec            `yaml:"gravity"`
	Backend        string         `yaml:"backend"`
	MaxBodies      int            `yaml:"max_bodies"`
	Scene          string         `yaml:"scene"`
	Debug          bool           `yaml:"debug"`
	Fracture       FractureConfig `yaml:"fracture"`
}

type FractureConfig struct {
	// Shaper is one of box, scaled or voronoi.
	Shaper         string    `yaml:"shaper"`
	BoxSize        float64   `yaml:"box_size"`
	Scale          float64   `yaml:"scale"`
	CellSize       float64   `yaml:"cell_size"`
	Seed           uint32    `yaml:"seed"`
	ViewRadius     float64   `yaml:"view_radius"`
	ViewFromShape  bool      `yaml:"view_from_shape"`
	PieceTTLFrames int       `yaml:"piece_ttl_frames"`
	MaxPieces      int       `yaml:"max_pieces"`
	Density        float64   `yaml:"density"`
	Friction       float64   `yaml:"friction"`
	Elasticity     float64   `yaml:"elasticity"`
	Color          YAMLColor `yaml:"color"`
}

const (
	ShaperBox     = "box"
	ShaperScaled  = "scaled"
	ShaperVoronoi = "voronoi"
)

// DefaultConfig matches the embedded config.yaml.
func DefaultConfig() Config {
	return Config{
		PixelsPerMeter: 50,
		Gravity:        Vec{0, 9.8},
		Backend:        "chipmunk",
		MaxBodies:      2000,
		Scene:          "stack.yaml",
		Fracture: FractureConfig{
			Shaper:         ShaperBox,
			BoxSize:        40,
			Scale:          1,
			CellSize:       25,
			Seed:           7,
			ViewRadius:     20,
			PieceTTLFrames: 600,
			MaxPieces:      1500,
			Density:        1,
			Friction:       0.5,
			Elasticity:     0.1,
			Color:          YAMLColor{colornames.Red},
		},
	}
}

// LoadConfig reads config.yaml over the defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	data, err := Load(ConfigFile)
	if err != nil {
		return cfg, fmt.Errorf("prefabs: load %s: %w", ConfigFile, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("prefabs: unmarshal %s: %w", ConfigFile, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("prefabs: %s: %w", ConfigFile, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.PixelsPerMeter < 0 {
		return fmt.Errorf("pixels_per_meter must not be negative")
	}
	if c.MaxBodies < 0 {
		return fmt.Errorf("max_bodies must not be negative")
	}
	switch strings.ToLower(c.Fracture.Shaper) {
	case "", ShaperBox, ShaperScaled, ShaperVoronoi:
	default:
		return fmt.Errorf("unknown fracture shaper %q", c.Fracture.Shaper)
	}
	if c.Fracture.PieceTTLFrames < 0 {
		return fmt.Errorf("piece_ttl_frames must not be negative")
	}
	return nil
}

// Vec is a 2D vector written as [x, y].
type Vec [2]float64

// SceneSpec places prefabs in the world. Positions are in pixels, velocity
// in px/s and angular velocity in rad/s.
type SceneSpec struct {
	Name     string            `yaml:"name"`
	Entities []SceneEntitySpec `yaml:"entities"`
}

type SceneEntitySpec struct {
	Prefab          string  `yaml:"prefab"`
	X               float64 `yaml:"x"`
	Y               float64 `yaml:"y"`
	Rotation        float64 `yaml:"rotation"`
	Velocity        Vec     `yaml:"velocity"`
	AngularVelocity float64 `yaml:"angular_velocity"`
}

func LoadSceneSpec(name string) (SceneSpec, error) {
	return LoadSpec[SceneSpec](cleanScenePath(name))
}

// YAMLColor accepts "#rrggbb", "#rrggbbaa" or an SVG color name.
type YAMLColor struct {
	color.RGBA
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}
	parsed, err := ParseColor(value.Value)
	if err != nil {
		return err
	}
	c.RGBA = parsed
	return nil
}

func ParseColor(v string) (color.RGBA, error) {
	v = strings.TrimSpace(v)
	if named, ok := colornames.Map[strings.ToLower(v)]; ok {
		return named, nil
	}

	s := strings.TrimPrefix(v, "#")
	if len(s) != 6 && len(s) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color format: %s", v)
	}

	parse := func(start int) (uint8, error) {
		n, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(n), err
	}

	r, err := parse(0)
	if err != nil {
		return color.RGBA{}, err
	}
	g, err := parse(2)
	if err != nil {
		return color.RGBA{}, err
	}
	b, err := parse(4)
	if err != nil {
		return color.RGBA{}, err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return color.RGBA{}, err
		}
	}

	// views draw premultiplied RGBA
	return color.RGBA{
		R: uint8(uint16(r) * uint16(a) / 255),
		G: uint8(uint16(g) * uint16(a) / 255),
		B: uint8(uint16(b) * uint16(a) / 255),
		A: a,
	}, nil
}

package prefabs

import (
	"image/color"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestLoadConfigMatchesDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	def := DefaultConfig()
	if cfg.PixelsPerMeter != def.PixelsPerMeter || cfg.Backend != def.Backend || cfg.Gravity != def.Gravity {
		t.Fatalf("config.yaml drifted from DefaultConfig: %+v vs %+v", cfg, def)
	}
	if cfg.Fracture != def.Fracture {
		t.Fatalf("fracture config drifted: %+v vs %+v", cfg.Fracture, def.Fracture)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"voronoi", func(c *Config) { c.Fracture.Shaper = "Voronoi" }, false},
		{"unknown_shaper", func(c *Config) { c.Fracture.Shaper = "shards" }, true},
		{"negative_ppm", func(c *Config) { c.PixelsPerMeter = -1 }, true},
		{"negative_ttl", func(c *Config) { c.Fracture.PieceTTLFrames = -5 }, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tc.wantErr {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	cases := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"red", color.RGBA{R: 255, A: 255}, false},
		{"#00ff00", color.RGBA{G: 255, A: 255}, false},
		{"0000ff80", color.RGBA{B: 128, A: 128}, false},
		{"#12345", color.RGBA{}, true},
		{"#gg0000", color.RGBA{}, true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseColor(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestYAMLColorRejectsSequences(t *testing.T) {
	var v struct {
		C YAMLColor `yaml:"c"`
	}
	if err := yaml.Unmarshal([]byte("c: [1, 2, 3]"), &v); err == nil {
		t.Fatalf("expected an error for a non-scalar color")
	}
}

func TestEmbeddedPrefabs(t *testing.T) {
	for _, name := range []string{"crate.yaml", "plank.yaml", "ground.yaml", "ball.yaml", "glass.yaml"} {
		t.Run(name, func(t *testing.T) {
			spec, err := LoadEntityBuildSpec(name)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if spec.Name == "" || len(spec.Components) == 0 {
				t.Fatalf("prefab %s is empty", name)
			}
		})
	}

	for _, name := range []string{"stack", "scenes/spinner.yaml", "prefabs/scenes/stack.yaml"} {
		t.Run("scene_"+name, func(t *testing.T) {
			spec, err := LoadSceneSpec(name)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if len(spec.Entities) == 0 {
				t.Fatalf("scene %s is empty", name)
			}
		})
	}
}

func TestLoadScript(t *testing.T) {
	for _, name := range []string{"plank.tengo", "scripts/glass.tengo", "prefabs/scripts/plank.tengo"} {
		if _, err := LoadScript(name); err != nil {
			t.Fatalf("load %s: %v", name, err)
		}
	}
	if got := ScriptName("/tmp/x/prefabs/scripts/glass.tengo"); got != "glass.tengo" {
		t.Fatalf("expected glass.tengo, got %q", got)
	}
}

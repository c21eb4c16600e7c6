package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if c, _ := cfg.Decode.Color(); c != [4]uint8{255, 255, 255, 255} {
		t.Errorf("unexpected default color %v", c)
	}
	if cfg.Export.Format != "obj" {
		t.Errorf("expected obj format, got %s", cfg.Export.Format)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), FileName)
	data := "logging:\n  level: info\ndecode:\n  raw: true\n  truncated_color: [10, 20, 30, 40]\nexport:\n  format: gltf\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(&Flags{Config: path})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Logging.Level != "info" || !cfg.Decode.Raw || cfg.Export.Format != "gltf" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if c, _ := cfg.Decode.Color(); c != [4]uint8{10, 20, 30, 40} {
		t.Errorf("unexpected color %v", c)
	}
	if !cfg.Export.Skeleton {
		t.Error("expected unset value to keep its default")
	}
}

func TestLoadFlags(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("export:\n  format: gltf\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var flags Flags
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags.Register(fs)
	flags.RegisterFormat(fs)
	if err := fs.Parse([]string{"-config", path, "-debug", "-format", "obj", "-raw"}); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(&flags)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Logging.Level != "debug" || cfg.Export.Format != "obj" || !cfg.Decode.Raw {
		t.Errorf("flags not applied: %+v", cfg)
	}
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	tests := map[string]string{
		"color":  "decode:\n  truncated_color: [1, 2, 3]\n",
		"range":  "decode:\n  truncated_color: [1, 2, 3, 256]\n",
		"format": "export:\n  format: fbx\n",
		"syntax": "logging: [\n",
	}
	for name, data := range tests {
		path := filepath.Join(dir, name+".yaml")
		if err := os.WriteFile(path, []byte(data), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(&Flags{Config: path}); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
	if _, err := Load(&Flags{Config: filepath.Join(dir, "missing.yaml")}); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSaveTo(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "sub", FileName)
	cfg := Default()
	cfg.Export.Format = "gltf"
	cfg.Decode.TruncatedColor = []int{0, 0, 0, 255}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(&Flags{Config: path})
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Export.Format != "gltf" {
		t.Errorf("expected gltf, got %s", loaded.Export.Format)
	}
	if c, _ := loaded.Decode.Color(); c != [4]uint8{0, 0, 0, 255} {
		t.Errorf("unexpected color %v", c)
	}
}

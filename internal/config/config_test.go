package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var envKeys = []string{
	"PROYECTOS_ENV", "PORT", "PROYECTOS_ADDR", "PROYECTOS_STATIC_DIR",
	"PROYECTOS_STORE", "PROYECTOS_DB_PATH", "MONGO_URI",
	"PROYECTOS_SLOT", "PROYECTOS_SLOT_PATH", "REDIS_URL", "PROYECTOS_SLOT_KEY",
	"PROYECTOS_API_URL", "CART_REPO", "CART_PATH", "GITHUB_TOKEN",
	"REACT_APP_GITHUB_TOKEN", "GITHUB_API_URL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestParse_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Addr != ":5000" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.Store.Driver != StoreSQLite || cfg.Store.SQLitePath != "data/proyectos.db" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Slot.Driver != SlotFile || cfg.Slot.Path != "data/sprints.json" || cfg.Slot.Key != "sprints" {
		t.Errorf("Slot = %+v", cfg.Slot)
	}
	if cfg.API.BaseURL != "http://localhost:5000/api" {
		t.Errorf("API = %+v", cfg.API)
	}
	if cfg.Cart.Path != "carrito.json" {
		t.Errorf("Cart = %+v", cfg.Cart)
	}
}

func TestParse_YAMLAndEnvPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7000")
	t.Setenv("GITHUB_TOKEN", "tok")

	cfg, err := Parse([]byte(`
addr: ":6000"
store:
  driver: mongo
  mongo_uri: mongodb://localhost:27017/proyectos
slot:
  driver: sqlite
cart:
  repo: acme/shop
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Addr != ":7000" {
		t.Errorf("Addr = %q, want env override", cfg.Addr)
	}
	if cfg.Store.Driver != StoreMongo || cfg.Store.MongoURI == "" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Slot.Path != "data/slots.db" {
		t.Errorf("Slot.Path = %q", cfg.Slot.Path)
	}
	if cfg.Cart.Repo != "acme/shop" || cfg.Cart.Token != "tok" {
		t.Errorf("Cart = %+v", cfg.Cart)
	}
}

func TestParse_Validation(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		yaml string
		want string
	}{
		{"store:\n  driver: mongo\n", "mongo_uri is required"},
		{"store:\n  driver: postgres\n", "store.driver"},
		{"slot:\n  driver: redis\n", "redis_url is required"},
		{"slot:\n  driver: s3\n", "slot.driver"},
	}
	for _, tt := range tests {
		_, err := Parse([]byte(tt.yaml))
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("Parse(%q) err = %v, want %q", tt.yaml, err, tt.want)
		}
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	clearEnv(t)
	if _, err := Parse([]byte("addr: [")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "proyectos.yaml")
	if err := os.WriteFile(path, []byte("static_dir: web/dist\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StaticDir != "web/dist" {
		t.Errorf("StaticDir = %q", cfg.StaticDir)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("missing .env should be ignored: %v", err)
	}

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("CART_REPO=acme/dotenv\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	os.Unsetenv("CART_REPO")
	t.Cleanup(func() { os.Unsetenv("CART_REPO") })
	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Cart.Repo != "acme/dotenv" {
		t.Errorf("Cart.Repo = %q", cfg.Cart.Repo)
	}
}

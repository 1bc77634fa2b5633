package main

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

func TestPackageConfig(t *testing.T) {
	engine := viper.New()
	engine.Set("engine", "postgresql")
	engine.Set("schema", "migrations")
	engine.Set("source", []string{"ignored"})
	engine.Set("gen.go.sql_package", "pgx/v5")

	bs, err := packageConfig(engine, "2", "internal/modules/subscriptions/service/pg/sql/query.sql")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if strings.Contains(string(bs), "ignored") {
		t.Fatalf("source leaked into config:\n%s", bs)
	}

	var out struct {
		Version string `yaml:"version"`
		SQL     []struct {
			Queries string `yaml:"queries"`
			Gen     struct {
				Go struct {
					Package string `yaml:"package"`
					Out     string `yaml:"out"`
				} `yaml:"go"`
			} `yaml:"gen"`
		} `yaml:"sql"`
	}
	if err := yaml.Unmarshal(bs, &out); err != nil {
		t.Fatalf("yaml: %v\n%s", err, bs)
	}
	if out.Version != "2" || len(out.SQL) != 1 {
		t.Fatalf("config = %+v", out)
	}
	g := out.SQL[0].Gen.Go
	if g.Package != "sql" || g.Out != "internal/modules/subscriptions/service/pg/sql" {
		t.Fatalf("gen = %+v", g)
	}
}

// sqlc генерирует пакет запросов для каждого query.sql из .sqlc.base.yaml:
// имя пакета берётся из каталога файла, код кладётся рядом с ним.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

const tmpConfigName = "sqlc.yaml"

func packageConfig(engine *viper.Viper, version, queryFile string) ([]byte, error) {
	dir := filepath.Dir(queryFile)
	engine.Set("queries", queryFile)
	engine.Set("gen.go.package", filepath.Base(dir))
	engine.Set("gen.go.out", dir)

	settings := engine.AllSettings()
	delete(settings, "source")

	bs, err := yaml.Marshal(map[string]any{
		"version": version,
		"sql":     []any{settings},
	})
	return bs, errors.Wrapf(err, "marshal sqlc config for %s", queryFile)
}

func generate(content []byte) error {
	if err := os.WriteFile(tmpConfigName, content, 0o600); err != nil {
		return errors.Wrap(err, "write sqlc.yaml")
	}
	defer func() { _ = os.Remove(tmpConfigName) }()

	out, err := exec.Command("sqlc", "generate", "--file", tmpConfigName).CombinedOutput()
	return errors.Wrapf(err, "sqlc generate: %s", out)
}

func run(base string) error {
	v := viper.New()
	v.SetConfigFile(base)
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "read %s", base)
	}

	patterns := v.GetStringSlice("sql.0.source")
	if len(patterns) == 0 {
		return errors.New("sql.0.source is empty")
	}
	var files []string
	for _, p := range patterns {
		matched, err := filepath.Glob(p)
		if err != nil {
			return errors.Wrapf(err, "glob %s", p)
		}
		files = append(files, matched...)
	}

	engine := v.Sub("sql.0")
	if engine == nil {
		return errors.New("sql.0 section is missing")
	}
	for _, f := range files {
		content, err := packageConfig(engine, v.GetString("version"), f)
		if err != nil {
			return err
		}
		if err := generate(content); err != nil {
			return err
		}
		fmt.Printf("%s done\n", f)
	}
	return nil
}

func main() {
	base := flag.String("config", ".sqlc.base.yaml", "base sqlc config")
	flag.Parse()

	if err := run(*base); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v2"
)

// FromFile reads the YAML config at filePath into cfg.
// Environment variables are available as {{.NAME}} template fields and as $NAME / ${NAME}.
func FromFile(filePath string, cfg interface{}) error {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read config %s: %w", filePath, err)
	}

	expanded, err := Expand(filePath, content)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(expanded, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", filePath, err)
	}
	return nil
}

// Expand applies the environment to a config document.
func Expand(name string, content []byte) ([]byte, error) {
	t, err := template.New(name).Option("missingkey=zero").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parse config template %s: %w", name, err)
	}

	buf := &bytes.Buffer{}
	if err := t.Execute(buf, environ()); err != nil {
		return nil, fmt.Errorf("render config template %s: %w", name, err)
	}
	return []byte(os.ExpandEnv(buf.String())), nil
}

func environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		pair := strings.SplitN(kv, "=", 2)
		if len(pair) == 2 {
			env[pair[0]] = pair[1]
		}
	}
	return env
}

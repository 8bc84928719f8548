package guildfile

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

// Compile renders the template at templatePath with the YAML variables read
// from varsPath. Referencing a missing variable is an error.
func Compile(templatePath, varsPath string) ([]byte, error) {
	text, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}

	vars := map[string]any{}
	if varsPath != "" {
		data, err := os.ReadFile(varsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read vars file: %w", err)
		}
		if err := yaml.Unmarshal(data, &vars); err != nil {
			return nil, fmt.Errorf("failed to parse vars file: %w", err)
		}
	}

	return Render(templatePath, string(text), vars)
}

var funcs = template.FuncMap{
	"join": func(items []any, sep string) string {
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, sep)
	},
	"lower": strings.ToLower,
	"upper": strings.ToUpper,
}

// Render executes a guild file template with vars.
func Render(name, text string, vars map[string]any) ([]byte, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Funcs(funcs).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return nil, fmt.Errorf("failed to render template: %w", err)
	}
	return buf.Bytes(), nil
}

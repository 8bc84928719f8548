package guildfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format is a serialization format for guild files.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the format matching the file extension of path.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported guild file extension %q (must be .yaml, .yml, .json or .toml)", filepath.Ext(path))
	}
}

// Load reads the guild file at path.
func Load(path string) (*Params, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read guild file: %w", err)
	}
	params, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse guild file %s: %w", path, err)
	}
	return params, nil
}

// Decode parses data in the given format. Unknown fields are rejected.
func Decode(data []byte, format Format) (*Params, error) {
	var p Params
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&p); err != nil {
			return nil, err
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &p)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown fields: %v", undecoded)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", string(format))
	}
	return &p, nil
}

// Encode serializes params in the given format.
func Encode(p *Params, format Format) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(p); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(p); err != nil {
			return nil, err
		}
	case FormatTOML:
		if err := toml.NewEncoder(&buf).Encode(p); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", string(format))
	}
	return buf.Bytes(), nil
}

// Save writes params to path in the format matching its extension.
func Save(path string, p *Params) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := Encode(p, format)
	if err != nil {
		return fmt.Errorf("failed to encode guild file: %w", err)
	}
	return WriteFile(path, data)
}

// WriteFile atomically replaces path with data.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".guildsync-tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

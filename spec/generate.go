package spec

import (
	"bytes"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/aallbrig/compspec/models"
)

// Generator writes completion specifications.
type Generator struct{}

// FileName is the conventional file name of the spec for a root command.
func (Generator) FileName(name string) string {
	return name + ".yaml"
}

// Generate builds the spec of cmd and writes it to w in a single write.
func (Generator) Generate(cmd *models.Command, w io.Writer) error {
	data, err := Marshal(cmd)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write spec: %w", err)
	}
	return nil
}

// Marshal returns the YAML document for cmd.
func Marshal(cmd *models.Command) ([]byte, error) {
	return Encode(CommandFor(cmd))
}

// Encode serializes an already built spec.
func Encode(c Command) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encode spec: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode spec: %w", err)
	}
	return buf.Bytes(), nil
}

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// branchInfo is the serialized view of a branch for --format json|yaml.
type branchInfo struct {
	Name      string `json:"name" yaml:"name"`
	Canonical string `json:"canonical" yaml:"canonical"`
	Type      string `json:"type" yaml:"type"`
	Target    string `json:"target,omitempty" yaml:"target,omitempty"`
	Symbolic  string `json:"symbolic,omitempty" yaml:"symbolic,omitempty"`
	Head      bool   `json:"head" yaml:"head"`
	Remote    string `json:"remote,omitempty" yaml:"remote,omitempty"`
	Upstream  string `json:"upstream,omitempty" yaml:"upstream,omitempty"`
	Author    string `json:"author,omitempty" yaml:"author,omitempty"`
	Subject   string `json:"subject,omitempty" yaml:"subject,omitempty"`
}

func validateFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
}

func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format %q", format)
}

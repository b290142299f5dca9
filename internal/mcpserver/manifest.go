package mcpserver

import "encoding/json"

const (
	manifestSchema = "https://static.modelcontextprotocol.io/schemas/2025-10-17/server.schema.json"
	manifestName   = "io.github.panbanda/qosrank"
	repositoryURL  = "https://github.com/panbanda/qosrank"
	imageRepo      = "ghcr.io/panbanda/qosrank"
)

// Manifest is the registry server.json document.
type Manifest struct {
	Schema      string      `json:"$schema"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Version     string      `json:"version"`
	Repository  *Repository `json:"repository,omitempty"`
	Packages    []Package   `json:"packages,omitempty"`
}

type Repository struct {
	URL    string `json:"url"`
	Source string `json:"source"`
}

// Package is one way of launching the server: the qosrank image run with
// the mcp subcommand over stdio.
type Package struct {
	RegistryType         string        `json:"registryType"`
	Identifier           string        `json:"identifier"`
	Version              string        `json:"version,omitempty"`
	PackageArguments     []Argument    `json:"packageArguments,omitempty"`
	EnvironmentVariables []EnvVariable `json:"environmentVariables,omitempty"`
	Transport            Transport     `json:"transport"`
}

type Argument struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

// EnvVariable documents an environment variable the server reads.
type EnvVariable struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsRequired  bool   `json:"isRequired,omitempty"`
}

type Transport struct {
	Type string `json:"type"`
}

// GenerateManifest returns the indented server.json for version. An empty
// version (dev builds) is published as 0.0.0.
func GenerateManifest(version string) ([]byte, error) {
	if version == "" {
		version = "0.0.0"
	}

	image := Package{
		RegistryType:     "oci",
		Identifier:       imageRepo + ":" + version,
		Version:          version,
		PackageArguments: []Argument{{Type: "positional", Value: "mcp"}},
		EnvironmentVariables: []EnvVariable{{
			Name:        "QOSRANK_CONFIG",
			Description: "Path to a qosrank config file with polarity overrides, lambda, v and fuzzy thresholds",
		}},
		Transport: Transport{Type: "stdio"},
	}

	return json.MarshalIndent(Manifest{
		Schema:      manifestSchema,
		Name:        manifestName,
		Description: "Rank web services on QoS criteria with entropy weights, WASPAS, VIKOR and Fuzzy TOPSIS",
		Version:     version,
		Repository:  &Repository{URL: repositoryURL, Source: "github"},
		Packages:    []Package{image},
	}, "", "  ")
}

package idl

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/idl-codec/errors"
)

// rawIDL accepts both the current Anchor layout (metadata block, explicit
// discriminators) and the legacy one (top-level name, account bodies inline).
type rawIDL struct {
	Metadata *struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"metadata"`
	Address  string       `json:"address"`
	Name     string       `json:"name"`
	Version  string       `json:"version"`
	Accounts []rawAccount `json:"accounts"`
	Types    []TypeDef    `json:"types"`
}

type rawAccount struct {
	Type          *TypeDefBody  `json:"type"`
	Name          string        `json:"name"`
	Discriminator Discriminator `json:"discriminator"`
}

// Parse decodes a JSON IDL. Comments and trailing commas are allowed.
func Parse(data []byte) (*IDL, error) {
	var raw rawIDL
	if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
		return nil, errors.ParseFailed("IDL JSON", err)
	}
	return raw.normalize(), nil
}

// ParseYAML decodes a YAML IDL with the same structure as the JSON form.
func ParseYAML(data []byte) (*IDL, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.ParseFailed("IDL YAML", err)
	}
	asJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.ParseFailed("IDL YAML", err)
	}
	return Parse(asJSON)
}

// ParseFile reads an IDL file, choosing YAML for .yaml/.yml and JSON
// otherwise.
func ParseFile(path string) (*IDL, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "read "+path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return Parse(data)
	}
}

// normalize fills metadata, lifts inline account bodies into the type set
// and derives missing discriminators.
func (r *rawIDL) normalize() *IDL {
	out := &IDL{
		Address: r.Address,
		Name:    r.Name,
		Version: r.Version,
		Types:   r.Types,
	}
	if r.Metadata != nil {
		if out.Name == "" {
			out.Name = r.Metadata.Name
		}
		if out.Version == "" {
			out.Version = r.Metadata.Version
		}
	}

	for _, acc := range r.Accounts {
		if acc.Type != nil {
			if _, ok := FindTypeDef(out.Types, acc.Name); !ok {
				out.Types = append(out.Types, TypeDef{Name: acc.Name, Type: *acc.Type})
			}
		}
		disc := acc.Discriminator
		if len(disc) == 0 {
			disc = DefaultDiscriminator(acc.Name)
		}
		out.Accounts = append(out.Accounts, AccountDef{Name: acc.Name, Discriminator: disc})
	}
	return out
}

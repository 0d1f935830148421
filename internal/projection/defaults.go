package projection

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// defaultFieldTable holds the per-entity default field sets loaded from the
// embedded YAML file.
type defaultFieldTable struct {
	Conversation []string `yaml:"conversation"`
	Block        []string `yaml:"block"`
	Response     []string `yaml:"response"`
}

var defaults defaultFieldTable

// nestedDefaults maps a nested-collection field name to the default field set
// of its element type.
var nestedDefaults map[string][]string

func init() {
	if err := yaml.Unmarshal(defaultsYAML, &defaults); err != nil {
		panic(fmt.Sprintf("projection: invalid defaults.yaml: %v", err))
	}

	nestedDefaults = map[string][]string{
		"blocks":    defaults.Block,
		"responses": defaults.Response,
	}
}

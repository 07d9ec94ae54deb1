package tool

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/cliff-rosen/jam-bot-sub001/internal/types"
)

// catalogFile is the on-disk shape of a tool catalog.
type catalogFile struct {
	Tools []map[string]any `yaml:"tools"`
}

// LoadCatalog reads a YAML tool catalog from disk and registers every
// entry. Entries are decoded loosely first and then mapped onto Spec so a
// catalog written by hand gets a field-level error instead of a YAML
// position.
func LoadCatalog(path string, registry Registry) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.WrapError(types.CATALOG_LOAD_FAILED,
			fmt.Sprintf("cannot read catalog %s", path), err)
	}
	return ParseCatalog(data, registry)
}

// ParseCatalog decodes catalog YAML and registers every tool spec.
func ParseCatalog(data []byte, registry Registry) error {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return types.WrapError(types.CATALOG_PARSE_FAILED, "catalog is not valid YAML", err)
	}

	for i, raw := range file.Tools {
		spec, err := decodeSpec(raw)
		if err != nil {
			return types.WrapError(types.CATALOG_PARSE_FAILED,
				fmt.Sprintf("catalog entry %d is malformed", i), err)
		}
		if err := registry.Register(spec); err != nil {
			return err
		}
	}
	return nil
}

// decodeSpec maps a loosely typed catalog entry onto a Spec.
func decodeSpec(raw map[string]any) (Spec, error) {
	var spec Spec
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "yaml",
		ErrorUnused: true,
		Result:      &spec,
	})
	if err != nil {
		return Spec{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return Spec{}, err
	}
	return spec, nil
}

package stations

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"exusiai.dev/shiftboard/internal/util"
)

type file struct {
	Version  string     `yaml:"version" validate:"required"`
	Stations []*Station `yaml:"stations" validate:"min=1,dive"`
}

var validate = util.NewValidator()

func LoadFile(path string) (*Grouping, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read stations file")
	}
	return Parse(b)
}

// Parse decodes a YAML stations document:
//
//	version: plant-2024-01
//	stations:
//	  - name: Generado
//	    machines: ["241 GENERATOR 1", "242 GENERATOR 2"]
func Parse(b []byte) (*Grouping, error) {
	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, errors.Wrap(err, "failed to decode stations file")
	}
	if err := validate.Struct(f); err != nil {
		return nil, errors.Wrap(ErrInvalidGrouping, err.Error())
	}
	return NewGrouping(f.Version, f.Stations)
}

package shiftday

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"exusiai.dev/shiftboard/internal/model"
	"exusiai.dev/shiftboard/internal/util"
)

// File is the on-disk representation of a schedule:
//
//	version: plant-2024-01
//	anchor: "22:00"
//	shifts:
//	  - { name: night, start: 0h, end: 8h30m, nominalHours: 8 }
//	  - { name: morning, start: 8h30m, end: 16h30m, nominalHours: 8 }
//	  - { name: afternoon, start: 16h30m, end: 24h, nominalHours: 7 }
//	exclusions: ["21:30-22:00"]
//	rule: 'machine startsWith "TEST"'
type File struct {
	Version    string      `yaml:"version" validate:"required"`
	Anchor     string      `yaml:"anchor" validate:"required"`
	Shifts     []FileShift `yaml:"shifts" validate:"len=3,dive"`
	Exclusions []string    `yaml:"exclusions" validate:"dive,clockwindow"`
	Rule       string      `yaml:"rule"`
}

type FileShift struct {
	Name         string  `yaml:"name" validate:"required,oneof=night morning afternoon"`
	Start        string  `yaml:"start" validate:"required"`
	End          string  `yaml:"end" validate:"required"`
	NominalHours float64 `yaml:"nominalHours" validate:"gt=0,lte=24"`
}

var validate = util.NewValidator()

// LoadFile reads a schedule from a YAML file. The location is not part of the
// file and is always taken from configuration.
func LoadFile(path string, loc *time.Location) (*Schedule, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read schedule file")
	}
	return Parse(b, loc)
}

func Parse(b []byte, loc *time.Location) (*Schedule, error) {
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, errors.Wrap(err, "failed to decode schedule file")
	}
	if err := validate.Struct(f); err != nil {
		return nil, errors.Wrap(ErrInvalidSchedule, err.Error())
	}

	anchor, err := parseClock(f.Anchor)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidSchedule, err.Error())
	}

	s := &Schedule{
		Version:      f.Version,
		AnchorHour:   anchor / 60,
		AnchorMinute: anchor % 60,
		Location:     loc,
	}
	for _, fs := range f.Shifts {
		start, err := time.ParseDuration(fs.Start)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidSchedule, "shift %q start: %s", fs.Name, err)
		}
		end, err := time.ParseDuration(fs.End)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidSchedule, "shift %q end: %s", fs.Name, err)
		}
		s.Shifts = append(s.Shifts, ShiftDefinition{
			Name:         model.ShiftName(fs.Name),
			StartOffset:  start,
			EndOffset:    end,
			NominalHours: fs.NominalHours,
		})
	}
	for _, raw := range f.Exclusions {
		w, err := ParseClockWindow(raw)
		if err != nil {
			return nil, errors.Wrap(ErrInvalidSchedule, err.Error())
		}
		s.Exclusions = append(s.Exclusions, w)
	}
	if f.Rule != "" {
		if s.Rule, err = CompileExclusionRule(f.Rule); err != nil {
			return nil, errors.Wrap(ErrInvalidSchedule, err.Error())
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

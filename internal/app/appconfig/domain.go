package appconfig

import (
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"exusiai.dev/shiftboard/internal/pkg/shiftday"
	"exusiai.dev/shiftboard/internal/pkg/stations"
)

// Schedule builds the shift schedule from configuration. The timezone is
// loaded exactly once here and threaded through the schedule from then on.
func Schedule(conf *Config) (*shiftday.Schedule, error) {
	loc, err := time.LoadLocation(conf.Timezone)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load plant timezone %q", conf.Timezone)
	}

	if conf.ScheduleFile != "" {
		s, err := shiftday.LoadFile(conf.ScheduleFile, loc)
		if err != nil {
			return nil, err
		}
		log.Info().
			Str("evt.name", "schedule.loaded").
			Str("file", conf.ScheduleFile).
			Str("version", s.Version).
			Msg("loaded shift schedule from file")
		return s, nil
	}

	s := shiftday.DefaultSchedule(loc, conf.ShiftBuffer, shiftday.Nominal{
		Night:     conf.NominalNightHours,
		Morning:   conf.NominalMorningHours,
		Afternoon: conf.NominalAfternoonHours,
	})
	s.AnchorHour = conf.AnchorHour
	s.AnchorMinute = conf.AnchorMinute
	s.Exclusions = conf.ExclusionWindows
	if conf.ExclusionRule != "" {
		if s.Rule, err = shiftday.CompileExclusionRule(conf.ExclusionRule); err != nil {
			return nil, err
		}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func Grouping(conf *Config) (*stations.Grouping, error) {
	if conf.StationsFile == "" {
		return stations.Default(), nil
	}
	return stations.LoadFile(conf.StationsFile)
}

// Package stations maps machines to the stations (process steps) they belong
// to. One Grouping is shared by the aggregator and the goal resolver so a
// station's total and its goal are always computed over the same machines.
package stations

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

var ErrInvalidGrouping = errors.New("invalid station grouping")

type Station struct {
	Name     string   `json:"name" yaml:"name" validate:"required"`
	Machines []string `json:"machines" yaml:"machines" validate:"min=1,dive,required"`
}

type Grouping struct {
	Version  string     `json:"version"`
	Stations []*Station `json:"stations"`

	byMachine map[string]string
	byName    map[string]*Station
}

// Normalize canonicalizes a machine key: surrounding whitespace trimmed, upper
// case, inner whitespace runs collapsed to a single space.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToUpper(s)), " ")
}

// NewGrouping indexes the stations. A machine may belong to at most one
// station, and station names must be unique.
func NewGrouping(version string, stations []*Station) (*Grouping, error) {
	g := &Grouping{
		Version:   version,
		Stations:  stations,
		byMachine: make(map[string]string),
		byName:    make(map[string]*Station, len(stations)),
	}
	for _, st := range stations {
		if st.Name == "" {
			return nil, errors.Wrap(ErrInvalidGrouping, "station without name")
		}
		if _, ok := g.byName[st.Name]; ok {
			return nil, errors.Wrapf(ErrInvalidGrouping, "duplicate station %q", st.Name)
		}
		g.byName[st.Name] = st
		for _, m := range st.Machines {
			key := Normalize(m)
			if other, ok := g.byMachine[key]; ok {
				return nil, errors.Wrapf(ErrInvalidGrouping, "machine %q is listed in both %q and %q", m, other, st.Name)
			}
			g.byMachine[key] = st.Name
		}
	}
	return g, nil
}

func (g *Grouping) StationOf(machine string) (string, bool) {
	name, ok := g.byMachine[Normalize(machine)]
	return name, ok
}

func (g *Grouping) IsStation(key string) bool {
	_, ok := g.byName[key]
	return ok
}

// Members returns the normalized machine keys of a station, or nil.
func (g *Grouping) Members(station string) []string {
	st, ok := g.byName[station]
	if !ok {
		return nil
	}
	return lo.Map(st.Machines, func(m string, _ int) string { return Normalize(m) })
}

// Names returns station names in configuration order.
func (g *Grouping) Names() []string {
	return lo.Map(g.Stations, func(st *Station, _ int) string { return st.Name })
}

// GroupFunc maps a machine name to the scope it is aggregated under. ok is
// false when the machine has no scope and must be skipped.
type GroupFunc func(machine string) (scope string, ok bool)

func Identity(machine string) (string, bool) {
	key := Normalize(machine)
	return key, key != ""
}

// Station returns the GroupFunc collapsing machines into their stations.
func (g *Grouping) Station() GroupFunc {
	return g.StationOf
}

// Prefix groups machines by the part of their name before sep, so that
// "254 IFLEX SRVR-A" and "254 IFLEX SRVR-B" fall under "254 IFLEX SRVR".
func Prefix(sep string) GroupFunc {
	return func(machine string) (string, bool) {
		head := machine
		if i := strings.Index(machine, sep); i >= 0 {
			head = machine[:i]
		}
		key := Normalize(head)
		return key, key != ""
	}
}

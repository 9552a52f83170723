package v1

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exusiai.dev/shiftboard/internal/app/appconfig"
	"exusiai.dev/shiftboard/internal/model"
	"exusiai.dev/shiftboard/internal/pkg/shiftday"
	"exusiai.dev/shiftboard/internal/pkg/stations"
	"exusiai.dev/shiftboard/internal/repo"
	"exusiai.dev/shiftboard/internal/server/httpserver"
	"exusiai.dev/shiftboard/internal/server/svr"
	"exusiai.dev/shiftboard/internal/service"
)

var plant = time.FixedZone("CST", -6*60*60)

type upstream struct {
	fail bool
}

func (u *upstream) err() error {
	if u.fail {
		return errors.Wrap(repo.ErrUpstream, "connection refused")
	}
	return nil
}

func (u *upstream) Goals(context.Context, string) ([]model.GoalEntry, error) {
	if u.fail {
		return nil, u.err()
	}
	return []model.GoalEntry{{MachineKey: "241 GENERATOR 1", HourlyTarget: 6}}, nil
}

func (u *upstream) TodayRecords(context.Context, string) ([]model.ProductionEvent, error) {
	return nil, u.err()
}

func (u *upstream) HistoryRecords(_ context.Context, year int, month time.Month, day int) ([]model.ProductionEvent, error) {
	if u.fail {
		return nil, u.err()
	}
	if year == 2024 && month == time.March && day == 10 {
		return []model.ProductionEvent{{MachineName: "241 GENERATOR 1", Date: "2024-03-10", TimeOfDay: "08:00", Count: 50}}, nil
	}
	return nil, nil
}

func (u *upstream) ScrapCounts(context.Context) ([]model.ProductionEvent, error) {
	if u.fail {
		return nil, u.err()
	}
	return []model.ProductionEvent{{MachineName: repo.ScrapScope, Date: "2024-03-10", TimeOfDay: "08:00:00", Count: 3}}, nil
}

func (u *upstream) ScrapProduction(context.Context) ([]model.ProductionEvent, error) {
	if u.fail {
		return nil, u.err()
	}
	return []model.ProductionEvent{{Date: "2024-03-10", TimeOfDay: "08:00:00", Count: 40}}, nil
}

func (u *upstream) ScrapReasons(context.Context) ([]model.ScrapReason, error) {
	return nil, u.err()
}

func newApp(t *testing.T, up *upstream) *fiber.App {
	t.Helper()

	conf := &appconfig.Config{ConfigSpec: appconfig.ConfigSpec{
		UpstreamSources:     []string{"generado"},
		GoalFamilies:        []string{"generadores"},
		UpstreamConcurrency: 1,
		PrefixSeparator:     "-",
		NatsSubject:         "SHIFTBOARD.snapshot",
		ArchiveEnabled:      true,
		SnapshotCacheTTL:    time.Minute,
		GoalCacheTTL:        time.Minute,
		ScrapCacheTTL:       time.Minute,
	}}
	schedule := shiftday.DefaultSchedule(plant, shiftday.DefaultBuffer, shiftday.DefaultNominal)
	grouping := stations.Default()
	archive := repo.NewArchive(nil)

	snapshot := service.NewSnapshot(conf, schedule, grouping,
		service.NewGoal(conf, up, grouping),
		service.NewProduction(conf, up),
		service.NewPublisher(conf, nil),
		archive, nil)

	app := fiber.New(fiber.Config{ErrorHandler: httpserver.ErrorHandler})
	v1, _ := svr.CreateEndpointGroups(app)
	RegisterSnapshot(v1, SnapshotController{SnapshotService: snapshot})
	RegisterSchedule(v1, ScheduleController{Schedule: schedule})
	RegisterStations(v1, StationsController{Grouping: grouping})
	RegisterSummary(v1, SummaryController{ArchiveService: service.NewArchiver(conf, archive, snapshot)})
	RegisterScrap(v1, ScrapController{ScrapService: service.NewScrap(conf, schedule, up, nil)})
	return app
}

func get(t *testing.T, app *fiber.App, target string) (int, []byte) {
	t.Helper()
	res, err := app.Test(httptest.NewRequest(fiber.MethodGet, target, nil), -1)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, body
}

func TestStatusCodes(t *testing.T) {
	app := newApp(t, &upstream{})

	type testCase struct {
		target string
		status int
		code   string
	}

	testCases := []testCase{
		{"/api/v1/snapshot", fiber.StatusOK, ""},
		{"/api/v1/snapshot?mode=Station", fiber.StatusOK, ""},
		{"/api/v1/snapshot?mode=team", fiber.StatusBadRequest, "INVALID_REQUEST"},
		{"/api/v1/snapshot/2024-03-10", fiber.StatusOK, ""},
		{"/api/v1/snapshot/2024-3-10", fiber.StatusBadRequest, "INVALID_REQUEST"},
		{"/api/v1/snapshot/2999-01-01", fiber.StatusBadRequest, "INVALID_REQUEST"},
		{"/api/v1/schedule", fiber.StatusOK, ""},
		{"/api/v1/schedule?date=10-03-2024", fiber.StatusBadRequest, "INVALID_REQUEST"},
		{"/api/v1/stations", fiber.StatusOK, ""},
		{"/api/v1/summaries?from=2024-03-10&to=2024-03-11", fiber.StatusNotFound, "NOT_FOUND"},
		{"/api/v1/summaries?from=2024-03-10", fiber.StatusBadRequest, "INVALID_REQUEST"},
		{"/api/v1/scrap", fiber.StatusOK, ""},
		{"/api/v1/scrap?date=2024-03-10", fiber.StatusOK, ""},
		{"/api/v1/scrap?date=2024-3-10", fiber.StatusBadRequest, "INVALID_REQUEST"},
		{"/api/v1/scrap?date=2999-01-01", fiber.StatusBadRequest, "INVALID_REQUEST"},
	}

	for _, tc := range testCases {
		status, body := get(t, app, tc.target)
		assert.Equal(t, tc.status, status, "%s: %s", tc.target, body)
		if tc.code != "" {
			var e struct {
				Code string `json:"code"`
			}
			require.NoError(t, json.Unmarshal(body, &e))
			assert.Equal(t, tc.code, e.Code, tc.target)
		}
	}
}

func TestGetSnapshotByDate(t *testing.T) {
	app := newApp(t, &upstream{})

	res, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/snapshot/2024-03-10?slots=true", nil), -1)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Contains(t, res.Header.Get(fiber.HeaderCacheControl), "public")

	var snap model.Snapshot
	require.NoError(t, json.NewDecoder(res.Body).Decode(&snap))
	assert.Equal(t, "machine", snap.Mode)
	assert.NotEmpty(t, snap.ID)

	sc := snap.Scope("241 GENERATOR 1")
	require.NotNil(t, sc)
	assert.Equal(t, 50, sc.DayTotal)
	assert.Equal(t, 6.0, sc.HourlyTarget.Float64)
	assert.Len(t, sc.Slots, 25)

	morning, _ := sc.Shift(model.ShiftMorning)
	assert.Equal(t, 48.0, morning.Goal)
	assert.Equal(t, model.VerdictMetOrAbove, morning.Verdict)
}

func TestGetSnapshotOmitsSlotsByDefault(t *testing.T) {
	app := newApp(t, &upstream{})

	status, body := get(t, app, "/api/v1/snapshot?mode=station")
	require.Equal(t, fiber.StatusOK, status)

	var snap model.Snapshot
	require.NoError(t, json.Unmarshal(body, &snap))
	assert.Equal(t, "station", snap.Mode)
	require.NotEmpty(t, snap.Scopes)
	for _, sc := range snap.Scopes {
		assert.Empty(t, sc.Slots)
	}
	assert.NotContains(t, string(body), `"slots"`)
}

func TestGetSnapshotUpstreamDown(t *testing.T) {
	app := newApp(t, &upstream{fail: true})

	status, body := get(t, app, "/api/v1/snapshot")
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Contains(t, string(body), "UPSTREAM_UNAVAILABLE")
}

func TestGetSchedule(t *testing.T) {
	app := newApp(t, &upstream{})

	status, body := get(t, app, "/api/v1/schedule?date=2024-03-10")
	require.Equal(t, fiber.StatusOK, status)

	var r ScheduleResponse
	require.NoError(t, json.Unmarshal(body, &r))
	assert.Equal(t, "2024-03-10", r.Date)
	assert.True(t, r.Day.Anchor.Equal(time.Date(2024, time.March, 9, 22, 0, 0, 0, plant)))
	require.Len(t, r.Day.Shifts, 3)
	assert.Equal(t, model.ShiftNight, r.Day.Shifts[0].Name)
	assert.True(t, r.Day.Shifts[1].Start.Equal(time.Date(2024, time.March, 10, 6, 30, 0, 0, plant)))
	assert.Equal(t, 7.0, r.Day.Shifts[2].NominalHours)
}

func TestGetStations(t *testing.T) {
	app := newApp(t, &upstream{})

	status, body := get(t, app, "/api/v1/stations")
	require.Equal(t, fiber.StatusOK, status)

	var g struct {
		Version  string             `json:"version"`
		Stations []stations.Station `json:"stations"`
	}
	require.NoError(t, json.Unmarshal(body, &g))
	assert.Equal(t, stations.DefaultVersion, g.Version)
	assert.Equal(t, "Surtido", g.Stations[0].Name)
}

func TestGetScrap(t *testing.T) {
	type testCase struct {
		name     string
		upstream *upstream
		target   string
		status   int
		contains []string
	}

	testCases := []testCase{
		{
			name:     "closed day",
			upstream: &upstream{},
			target:   "/api/v1/scrap?date=2024-03-10",
			status:   fiber.StatusOK,
			contains: []string{`"scrap":3`, `"production":40`, `"scrapRate":7.5`},
		},
		{
			name:     "day without production",
			upstream: &upstream{},
			target:   "/api/v1/scrap?date=2024-03-11",
			status:   fiber.StatusOK,
			contains: []string{`"scrap":0`, `"scrapRate":null`, `"latest":null`},
		},
		{
			name:     "upstream down",
			upstream: &upstream{fail: true},
			target:   "/api/v1/scrap?date=2024-03-10",
			status:   fiber.StatusServiceUnavailable,
			contains: []string{"UPSTREAM_UNAVAILABLE"},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			status, body := get(t, newApp(t, tc.upstream), tc.target)
			assert.Equal(t, tc.status, status, string(body))
			for _, c := range tc.contains {
				assert.Contains(t, string(body), c)
			}
		})
	}
}

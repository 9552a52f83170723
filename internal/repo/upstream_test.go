package repo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exusiai.dev/shiftboard/internal/app/appconfig"
	"exusiai.dev/shiftboard/internal/model"
)

func newUpstream(url string) *Upstream {
	return NewUpstream(&appconfig.Config{ConfigSpec: appconfig.ConfigSpec{
		UpstreamBaseURL:    url,
		UpstreamTimeout:    time.Second,
		UpstreamRetries:    2,
		UpstreamRetryDelay: time.Millisecond,
	}})
}

func TestParseRecords(t *testing.T) {
	body := []byte(`{"registros":[
		{"name":"320 DEBLOCKING 1","fecha":"2024-03-10","hour":"07:00:00","hits":12},
		{"name":"241 GENERATOR 1","fecha":"2024-03-10","hour":"07:10","hits":"8"},
		{"name":"241 GENERATOR 1","fecha":"2024-03-10","hour":"07:20","hits":"x"}
	]}`)

	got := ParseRecords(body)
	assert.Equal(t, []model.ProductionEvent{
		{MachineName: "320 DEBLOCKING 1", Date: "2024-03-10", TimeOfDay: "07:00:00", Count: 12},
		{MachineName: "241 GENERATOR 1", Date: "2024-03-10", TimeOfDay: "07:10", Count: 8},
		{MachineName: "241 GENERATOR 1", Date: "2024-03-10", TimeOfDay: "07:20", Count: -1},
	}, got)
}

func TestParseHits(t *testing.T) {
	type testCase struct {
		name string
		row  string
		want int
	}

	testCases := []testCase{
		{name: "number", row: `{"hits":12}`, want: 12},
		{name: "numeric string", row: `{"hits":" 8 "}`, want: 8},
		{name: "null", row: `{"hits":null}`, want: 0},
		{name: "absent", row: `{}`, want: 0},
		{name: "empty string", row: `{"hits":""}`, want: 0},
		{name: "garbage", row: `{"hits":"x"}`, want: -1},
		{name: "boolean", row: `{"hits":true}`, want: -1},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := ParseRecords([]byte(`{"registros":[` + tc.row + `]}`))
			require.Len(t, got, 1)
			assert.Equal(t, tc.want, got[0].Count)
		})
	}
}

func TestParseGroupedRecords(t *testing.T) {
	body := []byte(`{"registros":{
		"tallado":[{"name":"220 SRFBLK 1","fecha":"2024-03-10","hour":"08:00","hits":1}],
		"pulido":[{"name":"255 POLISHR 1","fecha":"2024-03-10","hour":"09:00","hits":2}]
	}}`)

	got := ParseRecords(body)
	assert.Len(t, got, 2)
	assert.Empty(t, ParseRecords([]byte(`{}`)))
}

func TestParseScrapCounts(t *testing.T) {
	body := []byte(`{"registros":[
		{"id":1,"fecha":"2024-03-09","hora":"22:00:00","total":4},
		{"id":2,"fecha":"2024-03-10","hora":"07:00:00","total":"3"},
		{"id":3,"fecha":"2024-03-10","hora":"08:00:00","total":null}
	]}`)

	assert.Equal(t, []model.ProductionEvent{
		{MachineName: ScrapScope, Date: "2024-03-09", TimeOfDay: "22:00:00", Count: 4},
		{MachineName: ScrapScope, Date: "2024-03-10", TimeOfDay: "07:00:00", Count: 3},
		{MachineName: ScrapScope, Date: "2024-03-10", TimeOfDay: "08:00:00", Count: 0},
	}, ParseScrapCounts(body))
}

func TestParseScrapReasons(t *testing.T) {
	body := []byte(`{"registros":[
		{"id":1,"hora":"23:00:00","razon":" Rayado ","total":2},
		{"id":2,"hora":"","razon":"Roto","total":1},
		{"id":3,"hora":"07:00:00","razon":"Roto","total":"5"}
	]}`)

	assert.Equal(t, []model.ScrapReason{
		{Hour: "23:00:00", Reason: "Rayado", Total: 2},
		{Hour: "07:00:00", Reason: "Roto", Total: 5},
	}, ParseScrapReasons(body))
}

func TestParseGoals(t *testing.T) {
	body := []byte(`{"registros":[{"name":"320 DEBLOCKING 1","meta":10},{"name":"","meta":3},{"name":"19 LENS LOG","meta":"7.5"}]}`)

	got := ParseGoals(body, "terminados")
	assert.Equal(t, []model.GoalEntry{
		{MachineKey: "320 DEBLOCKING 1", HourlyTarget: 10, Family: "terminados"},
		{MachineKey: "19 LENS LOG", HourlyTarget: 7.5, Family: "terminados"},
	}, got)
}

func TestUpstreamPaths(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_, _ = w.Write([]byte(`{"registros":[]}`))
	}))
	defer srv.Close()

	u := newUpstream(srv.URL + "/")
	ctx := context.Background()

	_, err := u.TodayRecords(ctx, "tallado")
	require.NoError(t, err)
	_, err = u.HistoryRecords(ctx, 2024, time.March, 9)
	require.NoError(t, err)
	_, err = u.Goals(ctx, "generadores")
	require.NoError(t, err)
	_, err = u.ScrapCounts(ctx)
	require.NoError(t, err)
	_, err = u.ScrapProduction(ctx)
	require.NoError(t, err)
	_, err = u.ScrapReasons(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/tallado/tallado/actualdia",
		"/historial/historial-2/2024/3/9",
		"/metas/metas-generadores",
		"/mermas/conteo_de_mermas",
		"/mermas/produccion",
		"/mermas/razones_de_merma",
	}, paths)
}

func TestUpstreamRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"registros":[{"name":"A","fecha":"2024-03-10","hour":"07:00","hits":1}]}`))
	}))
	defer srv.Close()

	got, err := newUpstream(srv.URL).TodayRecords(context.Background(), "manual")
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestUpstreamClientErrorIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newUpstream(srv.URL).Goals(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDisabledArchive(t *testing.T) {
	a := NewArchive(nil)
	ctx := context.Background()

	assert.False(t, a.Enabled())
	assert.NoError(t, a.Ping(ctx))

	_, err := a.GetDay(ctx, time.Now(), "machine")
	assert.Error(t, err)

	ok, err := a.Exists(ctx, time.Now(), "machine")
	assert.NoError(t, err)
	assert.False(t, ok)

	saved, err := a.SaveDay(ctx, &model.ArchivedDay{}, nil)
	assert.NoError(t, err)
	assert.False(t, saved)
}

func TestUpstreamPing(t *testing.T) {
	var method string
	lab := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		w.WriteHeader(http.StatusNotFound)
	}))
	defer lab.Close()

	gone := httptest.NewServer(http.NotFoundHandler())
	gone.Close()

	type testCase struct {
		name    string
		url     string
		wantErr bool
	}

	testCases := []testCase{
		{name: "any answer counts", url: lab.URL},
		{name: "connection refused", url: gone.URL, wantErr: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := newUpstream(tc.url).Ping(context.Background())
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
	assert.Equal(t, http.MethodHead, method)
}

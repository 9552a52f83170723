package repo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"exusiai.dev/shiftboard/internal/app/appconfig"
	"exusiai.dev/shiftboard/internal/model"
	"exusiai.dev/shiftboard/internal/pkg/observability"
)

var ErrUpstream = errors.New("upstream request failed")

// StatusError is returned for non-2xx answers from the lab API.
type StatusError struct {
	StatusCode int
	Path       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s answered %d", e.Path, e.StatusCode)
}

// Upstream reads production records and goals from the lab API.
type Upstream struct {
	baseURL  string
	client   *http.Client
	attempts uint
	delay    time.Duration
}

func NewUpstream(conf *appconfig.Config) *Upstream {
	attempts := conf.UpstreamRetries + 1
	return &Upstream{
		baseURL:  strings.TrimRight(conf.UpstreamBaseURL, "/"),
		client:   &http.Client{Timeout: conf.UpstreamTimeout},
		attempts: attempts,
		delay:    conf.UpstreamRetryDelay,
	}
}

func (u *Upstream) get(ctx context.Context, endpoint, path string) ([]byte, error) {
	start := time.Now()
	var body []byte
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.baseURL+path, http.NoBody)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("Accept", "application/json")

			res, err := u.client.Do(req)
			if err != nil {
				return err
			}
			defer res.Body.Close()

			if res.StatusCode < 200 || res.StatusCode > 299 {
				serr := &StatusError{StatusCode: res.StatusCode, Path: path}
				if res.StatusCode < 500 {
					return retry.Unrecoverable(serr)
				}
				return serr
			}
			body, err = io.ReadAll(res.Body)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(u.attempts),
		retry.Delay(u.delay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().
				Str("evt.name", "upstream.retry").
				Str("path", path).
				Uint("attempt", n+1).
				Err(err).
				Msg("retrying upstream request")
		}),
	)

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	observability.UpstreamRequestDuration.WithLabelValues(endpoint, outcome).Observe(time.Since(start).Seconds())

	if err != nil {
		return nil, errors.Wrapf(ErrUpstream, "GET %s: %s", path, err)
	}
	return body, nil
}

// TodayRecords fetches the current-day records of one area.
func (u *Upstream) TodayRecords(ctx context.Context, source string) ([]model.ProductionEvent, error) {
	body, err := u.get(ctx, "records", fmt.Sprintf("/%s/%s/actualdia", source, source))
	if err != nil {
		return nil, err
	}
	return ParseRecords(body), nil
}

// HistoryRecords fetches every record of a calendar date, all areas combined.
func (u *Upstream) HistoryRecords(ctx context.Context, year int, month time.Month, day int) ([]model.ProductionEvent, error) {
	body, err := u.get(ctx, "history", fmt.Sprintf("/historial/historial-2/%d/%d/%d", year, int(month), day))
	if err != nil {
		return nil, err
	}
	return ParseRecords(body), nil
}

// Goals fetches one goal family.
func (u *Upstream) Goals(ctx context.Context, family string) ([]model.GoalEntry, error) {
	body, err := u.get(ctx, "goals", "/metas/metas-"+family)
	if err != nil {
		return nil, err
	}
	return ParseGoals(body, family), nil
}

// ScrapCounts fetches the hourly scrap counts. Each count is returned as an
// event of the ScrapScope pseudo machine.
func (u *Upstream) ScrapCounts(ctx context.Context) ([]model.ProductionEvent, error) {
	body, err := u.get(ctx, "scrap", "/mermas/conteo_de_mermas")
	if err != nil {
		return nil, err
	}
	return ParseScrapCounts(body), nil
}

// ScrapProduction fetches the production counts scrap is measured against.
func (u *Upstream) ScrapProduction(ctx context.Context) ([]model.ProductionEvent, error) {
	body, err := u.get(ctx, "scrap", "/mermas/produccion")
	if err != nil {
		return nil, err
	}
	return ParseRecords(body), nil
}

// ScrapReasons fetches the scrap reasons of the running production day.
func (u *Upstream) ScrapReasons(ctx context.Context) ([]model.ScrapReason, error) {
	body, err := u.get(ctx, "scrap", "/mermas/razones_de_merma")
	if err != nil {
		return nil, err
	}
	return ParseScrapReasons(body), nil
}

// Ping checks that the lab API answers at all.
func (u *Upstream) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u.baseURL+"/", http.NoBody)
	if err != nil {
		return err
	}
	res, err := u.client.Do(req)
	if err != nil {
		return err
	}
	res.Body.Close()
	return nil
}

// registros is either an array of records or an object whose values are
// arrays of records.
func registros(body []byte) []gjson.Result {
	r := gjson.GetBytes(body, "registros")
	if r.IsArray() {
		return r.Array()
	}
	var out []gjson.Result
	if r.IsObject() {
		r.ForEach(func(_, group gjson.Result) bool {
			out = append(out, group.Array()...)
			return true
		})
	}
	return out
}

// ParseRecords decodes a records payload. A null or absent hit count is zero;
// a non-numeric one becomes negative so the classifier reports it as malformed.
func ParseRecords(body []byte) []model.ProductionEvent {
	rows := registros(body)
	out := make([]model.ProductionEvent, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.ProductionEvent{
			MachineName: row.Get("name").String(),
			Date:        row.Get("fecha").String(),
			TimeOfDay:   row.Get("hour").String(),
			Count:       hits(row.Get("hits")),
		})
	}
	return out
}

func hits(v gjson.Result) int {
	switch v.Type {
	case gjson.Null:
		return 0
	case gjson.Number:
		return int(v.Int())
	case gjson.String:
		str := strings.TrimSpace(v.Str)
		if str == "" {
			return 0
		}
		n, err := strconv.Atoi(str)
		if err != nil {
			return -1
		}
		return n
	}
	return -1
}

// ScrapScope is the machine name given to scrap count events.
const ScrapScope = "SCRAP"

// ParseScrapCounts decodes a scrap count payload, whose rows carry hora and
// total instead of hour and hits.
func ParseScrapCounts(body []byte) []model.ProductionEvent {
	rows := registros(body)
	out := make([]model.ProductionEvent, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.ProductionEvent{
			MachineName: ScrapScope,
			Date:        row.Get("fecha").String(),
			TimeOfDay:   row.Get("hora").String(),
			Count:       hits(row.Get("total")),
		})
	}
	return out
}

// ParseScrapReasons decodes a scrap reason payload. Rows without an hour are
// dropped; a blank reason is kept under an empty name.
func ParseScrapReasons(body []byte) []model.ScrapReason {
	rows := registros(body)
	out := make([]model.ScrapReason, 0, len(rows))
	for _, row := range rows {
		hour := strings.TrimSpace(row.Get("hora").String())
		if hour == "" {
			continue
		}
		out = append(out, model.ScrapReason{
			Hour:   hour,
			Reason: strings.TrimSpace(row.Get("razon").String()),
			Total:  hits(row.Get("total")),
		})
	}
	return out
}

func ParseGoals(body []byte, family string) []model.GoalEntry {
	rows := registros(body)
	out := make([]model.GoalEntry, 0, len(rows))
	for _, row := range rows {
		name := row.Get("name").String()
		if name == "" {
			continue
		}
		out = append(out, model.GoalEntry{
			MachineKey:   name,
			HourlyTarget: row.Get("meta").Float(),
			Family:       family,
		})
	}
	return out
}

package meta

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exusiai.dev/shiftboard/internal/app/appconfig"
	"exusiai.dev/shiftboard/internal/repo"
	"exusiai.dev/shiftboard/internal/server/httpserver"
	"exusiai.dev/shiftboard/internal/server/svr"
	"exusiai.dev/shiftboard/internal/service"
)

func newApp(upstream service.UpstreamPinger) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: httpserver.ErrorHandler})
	_, m := svr.CreateEndpointGroups(app)
	RegisterMeta(m, Meta{HealthService: service.NewHealth(repo.NewArchive(nil), upstream, nil, nil)})
	return app
}

func newUpstream(url string) *repo.Upstream {
	return repo.NewUpstream(&appconfig.Config{ConfigSpec: appconfig.ConfigSpec{
		UpstreamBaseURL: url,
		UpstreamTimeout: time.Second,
	}})
}

func TestHealthWithoutInfra(t *testing.T) {
	app := newApp(nil)

	type testCase struct {
		target   string
		contains string
	}

	testCases := []testCase{
		{"/api/_/health", `"status":"ok"`},
		{"/api/_/health", `"postgres":"disabled"`},
		{"/api/_/health", `"upstream":"disabled"`},
		{"/api/_/bininfo", `"version"`},
	}

	for _, tc := range testCases {
		res, err := app.Test(httptest.NewRequest(fiber.MethodGet, tc.target, nil), -1)
		require.NoError(t, err)
		body, err := io.ReadAll(res.Body)
		res.Body.Close()
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusOK, res.StatusCode, tc.target)
		assert.Contains(t, string(body), tc.contains)
	}
}

func TestHealthChecksUpstream(t *testing.T) {
	lab := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
	}))
	defer lab.Close()

	gone := httptest.NewServer(http.NotFoundHandler())
	gone.Close()

	type testCase struct {
		name     string
		url      string
		status   int
		contains string
	}

	testCases := []testCase{
		{name: "answering", url: lab.URL, status: fiber.StatusOK, contains: `"upstream":"ok"`},
		{name: "unreachable", url: gone.URL, status: fiber.StatusServiceUnavailable, contains: `"status":"degraded"`},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			app := newApp(newUpstream(tc.url))
			res, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/_/health", nil), -1)
			require.NoError(t, err)
			body, err := io.ReadAll(res.Body)
			res.Body.Close()
			require.NoError(t, err)

			assert.Equal(t, tc.status, res.StatusCode)
			assert.Contains(t, string(body), tc.contains)
		})
	}
}

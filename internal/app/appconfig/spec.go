package appconfig

import (
	"time"

	"exusiai.dev/shiftboard/internal/app/appcontext"
)

type ConfigSpec struct {
	// ServiceAddress is the listen address would listen on for serving normal service requests.
	ServiceAddress string `required:"true" split_words:"true" default:"localhost:9030"`

	// LogJsonStdout is whether to log JSON logs (instead of pretty-print logs) to stdout for the ease of log collection.
	LogJsonStdout bool `split_words:"true" default:"false"`

	// LogFile is the path of the rotated log file. Leaving this empty disables file logging.
	LogFile          string `split_words:"true" default:"logs/shiftboard.log"`
	LogFileMaxSizeMB int    `split_words:"true" default:"100"`
	LogFileBackups   int    `split_words:"true" default:"5"`
	LogFileMaxAge    int    `split_words:"true" default:"28"`

	// TrustedProxies is a list of trusted proxies that are trusted to report a real IP via the X-Forwarded-For header.
	TrustedProxies []string `required:"true" split_words:"true" default:"::1,127.0.0.1,10.0.0.0/8"`

	// DevMode to indicate development mode. When true, the program would spin up utilities for debugging and
	// provide a more contextual message when encountered a panic.
	DevMode bool `split_words:"true"`

	// shift calendar

	// Timezone is the IANA zone of the plant. Every production day is resolved in this zone,
	// regardless of the zone of the host.
	Timezone string `required:"true" default:"America/Mexico_City"`

	// AnchorHour and AnchorMinute is the wall-clock time a production day starts at.
	AnchorHour   int `split_words:"true" default:"22"`
	AnchorMinute int `split_words:"true" default:"0"`

	// ShiftBuffer is added to the night shift's eight hours; the morning shift starts when it ends.
	ShiftBuffer time.Duration `split_words:"true" default:"30m"`

	// Nominal*Hours are the hours shift goals are prorated against.
	NominalNightHours     float64 `split_words:"true" default:"8"`
	NominalMorningHours   float64 `split_words:"true" default:"8"`
	NominalAfternoonHours float64 `split_words:"true" default:"7"`

	// ExclusionWindows are wall-clock windows whose events are left out of every total,
	// e.g. "21:30-22:00,01:30-06:30".
	ExclusionWindows ClockWindowList `split_words:"true"`

	// ExclusionRule is an optional boolean expression over hour, minute, minutes, machine and count.
	// Events matching it are left out of every total.
	ExclusionRule string `split_words:"true"`

	// ScheduleFile is a YAML schedule replacing the one built from the settings above.
	ScheduleFile string `split_words:"true"`

	// StationsFile is a YAML station table replacing the built-in one.
	StationsFile string `split_words:"true"`

	// PrefixSeparator splits machine names into station prefixes in prefix mode.
	PrefixSeparator string `split_words:"true" default:"-"`

	// upstream lab API

	// UpstreamBaseURL is the base URL of the lab API the production records and goals are read from.
	UpstreamBaseURL string `required:"true" split_words:"true" default:"http://127.0.0.1:3000"`

	UpstreamTimeout    time.Duration `split_words:"true" default:"10s"`
	UpstreamRetries    uint          `split_words:"true" default:"3"`
	UpstreamRetryDelay time.Duration `split_words:"true" default:"500ms"`

	// UpstreamSources are the areas whose current-day records are fetched, as in /{area}/{area}/actualdia.
	UpstreamSources []string `split_words:"true" default:"manual,tallado,generado,pulido,engraver,terminado,biselado"`

	// GoalFamilies are the goal families fetched from /metas/metas-{family}. When a machine appears in several
	// families the later family in this list wins.
	GoalFamilies []string `split_words:"true" default:"manuales,tallados,generadores,pulidos,engravers,terminados,biselados"`

	// UpstreamConcurrency caps the concurrent requests made to the lab API.
	UpstreamConcurrency int `split_words:"true" default:"4"`

	// infrastructure components connection instructions. All of them are optional:
	// leaving a URL empty disables the corresponding component.

	// PostgresDSN is the data source name for the PostgreSQL database used to archive closed production days.
	// See https://bun.uptrace.dev/postgres/#pgdriver for more details on how to construct a PostgreSQL DSN.
	PostgresDSN string `split_words:"true"`

	PostgresMaxOpenConns    int           `split_words:"true" default:"10"`
	PostgresMaxIdleConns    int           `split_words:"true" default:"2"`
	PostgresConnMaxLifeTime time.Duration `split_words:"true" default:"5m"`
	PostgresConnMaxIdleTime time.Duration `split_words:"true" default:"5m"`

	BunDebugVerbose bool `split_words:"true"`

	// NatsURL is the URL of the NATS server snapshot changes are published to.
	// See https://pkg.go.dev/github.com/nats-io/nats.go#Connect.
	NatsURL string `split_words:"true"`

	// NatsSubject is the subject snapshot change notifications are published on.
	NatsSubject string `split_words:"true" default:"SHIFTBOARD.snapshot"`

	// RedisURL is the URL of the Redis server the latest snapshots are shared through.
	// See https://pkg.go.dev/github.com/redis/go-redis/v9#ParseURL.
	RedisURL string `split_words:"true"`

	// SentryDSN is the DSN of the Sentry server. See https://pkg.go.dev/github.com/getsentry/sentry-go#ClientOptions
	SentryDSN string `split_words:"true"`

	// HTTPServerShutdownTimeout is the timeout for the HTTP server to shut down gracefully.
	HTTPServerShutdownTimeout time.Duration `required:"true" split_words:"true" default:"60s"`

	// WorkerEnabled is a flag to indicate whether to run the recompute worker in this process.
	WorkerEnabled bool `split_words:"true" default:"true"`

	// WorkerInterval describes the interval in-between recompute cycles.
	WorkerInterval time.Duration `required:"true" split_words:"true" default:"5m"`

	// WorkerTimeout describes the timeout for a single cycle to run.
	WorkerTimeout time.Duration `required:"true" split_words:"true" default:"2m"`

	// WorkerModes are the grouping modes recomputed on every cycle.
	WorkerModes []string `split_words:"true" default:"machine,station"`

	// ArchiveEnabled is whether to archive the final snapshot of every closed production day to Postgres.
	ArchiveEnabled bool `split_words:"true" default:"true"`

	// SnapshotCacheTTL is how long a computed snapshot is shared through Redis.
	SnapshotCacheTTL time.Duration `split_words:"true" default:"15m"`

	// GoalCacheTTL is how long goal tables fetched from the lab API are reused.
	GoalCacheTTL time.Duration `split_words:"true" default:"10m"`

	// ScrapCacheTTL is how long a computed scrap report is shared through Redis.
	ScrapCacheTTL time.Duration `split_words:"true" default:"1m"`
}

type Config struct {
	// ConfigSpec is the configuration specification injected to the config.
	ConfigSpec

	// AppContext is the application context
	AppContext appcontext.Ctx
}

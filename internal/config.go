package internal

import (
	"strings"
	"time"

	"github.com/samber/lo"
)

type Config struct {
	Host                 string        `env:"HOST,default=0.0.0.0"`
	Port                 int           `env:"PORT,default=5000"`
	AdminPort            int           `env:"ADMIN_PORT,default=5001"`
	LogLevel             string        `env:"LOG_LEVEL,default=INFO"`
	BadgerFilepath       string        `env:"BADGER_FILEPATH,required=true"`
	LimitMessages        *int          `env:"LIMIT_MESSAGES"`
	JWTSecret            string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration    time.Duration `env:"AUTH_TOKEN_DURATION,default=168h"`
	EditWindow           time.Duration `env:"EDIT_WINDOW,default=15m"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=256"`
	SinkTimeout          time.Duration `env:"SINK_TIMEOUT,default=2s"`
	MaxMessageSize       int64         `env:"MAX_MESSAGE_SIZE,default=65536"`
	AllowedOrigins       string        `env:"ALLOWED_ORIGINS,default=*"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,default=1s"`
	MetricInterval       time.Duration `env:"METRIC_INTERVAL,default=30s"`
	ShutdownTimeout      time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
	NatsURL              string        `env:"NATS_URL"`
	NatsSubject          string        `env:"NATS_SUBJECT,default=chat-live"`
	NodeID               string        `env:"NODE_ID"`
	DebugInspectorPort   int           `env:"DEBUG_INSPECTOR_PORT,default=8081"`
}

// Origins splits ALLOWED_ORIGINS, a comma separated list.
func (c Config) Origins() []string {
	return lo.FilterMap(strings.Split(c.AllowedOrigins, ","), func(origin string, _ int) (string, bool) {
		origin = strings.TrimSpace(origin)
		return origin, origin != ""
	})
}

// RelayEnabled is true when the node is part of a cluster.
func (c Config) RelayEnabled() bool {
	return c.NatsURL != ""
}

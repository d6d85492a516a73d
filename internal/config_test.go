package internal

import (
	"testing"
	"time"

	"github.com/Netflix/go-env"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	req := require.New(t)

	// Given only the required variables
	environ := env.EnvSet{"BADGER_FILEPATH": "/tmp/chat", "JWT_SECRET": "secret"}

	// When the config is loaded
	var config Config
	err := env.Unmarshal(environ, &config)

	// Then every optional key gets its default
	req.NoError(err)
	req.Equal(5000, config.Port)
	req.Equal(15*time.Minute, config.EditWindow)
	req.Equal(168*time.Hour, config.AuthTokenDuration)
	req.Equal([]string{"*"}, config.Origins())
	req.Nil(config.LimitMessages)
	req.False(config.RelayEnabled())
}

func TestConfig_Missing_Secret(t *testing.T) {
	req := require.New(t)

	// Given no JWT secret
	environ := env.EnvSet{"BADGER_FILEPATH": "/tmp/chat"}

	// When the config is loaded
	var config Config
	err := env.Unmarshal(environ, &config)

	// Then it is rejected
	req.Error(err)
}

func TestConfig_Origins_List(t *testing.T) {
	req := require.New(t)

	config := Config{AllowedOrigins: " http://a.test, ,http://b.test "}

	req.Equal([]string{"http://a.test", "http://b.test"}, config.Origins())
}

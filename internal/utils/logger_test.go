package utils_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vitapredict/obesity-backend/internal/config"
	"github.com/vitapredict/obesity-backend/internal/utils"
)

// captureLogs redirects the global logger to a buffer for the duration of a test
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	prevLogger := log.Logger
	prevLevel := zerolog.GlobalLevel()

	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	return &buf
}

func testLoggingConfig() *config.AppConfig {
	return &config.AppConfig{
		App: config.AppSettings{
			Environment: "test",
			Name:        "Obesity Prediction API",
			Version:     "0.0.0-test",
		},
		Logging: config.LoggingSettings{
			Level:  "debug",
			Format: "json",
		},
	}
}

func TestInitLogger(t *testing.T) {
	prevLogger := log.Logger
	prevLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	utils.InitLogger(testLoggingConfig())

	if got := zerolog.GlobalLevel(); got != zerolog.DebugLevel {
		t.Errorf("global level = %v, want debug", got)
	}
}

func TestInitLoggerInvalidLevelFallsBackToInfo(t *testing.T) {
	prevLogger := log.Logger
	prevLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	cfg := testLoggingConfig()
	cfg.Logging.Level = "not-a-level"

	utils.InitLogger(cfg)

	if got := zerolog.GlobalLevel(); got != zerolog.InfoLevel {
		t.Errorf("global level = %v, want info fallback", got)
	}
}

func TestRequestLogger(t *testing.T) {
	buf := captureLogs(t)

	logger := utils.RequestLogger("req-123", "42", "POST", "/api/prediction")
	logger.Info().Msg("handling request")

	output := buf.String()
	for _, want := range []string{"req-123", "42", "POST", "/api/prediction"} {
		if !strings.Contains(output, want) {
			t.Errorf("log output should contain %q, got %v", want, output)
		}
	}
}

func TestLogHTTPRequest(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		statusCode int
		wantLevel  string
	}{
		{
			name:       "API request logs at info",
			path:       "/api/prediction",
			statusCode: 200,
			wantLevel:  `"level":"info"`,
		},
		{
			name:       "Client error logs at warn",
			path:       "/api/auth/login",
			statusCode: 401,
			wantLevel:  `"level":"warn"`,
		},
		{
			name:       "Server error logs at error",
			path:       "/api/prediction",
			statusCode: 500,
			wantLevel:  `"level":"error"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLogs(t)

			utils.LogHTTPRequest("req-1", "GET", tt.path, "127.0.0.1", "test-agent", tt.statusCode, 10*time.Millisecond)

			if !strings.Contains(buf.String(), tt.wantLevel) {
				t.Errorf("log output should contain %v, got %v", tt.wantLevel, buf.String())
			}
		})
	}
}

func TestLogHTTPRequestSkipsHealthInNonDebug(t *testing.T) {
	buf := captureLogs(t)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	utils.LogHTTPRequest("req-1", "GET", "/health", "127.0.0.1", "probe", 200, time.Millisecond)

	if buf.Len() != 0 {
		t.Errorf("health checks should not be logged above debug level, got %v", buf.String())
	}
}

func TestLogError(t *testing.T) {
	buf := captureLogs(t)

	utils.LogError(errors.New("something broke"), map[string]interface{}{
		"operation": "predict",
		"user_id":   int64(7),
		"attempt":   3,
		"fatal":     false,
	})

	output := buf.String()
	for _, want := range []string{"something broke", "predict", `"user_id":7`, `"attempt":3`} {
		if !strings.Contains(output, want) {
			t.Errorf("log output should contain %q, got %v", want, output)
		}
	}
}

func TestLogDBQueryRedactsSensitiveArgs(t *testing.T) {
	buf := captureLogs(t)

	utils.LogDBQuery(
		"UPDATE users SET password_hash = $1 WHERE user_id = $2",
		[]interface{}{"supersecret", int64(1)},
		5*time.Millisecond,
		nil,
	)

	output := buf.String()
	if strings.Contains(output, "supersecret") {
		t.Errorf("sensitive query arguments should be redacted, got %v", output)
	}
	if !strings.Contains(output, "[REDACTED]") {
		t.Errorf("log output should contain the redaction marker, got %v", output)
	}
}

func TestLogAuth(t *testing.T) {
	tests := []struct {
		name      string
		success   bool
		wantLevel string
	}{
		{
			name:      "Successful auth logs at info",
			success:   true,
			wantLevel: `"level":"info"`,
		},
		{
			name:      "Failed auth logs at warn",
			success:   false,
			wantLevel: `"level":"warn"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLogs(t)

			utils.LogAuth("login", "42", "john", tt.success, "")

			output := buf.String()
			if !strings.Contains(output, tt.wantLevel) {
				t.Errorf("log output should contain %v, got %v", tt.wantLevel, output)
			}
			if !strings.Contains(output, "john") {
				t.Errorf("log output should contain the username, got %v", output)
			}
		})
	}
}

func TestLogPrediction(t *testing.T) {
	buf := captureLogs(t)

	utils.LogPrediction(42, "Obesity_Type_I", 0.87, 3*time.Millisecond)

	output := buf.String()
	for _, want := range []string{"Obesity_Type_I", `"confidence":0.87`, `"user_id":42`} {
		if !strings.Contains(output, want) {
			t.Errorf("log output should contain %q, got %v", want, output)
		}
	}
}

func TestSetLogLevel(t *testing.T) {
	prevLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(prevLevel)
	})

	tests := []struct {
		name    string
		level   string
		wantErr bool
	}{
		{
			name:    "Valid level",
			level:   "warn",
			wantErr: false,
		},
		{
			name:    "Uppercase level",
			level:   "ERROR",
			wantErr: false,
		},
		{
			name:    "Invalid level",
			level:   "loud",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := utils.SetLogLevel(tt.level)
			if (err != nil) != tt.wantErr {
				t.Errorf("SetLogLevel(%v) error = %v, wantErr %v", tt.level, err, tt.wantErr)
			}
			if !tt.wantErr {
				if got := utils.GetLogLevel(); got != strings.ToLower(tt.level) {
					t.Errorf("GetLogLevel() = %v, want %v", got, strings.ToLower(tt.level))
				}
			}
		})
	}
}

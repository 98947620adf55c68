package fiber_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benevole/benevole/internal/logger"
	adapter "github.com/benevole/benevole/internal/logger/adapter/fiber"
)

// accessLine is the json format of one access log line.
type accessLine struct {
	RequestID string `json:"requestId"`
	IP        net.IP `json:"ip"`
	Status    int    `json:"status"`
	Outcome   string `json:"outcome"`
	URI       string `json:"uri"`
	Method    string `json:"method"`
	Host      string `json:"host"`
	Sub       string `json:"sub"`
	Error     string `json:"error"`
}

func consoleConfig() logger.Log {
	return logger.Log{
		EnableAccessLogToConsole: true,
		Console:                  logger.Console{Enabled: true},
	}
}

func TestNew(t *testing.T) {
	type testCase struct {
		name       string
		config     adapter.Config
		targetPath string
		want       *accessLine
	}

	testCases := []testCase{
		{
			name:       "empty config no output at all",
			targetPath: "/",
		},
		{
			name:       "console enabled but access log to console disabled",
			config:     adapter.Config{Log: logger.Log{Console: logger.Console{Enabled: true}}},
			targetPath: "/",
		},
		{
			name:       "get / log to console json",
			config:     adapter.Config{Log: consoleConfig()},
			targetPath: "/",
			want: &accessLine{
				IP:      net.ParseIP("0.0.0.0"),
				Status:  fiber.StatusOK,
				Outcome: adapter.OutcomeOK,
				URI:     "/",
				Method:  fiber.MethodGet,
				Host:    "example.com",
			},
		},
		{
			name:       "query string is kept",
			config:     adapter.Config{Log: consoleConfig()},
			targetPath: "/api/roles?page=0&size=10",
			want: &accessLine{
				IP:      net.ParseIP("0.0.0.0"),
				Status:  fiber.StatusOK,
				Outcome: adapter.OutcomeOK,
				URI:     "/api/roles?page=0&size=10",
				Method:  fiber.MethodGet,
				Host:    "example.com",
			},
		},
		{
			name:       "unknown route logs 404 and the chain error",
			config:     adapter.Config{Log: consoleConfig()},
			targetPath: "/api/nothing",
			want: &accessLine{
				IP:      net.ParseIP("0.0.0.0"),
				Status:  fiber.StatusNotFound,
				Outcome: adapter.OutcomeClientError,
				URI:     "/api/nothing",
				Method:  fiber.MethodGet,
				Host:    "example.com",
				Error:   "Cannot GET /api/nothing",
			},
		},
		{
			name:       "denied request is classified",
			config:     adapter.Config{Log: consoleConfig()},
			targetPath: "/api/forbidden",
			want: &accessLine{
				IP:      net.ParseIP("0.0.0.0"),
				Status:  fiber.StatusForbidden,
				Outcome: adapter.OutcomeDenied,
				URI:     "/api/forbidden",
				Method:  fiber.MethodGet,
				Host:    "example.com",
				Error:   "Forbidden",
			},
		},
		{
			name: "subject of the principal is logged",
			config: adapter.Config{
				Log:     consoleConfig(),
				Subject: func(_ *fiber.Ctx) string { return "7d0b0b8e-0000-4000-8000-000000000001" },
			},
			targetPath: "/",
			want: &accessLine{
				IP:      net.ParseIP("0.0.0.0"),
				Status:  fiber.StatusOK,
				Outcome: adapter.OutcomeOK,
				URI:     "/",
				Method:  fiber.MethodGet,
				Host:    "example.com",
				Sub:     "7d0b0b8e-0000-4000-8000-000000000001",
			},
		},
		{
			name: "skipped paths are not logged",
			config: adapter.Config{
				Log:       consoleConfig(),
				SkipPaths: []string{"/checkalive"},
			},
			targetPath: "/checkalive",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			output, err := testMiddlewareHelper(t, tc.targetPath, tc.config)
			require.NoError(t, err)

			if tc.want == nil {
				assert.Empty(t, output)
				return
			}

			require.NotEmpty(t, output)

			var got accessLine
			require.NoError(t, json.Unmarshal([]byte(output), &got))

			assert.Equal(t, tc.want.Host, got.Host)
			assert.Equal(t, tc.want.Method, got.Method)
			assert.Equal(t, tc.want.Status, got.Status)
			assert.Equal(t, tc.want.Outcome, got.Outcome)
			assert.Equal(t, tc.want.IP, got.IP)
			assert.Equal(t, tc.want.URI, got.URI)
			assert.Equal(t, tc.want.Sub, got.Sub)
			assert.Equal(t, tc.want.Error, got.Error)
			assert.NotEmpty(t, got.RequestID)
		})
	}
}

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(adapter.New())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set(adapter.HeaderRequestID, "req-42")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "req-42", resp.Header.Get(adapter.HeaderRequestID))
	assert.Contains(t, resp.Header.Get("Server-Timing"), "app;dur=")

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Len(t, resp.Header.Get(adapter.HeaderRequestID), 36)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, adapter.OutcomeOK, adapter.Outcome(fiber.StatusNoContent))
	assert.Equal(t, adapter.OutcomeClientError, adapter.Outcome(fiber.StatusConflict))
	assert.Equal(t, adapter.OutcomeUnauthenticated, adapter.Outcome(fiber.StatusUnauthorized))
	assert.Equal(t, adapter.OutcomeDenied, adapter.Outcome(fiber.StatusForbidden))
	assert.Equal(t, adapter.OutcomeServerError, adapter.Outcome(fiber.StatusServiceUnavailable))
}

func testMiddlewareHelper(t *testing.T, targetPath string, adapterConfig adapter.Config) (string, error) {
	t.Helper()

	stdout := os.Stdout
	stderr := os.Stderr

	// capture stdout
	r, w, _ := os.Pipe()
	os.Stdout = w
	os.Stderr = w

	app := fiber.New(fiber.Config{
		CaseSensitive: true,
		Immutable:     true,
	})

	app.Use(adapter.New(adapterConfig))

	ok := func(ctx *fiber.Ctx) error {
		return ctx.SendString("ok")
	}

	app.Get("/", ok)
	app.Get("/api/roles", ok)
	app.Get("/checkalive", ok)
	app.Get("/api/forbidden", func(*fiber.Ctx) error { return fiber.ErrForbidden })

	_, err := app.Test(httptest.NewRequest(fiber.MethodGet, targetPath, nil), 100000)
	if err != nil {
		_ = w.Close()
		os.Stdout = stdout
		os.Stderr = stderr

		return "", err
	}

	outC := make(chan string)
	// copy the output in a separate goroutine so printing can't block indefinitely
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	_ = w.Close()
	os.Stdout = stdout
	os.Stderr = stderr

	return <-outC, nil
}

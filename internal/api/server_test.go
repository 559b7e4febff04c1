package api_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/musicchallenge/internal/api"
	"github.com/mcoot/musicchallenge/internal/factory"
	"github.com/mcoot/musicchallenge/internal/testutil"
)

func TestServerServesAndShutsDown(t *testing.T) {
	app := factory.NewTestApp()

	cfg := api.DefaultServerConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	server := api.NewServer(app.Handler(), cfg, testutil.NopLogger())
	require.NoError(t, server.Listen())

	done := make(chan error, 1)
	go func() { done <- server.Start() }()

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + server.Addr() + "/api/ping")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, server.Shutdown(context.Background()))
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

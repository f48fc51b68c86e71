//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/jsonstudio/internal/config"
	"github.com/agenthands/jsonstudio/internal/core"
	"github.com/agenthands/jsonstudio/internal/server"
	"github.com/agenthands/jsonstudio/internal/testutil"
	"github.com/agenthands/jsonstudio/internal/worker"
)

func loadConfig(t *testing.T) *config.Config {
	t.Helper()
	_ = godotenv.Load("../../.env")

	cfg, err := config.Load("../../config/config.toml")
	require.NoError(t, err)
	require.NoError(t, cfg.ApplyEnv())
	require.NoError(t, cfg.Validate())
	return cfg
}

func newServer(t *testing.T, cfg *config.Config) *server.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := testutil.NewTestLogger(t)

	studio := core.NewStudio()
	pool := worker.NewPool(studio.Differ, cfg.Diff.Workers, cfg.Diff.QueueSize, logger)
	return server.NewServer(studio, pool, logger, cfg.Server.MaxBodyBytes)
}

func startServer(t *testing.T) string {
	t.Helper()
	srv := newServer(t, loadConfig(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Pool.Run(ctx) }()

	ts := httptest.NewServer(srv.SetupRouter())
	t.Cleanup(func() {
		ts.Close()
		cancel()
		<-done
	})
	return ts.URL
}

// diffReply mirrors worker.Response with the value fields left raw.
type diffReply struct {
	Seq           uint64          `json:"seq"`
	HasDiff       bool            `json:"hasDiff"`
	Delta         json.RawMessage `json:"delta"`
	Error         string          `json:"error"`
	ChangeSummary []string        `json:"changeSummary"`
}

func post(t *testing.T, url string, payload any, out any) int {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func TestFullFlow(t *testing.T) {
	base := startServer(t)

	left := `{"users":[{"id":"u1","name":"Alice"},{"id":"u2","name":"Bob"},{"id":"u3","name":"Carol"}]}`
	right := `{"users":[{"id":"u3","name":"Carol"},{"id":"u1","name":"Alicia"},{"id":"u2","name":"Bob"}],"count":3}`

	var diffRes diffReply
	status := post(t, base+"/diff", worker.Request{Seq: 1, LeftJSON: left, RightJSON: right}, &diffRes)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, diffRes.HasDiff)
	assert.Equal(t, []string{"~ Modified: users.1.name", "+ Added: count"}, diffRes.ChangeSummary)
	assert.JSONEq(t, `{"users":{"1":{"name":["Alice","Alicia"]},"_t":"a","_2":["",0,3]},"count":[3]}`, string(diffRes.Delta))

	var queryRes map[string]any
	status = post(t, base+"/query", map[string]string{"content": right, "path": "$.users[?(@.id == 'u1')].name"}, &queryRes)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []any{"Alicia"}, queryRes["data"])

	var csvRes map[string]any
	status = post(t, base+"/transform", map[string]string{"content": left, "format": "csv"}, &csvRes)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "users\n"+`"[{""id"":""u1"",""name"":""Alice""},{""id"":""u2"",""name"":""Bob""},{""id"":""u3"",""name"":""Carol""}]"`, csvRes["content"])

	var tableRes struct {
		Table struct {
			Sections []struct {
				ID      string   `json:"id"`
				Columns []string `json:"columns"`
			} `json:"sections"`
		} `json:"table"`
	}
	status = post(t, base+"/table", map[string]string{"content": left}, &tableRes)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, tableRes.Table.Sections, 2)
	assert.Equal(t, "prop-users", tableRes.Table.Sections[1].ID)
	assert.Equal(t, []string{"id", "name"}, tableRes.Table.Sections[1].Columns)
}

func TestConcurrentDiffs(t *testing.T) {
	base := startServer(t)

	var wg sync.WaitGroup
	for i := 1; i <= 25; i++ {
		wg.Add(1)
		go func(seq int) {
			defer wg.Done()
			var res diffReply
			status := post(t, base+"/diff", worker.Request{
				Seq:       uint64(seq),
				LeftJSON:  `{"n":0}`,
				RightJSON: fmt.Sprintf(`{"n":%d}`, seq),
			}, &res)
			assert.Equal(t, http.StatusOK, status)
			assert.Equal(t, uint64(seq), res.Seq)
			assert.Equal(t, []string{"~ Modified: n"}, res.ChangeSummary)
		}(i)
	}
	wg.Wait()
}

func TestServeShutdown(t *testing.T) {
	cfg := loadConfig(t)
	srv := newServer(t, cfg)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}

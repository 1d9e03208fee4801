package handlers

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"knoxshield/internal/services"
	"knoxshield/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readEvent returns the next "event:" name and its "data:" payload.
func readEvent(t *testing.T, r *bufio.Reader) (string, string) {
	t.Helper()
	var name, data string
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "event:"):
			name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		case line == "" && name != "":
			return name, data
		}
	}
}

func TestEventsStream(t *testing.T) {
	gin.SetMode(gin.TestMode)

	broker := services.NewEventBroker(8)
	handler := NewEventsHandler(broker, logger.NewDiscardLogger())
	router := gin.New()
	router.GET("/api/events", handler.Stream)

	srv := httptest.NewServer(router)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", srv.URL+"/api/events?topics="+services.TopicVPNStatus, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	require.Eventually(t, func() bool { return broker.Subscribers() == 1 }, time.Second, 10*time.Millisecond)

	broker.Publish(services.TopicOperationUpdated, map[string]string{"id": "op-1"})
	broker.Publish(services.TopicVPNStatus, map[string]string{"status": "Connected"})

	name, data := readEvent(t, bufio.NewReader(resp.Body))
	assert.Equal(t, services.TopicVPNStatus, name)
	assert.Contains(t, data, `"status":"Connected"`)

	cancel()
	assert.Eventually(t, func() bool { return broker.Subscribers() == 0 }, time.Second, 10*time.Millisecond)
}

func TestEventsHeartbeat(t *testing.T) {
	gin.SetMode(gin.TestMode)

	broker := services.NewEventBroker(8)
	handler := NewEventsHandler(broker, logger.NewDiscardLogger())
	handler.heartbeat = 20 * time.Millisecond
	router := gin.New()
	router.GET("/api/events", handler.Stream)

	srv := httptest.NewServer(router)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, "GET", srv.URL+"/api/events", nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	name, _ := readEvent(t, bufio.NewReader(resp.Body))
	assert.Equal(t, "heartbeat", name)
}

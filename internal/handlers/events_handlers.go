package handlers

import (
	"io"
	"net/http"
	"strings"
	"time"

	"knoxshield/internal/services"
	"knoxshield/pkg/logger"

	"github.com/gin-gonic/gin"
)

const defaultHeartbeat = 15 * time.Second

// EventSource is the subscribe side of the event broker.
type EventSource interface {
	Subscribe() (<-chan services.Event, func())
}

type EventsHandler struct {
	source    EventSource
	logger    *logger.Logger
	heartbeat time.Duration
}

func NewEventsHandler(source EventSource, log *logger.Logger) *EventsHandler {
	if log == nil {
		log = logger.Default()
	}
	return &EventsHandler{source: source, logger: log, heartbeat: defaultHeartbeat}
}

// Stream pushes broker events as server-sent events. ?topics=a,b limits the stream.
func (h *EventsHandler) Stream(c *gin.Context) {
	var topics map[string]bool
	if raw := c.Query("topics"); raw != "" {
		topics = make(map[string]bool)
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				topics[t] = true
			}
		}
	}

	events, unsubscribe := h.source.Subscribe()
	defer unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	h.logger.WithField("client", c.ClientIP()).Debug("Event stream opened")
	defer h.logger.WithField("client", c.ClientIP()).Debug("Event stream closed")

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case ev, ok := <-events:
			if !ok {
				return false
			}
			if topics != nil && !topics[ev.Topic] {
				return true
			}
			c.SSEvent(ev.Topic, ev)
			return true
		case t := <-heartbeat.C:
			c.SSEvent("heartbeat", t.UTC())
			return true
		}
	})
}

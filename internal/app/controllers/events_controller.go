package controllers

import (
	"sync"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/leemrnda21/hau-kiosk-registar/internal/pkg/events"
)

// pingInterval keeps idle connections alive through proxies that cut
// quiet streams.
const pingInterval = 25 * time.Second

// EventsController serves the live update stream
type EventsController struct {
	broker *events.Broker
	logger zerolog.Logger
}

// NewEventsController creates a new EventsController
func NewEventsController(broker *events.Broker, logger zerolog.Logger) *EventsController {
	return &EventsController{
		broker: broker,
		logger: logger,
	}
}

// Stream subscribes the connection to the event broker and holds it open
// until the client disconnects. Every event since the subscription is
// delivered; nothing published earlier is replayed.
// @Summary Live update stream
// @Description Server-Sent Events stream of request and student change notifications
// @Tags events
// @Produce text/event-stream
// @Success 200 {string} string "SSE stream"
// @Router /events [get]
func (c *EventsController) Stream(ctx *gin.Context) {
	ctx.Header("Content-Type", "text/event-stream")
	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("Connection", "keep-alive")
	ctx.Header("X-Accel-Buffering", "no")

	connectionID := uuid.New().String()

	// Publishes arrive from handler goroutines while the ping ticker writes
	// from this one; the writer is not safe for concurrent use.
	var mu sync.Mutex
	write := func(eventType string, data []byte) error {
		mu.Lock()
		defer mu.Unlock()
		if err := sse.Encode(ctx.Writer, sse.Event{
			Event: eventType,
			Data:  string(data),
		}); err != nil {
			return err
		}
		ctx.Writer.Flush()
		return nil
	}

	// Opening ping confirms the stream before any event fires
	if err := write("ping", []byte(`{}`)); err != nil {
		return
	}

	c.broker.Subscribe(connectionID, write)
	defer c.broker.Unsubscribe(connectionID)

	c.logger.Debug().Str("connectionId", connectionID).Msg("Event stream opened")

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Request.Context().Done():
			c.logger.Debug().Str("connectionId", connectionID).Msg("Event stream closed")
			return
		case <-ticker.C:
			if err := write("ping", []byte(`{}`)); err != nil {
				c.logger.Debug().Str("connectionId", connectionID).Msg("Event stream write failed, dropping connection")
				return
			}
		}
	}
}

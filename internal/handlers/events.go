package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/celidone/customers/internal/model"
	"github.com/celidone/customers/internal/notifier"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const defaultHeartbeat = 15 * time.Second

// EventsHTTPHandler streams customer change events as server-sent events
type EventsHTTPHandler struct {
	subscriber notifier.Subscriber
	heartbeat  time.Duration
}

func NewEventsHTTPHandler(subscriber notifier.Subscriber, heartbeat time.Duration) *EventsHTTPHandler {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	return &EventsHTTPHandler{subscriber: subscriber, heartbeat: heartbeat}
}

// Stream streams events
// @Summary     Customer change events
// @Description Streams customer-created, customer-updated and customer-deleted events until client disconnects
// @Tags        customers
// @Produce     text/event-stream
// @Success     200
// @Failure     500    {object} echo.HTTPError
// @Router      /api/customers/events [get]
func (h *EventsHTTPHandler) Stream(c echo.Context) error {
	ctx := c.Request().Context()

	events, err := h.subscriber.Subscribe(ctx)
	if err != nil {
		return err
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := fmt.Fprint(res, ": ping\n\n"); err != nil {
				return nil
			}
			res.Flush()
		case e, ok := <-events:
			if !ok {
				return nil
			}

			if err := writeEvent(res, e); err != nil {
				logrus.WithField("topic", e.Topic).Warnf("failed to stream event - %v", err)
				return nil
			}
			res.Flush()
		}
	}
}

func writeEvent(res *echo.Response, e model.Event) error {
	data, err := json.Marshal(&e)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(res, "event: %s\ndata: %s\n\n", e.Topic, data)
	return err
}

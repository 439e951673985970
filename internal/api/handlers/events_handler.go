package handlers

import (
	"Snack-Tracker/pkg/coordinator"
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

const heartbeatInterval = 15 * time.Second

type (
	EventsHandler interface {
		Stream(c *fiber.Ctx) error
	}

	eventsHandler struct {
		coordinator *coordinator.Coordinator
	}
)

func NewEventsHandler(coord *coordinator.Coordinator) EventsHandler {
	return &eventsHandler{coordinator: coord}
}

// Stream pushes every observable cell as server-sent events: the current
// value first, then each change, until the client goes away.
func (h *eventsHandler) Stream(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	userCh, cancelUser := h.coordinator.UserIdentity().Subscribe()
	catalogCh, cancelCatalog := h.coordinator.Catalog().Subscribe()
	logCh, cancelLog := h.coordinator.ConsumptionLog().Subscribe()
	totalsCh, cancelTotals := h.coordinator.DailyTotals().Subscribe()
	analysisCh, cancelAnalysis := h.coordinator.Analysis().Subscribe()
	uploadCh, cancelUpload := h.coordinator.Upload().Subscribe()

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer func() {
			cancelUser()
			cancelCatalog()
			cancelLog()
			cancelTotals()
			cancelAnalysis()
			cancelUpload()
		}()

		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()

		for {
			var err error
			select {
			case v := <-userCh:
				err = WriteEvent(w, "user", fiber.Map{"user_id": v})
			case v := <-catalogCh:
				err = WriteEvent(w, "catalog", v)
			case v := <-logCh:
				err = WriteEvent(w, "consumptions", v)
			case v := <-totalsCh:
				err = WriteEvent(w, "totals", v)
			case v := <-analysisCh:
				err = WriteEvent(w, "analysis", v.Response())
			case v := <-uploadCh:
				err = WriteEvent(w, "upload", uploadPayload(v.URL, v.Err))
			case <-heartbeat.C:
				_, err = io.WriteString(w, ": ping\n\n")
			}
			if err == nil {
				err = w.Flush()
			}
			if err != nil {
				log.Debugw("event stream closed", "error", err)
				return
			}
		}
	})
	return nil
}

// WriteEvent writes one server-sent event with a JSON payload.
func WriteEvent(w io.Writer, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}

func uploadPayload(url string, err error) fiber.Map {
	payload := fiber.Map{"image_url": url}
	if err != nil {
		payload["error"] = err.Error()
	}
	return payload
}

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"devconnect-api/internal/realtime"
	"devconnect-api/internal/responses"
)

const (
	eventBuffer       = 32
	keepAliveInterval = 25 * time.Second
)

// Events streams realtime messages for the requested topics as Server-Sent Events.
func Events(broker realtime.Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		topics := r.URL.Query()["topic"]
		if len(topics) == 0 {
			topics = []string{realtime.TopicFeed}
		}
		for _, t := range topics {
			if !realtime.ValidTopic(t) {
				responses.SendErrorResponse(w, http.StatusBadRequest, "Invalid topic: "+t)
				return
			}
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			responses.SendErrorResponse(w, http.StatusInternalServerError, "Streaming unsupported")
			return
		}

		messages := make(chan realtime.Message, eventBuffer)
		unsubscribe, err := broker.Subscribe(r.Context(), topics, func(m realtime.Message) {
			select {
			case messages <- m:
			default:
				// Client is behind; it reconciles by re-fetching.
			}
		})
		if errors.Is(err, realtime.ErrSubscribeUnsupported) {
			responses.SendErrorResponse(w, http.StatusServiceUnavailable, "Realtime events are disabled")
			return
		}
		if err != nil {
			log.Printf("Failed to subscribe to %v: %v", topics, err)
			responses.SendErrorResponse(w, http.StatusServiceUnavailable, "Realtime events unavailable")
			return
		}
		defer unsubscribe()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, ": connected\n\n")
		flusher.Flush()

		ticker := time.NewTicker(keepAliveInterval)
		defer ticker.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case <-ticker.C:
				fmt.Fprint(w, ": keep-alive\n\n")
				flusher.Flush()
			case m := <-messages:
				data, err := json.Marshal(m)
				if err != nil {
					log.Printf("Failed to encode %s event: %v", m.Event, err)
					continue
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", m.Event, data)
				flusher.Flush()
			}
		}
	}
}

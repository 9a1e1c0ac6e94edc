package server

import (
	"fmt"
	"net/http"
	"time"

	"donatelife/internal/feed"
)

const eventKeepAlive = 25 * time.Second

// handleDashboardEvents streams listing changes so an open dashboard can
// refresh itself.
func (s *Service) handleDashboardEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	events, err := s.broker.Subscribe(ctx)
	if err != nil {
		s.logger.WithError(err).Error("failed to subscribe to listing feed")
		http.Error(w, "event stream unavailable", http.StatusServiceUnavailable)
		return
	}

	rc := http.NewResponseController(w)
	// the server write timeout would otherwise end the stream
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil {
		return
	}
	if err := rc.Flush(); err != nil {
		s.logger.WithError(err).Error("response writer does not support flushing")
		return
	}

	s.metrics.FeedSubscribers.Inc()
	defer s.metrics.FeedSubscribers.Dec()

	ticker := time.NewTicker(eventKeepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			if err := feed.WriteSSE(w, e); err != nil {
				return
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		}

		if err := rc.Flush(); err != nil {
			return
		}
	}
}

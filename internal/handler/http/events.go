package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Maverickd18/Frontend-Perfume-sub000/internal/domain"
	"github.com/Maverickd18/Frontend-Perfume-sub000/pkg/middleware"
)

// keepAliveInterval is how often an idle event stream sends a comment line.
var keepAliveInterval = 15 * time.Second

// latestState holds at most one undelivered state. Store listeners run under
// the store's emission lock, so offer never blocks: a newer state replaces an
// older one that the stream has not written yet.
type latestState struct {
	ch chan domain.WizardState
}

func newLatestState() *latestState {
	return &latestState{ch: make(chan domain.WizardState, 1)}
}

func (l *latestState) offer(s domain.WizardState) {
	select {
	case <-l.ch:
	default:
	}
	l.ch <- s
}

// Events handles GET /api/v1/console/wizard/events, streaming every wizard
// state as a server-sent "state" event.
func (h *ConsoleHandler) Events(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	sellerID := middleware.SellerIDFromContext(r.Context())

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		h.logger.ErrorContext(r.Context(), "event stream not supported", slog.String("error", err.Error()))
		return
	}

	latest := newLatestState()
	unsubscribe := h.wizard(r).Subscribe(latest.offer)
	defer unsubscribe()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	var seq uint64
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
		case st := <-latest.ch:
			seq++
			payload, err := json.Marshal(WizardResponse{WizardState: st, SavePhase: h.service.SavePhase(sellerID)})
			if err != nil {
				h.logger.ErrorContext(r.Context(), "failed to encode wizard state", slog.String("error", err.Error()))
				return
			}
			if _, err := fmt.Fprintf(w, "id: %d\nevent: state\ndata: %s\n\n", seq, payload); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

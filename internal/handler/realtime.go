package handler

import (
	"net/http"

	"github.com/templui/portfolio/internal/realtime"
)

var realtimeTables = map[string]bool{
	realtime.TableProfiles:     true,
	realtime.TableProjects:     true,
	realtime.TableCertificates: true,
	realtime.TableDSAProblems:  true,
}

type RealtimeHandler struct {
	hub *realtime.Hub
}

func NewRealtimeHandler(hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{hub: hub}
}

// Subscribe upgrades to a websocket streaming change events for ?table=
// (optional) limited to rows owned by ?user_id= (optional).
func (h *RealtimeHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	filter := realtime.Filter{
		Table:   r.URL.Query().Get("table"),
		OwnerID: r.URL.Query().Get("user_id"),
	}
	if filter.Table != "" && !realtimeTables[filter.Table] {
		writeJSON(w, http.StatusBadRequest, ErrorBody{Error: "Unknown table"})
		return
	}

	realtime.Serve(h.hub, w, r, filter)
}

package http

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"transparency-service/internal/app"
)

// WatchHandler streams report updates for a product over a websocket, so a
// respondent's report view refreshes as answers are rescored.
type WatchHandler struct {
	service  *app.TransparencyService
	upgrader websocket.Upgrader
}

func NewWatchHandler(service *app.TransparencyService) *WatchHandler {
	return &WatchHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type string `json:"type"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the connection and forwards every recomputed report.
// An inbound {"type":"generate"} message triggers a rescore on demand.
func (h *WatchHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	productID := r.URL.Query().Get("productId")
	if productID == "" {
		http.Error(w, "missing productId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel := h.service.WatchReports(r.Context(), productID)
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "report", Payload: update}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	// Seed the stream with the current report if one exists.
	if report, err := h.service.GetReport(r.Context(), productID); err == nil {
		send <- outboundMessage[any]{Type: "report", Payload: report}
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "generate":
			report, err := h.service.GenerateReport(r.Context(), productID)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			// Watchers (including this one) also get the broadcast; replying
			// directly keeps the requester working if it subscribed late.
			send <- outboundMessage[any]{Type: "generated", Payload: report}
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

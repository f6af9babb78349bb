package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"transparency-service/internal/app"
	"transparency-service/internal/domain"
	"transparency-service/internal/infra/memory"
	"transparency-service/internal/questions"
)

func TestWatchStreamsGeneratedReports(t *testing.T) {
	server, service := newWatchServer(t)
	ctx := context.Background()

	product, err := service.SubmitProduct(ctx, domain.Product{Name: "Granola Bar", Category: "Food & Beverages"})
	if err != nil {
		t.Fatalf("submit product: %v", err)
	}

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/watch?productId=" + product.ID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]string{"type": "generate"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		var msg struct {
			Type    string        `json:"type"`
			Payload domain.Report `json:"payload"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		if msg.Payload.Product.ID != product.ID {
			t.Fatalf("report for wrong product: %+v", msg.Payload.Product)
		}
		seen[msg.Type] = true
	}
	// The generate request is answered directly and also broadcast to watchers.
	if !seen["generated"] || !seen["report"] {
		t.Fatalf("expected generated and report messages, got %v", seen)
	}
}

func TestWatchRequiresProductID(t *testing.T) {
	server, _ := newWatchServer(t)

	resp, err := http.Get(server.URL + "/watch")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without productId, got %d", resp.StatusCode)
	}
}

func TestWatchRejectsUnknownMessageType(t *testing.T) {
	server, service := newWatchServer(t)

	product, err := service.SubmitProduct(context.Background(), domain.Product{Name: "Bar", Category: "Other"})
	if err != nil {
		t.Fatalf("submit product: %v", err)
	}
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/watch?productId=" + product.ID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]string{"type": "bogus"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg struct {
		Type string `json:"type"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != "error" {
		t.Fatalf("expected error message, got %q", msg.Type)
	}
}

func newWatchServer(t *testing.T) (*httptest.Server, *app.TransparencyService) {
	t.Helper()
	service := app.NewTransparencyService(memory.NewStore(), questions.NewAssembler(nil))
	mux := http.NewServeMux()
	NewHandler(service).Register(mux)
	mux.HandleFunc("/watch", NewWatchHandler(service).ServeWS)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, service
}

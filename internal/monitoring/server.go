package monitoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"scaffold-backend/internal/health"
	"scaffold-backend/internal/logging"
	"scaffold-backend/internal/models"
)

const (
	recentLimit = 100
	alertLimit  = 50
)

// MonitoringServer is the ops server. It keeps the recent contract events,
// pushes them to websocket clients, and raises alerts from health checks.
type MonitoringServer struct {
	checker *health.HealthChecker
	port    int
	log     *logrus.Entry

	mu      sync.RWMutex
	recent  []models.ContractEvent
	counts  map[models.EventType]int
	alerts  []Alert
	alertID int

	clients    map[*websocket.Conn]bool
	clientsMux sync.Mutex
	broadcast  chan Message
}

type Alert struct {
	ID        int       `json:"id"`
	Severity  string    `json:"severity"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Message is one websocket frame: either a contract event or an alert
type Message struct {
	Kind  string                `json:"kind"`
	Event *models.ContractEvent `json:"event,omitempty"`
	Alert *Alert                `json:"alert,omitempty"`
}

type Stats struct {
	Database     health.ComponentHealth   `json:"database"`
	Host         health.HostStats         `json:"host"`
	Clients      int                      `json:"websocket_clients"`
	EventCounts  map[models.EventType]int `json:"event_counts"`
	ActiveAlerts int                      `json:"active_alerts"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func NewMonitoringServer(checker *health.HealthChecker, port int) *MonitoringServer {
	return &MonitoringServer{
		checker:   checker,
		port:      port,
		log:       logging.For("monitoring"),
		counts:    make(map[models.EventType]int),
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan Message, 64),
	}
}

// Publish records a contract event and queues it for websocket clients.
// Events are dropped from the live feed when the queue is full.
func (ms *MonitoringServer) Publish(e models.ContractEvent) {
	ms.mu.Lock()
	ms.recent = append(ms.recent, e)
	if len(ms.recent) > recentLimit {
		ms.recent = ms.recent[len(ms.recent)-recentLimit:]
	}
	ms.counts[e.Type]++
	ms.mu.Unlock()

	select {
	case ms.broadcast <- Message{Kind: "event", Event: &e}:
	default:
		ms.log.WithField("type", e.Type).Warn("Event feed queue full, dropping event")
	}
}

// Recent returns the retained events, oldest first
func (ms *MonitoringServer) Recent() []models.ContractEvent {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	out := make([]models.ContractEvent, len(ms.recent))
	copy(out, ms.recent)
	return out
}

func (ms *MonitoringServer) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/stats", ms.getStats).Methods("GET")
	r.HandleFunc("/events", ms.getEvents).Methods("GET")
	r.HandleFunc("/alerts", ms.getAlerts).Methods("GET")
	r.HandleFunc("/ws", ms.handleWebSocket)
	return r
}

// Start serves the ops endpoints until ctx is cancelled
func (ms *MonitoringServer) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", ms.port),
		Handler:           ms.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go ms.handleBroadcast(ctx)
	go ms.monitorHealth(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	ms.log.WithField("addr", srv.Addr).Info("Monitoring server running")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (ms *MonitoringServer) collectStats() Stats {
	s := Stats{Host: health.CollectHost(), Clients: ms.clientCount()}
	if ms.checker != nil {
		s.Database = ms.checker.CheckBasic().Database
	}

	ms.mu.RLock()
	s.EventCounts = make(map[models.EventType]int, len(ms.counts))
	for k, v := range ms.counts {
		s.EventCounts[k] = v
	}
	s.ActiveAlerts = len(ms.alerts)
	ms.mu.RUnlock()
	return s
}

func (ms *MonitoringServer) getStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, ms.collectStats())
}

func (ms *MonitoringServer) getEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, ms.Recent())
}

func (ms *MonitoringServer) getAlerts(w http.ResponseWriter, r *http.Request) {
	ms.mu.RLock()
	alerts := make([]Alert, len(ms.alerts))
	copy(alerts, ms.alerts)
	ms.mu.RUnlock()
	writeJSON(w, alerts)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (ms *MonitoringServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		ms.log.WithError(err).Warn("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ms.clientsMux.Lock()
	ms.clients[conn] = true
	ms.clientsMux.Unlock()

	// Reads only detect the client going away
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			ms.clientsMux.Lock()
			delete(ms.clients, conn)
			ms.clientsMux.Unlock()
			return
		}
	}
}

func (ms *MonitoringServer) clientCount() int {
	ms.clientsMux.Lock()
	defer ms.clientsMux.Unlock()
	return len(ms.clients)
}

func (ms *MonitoringServer) handleBroadcast(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-ms.broadcast:
			ms.clientsMux.Lock()
			for client := range ms.clients {
				client.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := client.WriteJSON(msg); err != nil {
					client.Close()
					delete(ms.clients, client)
				}
			}
			ms.clientsMux.Unlock()
		}
	}
}

func (ms *MonitoringServer) raise(severity, kind, message string) {
	ms.mu.Lock()
	ms.alertID++
	alert := Alert{ID: ms.alertID, Severity: severity, Type: kind, Message: message, Timestamp: time.Now()}
	ms.alerts = append(ms.alerts, alert)
	if len(ms.alerts) > alertLimit {
		ms.alerts = ms.alerts[len(ms.alerts)-alertLimit:]
	}
	ms.mu.Unlock()

	ms.log.WithFields(logrus.Fields{"severity": severity, "type": kind}).Warn(message)
	select {
	case ms.broadcast <- Message{Kind: "alert", Alert: &alert}:
	default:
	}
}

func (ms *MonitoringServer) monitorHealth(ctx context.Context) {
	if ms.checker == nil {
		return
	}
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ms.checkOnce()
		}
	}
}

func (ms *MonitoringServer) checkOnce() {
	db := ms.checker.CheckBasic().Database
	if db.Status == "unhealthy" {
		ms.raise("critical", "database_down", "Database is unreachable")
	} else if db.ResponseTime > 1000 {
		ms.raise("warning", "high_latency", fmt.Sprintf("Database response time: %dms", db.ResponseTime))
	}
}

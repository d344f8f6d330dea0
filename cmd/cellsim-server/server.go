package main

import (
	"fmt"
	"net/http"

	"github.com/daniacca/metabocell/internal/cellular"
	"github.com/daniacca/metabocell/internal/cellular/notifiers"
)

// streamNotifierID is the notifier every tissue on this server streams to.
const streamNotifierID = "ws"

// Server is the HTTP front end of the tissue simulator
type Server struct {
	manager         *cellular.TissueManager
	notificationMgr *cellular.NotificationManager
	stream          *notifiers.WebSocketNotifier
	maxSteps        int
	logger          *Logger
}

// NewServer creates a server with an empty tissue manager and a WebSocket
// stream registered as notifier "ws".
func NewServer(logger *Logger, maxSteps int) (*Server, error) {
	mgr := cellular.NewNotificationManagerWithLogger(logger.With("notify"))

	stream := notifiers.NewWebSocketNotifier(streamNotifierID)
	if err := mgr.RegisterNotifier(stream); err != nil {
		stream.Close()
		mgr.Close()
		return nil, fmt.Errorf("registering stream notifier: %w", err)
	}

	if maxSteps <= 0 {
		maxSteps = 1000
	}

	return &Server{
		manager:         cellular.NewTissueManagerWithLogger(logger.With("tissue")),
		notificationMgr: mgr,
		stream:          stream,
		maxSteps:        maxSteps,
		logger:          logger,
	}, nil
}

// ApplyConfig builds a tissue from cfg and stores it under id, replacing any
// existing tissue. It reports whether a tissue was replaced.
func (s *Server) ApplyConfig(id cellular.TissueID, cfg cellular.TissueConfig) (bool, error) {
	tissue, err := cellular.BuildTissueFromConfig(cfg)
	if err != nil {
		return false, err
	}

	notify := cfg.Notify
	notify.Enabled = true
	notify.Notifiers = appendUnique(notify.Notifiers, streamNotifierID)
	tissue.SetNotificationConfig(notify)
	tissue.SetNotificationManager(s.notificationMgr)

	return s.manager.Replace(id, tissue)
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(append([]string(nil), ids...), id)
}

// Routes returns the HTTP handler for every endpoint
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/tissues", s.handleListTissues)
	mux.HandleFunc("/tissue/", s.handleTissueRoutes)
	mux.Handle("/ws", s.stream)
	mux.HandleFunc("/notifiers", s.handleNotifiersRoutes)
	mux.HandleFunc("/notifiers/", s.handleNotifiersRoutes)
	return mux
}

// Close stops notification delivery and closes every notifier
func (s *Server) Close() error {
	return s.notificationMgr.Close()
}

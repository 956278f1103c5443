// Playlist Bridge - pushes city playlists into Discord channels
// License: MIT
//
// Copyright (c) 2026 Playlist Bridge contributors

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/citytrip/playlistbridge/pkg/cache"
	"github.com/citytrip/playlistbridge/pkg/discord"
	"github.com/citytrip/playlistbridge/pkg/logger"
	"github.com/citytrip/playlistbridge/pkg/playlist"
	"github.com/citytrip/playlistbridge/pkg/render"
	"github.com/citytrip/playlistbridge/pkg/router"
)

// Dispatcher is the chat-client capability the ingress needs. *discord.Client
// satisfies it; tests substitute a fake.
type Dispatcher interface {
	Ready() bool
	Publish(ctx context.Context, channelID string, post *render.Post, p playlist.Payload) (*discord.PublishResult, error)
	ChannelInfo(channelID string) (*discord.ChannelInfo, error)
}

// Options carries the configuration slice the HTTP layer needs.
type Options struct {
	Addr            string
	FrontendBaseURL string
	AllowedOrigins  []string
	Development     bool
}

// Server is the webhook ingress: it accepts playlist pushes, routes them to
// a channel, caches them for later button interactions, and reports the
// outcome synchronously.
type Server struct {
	opts       Options
	channels   *router.ChannelMap
	store      *cache.Store
	dispatcher Dispatcher
	httpSrv    *http.Server
}

func New(opts Options, channels *router.ChannelMap, store *cache.Store, dispatcher Dispatcher) *Server {
	s := &Server{
		opts:       opts,
		channels:   channels,
		store:      store,
		dispatcher: dispatcher,
	}
	s.httpSrv = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler builds the routed handler. Exposed so tests can drive it with
// httptest without binding a port.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/pushPlaylist", s.handlePush).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/", s.handleHealth).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/admin/channels", s.handleAdminChannels).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/test/city/{cityName}", s.handleTestCity).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/venue/{id}", s.handleDeprecatedPlace("venue")).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/route/{id}", s.handleDeprecatedPlace("route")).Methods(http.MethodGet, http.MethodOptions)

	// CORS wraps the whole router so OPTIONS preflight short-circuits
	// before any handler runs.
	return s.corsMiddleware(s.loggingMiddleware(r))
}

// ListenAndServe blocks until the server stops.
func (s *Server) ListenAndServe() error {
	logger.InfoCF("http", "API listening", map[string]any{"addr": s.opts.Addr})
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

type pushStats struct {
	SubmissionID string `json:"submissionId"`
	ChannelID    string `json:"channelId"`
	Mode         string `json:"mode"`
	Tag          string `json:"tag,omitempty"`
	Venues       int    `json:"venues"`
	Routes       int    `json:"routes"`
}

func (s *Server) handlePush(w http.ResponseWriter, r *http.Request) {
	var p playlist.Payload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.writeFailure(w, http.StatusBadRequest, "invalid JSON payload", err)
		return
	}

	res, err := s.channels.Resolve(p.City)
	if err != nil {
		s.writeFailure(w, http.StatusInternalServerError, "no destination channel configured for this city", err)
		return
	}

	if !s.dispatcher.Ready() {
		s.writeFailure(w, http.StatusInternalServerError, "discord bot not ready, please retry later", discord.ErrNotReady)
		return
	}

	submissionID := s.store.Put(p)
	post := render.Build(p, submissionID)

	result, err := s.dispatcher.Publish(r.Context(), res.ChannelID, post, p)
	if err != nil {
		s.writeFailure(w, http.StatusInternalServerError, publishErrorMessage(err, res.ChannelID), err)
		return
	}

	logger.InfoCF("http", "Playlist pushed", map[string]any{
		"submission_id": submissionID,
		"channel_id":    res.ChannelID,
		"city":          p.City,
		"mode":          result.Mode,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Playlist pushed to Discord",
		"stats": pushStats{
			SubmissionID: submissionID,
			ChannelID:    res.ChannelID,
			Mode:         result.Mode,
			Tag:          result.Tag,
			Venues:       len(p.RelatedVenues),
			Routes:       len(p.RelatedRoutes),
		},
	})
}

func publishErrorMessage(err error, channelID string) string {
	switch {
	case errors.Is(err, discord.ErrNotReady):
		return "discord bot not ready, please retry later"
	case errors.Is(err, discord.ErrChannelNotFound):
		return fmt.Sprintf("destination channel %s not found", channelID)
	case errors.Is(err, discord.ErrUnsupportedChannelType):
		return fmt.Sprintf("destination channel %s has an unsupported type", channelID)
	default:
		return "failed to push playlist to Discord"
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"botReady":  s.dispatcher.Ready(),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

type channelStatus struct {
	City      string `json:"city"`
	ChannelID string `json:"channelId"`
	OK        bool   `json:"ok"`
	Name      string `json:"name,omitempty"`
	Type      int    `json:"type,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (s *Server) handleAdminChannels(w http.ResponseWriter, r *http.Request) {
	statuses := make([]channelStatus, 0, len(s.channels.Entries())+1)

	probe := func(city, channelID string) channelStatus {
		st := channelStatus{City: city, ChannelID: channelID}
		if channelID == "" {
			st.Error = "not configured"
			return st
		}
		info, err := s.dispatcher.ChannelInfo(channelID)
		if err != nil {
			st.Error = err.Error()
			return st
		}
		st.OK = true
		st.Name = info.Name
		st.Type = int(info.Type)
		return st
	}

	for _, e := range s.channels.Entries() {
		statuses = append(statuses, probe(e.City, e.ChannelID))
	}
	statuses = append(statuses, probe(router.DefaultKey, s.channels.Default()))

	writeJSON(w, http.StatusOK, map[string]any{
		"botReady": s.dispatcher.Ready(),
		"channels": statuses,
	})
}

func (s *Server) handleTestCity(w http.ResponseWriter, r *http.Request) {
	city := mux.Vars(r)["cityName"]

	res, err := s.channels.Resolve(city)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"input":      city,
			"normalized": res.Normalized,
			"error":      "no destination channel configured",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"input":      city,
		"normalized": res.Normalized,
		"channelId":  res.ChannelID,
		"matchedBy":  res.MatchedBy,
	})
}

// handleDeprecatedPlace keeps the old share-link paths alive with a hint at
// the frontend URL that replaced them.
func (s *Server) handleDeprecatedPlace(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		writeJSON(w, http.StatusOK, map[string]any{
			"deprecated": true,
			"use":        fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.opts.FrontendBaseURL, "/"), kind, id),
		})
	}
}

func (s *Server) writeFailure(w http.ResponseWriter, status int, message string, err error) {
	body := map[string]any{
		"success": false,
		"error":   message,
	}
	if s.opts.Development && err != nil {
		body["details"] = err.Error()
	}
	if err != nil {
		logger.WarnCF("http", "Request failed", map[string]any{
			"error":   message,
			"details": err.Error(),
		})
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.ErrorCF("http", "Failed to encode response", map[string]any{"error": err.Error()})
	}
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	origins := make(map[string]bool, len(s.opts.AllowedOrigins))
	for _, o := range s.opts.AllowedOrigins {
		o = strings.TrimSpace(o)
		if o != "" {
			origins[o] = true
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.DebugCF("http", "Request handled", map[string]any{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
			"elapsed_ms": time.Since(start).Milliseconds(),
		})
	})
}

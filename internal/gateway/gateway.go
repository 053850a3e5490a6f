// Package gateway bridges WebSocket connections onto list rooms. Each
// connection subscribes to exactly one list; inbound frames become room
// commands, room events become outbound frames.
package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"courses/internal/auth"
	"courses/internal/room"
	"courses/internal/store"
)

// Application close codes. Clients distinguish "fix your token" from "fix
// your URL" without parsing reasons.
const (
	CloseBadListID    websocket.StatusCode = 4000
	CloseUnauthorized websocket.StatusCode = 4401
	CloseListNotFound websocket.StatusCode = 4004
)

// Gateway upgrades HTTP requests to list subscriptions.
type Gateway struct {
	registry   *room.Registry
	authorizer *auth.Authorizer
	store      *store.Store
	logger     *slog.Logger
}

// New wires a Gateway.
func New(registry *room.Registry, authorizer *auth.Authorizer, st *store.Store, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		registry:   registry,
		authorizer: authorizer,
		store:      st,
		logger:     logger,
	}
}

// Register mounts the socket endpoint on mux.
func (g *Gateway) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /ws/lists/{list_id}", g.handleSocket)
}

func (g *Gateway) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// The app is served from the same origin; trusted reverse proxies
		// may rewrite it.
		InsecureSkipVerify: true,
	})
	if err != nil {
		g.logger.Debug("socket accept failed", slog.Any("error", err))
		return
	}

	ctx := r.Context()

	// Credentials are checked once, at connection time. Revoking a token
	// does not terminate sockets that are already open.
	if err := g.authorizer.Authenticate(ctx, auth.TokenFromRequest(r)); err != nil {
		conn.Close(CloseUnauthorized, "jeton invalide")
		return
	}

	listID, err := uuid.Parse(r.PathValue("list_id"))
	if err != nil {
		conn.Close(CloseBadListID, "identifiant de liste invalide")
		return
	}
	exists, err := g.store.ListExists(ctx, listID)
	if err != nil {
		g.logger.Error("list lookup failed", slog.Any("error", err))
		conn.Close(websocket.StatusInternalError, "erreur interne")
		return
	}
	if !exists {
		conn.Close(CloseListNotFound, "liste introuvable")
		return
	}

	sub := g.registry.Subscribe(listID)
	g.logger.Debug("subscriber connected", slog.String("list_id", listID.String()))

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for frame := range sub.Frames() {
			if err := conn.Write(ctx, websocket.MessageText, frame); err != nil {
				return
			}
		}
	}()

	g.readLoop(ctx, conn, sub)

	g.registry.Unsubscribe(sub)
	<-writerDone
	conn.Close(websocket.StatusNormalClosure, "")
	g.logger.Debug("subscriber disconnected", slog.String("list_id", listID.String()))
}

func (g *Gateway) readLoop(ctx context.Context, conn *websocket.Conn, sub *room.Subscriber) {
	for {
		kind, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		if kind != websocket.MessageText {
			continue
		}
		var cmd room.Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			sub.Reply("message JSON invalide")
			continue
		}
		sub.Dispatch(cmd)
	}
}

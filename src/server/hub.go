package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"covid-dashboard/src/dashboard"
	"covid-dashboard/src/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const selectTimeout = 30 * time.Second

// -----------------------------------------------------------------------------
// Hub Pattern Implementation
// -----------------------------------------------------------------------------

// handleWebsockets is the main Hub loop. It is the only goroutine touching s.clients;
// everyone else reads the count through s.connections.
func (s *DashboardServer) handleWebsockets() {
	for {
		select {
		case <-s.done:
			for client := range s.clients {
				s.dropClient(client)
			}
			return

		case client := <-s.register:
			s.clients[client] = struct{}{}
			s.connections.Add(1)
			// Send the full state on connect
			s.stateMutex.RLock()
			initial := *s.latestState
			s.stateMutex.RUnlock()
			initial.Type = "INITIAL"
			client.send <- &initial

		case client := <-s.unregister:
			s.dropClient(client)

		case msg := <-s.direct:
			if _, ok := s.clients[msg.client]; !ok {
				continue
			}
			select {
			case msg.client.send <- msg.payload:
			default:
				s.dropClient(msg.client)
			}

		case message := <-s.broadcast:
			for client := range s.clients {
				select {
				case client.send <- message:
				default:
					// Client too slow, disconnect to prevent Hub blocking
					s.dropClient(client)
				}
			}
		}
	}
}

// dropClient forgets a registered client and closes its send channel. Hub goroutine only.
func (s *DashboardServer) dropClient(client *Client) {
	if _, ok := s.clients[client]; !ok {
		return
	}
	delete(s.clients, client)
	close(client.send)
	s.connections.Add(-1)
}

// ConnectedClients is safe to call from any goroutine.
func (s *DashboardServer) ConnectedClients() int {
	return int(s.connections.Load())
}

// -----------------------------------------------------------------------------
// Data Exchange Interface Implementation
// -----------------------------------------------------------------------------

// Broadcast stores the state as latest and queues it for every websocket client.
// A sequenced state older than the cached one is dropped, so late publishers never
// roll the cache back.
func (s *DashboardServer) Broadcast(state *models.MDashboardState) {
	if state == nil {
		return
	}

	s.stateMutex.Lock()
	defer s.stateMutex.Unlock()
	if state.Sequence != 0 && state.Sequence < s.latestState.Sequence {
		s.Logger.Debug("Dropping out-of-order update %d (latest %d)", state.Sequence, s.latestState.Sequence)
		return
	}
	s.latestState = state

	select {
	case s.broadcast <- state:
	default:
		s.Logger.Warning("Broadcast queue full, dropping update %s", state.LoadID)
	}
}

// -----------------------------------------------------------------------------
// WebSocket Handlers
// -----------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	client := &Client{
		hub:  s,
		conn: conn,
		// Buffered channel to prevent blocking the Hub loop
		send: make(chan interface{}, 256),
	}

	s.register <- client

	// Start goroutines for reading/writing
	go client.writePump()
	go client.readPump()
}

// -----------------------------------------------------------------------------
// Client Message Handling
// -----------------------------------------------------------------------------

// dispatchCommand runs a validated client command. "select" changes the timeline for every
// viewer (the new state arrives through Broadcast); "state" answers only the sender.
func (s *DashboardServer) dispatchCommand(client *Client, cmd models.MClientCommand) {
	switch cmd.Command {
	case CommandState:
		s.reply(client, s.currentState())

	case CommandSelect:
		d := s.getDashboard()
		if d == nil {
			s.reply(client, errorMessage("dashboard not ready"))
			return
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), selectTimeout)
			defer cancel()

			if _, err := d.SelectCountry(ctx, cmd.Country); err != nil {
				if errors.Is(err, dashboard.ErrStaleSelection) {
					return
				}
				s.reply(client, errorMessage(err.Error()))
			}
		}()
	}
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) reply(client *Client, payload interface{}) {
	select {
	case s.direct <- clientMessage{client: client, payload: payload}:
	case <-s.done:
	}
}

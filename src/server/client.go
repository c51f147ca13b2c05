package server

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"covid-dashboard/src/dashboard"
	"covid-dashboard/src/models"

	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Constants
// -----------------------------------------------------------------------------

const (
	writeWait      = 2 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024 // commands are tiny; states only flow outwards

	// maxInvalidCommands bad commands in a row close the connection.
	maxInvalidCommands = 5
)

// Commands a browser may send.
const (
	CommandState  = "state"
	CommandSelect = "select"
)

// -----------------------------------------------------------------------------
// Client Structure
// -----------------------------------------------------------------------------

// Client is one browser tab on /ws.
type Client struct {
	hub  *DashboardServer
	conn *websocket.Conn
	send chan interface{}
}

// -----------------------------------------------------------------------------

// decodeCommand parses and validates one websocket frame. The country of a "select" is
// returned in canonical form.
func decodeCommand(message []byte) (models.MClientCommand, error) {
	var cmd models.MClientCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		return cmd, fmt.Errorf("malformed command: %w", err)
	}
	cmd.Command = strings.ToLower(strings.TrimSpace(cmd.Command))

	switch cmd.Command {
	case CommandState:
		return cmd, nil
	case CommandSelect:
		code, err := dashboard.NormalizeCountryCode(cmd.Country)
		if err != nil {
			return cmd, err
		}
		cmd.Country = code
		return cmd, nil
	case "":
		return cmd, fmt.Errorf("missing command")
	default:
		return cmd, fmt.Errorf("unknown command %q", cmd.Command)
	}
}

func errorMessage(text string) map[string]string {
	return map[string]string{"type": "ERROR", "error": text}
}

// -----------------------------------------------------------------------------
// readPump decodes browser commands and hands valid ones to the hub. Invalid ones get an
// ERROR reply; a run of them ends the connection. It also acts as the connection watchdog.
// -----------------------------------------------------------------------------

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
		c.hub.Logger.Debug("Client disconnected")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	invalid := 0
	for {
		kind, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.Logger.Info("WebSocket error: %v", err)
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}

		cmd, err := decodeCommand(message)
		if err != nil {
			invalid++
			c.hub.Logger.Debug("Rejected client command (%d in a row): %v", invalid, err)
			if invalid >= maxInvalidCommands {
				return
			}
			c.hub.reply(c, errorMessage(err.Error()))
			continue
		}
		invalid = 0
		c.hub.dispatchCommand(c, cmd)
	}
}

// -----------------------------------------------------------------------------
// writePump serialises hub output onto the socket and keeps it alive with pings.
// -----------------------------------------------------------------------------

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				c.hub.Logger.Info("Write error: %v", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

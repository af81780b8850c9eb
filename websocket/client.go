package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

// Client is one connected dashboard subscriber.
type Client struct {
	manager *Manager
	socket  *websocket.Conn
	send    chan []byte
}

// readPump drains inbound frames. Subscribers never send payloads;
// reading is only needed to process control frames and notice when the
// peer goes away.
func (c *Client) readPump() {
	defer func() {
		c.manager.unregister <- c
		c.socket.Close()
	}()

	c.socket.SetReadLimit(512)
	c.socket.SetReadDeadline(time.Now().Add(pongWait))
	c.socket.SetPongHandler(func(string) error {
		return c.socket.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.socket.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump sends hub messages and keepalive pings to the peer.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.socket.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.socket.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.socket.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

			// Flush anything that queued up behind this message.
			n := len(c.send)
			for i := 0; i < n; i++ {
				if err := c.socket.WriteMessage(websocket.TextMessage, <-c.send); err != nil {
					return
				}
			}

		case <-ticker.C:
			c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.socket.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

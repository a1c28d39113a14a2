package webchat

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var pingPeriod = 10 * time.Second

// Client is one live bidirectional connection. The registry references clients but
// never owns them, the transport goroutines below do.
type Client struct {
	Session *Session
	// Subject is the username asserted by a verified auth token, empty when the
	// relay runs without authentication.
	Subject    string
	Connection *websocket.Conn

	hub  *Hub
	send chan *Event
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Disconnect(c)
		_ = c.Connection.Close()
	}()

	for {
		_, rawData, err := c.Connection.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logrus.Errorln("Failed to read message:", err)
			}
			break
		}

		// a malformed frame is dropped, never fatal for the connection
		msg := &WSMessage{}
		jsonError := json.Unmarshal(rawData, msg)
		if jsonError != nil {
			logrus.WithField("session", c.Session.ID).WithError(jsonError).Warn("malformed frame dropped")
			continue
		}

		err, errMsg := HandleWSMessage(c, msg)
		if err != nil {
			logrus.Errorln(errMsg, err)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Connection.Close()
	}()
	for {
		select {
		case event, ok := <-c.send:
			if !ok {
				return
			}

			if event != nil {
				err := c.Connection.WriteJSON(event)
				if err != nil {
					logrus.Errorln("Failed to send json message:", err)
					return
				}
			}
		case <-ticker.C:
			err := c.Connection.WriteMessage(websocket.PingMessage, nil)
			if err != nil {
				logrus.Errorln("Failed to send ping message:", err)
				return
			}
		}
	}
}

package webchat

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pbnjay/memory"
	"github.com/sirupsen/logrus"

	"github.com/talkwire/relay-server/auth"
	"github.com/talkwire/relay-server/utils"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:   1024,
	WriteBufferSize:  1024,
	HandshakeTimeout: 8 * time.Second,
	CheckOrigin:      func(r *http.Request) bool { return true },
}

func Index(w http.ResponseWriter, r *http.Request) {
	_, err := fmt.Fprint(w, "relay server")
	if err != nil {
		logrus.Errorln(err)
	}
}

type pingPayload struct {
	PID      int64  `json:"pid"`
	HostName string `json:"hostname"`
	UpTime   int64  `json:"uptime"`
	FreeMem  int64  `json:"free_mem"`
}

func Ping(startTime time.Time, w http.ResponseWriter, r *http.Request) {
	hostname, err := os.Hostname()
	if err != nil {
		logrus.Println(err)
		hostname = ""
	}

	data := &pingPayload{
		PID:      int64(os.Getpid()),
		HostName: hostname,
		UpTime:   int64(time.Since(startTime).Seconds()),
		FreeMem:  int64(memory.FreeMemory()),
	}
	err = utils.WriteJSON(w, http.StatusOK, data)
	if err != nil {
		logrus.Errorln(err)
	}
}

// ServeWS upgrades the request to a WebSocket connection and hands it to the hub. When
// an authenticator is configured the token query parameter must verify, the connection
// is refused otherwise and the username it asserts pins later identity claims.
func ServeWS(hub *Hub, authenticator auth.Authenticator, w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.Errorln(err)
		return
	}

	subject := ""
	if authenticator != nil {
		subject, err = authenticator.Authenticate(r.URL.Query().Get("token"))
		if err != nil {
			logrus.WithError(err).Warn("connection refused, invalid auth token")
			message := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "invalid token")
			_ = conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(time.Second))
			_ = conn.Close()
			return
		}
	}

	client := &Client{
		Session:    NewSession(),
		Subject:    subject,
		Connection: conn,
		hub:        hub,
		send:       make(chan *Event, hub.sendBuffer),
	}
	hub.Connect(client)

	go client.writePump()
	go client.readPump()
}

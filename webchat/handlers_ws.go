package webchat

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// WSMessage is the envelope every inbound frame uses.
type WSMessage struct {
	CID   int             `json:"cid"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type SetUsernameRequest struct {
	Username string `json:"username"`
	Language string `json:"language"`
}

func HandleSetUsername(client *Client, msg *WSMessage) error {
	reqData := &SetUsernameRequest{}
	err := json.Unmarshal(msg.Data, reqData)
	if err != nil {
		return errors.Wrap(err, "unable to parse set username payload")
	}
	if reqData.Username == "" {
		return errors.New("set username payload missing username")
	}

	client.hub.Bind(client, reqData.Username, reqData.Language)
	return nil
}

type ChatSendRequest struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

func HandleChatMessage(client *Client, msg *WSMessage) error {
	reqData := &ChatSendRequest{}
	err := json.Unmarshal(msg.Data, reqData)
	if err != nil {
		return errors.Wrap(err, "unable to parse chat message payload")
	}

	client.hub.SendChat(client, reqData.To, reqData.Text)
	return nil
}

type TypingRequest struct {
	To string `json:"to"`
}

func HandleTyping(client *Client, msg *WSMessage, stop bool) error {
	reqData := &TypingRequest{}
	err := json.Unmarshal(msg.Data, reqData)
	if err != nil {
		return errors.Wrap(err, "unable to parse typing payload")
	}

	client.hub.SendTyping(client, reqData.To, stop)
	return nil
}

func HandleWSMessage(client *Client, msg *WSMessage) (error, string) {
	if msg.Event == EventSetUsername {
		return HandleSetUsername(client, msg), "Failed to set username:"
	} else if msg.Event == EventChatSend {
		return HandleChatMessage(client, msg), "Failed to send message:"
	} else if msg.Event == EventTyping {
		return HandleTyping(client, msg, false), "Failed to relay typing signal:"
	} else if msg.Event == EventStopTyping {
		return HandleTyping(client, msg, true), "Failed to relay stop typing signal:"
	}
	return nil, ""
}

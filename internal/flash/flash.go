package flash

import (
	"encoding/gob"
	"log"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"taskman/internal/constants"
)

// Message types map to the notice styles the view layer renders.
const (
	TypeSuccess   = "success"
	TypeInfo      = "info"
	TypeSecondary = "secondary"
	TypeWarning   = "warning"
)

// Message is a one-shot notice queued for the next rendered page.
type Message struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

func init() {
	// Session values travel through gob.
	gob.Register([]Message{})
}

// Set appends a message to the session's flash queue.
func Set(c *gin.Context, msg Message) {
	session := sessions.Default(c)
	queue, _ := session.Get(constants.SessionKeyFlash).([]Message)
	session.Set(constants.SessionKeyFlash, append(queue, msg))
	if err := session.Save(); err != nil {
		log.Printf("flash: failed to save session: %v", err)
	}
}

// Take drains and returns the queued messages.
func Take(c *gin.Context) []Message {
	session := sessions.Default(c)
	queue, _ := session.Get(constants.SessionKeyFlash).([]Message)
	if len(queue) == 0 {
		return nil
	}
	session.Delete(constants.SessionKeyFlash)
	if err := session.Save(); err != nil {
		log.Printf("flash: failed to save session: %v", err)
	}
	return queue
}

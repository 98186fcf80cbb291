package entity

import (
	"strconv"
	"strings"
)

// TriggerKey names the event that caused a notification.
type TriggerKey string

const TriggerKeyUserWelcome TriggerKey = "user_welcome"

func (t TriggerKey) String() string { return string(t) }

// Welcome is the greeting sent once to every new identity that has an email.
type Welcome struct {
	UserID  int64
	Email   string
	Handle  string
	Channel string
}

// DedupKey identifies the notification across redeliveries of the same event.
func (w Welcome) DedupKey() string {
	return "notification:" + TriggerKeyUserWelcome.String() + ":" + strconv.FormatInt(w.UserID, 10)
}

// Greeting is the name used in the salutation. The handle is preferred; the
// email local part is the fallback.
func (w Welcome) Greeting() string {
	if h := strings.TrimSpace(w.Handle); h != "" {
		return h
	}
	local, _, _ := strings.Cut(w.Email, "@")
	return local
}

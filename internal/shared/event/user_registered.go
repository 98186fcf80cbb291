package event

// UserRegisteredDestination is published once per newly created identity.
const UserRegisteredDestination string = "identity.user.registered"
const UserRegisteredConsumerNotification string = "identity.user.registered.notification"

type UserRegisteredMessage struct {
	UserID      int64  `json:"user_id"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Handle      string `json:"handle"`
	Channel     string `json:"channel"`
}

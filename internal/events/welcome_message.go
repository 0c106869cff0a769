package events

import "time"

const WelcomeTopic = "hr.onboarding.welcome.v1"

// WelcomeMessage adalah pesan broadcast yang dikirim Notifier ke topic welcome.
// Fan-out ke inbox individual menjadi urusan downstream consumer.
type WelcomeMessage struct {
	MessageID  string    `json:"message_id"`
	EmployeeID uint      `json:"employee_id"`
	Email      string    `json:"email"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	OccurredAt time.Time `json:"occurred_at"`
}

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"time"

	"go-onboard/internal/employee"
	"go-onboard/internal/events"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const welcomeBodyTemplate = `Hello {{.Name}},

Welcome to Innovatech Solutions!

Your account has been successfully created with the following details:

Name: {{.Name}}
Email: {{.Email}}
Department: {{.Department}}
Role: {{.Role}}

Your IT access has been provisioned and you should now be able to access:
- Email system
- Company intranet
- Department-specific applications

If you have any questions, please contact IT support.

Best regards,
Innovatech IT Team
`

var bodyTmpl = template.Must(template.New("welcome").Parse(welcomeBodyTemplate))

// MessageWriter dipenuhi oleh *kafkago.Writer, dipisah supaya Notifier bisa
// diuji tanpa broker.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type NotifyOutcome struct {
	EmployeeID uint
	MessageID  string
	Err        error
}

func (o NotifyOutcome) Succeeded() bool {
	return o.Err == nil
}

// Notifier merender pesan welcome dan mem-broadcast ke satu topic. Kegagalan
// dispatch dikembalikan dalam outcome, tidak pernah dilempar ke pipeline.
type Notifier interface {
	Notify(ctx context.Context, emp employee.Employee) NotifyOutcome
}

type notifier struct {
	writer MessageWriter
	topic  string
	logger *zap.Logger
}

func NewNotifier(writer MessageWriter, topic string, logger ...*zap.Logger) Notifier {
	l := zap.L().Named("notify.notifier")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notify.notifier")
	}
	if topic == "" {
		topic = events.WelcomeTopic
	}
	return &notifier{
		writer: writer,
		topic:  topic,
		logger: l,
	}
}

func (n *notifier) Notify(ctx context.Context, emp employee.Employee) NotifyOutcome {
	n.logger.Debug("sending welcome message",
		zap.Uint("employee_id", emp.ID),
		zap.String("email", emp.Email),
	)

	subject := fmt.Sprintf("Welcome to Innovatech, %s!", emp.Name)

	var body strings.Builder
	if err := bodyTmpl.Execute(&body, emp); err != nil {
		n.logger.Error("render welcome message failed",
			zap.Uint("employee_id", emp.ID),
			zap.Error(err),
		)
		return NotifyOutcome{EmployeeID: emp.ID, Err: err}
	}

	msg := events.WelcomeMessage{
		MessageID:  uuid.NewString(),
		EmployeeID: emp.ID,
		Email:      emp.Email,
		Subject:    subject,
		Body:       body.String(),
		OccurredAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return NotifyOutcome{EmployeeID: emp.ID, Err: err}
	}

	err = n.writer.WriteMessages(ctx, kafkago.Message{
		Topic: n.topic,
		Key:   []byte(emp.Email),
		Value: payload,
		Headers: []kafkago.Header{
			{Key: "message_id", Value: []byte(msg.MessageID)},
		},
	})
	if err != nil {
		n.logger.Error("dispatch welcome message failed",
			zap.Uint("employee_id", emp.ID),
			zap.String("email", emp.Email),
			zap.Error(err),
		)
		return NotifyOutcome{EmployeeID: emp.ID, Err: err}
	}

	n.logger.Info("welcome message dispatched",
		zap.Uint("employee_id", emp.ID),
		zap.String("email", emp.Email),
		zap.String("message_id", msg.MessageID),
	)
	return NotifyOutcome{EmployeeID: emp.ID, MessageID: msg.MessageID}
}

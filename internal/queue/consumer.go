package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartPunchConsumer connects to RabbitMQ, declares the punch.recorded queue
// and appends every event to logs/punches.log as a single audit line. It runs
// a reconnect loop with backoff and never returns under normal operation;
// processing errors are logged and the offending message rejected without
// requeue so the stream keeps moving.
func StartPunchConsumer() {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL())
		if err != nil {
			log.Printf("punch-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeLoop(conn); err != nil {
			log.Printf("punch-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("punch-consumer: set QoS failed: %v", err)
	}
	if _, err := ch.QueueDeclare(punchQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(punchQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := appendAuditLine(d.Body); err != nil {
			log.Printf("punch-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func appendAuditLine(body []byte) error {
	var ev PunchRecordedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join("logs", "punches.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	zone := "-"
	if ev.GeofenceID != nil {
		zone = *ev.GeofenceID
	}
	inside := "n/a"
	if ev.InsideGeofence != nil {
		inside = fmt.Sprintf("%t", *ev.InsideGeofence)
	}
	line := fmt.Sprintf("[%s] punch | usuario=%s | tipo=%s | fecha=%s | hora=%s | depto=%q | inside=%s | zona=%s | auto=%t | id=%s\n",
		ev.RecordedAt, ev.Usuario, ev.Tipo, ev.Fecha, ev.Hora, ev.Departamento, inside, zone, ev.Auto, ev.RecordID)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

package nats_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	natsbroker "github.com/christran/create-2block-app-sub000/internal/adapters/eventbroker/nats"
	"github.com/christran/create-2block-app-sub000/internal/config"
)

type mockHandler struct {
	messages [][]byte
	received chan struct{}
	err      error
	mu       sync.Mutex
}

func (m *mockHandler) HandleMessage(ctx context.Context, data []byte) error {
	m.mu.Lock()
	m.messages = append(m.messages, data)
	m.mu.Unlock()

	if m.received != nil {
		m.received <- struct{}{}
	}
	return m.err
}

func (m *mockHandler) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

func setupNATSContainer(t *testing.T) (string, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "nats:2.10-alpine",
		ExposedPorts: []string{"4222/tcp"},
		Cmd:          []string{"-js"},
		WaitingFor:   wait.ForLog("Server is ready"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "4222")
	require.NoError(t, err)

	cleanup := func() {
		_ = container.Terminate(ctx)
	}

	return "nats://" + host + ":" + port.Port(), cleanup
}

func setupStream(t *testing.T, js nats.JetStreamContext, streamName, subject string) {
	_, err := js.AddStream(&nats.StreamConfig{
		Name:     streamName,
		Subjects: []string{subject},
	})
	require.NoError(t, err)
}

func notificationPayload(key string) []byte {
	return fmt.Appendf(nil, `{
		"EventName": "s3:ObjectCreated:Put",
		"Key": "uploads/%s",
		"Records": [{
			"eventName": "s3:ObjectCreated:Put",
			"s3": {"bucket": {"name": "uploads"}, "object": {"key": %q, "size": 1024, "eTag": "abc"}},
			"eventTime": "2026-08-31T12:00:00.000Z"
		}]
	}`, key, key)
}

func TestConsumer_Subscribe(t *testing.T) {
	// Arrange
	natsURL, cleanup := setupNATSContainer(t)
	defer cleanup()

	streamName := "upload-events"
	subject := "uploads.created"

	nc, err := nats.Connect(natsURL)
	require.NoError(t, err)
	defer nc.Close()

	js, err := nc.JetStream()
	require.NoError(t, err)

	setupStream(t, js, streamName, subject)

	handler := &mockHandler{
		received: make(chan struct{}, 1),
	}

	cfg := config.NATSConfig{
		URL:          natsURL,
		StreamName:   streamName,
		Subject:      subject,
		ConsumerName: "upload-finalizer",
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	consumer, err := natsbroker.NewNATSConsumer(cfg, logger)
	require.NoError(t, err)
	defer consumer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	payload := notificationPayload("uploads/" + uuid.NewString())

	// Act
	err = consumer.Subscribe(ctx, handler)
	require.NoError(t, err)

	_, err = js.Publish(subject, payload)
	require.NoError(t, err)

	select {
	case <-handler.received:
	case <-time.After(3 * time.Second):
		t.Fatal("message not received")
	}

	// Assert
	require.Equal(t, 1, handler.count())
	assert.Equal(t, payload, handler.messages[0])
}

func TestConsumer_Subscribe_HandlerError(t *testing.T) {
	// Arrange
	natsURL, cleanup := setupNATSContainer(t)
	defer cleanup()

	streamName := "upload-events-errors"
	subject := "uploads.created"

	nc, err := nats.Connect(natsURL)
	require.NoError(t, err)
	defer nc.Close()

	js, err := nc.JetStream()
	require.NoError(t, err)

	setupStream(t, js, streamName, subject)

	handler := &mockHandler{
		received: make(chan struct{}, 2),
		err:      assert.AnError,
	}

	cfg := config.NATSConfig{
		URL:          natsURL,
		StreamName:   streamName,
		Subject:      subject,
		ConsumerName: "upload-finalizer",
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	consumer, err := natsbroker.NewNATSConsumer(cfg, logger)
	require.NoError(t, err)
	defer consumer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Act
	err = consumer.Subscribe(ctx, handler)
	require.NoError(t, err)

	_, err = js.Publish(subject, notificationPayload("uploads/broken"))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		select {
		case <-handler.received:
		case <-time.After(3 * time.Second):
			t.Fatal("expected redelivery")
		}
	}

	// Assert - naks trigger redelivery of the same notification
	assert.GreaterOrEqual(t, handler.count(), 2)
}

func TestConsumer_GracefulShutdown(t *testing.T) {
	// Arrange
	natsURL, cleanup := setupNATSContainer(t)
	defer cleanup()
	nc, err := nats.Connect(natsURL)
	require.NoError(t, err)
	defer nc.Close()
	js, err := nc.JetStream()
	require.NoError(t, err)
	setupStream(t, js, "shutdown-stream", "shutdown.key")

	handler := &mockHandler{received: make(chan struct{}, 1)}
	cfg := config.NATSConfig{URL: natsURL, StreamName: "shutdown-stream", Subject: "shutdown.key", ConsumerName: "shutdown-worker"}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	consumer, err := natsbroker.NewNATSConsumer(cfg, logger)
	require.NoError(t, err)

	// Act
	err = consumer.Subscribe(context.Background(), handler)
	require.NoError(t, err)
	require.NoError(t, consumer.Close())
	require.NoError(t, nc.Publish("shutdown.key", notificationPayload("uploads/late")))

	// Assert
	select {
	case <-handler.received:
		t.Fatal("message processed after Close")
	case <-time.After(500 * time.Millisecond):
	}
}

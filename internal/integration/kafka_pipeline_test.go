//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/couchcryptid/tidyviz/internal/adapter/fetch"
	"github.com/couchcryptid/tidyviz/internal/adapter/filestore"
	"github.com/couchcryptid/tidyviz/internal/adapter/kafka"
	"github.com/couchcryptid/tidyviz/internal/config"
	"github.com/couchcryptid/tidyviz/internal/domain"
	"github.com/couchcryptid/tidyviz/internal/observability"
	"github.com/couchcryptid/tidyviz/internal/pipeline"
)

const spamCSV = `crl.tot,dollar,bang,money,n000,make,yesno
278,0,0.778,0,0,0,y
1028,0.18,0.372,0.43,0.43,0.21,y
191,0,0.137,0,0,0,y
40,0,0,0,0,0,n
120,0,0.5,0,0,0,n
15,0,0,0,0,0.3,n
`

// published holds a deserialized notification read from the topic.
type published struct {
	Artifact domain.Artifact
	Key      string
	Headers  map[string]string
}

func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("tidyviz-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("terminate kafka container: %v", err)
		}
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	cc, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer cc.Close()

	require.NoError(t, cc.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

func readPublished(ctx context.Context, t *testing.T, reader *kafkago.Reader) published {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := reader.ReadMessage(readCtx)
	require.NoError(t, err, "read notification")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var a domain.Artifact
	require.NoError(t, json.Unmarshal(msg.Value, &a), "unmarshal notification")
	return published{Artifact: a, Key: string(msg.Key), Headers: headers}
}

func newReader(broker, topic string) *kafkago.Reader {
	return kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       topic,
		GroupID:     fmt.Sprintf("test-reader-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
		MaxWait:     500 * time.Millisecond,
	})
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestWriterPublish verifies artifacts round-trip through Kafka with their
// key and headers.
func TestWriterPublish(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	const topic = "test-rendered"
	createTopic(t, broker, topic)

	writer := kafka.NewWriter(&config.Config{KafkaBrokers: []string{broker}, KafkaTopic: topic}, discardLogger())
	defer writer.Close()

	at := time.Date(2023, 9, 12, 8, 30, 0, 0, time.UTC)
	sent := []domain.Artifact{
		{Name: "Week_37.png", Job: "2023-37", Path: "out/Week_37.png", Width: 2000, Height: 2000, Rows: 4, RenderedAt: at},
		{Name: "Title.png", Job: "2023-33", Path: "out/Title.png", Width: 1200, Height: 350, RenderedAt: at},
	}
	require.NoError(t, writer.Publish(ctx, sent))

	reader := newReader(broker, topic)
	defer reader.Close()

	for _, want := range sent {
		got := readPublished(ctx, t, reader)
		assert.Equal(t, want.Name, got.Key)
		assert.Equal(t, want.Job, got.Headers["job"])
		assert.Equal(t, "2023-09-12T08:30:00Z", got.Headers["rendered_at"])
		assert.True(t, want.RenderedAt.Equal(got.Artifact.RenderedAt))
		got.Artifact.RenderedAt = want.RenderedAt
		assert.Equal(t, want, got.Artifact)
	}
}

// TestRunnerPublishesSpamCharts runs the spam job against a local dataset
// server and checks every rendered file is announced.
func TestRunnerPublishesSpamCharts(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	const topic = "test-runner"
	createTopic(t, broker, topic)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(spamCSV))
	}))
	defer srv.Close()

	logger := discardLogger()
	metrics := observability.NewMetricsForTesting()
	client := fetch.NewClient(10*time.Second, metrics, logger)
	out := filestore.New(t.TempDir())

	writer := kafka.NewWriter(&config.Config{KafkaBrokers: []string{broker}, KafkaTopic: topic}, logger)
	defer writer.Close()

	job := pipeline.NewSpamJob(client, out, srv.URL+"/spam.csv", 10, logger, metrics)
	require.NoError(t, pipeline.NewRunner([]pipeline.Job{job}, writer, logger, metrics).Run(ctx))

	reader := newReader(broker, topic)
	defer reader.Close()

	var names []string
	for range 4 {
		got := readPublished(ctx, t, reader)
		assert.Equal(t, pipeline.SpamWeek, got.Headers["job"])
		assert.Equal(t, out.Path(got.Key), got.Artifact.Path)
		names = append(names, got.Key)
	}
	assert.Equal(t, []string{
		pipeline.RadarFile, pipeline.BoxplotsFile, pipeline.TitleFile, pipeline.SpamComposite,
	}, names)
}

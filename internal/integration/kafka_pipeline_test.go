//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/amedas-etl/internal/adapter/csvfile"
	"github.com/couchcryptid/amedas-etl/internal/adapter/jma"
	"github.com/couchcryptid/amedas-etl/internal/adapter/kafka"
	"github.com/couchcryptid/amedas-etl/internal/config"
	"github.com/couchcryptid/amedas-etl/internal/domain"
	"github.com/couchcryptid/amedas-etl/internal/observability"
	"github.com/couchcryptid/amedas-etl/internal/pipeline"
)

const testTopic = "amedas-observations"

var nerima = domain.StationRecord{Name: "練馬", EnName: "Nerima", PrecNo: "44", BlockNo: "0366", Lon: 139.666667, Lat: 35.735}

// hourlyA1Page renders a 24-row hourly page of a 4-digit station. The
// temperature column carries the hour so rows can be told apart.
func hourlyA1Page() string {
	var b strings.Builder
	b.WriteString(`<html><body><table id="tablefix1" class="data2_s"><tr class="mtx"><th>時</th></tr>`)
	for h := 1; h <= 24; h++ {
		fmt.Fprintf(&b, `<tr class="mtx"><td>%d</td>`, h)
		cells := []string{"0.0", fmt.Sprintf("%d.5", h), "18.0", "20.6", "70", "1.2", "北", "0.3", "--", "--"}
		if h == 3 {
			cells[5], cells[6] = "0.0", "静穏"
		}
		for _, c := range cells {
			fmt.Fprintf(&b, "<td>%s</td>", c)
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</table></body></html>")
	return b.String()
}

func jmaServer(t *testing.T) *httptest.Server {
	t.Helper()
	page := hourlyA1Page()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "hourly_a1") {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(page))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// TestPipelinePublishesPersistedRows runs one hourly job against a fake JMA
// server and checks both the CSV on disk and the messages on the topic.
func TestPipelinePublishesPersistedRows(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	cfg := &config.Config{KafkaBrokers: []string{broker}, KafkaTopic: testTopic, BatchSize: 10}
	metrics := observability.NewMetricsForTesting()
	srv := jmaServer(t)

	client := jma.NewClient(5*time.Second, discardLogger(), metrics)
	fetcher := pipeline.NewFetcher(client, srv.URL+"/etrn", discardLogger(), metrics, pipeline.WithThrottle(0))
	writer := kafka.NewWriter(cfg, discardLogger(), metrics)
	t.Cleanup(func() { _ = writer.Close() })

	out := filepath.Join(t.TempDir(), "hourly_data", "nerima.csv")
	p := pipeline.New(fetcher, csvfile.NewPersister(), discardLogger(), metrics, writer)

	run, err := p.Run(ctx, pipeline.Job{
		Cadence:  domain.Hourly,
		Stations: []domain.StationRecord{nerima},
		Units:    []time.Time{time.Date(2023, time.August, 10, 0, 0, 0, 0, domain.JST)},
		Output:   out,
	})
	require.NoError(t, err)
	assert.Equal(t, 24, run.Rows)

	persisted, err := csvfile.Read(out)
	require.NoError(t, err)
	assert.Equal(t, 24, persisted.NumRows())
	assert.Equal(t, len(domain.HourlyElements), persisted.NumCols())

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	received := make([]kafka.RowMessage, 0, 24)
	for len(received) < 24 {
		readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
		msg, err := consumer.ReadMessage(readCtx)
		readCancel()
		require.NoError(t, err, "read from topic")

		headers := make(map[string]string, len(msg.Headers))
		for _, h := range msg.Headers {
			headers[h.Key] = string(h.Value)
		}
		assert.Equal(t, run.ID, headers["run_id"])
		assert.Equal(t, "hourly", headers["cadence"])
		assert.Equal(t, "0366", string(msg.Key))

		var row kafka.RowMessage
		require.NoError(t, json.Unmarshal(msg.Value, &row))
		received = append(received, row)
	}

	first := received[0]
	assert.Equal(t, "Nerima", first.Station)
	assert.True(t, first.Timestamp.Equal(time.Date(2023, time.August, 10, 1, 0, 0, 0, domain.JST)))
	assert.Equal(t, domain.Number(1.5), first.Values[domain.Temperature])
	assert.Equal(t, domain.Number(0), first.Values[domain.MeanWindDirection])
	assert.True(t, first.Values[domain.StationPressure].IsMissing())
	assert.True(t, first.Values[domain.SnowFall].IsMissing())

	calm := received[2]
	assert.True(t, calm.Values[domain.MeanWindDirection].IsCalm())

	last := received[23]
	assert.True(t, last.Timestamp.Equal(time.Date(2023, time.August, 11, 0, 0, 0, 0, domain.JST)))
	assert.Equal(t, domain.Number(24.5), last.Values[domain.Temperature])
}

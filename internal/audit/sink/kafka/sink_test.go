package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"chainregistry/internal/audit"
)

type recordingProducer struct {
	records []*kgo.Record
	err     error
}

func (p *recordingProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	p.records = append(p.records, rs...)
	out := make(kgo.ProduceResults, 0, len(rs))
	for _, r := range rs {
		out = append(out, kgo.ProduceResult{Record: r, Err: p.err})
	}
	return out
}

func TestSink_Append(t *testing.T) {
	producer := &recordingProducer{}
	sink := New(producer, "chainregistry.audit")
	event := audit.Event{
		ID:        uuid.New(),
		Timestamp: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Action:    audit.ActionUserVerified,
		Subject:   "0x1111111111111111111111111111111111111111",
		TxID:      "0xabc",
	}

	require.NoError(t, sink.Append(context.Background(), event))
	require.Len(t, producer.records, 1)

	rec := producer.records[0]
	assert.Equal(t, "chainregistry.audit", rec.Topic)
	assert.Equal(t, []byte(event.Subject), rec.Key)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Value, &got))
	assert.Equal(t, "user_verified", got["action"])
	assert.Equal(t, "2024-05-01T10:00:00Z", got["timestamp"])
	assert.NotContains(t, got, "error_kind")
}

func TestSink_AppendSurfacesProduceErrors(t *testing.T) {
	producer := &recordingProducer{err: errors.New("broker down")}
	err := New(producer, "t").Append(context.Background(), audit.Event{ID: uuid.New(), RecordID: "r1"})
	require.Error(t, err)
	assert.Equal(t, []byte("r1"), producer.records[0].Key)
}

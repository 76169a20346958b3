package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBrokers(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{raw: "", want: nil},
		{raw: "kafka:9092", want: []string{"kafka:9092"}},
		{raw: " a:9092, ,b:9093 ", want: []string{"a:9092", "b:9093"}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseBrokers(tt.raw))
		})
	}
}

func TestNewProducer_Defaults(t *testing.T) {
	p := NewProducer(Config{Brokers: []string{"localhost:9092"}, ClientID: "vegmld"})

	assert.Equal(t, []string{"localhost:9092"}, p.brokers)
	assert.Equal(t, 10*time.Millisecond, p.batch)
	assert.Equal(t, "vegmld", p.transport.ClientID)
	assert.Empty(t, p.writers)
}

func TestProducer_WriterPerTopic(t *testing.T) {
	p := NewProducer(Config{Brokers: []string{"localhost:9092"}})

	w1 := p.writer("vegetation.alerts")
	w2 := p.writer("vegetation.alerts")
	w3 := p.writer("vegetation.audit")

	assert.Same(t, w1, w2)
	assert.NotSame(t, w1, w3)
	assert.Equal(t, "vegetation.alerts", w1.Topic)
	assert.Len(t, p.writers, 2)

	require.NoError(t, p.Close())
	assert.Empty(t, p.writers)
}

func TestProducer_PublishNothingIsNoop(t *testing.T) {
	p := NewProducer(Config{Brokers: []string{"localhost:9092"}})
	require.NoError(t, p.Publish(context.Background(), "vegetation.alerts"))
	assert.Empty(t, p.writers)
}

func TestToKafkaMessages_CopiesHeaders(t *testing.T) {
	msgs := toKafkaMessages([]Message{{
		Key:     []byte("k"),
		Value:   []byte(`{"risk_level":2}`),
		Headers: map[string]string{"event-type": "vegetation.risk.high"},
	}})

	require.Len(t, msgs, 1)
	assert.Equal(t, []byte("k"), msgs[0].Key)
	require.Len(t, msgs[0].Headers, 1)
	assert.Equal(t, "event-type", msgs[0].Headers[0].Key)
	assert.Equal(t, []byte("vegetation.risk.high"), msgs[0].Headers[0].Value)
}

//go:build integration

package kafka_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"chainregistry/internal/audit"
	kafkasink "chainregistry/internal/audit/sink/kafka"
	"chainregistry/pkg/testutil/containers"
)

const topic = "chainregistry.audit"

type KafkaSinkSuite struct {
	suite.Suite
	kafka *containers.KafkaContainer
}

func TestKafkaSinkSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KafkaSinkSuite))
}

func (s *KafkaSinkSuite) SetupSuite() {
	s.kafka = containers.NewKafkaContainer(s.T())
	s.Require().NoError(s.kafka.CreateTopic(context.Background(), topic))
}

func (s *KafkaSinkSuite) TearDownSuite() {
	_ = s.kafka.Terminate(context.Background())
}

func (s *KafkaSinkSuite) TestAppendedEventsAreConsumable() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	producer, err := kafkasink.NewClient(s.kafka.Brokers, topic)
	s.Require().NoError(err)
	defer producer.Close()

	subject := "0x1111111111111111111111111111111111111111"
	sink := kafkasink.New(producer, topic)
	s.Require().NoError(sink.Append(ctx, audit.Event{
		ID:        uuid.New(),
		Timestamp: time.Now(),
		Action:    audit.ActionUserRegistrationSubmitted,
		Subject:   subject,
		RequestID: "req-kafka",
	}))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.kafka.Brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	s.Require().Empty(fetches.Errors())
	records := fetches.Records()
	s.Require().Len(records, 1)
	s.Equal(subject, string(records[0].Key))

	var got map[string]any
	s.Require().NoError(json.Unmarshal(records[0].Value, &got))
	s.Equal("user_registration_submitted", got["action"])
	s.Equal("req-kafka", got["request_id"])
}

package kafka

import (
	"encoding/json"
	"log"
	"time"

	"github.com/IBM/sarama"
)

// Producer publishes link lifecycle events. A nil Producer (broker not
// configured or unreachable) drops events silently; payments never depend
// on the event stream.
type Producer struct {
	producer sarama.SyncProducer
}

func NewProducer(broker string) *Producer {
	if broker == "" {
		log.Println("KAFKA_BROKER not set, link events disabled")
		return nil
	}

	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll

	var producer sarama.SyncProducer
	var err error

	for i := 1; i <= 5; i++ {
		producer, err = sarama.NewSyncProducer([]string{broker}, config)
		if err == nil {
			log.Printf("Kafka producer connected to %s", broker)
			return &Producer{producer: producer}
		}

		log.Printf("Failed to connect to Kafka (try %d/5): %v", i, err)
		time.Sleep(3 * time.Second)
	}

	log.Printf("Could not connect to Kafka after 5 attempts, link events disabled: %v", err)
	return nil
}

func (p *Producer) PublishLinkCreatedEvent(link interface{}) {
	p.publish("link.created", "link_created", link)
}

func (p *Producer) PublishLinkPaidEvent(link interface{}) {
	p.publish("link.paid", "link_paid", link)
}

func (p *Producer) PublishLinkWithdrawnEvent(link interface{}) {
	p.publish("link.withdrawn", "link_withdrawn", link)
}

func (p *Producer) publish(topic, eventType string, data interface{}) {
	if p == nil || p.producer == nil {
		return
	}

	event := map[string]interface{}{
		"event_type": eventType,
		"data":       data,
	}

	messageBytes, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", eventType, err)
		return
	}

	msg := &sarama.ProducerMessage{
		Topic:     topic,
		Value:     sarama.ByteEncoder(messageBytes),
		Timestamp: time.Now(),
	}

	if _, _, err := p.producer.SendMessage(msg); err != nil {
		log.Printf("Failed to send Kafka message: %v", err)
		return
	}

	log.Printf("Published %s: %s", topic, string(messageBytes))
}

func (p *Producer) Close() error {
	if p == nil || p.producer == nil {
		return nil
	}
	return p.producer.Close()
}

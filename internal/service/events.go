package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/segmentio/kafka-go"
)

// publishEvent emits a JSON domain event keyed "<resource>.<verb>.<id>"
// (consumers split the key on "."). The row is already committed when this
// runs, so publish failures are logged rather than failing the request.
func publishEvent(ctx context.Context, w *kafka.Writer, resource, verb, id string, payload interface{}) {
	if os.Getenv("ENV") == "test" || w == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error().Err(err).Msgf("Error marshalling %s event", resource)
		return
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("%s.%s.%s", resource, verb, id)),
		Value: data,
	}

	if err := w.WriteMessages(ctx, msg); err != nil {
		logger.Error().Err(err).Msgf("Error publishing %s.%s event for %s", resource, verb, id)
	}
}

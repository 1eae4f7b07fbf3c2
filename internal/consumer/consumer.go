package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"tracker-service/internal/config"
	"tracker-service/internal/entity"
)

// Consumer folds tracker events into per-project issue-status counters in
// Redis. The counters back GET /projects/:id/stats.
type Consumer struct {
	rdb *redis.Client
}

func NewConsumer(rdb *redis.Client) *Consumer {
	return &Consumer{rdb: rdb}
}

// StartKafkaConsumer starts a Kafka consumer to listen for tracker events
func (c *Consumer) StartKafkaConsumer() {
	reader := config.NewKafkaReader("tracker-topic", "tracker-stats-group")

	for {
		ctx := context.Background()
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			log.Error().Msgf("Error reading message: %v", err)
			continue
		}

		c.processMessage(ctx, msg)
	}
}

// processMessage processes a message received from the tracker topic.
// Keys look like "issue.created.12" or "project.deleted.3".
func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) {
	parts := strings.Split(string(msg.Key), ".")
	if len(parts) != 3 {
		log.Error().Msgf("Unknown event key: %s", string(msg.Key))
		return
	}
	resource, verb := parts[0], parts[1]

	switch resource {
	case "issue":
		c.processIssueEvent(ctx, verb, msg.Value)
	case "project":
		if verb == "deleted" {
			var payload struct {
				ID int `json:"id"`
			}
			if err := json.Unmarshal(msg.Value, &payload); err != nil {
				log.Error().Msgf("Error unmarshalling project event: %v", err)
				return
			}
			c.rdb.Del(ctx, statsKey(payload.ID))
		}
	default:
		log.Error().Msgf("Unknown event resource: %s", resource)
	}
}

func (c *Consumer) processIssueEvent(ctx context.Context, verb string, value []byte) {
	var issue entity.Issue
	if err := json.Unmarshal(value, &issue); err != nil {
		log.Error().Msgf("Error unmarshalling issue event: %v", err)
		return
	}

	key := statsKey(issue.ProjectID)
	lastKey := fmt.Sprintf("issue-last-status:%d", issue.ID)

	switch verb {
	case "created":
		c.rdb.HIncrBy(ctx, key, issue.Status, 1)
		c.rdb.Set(ctx, lastKey, issue.Status, 0)
	case "updated":
		// Move the counter when the status actually changed.
		old, err := c.rdb.Get(ctx, lastKey).Result()
		if err == nil && old != issue.Status {
			c.rdb.HIncrBy(ctx, key, old, -1)
			c.rdb.HIncrBy(ctx, key, issue.Status, 1)
		} else if err == redis.Nil {
			c.rdb.HIncrBy(ctx, key, issue.Status, 1)
		}
		c.rdb.Set(ctx, lastKey, issue.Status, 0)
	case "deleted":
		c.rdb.HIncrBy(ctx, key, issue.Status, -1)
		c.rdb.Del(ctx, lastKey)
	default:
		log.Error().Msgf("Unknown issue event verb: %s", verb)
	}
}

func statsKey(projectID int) string {
	return fmt.Sprintf("project-stats:%d", projectID)
}

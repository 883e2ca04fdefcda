package events

import (
	"context"
	"encoding/json"

	"github.com/croudly/experience-api/internal/domain"
	"github.com/croudly/experience-api/internal/infrastructure/contracts"
	"github.com/croudly/experience-api/internal/infrastructure/logging"
	"github.com/croudly/experience-api/internal/infrastructure/messaging"
	"github.com/rabbitmq/amqp091-go"
)

// routingKeyEvents maps exchange routing keys to audit event types.
var routingKeyEvents = map[string]domain.RoomEventType{
	contracts.EventRoomCreated:      domain.EventRoomCreated,
	contracts.EventRoomDeleted:      domain.EventRoomDeleted,
	contracts.EventMemberJoined:     domain.EventMemberJoined,
	contracts.EventMemberLeft:       domain.EventMemberLeft,
	contracts.EventMemberRemoved:    domain.EventMemberRemoved,
	contracts.EventMemberBlocked:    domain.EventUserBlocked,
	contracts.EventRoleAssigned:     domain.EventRoleAssigned,
	contracts.EventModeratorRemoved: domain.EventModeratorRemoved,
	contracts.EventPrivacyToggled:   domain.EventPrivacyToggled,
	contracts.EventMessagePosted:    domain.EventMessagePosted,
}

type roomConsumer struct {
	rabbitmq *messaging.RabbitMQ
	auditLog domain.RoomAuditRepository
	logger   logging.Logger
}

func NewRoomConsumer(rabbitmq *messaging.RabbitMQ, auditLog domain.RoomAuditRepository, logger logging.Logger) *roomConsumer {
	return &roomConsumer{
		rabbitmq: rabbitmq,
		auditLog: auditLog,
		logger:   logger,
	}
}

// Listen consumes room events and records one audit entry per delivery.
func (c *roomConsumer) Listen() error {
	return c.rabbitmq.ConsumeMessages(messaging.RoomsQueue, func(ctx context.Context, msg amqp091.Delivery) error {
		var message contracts.AmqpMessage
		if err := json.Unmarshal(msg.Body, &message); err != nil {
			c.logger.Error(logging.RabbitMQ, logging.Eventing, "Failed to unmarshal amqp message", map[logging.ExtraKey]interface{}{
				logging.ErrorMessage: err.Error(),
			})
			return err
		}

		var payload messaging.RoomEventData
		if err := json.Unmarshal(message.Data, &payload); err != nil {
			c.logger.Error(logging.RabbitMQ, logging.Eventing, "Failed to unmarshal room event data", map[logging.ExtraKey]interface{}{
				logging.ErrorMessage: err.Error(),
			})
			return err
		}

		eventType, ok := routingKeyEvents[msg.RoutingKey]
		if !ok {
			c.logger.Warn(logging.RabbitMQ, logging.Eventing, "Unknown routing key, skipping audit", map[logging.ExtraKey]interface{}{
				"routing_key": msg.RoutingKey,
			})
			return nil
		}

		entry := domain.NewAuditLog(payload.Room.ID, eventType, message.Actor, nil)
		if err := c.auditLog.Log(ctx, entry); err != nil {
			c.logger.Error(logging.RabbitMQ, logging.Eventing, "Failed to write audit log", map[logging.ExtraKey]interface{}{
				logging.ErrorMessage: err.Error(),
			})
			return err
		}

		return nil
	})
}

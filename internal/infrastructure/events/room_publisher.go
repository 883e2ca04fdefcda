package events

import (
	"context"
	"encoding/json"

	"github.com/croudly/experience-api/internal/domain"
	"github.com/croudly/experience-api/internal/infrastructure/contracts"
	"github.com/croudly/experience-api/internal/infrastructure/messaging"
	"github.com/croudly/experience-api/internal/infrastructure/tracing"
)

type RoomPublisher struct {
	rabbitmq *messaging.RabbitMQ
}

func NewRoomPublisher(rabbitmq *messaging.RabbitMQ) *RoomPublisher {
	return &RoomPublisher{
		rabbitmq: rabbitmq,
	}
}

func (p *RoomPublisher) publish(ctx context.Context, routingKey string, room domain.Room, actor string) error {
	ctx, span := tracing.GetTracer("events").Start(ctx, "publish "+routingKey)
	defer span.End()

	payload := messaging.RoomEventData{
		Room: room,
	}

	roomEventJSON, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	err = p.rabbitmq.PublishMessage(ctx, routingKey, contracts.AmqpMessage{
		RoomID: room.ID,
		Actor:  actor,
		Data:   roomEventJSON,
	})
	if err != nil {
		span.RecordError(err)
	}
	return err
}

func (p *RoomPublisher) PublishRoomCreated(ctx context.Context, room domain.Room) error {
	return p.publish(ctx, contracts.EventRoomCreated, room, room.Creator)
}

func (p *RoomPublisher) PublishRoomDeleted(ctx context.Context, room domain.Room, actor string) error {
	return p.publish(ctx, contracts.EventRoomDeleted, room, actor)
}

func (p *RoomPublisher) PublishMemberJoined(ctx context.Context, room domain.Room, user string) error {
	return p.publish(ctx, contracts.EventMemberJoined, room, user)
}

func (p *RoomPublisher) PublishMemberLeft(ctx context.Context, room domain.Room, user string) error {
	return p.publish(ctx, contracts.EventMemberLeft, room, user)
}

func (p *RoomPublisher) PublishMemberRemoved(ctx context.Context, room domain.Room, actor string) error {
	return p.publish(ctx, contracts.EventMemberRemoved, room, actor)
}

func (p *RoomPublisher) PublishMemberBlocked(ctx context.Context, room domain.Room, actor string) error {
	return p.publish(ctx, contracts.EventMemberBlocked, room, actor)
}

func (p *RoomPublisher) PublishRoleAssigned(ctx context.Context, room domain.Room, actor string) error {
	return p.publish(ctx, contracts.EventRoleAssigned, room, actor)
}

func (p *RoomPublisher) PublishModeratorRemoved(ctx context.Context, room domain.Room, actor string) error {
	return p.publish(ctx, contracts.EventModeratorRemoved, room, actor)
}

func (p *RoomPublisher) PublishPrivacyToggled(ctx context.Context, room domain.Room, actor string) error {
	return p.publish(ctx, contracts.EventPrivacyToggled, room, actor)
}

func (p *RoomPublisher) PublishMessagePosted(ctx context.Context, room domain.Room, sender string) error {
	return p.publish(ctx, contracts.EventMessagePosted, room, sender)
}

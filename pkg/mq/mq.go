package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	apperrors "github.com/xiebiao/bookservice/pkg/errors"
)

// ==================== 领域事件 ====================

// Event 目录领域事件
// RoutingKey形如 author.created / book.updated / order.completed
type Event struct {
	Entity     string    `json:"entity"` // author | book | customer | order
	Action     string    `json:"action"` // created | updated | deleted | completed
	ID         uint      `json:"id"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewEvent 创建事件
func NewEvent(entity, action string, id uint) Event {
	return Event{Entity: entity, Action: action, ID: id, OccurredAt: time.Now().UTC()}
}

// RoutingKey 事件路由键
func (e Event) RoutingKey() string {
	return e.Entity + "." + e.Action
}

// EventPublisher 事件发布接口
// 应用层只依赖这个接口,MQ关闭时使用NopPublisher
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
	Close() error
}

// NopPublisher 空实现(丢弃所有事件)
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, interface{}) error { return nil }
func (NopPublisher) Close() error                                      { return nil }

// ==================== 发布者 ====================

// Publisher 消息发布者
// 教学要点：
// 1. 一个连接 + 一个Channel,Exchange在创建时声明
// 2. 消息体是JSON,持久化投递
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string // Exchange名称
}

// NewPublisher 创建发布者
func NewPublisher(url, exchange, exchangeType string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("创建Channel失败: %w", err)
	}

	if err := declareExchange(channel, exchange, exchangeType); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	slog.Info("消息发布者已创建", "exchange", exchange, "type", exchangeType)

	return &Publisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
	}, nil
}

// Publish 发布消息(JSON)
func (p *Publisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	body, err := json.Marshal(message)
	if err != nil {
		return apperrors.ErrMQError.WithCause(err, "消息序列化失败")
	}

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange, // Exchange
		routingKey, // Routing Key
		false,      // Mandatory
		false,      // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // 消息持久化
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return apperrors.ErrMQError.WithCause(err, "发布消息失败")
	}

	slog.DebugContext(ctx, "消息已发布", "routing_key", routingKey, "bytes", len(body))
	return nil
}

// Close 关闭发布者
func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}

// ==================== 消费者 ====================

// Consumer 消息消费者(cmd/eventlog使用)
type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string // Queue名称
}

// NewConsumer 创建消费者并绑定路由键(支持通配符,如 order.* 或 #)
func NewConsumer(url, exchange, exchangeType, queue string, routingKeys []string) (*Consumer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("创建Channel失败: %w", err)
	}

	fail := func(err error) (*Consumer, error) {
		channel.Close()
		conn.Close()
		return nil, err
	}

	if err := declareExchange(channel, exchange, exchangeType); err != nil {
		return fail(err)
	}

	q, err := channel.QueueDeclare(
		queue, // Queue名称
		true,  // Durable
		false, // AutoDelete
		false, // Exclusive
		false, // NoWait
		nil,   // Arguments
	)
	if err != nil {
		return fail(fmt.Errorf("声明Queue失败: %w", err))
	}

	for _, routingKey := range routingKeys {
		if err := channel.QueueBind(q.Name, routingKey, exchange, false, nil); err != nil {
			return fail(fmt.Errorf("绑定Queue失败: %w", err))
		}
	}

	return &Consumer{
		conn:    conn,
		channel: channel,
		queue:   q.Name,
	}, nil
}

// Consume 消费消息,直到ctx取消
// handler返回error时Nack并重新入队
func (c *Consumer) Consume(ctx context.Context, handler func(routingKey string, body []byte) error) error {
	// PrefetchCount: 1表示每次只取1条消息（处理完才取下一条）
	if err := c.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("设置Qos失败: %w", err)
	}

	msgs, err := c.channel.Consume(
		c.queue, // Queue名称
		"",      // Consumer标签（空表示自动生成）
		false,   // AutoAck（false表示手动确认）
		false,   // Exclusive
		false,   // NoLocal
		false,   // NoWait
		nil,     // Arguments
	)
	if err != nil {
		return fmt.Errorf("开始消费失败: %w", err)
	}

	slog.Info("开始消费消息", "queue", c.queue)

	for {
		select {
		case <-ctx.Done():
			slog.Info("消费者退出", "queue", c.queue)
			return nil

		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("消息Channel已关闭")
			}

			if err := handler(msg.RoutingKey, msg.Body); err != nil {
				slog.Warn("消息处理失败,重新入队", "routing_key", msg.RoutingKey, "error", err)
				msg.Nack(false, true)
			} else {
				msg.Ack(false)
			}
		}
	}
}

// Close 关闭消费者
func (c *Consumer) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		c.conn.Close()
	}
	return nil
}

func declareExchange(channel *amqp.Channel, exchange, exchangeType string) error {
	err := channel.ExchangeDeclare(
		exchange,     // Exchange名称
		exchangeType, // Exchange类型
		true,         // Durable（持久化）
		false,        // AutoDelete
		false,        // Internal
		false,        // NoWait
		nil,          // Arguments
	)
	if err != nil {
		return fmt.Errorf("声明Exchange失败: %w", err)
	}
	return nil
}

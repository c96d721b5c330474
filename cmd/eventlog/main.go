package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/xiebiao/bookservice/internal/infrastructure/config"
	"github.com/xiebiao/bookservice/internal/infrastructure/logger"
	"github.com/xiebiao/bookservice/pkg/mq"
)

// eventlog 订阅目录领域事件并写入日志
// 用于观察api服务发布的事件(author.created、order.completed等)
//
// 启动:
//
//	BOOKSERVICE_MQ_ENABLED=true go run ./cmd/eventlog
func main() {
	if err := run(); err != nil {
		log.Fatalf("eventlog退出: %v", err)
	}
}

const queueName = "bookservice.eventlog"

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}
	if !cfg.MQ.Enabled {
		return fmt.Errorf("mq.enabled=false,没有可订阅的事件")
	}
	l := logger.New(cfg.Log, os.Stdout)

	consumer, err := mq.NewConsumer(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, queueName, []string{"#"})
	if err != nil {
		return err
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return consumer.Consume(ctx, func(routingKey string, body []byte) error {
		var event mq.Event
		if err := json.Unmarshal(body, &event); err != nil {
			// 格式错误的消息重新入队也无法处理,记录后确认掉
			l.Warn("无法解析事件", "routing_key", routingKey, "error", err)
			return nil
		}
		l.Info("event",
			"routing_key", routingKey,
			"entity", event.Entity,
			"action", event.Action,
			"id", event.ID,
			"occurred_at", event.OccurredAt,
		)
		return nil
	})
}

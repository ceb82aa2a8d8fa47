package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/domain"
)

// Notifier 发送排班相关的通知，通知失败不影响业务操作
type Notifier interface {
	Notify(msg domain.MailMessage)
}

// Publisher 是 amqp.Channel 中发送消息所需的部分
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type AMQPNotifier struct {
	ch      Publisher
	queue   string
	timeout time.Duration
	logger  *slog.Logger
}

func NewAMQPNotifier(ch Publisher, queue string, timeout time.Duration, logger *slog.Logger) *AMQPNotifier {
	if logger == nil {
		logger = slog.Default()
	}

	return &AMQPNotifier{
		ch:      ch,
		queue:   queue,
		timeout: timeout,
		logger:  logger,
	}
}

func (n *AMQPNotifier) Notify(msg domain.MailMessage) {
	if msg.To == "" {
		n.logger.Debug("没有配置通知收件人，跳过通知", "type", msg.Type)
		return
	}

	// 对邮件进行序列化
	body, err := json.Marshal(msg)
	if err != nil {
		n.logger.Error("通知序列化失败", "type", msg.Type, "error", err)
		return
	}

	// 将邮件发送到消息队列
	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()

	if err := n.ch.PublishWithContext(
		ctx,
		"",
		n.queue,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	); err != nil {
		n.logger.Error("通知发送失败", "type", msg.Type, "error", err)
		return
	}

	n.logger.Info("通知已发送", "type", msg.Type, "to", msg.To)
}

// Noop 在没有配置 RabbitMQ 时使用
type Noop struct{}

func (Noop) Notify(domain.MailMessage) {}

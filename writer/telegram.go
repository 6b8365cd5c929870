package writer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"cricketflow/logger"
	"cricketflow/models"
)

// Minimum interval between two Telegram messages to the same chat; the Bot
// API throttles around 30 messages per minute per chat.
const telegramSendInterval = 2 * time.Second

// TelegramSink queues notification texts and sends them from a background
// worker with rate limiting. Notify never blocks the pipeline: a full queue
// drops the message.
type TelegramSink struct {
	bot      *tgbotapi.BotAPI
	chatID   int64
	queue    chan string
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	lastSend time.Time
	log      *logger.Log
}

func NewTelegramSink(token string, chatID int64) (*TelegramSink, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	if _, err := bot.GetMe(); err != nil {
		return nil, fmt.Errorf("failed to verify telegram bot: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &TelegramSink{
		bot:    bot,
		chatID: chatID,
		queue:  make(chan string, 100),
		ctx:    ctx,
		cancel: cancel,
		log:    logger.GetLogger(),
	}

	s.wg.Add(1)
	go s.messageSender()

	s.log.WithComponent("telegram_sink").WithFields(logger.Fields{"chat_id": chatID}).Info("telegram sink initialized")
	return s, nil
}

func (s *TelegramSink) Name() string { return "telegram" }

// Notify renders the notification into one message and queues it. Plain
// ball summaries without events are skipped: every delivery of a live match
// would flood the chat.
func (s *TelegramSink) Notify(ctx context.Context, n models.Notification) error {
	if len(n.Events) == 0 {
		return nil
	}

	text := strings.Join(renderNotification(n), "\n")

	select {
	case <-s.ctx.Done():
		return fmt.Errorf("telegram sink stopped")
	case <-ctx.Done():
		return ctx.Err()
	case s.queue <- text:
		return nil
	default:
		s.log.WithComponent("telegram_sink").WithFields(logger.Fields{
			"match_id": n.Match.ID,
		}).Warn("telegram queue is full, dropping message")
		return fmt.Errorf("telegram queue is full")
	}
}

// Close stops the sender after draining the queue.
func (s *TelegramSink) Close() {
	s.cancel()
	s.wg.Wait()
}

func (s *TelegramSink) messageSender() {
	defer s.wg.Done()

	log := s.log.WithComponent("telegram_sink").WithFields(logger.Fields{"worker": "message_sender"})

	for {
		select {
		case <-s.ctx.Done():
			// Drain what is already queued before exiting.
			for {
				select {
				case text := <-s.queue:
					s.send(text)
				default:
					log.Info("message sender stopped")
					return
				}
			}
		case text := <-s.queue:
			s.send(text)
		}
	}
}

func (s *TelegramSink) send(text string) {
	if elapsed := time.Since(s.lastSend); elapsed < telegramSendInterval {
		select {
		case <-s.ctx.Done():
		case <-time.After(telegramSendInterval - elapsed):
		}
	}
	s.lastSend = time.Now()

	msg := tgbotapi.NewMessage(s.chatID, text)
	if _, err := s.bot.Send(msg); err != nil {
		s.log.WithComponent("telegram_sink").WithError(err).WithFields(logger.Fields{
			"queue_len": len(s.queue),
		}).Warn("failed to send telegram message")
		return
	}

	s.log.WithComponent("telegram_sink").WithFields(logger.Fields{
		"queue_len": len(s.queue),
	}).Debug("telegram message sent")
}

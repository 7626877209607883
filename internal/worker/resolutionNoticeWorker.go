// Settled withdrawal requests come back through the resolved topic so the
// user hears about the outcome in chat without the admin call waiting on the
// Telegram API.
package worker

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/sodiqa/dropwallet/internal/repository"
	"github.com/sodiqa/dropwallet/internal/service"
	"github.com/sodiqa/dropwallet/internal/stream"
)

func (wk *Worker) ResolutionNoticeWorker() {
	consumer, err := wk.KafkaStream.CreateConsumer(&stream.StreamConsumer{
		GroupId: resolutionNoticeGroupID,
		Topic:   service.WithdrawalResolvedTopic,
	})

	if err != nil {
		log.Fatalf("Error creating consumer: %v", err)
	}
	defer consumer.Close()

	for {
		select {
		case <-wk.Ctx.Done():
			log.Println("ResolutionNoticeWorker received cancellation signal, shutting down...")
			return
		default:
			event := consumer.Poll(100)
			switch e := event.(type) {
			case *kafka.Message:
				message := e.Value
				log.Printf("Withdrawal resolution message received on %s: %s\n", e.TopicPartition, string(e.Value))

				var withdrawalEvent service.WithdrawalEvent
				json.Unmarshal(message, &withdrawalEvent)

				wk.notifyUser(&withdrawalEvent)
			case kafka.Error:
				log.Printf("Error: %v\n", e)
			}
		}
	}
}

func (wk *Worker) notifyUser(event *service.WithdrawalEvent) {
	var text string

	switch event.Status {
	case repository.WithdrawalStatusPaid:
		text = fmt.Sprintf("✅ Your withdrawal of %s USDT has been paid to %s.", event.Amount, event.WalletAddress)
	case repository.WithdrawalStatusRejected:
		text = fmt.Sprintf("❌ Your withdrawal request for %s USDT was rejected.", event.Amount)
	default:
		return
	}

	wk.Helper.BackgroundTask(nil, func() error {
		return wk.Notifier.SendMessage(event.ChatID, text)
	})
}

// New withdrawal requests are created synchronously with the balance debit.
// The ops team settles them by hand, so each new request raises an email
// alert pointing at the admin dashboard.
package worker

import (
	"encoding/json"
	"log"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/sodiqa/dropwallet/internal/service"
	"github.com/sodiqa/dropwallet/internal/stream"
)

func (wk *Worker) PayoutAlertWorker() {
	consumer, err := wk.KafkaStream.CreateConsumer(&stream.StreamConsumer{
		GroupId: payoutAlertGroupID,
		Topic:   service.WithdrawalRequestedTopic,
	})

	if err != nil {
		log.Fatalf("Error creating consumer: %v", err)
	}
	defer consumer.Close()

	for {
		select {
		case <-wk.Ctx.Done():
			log.Println("PayoutAlertWorker received cancellation signal, shutting down...")
			return
		default:
			event := consumer.Poll(100) // Poll every 100ms
			switch e := event.(type) {
			case *kafka.Message:
				message := e.Value
				log.Printf("Withdrawal request message received on %s: %s\n", e.TopicPartition, string(e.Value))

				var withdrawalEvent service.WithdrawalEvent
				json.Unmarshal(message, &withdrawalEvent)

				wk.alertOpsTeam(&withdrawalEvent)
			case kafka.Error:
				log.Printf("Error: %v\n", e)
			}
		}
	}
}

func (wk *Worker) alertOpsTeam(event *service.WithdrawalEvent) {
	if wk.NotificationEmail == "" {
		return
	}

	data := map[string]any{
		"BaseURL":       wk.BaseURL,
		"RequestID":     event.RequestID,
		"ChatID":        event.ChatID,
		"Amount":        event.Amount,
		"WalletAddress": event.WalletAddress,
	}

	wk.Helper.BackgroundTask(nil, func() error {
		return wk.Mailer.Send(wk.NotificationEmail, data, "withdrawal-alert.tmpl")
	})
}

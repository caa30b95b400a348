package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/finsight/graphview/internal/queue"
	"github.com/finsight/graphview/internal/util"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/finsight/graphview/pkg/api"
	"github.com/finsight/graphview/pkg/graph"
	"github.com/finsight/graphview/pkg/leaselock"
	"github.com/finsight/graphview/pkg/logger"
	"github.com/finsight/graphview/pkg/logger/console"
	"github.com/finsight/graphview/pkg/store/base"
	pgstore "github.com/finsight/graphview/pkg/store/pgx"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	util.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// logger
	debug := util.GetEnvBool("DEBUG", false)
	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Service: "graphview-worker",
		Debug:   debug,
	})
	logger.Init(consoleLogger)

	apiURL := util.GetEnv("GRAPH_API_URL")
	if apiURL == "" {
		logger.Fatal("GRAPH_API_URL is not set")
	}
	apiClient := api.NewClient(api.NewClientParams{BaseURL: apiURL})
	state := graph.NewState()

	// Init pgx client
	var store base.SnapshotStore
	var locks *leaselock.Client
	if databaseURL := util.GetEnv("DATABASE_URL"); databaseURL != "" {
		pgConn, err := pgxpool.New(ctx, databaseURL)
		if err != nil {
			logger.Fatal("Unable to connect to database", "err", err)
		}
		defer pgConn.Close()
		store = pgstore.NewSnapshotStore(pgConn)
		locks = leaselock.New(pgConn)
	}

	// Init rabbitmq
	conn := queue.Init()
	defer conn.Close()

	// Init rabbitmq queues if not exist
	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}
	defer ch.Close()

	if err := queue.SetupQueues(ch, []string{queue.ReloadQueue}); err != nil {
		logger.Fatal("Failed to set up queues", "err", err)
	}

	logger.Info("Listening for messages")

	consumerCh, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open consumer channel", "err", err)
	}
	defer consumerCh.Close()

	err = consumerCh.Qos(1, 0, true)
	if err != nil {
		logger.Fatal("Failed to set QoS", "err", err)
	}

	consumerTag := fmt.Sprintf("%s_consumer", queue.ReloadQueue)
	msgs, err := consumerCh.Consume(
		queue.ReloadQueue,
		consumerTag,
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,   // args
	)
	if err != nil {
		logger.Fatal("Failed to start consuming", "queue", queue.ReloadQueue, "err", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				logger.Info("Stopping message processor")
				return
			case msg, ok := <-msgs:
				if !ok {
					logger.Info("Message channel closed", "queue", queue.ReloadQueue)
					return
				}

				startTime := time.Now()
				logger.Info("Received message", "queue", queue.ReloadQueue)

				processingErr := processWithLease(ctx, locks, apiClient, state, store, string(msg.Body))

				// If there was an error send to retry or dead-letter, otherwise ack the message
				if processingErr != nil {
					logger.Error("Error processing message", "queue", queue.ReloadQueue, "err", processingErr)
					handleProcessingError(consumerCh, msg, queue.ReloadQueue)
				} else {
					if err := msg.Ack(false); err != nil {
						logger.Error("Failed to ack message", "err", err)
					}
					logger.Info("Message processed successfully", "queue", queue.ReloadQueue)
				}

				logger.Info("Processing time", "duration", time.Since(startTime).Round(time.Millisecond).String())
				logger.Info("Waiting for next message")
			}
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received, exiting...")
}

// processWithLease serializes rebuilds across worker instances through the
// database lock when one is configured. A busy lock means another worker is
// already rebuilding, so the message is dropped rather than retried.
func processWithLease(
	ctx context.Context,
	locks *leaselock.Client,
	apiClient *api.Client,
	state *graph.State,
	store base.SnapshotStore,
	body string,
) error {
	if locks == nil {
		return queue.ProcessReloadMessage(ctx, apiClient, state, store, body)
	}

	err := locks.WithLease(ctx, "graph_reload", leaselock.Options{TTL: 10 * time.Minute}, func(ctx context.Context) error {
		return queue.ProcessReloadMessage(ctx, apiClient, state, store, body)
	})
	if errors.Is(err, leaselock.ErrBusy) {
		logger.Warn("Another worker holds the reload lock, dropping message")
		return nil
	}
	return err
}

func handleProcessingError(ch *amqp.Channel, msg amqp.Delivery, queueName string) {
	retries := 0
	if val, ok := msg.Headers["x-retries"]; ok {
		if v, ok := val.(int32); ok {
			retries = int(v)
		}
	}

	// If message has been retried 10 times, send to dead-letter
	if retries >= 10 {
		dlqName := queueName + "_dlq"
		logger.Info("Sending message to DLQ", "dlq", dlqName)
		pubErr := ch.Publish(
			"",
			dlqName,
			false,
			false,
			amqp.Publishing{
				ContentType: "application/json",
				Body:        msg.Body,
				Headers:     msg.Headers,
			},
		)
		if pubErr != nil {
			logger.Error("Failed to publish to DLQ", "dlq", dlqName, "err", pubErr)
			msg.Nack(false, true)
			return
		}
		msg.Ack(false)
		return
	}

	retryName := queueName + "_retry"
	headers := msg.Headers
	if headers == nil {
		headers = amqp.Table{}
	}
	headers["x-retries"] = int32(retries + 1)

	pubErr := ch.Publish(
		"",
		retryName,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        msg.Body,
			Headers:     headers,
		},
	)
	if pubErr != nil {
		logger.Error("Failed to publish to retry queue", "retry_queue", retryName, "err", pubErr)
		msg.Nack(false, true)
		return
	}
	msg.Ack(false)
}

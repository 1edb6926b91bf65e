package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"spotshare/config"
	"spotshare/services/proximity"
	"spotshare/services/tasks"

	"github.com/hibiken/asynq"
)

// InitProximityWorker runs the async worker in background, consuming
// proximity-check tasks enqueued by location updates.
func InitProximityWorker(notifier *proximity.Notifier) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPass,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeProximityCheck, handleProximityTask(notifier))

	// Start async worker with retry logic
	go func() {
		log.Println("[ProximityWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ProximityWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ProximityWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleProximityTask(notifier *proximity.Notifier) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.ProximityPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ProximityWorker] invalid payload: %v", err)
			return err
		}

		if err := notifier.HandleLocationUpdate(ctx, p.UserID); err != nil {
			log.Printf("[ProximityWorker] proximity check failed for %s: %v", p.UserID, err)
			return err
		}
		return nil
	}
}

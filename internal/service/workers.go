package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"autoparts/content/internal/domain/event"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// RunAuditWorkers consumes the audit stream until ctx is cancelled.
func (s *Service) RunAuditWorkers(ctx context.Context, numWorkers int) error {
	log.Infof("👷 Starting %d audit workers", numWorkers)

	var wg sync.WaitGroup
	s.runWorkersForStream(ctx, &wg, numWorkers, s.queue.StreamName(event.AuditEventType), "audit")

	wg.Wait()
	return nil
}

func (s *Service) runWorkersForStream(ctx context.Context, wg *sync.WaitGroup, numWorkers int, streamName, workerType string) {
	// Auto-claimer picks up messages left pending by crashed consumers
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(s.minIdleTime)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				consumer := fmt.Sprintf("autoclaimer-%s-%d", workerType, time.Now().UnixNano())
				claimedMessages, err := s.queue.AutoClaim(ctx, s.groupName, consumer, streamName, s.minIdleTime)
				if err != nil {
					log.Errorf("❌ Failed to auto-claim messages for %s: %v", streamName, err)
					continue
				}
				if len(claimedMessages) > 0 {
					log.Infof("🔄 Auto-claimed %d messages from %s stream", len(claimedMessages), workerType)
					for _, msg := range claimedMessages {
						if err := s.processMessage(ctx, streamName, &msg); err != nil {
							log.Errorf("❌ Failed to process auto-claimed message %s: %v", msg.ID, err)
						}
					}
				}
			}
		}
	}()

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			consumer := fmt.Sprintf("%s-worker-%d", workerType, workerID)
			log.Infof("🚀 Starting %s worker %d as consumer %s", workerType, workerID, consumer)
			for {
				select {
				case <-ctx.Done():
					log.Infof("🛑 %s worker %d stopping", workerType, workerID)
					return
				default:
					msg, err := s.queue.Read(ctx, s.groupName, consumer, streamName)
					if err != nil {
						if ctx.Err() == nil {
							log.Errorf("❌ Failed to read from %s: %v", streamName, err)
						}
						continue
					}

					if msg != nil {
						if err := s.processMessage(ctx, streamName, msg); err != nil {
							log.Errorf("❌ Failed to process message %s: %v", msg.ID, err)
						}
					}
				}
			}
		}(i + 1)
	}
}

// processMessage persists one audit event and acknowledges it. Messages that
// cannot be decoded are acknowledged as well so they do not loop forever.
func (s *Service) processMessage(ctx context.Context, streamName string, msg *redis.XMessage) error {
	eventType, _ := msg.Values["event_type"].(string)
	eventData, _ := msg.Values["event_data"].(string)

	if eventType != event.AuditEventType {
		log.Warnf("⚠️ Dropping message %s with unknown event type %q", msg.ID, eventType)
		return s.queue.Ack(ctx, streamName, s.groupName, msg.ID)
	}

	auditEvent, err := event.UnmarshalEvent[*event.AuditEvent]([]byte(eventData))
	if err != nil || auditEvent == nil {
		log.Warnf("⚠️ Dropping undecodable audit message %s: %v", msg.ID, err)
		return s.queue.Ack(ctx, streamName, s.groupName, msg.ID)
	}

	if err := s.audit.SaveAuditEvent(ctx, auditEvent); err != nil {
		// Left pending; the auto-claimer retries it after minIdleTime.
		return fmt.Errorf("failed to save audit event %s: %w", auditEvent.ID, err)
	}

	if err := s.queue.Ack(ctx, streamName, s.groupName, msg.ID); err != nil {
		return fmt.Errorf("failed to ack message %s: %w", msg.ID, err)
	}

	log.Debugf("📝 Recorded audit event %s (%s %s)", auditEvent.ID, auditEvent.Action, auditEvent.EntityKey)
	return nil
}

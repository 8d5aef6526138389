package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"trolley/navigator/internal/client"
	"trolley/navigator/internal/domain"
	"trolley/navigator/internal/domain/task"
	"trolley/navigator/internal/layout"
	"trolley/navigator/internal/queue"
	"trolley/navigator/internal/repository"
	"trolley/navigator/internal/state"

	"golang.org/x/sync/errgroup"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// ImportService pulls store catalogs from the provider, fans the payload
// out over redis streams and persists it through a worker pool. Import
// progress is checkpointed per store so a restart resumes where it left.
type ImportService struct {
	repository   repository.CatalogRepository
	client       client.ProviderClient
	queue        queue.Queue
	stateManager state.StateManager
	batchSize    int
	groupName    string
	minIdleTime  time.Duration
}

func NewImportService(
	repository repository.CatalogRepository,
	client client.ProviderClient,
	queue queue.Queue,
	stateManager state.StateManager,
	batchSize int,
	groupName string,
	minIdleTime int,
) *ImportService {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &ImportService{
		repository:   repository,
		client:       client,
		queue:        queue,
		stateManager: stateManager,
		batchSize:    batchSize,
		groupName:    groupName,
		minIdleTime:  time.Duration(minIdleTime) * time.Second,
	}
}

// ImportAll imports every configured store concurrently.
func (s *ImportService) ImportAll(ctx context.Context, storeIDs []string) error {
	errGroup := new(errgroup.Group)

	for _, storeID := range storeIDs {
		errGroup.Go(func() error {
			if err := s.ImportStore(ctx, storeID); err != nil {
				log.Errorf("Failed to import store %s: %v", storeID, err)
				return err
			}
			return nil
		})
	}

	return errGroup.Wait()
}

// ImportStore fetches one store's catalog and enqueues it for the workers.
func (s *ImportService) ImportStore(ctx context.Context, storeID string) error {
	log.Infof("Importing store %s from provider", storeID)

	doc, err := s.client.FetchStore(ctx, storeID)
	if err != nil {
		return fmt.Errorf("failed to fetch store %s: %w", storeID, err)
	}

	if doc.Store.LayoutSVG == "" {
		svg, err := s.client.FetchLayout(ctx, storeID)
		if err != nil {
			return fmt.Errorf("failed to fetch layout for store %s: %w", storeID, err)
		}
		doc.Store.LayoutSVG = svg
	}

	// Providers often publish sections without coordinates. Fill those in
	// from the geometric centers of the named SVG regions.
	regions, err := layout.ParseLayoutSVG(doc.Store.LayoutSVG)
	if err != nil {
		return fmt.Errorf("failed to parse layout for store %s: %w", storeID, err)
	}

	if doc.Store.CreatedAt.IsZero() {
		doc.Store.CreatedAt = time.Now().UTC()
	}
	if err := s.repository.SaveStore(ctx, doc.Store); err != nil {
		return err
	}

	for _, section := range doc.Sections {
		if section.Position == (domain.Coordinate{}) {
			region, ok := regions[section.SVGElementID]
			if !ok {
				log.Warnf("Section %s has no region %q in the layout SVG", section.ID, section.SVGElementID)
				continue
			}
			section.Position = region.Center
		}
		section.StoreID = doc.Store.ID

		if _, err := s.queue.AddTask(ctx, &task.SectionImportTask{
			StoreID: doc.Store.ID,
			Section: section,
		}); err != nil {
			return fmt.Errorf("failed to enqueue section %s: %w", section.ID, err)
		}
	}

	lastBatch, err := s.stateManager.GetLastImportedBatch(ctx, storeID)
	if err != nil {
		return err
	}
	if lastBatch > 0 {
		log.Infof("Resuming import for store %s from batch %d", storeID, lastBatch)
	}

	batch := 0
	for _, category := range doc.Categories {
		products := productsForCategory(doc.Products, category.ID)

		for start := 0; start < len(products); start += s.batchSize {
			batch++
			if batch <= lastBatch {
				continue
			}

			end := min(start+s.batchSize, len(products))
			if _, err := s.queue.AddTask(ctx, &task.ProductImportTask{
				StoreID:  doc.Store.ID,
				Batch:    batch,
				Category: category,
				Products: products[start:end],
			}); err != nil {
				return fmt.Errorf("failed to enqueue product batch %d: %w", batch, err)
			}

			if err := s.stateManager.SetLastImportedBatch(ctx, storeID, batch); err != nil {
				log.Warnf("Failed to checkpoint import progress for store %s: %v", storeID, err)
			}
		}
	}

	log.Infof("Enqueued store %s: %d sections, %d product batches", storeID, len(doc.Sections), batch)
	return nil
}

func productsForCategory(products []domain.Product, categoryID string) []domain.Product {
	out := make([]domain.Product, 0)
	for _, p := range products {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out
}

// RunWorkers consumes the import streams until the context is cancelled.
func (s *ImportService) RunWorkers(ctx context.Context, numWorkers int) error {
	var wg sync.WaitGroup

	s.runWorkersForStream(ctx, &wg, numWorkers, queue.StreamSectionImport, "section")
	s.runWorkersForStream(ctx, &wg, numWorkers, queue.StreamProductImport, "product")
	s.runWorkersForStream(ctx, &wg, max(1, numWorkers/2), queue.StreamImportRetry, "retry")

	wg.Wait()
	return nil
}

func (s *ImportService) runWorkersForStream(ctx context.Context, wg *sync.WaitGroup, numWorkers int, streamName, workerType string) {
	// Auto-claimer reclaims messages a dead worker read but never acked
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
					log.Errorf("Failed to auto-claim messages for %s: %v", streamName, err)
					continue
				}
				for _, msg := range claimedMessages {
					if err := s.processMessage(ctx, &msg); err != nil {
						log.Errorf("Failed to process auto-claimed message %s: %v", msg.ID, err)
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
			log.Infof("Starting %s worker %d as consumer %s", workerType, workerID, consumer)
			for {
				select {
				case <-ctx.Done():
					log.Infof("%s worker %d stopping", workerType, workerID)
					return
				default:
					msg, err := s.queue.GetTask(ctx, s.groupName, consumer, streamName)
					if err != nil {
						log.Errorf("Failed to get task from %s: %v", streamName, err)
						continue
					}

					if msg != nil {
						if err := s.processMessage(ctx, msg); err != nil {
							log.Errorf("Failed to process message %s: %v", msg.ID, err)
						}
					}
				}
			}
		}(i + 1)
	}
}

func (s *ImportService) processMessage(ctx context.Context, msg *redis.XMessage) error {
	taskType, ok := msg.Values["task_type"].(string)
	if !ok {
		return fmt.Errorf("invalid task type in message %s", msg.ID)
	}

	taskData, ok := msg.Values["task_data"].(string)
	if !ok {
		return fmt.Errorf("invalid task data in message %s", msg.ID)
	}

	var streamName string
	switch taskType {
	case "SectionImportTask":
		streamName = queue.StreamSectionImport
		sectionTask, err := task.UnmarshalTask[*task.SectionImportTask]([]byte(taskData))
		if err != nil {
			return fmt.Errorf("failed to unmarshal section import task: %w", err)
		}

		if err := s.repository.SaveSection(ctx, sectionTask.Section); err != nil {
			return fmt.Errorf("failed to save section %s: %w", sectionTask.Section.ID, err)
		}

	case "ProductImportTask":
		streamName = queue.StreamProductImport
		productTask, err := task.UnmarshalTask[*task.ProductImportTask]([]byte(taskData))
		if err != nil {
			return fmt.Errorf("failed to unmarshal product import task: %w", err)
		}

		if err := s.persistBatch(ctx, productTask.Category, productTask.Products); err != nil {
			// Re-queue the batch instead of failing the message entirely
			retryTask := &task.ImportRetryTask{
				StoreID:  productTask.StoreID,
				Batch:    productTask.Batch,
				Category: productTask.Category,
				Products: productTask.Products,
				Error:    err.Error(),
			}

			if _, addErr := s.queue.AddTask(ctx, retryTask); addErr != nil {
				log.Errorf("Failed to add retry task for batch %d: %v", productTask.Batch, addErr)
			} else {
				log.Warnf("Added batch %d to retry queue due to error: %v", productTask.Batch, err)
			}
		}

	case "ImportRetryTask":
		streamName = queue.StreamImportRetry
		retryTask, err := task.UnmarshalTask[*task.ImportRetryTask]([]byte(taskData))
		if err != nil {
			return fmt.Errorf("failed to unmarshal import retry task: %w", err)
		}

		if err := s.retryBatch(ctx, retryTask); err != nil {
			return fmt.Errorf("failed to retry batch: %w", err)
		}

	default:
		return fmt.Errorf("unknown task type: %s", taskType)
	}

	if err := s.queue.AckTask(ctx, streamName, s.groupName, msg.ID); err != nil {
		return fmt.Errorf("failed to ack message %s: %w", msg.ID, err)
	}

	return nil
}

func (s *ImportService) persistBatch(ctx context.Context, category domain.Category, products []domain.Product) error {
	if err := s.repository.SaveCategory(ctx, category); err != nil {
		return err
	}
	return s.repository.SaveProducts(ctx, products)
}

func (s *ImportService) retryBatch(ctx context.Context, retryTask *task.ImportRetryTask) error {
	retryTask.RetryCount++

	log.Infof("Retrying batch %d for store %s (attempt %d)",
		retryTask.Batch, retryTask.StoreID, retryTask.RetryCount)

	if err := s.persistBatch(ctx, retryTask.Category, retryTask.Products); err != nil {
		// Re-queue with the incremented count, retry indefinitely
		newRetryTask := &task.ImportRetryTask{
			StoreID:    retryTask.StoreID,
			Batch:      retryTask.Batch,
			Category:   retryTask.Category,
			Products:   retryTask.Products,
			RetryCount: retryTask.RetryCount,
			Error:      err.Error(),
		}

		if _, addErr := s.queue.AddTask(ctx, newRetryTask); addErr != nil {
			log.Errorf("Failed to re-add retry task for batch %d: %v", retryTask.Batch, addErr)
			return addErr
		}

		log.Warnf("Batch %d for store %s failed again, will retry (attempt %d): %v",
			retryTask.Batch, retryTask.StoreID, retryTask.RetryCount, err)
		return nil
	}

	log.Infof("Recovered batch %d for store %s after %d attempts",
		retryTask.Batch, retryTask.StoreID, retryTask.RetryCount)
	return nil
}

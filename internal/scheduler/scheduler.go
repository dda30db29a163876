package scheduler

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/quantjournal/Polymarket-Journal-Backend/internal/repository"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/service"
)

// maxConcurrentUsers bounds the fan-out of one scheduled run so a large
// user base cannot saturate the Gamma API or the database.
const maxConcurrentUsers = 4

// Scheduler runs the periodic resolution refresh: for every user with
// imported fills it fetches settlement prices for unresolved markets,
// re-runs the resolution pass, and recomputes day stats.
type Scheduler struct {
	cron              *cron.Cron
	fillRepo          *repository.FillRepository
	resolutionService *service.ResolutionService
	journalService    *service.JournalService
}

// New creates a Scheduler wired to the given repositories and services.
func New(
	fillRepo *repository.FillRepository,
	resolutionService *service.ResolutionService,
	journalService *service.JournalService,
) *Scheduler {
	return &Scheduler{
		cron:              cron.New(),
		fillRepo:          fillRepo,
		resolutionService: resolutionService,
		journalService:    journalService,
	}
}

// Start registers the refresh job under the given cron spec and starts the
// scheduler. An empty spec disables scheduling.
func (s *Scheduler) Start(spec string) error {
	if spec == "" {
		log.Printf("scheduler disabled, no cron spec configured")
		return nil
	}

	if _, err := s.cron.AddFunc(spec, func() {
		if err := s.RunOnce(context.Background()); err != nil {
			log.Printf("scheduled resolution refresh failed: %v", err)
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("scheduler started with spec %q", spec)
	return nil
}

// Stop stops the scheduler and waits for any running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// RunOnce executes one refresh pass over all users with imported fills.
// Users are processed concurrently with a bounded worker group; a failure
// for one user does not stop the others, but the first error is returned.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	userIDs, err := s.fillRepo.GetUserIDs()
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentUsers)

	for _, userID := range userIDs {
		userID := userID
		g.Go(func() error {
			if err := s.refreshUser(ctx, userID); err != nil {
				log.Printf("resolution refresh for user %s failed: %v", userID, err)
				return err
			}
			return nil
		})
	}

	return g.Wait()
}

func (s *Scheduler) refreshUser(ctx context.Context, userID string) error {
	fetched, err := s.resolutionService.FetchResolutions(ctx, userID)
	if err != nil {
		return err
	}
	if fetched > 0 {
		log.Printf("fetched %d resolutions for user %s", fetched, userID)
	}

	if _, err := s.resolutionService.UpdateResolutions(ctx, userID); err != nil {
		return err
	}

	return s.journalService.RecomputeDayStats(ctx, userID)
}

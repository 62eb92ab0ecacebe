package background

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

const jobTimeout = 2 * time.Minute

type InvitationSweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

type LoginLogPurger interface {
	PurgeLoginLogs(ctx context.Context, retention time.Duration) (int64, error)
}

type Config struct {
	InvitationSweepInterval time.Duration
	LoginLogRetention       time.Duration
	LoginLogPurgeInterval   time.Duration
}

// JobScheduler runs the periodic maintenance of the platform tables.
type JobScheduler struct {
	scheduler   gocron.Scheduler
	invitations InvitationSweeper
	loginLogs   LoginLogPurger
	cfg         Config
	log         logrus.FieldLogger
	jobs        map[string]gocron.Job
	mu          sync.RWMutex
}

func NewJobScheduler(invitations InvitationSweeper, loginLogs LoginLogPurger, cfg Config, log logrus.FieldLogger) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	if cfg.InvitationSweepInterval <= 0 {
		cfg.InvitationSweepInterval = 15 * time.Minute
	}
	if cfg.LoginLogPurgeInterval <= 0 {
		cfg.LoginLogPurgeInterval = 24 * time.Hour
	}

	js := &JobScheduler{
		scheduler:   scheduler,
		invitations: invitations,
		loginLogs:   loginLogs,
		cfg:         cfg,
		log:         log.WithField("component", "scheduler"),
		jobs:        make(map[string]gocron.Job),
	}
	if err := js.registerJobs(); err != nil {
		return nil, err
	}
	return js, nil
}

func (js *JobScheduler) Start() {
	js.log.Info("starting background job scheduler")
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	js.log.Info("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() error {
	if err := js.AddJob("invitation-expiry-sweep", js.cfg.InvitationSweepInterval, js.SweepInvitations); err != nil {
		return err
	}
	if js.cfg.LoginLogRetention > 0 {
		if err := js.AddJob("login-log-purge", js.cfg.LoginLogPurgeInterval, js.PurgeLoginLogs); err != nil {
			return err
		}
	}
	js.log.WithField("jobs", len(js.jobs)).Info("registered background jobs")
	return nil
}

// SweepInvitations revokes the pending invitations that expired.
func (js *JobScheduler) SweepInvitations() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := js.invitations.SweepExpired(ctx)
	if err != nil {
		js.log.WithError(err).Error("invitation sweep failed")
		return
	}
	if n > 0 {
		js.log.WithField("revoked", n).Info("expired invitations revoked")
	}
}

// PurgeLoginLogs drops login attempts past the retention period.
func (js *JobScheduler) PurgeLoginLogs() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := js.loginLogs.PurgeLoginLogs(ctx, js.cfg.LoginLogRetention)
	if err != nil {
		js.log.WithError(err).Error("login log purge failed")
		return
	}
	js.log.WithField("deleted", n).Info("login logs purged")
}

func (js *JobScheduler) AddJob(name string, interval time.Duration, task func()) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}
	js.jobs[name] = job
	return nil
}

func (js *JobScheduler) RemoveJob(name string) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	if job, ok := js.jobs[name]; ok {
		delete(js.jobs, name)
		return js.scheduler.RemoveJob(job.ID())
	}
	return nil
}

// JobNames lists the registered jobs in name order.
func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package backup

import (
	"reactbot/internal/backup/interfaces"
	"reactbot/internal/providers"
	"reactbot/internal/structures"
	"sync"
	"time"

	"github.com/roylee0704/gron"
)

const defaultSaveInterval = 5 * time.Minute

type Scheduler struct {
	config  *structures.Config
	logger  providers.Logger
	manager *SnapshotManager
	cron    *gron.Cron
	opsMu   sync.Mutex
}

func (s *Scheduler) Init() {
	path := s.config.Persistence.BackupPath
	if path == "" {
		s.logger.Infof(providers.TypeStore, "Backup path not configured, snapshots disabled")
		return
	}

	interval := s.config.Persistence.SaveInterval
	if interval <= 0 {
		interval = defaultSaveInterval
	}

	s.cron = gron.New()
	s.cron.AddFunc(gron.Every(interval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		err := s.manager.SaveToFile(path)
		if err != nil {
			s.logger.Errorf(providers.TypeStore, "Error while writing snapshot: %s", err)
			return
		}
		s.logger.Infof(providers.TypeStore, "Snapshot written to %s", path)
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	path := s.config.Persistence.BackupPath
	if path == "" {
		return nil
	}

	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	restored, err := s.manager.RestoreIfEmpty(path)
	if err != nil {
		return err
	}
	if restored > 0 {
		s.logger.Warnf(providers.TypeStore, "Data directory was empty, restored %d documents from %s", restored, path)
	}
	return nil
}

func (s *Scheduler) Persist() error {
	path := s.config.Persistence.BackupPath
	if path == "" {
		return nil
	}

	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeStore, "Writing snapshot to %s...", path)
	err := s.manager.SaveToFile(path)
	if err != nil {
		s.logger.Errorf(providers.TypeStore, "Error while writing snapshot: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, manager *SnapshotManager) interfaces.SchedulerInterface {
	return &Scheduler{
		config:  config,
		logger:  logger,
		manager: manager,
	}
}

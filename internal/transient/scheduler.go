package transient

import (
	"promod/internal/providers"
	"promod/internal/structures"
	"promod/internal/transient/interfaces"
	"sync"
	"time"
)

type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	fileManager *FileManager
	metrics     providers.MetricsProviderInterface
	opsMu       sync.Mutex
	stop        chan struct{}
	done        chan struct{}
}

func (s *Scheduler) Init() {
	interval := s.config.Persistence.SaveInterval
	if interval <= 0 {
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				_ = s.Persist()
			case <-s.stop:
				return
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	<-s.done
	s.stop = nil
}

func (s *Scheduler) Restore() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	return s.fileManager.LoadFromFile(s.config.Persistence.FilePath)
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	start := time.Now()
	err := s.fileManager.SaveToFile(s.config.Persistence.FilePath)
	s.metrics.ObservePersistenceDuration(time.Since(start))
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting transients: %s", err)
		return err
	}
	s.logger.Debugf(providers.TypeApp, "Persisted transients to file %s", s.config.Persistence.FilePath)
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, fileManager *FileManager, metrics providers.MetricsProviderInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		fileManager: fileManager,
		metrics:     metrics,
	}
}

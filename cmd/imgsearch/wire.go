package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/imgsearch/internal/adapters/driven/cache"
	"github.com/custodia-labs/imgsearch/internal/adapters/driven/config/file"
	"github.com/custodia-labs/imgsearch/internal/adapters/driven/flickr"
	"github.com/custodia-labs/imgsearch/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/imgsearch/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/imgsearch/internal/adapters/driving/cli"
	"github.com/custodia-labs/imgsearch/internal/concurrent"
	"github.com/custodia-labs/imgsearch/internal/core/domain"
	"github.com/custodia-labs/imgsearch/internal/core/ports/driven"
	"github.com/custodia-labs/imgsearch/internal/core/services"
	"github.com/custodia-labs/imgsearch/internal/logger"
	"github.com/custodia-labs/imgsearch/internal/pipe"
)

// dataDirName holds the database inside the config directory.
const dataDirName = "data"

// stores is the persistence a bootstrap runs on.
type stores struct {
	config  driven.ConfigStore
	history driven.HistoryStore
	// configFile is nil when settings are held in memory.
	configFile *file.ConfigStore
	close      func()
}

// openStores opens the config file and history database in configDir,
// defaulting to ~/.imgsearch. Without a home directory everything is kept
// in memory for the life of the process.
func openStores(configDir string) (*stores, error) {
	if configDir == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			logger.Warn("no home directory (%v); settings and history are kept in memory", err)
			return &stores{
				config:  memory.NewConfigStore(),
				history: memory.NewHistoryStore(),
				close:   func() {},
			}, nil
		}
		configDir = dir
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	store, err := sqlite.NewStore(filepath.Join(configDir, dataDirName))
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}

	return &stores{
		config:     configStore,
		history:    store.HistoryStore(),
		configFile: configStore,
		close: func() {
			if err := store.Close(); err != nil {
				logger.Warn("closing history: %v", err)
			}
		},
	}, nil
}

// bootstrap builds the services for configDir. Search services are left
// nil when no Flickr API key is configured so that settings and history
// commands still work.
func bootstrap(configDir string) (*cli.Services, func(), error) {
	st, err := openStores(configDir)
	if err != nil {
		return nil, nil, err
	}

	settingsService := services.NewSettingsService(st.config)
	settings, err := settingsService.Get()
	if err != nil {
		st.close()
		return nil, nil, fmt.Errorf("reading settings: %w", err)
	}

	svc := &cli.Services{
		History:  services.NewHistoryService(st.history, settings.History.Limit),
		Settings: settingsService,
	}
	var watcher *file.Watcher
	if st.configFile != nil {
		watcher = file.NewWatcher(st.configFile, settingsService.Get)
		svc.SettingsUpdates = watcher.Settings()
		svc.Watch = watcher.Run
	}

	flickrRepo, err := flickr.NewRepository(flickr.ConfigFromSettings(settings.Flickr))
	if errors.Is(err, domain.ErrNotConfigured) {
		logger.Debug("flickr api key not set; search disabled")
		return svc, st.close, nil
	}
	if err != nil {
		st.close()
		return nil, nil, err
	}

	stack := decorate(flickrRepo, st.history, settings)
	repo := stack.repo
	svc.Collector = services.NewCollector(repo)

	throttle := concurrent.NewThrottlingExecutor(concurrent.NewPoolExecutor(1), settings.Search.Debounce())
	orchestrator := services.NewSearchOrchestrator(repo)
	svc.Presenter = services.NewSearchPresenter(orchestrator, throttle)

	var retune *pipe.Subscription
	if watcher != nil {
		r := &retuner{throttle: throttle, flickr: flickrRepo, cache: stack.cache}
		retune = watcher.Settings().Subscribe(r.apply)
	}

	release := func() {
		retune.Unsubscribe()
		throttle.Cancel()
		orchestrator.Close()
		if stack.recorder != nil {
			stack.recorder.Wait()
		}
		st.close()
	}
	return svc, release, nil
}

// searchStack is the decorated repository searches run against. cache and
// recorder are nil when disabled.
type searchStack struct {
	repo     driven.ImagesRepository
	cache    *cache.Repository
	recorder *services.HistoryRecorder
}

// decorate layers the page cache and history recording over repo as
// settings enable them. Recording sits outside the cache so cached first
// pages are still recorded. The cache is kept so reloads can flush it and
// the recorder so pending writes finish before the store closes.
func decorate(repo driven.ImagesRepository, history driven.HistoryStore, settings *domain.AppSettings) searchStack {
	stack := searchStack{repo: repo}
	if settings.Cache.Enabled {
		stack.cache = cache.New(stack.repo, settings.Cache.TTL())
		stack.repo = stack.cache
	}
	if settings.History.Enabled {
		stack.recorder = services.NewHistoryRecorder(stack.repo, history)
		stack.repo = stack.recorder
	}
	return stack
}

// retuner applies reloaded settings to a running search stack.
type retuner struct {
	throttle *concurrent.ThrottlingExecutor
	flickr   *flickr.Repository
	cache    *cache.Repository
}

func (r *retuner) apply(updated domain.AppSettings) {
	r.throttle.SetWindow(updated.Search.Debounce())
	r.flickr.Limiter().SetRate(updated.Flickr.RequestsPerSecond)

	if level := updated.Flickr.SafeSearch; level.IsValid() && level != r.flickr.SafeSearch() {
		r.flickr.SetSafeSearch(level)
		// Cached pages were filtered at the old level.
		if r.cache != nil {
			r.cache.Flush()
		}
		logger.Debug("search: safe search now %d", level)
	}

	logger.Debug("search retuned: debounce %s, %g req/s",
		updated.Search.Debounce(), updated.Flickr.RequestsPerSecond)
}

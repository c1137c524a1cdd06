package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"careercrafter/internal/errors"

	"github.com/fsnotify/fsnotify"
)

// TokenWatcher watches the bearer-token file for rotation and pushes
// the fresh token to a callback. Deployments that rotate short-lived
// tokens on disk keep long-running sessions authenticated this way.
type TokenWatcher struct {
	mu sync.Mutex

	tokenFile     string
	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan chan struct{}

	onToken func(token string)
	logger  *errors.Logger

	running bool
}

// NewTokenWatcher creates a watcher for tokenFile. onToken receives
// the trimmed file contents after every debounced change.
func NewTokenWatcher(tokenFile string, debounceDelay time.Duration, onToken func(token string), logger *errors.Logger) *TokenWatcher {
	if debounceDelay == 0 {
		debounceDelay = time.Second
	}

	return &TokenWatcher{
		tokenFile:     tokenFile,
		debounceDelay: debounceDelay,
		stopChan:      make(chan struct{}),
		onToken:       onToken,
		logger:        logger,
	}
}

// Start begins watching the token file for changes
func (tw *TokenWatcher) Start() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.running {
		return fmt.Errorf("token watcher is already running")
	}
	if tw.tokenFile == "" {
		return fmt.Errorf("no token file configured")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	tw.fsWatcher = watcher

	// Watch the directory: editors and secret managers replace the
	// file rather than writing in place, which drops the inode watch.
	dir := filepath.Dir(tw.tokenFile)
	if err := watcher.Add(dir); err != nil {
		tw.cleanupWatcher()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	tw.running = true
	go tw.watchLoop()

	tw.logger.Info("Token file watcher started",
		"file", tw.tokenFile,
		"debounce_delay", tw.debounceDelay)
	return nil
}

// Stop halts the watcher
func (tw *TokenWatcher) Stop() {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if !tw.running {
		return
	}

	close(tw.stopChan)
	if tw.debounceTimer != nil {
		tw.debounceTimer.Stop()
	}
	tw.cleanupWatcher()
	tw.running = false

	tw.logger.Info("Token file watcher stopped", "file", tw.tokenFile)
}

func (tw *TokenWatcher) cleanupWatcher() {
	if tw.fsWatcher != nil {
		if closeErr := tw.fsWatcher.Close(); closeErr != nil && tw.logger != nil {
			tw.logger.LogError(closeErr, "Failed to close file watcher during cleanup")
		}
	}
}

func (tw *TokenWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-tw.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(tw.tokenFile) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			tw.scheduleReload()

		case err, ok := <-tw.fsWatcher.Errors:
			if !ok {
				return
			}
			tw.logger.LogError(err, "Token file watcher error", "file", tw.tokenFile)

		case <-tw.stopChan:
			return
		}
	}
}

// scheduleReload debounces bursts of file events into a single reload
func (tw *TokenWatcher) scheduleReload() {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.debounceTimer != nil {
		tw.debounceTimer.Stop()
	}
	tw.debounceTimer = time.AfterFunc(tw.debounceDelay, tw.reload)
}

func (tw *TokenWatcher) reload() {
	data, err := os.ReadFile(tw.tokenFile)
	if err != nil {
		tw.logger.LogError(err, "Failed to reload rotated token file", "file", tw.tokenFile)
		return
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		tw.logger.Warn("Rotated token file is empty, keeping previous token", "file", tw.tokenFile)
		return
	}

	tw.logger.Info("Bearer token reloaded from rotated file", "file", tw.tokenFile)
	tw.onToken(token)
}

package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sigma-ops/sigma-relay/internal/core/domain"
	"github.com/sigma-ops/sigma-relay/internal/core/ports/driven"
	"github.com/sigma-ops/sigma-relay/internal/core/ports/driving"
	"github.com/sigma-ops/sigma-relay/internal/logger"
)

// Ensure Relay implements the interface.
var _ driving.Relay = (*Relay)(nil)

// eventBuffer bounds the status channel; events beyond it are dropped so
// a slow consumer never stalls the worker.
const eventBuffer = 256

// historyKeep is how many cycle results the history store retains.
const historyKeep = 100

// Relay orchestrates one transfer cycle (list, filter, download, upload,
// archive, cleanup) and the polling loop around it. All work happens on
// the calling goroutine; callers keep it off any rendering thread.
type Relay struct {
	cfg     domain.RelayConfig
	source  driven.Source
	sink    driven.Sink
	history driven.HistoryStore
	log     logger.Logger
	events  chan domain.Event
}

// NewRelay creates a relay. history may be nil to disable cycle history.
func NewRelay(
	cfg domain.RelayConfig,
	source driven.Source,
	sink driven.Sink,
	history driven.HistoryStore,
	log logger.Logger,
) *Relay {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.Nop()
	}
	return &Relay{
		cfg:     cfg,
		source:  source,
		sink:    sink,
		history: history,
		log:     log,
		events:  make(chan domain.Event, eventBuffer),
	}
}

// Events exposes the relay's status event stream.
func (r *Relay) Events() <-chan domain.Event {
	return r.events
}

// RunOnce performs a single relay cycle.
//
//nolint:gocyclo // Orchestration function with necessary sequential steps
func (r *Relay) RunOnce(ctx context.Context) (*domain.CycleResult, error) {
	result := domain.NewCycleResult()
	r.emit(domain.NewEvent(domain.EventCycleStarted, "", "checking source folder"))

	if r.cfg.FolderID == "" {
		r.log.Warnf("relay: source folder id is empty, skipping cycle")
		result.Finish()
		r.finishCycle(ctx, result)
		return result, nil
	}

	listed, err := r.source.List(ctx, r.cfg.FolderID)
	if err != nil {
		err = fmt.Errorf("list folder %s: %w", r.cfg.FolderID, err)
		result.ErrorMessage = err.Error()
		result.Finish()
		r.finishCycle(ctx, result)
		return result, err
	}
	r.log.Infof("relay: %d file(s) in source folder", len(listed))

	// The extension filter runs on listing metadata, before any bytes
	// move. A disallowed file is never downloaded and leaves no record.
	for i := range listed {
		rec := listed[i]
		if !r.cfg.ExtensionAllowed(rec.Name) {
			r.log.Infof("relay: skipping %q (extension not allowed)", rec.Name)
			continue
		}
		r.downloadOne(ctx, &rec)
		result.Files = append(result.Files, rec)
	}

	eligible := r.filterEligible(result)
	if len(eligible) == 0 {
		r.log.Infof("relay: no new files")
		result.Finish()
		r.finishCycle(ctx, result)
		return result, nil
	}

	// One sink connection per cycle, shared by every upload and closed
	// whatever happens below.
	conn, err := r.sink.Connect(ctx)
	if err != nil {
		err = fmt.Errorf("connect sink: %w", err)
		result.ErrorMessage = err.Error()
		result.Finish()
		r.finishCycle(ctx, result)
		return result, err
	}
	defer conn.Close()

	archiveID := ""
	for _, rec := range eligible {
		r.relayOne(ctx, conn, rec, &archiveID)
	}

	result.Finish()
	r.finishCycle(ctx, result)
	return result, nil
}

// Run repeats RunOnce until ctx is cancelled. A failed cycle is logged
// and the loop survives to its next iteration; only cancellation ends it.
func (r *Relay) Run(ctx context.Context) error {
	r.log.Infof("relay: loop started (poll interval %s)", r.cfg.PollInterval)
	for {
		if err := ctx.Err(); err != nil {
			r.log.Infof("relay: stop requested, exiting loop")
			return err
		}

		if _, err := r.RunOnce(ctx); err != nil {
			r.log.Errorf("relay: cycle failed: %v", err)
		}

		if err := r.sleep(ctx); err != nil {
			r.log.Infof("relay: stop requested, exiting loop")
			return err
		}
	}
}

// sleep waits the poll interval in one-second increments so cancellation
// latency stays around a second regardless of the configured interval.
func (r *Relay) sleep(ctx context.Context) error {
	for i := 0; i < sleepSeconds(r.cfg.PollInterval); i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
	return nil
}

// sleepSeconds converts the poll interval to whole seconds, rounding up
// so a sub-second remainder is never silently dropped.
func sleepSeconds(interval time.Duration) int {
	seconds := int((interval + time.Second - 1) / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	return seconds
}

// downloadOne stages rec locally, containing any failure on the record.
func (r *Relay) downloadOne(ctx context.Context, rec *domain.FileRecord) {
	localPath, err := r.source.Download(ctx, rec, r.cfg.TempDir)
	if err != nil {
		r.log.Warnf("relay: download of %q failed: %v", rec.Name, err)
		rec.Fail(err)
		r.emit(domain.NewEvent(domain.EventFileFailed, rec.Name, rec.ErrorMessage))
		return
	}
	rec.LocalPath = localPath
	rec.Status = domain.StatusDownloaded
}

// filterEligible applies the size filter to downloaded files and returns
// pointers into result.Files for everything that should be uploaded,
// preserving listing order. Oversized files stay in the result as
// StatusDownloaded; they were never attempted, so they are not failures.
func (r *Relay) filterEligible(result *domain.CycleResult) []*domain.FileRecord {
	var eligible []*domain.FileRecord
	for i := range result.Files {
		rec := &result.Files[i]
		if rec.Status != domain.StatusDownloaded {
			continue
		}
		size := rec.Size
		if info, err := os.Stat(rec.LocalPath); err == nil {
			size = info.Size()
		}
		if !r.cfg.WithinSizeLimit(size) {
			r.log.Warnf("relay: skipping %q, %d bytes over the %dMB limit",
				rec.Name, size, r.cfg.MaxFileSizeMB)
			result.Skipped++
			continue
		}
		eligible = append(eligible, rec)
	}
	return eligible
}

// relayOne uploads, archives and cleans up a single file. Every failure
// is contained at the file boundary so siblings still run. The archive
// folder id is resolved once per cycle, on first use, via archiveID.
func (r *Relay) relayOne(ctx context.Context, conn driven.SinkConn, rec *domain.FileRecord, archiveID *string) {
	if err := conn.Upload(ctx, rec.LocalPath); err != nil {
		r.log.Errorf("relay: upload of %q failed: %v", rec.Name, err)
		rec.Fail(err)
		r.emit(domain.NewEvent(domain.EventFileFailed, rec.Name, rec.ErrorMessage))
		return
	}
	rec.Status = domain.StatusUploaded

	if *archiveID == "" {
		id, err := r.source.EnsureArchiveFolder(ctx, r.cfg.ArchiveFolder)
		if err != nil {
			r.log.Warnf("relay: cannot resolve archive folder %q: %v", r.cfg.ArchiveFolder, err)
		} else {
			*archiveID = id
		}
	}

	if *archiveID != "" && r.source.Archive(ctx, rec.ID, *archiveID) {
		rec.Status = domain.StatusArchived
		r.log.Infof("relay: moved %q to archive", rec.Name)
	} else {
		r.log.Warnf("relay: could not move %q to archive", rec.Name)
	}

	// Local cleanup runs regardless of the archive outcome.
	if err := os.Remove(rec.LocalPath); err != nil && !os.IsNotExist(err) {
		r.log.Warnf("relay: cannot remove temp copy %s: %v", rec.LocalPath, err)
	}

	r.emit(domain.NewEvent(domain.EventFileRelayed, rec.Name, "uploaded"))
}

// finishCycle records the result and emits the closing event. The
// history write is detached from cancellation so a cycle interrupted by
// shutdown still leaves a record.
func (r *Relay) finishCycle(ctx context.Context, result *domain.CycleResult) {
	ctx = context.WithoutCancel(ctx)
	if r.history != nil {
		if err := r.history.RecordCycle(ctx, result); err != nil {
			r.log.Warnf("relay: cannot record cycle history: %v", err)
		} else if err := r.history.Prune(ctx, historyKeep); err != nil {
			r.log.Warnf("relay: cannot prune cycle history: %v", err)
		}
	}

	msg := fmt.Sprintf("%d uploaded, %d failed, %d skipped",
		result.Uploaded, result.Failed, result.Skipped)
	if result.ErrorMessage != "" {
		msg = result.ErrorMessage
	}
	r.emit(domain.NewEvent(domain.EventCycleFinished, "", msg))
}

// emit publishes an event without ever blocking the worker.
func (r *Relay) emit(ev domain.Event) {
	select {
	case r.events <- ev:
	default:
	}
}

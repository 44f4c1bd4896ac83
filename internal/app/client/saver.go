package client

import (
	"golang.org/x/exp/slog"
)

// draftSaver persists draft snapshots in the background so editing never
// blocks on storage. Rapid consecutive snapshots coalesce: only the latest
// one still waiting is written. Failures are logged and never propagated.
type draftSaver struct {
	store *DraftStore
	log   *slog.Logger
	ch    chan *InspectionDraft
	done  chan struct{}
}

func newDraftSaver(store *DraftStore, log *slog.Logger) *draftSaver {
	s := &draftSaver{
		store: store,
		log:   log.With("component", "draft_saver"),
		ch:    make(chan *InspectionDraft, 1),
		done:  make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *draftSaver) run() {
	defer close(s.done)
	for draft := range s.ch {
		if err := s.store.Save(draft); err != nil {
			s.log.Warn("background draft save failed", "report_id", draft.ReportID, "error", err)
		}
	}
}

// enqueue hands a snapshot to the worker, displacing any snapshot that is
// still waiting. The snapshot must be a private copy; the worker reads it
// without locking.
func (s *draftSaver) enqueue(draft *InspectionDraft) {
	for {
		select {
		case s.ch <- draft:
			return
		default:
			select {
			case <-s.ch:
			default:
			}
		}
	}
}

// Close flushes the pending snapshot (if any) and stops the worker.
func (s *draftSaver) Close() {
	close(s.ch)
	<-s.done
}

package client

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"sitecheck/internal/domain/report"
	"sitecheck/internal/domain/template"
)

type SessionState string

const (
	StateIdle      SessionState = "idle"
	StateLoading   SessionState = "loading"
	StateActive    SessionState = "active"
	StateSaving    SessionState = "saving"
	StateSubmitted SessionState = "submitted"
)

// Session orchestrates one active inspection: it loads and merges state,
// applies edits in memory, persists draft snapshots in the background, and
// writes to the server directly or through the sync queue depending on
// connectivity.
//
// Edits apply to the in-memory state synchronously in call order. Draft
// persistence is eventual: a later snapshot may supersede an earlier one,
// and every snapshot is derived from current state at call time, so a stale
// in-flight save can never clobber a newer in-memory value.
type Session struct {
	log      *slog.Logger
	backend  Backend
	drafts   *DraftStore
	queue    *SyncQueue
	online   ConnectivityChecker
	strategy MergeStrategy
	saver    *draftSaver

	mu             sync.Mutex
	state          SessionState
	lastErr        error
	report         *report.Report
	tpl            *template.Template
	responses      map[string]*DraftResponse
	itemOrder      []string
	currentSection int
	lastMerge      *MergeSummary
}

func NewSession(backend Backend, drafts *DraftStore, queue *SyncQueue, online ConnectivityChecker, strategy MergeStrategy, log *slog.Logger) *Session {
	if strategy == "" {
		strategy = StrategyNewestWins
	}
	return &Session{
		log:      log.With("component", "session"),
		backend:  backend,
		drafts:   drafts,
		queue:    queue,
		online:   online,
		strategy: strategy,
		saver:    newDraftSaver(drafts, log),
		state:    StateIdle,
	}
}

// Close flushes any pending background draft save.
func (s *Session) Close() {
	s.saver.Close()
}

func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastError reports the failure that interrupted the most recent load or
// save, for a retry affordance. Cleared by the next successful operation.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Session) Report() *report.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.report == nil {
		return nil
	}
	cp := *s.report
	return &cp
}

func (s *Session) Template() *template.Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tpl
}

// LastMerge returns the summary of the merge performed by the most recent
// LoadInspection, or nil for a fresh session.
func (s *Session) LastMerge() *MergeSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastMerge
}

// StartInspection fetches the template, creates a server-side report and
// seeds one empty response per template item, so progress counting has a
// stable denominator from the first edit. On any failure no local draft is
// created and the session stays idle.
func (s *Session) StartInspection(ctx context.Context, orgID, recordID, templateID, userID string) (string, error) {
	s.setState(StateLoading)

	tpl, err := s.backend.FetchTemplate(ctx, templateID)
	if err != nil {
		s.fail(StateIdle, err)
		return "", fmt.Errorf("fetch template: %w", err)
	}

	rep, err := s.backend.CreateReport(ctx, report.CreateRequest{
		OrganisationID: orgID,
		RecordID:       recordID,
		TemplateID:     templateID,
		UserID:         userID,
	})
	if err != nil {
		s.fail(StateIdle, err)
		return "", fmt.Errorf("create report: %w", err)
	}

	s.mu.Lock()
	s.report = rep
	s.tpl = tpl
	s.responses = make(map[string]*DraftResponse)
	s.itemOrder = s.itemOrder[:0]
	for _, item := range tpl.Items() {
		s.responses[item.ID] = &DraftResponse{TemplateItemID: item.ID}
		s.itemOrder = append(s.itemOrder, item.ID)
	}
	s.currentSection = 0
	s.lastMerge = nil
	s.lastErr = nil
	s.state = StateActive
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.saver.enqueue(snapshot)
	s.log.Info("inspection started", "report_id", rep.ID, "template_id", templateID)
	return rep.ID, nil
}

// LoadInspection resumes an existing report: server state and any local
// draft are reconciled per item by the merge engine, and the merge output
// becomes the working in-memory state. This is the recovery path after an
// app restart or crash mid-inspection.
func (s *Session) LoadInspection(ctx context.Context, reportID string) error {
	s.setState(StateLoading)

	rep, err := s.backend.FetchReport(ctx, reportID)
	if err != nil {
		s.fail(StateIdle, err)
		return fmt.Errorf("fetch report: %w", err)
	}

	tpl, err := s.backend.FetchTemplate(ctx, rep.TemplateID)
	if err != nil {
		s.fail(StateIdle, err)
		return fmt.Errorf("fetch template: %w", err)
	}

	serverResponses, err := s.backend.FetchResponses(ctx, reportID)
	if err != nil {
		s.fail(StateIdle, err)
		return fmt.Errorf("fetch responses: %w", err)
	}

	// Storage failures surface as an absent draft; the server copy alone
	// is still a valid session.
	draft, _ := s.drafts.Load(reportID)

	var localResponses []DraftResponse
	sectionIndex := 0
	if draft != nil {
		localResponses = draft.Responses
		sectionIndex = draft.CurrentSectionIndex
	}
	if max := len(tpl.Sections) - 1; sectionIndex > max {
		sectionIndex = 0
	}

	items := tpl.Items()
	summary := MergeAllResponses(localResponses, serverResponses, items, s.strategy)

	localByItem := make(map[string]*DraftResponse, len(localResponses))
	for i := range localResponses {
		localByItem[localResponses[i].TemplateItemID] = &localResponses[i]
	}

	s.mu.Lock()
	s.report = rep
	s.tpl = tpl
	s.responses = make(map[string]*DraftResponse, len(items))
	s.itemOrder = s.itemOrder[:0]
	for i, item := range items {
		merged := summary.Merged[i]
		resp := &DraftResponse{
			TemplateItemID: item.ID,
			ResponseValue:  merged.ResponseValue,
			Severity:       merged.Severity,
			Notes:          merged.Notes,
			Photos:         merged.Photos,
			Videos:         merged.Videos,
		}
		if local := localByItem[item.ID]; local != nil {
			resp.FieldUpdatedAt = local.FieldUpdatedAt
		}
		s.responses[item.ID] = resp
		s.itemOrder = append(s.itemOrder, item.ID)
	}
	s.currentSection = sectionIndex
	s.lastMerge = &summary
	s.lastErr = nil
	if rep.Status == report.StatusSubmitted {
		s.state = StateSubmitted
	} else {
		s.state = StateActive
	}
	s.mu.Unlock()

	s.log.Info("inspection loaded",
		"report_id", reportID,
		"conflicts", summary.ConflictCount,
		"local_wins", summary.LocalWinCount,
		"server_wins", summary.ServerWinCount,
	)
	return nil
}

// SetResponse applies one field edit to the in-memory state and schedules a
// background draft save. Severity and notes are optional; nil leaves the
// current value untouched.
func (s *Session) SetResponse(itemID string, value *string, severity *report.Severity, notes *string) error {
	s.mu.Lock()
	if s.state != StateActive && s.state != StateSaving {
		s.mu.Unlock()
		return ErrNotActive
	}

	resp, ok := s.responses[itemID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownItem, itemID)
	}

	resp.ResponseValue = value
	if severity != nil {
		resp.Severity = severity
	}
	if notes != nil {
		resp.Notes = notes
	}
	now := time.Now().UTC()
	resp.FieldUpdatedAt = &now

	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.saver.enqueue(snapshot)
	return nil
}

func (s *Session) AddPhoto(itemID, uri string) error {
	return s.appendMedia(itemID, uri, false)
}

func (s *Session) AddVideo(itemID, uri string) error {
	return s.appendMedia(itemID, uri, true)
}

func (s *Session) appendMedia(itemID, uri string, video bool) error {
	s.mu.Lock()
	resp, ok := s.responses[itemID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownItem, itemID)
	}
	if video {
		resp.Videos = append(resp.Videos, uri)
	} else {
		resp.Photos = append(resp.Photos, uri)
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.saver.enqueue(snapshot)
	return nil
}

// RemovePhoto removes by position against the list as it stands right now;
// remaining items keep their relative order. An out-of-range index is a
// no-op.
func (s *Session) RemovePhoto(itemID string, index int) error {
	return s.removeMedia(itemID, index, false)
}

func (s *Session) RemoveVideo(itemID string, index int) error {
	return s.removeMedia(itemID, index, true)
}

func (s *Session) removeMedia(itemID string, index int, video bool) error {
	s.mu.Lock()
	resp, ok := s.responses[itemID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownItem, itemID)
	}

	list := resp.Photos
	if video {
		list = resp.Videos
	}
	if index < 0 || index >= len(list) {
		s.mu.Unlock()
		return nil
	}

	list = append(list[:index], list[index+1:]...)
	if video {
		resp.Videos = list
	} else {
		resp.Photos = list
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.saver.enqueue(snapshot)
	return nil
}

// SaveResponses persists the draft and pushes every answered response to
// the server, falling back to the sync queue when offline or when a direct
// write fails. Queued and failed-over writes are not errors: the data is
// safe locally. Only the absence of an active report surfaces as an error.
func (s *Session) SaveResponses(ctx context.Context) error {
	s.mu.Lock()
	if s.report == nil {
		s.mu.Unlock()
		return ErrNoActiveReport
	}
	prevState := s.state
	s.state = StateSaving

	snapshot := s.snapshotLocked()
	payloads := s.answeredPayloadsLocked()
	s.mu.Unlock()

	if err := s.drafts.Save(snapshot); err != nil {
		s.log.Warn("draft save failed, continuing", "report_id", snapshot.ReportID, "error", err)
	}

	online := s.online.IsOnline()
	for _, p := range payloads {
		if online {
			err := s.backend.UpsertResponse(ctx, p.toUpsertRequest())
			if err == nil {
				continue
			}
			s.log.Warn("direct write failed, queueing",
				"template_item_id", p.TemplateItemID, "error", err)
		}
		if err := s.queue.Add(EntryKindResponse, p); err != nil {
			s.log.Error("failed to enqueue response",
				"template_item_id", p.TemplateItemID, "error", err)
		}
	}

	s.mu.Lock()
	if s.state == StateSaving {
		s.state = prevState
		if prevState == StateLoading || prevState == StateIdle {
			s.state = StateActive
		}
	}
	s.lastErr = nil
	s.mu.Unlock()
	return nil
}

// SubmitInspection flushes pending writes via SaveResponses, then marks the
// report submitted server-side. Draft cleanup is tied to submitted status
// and performed separately (see Cleanup).
func (s *Session) SubmitInspection(ctx context.Context) error {
	if err := s.SaveResponses(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	reportID := s.report.ID
	s.mu.Unlock()

	if err := s.backend.SubmitReport(ctx, reportID); err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		return fmt.Errorf("submit report: %w", err)
	}

	now := time.Now().UTC()
	s.mu.Lock()
	s.report.Status = report.StatusSubmitted
	s.report.SubmittedAt = &now
	s.state = StateSubmitted
	s.mu.Unlock()

	s.log.Info("inspection submitted", "report_id", reportID)
	return nil
}

// Cleanup deletes the local draft once the report is submitted and no
// queued writes for it remain. Safe to call repeatedly.
func (s *Session) Cleanup() error {
	s.mu.Lock()
	if s.state != StateSubmitted || s.report == nil {
		s.mu.Unlock()
		return nil
	}
	reportID := s.report.ID
	s.mu.Unlock()

	pending, err := s.queue.PendingForReport(reportID)
	if err != nil {
		return err
	}
	if pending > 0 {
		return nil
	}
	return s.drafts.Delete(reportID)
}

// Section navigation: out-of-range requests are no-ops, not errors.

func (s *Session) NextSection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tpl != nil && s.currentSection < len(s.tpl.Sections)-1 {
		s.currentSection++
	}
}

func (s *Session) PreviousSection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentSection > 0 {
		s.currentSection--
	}
}

func (s *Session) GoToSection(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tpl != nil && index >= 0 && index < len(s.tpl.Sections) {
		s.currentSection = index
	}
}

func (s *Session) CurrentSection() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentSection
}

// Response returns a copy of the in-memory response for one item.
func (s *Session) Response(itemID string) (DraftResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	resp, ok := s.responses[itemID]
	if !ok {
		return DraftResponse{}, false
	}
	return *resp, true
}

// Responses returns copies of all in-memory responses in template order.
func (s *Session) Responses() []DraftResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]DraftResponse, 0, len(s.itemOrder))
	for _, id := range s.itemOrder {
		if resp := s.responses[id]; resp != nil {
			out = append(out, *resp)
		}
	}
	return out
}

func (s *Session) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tpl == nil {
		return 0
	}
	return s.tpl.ItemCount()
}

func (s *Session) CompletedItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return countCompleted(s.responses)
}

// Progress is the rounded percentage of answered items.
func (s *Session) Progress() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	if s.tpl != nil {
		total = s.tpl.ItemCount()
	}
	return computeProgress(countCompleted(s.responses), total)
}

func countCompleted(responses map[string]*DraftResponse) int {
	n := 0
	for _, resp := range responses {
		if resp != nil && resp.ResponseValue != nil {
			n++
		}
	}
	return n
}

// computeProgress never divides by zero: an empty template is 0% done.
func computeProgress(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// snapshotLocked derives a private draft copy from current in-memory state.
// Callers must hold s.mu.
func (s *Session) snapshotLocked() *InspectionDraft {
	draft := &InspectionDraft{
		CurrentSectionIndex: s.currentSection,
	}
	if s.report != nil {
		draft.ReportID = s.report.ID
		draft.TemplateID = s.report.TemplateID
		draft.RecordID = s.report.RecordID
	}
	for _, id := range s.itemOrder {
		resp := s.responses[id]
		if resp == nil {
			continue
		}
		cp := *resp
		cp.Photos = append([]string(nil), resp.Photos...)
		cp.Videos = append([]string(nil), resp.Videos...)
		draft.Responses = append(draft.Responses, cp)
	}
	return draft
}

// answeredPayloadsLocked collects upsert payloads for every response with a
// non-null value, in template order. Callers must hold s.mu.
func (s *Session) answeredPayloadsLocked() []ResponsePayload {
	labels := make(map[string]template.Item)
	if s.tpl != nil {
		for _, item := range s.tpl.Items() {
			labels[item.ID] = item
		}
	}

	var payloads []ResponsePayload
	for _, id := range s.itemOrder {
		resp := s.responses[id]
		if resp == nil || resp.ResponseValue == nil {
			continue
		}
		item := labels[id]
		payloads = append(payloads, ResponsePayload{
			ReportID:       s.report.ID,
			TemplateItemID: id,
			ItemLabel:      item.Label,
			ItemType:       item.ItemType,
			ResponseValue:  resp.ResponseValue,
			Severity:       resp.Severity,
			Notes:          resp.Notes,
		})
	}
	return payloads
}

func (s *Session) setState(state SessionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Session) fail(fallback SessionState, err error) {
	s.mu.Lock()
	s.lastErr = err
	s.state = fallback
	s.mu.Unlock()
}

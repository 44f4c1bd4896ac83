package client

import (
	"time"

	"sitecheck/internal/domain/report"
	"sitecheck/internal/domain/template"
)

// MergeStrategy decides which side's value wins when local and server both
// hold non-null, unequal values for the same field.
type MergeStrategy string

const (
	// StrategyNewestWins compares the local field edit time against the
	// server's updated_at; the later write wins. Ties and missing local
	// timestamps default to server.
	StrategyNewestWins MergeStrategy = "newest-wins"
	StrategyLocalWins  MergeStrategy = "local-wins"
	StrategyServerWins MergeStrategy = "server-wins"
)

// Comparable field names reported in win lists and conflict reports.
const (
	FieldResponseValue = "response_value"
	FieldSeverity      = "severity"
	FieldNotes         = "notes"
)

// MergedResponse is the reconciled answer for one template item, with
// provenance metadata for conflict review and summary reporting. It is
// transient: merge output feeds the in-memory session, never storage.
type MergedResponse struct {
	TemplateItemID string
	ItemLabel      string
	ItemType       string
	ResponseValue  *string
	Severity       *report.Severity
	Notes          *string
	Photos         []string
	Videos         []string

	// HadConflicts is true iff at least one field held non-null, unequal
	// values on both sides. Null-vs-value differences do not count.
	HadConflicts bool
	LocalWins    []string
	ServerWins   []string
}

// FieldConflict describes one field where both sides hold non-null,
// unequal values.
type FieldConflict struct {
	Field       string  `json:"field"`
	LocalValue  *string `json:"local_value"`
	ServerValue *string `json:"server_value"`
}

// ConflictReport lists the conflicting fields of one item, independent of
// whatever merge strategy is later applied.
type ConflictReport struct {
	TemplateItemID string          `json:"template_item_id"`
	ItemLabel      string          `json:"item_label"`
	Fields         []FieldConflict `json:"fields"`
}

// MergeSummary aggregates a whole-report merge. ConflictCount counts items
// that had at least one conflicting field; the win counts tally individual
// fields attributed to each side.
type MergeSummary struct {
	Merged         []MergedResponse
	ConflictCount  int
	LocalWinCount  int
	ServerWinCount int
}

const (
	sideNone = iota
	sideLocal
	sideServer
)

// pickSide resolves one comparable field. It returns which side's value to
// use and whether the fields genuinely conflicted. Null never beats a
// populated value, and a null-vs-value difference is not a conflict.
func pickSide(localVal, serverVal *string, localNewer bool, strategy MergeStrategy) (side int, conflict bool) {
	switch {
	case localVal == nil && serverVal == nil:
		return sideNone, false
	case localVal == nil:
		return sideServer, false
	case serverVal == nil:
		return sideLocal, false
	case *localVal == *serverVal:
		return sideLocal, false
	}

	switch strategy {
	case StrategyLocalWins:
		return sideLocal, true
	case StrategyServerWins:
		return sideServer, true
	default:
		if localNewer {
			return sideLocal, true
		}
		return sideServer, true
	}
}

// localIsNewer implements the newest-wins tie-break: a missing local edit
// time loses, and only a strictly later local timestamp beats the server.
// Zero (unparseable) timestamps order before any valid timestamp, so a
// decision is always produced.
func localIsNewer(local *DraftResponse, server *report.Response) bool {
	if local == nil || local.FieldUpdatedAt == nil {
		return false
	}
	if server == nil {
		return true
	}
	return local.FieldUpdatedAt.After(server.UpdatedAt)
}

func severityStr(s *report.Severity) *string {
	if s == nil {
		return nil
	}
	v := string(*s)
	return &v
}

// MergeResponse reconciles one local draft response against one server
// response under the given strategy. Either side may be nil; a lone side's
// values pass through verbatim with no conflict. Photos and videos are
// local-only and always pass through from the draft. The function is pure:
// no I/O, no errors.
func MergeResponse(local *DraftResponse, server *report.Response, itemLabel, itemType string, strategy MergeStrategy) MergedResponse {
	merged := MergedResponse{
		ItemLabel: itemLabel,
		ItemType:  itemType,
	}

	switch {
	case local == nil && server == nil:
		return merged
	case server == nil:
		merged.TemplateItemID = local.TemplateItemID
		merged.ResponseValue = local.ResponseValue
		merged.Severity = local.Severity
		merged.Notes = local.Notes
		merged.Photos = local.Photos
		merged.Videos = local.Videos
		return merged
	case local == nil:
		merged.TemplateItemID = server.TemplateItemID
		merged.ResponseValue = server.ResponseValue
		merged.Severity = server.Severity
		merged.Notes = server.Notes
		return merged
	}

	merged.TemplateItemID = local.TemplateItemID
	merged.Photos = local.Photos
	merged.Videos = local.Videos
	localNewer := localIsNewer(local, server)

	record := func(field string, side int, conflict bool) {
		if !conflict {
			return
		}
		merged.HadConflicts = true
		if side == sideLocal {
			merged.LocalWins = append(merged.LocalWins, field)
		} else {
			merged.ServerWins = append(merged.ServerWins, field)
		}
	}

	side, conflict := pickSide(local.ResponseValue, server.ResponseValue, localNewer, strategy)
	if side == sideLocal {
		merged.ResponseValue = local.ResponseValue
	} else if side == sideServer {
		merged.ResponseValue = server.ResponseValue
	}
	record(FieldResponseValue, side, conflict)

	side, conflict = pickSide(severityStr(local.Severity), severityStr(server.Severity), localNewer, strategy)
	if side == sideLocal {
		merged.Severity = local.Severity
	} else if side == sideServer {
		merged.Severity = server.Severity
	}
	record(FieldSeverity, side, conflict)

	side, conflict = pickSide(local.Notes, server.Notes, localNewer, strategy)
	if side == sideLocal {
		merged.Notes = local.Notes
	} else if side == sideServer {
		merged.Notes = server.Notes
	}
	record(FieldNotes, side, conflict)

	return merged
}

// DetectConflicts reports the fields where local and server genuinely
// disagree, without resolving them. Returns nil when there is nothing to
// review: a side entirely absent, all fields equal, or differences only
// where one side is null.
func DetectConflicts(local *DraftResponse, server *report.Response, itemLabel string) *ConflictReport {
	if local == nil || server == nil {
		return nil
	}

	check := func(field string, localVal, serverVal *string) *FieldConflict {
		if localVal == nil || serverVal == nil || *localVal == *serverVal {
			return nil
		}
		return &FieldConflict{Field: field, LocalValue: localVal, ServerValue: serverVal}
	}

	var fields []FieldConflict
	if c := check(FieldResponseValue, local.ResponseValue, server.ResponseValue); c != nil {
		fields = append(fields, *c)
	}
	if c := check(FieldSeverity, severityStr(local.Severity), severityStr(server.Severity)); c != nil {
		fields = append(fields, *c)
	}
	if c := check(FieldNotes, local.Notes, server.Notes); c != nil {
		fields = append(fields, *c)
	}

	if len(fields) == 0 {
		return nil
	}

	return &ConflictReport{
		TemplateItemID: local.TemplateItemID,
		ItemLabel:      itemLabel,
		Fields:         fields,
	}
}

// MergeAllResponses drives MergeResponse across every template item, in
// template order, so the output matches the form layout rather than the
// arrival order of either input. Items absent from both sides merge to
// all-null responses with no conflict.
func MergeAllResponses(locals []DraftResponse, servers []report.Response, items []template.Item, strategy MergeStrategy) MergeSummary {
	localByItem := make(map[string]*DraftResponse, len(locals))
	for i := range locals {
		localByItem[locals[i].TemplateItemID] = &locals[i]
	}
	serverByItem := make(map[string]*report.Response, len(servers))
	for i := range servers {
		serverByItem[servers[i].TemplateItemID] = &servers[i]
	}

	summary := MergeSummary{Merged: make([]MergedResponse, 0, len(items))}
	for _, item := range items {
		merged := MergeResponse(localByItem[item.ID], serverByItem[item.ID], item.Label, item.ItemType, strategy)
		merged.TemplateItemID = item.ID

		if merged.HadConflicts {
			summary.ConflictCount++
		}
		summary.LocalWinCount += len(merged.LocalWins)
		summary.ServerWinCount += len(merged.ServerWins)
		summary.Merged = append(summary.Merged, merged)
	}

	return summary
}

// parseTimestamp converts a stored RFC3339 string into a merge-comparable
// time. Malformed values come back as the zero time, which orders before
// any valid timestamp.
func parseTimestamp(s string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return ts
}

package presence

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/mcoot/sharedlist-go/internal/dependencies/clock"
	"github.com/mcoot/sharedlist-go/internal/model"
	"github.com/mcoot/sharedlist-go/internal/storage"
)

const (
	// OnlineThreshold is the maximum heartbeat age for an Online participant
	OnlineThreshold = 2 * time.Minute
	// OfflineThreshold is the heartbeat age at which a participant is Offline
	OfflineThreshold = 5 * time.Minute
	// HeartbeatInterval is how often a foreground participant refreshes
	// its presence record
	HeartbeatInterval = 30 * time.Second
	// RosterHorizon bounds the administrative roster: participants not
	// seen within it are omitted entirely rather than shown Offline
	RosterHorizon = 24 * time.Hour
)

// ResolveStatus classifies a participant from heartbeat age alone. It is a
// pure function recomputed on every read; status is never stored.
// A record with no heartbeat at all is Offline rather than an error.
func ResolveStatus(nowMillis, lastSeenMillis int64) model.PresenceStatus {
	if lastSeenMillis <= 0 {
		return model.StatusOffline
	}
	delta := nowMillis - lastSeenMillis
	switch {
	case delta < OnlineThreshold.Milliseconds():
		return model.StatusOnline
	case delta < OfflineThreshold.Milliseconds():
		return model.StatusInactive
	default:
		return model.StatusOffline
	}
}

// Service maintains and interprets participant liveness for shared lists
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger

	// Guards against re-entrant setup starting two heartbeat loops for
	// the same participant on the same list
	loopMu sync.Mutex
	loops  map[loopKey]struct{}
}

type loopKey struct {
	listID model.ListID
	handle model.ParticipantHandle
}

// New creates a new presence Service
func New(store storage.Storage, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		clock:   clk,
		logger:  logger.With(slog.String("component", "presence")),
		loops:   make(map[loopKey]struct{}),
	}
}

// Heartbeat writes the participant's own presence record with a fresh
// server-assigned LastSeenAt. It is idempotent: records are keyed by
// handle, so a double-fire just refreshes the same record with the later
// timestamp winning.
func (s *Service) Heartbeat(ctx context.Context, p model.Presence) error {
	now, err := s.storage.ServerNow(ctx)
	if err != nil {
		return err
	}
	p.LastSeenAt = now
	return s.storage.SavePresence(ctx, &p)
}

// MarkAway is the visibility-loss / unload write: a final "seen just now"
// record with transient edit state cleared. The record is never deleted;
// liveness is always inferred from age, because an unload write is not
// guaranteed to happen at all.
func (s *Service) MarkAway(ctx context.Context, p model.Presence) error {
	p.IsTyping = false
	p.EditingTodo = nil
	return s.Heartbeat(ctx, p)
}

// RunHeartbeat beats immediately and then every HeartbeatInterval until
// ctx is canceled, writing a final away record on the way out. Heartbeat
// write failures are logged and otherwise swallowed; the next scheduled
// beat is the only retry.
func (s *Service) RunHeartbeat(ctx context.Context, p model.Presence) {
	key := loopKey{listID: p.ListID, handle: p.Handle}

	s.loopMu.Lock()
	if _, running := s.loops[key]; running {
		s.loopMu.Unlock()
		return
	}
	s.loops[key] = struct{}{}
	s.loopMu.Unlock()

	defer func() {
		s.loopMu.Lock()
		delete(s.loops, key)
		s.loopMu.Unlock()
	}()

	beat := func() {
		if err := s.Heartbeat(ctx, p); err != nil {
			s.logger.Warn("heartbeat write failed",
				slog.String("list", string(p.ListID)),
				slog.String("handle", string(p.Handle)),
				slog.Any("error", err))
		}
	}
	beat()

	ticker := time.NewTicker(HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			beat()
		case <-ctx.Done():
			// Best-effort final write on a fresh context; the parent
			// context is already dead
			awayCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.MarkAway(awayCtx, p); err != nil {
				s.logger.Warn("away write failed", slog.Any("error", err))
			}
			return
		}
	}
}

// Snapshot returns the reconciled presence list right now
func (s *Service) Snapshot(ctx context.Context, listID model.ListID, self model.ParticipantHandle) ([]model.PresenceView, error) {
	records, err := s.storage.ListPresence(ctx, listID)
	if err != nil {
		return nil, err
	}
	return s.reconcile(records, self), nil
}

// Roster returns the reconciled presence list restricted to participants
// seen within RosterHorizon
func (s *Service) Roster(ctx context.Context, listID model.ListID, self model.ParticipantHandle) ([]model.PresenceView, error) {
	views, err := s.Snapshot(ctx, listID, self)
	if err != nil {
		return nil, err
	}
	return FilterActive(views, RosterHorizon, s.clock.NowMillis()), nil
}

// Observe streams reconciled presence snapshots: one immediately, then one
// on every store push, until ctx is canceled.
func (s *Service) Observe(ctx context.Context, listID model.ListID, self model.ParticipantHandle) (<-chan []model.PresenceView, error) {
	events, err := s.storage.Watch(ctx, listID, storage.ScopePresence)
	if err != nil {
		return nil, err
	}

	out := make(chan []model.PresenceView, 1)

	initial, err := s.Snapshot(ctx, listID, self)
	if err != nil {
		return nil, err
	}
	out <- initial

	go func() {
		defer close(out)
		for {
			select {
			case _, ok := <-events:
				if !ok {
					return
				}
				snapshot, err := s.Snapshot(ctx, listID, self)
				if err != nil {
					s.logger.Warn("presence reconcile failed",
						slog.String("list", string(listID)),
						slog.Any("error", err))
					continue
				}
				select {
				case out <- snapshot:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

// FilterActive keeps only participants seen within the given horizon.
// "Active" is view-specific: the main view uses the online threshold, the
// administrative roster a 24 hour horizon.
func FilterActive(views []model.PresenceView, within time.Duration, nowMillis int64) []model.PresenceView {
	var active []model.PresenceView
	for _, v := range views {
		if v.LastSeenAt > 0 && nowMillis-v.LastSeenAt < within.Milliseconds() {
			active = append(active, v)
		}
	}
	return active
}

// reconcile maps raw records to views: compute status, sort self-first
// then by status then most-recently-seen, and assign descending stack
// indexes for rendering.
func (s *Service) reconcile(records []*model.Presence, self model.ParticipantHandle) []model.PresenceView {
	now := s.clock.NowMillis()

	views := make([]model.PresenceView, 0, len(records))
	for _, r := range records {
		views = append(views, model.PresenceView{
			Presence: *r,
			Status:   ResolveStatus(now, r.LastSeenAt),
			IsSelf:   r.Handle == self,
		})
	}

	sort.SliceStable(views, func(i, j int) bool {
		if views[i].IsSelf != views[j].IsSelf {
			return views[i].IsSelf
		}
		ri, rj := statusRank(views[i].Status), statusRank(views[j].Status)
		if ri != rj {
			return ri < rj
		}
		return views[i].LastSeenAt > views[j].LastSeenAt
	})

	for i := range views {
		views[i].StackIndex = len(views) - 1 - i
	}
	return views
}

func statusRank(s model.PresenceStatus) int {
	switch s {
	case model.StatusOnline:
		return 0
	case model.StatusInactive:
		return 1
	default:
		return 2
	}
}

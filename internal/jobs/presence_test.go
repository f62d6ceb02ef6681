package jobs

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thereayou/voxus/internal/services"
)

type fakeReconciler struct {
	mu        sync.Mutex
	connected map[uint]bool
	calls     int
	err       error
}

func newFakeReconciler(connected ...uint) *fakeReconciler {
	f := &fakeReconciler{connected: make(map[uint]bool)}
	for _, id := range connected {
		f.connected[id] = true
	}
	return f
}

func (f *fakeReconciler) ReconcileConnections(ctx context.Context, live services.LiveConnections) (*services.Reconciled, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	res := &services.Reconciled{}
	for _, id := range sortedIDs(f.connected) {
		if !live.IsUserConnected(id) {
			delete(f.connected, id)
			res.Offline = append(res.Offline, id)
		}
	}
	for _, id := range live.ConnectedUserIDs() {
		if !f.connected[id] {
			f.connected[id] = true
			res.Online = append(res.Online, id)
		}
	}
	return res, f.err
}

func (f *fakeReconciler) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func sortedIDs(set map[uint]bool) []uint {
	ids := make([]uint, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

type livePresence struct {
	users []uint
	mu    sync.Mutex
}

func (p *livePresence) IsUserConnected(userID uint) bool {
	for _, id := range p.users {
		if id == userID {
			return true
		}
	}
	return false
}

func (p *livePresence) ConnectedUserIDs() []uint { return p.users }

func (p *livePresence) LockUser(uint) func() {
	p.mu.Lock()
	return p.mu.Unlock
}

type announcement struct {
	userID uint
	online bool
}

type recordingAnnouncer struct {
	mu   sync.Mutex
	seen []announcement
}

func (r *recordingAnnouncer) AnnouncePresence(_ context.Context, userID uint, online bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, announcement{userID: userID, online: online})
}

func TestPresenceJobRun(t *testing.T) {
	reconciler := newFakeReconciler(1, 2, 3)
	announcer := &recordingAnnouncer{}
	job := NewPresenceJob(reconciler, &livePresence{users: []uint{2, 4}}, announcer)

	job.Run(context.Background())

	assert.Equal(t, map[uint]bool{2: true, 4: true}, reconciler.connected)
	assert.Equal(t, []announcement{{1, false}, {3, false}, {4, true}}, announcer.seen)

	job.Run(context.Background())
	assert.Len(t, announcer.seen, 3, "a second pass has nothing to fix")
}

func TestPresenceJobAnnouncesPartialFixOnError(t *testing.T) {
	reconciler := newFakeReconciler(7)
	reconciler.err = errors.New("db gone")
	announcer := &recordingAnnouncer{}

	NewPresenceJob(reconciler, &livePresence{}, announcer).Run(context.Background())

	assert.Equal(t, []announcement{{7, false}}, announcer.seen)
}

func TestPresenceJobStart(t *testing.T) {
	reconciler := newFakeReconciler()
	job := NewPresenceJob(reconciler, &livePresence{}, nil)

	s, err := job.Start(context.Background(), 20*time.Millisecond)
	require.NoError(t, err)
	defer s.Stop()

	assert.Eventually(t, func() bool { return reconciler.callCount() >= 2 }, 2*time.Second, 10*time.Millisecond)
}

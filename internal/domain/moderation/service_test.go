package moderation

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwork/relay-api/internal/domain/chat"
	"github.com/mwork/relay-api/internal/domain/user"
	"github.com/mwork/relay-api/internal/pkg/apperr"
)

var fixedNow = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

// memStore backs reports, messages, accounts and the transactor.
type memStore struct {
	reports  map[uuid.UUID]*Report
	messages map[uuid.UUID]*chat.Message
	users    map[uuid.UUID]*user.User
	blockErr error
}

func newMemStore() *memStore {
	return &memStore{
		reports:  map[uuid.UUID]*Report{},
		messages: map[uuid.UUID]*chat.Message{},
		users:    map[uuid.UUID]*user.User{},
	}
}

func (m *memStore) addUser(name string, role user.Role) uuid.UUID {
	id := uuid.New()
	m.users[id] = &user.User{ID: id, Username: name, Role: role}
	return id
}

func (m *memStore) addMessage(sender uuid.UUID, content string) uuid.UUID {
	id := uuid.New()
	m.messages[id] = &chat.Message{ID: id, ChatID: uuid.New(), SenderID: sender, Content: content, CreatedAt: fixedNow}
	return id
}

func (m *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	reports := make(map[uuid.UUID]*Report, len(m.reports))
	for k, v := range m.reports {
		cp := *v
		reports[k] = &cp
	}
	users := make(map[uuid.UUID]*user.User, len(m.users))
	for k, v := range m.users {
		cp := *v
		users[k] = &cp
	}
	if err := fn(ctx); err != nil {
		m.reports, m.users = reports, users
		return err
	}
	return nil
}

func (m *memStore) Create(ctx context.Context, r *Report) error {
	cp := *r
	m.reports[r.ID] = &cp
	return nil
}

func (m *memStore) GetByID(ctx context.Context, id uuid.UUID) (*Report, error) {
	r, ok := m.reports[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (m *memStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*Report, error) {
	return m.GetByID(ctx, id)
}

func (m *memStore) Resolve(ctx context.Context, id uuid.UUID, status Status, decision string, adminID uuid.UUID, at time.Time) (bool, error) {
	r, ok := m.reports[id]
	if !ok || !r.IsPending() {
		return false, nil
	}
	r.Status = status
	r.AdminDecision.String, r.AdminDecision.Valid = decision, true
	r.ResolvedBy = uuid.NullUUID{UUID: adminID, Valid: true}
	r.ResolvedAt.Time, r.ResolvedAt.Valid = at, true
	return true, nil
}

func (m *memStore) view(r *Report) *ReportView {
	msg := m.messages[r.MessageID]
	return &ReportView{
		Report:           *r,
		ReporterName:     m.users[r.ReporterID].Username,
		ReportedUserID:   msg.SenderID,
		ReportedUsername: m.users[msg.SenderID].Username,
		MessageContent:   msg.Content,
		MessageDeleted:   msg.IsDeleted,
	}
}

func (m *memStore) list(keep func(*Report) bool) []*ReportView {
	out := []*ReportView{}
	for _, r := range m.reports {
		if keep(r) {
			out = append(out, m.view(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memStore) ListPending(ctx context.Context) ([]*ReportView, error) {
	return m.list(func(r *Report) bool { return r.IsPending() }), nil
}

func (m *memStore) ListByReporter(ctx context.Context, reporterID uuid.UUID) ([]*ReportView, error) {
	return m.list(func(r *Report) bool { return r.ReporterID == reporterID }), nil
}

func (m *memStore) FindMessage(ctx context.Context, id uuid.UUID) (*chat.Message, error) {
	msg, ok := m.messages[id]
	if !ok {
		return nil, chat.ErrMessageNotFound
	}
	cp := *msg
	return &cp, nil
}

func (m *memStore) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (m *memStore) SetBlockState(ctx context.Context, id uuid.UUID, state user.BlockState) error {
	if m.blockErr != nil {
		return m.blockErr
	}
	u, ok := m.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.IsBlocked = state.Blocked
	u.BlockedUntil.Valid = state.Until != nil
	if state.Until != nil {
		u.BlockedUntil.Time = *state.Until
	} else {
		u.BlockedUntil.Time = time.Time{}
	}
	return nil
}

type fakeSessions struct {
	blocked map[uuid.UUID]user.BlockState
}

func (f *fakeSessions) MarkBlocked(ctx context.Context, id uuid.UUID, state user.BlockState) error {
	f.blocked[id] = state
	return nil
}

func (f *fakeSessions) ClearBlocked(ctx context.Context, id uuid.UUID) error {
	delete(f.blocked, id)
	return nil
}

type fakeArchive struct {
	objects map[string][]byte
	err     error
}

func (f *fakeArchive) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	if f.err != nil {
		return f.err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

type fixture struct {
	svc      *Service
	store    *memStore
	sessions *fakeSessions
	archive  *fakeArchive
	admin    user.Principal
}

func newFixture() *fixture {
	m := newMemStore()
	sessions := &fakeSessions{blocked: map[uuid.UUID]user.BlockState{}}
	archive := &fakeArchive{objects: map[string][]byte{}}
	svc := NewService(m, m, m, m, sessions, archive)
	svc.now = func() time.Time { return fixedNow }

	root := m.addUser("root", user.RoleAdmin)
	return &fixture{
		svc:      svc,
		store:    m,
		sessions: sessions,
		archive:  archive,
		admin:    user.Principal{ID: root, Role: user.RoleAdmin},
	}
}

func (f *fixture) fileReport(t *testing.T, reporter, sender uuid.UUID) *Report {
	t.Helper()
	msgID := f.store.addMessage(sender, "buy cheap stuff")
	report, err := f.svc.File(context.Background(), msgID, reporter, "spam")
	require.NoError(t, err)
	return report
}

func TestPermanentBlockScenario(t *testing.T) {
	f := newFixture()
	alice := f.store.addUser("alice", user.RoleUser)
	carol := f.store.addUser("carol", user.RoleUser)

	report := f.fileReport(t, alice, carol)

	resolved, err := f.svc.Resolve(context.Background(), f.admin, report.ID, DecisionBlockPermanent, 0)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, resolved.Status)
	assert.Equal(t, "blocked permanently", resolved.AdminDecision.String)
	assert.Equal(t, f.admin.ID, resolved.ResolvedBy.UUID)

	state := f.store.users[carol].BlockState()
	assert.True(t, state.Blocked)
	assert.Nil(t, state.Until)
	assert.True(t, f.store.users[carol].IsCurrentlyBlocked(fixedNow.AddDate(10, 0, 0)))
	assert.False(t, f.store.users[alice].IsBlocked)

	assert.Contains(t, f.sessions.blocked, carol)
	require.Len(t, f.archive.objects, 1)
	data := f.archive.objects["moderation/reports/2026/05/"+report.ID.String()+".json"]
	var rec map[string]any
	require.NoError(t, json.Unmarshal(data, &rec))
	assert.Equal(t, "APPROVED", rec["status"])
	assert.Equal(t, carol.String(), rec["target_id"])
}

func TestTemporaryBlockTargetsSenderNotReporter(t *testing.T) {
	f := newFixture()
	alice := f.store.addUser("alice", user.RoleUser)
	carol := f.store.addUser("carol", user.RoleUser)
	report := f.fileReport(t, alice, carol)

	resolved, err := f.svc.Resolve(context.Background(), f.admin, report.ID, DecisionBlockTemporary, 7)
	require.NoError(t, err)
	assert.Equal(t, "blocked for 7 days", resolved.AdminDecision.String)

	sender := f.store.users[carol]
	assert.True(t, sender.IsBlocked)
	require.True(t, sender.BlockedUntil.Valid)
	assert.WithinDuration(t, fixedNow.Add(7*24*time.Hour), sender.BlockedUntil.Time, time.Second)

	reporter := f.store.users[alice]
	assert.False(t, reporter.IsBlocked)
	assert.False(t, reporter.BlockedUntil.Valid)
}

func TestDismissNeverMutatesAccounts(t *testing.T) {
	f := newFixture()
	alice := f.store.addUser("alice", user.RoleUser)
	carol := f.store.addUser("carol", user.RoleUser)
	until := fixedNow.Add(time.Hour)
	f.store.users[carol].IsBlocked = true
	f.store.users[carol].BlockedUntil.Time, f.store.users[carol].BlockedUntil.Valid = until, true

	report := f.fileReport(t, alice, carol)
	before := map[uuid.UUID]user.User{}
	for id, u := range f.store.users {
		before[id] = *u
	}

	resolved, err := f.svc.Resolve(context.Background(), f.admin, report.ID, DecisionDismiss, 30)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, resolved.Status)
	assert.Equal(t, "dismissed", resolved.AdminDecision.String)

	for id, u := range f.store.users {
		assert.Equal(t, before[id], *u)
	}
	assert.Empty(t, f.sessions.blocked)
}

func TestResolveTwiceIsInvalidState(t *testing.T) {
	f := newFixture()
	alice := f.store.addUser("alice", user.RoleUser)
	carol := f.store.addUser("carol", user.RoleUser)
	report := f.fileReport(t, alice, carol)

	_, err := f.svc.Resolve(context.Background(), f.admin, report.ID, DecisionDismiss, 0)
	require.NoError(t, err)

	_, err = f.svc.Resolve(context.Background(), f.admin, report.ID, DecisionBlockPermanent, 0)
	assert.True(t, errors.Is(err, ErrReportNotPending))
	assert.True(t, errors.Is(err, apperr.ErrInvalidState))
	assert.False(t, f.store.users[carol].IsBlocked)

	_, err = f.svc.Resolve(context.Background(), f.admin, uuid.New(), DecisionDismiss, 0)
	assert.True(t, errors.Is(err, ErrReportNotFound))
}

func TestResolveRequiresAdmin(t *testing.T) {
	f := newFixture()
	alice := f.store.addUser("alice", user.RoleUser)
	carol := f.store.addUser("carol", user.RoleUser)
	report := f.fileReport(t, alice, carol)

	_, err := f.svc.Resolve(context.Background(), user.Principal{ID: alice, Role: user.RoleUser}, report.ID, DecisionBlockPermanent, 0)
	assert.True(t, errors.Is(err, apperr.ErrForbidden))
	assert.Equal(t, StatusPending, f.store.reports[report.ID].Status)

	_, err = f.svc.ListPending(context.Background(), user.Principal{ID: alice, Role: user.RoleUser})
	assert.True(t, errors.Is(err, ErrAdminOnly))

	err = f.svc.Unblock(context.Background(), user.Principal{ID: alice, Role: user.RoleUser}, carol)
	assert.True(t, errors.Is(err, ErrAdminOnly))
}

func TestTemporaryBlockRequiresDays(t *testing.T) {
	f := newFixture()
	alice := f.store.addUser("alice", user.RoleUser)
	carol := f.store.addUser("carol", user.RoleUser)
	report := f.fileReport(t, alice, carol)

	_, err := f.svc.Resolve(context.Background(), f.admin, report.ID, DecisionBlockTemporary, 0)
	assert.True(t, errors.Is(err, ErrInvalidDays))
	assert.Equal(t, StatusPending, f.store.reports[report.ID].Status)
}

func TestResolveRollsBackWhenBlockFails(t *testing.T) {
	f := newFixture()
	alice := f.store.addUser("alice", user.RoleUser)
	carol := f.store.addUser("carol", user.RoleUser)
	report := f.fileReport(t, alice, carol)
	f.store.blockErr = apperr.Persistence("user set block state", errors.New("connection reset"))

	_, err := f.svc.Resolve(context.Background(), f.admin, report.ID, DecisionBlockPermanent, 0)
	assert.True(t, errors.Is(err, apperr.ErrPersistence))

	stored := f.store.reports[report.ID]
	assert.Equal(t, StatusPending, stored.Status)
	assert.False(t, stored.AdminDecision.Valid)
	assert.Empty(t, f.sessions.blocked)
	assert.Empty(t, f.archive.objects)
}

func TestApprovalFailsWhenSenderMissing(t *testing.T) {
	f := newFixture()
	alice := f.store.addUser("alice", user.RoleUser)
	carol := f.store.addUser("carol", user.RoleUser)
	report := f.fileReport(t, alice, carol)
	delete(f.store.users, carol)

	_, err := f.svc.Resolve(context.Background(), f.admin, report.ID, DecisionBlockTemporary, 3)
	assert.True(t, errors.Is(err, ErrReportedAccountMissing))
	assert.Equal(t, StatusPending, f.store.reports[report.ID].Status)
}

func TestArchiveFailureDoesNotFailResolve(t *testing.T) {
	f := newFixture()
	alice := f.store.addUser("alice", user.RoleUser)
	carol := f.store.addUser("carol", user.RoleUser)
	report := f.fileReport(t, alice, carol)
	f.archive.err = errors.New("bucket unavailable")

	_, err := f.svc.Resolve(context.Background(), f.admin, report.ID, DecisionBlockPermanent, 0)
	require.NoError(t, err)
	assert.True(t, f.store.users[carol].IsBlocked)
}

func TestFile(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.store.addUser("alice", user.RoleUser)
	carol := f.store.addUser("carol", user.RoleUser)
	msgID := f.store.addMessage(carol, "spam spam")

	_, err := f.svc.File(ctx, msgID, carol, "spam")
	assert.True(t, errors.Is(err, ErrOwnMessage))

	_, err = f.svc.File(ctx, uuid.New(), alice, "spam")
	assert.True(t, errors.Is(err, ErrMessageNotFound))

	_, err = f.svc.File(ctx, msgID, alice, "  ")
	assert.True(t, errors.Is(err, ErrReasonRequired))

	// Deleted messages stay reportable and the same reporter may report again.
	f.store.messages[msgID].IsDeleted = true
	first, err := f.svc.File(ctx, msgID, alice, "spam")
	require.NoError(t, err)
	second, err := f.svc.File(ctx, msgID, alice, "still spam")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	pending, err := f.svc.ListPending(ctx, f.admin)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "alice", pending[0].ReporterName)
	assert.Equal(t, "carol", pending[0].ReportedUsername)
	assert.Equal(t, "spam spam", pending[0].MessageContent)
	assert.True(t, pending[0].MessageDeleted)

	mine, err := f.svc.ListMine(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestUnblock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.store.addUser("alice", user.RoleUser)
	carol := f.store.addUser("carol", user.RoleUser)
	report := f.fileReport(t, alice, carol)
	_, err := f.svc.Resolve(ctx, f.admin, report.ID, DecisionBlockPermanent, 0)
	require.NoError(t, err)

	require.NoError(t, f.svc.Unblock(ctx, f.admin, carol))
	assert.False(t, f.store.users[carol].IsBlocked)
	assert.False(t, f.store.users[carol].BlockedUntil.Valid)
	assert.NotContains(t, f.sessions.blocked, carol)

	err = f.svc.Unblock(ctx, f.admin, uuid.New())
	assert.True(t, errors.Is(err, ErrAccountNotFound))
}

func TestDecisionSummary(t *testing.T) {
	assert.Equal(t, "dismissed", DecisionDismiss.Summary(5))
	assert.Equal(t, "blocked permanently", DecisionBlockPermanent.Summary(5))
	assert.Equal(t, "blocked for 1 day", DecisionBlockTemporary.Summary(1))
	assert.Equal(t, "blocked for 14 days", DecisionBlockTemporary.Summary(14))
}

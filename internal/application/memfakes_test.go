package application

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/careerbridge/careerbridge-api/internal/domain"
	"github.com/careerbridge/careerbridge-api/internal/domain/entity"
	repo "github.com/careerbridge/careerbridge-api/internal/domain/repository"
	"github.com/careerbridge/careerbridge-api/pkg/mailer"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// fakeAccountRepo keeps accounts in memory and records every log row a
// mutating call would have persisted.
type fakeAccountRepo struct {
	mu sync.Mutex

	accounts        map[string]*entity.Account
	companyVerified map[string]bool
	logs            []*entity.AdminActionLog

	failDeleteCascade      bool
	failSetCompanyVerified bool
	failList               bool
}

func newFakeAccountRepo(accounts ...*entity.Account) *fakeAccountRepo {
	r := &fakeAccountRepo{
		accounts:        make(map[string]*entity.Account),
		companyVerified: make(map[string]bool),
	}
	for _, a := range accounts {
		cp := *a
		r.accounts[a.ID] = &cp
	}
	return r
}

func (r *fakeAccountRepo) FindByID(_ context.Context, id string) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAccountRepo) FindByEmail(_ context.Context, email string) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *fakeAccountRepo) ListActiveByRoles(_ context.Context, roles []entity.Role) ([]*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failList {
		return nil, errors.New("list failed")
	}
	want := make(map[entity.Role]bool, len(roles))
	for _, role := range roles {
		want[role] = true
	}
	var out []*entity.Account
	for _, a := range r.accounts {
		if a.IsActive && want[a.Role] {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeAccountRepo) SetActive(_ context.Context, id string, active bool, log *entity.AdminActionLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.IsActive = active
	r.logs = append(r.logs, log)
	return nil
}

func (r *fakeAccountRepo) SetVerified(_ context.Context, id string, log *entity.AdminActionLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.IsVerified = true
	r.logs = append(r.logs, log)
	return nil
}

func (r *fakeAccountRepo) UpdateRole(_ context.Context, id string, role entity.Role, log *entity.AdminActionLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.Role = role
	r.logs = append(r.logs, log)
	return nil
}

func (r *fakeAccountRepo) SetCompanyProfileVerified(_ context.Context, accountID string, verified bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSetCompanyVerified {
		return errors.New("profile sync failed")
	}
	r.companyVerified[accountID] = verified
	return nil
}

func (r *fakeAccountRepo) DeleteCascade(_ context.Context, id string, log *entity.AdminActionLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failDeleteCascade {
		return errors.New("deadlock detected")
	}
	if _, ok := r.accounts[id]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(r.accounts, id)
	r.logs = append(r.logs, log)
	return nil
}

// fakeJobRepo records cascade calls against owned postings.
type fakeJobRepo struct {
	mu sync.Mutex

	jobs          map[string][]*entity.JobPosting
	failSetActive bool
	setActiveLog  []struct {
		AccountID string
		Active    bool
	}
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[string][]*entity.JobPosting)}
}

func (r *fakeJobRepo) ListByCompanyAccount(_ context.Context, accountID string) ([]*entity.JobPosting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.jobs[accountID], nil
}

func (r *fakeJobRepo) SetActiveByCompanyAccount(_ context.Context, accountID string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSetActive {
		return errors.New("cascade write failed")
	}
	for _, j := range r.jobs[accountID] {
		j.IsActive = active
	}
	r.setActiveLog = append(r.setActiveLog, struct {
		AccountID string
		Active    bool
	}{accountID, active})
	return nil
}

// sentMessage is one recorded notification dispatch.
type sentMessage struct {
	Recipient string
	Event     string
	Payload   map[string]any
}

// fakeNotifier records dispatches in call order. failFor makes delivery to
// one recipient fail without affecting the rest.
type fakeNotifier struct {
	mu sync.Mutex

	sent     []sentMessage
	observer []sentMessage
	failFor  map[string]bool
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{failFor: make(map[string]bool)}
}

func (n *fakeNotifier) SendToRecipient(_ context.Context, accountID, event string, payload any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failFor[accountID] {
		return errors.New("connection reset")
	}
	n.sent = append(n.sent, sentMessage{Recipient: accountID, Event: event, Payload: payload.(map[string]any)})
	return nil
}

func (n *fakeNotifier) SendToAdminObservers(_ context.Context, event string, payload any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.observer = append(n.observer, sentMessage{Event: event, Payload: payload.(map[string]any)})
	return nil
}

func (n *fakeNotifier) recipientIDs() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.sent))
	for _, m := range n.sent {
		out = append(out, m.Recipient)
	}
	return out
}

type fakeEmailQueue struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
	fail bool
}

func (q *fakeEmailQueue) Enqueue(_ context.Context, job mailer.EmailJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.fail {
		return errors.New("broker unavailable")
	}
	q.jobs = append(q.jobs, job)
	return nil
}

// fakeAnalyticsRepo answers through injectable hooks; a nil hook returns zero.
type fakeAnalyticsRepo struct {
	accounts   func(f repo.AccountFilter) (int, error)
	apps       func(f repo.ApplicationFilter) (int, error)
	jobs       func(f repo.JobFilter) (int, error)
	verifiedCo func() (int, error)
	daily      func(start, end time.Time, limit int) ([]repo.DailyRow, error)
	ping       func(ctx context.Context) error
}

func (r *fakeAnalyticsRepo) CountAccounts(_ context.Context, f repo.AccountFilter) (int, error) {
	if r.accounts == nil {
		return 0, nil
	}
	return r.accounts(f)
}

func (r *fakeAnalyticsRepo) CountApplications(_ context.Context, f repo.ApplicationFilter) (int, error) {
	if r.apps == nil {
		return 0, nil
	}
	return r.apps(f)
}

func (r *fakeAnalyticsRepo) CountJobPostings(_ context.Context, f repo.JobFilter) (int, error) {
	if r.jobs == nil {
		return 0, nil
	}
	return r.jobs(f)
}

func (r *fakeAnalyticsRepo) CountVerifiedCompanies(context.Context) (int, error) {
	if r.verifiedCo == nil {
		return 0, nil
	}
	return r.verifiedCo()
}

func (r *fakeAnalyticsRepo) QueryDailyApplicationJoin(_ context.Context, start, end time.Time, limit int) ([]repo.DailyRow, error) {
	if r.daily == nil {
		return nil, nil
	}
	return r.daily(start, end, limit)
}

func (r *fakeAnalyticsRepo) Ping(ctx context.Context) error {
	if r.ping == nil {
		return nil
	}
	return r.ping(ctx)
}

type fakeMetricsSource struct {
	snap SystemSnapshot
	err  error
}

func (m *fakeMetricsSource) Snapshot(context.Context) (SystemSnapshot, error) {
	return m.snap, m.err
}

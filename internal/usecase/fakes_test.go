package usecase

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"go-clinic-booking/internal/domain/entity"
	"go-clinic-booking/internal/domain/repository"
	"go-clinic-booking/pkg/metrics"
	"go-clinic-booking/pkg/uhid"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestMetrics() *metrics.Collector {
	return metrics.NewCollector("test", prometheus.NewRegistry())
}

type fakePatientRepo struct {
	mu      sync.Mutex
	rows    map[int64]*entity.Patient
	nextID  int64
	queries int

	createErr error
	updateErr error
	findErr   error
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{rows: map[int64]*entity.Patient{}}
}

func (r *fakePatientRepo) Create(ctx context.Context, p *entity.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	p.ID = r.nextID
	cp := *p
	r.rows[p.ID] = &cp
	return nil
}

func (r *fakePatientRepo) UpdateDemographics(ctx context.Context, p *entity.Patient) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return 0, r.updateErr
	}
	row, ok := r.rows[p.ID]
	if !ok || row.UHID != p.UHID {
		return 0, nil
	}
	row.ApplyDemographics(p)
	return 1, nil
}

func (r *fakePatientRepo) FindByID(ctx context.Context, id int64) (*entity.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries++
	if r.findErr != nil {
		return nil, r.findErr
	}
	if row, ok := r.rows[id]; ok {
		cp := *row
		return &cp, nil
	}
	return nil, nil
}

func (r *fakePatientRepo) FindByUHID(ctx context.Context, value string) (*entity.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries++
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, row := range r.rows {
		if row.UHID == value {
			cp := *row
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakePatientRepo) FindByUHIDPredicate(ctx context.Context, pred uhid.Predicate) ([]entity.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries++
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []entity.Patient
	for _, row := range r.sorted() {
		switch pred.Kind {
		case uhid.MatchSuffix:
			if len(row.UHID) >= len(pred.Value) && row.UHID[len(row.UHID)-len(pred.Value):] == pred.Value {
				out = append(out, *row)
			}
		default:
			if row.UHID == pred.Value {
				out = append(out, *row)
			}
		}
	}
	return out, nil
}

func (r *fakePatientRepo) FindByPhone(ctx context.Context, phone string) ([]entity.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries++
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []entity.Patient
	for _, row := range r.sorted() {
		if row.PhoneNumber == phone {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (r *fakePatientRepo) sorted() []*entity.Patient {
	rows := make([]*entity.Patient, 0, len(r.rows))
	for _, row := range r.rows {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows
}

func (r *fakePatientRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type fakeAppointmentRepo struct {
	mu        sync.Mutex
	oncall    map[int64]*entity.OnCallAppointment
	scheduled map[int64]*entity.ScheduledAppointment
	nextID    int64
	nextBill  int64
	updates   int

	createErr error
	totals    *repository.ScheduledTotals
	sumErr    error
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{
		oncall:    map[int64]*entity.OnCallAppointment{},
		scheduled: map[int64]*entity.ScheduledAppointment{},
		nextBill:  1000,
	}
}

func (r *fakeAppointmentRepo) CreateOnCall(ctx context.Context, a *entity.OnCallAppointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	a.ID = r.nextID
	cp := *a
	r.oncall[a.ID] = &cp
	return nil
}

func (r *fakeAppointmentRepo) CreateScheduled(ctx context.Context, a *entity.ScheduledAppointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	a.ID = r.nextID
	a.BillNumber = r.nextBill
	r.nextBill++
	for i := range a.ServiceLines {
		a.ServiceLines[i].Position = i + 1
		a.ServiceLines[i].AppointmentID = a.ID
	}
	cp := *a
	r.scheduled[a.ID] = &cp
	return nil
}

func (r *fakeAppointmentRepo) FindOnCallByID(ctx context.Context, id int64) (*entity.OnCallAppointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.oncall[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeAppointmentRepo) FindScheduledByID(ctx context.Context, id int64) (*entity.ScheduledAppointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.scheduled[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeAppointmentRepo) UpdateOnCall(ctx context.Context, a *entity.OnCallAppointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates++
	cp := *a
	r.oncall[a.ID] = &cp
	return nil
}

func (r *fakeAppointmentRepo) ReplaceScheduled(ctx context.Context, a *entity.ScheduledAppointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates++
	cp := *a
	r.scheduled[a.ID] = &cp
	return nil
}

func (r *fakeAppointmentRepo) SumScheduledCreatedOn(ctx context.Context, date time.Time) (*repository.ScheduledTotals, error) {
	if r.sumErr != nil {
		return nil, r.sumErr
	}
	if r.totals != nil {
		return r.totals, nil
	}
	return &repository.ScheduledTotals{}, nil
}

func (r *fakeAppointmentRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.oncall) + len(r.scheduled)
}

type fakeDoctorRepo struct {
	names map[uuid.UUID]string
}

func (r *fakeDoctorRepo) FindByUserID(ctx context.Context, id uuid.UUID) (*entity.DoctorProfile, error) {
	return nil, nil
}

func (r *fakeDoctorRepo) FindAll(ctx context.Context) ([]entity.DoctorProfile, error) {
	return nil, nil
}

func (r *fakeDoctorRepo) FindDisplayName(ctx context.Context, id uuid.UUID) (string, error) {
	return r.names[id], nil
}

type fakeAllocator struct {
	mu    sync.Mutex
	next  int64
	err   error
	calls int
}

func (a *fakeAllocator) AllocateNext(ctx context.Context) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	if a.err != nil {
		return 0, a.err
	}
	a.next++
	return a.next, nil
}

type ledgerCall struct {
	date  time.Time
	delta entity.SummaryDelta
}

type fakeLedger struct {
	mu    sync.Mutex
	calls []ledgerCall
	err   error
}

func (l *fakeLedger) AddBooking(ctx context.Context, date time.Time, delta entity.SummaryDelta) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, ledgerCall{date: date, delta: delta})
	return l.err
}

type auditEntry struct {
	action   string
	oldValue interface{}
	newValue interface{}
}

type fakeAudit struct {
	mu      sync.Mutex
	actions []string
	entries []auditEntry
}

func (a *fakeAudit) LogCreate(ctx context.Context, userID *uuid.UUID, action, entityName, entityID string, newValue interface{}) error {
	return a.LogUpdate(ctx, userID, action, entityName, entityID, nil, newValue)
}

func (a *fakeAudit) LogUpdate(ctx context.Context, userID *uuid.UUID, action, entityName, entityID string, oldValue, newValue interface{}) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions = append(a.actions, action)
	a.entries = append(a.entries, auditEntry{action: action, oldValue: oldValue, newValue: newValue})
	return nil
}

func (a *fakeAudit) find(action string) *auditEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.entries {
		if a.entries[i].action == action {
			return &a.entries[i]
		}
	}
	return nil
}

type fakeSummaryRepo struct {
	rows map[string]*entity.DailySummary
	err  error
}

func (r *fakeSummaryRepo) Increment(ctx context.Context, date time.Time, delta entity.SummaryDelta) (*entity.DailySummary, error) {
	key := date.Format(dateLayout)
	row, ok := r.rows[key]
	if !ok {
		row = entity.NewDailySummary(date)
		r.rows[key] = row
	}
	row.Apply(delta)
	return row, nil
}

func (r *fakeSummaryRepo) IncrementLocked(ctx context.Context, date time.Time, delta entity.SummaryDelta) (*entity.DailySummary, error) {
	return r.Increment(ctx, date, delta)
}

func (r *fakeSummaryRepo) FindByDate(ctx context.Context, date time.Time) (*entity.DailySummary, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.rows[date.Format(dateLayout)], nil
}

func (r *fakeSummaryRepo) FindRange(ctx context.Context, from, to time.Time) ([]entity.DailySummary, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []entity.DailySummary
	for _, row := range r.rows {
		if !row.SummaryDate.Before(from) && !row.SummaryDate.After(to) {
			out = append(out, *row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SummaryDate.Before(out[j].SummaryDate) })
	return out, nil
}

func (r *fakeSummaryRepo) FindSince(ctx context.Context, since time.Time, limit, offset int) ([]entity.DailySummary, error) {
	return nil, nil
}

type fakeSummaryCache struct {
	row   *entity.DailySummary
	err   error
	calls int
}

func (c *fakeSummaryCache) GetSummary(ctx context.Context, date time.Time) (*entity.DailySummary, bool, error) {
	c.calls++
	if c.err != nil {
		return nil, false, c.err
	}
	return c.row, c.row != nil, nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

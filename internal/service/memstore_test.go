package service

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/Freeeeeet/appointment_scheduler/internal/model"
	"github.com/Freeeeeet/appointment_scheduler/internal/repository"
	"github.com/Freeeeeet/appointment_scheduler/internal/slots"
)

// memDB хранилище в памяти. Календарные блокировки ведут себя как
// advisory lock в BookingRepository, CreateAppointment как exclusion-ограничение.
type memDB struct {
	mu            sync.Mutex
	nextID        int64
	professionals map[int64]*model.Professional
	services      map[int64]*model.Service
	clients       map[int64]*model.Client
	appointments  map[int64]*model.Appointment
	vacations     map[int64]*model.Vacation
	hours         map[int64][]*model.WorkingHoursEntry
	events        []*model.OutboxEvent

	locksMu sync.Mutex
	locks   map[int64]*sync.Mutex
	// withoutCalendarLock отключает блокировки, чтобы проверить страховку на уровне хранилища
	withoutCalendarLock bool
	// afterCommitments вызывается после чтения занятости внутри транзакции
	afterCommitments func()
	// beforeAtomically вызывается перед взятием блокировок
	beforeAtomically func()
}

func newMemDB() *memDB {
	return &memDB{
		professionals: make(map[int64]*model.Professional),
		services:      make(map[int64]*model.Service),
		clients:       make(map[int64]*model.Client),
		appointments:  make(map[int64]*model.Appointment),
		vacations:     make(map[int64]*model.Vacation),
		hours:         make(map[int64][]*model.WorkingHoursEntry),
		locks:         make(map[int64]*sync.Mutex),
	}
}

func (db *memDB) id() int64 {
	db.nextID++
	return db.nextID
}

func (db *memDB) calendarLock(professionalID int64) *sync.Mutex {
	db.locksMu.Lock()
	defer db.locksMu.Unlock()
	l, ok := db.locks[professionalID]
	if !ok {
		l = &sync.Mutex{}
		db.locks[professionalID] = l
	}
	return l
}

func (db *memDB) eventTypes() []string {
	db.mu.Lock()
	defer db.mu.Unlock()
	var types []string
	for _, e := range db.events {
		types = append(types, e.EventType)
	}
	return types
}

func (db *memDB) activeAppointments(professionalID int64) []*model.Appointment {
	db.mu.Lock()
	defer db.mu.Unlock()
	var list []*model.Appointment
	for _, a := range db.appointments {
		if a.ProfessionalID == professionalID && a.Status.OccupiesCalendar() {
			c := *a
			list = append(list, &c)
		}
	}
	return list
}

func (db *memDB) commitments(professionalID int64, window slots.Interval, excludeID int64) slots.Commitments {
	db.mu.Lock()
	defer db.mu.Unlock()
	var busy slots.Commitments
	for _, a := range db.appointments {
		iv := slots.Interval{Start: a.StartsAt, End: a.EndsAt}
		if a.ProfessionalID == professionalID && a.Status.OccupiesCalendar() && a.ID != excludeID && iv.Overlaps(window) {
			busy.Appointments = append(busy.Appointments, iv)
		}
	}
	for _, v := range db.vacations {
		iv := slots.Interval{Start: v.StartsAt, End: v.EndsAt}
		if v.ProfessionalID == professionalID && iv.Overlaps(window) {
			busy.Vacations = append(busy.Vacations, iv)
		}
	}
	return busy
}

type memProfessionals struct{ db *memDB }

func (r memProfessionals) Create(ctx context.Context, p *model.Professional) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p.ID = r.db.id()
	c := *p
	r.db.professionals[p.ID] = &c
	return nil
}

func (r memProfessionals) GetByID(ctx context.Context, id int64) (*model.Professional, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.professionals[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (r memProfessionals) ListActive(ctx context.Context) ([]*model.Professional, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var list []*model.Professional
	for _, p := range r.db.professionals {
		if p.IsActive {
			c := *p
			list = append(list, &c)
		}
	}
	return list, nil
}

type memServices struct{ db *memDB }

func (r memServices) Create(ctx context.Context, s *model.Service) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s.ID = r.db.id()
	c := *s
	r.db.services[s.ID] = &c
	return nil
}

func (r memServices) GetByID(ctx context.Context, id int64) (*model.Service, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.services[id]
	if !ok {
		return nil, nil
	}
	c := *s
	return &c, nil
}

func (r memServices) ListActive(ctx context.Context) ([]*model.Service, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var list []*model.Service
	for _, s := range r.db.services {
		if s.IsActive {
			c := *s
			list = append(list, &c)
		}
	}
	return list, nil
}

type memClients struct{ db *memDB }

func (r memClients) Create(ctx context.Context, c *model.Client) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c.ID = r.db.id()
	cp := *c
	r.db.clients[c.ID] = &cp
	return nil
}

func (r memClients) UpsertByTelegramID(ctx context.Context, telegramID int64, name string) (*model.Client, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, c := range r.db.clients {
		if c.TelegramID != nil && *c.TelegramID == telegramID {
			c.Name = name
			cp := *c
			return &cp, nil
		}
	}
	tg := telegramID
	c := &model.Client{ID: r.db.id(), Name: name, TelegramID: &tg}
	r.db.clients[c.ID] = c
	cp := *c
	return &cp, nil
}

func (r memClients) GetByID(ctx context.Context, id int64) (*model.Client, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.clients[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r memClients) GetByTelegramID(ctx context.Context, telegramID int64) (*model.Client, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, c := range r.db.clients {
		if c.TelegramID != nil && *c.TelegramID == telegramID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

type memAppointments struct{ db *memDB }

func (r memAppointments) GetByID(ctx context.Context, id int64) (*model.Appointment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a, ok := r.db.appointments[id]
	if !ok {
		return nil, nil
	}
	c := *a
	return &c, nil
}

func (r memAppointments) ListByProfessional(ctx context.Context, professionalID int64, from, to time.Time) ([]*model.Appointment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var list []*model.Appointment
	for _, a := range r.db.appointments {
		if a.ProfessionalID == professionalID && !a.StartsAt.Before(from) && a.StartsAt.Before(to) {
			c := *a
			list = append(list, &c)
		}
	}
	slices.SortFunc(list, func(a, b *model.Appointment) int { return a.StartsAt.Compare(b.StartsAt) })
	return list, nil
}

func (r memAppointments) ListByClient(ctx context.Context, clientID int64, from time.Time) ([]*model.Appointment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var list []*model.Appointment
	for _, a := range r.db.appointments {
		if a.ClientID == clientID && a.EndsAt.After(from) {
			c := *a
			list = append(list, &c)
		}
	}
	slices.SortFunc(list, func(a, b *model.Appointment) int { return a.StartsAt.Compare(b.StartsAt) })
	return list, nil
}

type memVacations struct{ db *memDB }

func (r memVacations) GetByID(ctx context.Context, id int64) (*model.Vacation, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	v, ok := r.db.vacations[id]
	if !ok {
		return nil, nil
	}
	c := *v
	return &c, nil
}

func (r memVacations) Delete(ctx context.Context, id int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	_, ok := r.db.vacations[id]
	delete(r.db.vacations, id)
	return ok, nil
}

func (r memVacations) ListByProfessional(ctx context.Context, professionalID int64, from time.Time) ([]*model.Vacation, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var list []*model.Vacation
	for _, v := range r.db.vacations {
		if v.ProfessionalID == professionalID && v.EndsAt.After(from) {
			c := *v
			list = append(list, &c)
		}
	}
	return list, nil
}

type memWorkingHours struct{ db *memDB }

func (r memWorkingHours) GetByProfessionalID(ctx context.Context, professionalID int64) ([]*model.WorkingHoursEntry, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return slices.Clone(r.db.hours[professionalID]), nil
}

func (r memWorkingHours) Replace(ctx context.Context, professionalID int64, entries []*model.WorkingHoursEntry) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.hours[professionalID] = slices.Clone(entries)
	return nil
}

type memCommitments struct{ db *memDB }

func (r memCommitments) GetCommitments(ctx context.Context, professionalID int64, from, to time.Time) (slots.Commitments, error) {
	return r.db.commitments(professionalID, slots.Interval{Start: from, End: to}, 0), nil
}

type memBooking struct{ db *memDB }

func (r memBooking) Atomically(ctx context.Context, professionalIDs []int64, fn func(ctx context.Context, tx repository.BookingTx) error) error {
	if r.db.beforeAtomically != nil {
		r.db.beforeAtomically()
	}
	if !r.db.withoutCalendarLock {
		ids := slices.Clone(professionalIDs)
		slices.Sort(ids)
		for _, id := range slices.Compact(ids) {
			l := r.db.calendarLock(id)
			l.Lock()
			defer l.Unlock()
		}
	}
	return fn(ctx, memTx{db: r.db})
}

type memTx struct{ db *memDB }

func (t memTx) Commitments(ctx context.Context, professionalID int64, window slots.Interval, excludeID int64) (slots.Commitments, error) {
	busy := t.db.commitments(professionalID, window, excludeID)
	if t.db.afterCommitments != nil {
		t.db.afterCommitments()
	}
	return busy, nil
}

func (t memTx) ActiveAppointments(ctx context.Context, professionalID int64, window slots.Interval) ([]*model.Appointment, error) {
	var list []*model.Appointment
	for _, a := range t.db.activeAppointments(professionalID) {
		if (slots.Interval{Start: a.StartsAt, End: a.EndsAt}).Overlaps(window) {
			list = append(list, a)
		}
	}
	return list, nil
}

func (t memTx) GetAppointment(ctx context.Context, id int64) (*model.Appointment, error) {
	return memAppointments(t).GetByID(ctx, id)
}

func (t memTx) CreateAppointment(ctx context.Context, a *model.Appointment) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	if t.overlapsLocked(a) {
		return repository.ErrOverlap
	}
	a.ID = t.db.id()
	c := *a
	t.db.appointments[a.ID] = &c
	return nil
}

func (t memTx) UpdateAppointmentSlot(ctx context.Context, a *model.Appointment) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	if t.overlapsLocked(a) {
		return repository.ErrOverlap
	}
	c := *a
	t.db.appointments[a.ID] = &c
	return nil
}

func (t memTx) UpdateAppointmentStatus(ctx context.Context, a *model.Appointment) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	stored := t.db.appointments[a.ID]
	stored.Status = a.Status
	stored.CancelReason = a.CancelReason
	stored.CancelledAt = a.CancelledAt
	return nil
}

func (t memTx) CreateVacation(ctx context.Context, v *model.Vacation) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	v.ID = t.db.id()
	c := *v
	t.db.vacations[v.ID] = &c
	return nil
}

func (t memTx) MarkNoShows(ctx context.Context, before time.Time) ([]*model.Appointment, error) {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	var marked []*model.Appointment
	for _, a := range t.db.appointments {
		if (a.Status == model.AppointmentStatusScheduled || a.Status == model.AppointmentStatusConfirmed) && a.EndsAt.Before(before) {
			a.Status = model.AppointmentStatusNoShow
			c := *a
			marked = append(marked, &c)
		}
	}
	return marked, nil
}

func (t memTx) AddEvent(ctx context.Context, e *model.OutboxEvent) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	e.ID = t.db.id()
	t.db.events = append(t.db.events, e)
	return nil
}

func (t memTx) overlapsLocked(a *model.Appointment) bool {
	iv := slots.Interval{Start: a.StartsAt, End: a.EndsAt}
	for _, other := range t.db.appointments {
		if other.ID == a.ID || other.ProfessionalID != a.ProfessionalID || !other.Status.OccupiesCalendar() {
			continue
		}
		if iv.Overlaps(slots.Interval{Start: other.StartsAt, End: other.EndsAt}) {
			return true
		}
	}
	return false
}

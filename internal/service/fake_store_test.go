package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/faroemiliano/backBarberia1991/internal/models"
	"github.com/faroemiliano/backBarberia1991/internal/notification"
	"github.com/faroemiliano/backBarberia1991/internal/repository"
	"gorm.io/gorm"
)

// fakeStore is an in-memory stand-in for the database. Transactions are
// serialised and rolled back on error, which is enough to observe the
// all-or-nothing behaviour of the engines without PostgreSQL.
type fakeStore struct {
	txMu   sync.Mutex
	mu     sync.Mutex
	nextID uint

	slots    map[uint]models.Slot
	appts    map[uint]models.Appointment
	services map[uint]models.Service
	users    map[uint]models.User

	// failOn makes the named write fail once reached.
	failOn map[string]error
	// locked records slot ids in the order FindByIDForUpdate saw them.
	locked []uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextID:   100,
		slots:    map[uint]models.Slot{},
		appts:    map[uint]models.Appointment{},
		services: map[uint]models.Service{},
		users:    map[uint]models.User{},
		failOn:   map[string]error{},
	}
}

func (f *fakeStore) id() uint {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) addSlot(date string, tod string, available bool) models.Slot {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, _ := time.Parse(models.DateLayout, date)
	s := models.Slot{ID: f.id(), Date: d, TimeOfDay: tod, Available: available}
	f.slots[s.ID] = s
	return s
}

func (f *fakeStore) addService(name string, price float64, active bool) models.Service {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := models.Service{ID: f.id(), Name: name, Price: price, Active: active}
	f.services[s.ID] = s
	return s
}

func (f *fakeStore) addUser(name, email string) models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := models.User{ID: f.id(), Name: name, Email: email}
	f.users[u.ID] = u
	return u
}

func (f *fakeStore) slot(id uint) models.Slot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.slots[id]
}

func (f *fakeStore) appt(id uint) (models.Appointment, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.appts[id]
	return a, ok
}

func (f *fakeStore) apptCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.appts)
}

func (f *fakeStore) fail(op string) error {
	if err, ok := f.failOn[op]; ok {
		return err
	}
	return nil
}

// --- UnitOfWork ---

type fakeUoW struct{ *fakeStore }

func (u fakeUoW) Do(ctx context.Context, fn func(tx *gorm.DB) error) error {
	u.txMu.Lock()
	defer u.txMu.Unlock()

	u.mu.Lock()
	slots, appts, services, users := cloneMap(u.slots), cloneMap(u.appts), cloneMap(u.services), cloneMap(u.users)
	u.mu.Unlock()

	if err := fn(nil); err != nil {
		u.mu.Lock()
		u.slots, u.appts, u.services, u.users = slots, appts, services, users
		u.mu.Unlock()
		return err
	}
	return nil
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// --- SlotRepository ---

type fakeSlots struct{ *fakeStore }

func (r fakeSlots) FindByID(ctx context.Context, id uint) (*models.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (r fakeSlots) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Slot, error) {
	r.mu.Lock()
	r.locked = append(r.locked, id)
	r.mu.Unlock()
	return r.FindByID(ctx, id)
}

func (r fakeSlots) SetAvailable(ctx context.Context, tx *gorm.DB, id uint, available bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("slot.SetAvailable"); err != nil {
		return err
	}
	s, ok := r.slots[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Available = available
	r.slots[id] = s
	return nil
}

func (r fakeSlots) List(ctx context.Context, filter repository.SlotFilter) ([]models.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Slot
	for _, s := range r.slots {
		if filter.From != nil && s.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && s.Date.After(*filter.To) {
			continue
		}
		if filter.OnlyAvailable && !s.Available {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].TimeOfDay < out[j].TimeOfDay
	})
	return out, nil
}

func (r fakeSlots) InsertMissing(ctx context.Context, tx *gorm.DB, slots []models.Slot) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("slot.InsertMissing"); err != nil {
		return 0, err
	}
	existing := map[string]bool{}
	for _, s := range r.slots {
		existing[s.DateString()+" "+s.TimeOfDay] = true
	}
	var created int64
	for _, s := range slots {
		key := s.DateString() + " " + s.TimeOfDay
		if existing[key] {
			continue
		}
		existing[key] = true
		s.ID = r.id()
		r.slots[s.ID] = s
		created++
	}
	return created, nil
}

func (r fakeSlots) DeleteAll(ctx context.Context, tx *gorm.DB) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.slots))
	r.slots = map[uint]models.Slot{}
	return n, nil
}

func (r fakeSlots) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.slots)), nil
}

// --- AppointmentRepository ---

type fakeAppts struct{ *fakeStore }

func (r fakeAppts) Create(ctx context.Context, tx *gorm.DB, appt *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.appts {
		if a.SlotID == appt.SlotID {
			return gorm.ErrDuplicatedKey
		}
	}
	appt.ID = r.id()
	stored := *appt
	stored.Slot, stored.Service, stored.User = nil, nil, nil
	r.appts[appt.ID] = stored
	return nil
}

func (r fakeAppts) FindByID(ctx context.Context, id uint) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &a, nil
}

func (r fakeAppts) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Appointment, error) {
	return r.FindByID(ctx, id)
}

func (r fakeAppts) ExistsForSlot(ctx context.Context, tx *gorm.DB, slotID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.appts {
		if a.SlotID == slotID {
			return true, nil
		}
	}
	return false, nil
}

func (r fakeAppts) Update(ctx context.Context, tx *gorm.DB, appt *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("appt.Update"); err != nil {
		return err
	}
	for id, a := range r.appts {
		if id != appt.ID && a.SlotID == appt.SlotID {
			return gorm.ErrDuplicatedKey
		}
	}
	stored := *appt
	stored.Slot, stored.Service, stored.User = nil, nil, nil
	r.appts[appt.ID] = stored
	return nil
}

func (r fakeAppts) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.appts[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.appts, id)
	return nil
}

func (r fakeAppts) DeleteAll(ctx context.Context, tx *gorm.DB) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.appts))
	r.appts = map[uint]models.Appointment{}
	return n, nil
}

func (r fakeAppts) List(ctx context.Context, filter repository.AppointmentFilter) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, a := range r.appts {
		if filter.UserID != nil && (a.UserID == nil || *a.UserID != *filter.UserID) {
			continue
		}
		slot := r.slots[a.SlotID]
		if filter.From != nil && slot.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && slot.Date.After(*filter.To) {
			continue
		}
		a.Slot = &slot
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- ServiceRepository ---

type fakeServices struct{ *fakeStore }

func (r fakeServices) FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.services[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (r fakeServices) FindByName(ctx context.Context, tx *gorm.DB, name string) (*models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.services {
		if s.Name == name {
			return &s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r fakeServices) List(ctx context.Context, onlyActive bool) ([]models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Service
	for _, s := range r.services {
		if onlyActive && !s.Active {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r fakeServices) Create(ctx context.Context, tx *gorm.DB, svc *models.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.services {
		if s.Name == svc.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	svc.ID = r.id()
	r.services[svc.ID] = *svc
	return nil
}

func (r fakeServices) Save(ctx context.Context, tx *gorm.DB, svc *models.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.services {
		if id != svc.ID && s.Name == svc.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	r.services[svc.ID] = *svc
	return nil
}

// --- UserRepository ---

type fakeUsers struct{ *fakeStore }

func (r fakeUsers) FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r fakeUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r fakeUsers) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	for _, u := range r.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = r.id()
	r.users[user.ID] = *user
	return nil
}

func (r fakeUsers) SetAdmin(ctx context.Context, email string, isAdmin bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, u := range r.users {
		if u.Email == strings.ToLower(email) {
			u.IsAdmin = isAdmin
			r.users[id] = u
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// --- Notifier ---

type recordingNotifier struct {
	mu   sync.Mutex
	err  error
	sent []notification.Message
}

func (n *recordingNotifier) Notify(ctx context.Context, msg notification.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, msg)
	return nil
}

func (n *recordingNotifier) messages() []notification.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification.Message(nil), n.sent...)
}

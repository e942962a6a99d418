package service

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dealerdesk/crm-backend/internal/errs"
	"github.com/dealerdesk/crm-backend/internal/models"
)

// In-memory repository fakes so services are tested without a database.

type memUsers struct {
	mu    sync.Mutex
	users []*models.User
	seq   int64
}

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = append(m.users, u)
	return nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (m *memUsers) FindByUserID(_ context.Context, userID int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.UserID == userID {
			return u, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (m *memUsers) ListConsultants(_ context.Context, departmentID string) ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.User
	for _, u := range m.users {
		if u.Role != models.RoleConsultant {
			continue
		}
		if departmentID != "" && u.DepartmentID != departmentID {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (m *memUsers) NextUserID(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	return m.seq, nil
}

type memCustomers struct {
	mu        sync.Mutex
	customers map[primitive.ObjectID]*models.Customer
}

func newMemCustomers() *memCustomers {
	return &memCustomers{customers: make(map[primitive.ObjectID]*models.Customer)}
}

func (m *memCustomers) Create(_ context.Context, c *models.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = primitive.NewObjectID()
	cp := *c
	m.customers[c.ID] = &cp
	return nil
}

func (m *memCustomers) Update(_ context.Context, c *models.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[c.ID]; !ok {
		return errs.ErrNotFound
	}
	cp := *c
	m.customers[c.ID] = &cp
	return nil
}

func (m *memCustomers) FindByID(_ context.Context, id primitive.ObjectID) (*models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.customers[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, errs.ErrNotFound
}

func (m *memCustomers) FindByContact(_ context.Context, email, phone string) (*models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.customers {
		if (email != "" && c.Email == email) || (phone != "" && c.Phone == phone) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (m *memCustomers) ListByConsultant(_ context.Context, consultantID int64, _, _ int64) ([]*models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Customer
	for _, c := range m.customers {
		if consultantID == 0 || c.ConsultantID == consultantID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memScans struct {
	mu    sync.Mutex
	scans []*models.Scan
}

func (m *memScans) Create(_ context.Context, s *models.Scan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = primitive.NewObjectID()
	m.scans = append(m.scans, s)
	return nil
}

func (m *memScans) ListByCustomer(_ context.Context, customerID primitive.ObjectID) ([]*models.Scan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Scan
	for _, s := range m.scans {
		if s.CustomerID == customerID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memScans) ListByConsultant(_ context.Context, consultantID int64, _ int64) ([]*models.Scan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Scan
	for _, s := range m.scans {
		if s.ConsultantID == consultantID {
			out = append(out, s)
		}
	}
	return out, nil
}

type memAppointments struct {
	mu    sync.Mutex
	appts map[primitive.ObjectID]*models.Appointment
}

func newMemAppointments() *memAppointments {
	return &memAppointments{appts: make(map[primitive.ObjectID]*models.Appointment)}
}

func (m *memAppointments) Create(_ context.Context, a *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = primitive.NewObjectID()
	cp := *a
	m.appts[a.ID] = &cp
	return nil
}

func (m *memAppointments) FindByID(_ context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.appts[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, errs.ErrNotFound
}

func (m *memAppointments) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.AppointmentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appts[id]
	if !ok {
		return errs.ErrNotFound
	}
	a.Status = status
	return nil
}

func (m *memAppointments) ListByConsultant(_ context.Context, consultantID int64, _, _ int64) ([]*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Appointment
	for _, a := range m.appts {
		if a.ConsultantID == consultantID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memComments struct {
	mu       sync.Mutex
	comments []*models.Comment
}

func (m *memComments) Create(_ context.Context, c *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = primitive.NewObjectID()
	m.comments = append(m.comments, c)
	return nil
}

func (m *memComments) ListByCustomer(_ context.Context, customerID primitive.ObjectID) ([]*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Comment
	for _, c := range m.comments {
		if c.CustomerID == customerID {
			out = append(out, c)
		}
	}
	return out, nil
}

type memNotifications struct {
	mu     sync.Mutex
	notifs []*models.Notification
}

func (m *memNotifications) Create(_ context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n.ID = primitive.NewObjectID()
	cp := *n
	m.notifs = append(m.notifs, &cp)
	return nil
}

func (m *memNotifications) ListByUser(_ context.Context, userID int64, unreadOnly bool, _, _ int64) ([]*models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Notification
	for _, n := range m.notifs {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		cp := *n
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memNotifications) CountUnread(_ context.Context, userID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, n := range m.notifs {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (m *memNotifications) MarkRead(_ context.Context, id primitive.ObjectID, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifs {
		if n.ID == id && n.UserID == userID {
			n.Read = true
			return nil
		}
	}
	return errs.ErrNotFound
}

func (m *memNotifications) MarkAllRead(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifs {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

type capturePublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *capturePublisher) Publish(_ context.Context, eventType string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
	return nil
}

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

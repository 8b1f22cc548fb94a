package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"scaffold-backend/internal/auth"
	"scaffold-backend/internal/models"
	"scaffold-backend/internal/rental"
	"scaffold-backend/internal/timeutil"
)

var errStorageDown = errors.New("storage unavailable")

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func moneyPtr(s string) *decimal.Decimal {
	d := money(s)
	return &d
}

func intPtr(i int) *int { return &i }

func day(y int, m time.Month, d int) models.Date {
	return models.NewDate(time.Date(y, m, d, 0, 0, 0, 0, timeutil.Location()))
}

// fixClock pins timeutil.Now to noon on the given business date
func fixClock(y int, m time.Month, d int) func() {
	at := time.Date(y, m, d, 12, 0, 0, 0, timeutil.Location())
	return timeutil.SetClock(func() time.Time { return at })
}

// sampleDraft totals 500: 2 x 10 days x 5 + 1 x 3 months x 150,
// plus 50 transport, less 100 discount
func sampleDraft() *models.ContractDraft {
	return &models.ContractDraft{
		CustomerID:    1,
		ContractDate:  day(2024, 3, 1),
		TransportCost: money("50"),
		TotalDiscount: money("100"),
		LineItems: []models.LineItemDraft{
			{
				Code:         "FRM-200",
				StartDate:    day(2024, 3, 1),
				DurationType: models.DurationDaily,
				Duration:     10,
				Quantity:     2,
				DailyRate:    moneyPtr("5"),
				MonthlyRate:  moneyPtr("120"),
			},
			{
				Code:         "PLK-300",
				StartDate:    day(2024, 3, 1),
				DurationType: models.DurationMonthly,
				Duration:     3,
				Quantity:     1,
				DailyRate:    moneyPtr("7"),
				MonthlyRate:  moneyPtr("150"),
			},
		},
	}
}

func cashDraft(amount string) *models.PaymentDraft {
	return &models.PaymentDraft{PaymentMethod: models.MethodCash, Amount: money(amount)}
}

// fakeContracts mimics ContractRepository: numbers and receipt numbers
// come from counters, Mutate only stores when fn succeeds
type fakeContracts struct {
	mu          sync.Mutex
	rows        map[int]*models.Contract
	nextID      int
	nextPayment int
	failCreate  error
}

func newFakeContracts() *fakeContracts {
	return &fakeContracts{rows: map[int]*models.Contract{}}
}

func cloneContract(c *models.Contract) *models.Contract {
	cp := *c
	cp.LineItems = append([]models.RentalLineItem(nil), c.LineItems...)
	cp.Payments = append([]models.Payment(nil), c.Payments...)
	cp.Attachments = append([]models.Attachment(nil), c.Attachments...)
	return &cp
}

func (f *fakeContracts) assignPayments(c *models.Contract) {
	for i := range c.Payments {
		if c.Payments[i].ID != 0 {
			continue
		}
		f.nextPayment++
		c.Payments[i].ID = f.nextPayment
		c.Payments[i].ContractID = c.ID
		c.Payments[i].ReceiptNumber = fmt.Sprintf("RCP-%06d", f.nextPayment)
	}
}

func (f *fakeContracts) Create(_ context.Context, c *models.Contract) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate != nil {
		return f.failCreate
	}
	f.nextID++
	c.ID = f.nextID
	if c.ContractNumber == "" {
		c.ContractNumber = fmt.Sprintf("CNT-%06d", c.ID)
	}
	f.assignPayments(c)
	f.rows[c.ID] = cloneContract(c)
	return nil
}

func (f *fakeContracts) Get(_ context.Context, id int) (*models.Contract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[id]
	if !ok {
		return nil, rental.NewNotFound("contract", id)
	}
	return cloneContract(c), nil
}

func (f *fakeContracts) List(_ context.Context, filter models.ContractFilter) ([]models.Contract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Contract
	for _, c := range f.rows {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.CustomerID != 0 && c.CustomerID != filter.CustomerID {
			continue
		}
		if filter.Search != "" && !strings.Contains(c.ContractNumber, filter.Search) {
			continue
		}
		out = append(out, *cloneContract(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeContracts) Mutate(_ context.Context, id int, fn func(c *models.Contract) error) (*models.Contract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.rows[id]
	if !ok {
		return nil, rental.NewNotFound("contract", id)
	}
	c := cloneContract(stored)
	if err := fn(c); err != nil {
		return nil, err
	}
	c.ContractNumber = stored.ContractNumber
	f.assignPayments(c)
	f.rows[id] = cloneContract(c)
	return c, nil
}

func (f *fakeContracts) Delete(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return rental.NewNotFound("contract", id)
	}
	delete(f.rows, id)
	return nil
}

type fakeEquipment struct {
	rows   map[int]*models.Equipment
	nextID int
}

func newFakeEquipment(items ...*models.Equipment) *fakeEquipment {
	f := &fakeEquipment{rows: map[int]*models.Equipment{}}
	for _, e := range items {
		f.rows[e.ID] = e
		if e.ID > f.nextID {
			f.nextID = e.ID
		}
	}
	return f
}

func (f *fakeEquipment) Create(_ context.Context, e *models.Equipment) error {
	for _, existing := range f.rows {
		if existing.Code == e.Code {
			return rental.Conflict("code", "equipment already exists")
		}
	}
	f.nextID++
	e.ID = f.nextID
	cp := *e
	f.rows[e.ID] = &cp
	return nil
}

func (f *fakeEquipment) Get(_ context.Context, id int) (*models.Equipment, error) {
	e, ok := f.rows[id]
	if !ok {
		return nil, rental.NewNotFound("equipment", id)
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEquipment) List(_ context.Context) ([]*models.Equipment, error) {
	var out []*models.Equipment
	for _, e := range f.rows {
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (f *fakeEquipment) Update(_ context.Context, e *models.Equipment) error {
	if _, ok := f.rows[e.ID]; !ok {
		return rental.NewNotFound("equipment", e.ID)
	}
	cp := *e
	f.rows[e.ID] = &cp
	return nil
}

func (f *fakeEquipment) Delete(_ context.Context, id int) error {
	if _, ok := f.rows[id]; !ok {
		return rental.NewNotFound("equipment", id)
	}
	delete(f.rows, id)
	return nil
}

type fakeCustomers struct {
	rows      map[int]*models.Customer
	contracts map[int]int
	nextID    int
}

func newFakeCustomers() *fakeCustomers {
	return &fakeCustomers{rows: map[int]*models.Customer{}, contracts: map[int]int{}}
}

func (f *fakeCustomers) Create(_ context.Context, c *models.Customer) error {
	f.nextID++
	c.ID = f.nextID
	cp := *c
	f.rows[c.ID] = &cp
	return nil
}

func (f *fakeCustomers) Get(_ context.Context, id int) (*models.Customer, error) {
	c, ok := f.rows[id]
	if !ok {
		return nil, rental.NewNotFound("customer", id)
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCustomers) List(_ context.Context, query string) ([]*models.Customer, error) {
	var out []*models.Customer
	for _, c := range f.rows {
		if query != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(query)) && !strings.Contains(c.Phone, query) {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCustomers) Update(_ context.Context, c *models.Customer) error {
	if _, ok := f.rows[c.ID]; !ok {
		return rental.NewNotFound("customer", c.ID)
	}
	cp := *c
	f.rows[c.ID] = &cp
	return nil
}

func (f *fakeCustomers) CountContracts(_ context.Context, id int) (int, error) {
	return f.contracts[id], nil
}

func (f *fakeCustomers) Delete(_ context.Context, id int) error {
	if _, ok := f.rows[id]; !ok {
		return rental.NewNotFound("customer", id)
	}
	delete(f.rows, id)
	return nil
}

type fakeUsers struct {
	rows   map[int]*models.User
	nextID int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{rows: map[int]*models.User{}}
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	for _, existing := range f.rows {
		if existing.Email == u.Email {
			return rental.Conflict("email", "user already exists")
		}
	}
	f.nextID++
	u.ID = f.nextID
	cp := *u
	f.rows[u.ID] = &cp
	return nil
}

func (f *fakeUsers) Upsert(ctx context.Context, u *models.User) error {
	for id, existing := range f.rows {
		if existing.Email == u.Email {
			u.ID = id
			cp := *u
			f.rows[id] = &cp
			return nil
		}
	}
	return f.Create(ctx, u)
}

func (f *fakeUsers) Get(_ context.Context, id int) (*models.User, error) {
	u, ok := f.rows[id]
	if !ok {
		return nil, rental.NewNotFound("user", id)
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.rows {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, rental.NewNotFound("user", 0)
}

func (f *fakeUsers) List(_ context.Context) ([]*models.User, error) {
	var out []*models.User
	for _, u := range f.rows {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeUsers) SetActive(_ context.Context, id int, active bool) error {
	u, ok := f.rows[id]
	if !ok {
		return rental.NewNotFound("user", id)
	}
	u.IsActive = active
	return nil
}

type fakeAttachments struct {
	rows   map[int]*models.Attachment
	nextID int
	fail   error
}

func newFakeAttachments() *fakeAttachments {
	return &fakeAttachments{rows: map[int]*models.Attachment{}}
}

func (f *fakeAttachments) Create(_ context.Context, a *models.Attachment) error {
	if f.fail != nil {
		return f.fail
	}
	f.nextID++
	a.ID = f.nextID
	cp := *a
	f.rows[a.ID] = &cp
	return nil
}

func (f *fakeAttachments) Get(_ context.Context, contractID, id int) (*models.Attachment, error) {
	a, ok := f.rows[id]
	if !ok || a.ContractID != contractID {
		return nil, rental.NewNotFound("attachment", id)
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAttachments) ListByContract(_ context.Context, contractID int) ([]models.Attachment, error) {
	var out []models.Attachment
	for _, a := range f.rows {
		if a.ContractID == contractID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeAttachments) Delete(_ context.Context, contractID, id int) error {
	a, ok := f.rows[id]
	if !ok || a.ContractID != contractID {
		return rental.NewNotFound("attachment", id)
	}
	delete(f.rows, id)
	return nil
}

type fakeObjects struct {
	objects map[string][]byte
	failPut bool
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: map[string][]byte{}}
}

func (f *fakeObjects) Put(_ context.Context, key, _ string, data []byte) error {
	if f.failPut {
		return errStorageDown
	}
	f.objects[key] = data
	return nil
}

func (f *fakeObjects) Get(_ context.Context, key string) ([]byte, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return data, nil
}

func (f *fakeObjects) Delete(_ context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func (f *fakeObjects) PresignGet(_ context.Context, key string) (string, error) {
	if _, ok := f.objects[key]; !ok {
		return "", errors.New("no such key")
	}
	return "https://files.test/" + key + "?sig=1", nil
}

type recordingPublisher struct {
	events []models.ContractEvent
}

func (p *recordingPublisher) Publish(e models.ContractEvent) {
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []models.EventType {
	out := make([]models.EventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type fakeTokens struct{}

func (fakeTokens) GenerateToken(u *models.User) (string, error) {
	return fmt.Sprintf("session-%d", u.ID), nil
}

func (fakeTokens) GenerateSigningToken(contractID int, contractNumber string) (string, time.Time, error) {
	return fmt.Sprintf("sign.%d.%s", contractID, contractNumber), timeutil.Now().Add(72 * time.Hour), nil
}

func (fakeTokens) ValidateSigningToken(token string) (*auth.SigningClaims, error) {
	var id int
	var number string
	parts := strings.SplitN(token, ".", 3)
	if len(parts) != 3 || parts[0] != "sign" {
		return nil, auth.ErrInvalidToken
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &id); err != nil {
		return nil, auth.ErrInvalidToken
	}
	number = parts[2]
	return &auth.SigningClaims{ContractID: id, ContractNumber: number, Type: auth.TypeContractSign}, nil
}

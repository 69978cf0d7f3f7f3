package importer

import (
	"context"
	"database/sql"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/backoffice/pkg/kafka"
	"github.com/Ramsey-B/backoffice/pkg/models"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

// memStore keeps rows in maps and fails on demand.
type memStore struct {
	mu     sync.Mutex
	nextID int64

	slugs     map[Entity]map[string]int64
	addresses map[int64]models.Address
	merchants map[string]models.Merchant
	contacts  map[int64][]models.Contact
	pix       map[string]models.MerchantPixAccount

	ensureErr   map[Entity]error
	lookupErr   map[Entity]error
	addressErr  error
	merchantErr map[string]error
	contactErr  error
	pixErr      error
	resetErr    error

	ensureCalls int
	txCalls     int
	rollbacks   int
	resets      int
	closed      int
	deletedFor  []int64
}

func newMemStore() *memStore {
	return &memStore{
		slugs:       map[Entity]map[string]int64{},
		addresses:   map[int64]models.Address{},
		merchants:   map[string]models.Merchant{},
		contacts:    map[int64][]models.Contact{},
		pix:         map[string]models.MerchantPixAccount{},
		ensureErr:   map[Entity]error{},
		lookupErr:   map[Entity]error{},
		merchantErr: map[string]error{},
	}
}

var _ Store = (*memStore)(nil)

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) EnsureBySlug(ctx context.Context, entity Entity, rec models.SlugEntity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureCalls++
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ensureErr[entity]; err != nil {
		return err
	}
	if s.slugs[entity] == nil {
		s.slugs[entity] = map[string]int64{}
	}
	value := rec.GetBase().Slug
	if _, ok := s.slugs[entity][value]; !ok {
		s.slugs[entity][value] = s.id()
	}
	return nil
}

func (s *memStore) LookupID(_ context.Context, entity Entity, value string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.lookupErr[entity]; err != nil {
		return 0, err
	}
	id, ok := s.slugs[entity][value]
	if !ok {
		return 0, sql.ErrNoRows
	}
	return id, nil
}

func (s *memStore) InsertAddress(_ context.Context, address *models.Address) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.addressErr != nil {
		return 0, s.addressErr
	}
	id := s.id()
	row := *address
	row.ID = id
	s.addresses[id] = row
	return id, nil
}

func (s *memStore) WriteMerchant(_ context.Context, m *models.Merchant, policy OnConflict) (int64, Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.merchantErr[m.Slug]; err != nil {
		return 0, "", err
	}
	existing, exists := s.merchants[m.Slug]
	row := *m
	switch {
	case !exists:
		row.ID = s.id()
		s.merchants[m.Slug] = row
		s.setSlug(EntityMerchant, m.Slug, row.ID)
		return row.ID, OutcomeImported, nil
	case policy == OnConflictSkip:
		return existing.ID, OutcomeSkipped, nil
	case policy == OnConflictUpsert:
		row.ID = existing.ID
		s.merchants[m.Slug] = row
		if existing.AddressID != nil && (m.AddressID == nil || *m.AddressID != *existing.AddressID) {
			delete(s.addresses, *existing.AddressID)
		}
		return row.ID, OutcomeUpdated, nil
	default:
		return 0, "", fmt.Errorf("insert merchant %s: %w", m.Slug, ErrSlugConflict)
	}
}

func (s *memStore) DeleteContacts(_ context.Context, merchantID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletedFor = append(s.deletedFor, merchantID)
	for _, c := range s.contacts[merchantID] {
		if c.AddressID != nil {
			delete(s.addresses, *c.AddressID)
		}
	}
	delete(s.contacts, merchantID)
	return nil
}

func (s *memStore) InsertContact(_ context.Context, contact *models.Contact) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.contactErr != nil {
		return 0, s.contactErr
	}
	row := *contact
	row.ID = s.id()
	s.contacts[contact.MerchantID] = append(s.contacts[contact.MerchantID], row)
	return row.ID, nil
}

func (s *memStore) WritePixAccount(_ context.Context, pix *models.MerchantPixAccount, policy OnConflict) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pixErr != nil {
		return 0, s.pixErr
	}
	existing, exists := s.pix[pix.Slug]
	row := *pix
	switch {
	case !exists:
		row.ID = s.id()
	case policy == OnConflictSkip:
		return existing.ID, nil
	case policy == OnConflictUpsert:
		row.ID = existing.ID
	default:
		return 0, fmt.Errorf("insert pix account %s: %w", pix.Slug, ErrSlugConflict)
	}
	s.pix[pix.Slug] = row
	return row.ID, nil
}

// InTx restores the rows fn touched when fn fails.
func (s *memStore) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	s.txCalls++
	addresses := maps.Clone(s.addresses)
	merchants := maps.Clone(s.merchants)
	pix := maps.Clone(s.pix)
	merchantSlugs := maps.Clone(s.slugs[EntityMerchant])
	contacts := make(map[int64][]models.Contact, len(s.contacts))
	for id, rows := range s.contacts {
		contacts[id] = slices.Clone(rows)
	}
	s.mu.Unlock()

	err := fn(ctx)
	if err != nil {
		s.mu.Lock()
		s.rollbacks++
		s.addresses, s.merchants, s.pix, s.contacts = addresses, merchants, pix, contacts
		s.slugs[EntityMerchant] = merchantSlugs
		s.mu.Unlock()
	}
	return err
}

func (s *memStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resets++
	if s.resetErr != nil {
		return s.resetErr
	}
	s.slugs = map[Entity]map[string]int64{}
	s.addresses = map[int64]models.Address{}
	s.merchants = map[string]models.Merchant{}
	s.contacts = map[int64][]models.Contact{}
	s.pix = map[string]models.MerchantPixAccount{}
	return nil
}

func (s *memStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

func (s *memStore) setSlug(entity Entity, value string, id int64) {
	if s.slugs[entity] == nil {
		s.slugs[entity] = map[string]int64{}
	}
	s.slugs[entity][value] = id
}

func (s *memStore) count(entity Entity) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.slugs[entity])
}

type staticFeed struct {
	merchants []MerchantAggregate
	err       error
	calls     int
}

func (f *staticFeed) Merchants(_ context.Context) ([]MerchantAggregate, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	// Hand out copies so a feed can be replayed across runs.
	out := make([]MerchantAggregate, len(f.merchants))
	for i, m := range f.merchants {
		out[i] = cloneAggregate(m)
	}
	return out, nil
}

type recordingLocker struct {
	keys []string
	ttls []time.Duration
	err  error
}

func (l *recordingLocker) WithLock(ctx context.Context, key string, ttl time.Duration, fn func(ctx context.Context) error) error {
	l.keys = append(l.keys, key)
	l.ttls = append(l.ttls, ttl)
	if l.err != nil {
		return l.err
	}
	return fn(ctx)
}

type recordingPublisher struct {
	events []kafka.ImportEvent
	err    error
}

func (p *recordingPublisher) PublishImportEvent(_ context.Context, evt kafka.ImportEvent) error {
	p.events = append(p.events, evt)
	return p.err
}

func sampleAggregate(name string) MerchantAggregate {
	return MerchantAggregate{
		Merchant: models.Merchant{
			IDMerchant: "dock-" + name,
			Name:       name,
			IDDocument: "12345678000199",
			Email:      "contato@example.com",
		},
		Address:       &models.Address{Street: "Rua das Flores", Number: "10", City: "São Paulo", State: "SP"},
		Category:      &models.Category{Name: "Padarias e Confeitarias", MCC: "5462"},
		LegalNature:   &models.LegalNature{Name: "Sociedade Empresária Limitada", Code: "206-2"},
		SalesAgent:    &models.SalesAgent{FirstName: "João", LastName: "Silva"},
		Configuration: &models.Configuration{URL: "https://merchant.example.com"},
		Contacts: []ContactAggregate{
			{
				Contact: models.Contact{Name: "Maria Souza", Email: "maria@example.com"},
				Address: &models.Address{Street: "Av. Paulista", Number: "1000", City: "São Paulo", State: "SP"},
			},
			{Contact: models.Contact{Name: "José Lima", IsPartnerContact: true}},
		},
		PixAccount: &models.MerchantPixAccount{BankNumber: "341", BankAccountNumber: "12345"},
	}
}

func cloneAggregate(a MerchantAggregate) MerchantAggregate {
	out := a
	if a.Address != nil {
		v := *a.Address
		out.Address = &v
	}
	if a.Category != nil {
		v := *a.Category
		out.Category = &v
	}
	if a.LegalNature != nil {
		v := *a.LegalNature
		out.LegalNature = &v
	}
	if a.SalesAgent != nil {
		v := *a.SalesAgent
		out.SalesAgent = &v
	}
	if a.Configuration != nil {
		v := *a.Configuration
		out.Configuration = &v
	}
	if a.PixAccount != nil {
		v := *a.PixAccount
		out.PixAccount = &v
	}
	out.Contacts = make([]ContactAggregate, len(a.Contacts))
	for i, c := range a.Contacts {
		out.Contacts[i] = c
		if c.Address != nil {
			v := *c.Address
			out.Contacts[i].Address = &v
		}
	}
	return out
}

package importer

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Gobusters/ectologger"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/backoffice/pkg/database"
	"github.com/Ramsey-B/backoffice/pkg/models"
	"github.com/Ramsey-B/backoffice/pkg/tracing"
)

const writeTag = "write"

type table struct {
	name      string
	structure *database.Struct
}

var (
	addressTable  = table{models.Address{}.TableName(), database.NewStruct(new(models.Address))}
	merchantTable = table{models.Merchant{}.TableName(), database.NewStruct(new(models.Merchant))}
	contactTable  = table{models.Contact{}.TableName(), database.NewStruct(new(models.Contact))}
	pixTable      = table{models.MerchantPixAccount{}.TableName(), database.NewStruct(new(models.MerchantPixAccount))}

	slugTables = map[Entity]table{
		EntityCategory:      {models.Category{}.TableName(), database.NewStruct(new(models.Category))},
		EntityLegalNature:   {models.LegalNature{}.TableName(), database.NewStruct(new(models.LegalNature))},
		EntitySalesAgent:    {models.SalesAgent{}.TableName(), database.NewStruct(new(models.SalesAgent))},
		EntityConfiguration: {models.Configuration{}.TableName(), database.NewStruct(new(models.Configuration))},
		EntityMerchant:      merchantTable,
		EntityPixAccount:    pixTable,
	}
)

// resetTables are truncated together so foreign keys never block the reset.
var resetTables = []string{
	pixTable.name,
	contactTable.name,
	merchantTable.name,
	addressTable.name,
	slugTables[EntityCategory].name,
	slugTables[EntityLegalNature].name,
	slugTables[EntitySalesAgent].name,
	slugTables[EntityConfiguration].name,
}

// SQLStore is the postgres Store.
type SQLStore struct {
	db     database.DB
	logger ectologger.Logger
}

func NewSQLStore(db database.DB, logger ectologger.Logger) *SQLStore {
	return &SQLStore{db: db, logger: logger}
}

var _ Store = (*SQLStore)(nil)

func (s *SQLStore) conn(ctx context.Context) database.Querier {
	return database.Conn(ctx, s.db)
}

// InTx commits fn's writes together or not at all.
func (s *SQLStore) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, span := tracing.StartSpan(ctx, "SQLStore.InTx")
	defer span.End()

	return database.WithTx(ctx, s.db, func(ctx context.Context, _ database.Tx) error {
		return fn(ctx)
	})
}

func slugTable(entity Entity) (table, error) {
	t, ok := slugTables[entity]
	if !ok {
		return table{}, fmt.Errorf("%s is not keyed by slug", entity)
	}
	return t, nil
}

// EnsureBySlug relies on the unique slug constraint so concurrent runs cannot duplicate a row.
func (s *SQLStore) EnsureBySlug(ctx context.Context, entity Entity, rec models.SlugEntity) error {
	ctx, span := tracing.StartSpan(ctx, "SQLStore.EnsureBySlug")
	defer span.End()

	t, err := slugTable(entity)
	if err != nil {
		return err
	}

	ib := t.structure.InsertIntoWithTag(writeTag, t.name, rec)
	ib.OnConflictDoNothing("slug")

	query, args := ib.Build()
	result, err := s.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("insert %s %s: %w", entity, rec.GetBase().Slug, err)
	}

	if affected, _ := result.RowsAffected(); affected > 0 {
		s.logger.WithContext(ctx).WithField("slug", rec.GetBase().Slug).Debugf("Created %s", t.name)
	}
	return nil
}

func (s *SQLStore) LookupID(ctx context.Context, entity Entity, value string) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "SQLStore.LookupID")
	defer span.End()

	t, err := slugTable(entity)
	if err != nil {
		return 0, err
	}

	sb := database.NewSelectBuilder()
	sb.Select("id").From(t.name)
	sb.Where(sb.Equal("slug", value))

	query, args := sb.Build()
	var id int64
	err = s.guard(ctx, "lookup_id", func(ctx context.Context) error {
		return s.conn(ctx).GetContext(ctx, &id, query, args...)
	})
	if err != nil {
		return 0, fmt.Errorf("select %s id for %s: %w", entity, value, err)
	}
	return id, nil
}

func (s *SQLStore) InsertAddress(ctx context.Context, address *models.Address) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "SQLStore.InsertAddress")
	defer span.End()

	var id int64
	err := s.guard(ctx, "insert_address", func(ctx context.Context) error {
		var err error
		id, err = s.insertReturningID(ctx, addressTable, address)
		return err
	})
	return id, err
}

// guard runs fn under a savepoint when ctx carries a transaction, so a tolerated failure
// leaves the transaction usable.
func (s *SQLStore) guard(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	tx, ok := database.TxFromContext(ctx)
	if !ok {
		return fn(ctx)
	}
	return tx.Savepoint(ctx, name, fn)
}

func (s *SQLStore) InsertContact(ctx context.Context, contact *models.Contact) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "SQLStore.InsertContact")
	defer span.End()

	return s.insertReturningID(ctx, contactTable, contact)
}

func (s *SQLStore) insertReturningID(ctx context.Context, t table, row any) (int64, error) {
	ib := t.structure.InsertIntoWithTag(writeTag, t.name, row)
	ib.Returning("id")

	query, args := ib.Build()
	var id int64
	if err := s.conn(ctx).QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert %s: %w", t.name, err)
	}
	s.logger.WithContext(ctx).WithField("id", id).Debugf("Created %s", t.name)
	return id, nil
}

func (s *SQLStore) WriteMerchant(ctx context.Context, m *models.Merchant, policy OnConflict) (int64, Outcome, error) {
	ctx, span := tracing.StartSpan(ctx, "SQLStore.WriteMerchant")
	defer span.End()

	var previous sql.NullInt64
	if policy == OnConflictUpsert {
		var err error
		if previous, err = s.merchantAddressID(ctx, m.Slug); err != nil {
			return 0, "", err
		}
	}

	id, outcome, err := s.writeBySlug(ctx, merchantTable, EntityMerchant, m.Slug, m, policy)
	if err != nil {
		return 0, "", err
	}

	// The updated row points at the address inserted for this run, so the old one is dropped.
	if outcome == OutcomeUpdated && previous.Valid && (m.AddressID == nil || *m.AddressID != previous.Int64) {
		if err := s.deleteAddresses(ctx, previous.Int64); err != nil {
			return 0, "", err
		}
	}
	return id, outcome, nil
}

func (s *SQLStore) merchantAddressID(ctx context.Context, value string) (sql.NullInt64, error) {
	sb := database.NewSelectBuilder()
	sb.Select("address_id").From(merchantTable.name)
	sb.Where(sb.Equal("slug", value))

	query, args := sb.Build()
	var id sql.NullInt64
	err := s.conn(ctx).GetContext(ctx, &id, query, args...)
	if err != nil && !database.IsNotFound(err) {
		return id, fmt.Errorf("select address of merchant %s: %w", value, err)
	}
	return id, nil
}

func (s *SQLStore) deleteAddresses(ctx context.Context, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}
	values := make([]any, len(ids))
	for i, id := range ids {
		values[i] = id
	}

	del := addressTable.structure.DeleteFrom(addressTable.name)
	del.Where(del.In("id", values...))

	query, args := del.Build()
	if _, err := s.conn(ctx).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete replaced addresses: %w", err)
	}
	s.logger.WithContext(ctx).WithField("ids", ids).Debugf("Deleted replaced %s", addressTable.name)
	return nil
}

func (s *SQLStore) WritePixAccount(ctx context.Context, pix *models.MerchantPixAccount, policy OnConflict) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "SQLStore.WritePixAccount")
	defer span.End()

	id, _, err := s.writeBySlug(ctx, pixTable, EntityPixAccount, pix.Slug, pix, policy)
	return id, err
}

// writeBySlug inserts row and applies policy when its slug is taken.
func (s *SQLStore) writeBySlug(ctx context.Context, t table, entity Entity, value string, row any, policy OnConflict) (int64, Outcome, error) {
	ib := t.structure.InsertIntoWithTag(writeTag, t.name, row)

	switch policy {
	case OnConflictFail:
		ib.Returning("id")
	case OnConflictSkip:
		ib.OnConflictDoNothing("slug")
		ib.Returning("id")
	case OnConflictUpsert:
		ub := ib.OnConflict("slug")
		var assignments []string
		for _, column := range t.structure.ColumnsForTag(writeTag) {
			if column == "slug" {
				continue
			}
			assignments = append(assignments, ub.Assign(column, database.Excluded(column)))
		}
		assignments = append(assignments, ub.Assign("updated_at", sqlbuilder.Raw("NOW()")))
		ub.Set(assignments...)
		ib.Returning("id", "(xmax = 0)")
	default:
		return 0, "", fmt.Errorf("invalid on-conflict policy %q", policy)
	}

	query, args := ib.Build()
	scanner := s.conn(ctx).QueryRowContext(ctx, query, args...)

	var id int64
	var err error
	inserted := true
	if policy == OnConflictUpsert {
		err = scanner.Scan(&id, &inserted)
	} else {
		err = scanner.Scan(&id)
	}

	switch {
	case policy == OnConflictSkip && database.IsNotFound(err):
		id, err = s.LookupID(ctx, entity, value)
		if err != nil {
			return 0, "", err
		}
		return id, OutcomeSkipped, nil
	case database.IsUniqueViolation(err):
		return 0, "", fmt.Errorf("insert %s %s: %w", entity, value, ErrSlugConflict)
	case err != nil:
		return 0, "", fmt.Errorf("insert %s %s: %w", entity, value, err)
	}

	if inserted {
		s.logger.WithContext(ctx).WithFields(map[string]any{"id": id, "slug": value}).Debugf("Created %s", t.name)
		return id, OutcomeImported, nil
	}
	s.logger.WithContext(ctx).WithFields(map[string]any{"id": id, "slug": value}).Debugf("Updated %s", t.name)
	return id, OutcomeUpdated, nil
}

func (s *SQLStore) DeleteContacts(ctx context.Context, merchantID int64) error {
	ctx, span := tracing.StartSpan(ctx, "SQLStore.DeleteContacts")
	defer span.End()

	del := contactTable.structure.DeleteFrom(contactTable.name)
	del.Where(del.Equal("merchant_id", merchantID))
	del.SQL("RETURNING address_id")

	query, args := del.Build()
	var addressIDs []sql.NullInt64
	if err := s.conn(ctx).SelectContext(ctx, &addressIDs, query, args...); err != nil {
		return fmt.Errorf("delete contacts of merchant %d: %w", merchantID, err)
	}

	var orphaned []int64
	for _, id := range addressIDs {
		if id.Valid {
			orphaned = append(orphaned, id.Int64)
		}
	}
	return s.deleteAddresses(ctx, orphaned...)
}

func (s *SQLStore) Reset(ctx context.Context) error {
	ctx, span := tracing.StartSpan(ctx, "SQLStore.Reset")
	defer span.End()

	query := fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(resetTables, ", "))
	if _, err := s.conn(ctx).ExecContext(ctx, query); err != nil {
		return fmt.Errorf("truncate import tables: %w", err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

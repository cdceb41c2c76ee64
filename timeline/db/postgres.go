package db

import (
	"context"
	"database/sql"
	"net/url"
	"strconv"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // Import the postgres sql driver
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	_ "gopkg.in/mattes/migrate.v1/driver/postgres" // Import the postgres migrations driver
	"gopkg.in/mattes/migrate.v1/migrate"

	"github.com/weaveworks/subscription-timeline/common/dbwait"
	common_errors "github.com/weaveworks/subscription-timeline/common/errors"
	"github.com/weaveworks/subscription-timeline/timeline"
)

// postgres represents a connection to the database.
type postgres struct {
	dbProxy
	squirrel.StatementBuilderType
}

type dbProxy interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

const (
	tableBundles        = "bundles"
	tableEntitlements   = "entitlements"
	tableTransitions    = "transitions"
	tableBlockingStates = "blocking_states"
)

// newPostgres creates a database connection.
func newPostgres(databaseURI, migrationsDir string) (*postgres, error) {
	u, err := url.Parse(databaseURI)
	if err != nil {
		return nil, err
	}
	intOptions := map[string]int{
		"max_open_conns": 0,
		"max_idle_conns": 0,
	}
	query := u.Query()
	for k := range intOptions {
		if valStr := query.Get(k); valStr != "" {
			query.Del(k) // Delete these options so lib/pq doesn't panic
			val, err := strconv.ParseInt(valStr, 10, 32)
			if err != nil {
				return nil, errors.Wrapf(err, "parsing %s", k)
			}
			intOptions[k] = int(val)
		}
	}
	u.RawQuery = query.Encode()
	databaseURI = u.String()

	db, err := sqlx.Open("postgres", databaseURI)
	if err != nil {
		return nil, err
	}

	if err := dbwait.Wait(context.Background(), db.DB); err != nil {
		return nil, errors.Wrap(err, "cannot establish db connection")
	}

	if migrationsDir != "" {
		log.Infof("Running Database Migrations...")
		if errs, ok := migrate.UpSync(databaseURI, migrationsDir); !ok {
			for _, err := range errs {
				log.Error(err)
			}
			return nil, errors.New("Database migrations failed")
		}
	}

	db.SetMaxOpenConns(intOptions["max_open_conns"])
	db.SetMaxIdleConns(intOptions["max_idle_conns"])

	return &postgres{
		dbProxy:              db,
		StatementBuilderType: statementBuilder,
	}, nil
}

var statementBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func (d *postgres) Transaction(f func(DB) error) error {
	if _, ok := d.dbProxy.(*sqlx.Tx); ok {
		// Already in a nested transaction
		return f(d)
	}

	tx, err := d.dbProxy.(*sqlx.DB).Beginx()
	if err != nil {
		return err
	}
	err = f(&postgres{dbProxy: tx, StatementBuilderType: statementBuilder})
	if err != nil {
		// Rollback error is ignored as we already have one in progress
		if err2 := tx.Rollback(); err2 != nil {
			log.Warnf("transaction rollback: %v (ignored)", err2)
		}
		return err
	}
	return tx.Commit()
}

type bundleRow struct {
	ID              string    `db:"id"`
	AccountID       string    `db:"account_id"`
	ExternalKey     string    `db:"external_key"`
	AccountTimeZone string    `db:"account_time_zone"`
	CreatedAt       time.Time `db:"created_at"`
}

func (d *postgres) GetBundle(ctx context.Context, bundleID uuid.UUID) (*Bundle, error) {
	query, args, err := d.Select("id", "account_id", "external_key", "account_time_zone", "created_at").
		From(tableBundles).
		Where(squirrel.Eq{"id": bundleID.String()}).
		ToSql()
	if err != nil {
		return nil, err
	}
	var row bundleRow
	if err := d.GetContext(ctx, &row, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, common_errors.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get bundle %s", bundleID)
	}

	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, err
	}
	accountID, err := uuid.Parse(row.AccountID)
	if err != nil {
		return nil, err
	}
	return &Bundle{
		ID:              id,
		AccountID:       accountID,
		ExternalKey:     row.ExternalKey,
		AccountTimeZone: row.AccountTimeZone,
		CreatedAt:       row.CreatedAt,
	}, nil
}

// phaseColumns are the nullable columns describing a phase.
type phaseColumns struct {
	Name      sql.NullString
	Plan      sql.NullString
	Product   sql.NullString
	PriceList sql.NullString
}

func (p phaseColumns) phase() *timeline.Phase {
	if !p.Name.Valid {
		return nil
	}
	return &timeline.Phase{Name: p.Name.String, Plan: p.Plan.String, Product: p.Product.String, PriceList: p.PriceList.String}
}

func phaseValues(p *timeline.Phase) []interface{} {
	if p == nil {
		return []interface{}{nil, nil, nil, nil}
	}
	return []interface{}{p.Name, p.Plan, p.Product, p.PriceList}
}

type transitionRow struct {
	EntitlementID string    `db:"entitlement_id"`
	TotalOrdering int64     `db:"total_ordering"`
	Type          string    `db:"type"`
	RequestedTime time.Time `db:"requested_time"`
	EffectiveTime time.Time `db:"effective_time"`
	CreatedTime   time.Time `db:"created_time"`

	PrevPhase     sql.NullString `db:"prev_phase"`
	PrevPlan      sql.NullString `db:"prev_plan"`
	PrevProduct   sql.NullString `db:"prev_product"`
	PrevPriceList sql.NullString `db:"prev_price_list"`
	NextPhase     sql.NullString `db:"next_phase"`
	NextPlan      sql.NullString `db:"next_plan"`
	NextProduct   sql.NullString `db:"next_product"`
	NextPriceList sql.NullString `db:"next_price_list"`
}

var transitionColumns = []string{
	"entitlement_id", "total_ordering", "type", "requested_time", "effective_time", "created_time",
	"prev_phase", "prev_plan", "prev_product", "prev_price_list",
	"next_phase", "next_plan", "next_product", "next_price_list",
}

func (r transitionRow) transition(entitlementID uuid.UUID) timeline.Transition {
	return timeline.Transition{
		EntitlementID: entitlementID,
		Type:          timeline.TransitionType(r.Type),
		RequestedTime: r.RequestedTime,
		EffectiveTime: r.EffectiveTime,
		CreatedTime:   r.CreatedTime,
		TotalOrdering: r.TotalOrdering,
		PrevPhase:     phaseColumns{r.PrevPhase, r.PrevPlan, r.PrevProduct, r.PrevPriceList}.phase(),
		NextPhase:     phaseColumns{r.NextPhase, r.NextPlan, r.NextProduct, r.NextPriceList}.phase(),
	}
}

func (d *postgres) GetEntitlements(ctx context.Context, bundleID uuid.UUID) ([]timeline.Entitlement, error) {
	query, args, err := d.Select("id").
		From(tableEntitlements).
		Where(squirrel.Eq{"bundle_id": bundleID.String()}).
		OrderBy("seq").
		ToSql()
	if err != nil {
		return nil, err
	}
	var ids []string
	if err := d.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, errors.Wrapf(err, "get entitlements of bundle %s", bundleID)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err = d.Select(transitionColumns...).
		From(tableTransitions).
		Where(squirrel.Eq{"entitlement_id": ids}).
		OrderBy("total_ordering").
		ToSql()
	if err != nil {
		return nil, err
	}
	var rows []transitionRow
	if err := d.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrapf(err, "get transitions of bundle %s", bundleID)
	}

	result := make([]timeline.Entitlement, len(ids))
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, err
		}
		result[i].ID = parsed
		index[id] = i
	}
	for _, row := range rows {
		i := index[row.EntitlementID]
		result[i].Transitions = append(result[i].Transitions, row.transition(result[i].ID))
	}
	return result, nil
}

type blockingStateRow struct {
	ID               string    `db:"id"`
	BlockedID        string    `db:"blocked_id"`
	Type             string    `db:"type"`
	State            string    `db:"state"`
	Service          string    `db:"service"`
	BlockChange      bool      `db:"block_change"`
	BlockEntitlement bool      `db:"block_entitlement"`
	BlockBilling     bool      `db:"block_billing"`
	EffectiveTime    time.Time `db:"effective_time"`
	CreatedTime      time.Time `db:"created_time"`
	UpdatedTime      time.Time `db:"updated_time"`
}

var blockingStateColumns = []string{
	"id", "blocked_id", "type", "state", "service",
	"block_change", "block_entitlement", "block_billing",
	"effective_time", "created_time", "updated_time",
}

func (d *postgres) GetBlockingStates(ctx context.Context, accountID, bundleID uuid.UUID, entitlementIDs []uuid.UUID) ([]timeline.BlockingState, error) {
	scopes := squirrel.Or{
		squirrel.Eq{"type": string(timeline.BlockingAccount), "blocked_id": accountID.String()},
		squirrel.Eq{"type": string(timeline.BlockingBundle), "blocked_id": bundleID.String()},
	}
	if len(entitlementIDs) > 0 {
		ids := make([]string, len(entitlementIDs))
		for i, id := range entitlementIDs {
			ids[i] = id.String()
		}
		scopes = append(scopes, squirrel.Eq{"type": string(timeline.BlockingSubscription), "blocked_id": ids})
	}
	query, args, err := d.Select(blockingStateColumns...).
		From(tableBlockingStates).
		Where(scopes).
		OrderBy("effective_time", "created_time", "id").
		ToSql()
	if err != nil {
		return nil, err
	}
	var rows []blockingStateRow
	if err := d.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrapf(err, "get blocking states of bundle %s", bundleID)
	}

	result := make([]timeline.BlockingState, 0, len(rows))
	for _, row := range rows {
		id, err := uuid.Parse(row.ID)
		if err != nil {
			return nil, err
		}
		blockedID, err := uuid.Parse(row.BlockedID)
		if err != nil {
			return nil, err
		}
		result = append(result, timeline.BlockingState{
			ID:               id,
			BlockedID:        blockedID,
			Type:             timeline.BlockingStateType(row.Type),
			StateName:        row.State,
			Service:          row.Service,
			BlockChange:      row.BlockChange,
			BlockEntitlement: row.BlockEntitlement,
			BlockBilling:     row.BlockBilling,
			EffectiveTime:    row.EffectiveTime,
			CreatedTime:      row.CreatedTime,
			UpdatedTime:      row.UpdatedTime,
		})
	}
	return result, nil
}

func (d *postgres) InsertBundle(ctx context.Context, bundle Bundle) error {
	createdAt := bundle.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	query, args, err := d.Insert(tableBundles).
		Columns("id", "account_id", "external_key", "account_time_zone", "created_at").
		Values(bundle.ID.String(), bundle.AccountID.String(), bundle.ExternalKey, bundle.AccountTimeZone, createdAt).
		ToSql()
	if err != nil {
		return err
	}
	_, err = d.ExecContext(ctx, query, args...)
	return errors.Wrapf(err, "insert bundle %s", bundle.ID)
}

func (d *postgres) InsertEntitlement(ctx context.Context, bundleID uuid.UUID, entitlement timeline.Entitlement) error {
	query, args, err := d.Insert(tableEntitlements).
		Columns("id", "bundle_id").
		Values(entitlement.ID.String(), bundleID.String()).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
	if err != nil {
		return err
	}
	if _, err := d.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "insert entitlement %s", entitlement.ID)
	}
	if len(entitlement.Transitions) == 0 {
		return nil
	}

	insert := d.Insert(tableTransitions).Columns(transitionColumns...)
	for _, tr := range entitlement.Transitions {
		values := []interface{}{
			entitlement.ID.String(), tr.TotalOrdering, string(tr.Type), tr.RequestedTime, tr.EffectiveTime, tr.CreatedTime,
		}
		values = append(values, phaseValues(tr.PrevPhase)...)
		values = append(values, phaseValues(tr.NextPhase)...)
		insert = insert.Values(values...)
	}
	query, args, err = insert.ToSql()
	if err != nil {
		return err
	}
	_, err = d.ExecContext(ctx, query, args...)
	return errors.Wrapf(err, "insert transitions of entitlement %s", entitlement.ID)
}

func (d *postgres) InsertBlockingStates(ctx context.Context, states []timeline.BlockingState) error {
	if len(states) == 0 {
		return nil
	}
	insert := d.Insert(tableBlockingStates).Columns(blockingStateColumns...)
	for _, bs := range states {
		insert = insert.Values(
			bs.ID.String(), bs.BlockedID.String(), string(bs.Type), bs.StateName, bs.Service,
			bs.BlockChange, bs.BlockEntitlement, bs.BlockBilling,
			bs.EffectiveTime, bs.CreatedTime, bs.UpdatedTime,
		)
	}
	query, args, err := insert.ToSql()
	if err != nil {
		return err
	}
	_, err = d.ExecContext(ctx, query, args...)
	return errors.Wrap(err, "insert blocking states")
}

func (d *postgres) Close(_ context.Context) error {
	if db, ok := d.dbProxy.(interface {
		Close() error
	}); ok {
		return db.Close()
	}
	return nil
}

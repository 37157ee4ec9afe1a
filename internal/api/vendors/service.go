package vendors

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"

	"jessica-sub/internal/api/activity"
	"jessica-sub/internal/common/errors"
	"jessica-sub/internal/common/logger"
)

const (
	ActionVendorAdded   = "vendor_added"
	ActionVendorRemoved = "vendor_removed"
)

const listQuery = `
	SELECT id, user_id, name, phone, trade, city, state, country, created_at
	FROM preferred_vendors
	WHERE user_id = $1
	ORDER BY created_at DESC`

const getQuery = `
	SELECT id, user_id, name, phone, trade, city, state, country, created_at
	FROM preferred_vendors
	WHERE id = $1 AND user_id = $2`

const insertQuery = `
	INSERT INTO preferred_vendors (user_id, name, phone, trade, city, state, country)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, user_id, name, phone, trade, city, state, country, created_at`

const findByIDQuery = `
	SELECT id, name, trade
	FROM preferred_vendors
	WHERE id = $1 AND user_id = $2`

const findByNameQuery = `
	SELECT id, name, trade
	FROM preferred_vendors
	WHERE user_id = $1 AND LOWER(name) = LOWER($2)
	ORDER BY created_at DESC
	LIMIT 1`

const deleteQuery = `DELETE FROM preferred_vendors WHERE id = $1`

const searchQuery = `
	SELECT id, name, trade, city, state, country
	FROM preferred_vendors
	WHERE LOWER(name) LIKE $1 ESCAPE '\'
	AND ($2 = '' OR user_id = $2)
	ORDER BY name ASC
	LIMIT $3`

type Service struct {
	db     *sql.DB
	cache  *vendorCache
	logger logger.Logger
	config *Config
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	log := logger.OrNoOp(deps.Logger)
	return &Service{
		db:     deps.DB,
		cache:  newVendorCache(deps.Cache, config.CacheTTL, log),
		logger: log,
		config: config,
	}
}

// List returns a user's preferred vendors, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]Vendor, error) {
	list, version, ok := s.cache.get(ctx, userID)
	if ok {
		return list, nil
	}

	qctx, cancel := context.WithTimeout(ctx, s.config.QueryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(qctx, listQuery, userID)
	if err != nil {
		return nil, queryError(qctx, "vendors.list", err)
	}
	defer rows.Close()

	list = []Vendor{}
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, errors.NewQueryExecutionFailedError("vendors.list", err)
		}
		list = append(list, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError(qctx, "vendors.list", err)
	}

	s.cache.set(ctx, userID, version, list)
	return list, nil
}

// Get returns one of the user's vendors.
func (s *Service) Get(ctx context.Context, userID string, id int64) (*Vendor, error) {
	qctx, cancel := context.WithTimeout(ctx, s.config.QueryTimeout)
	defer cancel()

	v, err := scanVendor(s.db.QueryRowContext(qctx, getQuery, id, userID))
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewVendorNotFoundError(fmt.Sprintf("vendor %d not found", id))
	}
	if err != nil {
		return nil, queryError(qctx, "vendors.get", err)
	}
	return v, nil
}

// Add stores a vendor and records a vendor_added activity in the same
// transaction. The country comes from the phone number when there is one.
func (s *Service) Add(ctx context.Context, req *AddRequest) (*Vendor, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errors.NewValidationFailedError("name: must not be blank")
	}

	city, state, country := NormalizeLocation(deref(req.City), deref(req.State), deref(req.Country))
	if detected, ok := DetectCountry(deref(req.Phone)); ok {
		country = detected
	}
	phone := strings.TrimSpace(deref(req.Phone))
	trade := strings.TrimSpace(deref(req.Trade))

	qctx, cancel := context.WithTimeout(ctx, s.config.QueryTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(qctx, nil)
	if err != nil {
		return nil, errors.NewDatabaseConnectionFailedError(err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(qctx, insertQuery,
		req.UserID, name, nullString(phone), nullString(trade),
		nullString(city), nullString(state), nullString(country))
	v, err := scanVendor(row)
	if err != nil {
		if qctx.Err() == context.DeadlineExceeded {
			return nil, errors.NewQueryTimeoutError("vendors.add")
		}
		return nil, errors.NewVendorInsertFailedError(err)
	}

	payload := map[string]interface{}{
		"vendor_id": v.ID,
		"name":      v.Name,
		"trade":     v.Trade,
		"city":      v.City,
		"state":     v.State,
		"country":   v.Country,
	}
	if err := activity.Insert(qctx, tx, req.UserID, "", ActionVendorAdded, payload); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, queryError(qctx, "vendors.add", err)
	}

	s.cache.invalidate(ctx, req.UserID)
	s.logger.Info("Vendor added", map[string]interface{}{
		"userId":   req.UserID,
		"vendorId": v.ID,
		"country":  country,
	})
	return v, nil
}

// Remove deletes a vendor by id, or by name when no id is given. Removing a
// vendor that does not exist still succeeds.
func (s *Service) Remove(ctx context.Context, req *RemoveRequest) (*RemoveResponse, error) {
	var name string
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
	}
	if req.ID == nil && name == "" {
		return nil, errors.NewValidationFailedError("Missing vendor id")
	}

	qctx, cancel := context.WithTimeout(ctx, s.config.QueryTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(qctx, nil)
	if err != nil {
		return nil, errors.NewDatabaseConnectionFailedError(err)
	}
	defer tx.Rollback()

	var row *sql.Row
	if req.ID != nil {
		row = tx.QueryRowContext(qctx, findByIDQuery, *req.ID, req.UserID)
	} else {
		row = tx.QueryRowContext(qctx, findByNameQuery, req.UserID, name)
	}

	var (
		id          int64
		vendorName  string
		vendorTrade sql.NullString
	)
	err = row.Scan(&id, &vendorName, &vendorTrade)
	switch {
	case stderrors.Is(err, sql.ErrNoRows):
		s.logger.Debug("Vendor to remove not found", map[string]interface{}{
			"userId": req.UserID,
			"name":   name,
		})
		return &RemoveResponse{Status: "deleted", ID: req.ID}, nil
	case err != nil:
		return nil, queryError(qctx, "vendors.remove", err)
	}

	payload := map[string]interface{}{
		"vendor_id": id,
		"name":      vendorName,
		"trade":     nullablePtr(vendorTrade),
	}
	if err := activity.Insert(qctx, tx, req.UserID, "", ActionVendorRemoved, payload); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(qctx, deleteQuery, id); err != nil {
		return nil, queryError(qctx, "vendors.remove", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, queryError(qctx, "vendors.remove", err)
	}

	s.cache.invalidate(ctx, req.UserID)
	s.logger.Info("Vendor removed", map[string]interface{}{
		"userId":   req.UserID,
		"vendorId": id,
	})
	return &RemoveResponse{Status: "deleted", ID: &id}, nil
}

// Search matches vendor names case-insensitively for autocomplete. Queries
// shorter than the configured minimum return nothing. An empty userID
// searches every user's vendors.
func (s *Service) Search(ctx context.Context, q, userID string) ([]SearchResult, error) {
	q = strings.ToLower(strings.TrimSpace(q))
	if len([]rune(q)) < s.config.SearchMinQuery {
		return []SearchResult{}, nil
	}

	qctx, cancel := context.WithTimeout(ctx, s.config.QueryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(qctx, searchQuery, "%"+escapeLike(q)+"%", userID, s.config.SearchLimit)
	if err != nil {
		return nil, queryError(qctx, "vendors.search", err)
	}
	defer rows.Close()

	results := []SearchResult{}
	for rows.Next() {
		var (
			r                           SearchResult
			trade, city, state, country sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Name, &trade, &city, &state, &country); err != nil {
			return nil, errors.NewQueryExecutionFailedError("vendors.search", err)
		}
		r.Trade, r.City, r.State, r.Country = nullablePtr(trade), nullablePtr(city), nullablePtr(state), nullablePtr(country)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError(qctx, "vendors.search", err)
	}
	return results, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanVendor(row scanner) (*Vendor, error) {
	var (
		v                                  Vendor
		phone, trade, city, state, country sql.NullString
	)
	if err := row.Scan(&v.ID, &v.UserID, &v.Name, &phone, &trade, &city, &state, &country, &v.CreatedAt); err != nil {
		return nil, err
	}
	v.Phone = nullablePtr(phone)
	v.Trade = nullablePtr(trade)
	v.City = nullablePtr(city)
	v.State = nullablePtr(state)
	v.Country = nullablePtr(country)
	return &v, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullablePtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func queryError(ctx context.Context, queryType string, err error) error {
	if ctx.Err() == context.DeadlineExceeded {
		return errors.NewQueryTimeoutError(queryType)
	}
	return errors.NewQueryExecutionFailedError(queryType, err)
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Simplici0/giftquote/internal/db"
	"github.com/Simplici0/giftquote/internal/quote"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrStaleStatus = errors.New("quote status changed concurrently")
)

const (
	timeLayout         = "2006-01-02T15:04:05.000000Z07:00"
	firstQuoteNumber   = 1000
	quoteSelectColumns = `
		id, number, customer_name, customer_company, customer_email, customer_phone,
		notes, delivery_date, status,
		budget_before_vat, budget_with_vat, package_quantity, profit_target, agent_commission, agent,
		shipping_cost, include_shipping, options_json,
		manager_notes, approved_option_id, signer_name, signature_key, pdf_key,
		created_at, updated_at`
)

// Quotes persists quote records.
type Quotes struct {
	db     *sql.DB
	driver string
	now    func() time.Time
}

// NewQuotes returns a quote store for a database opened with driver.
func NewQuotes(database *sql.DB, driver string) *Quotes {
	return &Quotes{db: database, driver: driver, now: time.Now}
}

// Summary is the list view of a quote.
type Summary struct {
	ID              string       `json:"id"`
	Number          int          `json:"number"`
	CustomerName    string       `json:"customerName"`
	CustomerCompany string       `json:"customerCompany"`
	Status          quote.Status `json:"status"`
	BudgetBeforeVAT float64      `json:"budgetBeforeVat"`
	OptionCount     int          `json:"optionCount"`
	CreatedAt       time.Time    `json:"createdAt"`
}

// Approval is a customer's signed acceptance of one option.
type Approval struct {
	OptionID     string
	SignerName   string
	SignatureKey string
	PDFKey       string
}

func (s *Quotes) rebind(query string) string {
	return db.Rebind(s.driver, query)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func nextQuoteNumber(ctx context.Context, q queryRower) (int, error) {
	var n int
	query := fmt.Sprintf(`SELECT COALESCE(MAX(number), %d) + 1 FROM quotes`, firstQuoteNumber)
	if err := q.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("query next quote number: %w", err)
	}
	return n, nil
}

// Create inserts q with a fresh id and quote number and returns the stored
// record.
func (s *Quotes) Create(ctx context.Context, q quote.Quote) (quote.Quote, error) {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	if q.Status == "" {
		q.Status = quote.StatusAwaitingQuote
	}
	if q.Options == nil {
		q.Options = []quote.Option{}
	}
	now := s.now().UTC()
	q.CreatedAt, q.UpdatedAt = now, now

	optionsJSON, err := json.Marshal(q.Options)
	if err != nil {
		return quote.Quote{}, fmt.Errorf("encode quote options: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return quote.Quote{}, fmt.Errorf("begin create quote transaction: %w", err)
	}

	number, err := nextQuoteNumber(ctx, tx)
	if err != nil {
		_ = tx.Rollback()
		return quote.Quote{}, err
	}
	q.Number = number

	_, err = tx.ExecContext(ctx, s.rebind(`
		INSERT INTO quotes (
			id, number, customer_name, customer_company, customer_email, customer_phone,
			notes, delivery_date, status,
			budget_before_vat, budget_with_vat, package_quantity, profit_target, agent_commission, agent,
			shipping_cost, include_shipping, options_json,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`),
		q.ID, q.Number, q.Customer.Name, q.Customer.Company, q.Customer.Email, q.Customer.Phone,
		q.Notes, q.DeliveryDate, string(q.Status),
		q.Context.BudgetBeforeVAT, q.Context.BudgetWithVAT, nullableQuantity(q.Context.PackageQuantity),
		toFraction(q.Context.ProfitTarget), toFraction(q.Context.AgentCommission), q.Context.Agent,
		q.Context.Shipping.Cost, q.Context.Shipping.IncludeShipping, string(optionsJSON),
		formatTime(now), formatTime(now),
	)
	if err != nil {
		_ = tx.Rollback()
		return quote.Quote{}, fmt.Errorf("insert quote: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return quote.Quote{}, fmt.Errorf("commit create quote transaction: %w", err)
	}
	return q, nil
}

// Get loads a quote by id.
func (s *Quotes) Get(ctx context.Context, id string) (quote.Quote, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+quoteSelectColumns+` FROM quotes WHERE id = ?`), id)
	q, err := scanQuote(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return quote.Quote{}, fmt.Errorf("quote %s: %w", id, ErrNotFound)
		}
		return quote.Quote{}, fmt.Errorf("query quote: %w", err)
	}
	return q, nil
}

// List returns quotes newest first. A non-empty query filters on customer
// name, company, notes and quote number.
func (s *Quotes) List(ctx context.Context, query string) ([]Summary, error) {
	query = strings.TrimSpace(query)
	search := "%" + strings.ToLower(query) + "%"
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT id, number, customer_name, customer_company, status, budget_before_vat, options_json, created_at
		FROM quotes
		WHERE (? = ''
			OR LOWER(customer_name) LIKE ?
			OR LOWER(customer_company) LIKE ?
			OR LOWER(notes) LIKE ?
			OR CAST(number AS TEXT) LIKE ?)
		ORDER BY created_at DESC, number DESC
	`), query, search, search, search, search)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	summaries := make([]Summary, 0)
	for rows.Next() {
		var (
			item        Summary
			status      string
			optionsJSON string
			createdAt   string
		)
		if err := rows.Scan(&item.ID, &item.Number, &item.CustomerName, &item.CustomerCompany, &status, &item.BudgetBeforeVAT, &optionsJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scan quote summary: %w", err)
		}
		item.Status = quote.Status(status)
		item.OptionCount = countOptions(optionsJSON)
		item.CreatedAt = parseTime(createdAt)
		summaries = append(summaries, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quotes: %w", err)
	}
	return summaries, nil
}

// Save stores the editable parts of q: customer, notes, context and options.
// It fails with ErrStaleStatus when the stored status is no longer q.Status,
// so an edit never lands on a quote that moved on meanwhile.
func (s *Quotes) Save(ctx context.Context, q quote.Quote) (quote.Quote, error) {
	if q.Options == nil {
		q.Options = []quote.Option{}
	}
	optionsJSON, err := json.Marshal(q.Options)
	if err != nil {
		return quote.Quote{}, fmt.Errorf("encode quote options: %w", err)
	}
	q.UpdatedAt = s.now().UTC()

	result, err := s.db.ExecContext(ctx, s.rebind(`
		UPDATE quotes
		SET
			customer_name = ?,
			customer_company = ?,
			customer_email = ?,
			customer_phone = ?,
			notes = ?,
			delivery_date = ?,
			budget_before_vat = ?,
			budget_with_vat = ?,
			package_quantity = ?,
			profit_target = ?,
			agent_commission = ?,
			agent = ?,
			shipping_cost = ?,
			include_shipping = ?,
			options_json = ?,
			updated_at = ?
		WHERE id = ? AND status = ?
	`),
		q.Customer.Name, q.Customer.Company, q.Customer.Email, q.Customer.Phone,
		q.Notes, q.DeliveryDate,
		q.Context.BudgetBeforeVAT, q.Context.BudgetWithVAT, nullableQuantity(q.Context.PackageQuantity),
		toFraction(q.Context.ProfitTarget), toFraction(q.Context.AgentCommission), q.Context.Agent,
		q.Context.Shipping.Cost, q.Context.Shipping.IncludeShipping, string(optionsJSON),
		formatTime(q.UpdatedAt), q.ID, string(q.Status),
	)
	if err != nil {
		return quote.Quote{}, fmt.Errorf("update quote: %w", err)
	}
	if err := s.checkStatusUpdate(ctx, result, q.ID); err != nil {
		return quote.Quote{}, err
	}
	return q, nil
}

// UpdateStatus moves a quote from one status to another. It fails with
// ErrStaleStatus when the stored status is no longer from.
func (s *Quotes) UpdateStatus(ctx context.Context, id string, from, to quote.Status) error {
	result, err := s.db.ExecContext(ctx, s.rebind(`
		UPDATE quotes SET status = ?, updated_at = ? WHERE id = ? AND status = ?
	`), string(to), formatTime(s.now().UTC()), id, string(from))
	if err != nil {
		return fmt.Errorf("update quote status: %w", err)
	}
	return s.checkStatusUpdate(ctx, result, id)
}

// SetManagerNotes stores the manager's review notes.
func (s *Quotes) SetManagerNotes(ctx context.Context, id, notes string) error {
	result, err := s.db.ExecContext(ctx, s.rebind(`
		UPDATE quotes SET manager_notes = ?, updated_at = ? WHERE id = ?
	`), notes, formatTime(s.now().UTC()), id)
	if err != nil {
		return fmt.Errorf("update manager notes: %w", err)
	}
	return requireAffected(result, id)
}

// RecordApproval stores the customer's signed choice and marks the quote
// approved. The quote must currently be in status from.
func (s *Quotes) RecordApproval(ctx context.Context, id string, from quote.Status, a Approval) error {
	result, err := s.db.ExecContext(ctx, s.rebind(`
		UPDATE quotes
		SET
			status = ?,
			approved_option_id = ?,
			signer_name = ?,
			signature_key = ?,
			pdf_key = CASE WHEN ? = '' THEN pdf_key ELSE ? END,
			updated_at = ?
		WHERE id = ? AND status = ?
	`),
		string(quote.StatusApproved), a.OptionID, a.SignerName, a.SignatureKey,
		a.PDFKey, a.PDFKey, formatTime(s.now().UTC()), id, string(from),
	)
	if err != nil {
		return fmt.Errorf("record quote approval: %w", err)
	}
	return s.checkStatusUpdate(ctx, result, id)
}

// SetPDFKey stores where the latest rendered document lives.
func (s *Quotes) SetPDFKey(ctx context.Context, id, key string) error {
	result, err := s.db.ExecContext(ctx, s.rebind(`
		UPDATE quotes SET pdf_key = ?, updated_at = ? WHERE id = ?
	`), key, formatTime(s.now().UTC()), id)
	if err != nil {
		return fmt.Errorf("update quote pdf key: %w", err)
	}
	return requireAffected(result, id)
}

func (s *Quotes) checkStatusUpdate(ctx context.Context, result sql.Result, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("read affected rows: %w", err)
	}
	if affected > 0 {
		return nil
	}

	var exists bool
	if err := s.db.QueryRowContext(ctx, s.rebind(`SELECT EXISTS(SELECT 1 FROM quotes WHERE id = ?)`), id).Scan(&exists); err != nil {
		return fmt.Errorf("check quote existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("quote %s: %w", id, ErrNotFound)
	}
	return fmt.Errorf("quote %s: %w", id, ErrStaleStatus)
}

func requireAffected(result sql.Result, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("quote %s: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuote(row rowScanner) (quote.Quote, error) {
	var (
		q               quote.Quote
		status          string
		quantity        sql.NullInt64
		profitTarget    float64
		agentCommission float64
		optionsJSON     string
		createdAt       string
		updatedAt       string
	)
	err := row.Scan(
		&q.ID, &q.Number, &q.Customer.Name, &q.Customer.Company, &q.Customer.Email, &q.Customer.Phone,
		&q.Notes, &q.DeliveryDate, &status,
		&q.Context.BudgetBeforeVAT, &q.Context.BudgetWithVAT, &quantity, &profitTarget, &agentCommission, &q.Context.Agent,
		&q.Context.Shipping.Cost, &q.Context.Shipping.IncludeShipping, &optionsJSON,
		&q.ManagerNotes, &q.ApprovedOptionID, &q.SignerName, &q.SignatureKey, &q.PDFKey,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return quote.Quote{}, err
	}

	q.Status = quote.Status(status)
	if !q.Status.Valid() {
		return quote.Quote{}, fmt.Errorf("quote %s has unknown status %q", q.ID, status)
	}
	if quantity.Valid {
		n := int(quantity.Int64)
		q.Context.PackageQuantity = &n
	}
	q.Context.ProfitTarget = fromFraction(profitTarget)
	q.Context.AgentCommission = fromFraction(agentCommission)
	q.CreatedAt = parseTime(createdAt)
	q.UpdatedAt = parseTime(updatedAt)

	if err := json.Unmarshal([]byte(optionsJSON), &q.Options); err != nil {
		return quote.Quote{}, fmt.Errorf("decode quote options: %w", err)
	}
	if q.Options == nil {
		q.Options = []quote.Option{}
	}
	return q, nil
}

func countOptions(optionsJSON string) int {
	var opts []json.RawMessage
	if err := json.Unmarshal([]byte(optionsJSON), &opts); err != nil {
		return 0
	}
	return len(opts)
}

// Percentages are stored as fractions of one.
func toFraction(percent float64) float64 {
	return percent / 100
}

func fromFraction(fraction float64) float64 {
	return quote.Round2(fraction * 100)
}

func nullableQuantity(q *int) any {
	if q == nil {
		return nil
	}
	return int64(*q)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"frontdesk/internal/database"
	"frontdesk/internal/models"
)

// EscalationStore is the persistent record of callers, help requests and
// knowledge base entries. It is the sole synchronization point for the
// escalation lifecycle: both terminal transitions are conditional updates
// keyed on the current PENDING status, so concurrent resolve/expire racers
// settle at row granularity and exactly one wins.
type EscalationStore struct {
	db *database.DB
}

// NewEscalationStore creates a new escalation store
func NewEscalationStore(db *database.DB) *EscalationStore {
	return &EscalationStore{db: db}
}

// FindCallerByPhone returns the caller for a phone number, or nil when the
// phone has not been seen before.
func (s *EscalationStore) FindCallerByPhone(ctx context.Context, phone string) (*models.Caller, error) {
	var c models.Caller
	err := s.db.QueryRowContext(ctx,
		`SELECT id, phone, name, metadata FROM callers WHERE phone = ?`, phone,
	).Scan(&c.ID, &c.Phone, &c.Name, &c.Metadata)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up caller: %w", err)
	}
	return &c, nil
}

// CreateCaller inserts a new caller identity record
func (s *EscalationStore) CreateCaller(ctx context.Context, phone, name, metadata string) (*models.Caller, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO callers (phone, name, metadata) VALUES (?, ?, ?)`,
		phone, name, metadata,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create caller: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read caller id: %w", err)
	}
	return &models.Caller{ID: id, Phone: phone, Name: name, Metadata: metadata}, nil
}

// CreateHelpRequest inserts a PENDING help request. The timeout deadline is
// fixed here and never recomputed.
func (s *EscalationStore) CreateHelpRequest(ctx context.Context, callerID int64, questionText string, createdAt, timeoutAt time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO help_requests (caller_id, question_text, status, created_at, updated_at, timeout_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		callerID, questionText, models.StatusPending, createdAt, createdAt, timeoutAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create help request: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read help request id: %w", err)
	}
	return id, nil
}

// GetHelpRequest returns a single help request by id
func (s *EscalationStore) GetHelpRequest(ctx context.Context, id int64) (*models.HelpRequest, error) {
	var hr models.HelpRequest
	var supervisorID, resolutionText sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, caller_id, question_text, status, created_at, updated_at, timeout_at, supervisor_id, resolution_text
		 FROM help_requests WHERE id = ?`, id,
	).Scan(&hr.ID, &hr.CallerID, &hr.QuestionText, &hr.Status,
		&hr.CreatedAt, &hr.UpdatedAt, &hr.TimeoutAt, &supervisorID, &resolutionText)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load help request: %w", err)
	}
	if supervisorID.Valid {
		hr.SupervisorID = &supervisorID.String
	}
	if resolutionText.Valid {
		hr.ResolutionText = &resolutionText.String
	}
	return &hr, nil
}

// GetHelpRequestDetail returns a help request joined with its caller
func (s *EscalationStore) GetHelpRequestDetail(ctx context.Context, id int64) (*models.HelpRequestDetail, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT hr.id, hr.caller_id, hr.question_text, hr.status, hr.created_at, hr.updated_at,
		        hr.timeout_at, hr.supervisor_id, hr.resolution_text, c.phone, c.name
		 FROM help_requests hr
		 JOIN callers c ON hr.caller_id = c.id
		 WHERE hr.id = ?`, id)

	detail, err := scanHelpRequestDetail(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load help request detail: %w", err)
	}
	return detail, nil
}

// ListHelpRequests returns caller-joined help requests, newest first,
// optionally filtered by status. This is the pull-based reconciliation read
// for dashboards that missed live events.
func (s *EscalationStore) ListHelpRequests(ctx context.Context, status string) ([]*models.HelpRequestDetail, error) {
	query := `SELECT hr.id, hr.caller_id, hr.question_text, hr.status, hr.created_at, hr.updated_at,
	                 hr.timeout_at, hr.supervisor_id, hr.resolution_text, c.phone, c.name
	          FROM help_requests hr
	          JOIN callers c ON hr.caller_id = c.id`

	var args []interface{}
	if status != "" {
		query += ` WHERE hr.status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY hr.created_at DESC, hr.id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list help requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.HelpRequestDetail
	for rows.Next() {
		detail, err := scanHelpRequestDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan help request: %w", err)
		}
		requests = append(requests, detail)
	}
	return requests, rows.Err()
}

// ResolveHelpRequest transitions a request to RESOLVED if and only if it is
// still PENDING. Returns false when the conditional update matched zero rows,
// meaning the request was already finalized (or never existed).
func (s *EscalationStore) ResolveHelpRequest(ctx context.Context, id int64, supervisorID, resolutionText string, now time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE help_requests
		 SET status = ?, resolution_text = ?, supervisor_id = ?, updated_at = ?
		 WHERE id = ? AND status = ?`,
		models.StatusResolved, resolutionText, supervisorID, now, id, models.StatusPending,
	)
	if err != nil {
		return false, fmt.Errorf("failed to resolve help request: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n == 1, nil
}

// ExpireHelpRequest transitions a request to UNRESOLVED if it is still
// PENDING. Returns false when a concurrent resolve won the race.
func (s *EscalationStore) ExpireHelpRequest(ctx context.Context, id int64, now time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE help_requests SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		models.StatusUnresolved, now, id, models.StatusPending,
	)
	if err != nil {
		return false, fmt.Errorf("failed to expire help request: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n == 1, nil
}

// ListExpiredPending returns all PENDING requests whose deadline has passed.
// Already-transitioned rows drop out of the predicate, which makes repeated
// sweeps idempotent.
func (s *EscalationStore) ListExpiredPending(ctx context.Context, now time.Time) ([]*models.HelpRequest, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, caller_id, question_text, status, created_at, updated_at, timeout_at
		 FROM help_requests
		 WHERE status = ? AND timeout_at < ?`,
		models.StatusPending, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query expired requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.HelpRequest
	for rows.Next() {
		var hr models.HelpRequest
		if err := rows.Scan(&hr.ID, &hr.CallerID, &hr.QuestionText, &hr.Status,
			&hr.CreatedAt, &hr.UpdatedAt, &hr.TimeoutAt); err != nil {
			return nil, fmt.Errorf("failed to scan expired request: %w", err)
		}
		requests = append(requests, &hr)
	}
	return requests, rows.Err()
}

// AllKnowledgeBaseEntries returns the full knowledge base in insertion order.
// The matcher depends on this ordering for its first-match tie-break.
func (s *EscalationStore) AllKnowledgeBaseEntries(ctx context.Context) ([]*models.KnowledgeBaseEntry, error) {
	return s.queryKnowledgeBase(ctx, `ORDER BY id ASC`)
}

// ListKnowledgeBase returns the knowledge base newest first, for the API
func (s *EscalationStore) ListKnowledgeBase(ctx context.Context) ([]*models.KnowledgeBaseEntry, error) {
	return s.queryKnowledgeBase(ctx, `ORDER BY created_at DESC, id DESC`)
}

func (s *EscalationStore) queryKnowledgeBase(ctx context.Context, order string) ([]*models.KnowledgeBaseEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, question_pattern, answer_text, created_from_request_id, created_at
		 FROM knowledge_base `+order)
	if err != nil {
		return nil, fmt.Errorf("failed to query knowledge base: %w", err)
	}
	defer rows.Close()

	var entries []*models.KnowledgeBaseEntry
	for rows.Next() {
		var e models.KnowledgeBaseEntry
		var fromRequest sql.NullInt64
		if err := rows.Scan(&e.ID, &e.QuestionPattern, &e.AnswerText, &fromRequest, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan knowledge base entry: %w", err)
		}
		if fromRequest.Valid {
			e.CreatedFromRequestID = &fromRequest.Int64
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// InsertKnowledgeBaseEntry adds an entry to the knowledge base. Entries are
// immutable once created.
func (s *EscalationStore) InsertKnowledgeBaseEntry(ctx context.Context, pattern, answerText string, fromRequestID *int64, createdAt time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO knowledge_base (question_pattern, answer_text, created_from_request_id, created_at)
		 VALUES (?, ?, ?, ?)`,
		pattern, answerText, fromRequestID, createdAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert knowledge base entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read knowledge base entry id: %w", err)
	}
	return id, nil
}

// CountKnowledgeBase returns the number of knowledge base entries
func (s *EscalationStore) CountKnowledgeBase(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM knowledge_base`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count knowledge base: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanHelpRequestDetail(row rowScanner) (*models.HelpRequestDetail, error) {
	var d models.HelpRequestDetail
	var supervisorID, resolutionText sql.NullString
	err := row.Scan(&d.ID, &d.CallerID, &d.QuestionText, &d.Status,
		&d.CreatedAt, &d.UpdatedAt, &d.TimeoutAt, &supervisorID, &resolutionText,
		&d.Phone, &d.CallerName)
	if err != nil {
		return nil, err
	}
	if supervisorID.Valid {
		d.SupervisorID = &supervisorID.String
	}
	if resolutionText.Valid {
		d.ResolutionText = &resolutionText.String
	}
	d.TTLMinutes = int(time.Until(d.TimeoutAt).Minutes())
	return &d, nil
}

// Package journal is a types.Actor that records every interaction instead of
// driving a browser. Interactions are kept in SQLite while the journal is
// open and exported to interactions.jsonl on Close; the JSONL file is loaded
// back on the next Open, so sessions accumulate across runs.
package journal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/ctregistry/internal/logger"
	"github.com/mesh-intelligence/ctregistry/pkg/types"
)

// timeFormat is fixed width so created_at sorts lexically.
const timeFormat = "2006-01-02T15:04:05.000000000Z"

// Interaction is one recorded actor call.
type Interaction struct {
	ID        string    `json:"interaction_id"`
	Session   string    `json:"session_id"`
	Seq       int       `json:"seq"`
	Method    string    `json:"method"`
	Selector  string    `json:"selector"`
	Args      []any     `json:"args"`
	CreatedAt time.Time `json:"created_at"`
}

// Journal records actor calls for one session.
type Journal struct {
	mu      sync.Mutex
	dir     string
	db      *sql.DB
	session string
	seq     int
	closed  bool
	now     func() time.Time
	logger  logger.Logger
}

var _ types.Actor = (*Journal)(nil)

// Option configures a Journal.
type Option func(*Journal)

// WithSession sets the session id. The default is a fresh UUID v7.
func WithSession(id string) Option {
	return func(j *Journal) { j.session = id }
}

// WithLogger sets the journal logger.
func WithLogger(l logger.Logger) Option {
	return func(j *Journal) { j.logger = l }
}

// WithClock sets the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(j *Journal) { j.now = now }
}

// Open creates dir if needed, rebuilds the SQLite store from any existing
// interactions.jsonl and starts a session.
func Open(dir string, opts ...Option) (*Journal, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	j := &Journal{dir: dir, now: time.Now, logger: logger.Nop()}
	for _, opt := range opts {
		opt(j)
	}
	if j.session == "" {
		j.session = newID()
	}

	dbPath := filepath.Join(dir, dbFileName)
	// The JSONL export is the source of truth; the database is rebuilt.
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, err
	}
	if err := loadJSONL(db, filepath.Join(dir, jsonlFileName)); err != nil {
		db.Close()
		return nil, fmt.Errorf("load JSONL: %w", err)
	}
	if err := db.QueryRow(
		"SELECT COALESCE(MAX(seq), 0) FROM interactions WHERE session_id = ?", j.session,
	).Scan(&j.seq); err != nil {
		db.Close()
		return nil, err
	}

	j.db = db
	j.logger.Debug("journal opened", "dir", dir, "session", j.session)
	return j, nil
}

// newID generates a UUID v7, falling back to v4.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

func loadJSONL(db *sql.DB, path string) error {
	existing, err := readInteractions(path)
	if err != nil || len(existing) == 0 {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(insertSQL())
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, in := range existing {
		args, err := json.Marshal(in.Args)
		if err != nil {
			continue
		}
		// Records that violate constraints are skipped.
		_, _ = stmt.Exec(in.ID, in.Session, in.Seq, in.Method, in.Selector, string(args),
			in.CreatedAt.UTC().Format(timeFormat))
	}
	return tx.Commit()
}

func insertSQL() string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(interactionColumns)), ", ")
	return fmt.Sprintf("INSERT INTO interactions (%s) VALUES (%s)",
		strings.Join(interactionColumns, ", "), placeholders)
}

// Session returns the id of the session being recorded.
func (j *Journal) Session() string { return j.session }

// Dir returns the journal directory.
func (j *Journal) Dir() string { return j.dir }

// record stores one interaction. args are the values after the selector.
func (j *Journal) record(method, selector string, args ...any) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return types.ErrJournalClosed
	}
	if args == nil {
		args = []any{}
	}
	encoded, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encoding %s arguments: %w", method, err)
	}

	j.seq++
	in := Interaction{
		ID:        newID(),
		Session:   j.session,
		Seq:       j.seq,
		Method:    method,
		Selector:  selector,
		CreatedAt: j.now().UTC(),
	}
	if _, err := j.db.Exec(insertSQL(), in.ID, in.Session, in.Seq, in.Method, in.Selector,
		string(encoded), in.CreatedAt.Format(timeFormat)); err != nil {
		j.seq--
		return fmt.Errorf("recording %s: %w", method, err)
	}
	j.logger.Debug("interaction recorded", "method", method, "selector", selector, "seq", in.Seq)
	return nil
}

// Interactions returns the interactions of session in call order. An empty
// session selects the journal's own session.
func (j *Journal) Interactions(session string) ([]Interaction, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return nil, types.ErrJournalClosed
	}
	if session == "" {
		session = j.session
	}
	return query(j.db, "WHERE session_id = ? ORDER BY seq", session)
}

// Sessions returns every recorded session id, oldest first.
func (j *Journal) Sessions() ([]string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return nil, types.ErrJournalClosed
	}
	rows, err := j.db.Query(
		"SELECT session_id FROM interactions GROUP BY session_id ORDER BY MIN(created_at), session_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func query(db *sql.DB, where string, args ...any) ([]Interaction, error) {
	rows, err := db.Query("SELECT "+strings.Join(interactionColumns, ", ")+" FROM interactions "+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Interaction
	for rows.Next() {
		var (
			in        Interaction
			rawArgs   string
			createdAt string
		)
		if err := rows.Scan(&in.ID, &in.Session, &in.Seq, &in.Method, &in.Selector, &rawArgs, &createdAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(rawArgs), &in.Args); err != nil {
			return nil, fmt.Errorf("decoding args of %s: %w", in.ID, err)
		}
		if in.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
			return nil, fmt.Errorf("parsing created_at of %s: %w", in.ID, err)
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

// Close exports every interaction to interactions.jsonl and closes the
// store. Close is idempotent.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return nil
	}

	all, err := query(j.db, "ORDER BY created_at, session_id, seq")
	if err != nil {
		return fmt.Errorf("export interactions: %w", err)
	}
	if err := exportInteractions(filepath.Join(j.dir, jsonlFileName), all); err != nil {
		return fmt.Errorf("export interactions: %w", err)
	}

	if err := j.db.Close(); err != nil {
		return err
	}
	j.closed = true
	j.logger.Debug("journal closed", "session", j.session, "interactions", j.seq)
	return nil
}

func (j *Journal) Click(selector string) error {
	return j.record(types.MethodClick, selector)
}

func (j *Journal) FillField(selector string, value any) error {
	return j.record(types.MethodFillField, selector, value)
}

func (j *Journal) SelectOption(selector string, option any) error {
	return j.record(types.MethodSelectOption, selector, option)
}

func (j *Journal) CheckOption(selector string) error {
	return j.record(types.MethodCheckOption, selector)
}

func (j *Journal) UncheckOption(selector string) error {
	return j.record(types.MethodUncheckOption, selector)
}

func (j *Journal) AttachFile(selector, path string) error {
	return j.record(types.MethodAttachFile, selector, path)
}

// See records the text; the scope, when given, is the selector.
func (j *Journal) See(text string, scope ...string) error {
	return j.record(types.MethodSee, firstOrEmpty(scope), text)
}

// DontSee records like See.
func (j *Journal) DontSee(text string, scope ...string) error {
	return j.record(types.MethodDontSee, firstOrEmpty(scope), text)
}

// GrabAttributeFrom records the call and returns an empty value, since no
// page exists to read from.
func (j *Journal) GrabAttributeFrom(selector, attribute string) (string, error) {
	return "", j.record(types.MethodGrabAttributeFrom, selector, attribute)
}

func firstOrEmpty(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

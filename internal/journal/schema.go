package journal

// File names inside the journal directory.
const (
	dbFileName    = "journal.db"
	jsonlFileName = "interactions.jsonl"
)

// interactionColumns is the column order shared by inserts, the JSONL
// loader and row scans.
var interactionColumns = []string{
	"interaction_id", "session_id", "seq", "method", "selector", "args", "created_at",
}

const schemaSQL = `CREATE TABLE interactions (
    interaction_id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL,
    seq INTEGER NOT NULL,
    method TEXT NOT NULL,
    selector TEXT NOT NULL,
    args TEXT NOT NULL,
    created_at TEXT NOT NULL
);
CREATE INDEX idx_interactions_session ON interactions (session_id, seq);`

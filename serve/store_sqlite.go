package serve

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite (pure Go).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Enable WAL mode for concurrent reads.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Init creates the schema tables.
func (s *SQLiteStore) Init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS chat_messages (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		agent_id   TEXT NOT NULL,
		role       TEXT NOT NULL,
		content    TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_chat_agent ON chat_messages(agent_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// InsertChatMessage persists one side of a chat turn.
func (s *SQLiteStore) InsertChatMessage(agentID, role, content string) error {
	_, err := s.db.Exec(
		`INSERT INTO chat_messages (agent_id, role, content) VALUES (?, ?, ?)`,
		agentID, role, content,
	)
	return err
}

// ListChatMessages returns an agent's transcript, oldest first.
func (s *SQLiteStore) ListChatMessages(agentID string) ([]ChatMessage, error) {
	rows, err := s.db.Query(
		`SELECT role, content, created_at FROM chat_messages
		 WHERE agent_id = ? ORDER BY id ASC`,
		agentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []ChatMessage
	for rows.Next() {
		var m ChatMessage
		if err := rows.Scan(&m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// DeleteChatMessages removes an agent's transcript.
func (s *SQLiteStore) DeleteChatMessages(agentID string) error {
	_, err := s.db.Exec(`DELETE FROM chat_messages WHERE agent_id = ?`, agentID)
	return err
}

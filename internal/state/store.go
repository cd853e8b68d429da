package state

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/huddlebot/huddlebot/internal/schema"
)

// Store persists ConversationState rows in sqlite. The three JSON columns
// hold the history, fantasy context, and analysis context verbatim; a
// missing row loads as the New() defaults so first contact needs no insert.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the database at dbPath and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// modernc sqlite serializes writes itself; a single connection avoids
	// SQLITE_BUSY under concurrent turns.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS conversations (
			user_id TEXT PRIMARY KEY,
			history TEXT NOT NULL DEFAULT '[]',
			fantasy_context TEXT NOT NULL DEFAULT '{}',
			recent_analysis TEXT,
			last_injury_check TEXT,
			updated_at TEXT NOT NULL
		);
	`)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns the state for userID, or the defaults if none is stored.
func (s *Store) Load(userID string) (*ConversationState, error) {
	var historyJSON, fantasyJSON string
	var analysisJSON, injuryCheck sql.NullString

	err := s.db.QueryRow(`
		SELECT history, fantasy_context, recent_analysis, last_injury_check
		FROM conversations WHERE user_id = ?
	`, userID).Scan(&historyJSON, &fantasyJSON, &analysisJSON, &injuryCheck)
	if err == sql.ErrNoRows {
		return New(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load state %s: %w", userID, err)
	}

	st := New(userID)
	if err := json.Unmarshal([]byte(historyJSON), &st.History); err != nil {
		return nil, fmt.Errorf("decode history for %s: %w", userID, err)
	}
	if err := json.Unmarshal([]byte(fantasyJSON), &st.Fantasy); err != nil {
		return nil, fmt.Errorf("decode fantasy context for %s: %w", userID, err)
	}
	// Re-apply slice defaults lost through empty-object rows.
	if st.Fantasy.MyTeam == nil {
		st.Fantasy.MyTeam = []string{}
	}
	if st.Fantasy.InterestedPlayers == nil {
		st.Fantasy.InterestedPlayers = []string{}
	}
	if st.Fantasy.TradeHistory == nil {
		st.Fantasy.TradeHistory = []string{}
	}
	if analysisJSON.Valid && analysisJSON.String != "" {
		var ac AnalysisContext
		if err := json.Unmarshal([]byte(analysisJSON.String), &ac); err == nil {
			st.RecentAnalysis = &ac
		}
	}
	if injuryCheck.Valid && injuryCheck.String != "" {
		if t, err := time.Parse(time.RFC3339, injuryCheck.String); err == nil {
			st.LastInjuryCheck = &t
		}
	}
	return st, nil
}

// Save upserts the state row.
func (s *Store) Save(st *ConversationState) error {
	history := st.History
	if history == nil {
		history = []schema.Message{}
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	fantasyJSON, err := json.Marshal(st.Fantasy)
	if err != nil {
		return fmt.Errorf("encode fantasy context: %w", err)
	}

	var analysisJSON any
	if st.RecentAnalysis != nil {
		data, err := json.Marshal(st.RecentAnalysis)
		if err != nil {
			return fmt.Errorf("encode analysis context: %w", err)
		}
		analysisJSON = string(data)
	}
	var injuryCheck any
	if st.LastInjuryCheck != nil {
		injuryCheck = st.LastInjuryCheck.UTC().Format(time.RFC3339)
	}

	_, err = s.db.Exec(`
		INSERT INTO conversations (user_id, history, fantasy_context, recent_analysis, last_injury_check, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			history = excluded.history,
			fantasy_context = excluded.fantasy_context,
			recent_analysis = excluded.recent_analysis,
			last_injury_check = excluded.last_injury_check,
			updated_at = excluded.updated_at
	`, st.UserID, string(historyJSON), string(fantasyJSON), analysisJSON, injuryCheck,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save state %s: %w", st.UserID, err)
	}
	return nil
}

// UserIDs returns every stored user id, for the digest sweep.
func (s *Store) UserIDs() ([]string, error) {
	rows, err := s.db.Query(`SELECT user_id FROM conversations ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

package repository

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"farmer-chatbot/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const defaultRecentLimit = 50

// ConversationRepository stores answered messages
type ConversationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewConversationRepository opens (and creates if needed) the SQLite log
func NewConversationRepository(dbPath string, logger *zap.Logger) (*ConversationRepository, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows a single writer; one connection also keeps :memory: shared
	db.SetMaxOpenConns(1)

	repo := &ConversationRepository{
		db:     db,
		logger: logger,
	}

	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("Conversation repository initialized", zap.String("db_path", dbPath))

	return repo, nil
}

// migrate creates tables
func (r *ConversationRepository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS conversations (
		id TEXT PRIMARY KEY,
		endpoint TEXT NOT NULL,
		user_id TEXT,
		message TEXT NOT NULL,
		response TEXT NOT NULL,
		language TEXT NOT NULL,
		intent TEXT NOT NULL,
		path TEXT NOT NULL,
		provider TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_conversations_created_at ON conversations(created_at);
	CREATE INDEX IF NOT EXISTS idx_conversations_user_id ON conversations(user_id);
	CREATE INDEX IF NOT EXISTS idx_conversations_intent ON conversations(intent);
	`

	_, err := r.db.Exec(schema)
	return err
}

// SaveConversation stores one exchange, assigning its ID and timestamp
func (r *ConversationRepository) SaveConversation(conv *models.Conversation) error {
	if conv.ID == "" {
		conv.ID = uuid.New().String()
	}
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO conversations (
			id, endpoint, user_id, message, response,
			language, intent, path, provider, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		conv.ID,
		conv.Endpoint,
		conv.UserID,
		conv.Message,
		conv.Response,
		string(conv.Language),
		string(conv.Intent),
		conv.Path,
		conv.Provider,
		conv.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}

	return nil
}

// RecentConversations returns the newest exchanges first. A non-empty userID
// restricts the result to that user.
func (r *ConversationRepository) RecentConversations(userID string, limit int) ([]*models.Conversation, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	query := `
		SELECT id, endpoint, user_id, message, response,
		       language, intent, path, provider, created_at
		FROM conversations
	`
	args := []interface{}{}
	if userID != "" {
		query += " WHERE user_id = ?"
		args = append(args, userID)
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	conversations := []*models.Conversation{}
	for rows.Next() {
		conv := &models.Conversation{}
		var (
			language, intent string
			userIDCol        sql.NullString
			provider         sql.NullString
		)
		err := rows.Scan(
			&conv.ID,
			&conv.Endpoint,
			&userIDCol,
			&conv.Message,
			&conv.Response,
			&language,
			&intent,
			&conv.Path,
			&provider,
			&conv.CreatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan conversation", zap.Error(err))
			continue
		}
		conv.UserID = userIDCol.String
		conv.Provider = provider.String
		conv.Language = models.Language(language)
		conv.Intent = models.Intent(intent)
		conversations = append(conversations, conv)
	}

	return conversations, rows.Err()
}

// GetStats returns counts of logged exchanges
func (r *ConversationRepository) GetStats() (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var total int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM conversations").Scan(&total); err != nil {
		return nil, err
	}
	stats["total"] = total

	for _, column := range []string{"intent", "path", "language"} {
		counts, err := r.countBy(column)
		if err != nil {
			return nil, err
		}
		stats["by_"+column] = counts
	}

	return stats, nil
}

// countBy groups by a fixed column name, never user input
func (r *ConversationRepository) countBy(column string) (map[string]int, error) {
	rows, err := r.db.Query(fmt.Sprintf(
		"SELECT %s, COUNT(*) FROM conversations GROUP BY %s ORDER BY %s", column, column, column))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			continue
		}
		counts[key] = count
	}
	return counts, rows.Err()
}

// Close closes the database connection
func (r *ConversationRepository) Close() error {
	return r.db.Close()
}

package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/webotyou/backend/internal/storage/models"
	"github.com/webotyou/backend/pkg/logger"
)

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	_, err = db.Exec("PRAGMA journal_mode = WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS website_analyses (
		id TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		profile TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_analyses_url ON website_analyses(url);
	CREATE INDEX IF NOT EXISTS idx_analyses_created ON website_analyses(created_at);

	CREATE TABLE IF NOT EXISTS chat_messages (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		message TEXT NOT NULL,
		is_bot INTEGER NOT NULL DEFAULT 0,
		website_domain TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_messages_session ON chat_messages(session_id, created_at);

	CREATE TABLE IF NOT EXISTS contact_inquiries (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		website_url TEXT,
		message TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	`

	_, err := c.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("SQLite schema initialized")
	return nil
}

func (c *Client) InsertAnalysis(analysis *models.WebsiteAnalysis) error {
	profileJSON, err := json.Marshal(analysis.Profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	query := `INSERT INTO website_analyses (id, url, profile, created_at) VALUES (?, ?, ?, ?)`

	_, err = c.db.Exec(
		query,
		analysis.ID,
		analysis.URL,
		string(profileJSON),
		analysis.CreatedAt.Unix(),
	)

	if err != nil {
		return fmt.Errorf("failed to insert analysis: %w", err)
	}

	logger.Debug("Analysis inserted", zap.String("analysis_id", analysis.ID), zap.String("url", analysis.URL))
	return nil
}

// GetLatestAnalysisByURL returns the most recent stored analysis for the
// exact URL string, or nil when none exists.
func (c *Client) GetLatestAnalysisByURL(url string) (*models.WebsiteAnalysis, error) {
	query := `
		SELECT id, url, profile, created_at
		FROM website_analyses
		WHERE url = ?
		ORDER BY created_at DESC
		LIMIT 1
	`

	var analysis models.WebsiteAnalysis
	var profileJSON string
	var createdAt int64

	err := c.db.QueryRow(query, url).Scan(&analysis.ID, &analysis.URL, &profileJSON, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	if err := json.Unmarshal([]byte(profileJSON), &analysis.Profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}

	analysis.CreatedAt = time.Unix(createdAt, 0)

	return &analysis, nil
}

func (c *Client) InsertChatMessage(msg *models.ChatMessage) error {
	query := `INSERT INTO chat_messages (id, session_id, message, is_bot, website_domain, created_at) VALUES (?, ?, ?, ?, ?, ?)`

	isBot := 0
	if msg.IsBot {
		isBot = 1
	}

	_, err := c.db.Exec(
		query,
		msg.ID,
		msg.SessionID,
		msg.Message,
		isBot,
		msg.WebsiteDomain,
		msg.CreatedAt.Unix(),
	)

	if err != nil {
		return fmt.Errorf("failed to insert chat message: %w", err)
	}

	return nil
}

// GetChatHistory returns the trailing limit messages of a session in
// chronological order.
func (c *Client) GetChatHistory(sessionID string, limit int) ([]models.ChatMessage, error) {
	query := `
		SELECT id, session_id, message, is_bot, website_domain, created_at
		FROM chat_messages
		WHERE session_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`

	rows, err := c.db.Query(query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get chat history: %w", err)
	}
	defer rows.Close()

	var messages []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		var isBot int
		var domain sql.NullString
		var createdAt int64

		err := rows.Scan(&m.ID, &m.SessionID, &m.Message, &isBot, &domain, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		m.IsBot = isBot == 1
		m.WebsiteDomain = domain.String
		m.CreatedAt = time.Unix(createdAt, 0)
		messages = append(messages, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	// Rows come back newest-first; flip to chronological.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

func (c *Client) InsertContactInquiry(inquiry *models.ContactInquiry) error {
	query := `INSERT INTO contact_inquiries (id, name, email, website_url, message, created_at) VALUES (?, ?, ?, ?, ?, ?)`

	_, err := c.db.Exec(
		query,
		inquiry.ID,
		inquiry.Name,
		inquiry.Email,
		inquiry.WebsiteURL,
		inquiry.Message,
		inquiry.CreatedAt.Unix(),
	)

	if err != nil {
		return fmt.Errorf("failed to insert contact inquiry: %w", err)
	}

	logger.Info("Contact inquiry stored",
		zap.String("inquiry_id", inquiry.ID),
		zap.String("email", inquiry.Email),
	)

	return nil
}

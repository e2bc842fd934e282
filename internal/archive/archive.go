// Package archive exports a user's notes as JSON documents to object
// storage.
package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/models"
	"github.com/dmitrijs2005/gophnotes/internal/storage/s3client"
)

// NoteLister is the subset of services.NoteService used for exports.
type NoteLister interface {
	List(ctx context.Context, filter models.NoteFilter) ([]models.NoteView, error)
}

// ObjectStore is satisfied by *s3client.Client.
type ObjectStore interface {
	PutObject(ctx context.Context, key string, content []byte, contentType string) error
	GetObject(ctx context.Context, key string) ([]byte, error)
	ListKeys(ctx context.Context, prefix string) ([]string, error)
	DeleteObject(ctx context.Context, key string) error
}

// Document is the exported JSON layout.
type Document struct {
	UserID     int64          `json:"user_id"`
	ExportedAt time.Time      `json:"exported_at"`
	Notes      []DocumentNote `json:"notes"`
}

type DocumentNote struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	CreatedAt     time.Time  `json:"created_at"`
	LastChangedAt *time.Time `json:"last_changed_at,omitempty"`
}

type Exporter struct {
	notes NoteLister
	store ObjectStore
	now   func() time.Time
}

func NewExporter(notes NoteLister, store ObjectStore) *Exporter {
	return &Exporter{notes: notes, store: store, now: time.Now}
}

// Prefix is the key prefix under which exports of userID are stored.
func Prefix(userID int64) string {
	return fmt.Sprintf("notes/%d/", userID)
}

// Export writes every note authored by userID and returns the object key.
func (e *Exporter) Export(ctx context.Context, userID int64) (string, error) {
	views, err := e.notes.List(ctx, models.ByAuthor(userID))
	if err != nil {
		return "", fmt.Errorf("error listing notes: %w", err)
	}

	at := e.now().UTC()
	doc := Document{UserID: userID, ExportedAt: at, Notes: make([]DocumentNote, 0, len(views))}
	for _, v := range views {
		doc.Notes = append(doc.Notes, DocumentNote{
			ID:            v.ID,
			Title:         v.Title,
			Content:       v.Content,
			CreatedAt:     v.CreatedAt,
			LastChangedAt: v.LastChangedAt,
		})
	}

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error encoding export: %w", err)
	}

	key := fmt.Sprintf("%s%d.json", Prefix(userID), at.UnixNano())
	if err := e.store.PutObject(ctx, key, body, "application/json"); err != nil {
		return "", err
	}
	return key, nil
}

// List returns the keys of previous exports of userID, oldest first.
func (e *Exporter) List(ctx context.Context, userID int64) ([]string, error) {
	return e.store.ListKeys(ctx, Prefix(userID))
}

// Load reads back one export of userID. Keys outside the user's prefix and
// missing objects both yield common.ErrorNotFound.
func (e *Exporter) Load(ctx context.Context, userID int64, key string) (*Document, error) {
	if !strings.HasPrefix(key, Prefix(userID)) {
		return nil, common.ErrorNotFound
	}
	raw, err := e.store.GetObject(ctx, key)
	if err != nil {
		if errors.Is(err, s3client.ErrObjectNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, err
	}

	doc := &Document{}
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("error decoding export %s: %w", key, err)
	}
	return doc, nil
}

// Remove deletes one export of userID.
func (e *Exporter) Remove(ctx context.Context, userID int64, key string) error {
	if !strings.HasPrefix(key, Prefix(userID)) {
		return common.ErrorNotFound
	}
	return e.store.DeleteObject(ctx, key)
}

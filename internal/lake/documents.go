package lake

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Document is a free-text document stored in the raw zone, typically
// for downstream retrieval workloads.
type Document struct {
	ID        string         `json:"id"`
	Text      string         `json:"text"`
	Hash      string         `json:"hash"`
	CreatedAt time.Time      `json:"created_at"`
	Metadata  map[string]any `json:"metadata"`
}

// StoreDocument writes a document to the raw zone under documents/
// with a generated ID and a content hash, and returns the ID.
func (l *Lake) StoreDocument(ctx context.Context, text string, meta map[string]any) (string, error) {
	if meta == nil {
		meta = map[string]any{}
	}
	sum := sha256.Sum256([]byte(text))
	doc := Document{
		ID:        uuid.NewString(),
		Text:      text,
		Hash:      hex.EncodeToString(sum[:]),
		CreatedAt: l.now(),
		Metadata:  meta,
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to serialize document: %w", err)
	}

	if err := l.objects.EnsureBucket(ctx, l.zones.Raw); err != nil {
		return "", err
	}
	key := "documents/" + doc.ID + ".json"
	if err := l.objects.Put(ctx, l.zones.Raw, key, data, "application/json"); err != nil {
		return "", err
	}
	l.logger.Info("document stored", "bucket", l.zones.Raw, "key", key)
	return doc.ID, nil
}

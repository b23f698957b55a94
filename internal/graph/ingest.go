package graph

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/orbitscope/satassist-go/internal/apptype"
)

const (
	maxContentDescription = 500
	mentionThreshold      = 0.7
	mentionSearchLimit    = 3
)

// IngestContent adds one CONTENT node per item and links it to existing
// knowledge: each keyword is searched and any hit above mentionThreshold
// gains a "mentions" edge from the new node. Returns the new node ids.
func (s *Store) IngestContent(ctx context.Context, items []apptype.ContentItem) []string {
	ids := make([]string, 0, len(items))

	for _, item := range items {
		desc := item.Description
		if r := []rune(desc); len(r) > maxContentDescription {
			desc = string(r[:maxContentDescription])
		}
		contentType := item.ContentType
		if contentType == "" {
			contentType = "webpage"
		}
		title := item.Title
		if title == "" {
			title = "Untitled"
		}

		id := "content_" + uuid.NewString()
		s.AddNode(ctx, apptype.KnowledgeNode{
			ID:          id,
			Type:        "CONTENT",
			Name:        title,
			Description: desc,
			Attributes: map[string]string{
				"url":          item.URL,
				"content_type": contentType,
				"keywords":     joinKeywords(item.Keywords),
				"scraped_at":   time.Now().Format(time.RFC3339),
			},
		})
		ids = append(ids, id)

		for _, keyword := range item.Keywords {
			for _, hit := range s.Search(ctx, keyword, mentionSearchLimit) {
				if hit.Node.ID == id {
					continue
				}
				if hit.Similarity > mentionThreshold {
					s.AddEdge(id, hit.Node.ID, "mentions", nil)
				}
			}
		}
	}

	s.logger.Info("ingested content items", zap.Int("count", len(items)))
	return ids
}

func joinKeywords(keywords []string) string {
	return strings.Join(keywords, ",")
}

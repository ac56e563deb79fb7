package services

import (
	"context"
	"fmt"
	"log"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"
)

// ChromaMirror copies the served FAQ index into a Chroma collection so other
// tools can browse the FAQ vectors. Matching never reads from it.
type ChromaMirror struct {
	collection chromago.Collection
}

func NewChromaMirror(collection chromago.Collection) *ChromaMirror {
	return &ChromaMirror{collection: collection}
}

// Publish replaces the records of idx's source with the current entries.
func (m *ChromaMirror) Publish(ctx context.Context, idx *FAQIndex) error {
	if err := m.collection.Delete(ctx, chromago.WithWhereDelete(chromago.EqString("faq_source", idx.source))); err != nil {
		return fmt.Errorf("failed to clear previous faq records: %w", err)
	}

	ids := make([]chromago.DocumentID, idx.Len())
	texts := make([]string, idx.Len())
	vectors := make([]embeddings.Embedding, idx.Len())
	metadatas := make([]chromago.DocumentMetadata, idx.Len())
	for i := 0; i < idx.Len(); i++ {
		e := idx.Entry(i)
		ids[i] = chromago.DocumentID(fmt.Sprintf("faq-%d", i))
		texts[i] = e.Question
		vectors[i] = embeddings.NewEmbeddingFromFloat32(idx.Embedding(i))
		metadatas[i] = chromago.NewDocumentMetadata(
			chromago.NewStringAttribute("faq_source", idx.source),
			chromago.NewStringAttribute("embedding_model", idx.model),
			chromago.NewStringAttribute("answer", e.AnswerText()),
			chromago.NewIntAttribute("position", int64(i)),
		)
	}

	err := m.collection.Add(ctx,
		chromago.WithIDs(ids...),
		chromago.WithTexts(texts...),
		chromago.WithEmbeddings(vectors...),
		chromago.WithMetadatas(metadatas...),
	)
	if err != nil {
		return fmt.Errorf("failed to add faq records to chromadb: %w", err)
	}
	log.Printf("INDEXER: Mirrored %d FAQ entries into chroma", idx.Len())
	return nil
}

// Listener adapts Publish to an IndexListener that only logs failures.
func (m *ChromaMirror) Listener() IndexListener {
	return func(ctx context.Context, idx *FAQIndex) {
		if err := m.Publish(ctx, idx); err != nil {
			log.Printf("INDEXER WARN: chroma mirror failed: %v", err)
		}
	}
}

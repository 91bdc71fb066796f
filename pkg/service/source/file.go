package source

import (
	"context"

	"github.com/briefwise/briefwise/pkg/domain/interfaces"
	"github.com/briefwise/briefwise/pkg/domain/model"
	"github.com/briefwise/briefwise/pkg/domain/types"
	"github.com/briefwise/briefwise/pkg/utils/errutil"
	"github.com/briefwise/briefwise/pkg/utils/keyword"
	"github.com/briefwise/briefwise/pkg/utils/logging"
)

// MaxFileEvidence caps how many documents one report can draw on
const MaxFileEvidence = 5

// File turns a user's uploaded documents into evidence
type File struct {
	documents interfaces.DocumentRepository
}

// NewFile creates a File adapter
func NewFile(documents interfaces.DocumentRepository) *File {
	return &File{documents: documents}
}

// Collect returns up to MaxFileEvidence documents matching question, in
// store order. Store failures yield an empty list.
func (f *File) Collect(ctx context.Context, userID, question string) []model.Evidence {
	docs, err := f.documents.List(ctx, userID)
	if err != nil {
		_ = errutil.Handle(ctx, err, "failed to list documents for file evidence")
		return nil
	}

	filter := keyword.NewFilter(question)
	var evidence []model.Evidence
	for _, doc := range docs {
		if !filter.Match(doc.Title, doc.Content) {
			continue
		}

		createdAt := doc.CreatedAt
		evidence = append(evidence, model.Evidence{
			Title:       doc.Title,
			Locator:     doc.ID.String(),
			Content:     doc.Content,
			Channel:     types.ChannelFile,
			Confidence:  model.ConfidenceFile,
			PublishedAt: &createdAt,
		})
		if len(evidence) >= MaxFileEvidence {
			break
		}
	}

	logging.From(ctx).Debug("file evidence collected",
		"user_id", userID,
		"documents", len(docs),
		"matched", len(evidence))
	return evidence
}

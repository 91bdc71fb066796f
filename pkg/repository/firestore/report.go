package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/briefwise/briefwise/pkg/domain/model"
	"github.com/briefwise/briefwise/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type evidenceDocument struct {
	Title       string     `firestore:"title"`
	Locator     string     `firestore:"locator"`
	Content     string     `firestore:"content"`
	Channel     string     `firestore:"channel"`
	Confidence  float64    `firestore:"confidence"`
	PublishedAt *time.Time `firestore:"published_at,omitempty"`
}

type citationDocument struct {
	ID        int64            `firestore:"id"`
	Source    evidenceDocument `firestore:"source"`
	Relevance float64          `firestore:"relevance"`
	Excerpt   string           `firestore:"excerpt"`
}

type breakdownDocument struct {
	Files int64 `firestore:"files"`
	Web   int64 `firestore:"web"`
	Live  int64 `firestore:"live"`
}

type reportDocument struct {
	ID               string             `firestore:"id"`
	UserID           string             `firestore:"user_id"`
	Query            string             `firestore:"query"`
	Title            string             `firestore:"title"`
	ExecutiveSummary string             `firestore:"executive_summary"`
	KeyInsights      []string           `firestore:"key_insights"`
	Sources          []evidenceDocument `firestore:"sources"`
	Citations        []citationDocument `firestore:"citations"`
	Confidence       float64            `firestore:"confidence"`
	ProcessingTimeMS int64              `firestore:"processing_time_ms"`
	SourceBreakdown  breakdownDocument  `firestore:"source_breakdown"`
	Cost             int64              `firestore:"cost"`
	CreatedAt        time.Time          `firestore:"created_at"`
}

type reportRepository struct {
	client *firestore.Client
	cols   collections
}

func newReportRepository(client *firestore.Client) *reportRepository {
	return &reportRepository{client: client}
}

func (r *reportRepository) reportsCollection(userID string) *firestore.CollectionRef {
	return userRef(r.client, &r.cols, userID).Collection("reports")
}

func evidenceToDocument(e model.Evidence) evidenceDocument {
	return evidenceDocument{
		Title:       e.Title,
		Locator:     e.Locator,
		Content:     e.Content,
		Channel:     e.Channel.String(),
		Confidence:  e.Confidence,
		PublishedAt: e.PublishedAt,
	}
}

func evidenceToModel(doc evidenceDocument) model.Evidence {
	return model.Evidence{
		Title:       doc.Title,
		Locator:     doc.Locator,
		Content:     doc.Content,
		Channel:     types.Channel(doc.Channel),
		Confidence:  doc.Confidence,
		PublishedAt: doc.PublishedAt,
	}
}

func reportToDocument(report *model.Report) *reportDocument {
	doc := &reportDocument{
		ID:               string(report.ID),
		UserID:           report.UserID,
		Query:            report.Query,
		Title:            report.Title,
		ExecutiveSummary: report.ExecutiveSummary,
		KeyInsights:      report.KeyInsights,
		Confidence:       report.Confidence,
		ProcessingTimeMS: report.ProcessingTimeMS,
		SourceBreakdown: breakdownDocument{
			Files: int64(report.SourceBreakdown.Files),
			Web:   int64(report.SourceBreakdown.Web),
			Live:  int64(report.SourceBreakdown.Live),
		},
		Cost:      int64(report.Cost),
		CreatedAt: report.CreatedAt,
	}

	for _, e := range report.Sources {
		doc.Sources = append(doc.Sources, evidenceToDocument(e))
	}
	for _, c := range report.Citations {
		doc.Citations = append(doc.Citations, citationDocument{
			ID:        int64(c.ID),
			Source:    evidenceToDocument(c.Source),
			Relevance: c.Relevance,
			Excerpt:   c.Excerpt,
		})
	}

	return doc
}

func reportToModel(doc *reportDocument) *model.Report {
	report := &model.Report{
		ID:               model.ReportID(doc.ID),
		UserID:           doc.UserID,
		Query:            doc.Query,
		Title:            doc.Title,
		ExecutiveSummary: doc.ExecutiveSummary,
		KeyInsights:      doc.KeyInsights,
		Confidence:       doc.Confidence,
		ProcessingTimeMS: doc.ProcessingTimeMS,
		SourceBreakdown: model.SourceBreakdown{
			Files: int(doc.SourceBreakdown.Files),
			Web:   int(doc.SourceBreakdown.Web),
			Live:  int(doc.SourceBreakdown.Live),
		},
		Cost:      int(doc.Cost),
		CreatedAt: doc.CreatedAt,
	}

	for _, e := range doc.Sources {
		report.Sources = append(report.Sources, evidenceToModel(e))
	}
	for _, c := range doc.Citations {
		report.Citations = append(report.Citations, model.Citation{
			ID:        int(c.ID),
			Source:    evidenceToModel(c.Source),
			Relevance: c.Relevance,
			Excerpt:   c.Excerpt,
		})
	}

	return report
}

func (r *reportRepository) Commit(ctx context.Context, report *model.Report) (*model.Report, error) {
	doc := reportToDocument(report)
	if doc.ID == "" {
		doc.ID = string(model.NewReportID())
	}
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}

	ownerRef := userRef(r.client, &r.cols, report.UserID)
	reportRef := r.reportsCollection(report.UserID).Doc(doc.ID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ownerRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "user not found")
			}
			return goerr.Wrap(err, "failed to get user")
		}

		var owner userDocument
		if err := snap.DataTo(&owner); err != nil {
			return goerr.Wrap(err, "failed to unmarshal user")
		}
		if owner.Credits < doc.Cost {
			return goerr.Wrap(model.ErrInsufficientCredits, "cannot commit report",
				goerr.V("credits", owner.Credits),
				goerr.V("cost", doc.Cost))
		}

		if err := tx.Create(reportRef, doc); err != nil {
			return goerr.Wrap(err, "failed to create report")
		}

		return tx.Update(ownerRef, []firestore.Update{
			{Path: "credits", Value: firestore.Increment(-doc.Cost)},
			{Path: "report_count", Value: firestore.Increment(1)},
			{Path: "updated_at", Value: now},
		})
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to commit report",
			goerr.V(model.UserIDKey, report.UserID),
			goerr.V(model.ReportIDKey, doc.ID))
	}

	return reportToModel(doc), nil
}

func (r *reportRepository) Get(ctx context.Context, userID string, id model.ReportID) (*model.Report, error) {
	snap, err := r.reportsCollection(userID).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "report not found", goerr.V(model.UserIDKey, userID), goerr.V(model.ReportIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get report", goerr.V(model.UserIDKey, userID), goerr.V(model.ReportIDKey, id))
	}

	var doc reportDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal report", goerr.V(model.ReportIDKey, id))
	}

	return reportToModel(&doc), nil
}

func (r *reportRepository) List(ctx context.Context, userID string) ([]*model.Report, error) {
	iter := r.reportsCollection(userID).OrderBy("created_at", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	reports := []*model.Report{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate reports", goerr.V(model.UserIDKey, userID))
		}

		var doc reportDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal report", goerr.V(model.ReportIDKey, snap.Ref.ID))
		}
		reports = append(reports, reportToModel(&doc))
	}

	return reports, nil
}

package memory

import (
	"github.com/briefwise/briefwise/pkg/domain/interfaces"
	"github.com/briefwise/briefwise/pkg/domain/model"
)

// ErrNotFound is returned when an entity does not exist
var ErrNotFound = model.ErrNotFound

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	document *documentRepository
	feed     *feedRepository
	report   *reportRepository
	user     *userRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	userRepo := newUserRepository()

	return &Memory{
		document: newDocumentRepository(),
		feed:     newFeedRepository(),
		report:   newReportRepository(userRepo),
		user:     userRepo,
	}
}

func (m *Memory) Document() interfaces.DocumentRepository {
	return m.document
}

func (m *Memory) Feed() interfaces.FeedRepository {
	return m.feed
}

func (m *Memory) Report() interfaces.ReportRepository {
	return m.report
}

func (m *Memory) User() interfaces.UserRepository {
	return m.user
}

func (m *Memory) Close() error {
	return nil
}

package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Document() DocumentRepository
	Feed() FeedRepository
	Report() ReportRepository
	User() UserRepository

	// Close releases backend resources
	Close() error
}

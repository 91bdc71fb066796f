package cli

var (
	GetIndexConfig  = getIndexConfig
	CollectionNames = collectionNames
)

package config

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{level: level, format: format, output: output}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, sqlitePath string) *Repository {
	return &Repository{backend: backend, sqlitePath: sqlitePath}
}

// NewLLMForTest creates an LLM config for testing purposes
func NewLLMForTest(provider, geminiProject, openaiAPIKey string) *LLM {
	return &LLM{provider: provider, geminiProject: geminiProject, openaiAPIKey: openaiAPIKey}
}

// NewWebForTest creates a Web config for testing purposes
func NewWebForTest(backend, braveAPIKey, condenser string) *Web {
	return &Web{backend: backend, braveAPIKey: braveAPIKey, condenser: condenser}
}

// NewSlackForTest creates a Slack config for testing purposes
func NewSlackForTest(botToken, channelID string) *Slack {
	return &Slack{botToken: botToken, channelID: channelID}
}

// NewStorageForTest creates a Storage config for testing purposes
func NewStorageForTest(bucket string) *Storage {
	return &Storage{bucket: bucket}
}

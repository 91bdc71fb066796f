package synth

var (
	BuildUserPrompt     = buildUserPrompt
	StripCodeFence      = stripCodeFence
	BuildResponseSchema = buildResponseSchema
)

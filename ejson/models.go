package ejson

// EmbModel identifies a server-side text embedding model.
type EmbModel string

// Supported embedding models.
const (
	EmbModelTextEmbedding3Small EmbModel = "text-embedding-3-small"
	EmbModelTextEmbedding3Large EmbModel = "text-embedding-3-large"
	EmbModelTextEmbeddingAda002 EmbModel = "text-embedding-ada-002"
)

// VisionModel identifies a server-side vision-to-text model.
type VisionModel string

// Supported vision models.
const (
	VisionModelGPT4o     VisionModel = "gpt-4o"
	VisionModelGPT4oMini VisionModel = "gpt-4o-mini"
	VisionModelGPT4Turbo VisionModel = "gpt-4-turbo"
	VisionModelO1        VisionModel = "o1"
)

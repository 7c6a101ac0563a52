// Package skills defines the canonical skill tag taxonomy and the keyword
// fallback used when a corpus has no extracted tags yet.
package skills

import "strings"

// Canonical is the taxonomy-controlled set of skill tags. Extracted
// job_skill_tags rows and resolved skill filters only ever use these values.
var Canonical = map[string]struct{}{
	// Programming languages
	"javascript": {}, "typescript": {}, "python": {}, "java": {}, "csharp": {},
	"ruby": {}, "php": {}, "go": {}, "rust": {}, "swift": {}, "kotlin": {},
	"scala": {}, "elixir": {},
	// Frontend frameworks
	"react": {}, "vue": {}, "angular": {}, "svelte": {}, "nextjs": {},
	// Backend frameworks
	"nodejs": {}, "express": {}, "django": {}, "flask": {}, "laravel": {},
	"fastapi": {}, "spring-boot": {},
	// Mobile
	"react-native": {}, "flutter": {}, "ios": {}, "android": {},
	// Databases
	"postgresql": {}, "mysql": {}, "mongodb": {}, "redis": {},
	"elasticsearch": {}, "cassandra": {}, "dynamodb": {}, "sqlite": {}, "sql": {},
	// Cloud & DevOps
	"aws": {}, "gcp": {}, "azure": {}, "docker": {}, "kubernetes": {},
	"terraform": {}, "ansible": {}, "jenkins": {}, "ci-cd": {}, "serverless": {},
	// Architecture
	"microservices": {}, "rest-api": {}, "graphql": {}, "grpc": {},
	"websocket": {}, "event-driven": {},
	// Data science & ML
	"machine-learning": {}, "deep-learning": {}, "tensorflow": {}, "pytorch": {},
	"pandas": {}, "numpy": {}, "nlp": {}, "computer-vision": {},
	// AI / LLM / GenAI
	"llm": {}, "rag": {}, "prompt-engineering": {}, "fine-tuning": {},
	"embeddings": {}, "transformers": {}, "agents": {}, "agentic-ai": {},
	"langchain": {}, "langgraph": {}, "openai": {}, "anthropic": {},
	"vector-db": {}, "mlops": {}, "huggingface": {},
	// Tools
	"git": {}, "linux": {}, "tdd": {}, "jest": {}, "pytest": {}, "tailwind": {},
	"playwright": {}, "cypress": {}, "storybook": {},
}

// labels holds human-readable names for tags whose display form differs from
// a simple title-casing of the tag itself.
var labels = map[string]string{
	"csharp":           "C#",
	"nextjs":           "Next.js",
	"nodejs":           "Node.js",
	"spring-boot":      "Spring Boot",
	"react-native":     "React Native",
	"ios":              "iOS",
	"postgresql":       "PostgreSQL",
	"mysql":            "MySQL",
	"mongodb":          "MongoDB",
	"ci-cd":            "CI/CD",
	"rest-api":         "REST API",
	"graphql":          "GraphQL",
	"grpc":             "gRPC",
	"machine-learning": "machine learning",
	"deep-learning":    "deep learning",
	"computer-vision":  "computer vision",
	"nlp":              "NLP",
	"llm":              "LLM",
	"rag":              "RAG",
	"prompt-engineering": "prompt engineering",
	"fine-tuning":      "fine-tuning",
	"agentic-ai":       "agentic AI",
	"vector-db":        "vector database",
	"mlops":            "MLOps",
	"tdd":              "TDD",
	"aws":              "AWS",
	"gcp":              "GCP",
	"sql":              "SQL",
	"event-driven":     "event-driven",
}

// IsCanonical reports whether tag belongs to the taxonomy.
func IsCanonical(tag string) bool {
	_, ok := Canonical[Normalize(tag)]
	return ok
}

// Normalize lower-cases and trims a free-text skill term.
func Normalize(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// Label returns the human-readable display name for a canonical tag. Tags
// without an explicit label fall back to the tag itself, which reads fine for
// single words like "react" or "python".
func Label(tag string) string {
	tag = Normalize(tag)
	if l, ok := labels[tag]; ok {
		return l
	}
	return tag
}

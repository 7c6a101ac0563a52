package skills

// fallbackKeywords maps a canonical tag to the title/description substrings
// that signal the skill before extraction has populated job_skill_tags for a
// corpus. The trailing space in "ai " is deliberate: it avoids matching
// "maintain", "detail" and friends.
var fallbackKeywords = map[string][]string{
	"react":      {"react", "next.js", "nextjs"},
	"typescript": {"typescript", " ts "},
	"javascript": {"javascript", " js "},
	"python":     {"python"},
	"go":         {"golang", " go "},
	"rust":       {"rust"},
	"nodejs":     {"node.js", "nodejs", "node "},
	"agents":     {"ai agent", "agentic", "autonomous agent"},
	"llm":        {"llm", "large language model", "genai", "generative ai"},
	"rag":        {"rag", "retrieval-augmented", "retrieval augmented"},
	"machine-learning": {"machine learning", " ml ", "deep learning"},
	"embeddings": {"embedding", "vector search", "vector database"},
	"kubernetes": {"kubernetes", "k8s"},
	"terraform":  {"terraform"},
	"aws":        {"aws", "amazon web services"},
	"gcp":        {"gcp", "google cloud"},
	"azure":      {"azure"},
	"postgresql": {"postgres", "postgresql"},
	"graphql":    {"graphql"},
	"grpc":       {"grpc"},
	"ai":         {"ai ", "machine learning", "llm", "genai", "artificial intelligence"},
	"frontend":   {"frontend", "front-end", "react", "vue", "angular"},
	"backend":    {"backend", "back-end", "server-side"},
	"devops":     {"devops", "infrastructure", "sre", "site reliability"},
}

// FallbackKeywords returns the LIKE substrings to probe for a skill term when
// no extracted tags exist, always including the human-readable label so a
// taxonomy tag with no curated keyword list still matches something.
func FallbackKeywords(term string) []string {
	term = Normalize(term)
	kws := fallbackKeywords[term]

	label := Label(term)
	for _, kw := range kws {
		if kw == label {
			return kws
		}
	}
	return append(append([]string{}, kws...), label)
}

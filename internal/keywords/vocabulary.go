package keywords

// Curated skill vocabulary. Canonical names are lowercase; aliases fold
// common spelling variants onto them.
var knownSkills = []string{
	"go", "python", "java", "javascript", "typescript", "c", "c++", "c#",
	"ruby", "rust", "php", "swift", "kotlin", "scala", "sql",
	"react", "vue", "angular", "svelte", "next.js", "node",
	"django", "flask", "rails", "spring", "laravel", ".net",
	"html", "css", "tailwind", "sass", "graphql", "rest", "grpc",
	"postgresql", "mysql", "mongodb", "redis", "elasticsearch", "sqlite",
	"kafka", "rabbitmq", "supabase", "firebase",
	"docker", "kubernetes", "terraform", "ansible", "helm",
	"aws", "gcp", "azure", "linux", "git", "ci/cd", "jenkins",
	"microservices", "serverless", "websocket", "oauth",
	"pandas", "numpy", "pytorch", "tensorflow", "spark",
	"figma", "jira", "agile", "scrum", "tdd",
	"accessibility", "seo", "analytics", "testing", "security",
	"leadership", "mentoring", "communication", "stakeholder",
}

var skillAliases = map[string]string{
	"golang":        "go",
	"nodejs":        "node",
	"node.js":       "node",
	"reactjs":       "react",
	"react.js":      "react",
	"vuejs":         "vue",
	"vue.js":        "vue",
	"nextjs":        "next.js",
	"postgres":      "postgresql",
	"k8s":           "kubernetes",
	"es":            "elasticsearch",
	"dotnet":        ".net",
	"cicd":          "ci/cd",
	"ci":            "ci/cd",
	"websockets":    "websocket",
	"java.script":   "javascript",
	"ts":            "typescript",
	"a11y":          "accessibility",
	"unit":          "testing",
	"ruby-on-rails": "rails",
}

var stopwords = map[string]struct{}{
	"and": {}, "the": {}, "for": {}, "with": {}, "you": {}, "are": {},
	"have": {}, "will": {}, "this": {}, "that": {}, "from": {}, "our": {},
	"your": {}, "their": {}, "they": {}, "work": {}, "team": {}, "role": {},
	"job": {}, "join": {}, "about": {}, "which": {}, "what": {}, "who": {},
	"how": {}, "can": {}, "not": {}, "but": {}, "all": {}, "also": {},
	"more": {}, "than": {}, "into": {}, "has": {}, "its": {}, "was": {},
	"were": {}, "been": {}, "each": {}, "new": {}, "use": {}, "using": {},
	"used": {}, "well": {}, "able": {}, "get": {}, "set": {}, "such": {},
	"per": {}, "plus": {}, "years": {}, "year": {}, "experience": {},
	"required": {}, "requirements": {}, "responsibilities": {}, "skills": {},
	"strong": {}, "must": {}, "should": {}, "would": {}, "looking": {},
	"ideal": {}, "candidate": {}, "company": {}, "position": {}, "other": {},
	"etc": {}, "including": {}, "ability": {}, "knowledge": {}, "working": {},
}

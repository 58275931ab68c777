package email

type Template string

const (
	// TemplateMemoryPublished corresponds to templates/memory_published.html
	TemplateMemoryPublished Template = "memory_published"
)

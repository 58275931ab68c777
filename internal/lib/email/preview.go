package email

// PreviewData holds sample template data for rendering templates locally,
// keyed by template name.
var PreviewData = map[Template]map[string]string{
	TemplateMemoryPublished: {
		"UserFirstName": "John",
		"MemoryID":      "0b6a6a3e-2f6b-4b55-9d8e-0c6f2e3c6a10",
		"Excerpt":       "A walk along the harbour at dusk, the lights coming on one by one...",
	},
}

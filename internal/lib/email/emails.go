package email

import "context"

// SendMemoryPublishedEmail tells the owner that one of their memories is now public.
func (c *Client) SendMemoryPublishedEmail(ctx context.Context, to, firstName, memoryID, excerpt string) error {
	if firstName == "" {
		firstName = "there"
	}

	data := map[string]string{
		"UserFirstName": firstName,
		"MemoryID":      memoryID,
		"Excerpt":       excerpt,
	}

	return c.SendEmail(
		ctx,
		to,
		"Your memory is now public",
		TemplateMemoryPublished,
		data,
	)
}

package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/admin-copilot/copilot-go/internal/models"
)

func (c *Client) ListEmailSummaries(ctx context.Context) (models.Paginated[models.EmailSummary], error) {
	var page models.Paginated[models.EmailSummary]
	err := c.getJSON(ctx, "/api/emails/emailsummaries/", &page)
	if err != nil {
		return models.Paginated[models.EmailSummary]{}, err
	}
	return page, nil
}

func (c *Client) GetEmailSummary(ctx context.Context, id int) (models.EmailSummary, error) {
	var summary models.EmailSummary
	err := c.getJSON(ctx, fmt.Sprintf("/api/emails/emailsummaries/%d/", id), &summary)
	if err != nil {
		return models.EmailSummary{}, err
	}
	return summary, nil
}

func (c *Client) DeleteEmailSummary(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/api/emails/emailsummaries/%d/", id))
}

// ConnectGmail returns the URL the user has to visit to connect their
// mailbox.
func (c *Client) ConnectGmail(ctx context.Context) (string, error) {
	var response struct {
		AuthURL string `json:"auth_url"`
	}
	err := c.sendJSON(ctx, http.MethodPost, "/api/emails/connect-gmail/", nil, &response)
	if err != nil {
		return "", err
	}
	return response.AuthURL, nil
}

func (c *Client) ListSmartReplies(ctx context.Context) (models.Paginated[models.SmartReply], error) {
	var page models.Paginated[models.SmartReply]
	err := c.getJSON(ctx, "/api/emails/smart-replies/", &page)
	if err != nil {
		return models.Paginated[models.SmartReply]{}, err
	}
	return page, nil
}

func (c *Client) GenerateSmartReply(ctx context.Context, emailSummaryID int) (models.SmartReply, error) {
	var reply models.SmartReply
	err := c.sendJSON(ctx, http.MethodPost, fmt.Sprintf("/api/emails/smart-replies/%d/smart_reply/", emailSummaryID), nil, &reply)
	if err != nil {
		return models.SmartReply{}, err
	}
	return reply, nil
}

func (c *Client) SaveSmartReply(ctx context.Context, emailSummaryID int, replyText string) (models.SmartReply, error) {
	var reply models.SmartReply
	err := c.sendJSON(
		ctx,
		http.MethodPost,
		fmt.Sprintf("/api/emails/smart-replies/%d/save_reply/", emailSummaryID),
		map[string]string{"reply_text": replyText},
		&reply,
	)
	if err != nil {
		return models.SmartReply{}, err
	}
	return reply, nil
}

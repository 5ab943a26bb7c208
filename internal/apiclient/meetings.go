package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/admin-copilot/copilot-go/internal/models"
)

func (c *Client) ListMeetingTranscripts(ctx context.Context, page int) (models.Paginated[models.MeetingTranscript], error) {
	var result models.Paginated[models.MeetingTranscript]
	err := c.getJSON(ctx, fmt.Sprintf("/api/meetings/meeting-transcripts/?page=%d", page), &result)
	if err != nil {
		return models.Paginated[models.MeetingTranscript]{}, err
	}
	return result, nil
}

// UploadMeetingTranscript uploads an audio or text transcript file.
func (c *Client) UploadMeetingTranscript(ctx context.Context, source string, fileType string, upload Upload) (models.MeetingTranscript, error) {
	fields := map[string]string{"source": source, "file_type": fileType}
	body, contentType, err := c.multipartBody(fields, &upload)
	if err != nil {
		return models.MeetingTranscript{}, models.NewAPIError(err.Error())
	}
	var transcript models.MeetingTranscript
	err = c.authenticatedRequest(ctx, http.MethodPost, "/api/meetings/meeting-transcripts/", body, contentType, &transcript)
	if err != nil {
		return models.MeetingTranscript{}, err
	}
	return transcript, nil
}

func (c *Client) TranscribeAndSummarize(ctx context.Context, transcriptID int) (models.MeetingSummary, error) {
	var summary models.MeetingSummary
	err := c.sendJSON(
		ctx,
		http.MethodPost,
		fmt.Sprintf("/api/meetings/meeting-transcripts/%d/transcribe-and-summarize/", transcriptID),
		nil,
		&summary,
	)
	if err != nil {
		return models.MeetingSummary{}, err
	}
	return summary, nil
}

func (c *Client) DeleteMeetingTranscript(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/api/meetings/meeting-transcripts/%d/", id))
}

func (c *Client) ListMeetingSummaries(ctx context.Context, page int) (models.Paginated[models.MeetingSummary], error) {
	var result models.Paginated[models.MeetingSummary]
	err := c.getJSON(ctx, fmt.Sprintf("/api/meetings/meeting-summary/?page=%d", page), &result)
	if err != nil {
		return models.Paginated[models.MeetingSummary]{}, err
	}
	return result, nil
}

func (c *Client) GetMeetingSummary(ctx context.Context, id int) (models.MeetingSummary, error) {
	var summary models.MeetingSummary
	err := c.getJSON(ctx, fmt.Sprintf("/api/meetings/meeting-summary/%d/", id), &summary)
	if err != nil {
		return models.MeetingSummary{}, err
	}
	return summary, nil
}

func (c *Client) DeleteMeetingSummary(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/api/meetings/meeting-summary/%d/", id))
}

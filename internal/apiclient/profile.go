package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/admin-copilot/copilot-go/internal/models"
)

// GetProfile returns the raw profile response. The backend is inconsistent
// about its shape (a bare profile object or a paginated envelope), the session
// manager normalizes it.
func (c *Client) GetProfile(ctx context.Context) (json.RawMessage, error) {
	var response json.RawMessage
	err := c.getJSON(ctx, "/api/profile/me/", &response)
	if err != nil {
		return nil, err
	}
	return response, nil
}

// Upload is a file attached to a multipart request.
type Upload struct {
	Field    string
	FileName string
	Reader   io.Reader
}

func (c *Client) multipartBody(fields map[string]string, upload *Upload) ([]byte, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for field, value := range fields {
		if err := writer.WriteField(field, value); err != nil {
			return nil, "", err
		}
	}
	if upload != nil {
		part, err := writer.CreateFormFile(upload.Field, upload.FileName)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, upload.Reader); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}

// UpdateProfile patches profile fields, optionally uploading a new avatar.
// The profile is still replaced wholesale on the next fetch, this endpoint
// never changes the locally held copy.
func (c *Client) UpdateProfile(ctx context.Context, fields map[string]string, avatar *Upload) (models.UserProfile, error) {
	body, contentType, err := c.multipartBody(fields, avatar)
	if err != nil {
		return models.UserProfile{}, models.NewAPIError(err.Error())
	}
	var profile models.UserProfile
	err = c.authenticatedRequest(ctx, http.MethodPatch, "/api/profile/update_me/", body, contentType, &profile)
	if err != nil {
		return models.UserProfile{}, err
	}
	return profile, nil
}

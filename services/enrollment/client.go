// Package enrollmentsvc is the client of the external enrollment service.
package enrollmentsvc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/Diva-jaw/Frontend--sub001/core"
	"github.com/Diva-jaw/Frontend--sub001/core/auth"
	"github.com/Diva-jaw/Frontend--sub001/core/enrollment"
)

const userIDHeader = "X-User-Id"

type Client struct {
	baseURL string
	apiKey  string
	http    *rest.Client
	logger  core.Logger
}

var _ enrollment.Service = (*Client)(nil)

func NewClient(conf *core.Config, logger core.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(conf.Enrollment.BaseURL, "/"),
		apiKey:  conf.Enrollment.APIKey,
		http:    &rest.Client{HTTPClient: &http.Client{Timeout: conf.Enrollment.Timeout}},
		logger:  logger,
	}
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// EnrollInCourseWithDetails POSTs the form to `{base}/courses/{c}/modules/{m}/levels/{l}/enroll`.
// Transport failures become a "Network error" rejection; error statuses carry the service's message.
func (c *Client) EnrollInCourseWithDetails(ctx context.Context, courseID, moduleID, levelID int, form enrollment.FormData) (enrollment.Result, error) {
	body, err := json.Marshal(form)
	if err != nil {
		return enrollment.Result{}, errors.Wrap(err, "encoding enrollment form")
	}

	headers := map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
	if c.apiKey != "" {
		headers["Authorization"] = "Bearer " + c.apiKey
	}
	if usr := auth.UserFromContext(ctx); usr != nil {
		headers[userIDHeader] = usr.ID
	}

	req := rest.Request{
		Method:  rest.Post,
		BaseURL: fmt.Sprintf("%s/courses/%d/modules/%d/levels/%d/enroll", c.baseURL, courseID, moduleID, levelID),
		Headers: headers,
		Body:    body,
	}
	res, err := c.send(ctx, req)
	if err != nil {
		c.logger.Warn(fmt.Sprintf("enrollment service unreachable: %v", err), err)
		return enrollment.Result{}, enrollment.NewServiceError(enrollment.MsgNetworkError, err)
	}

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return enrollment.Result{}, rejection(res)
	}

	var result enrollment.Result
	if strings.TrimSpace(res.Body) != "" {
		if err = json.Unmarshal([]byte(res.Body), &result); err != nil {
			return enrollment.Result{}, errors.Wrap(err, "decoding enrollment result")
		}
	}
	return result, nil
}

// send is rest.Client.Send bound to ctx.
func (c *Client) send(ctx context.Context, request rest.Request) (*rest.Response, error) {
	req, err := rest.BuildRequestObject(request)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	res, err := c.http.MakeRequest(req.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	return rest.BuildResponse(res)
}

func rejection(res *rest.Response) error {
	cause := errors.Errorf("enrollment service: status %d", res.StatusCode)

	var eb errorBody
	if err := json.Unmarshal([]byte(res.Body), &eb); err == nil {
		if eb.Message != "" {
			return enrollment.NewServiceError(eb.Message, cause)
		}
		if eb.Error != "" {
			return enrollment.NewServiceError(eb.Error, cause)
		}
	}
	// an unrecognised rejection shows the generic message
	return errors.Wrap(cause, strings.TrimSpace(res.Body))
}

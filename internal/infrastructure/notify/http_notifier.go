package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tell-platform/complaint-system/internal/api/metrics"
	"github.com/tell-platform/complaint-system/internal/core/domain"
	"github.com/tell-platform/complaint-system/internal/core/ports"
)

const (
	defaultTimeout = 10 * time.Second
	maxReplyBytes  = 64 << 10

	pathVerify   = "/email/verify"
	pathComplete = "/email/complete"
	pathSend     = "/email/send"
)

var ErrRejected = errors.New("mail endpoint rejected the message")

// HTTPNotifier posts transactional mail requests as JSON to a mail gateway.
// An empty base URL disables every send.
type HTTPNotifier struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

var _ ports.Notifier = (*HTTPNotifier)(nil)

func NewHTTPNotifier(baseURL string, timeout time.Duration, log zerolog.Logger) *HTTPNotifier {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPNotifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

type verifyBody struct {
	UserEmail     string `json:"userEmail"`
	UserFirstName string `json:"userFirstName"`
	Link          string `json:"link"`
}

type completeBody struct {
	UserEmail      string `json:"userEmail"`
	UserFirstName  string `json:"userFirstName"`
	ComplaintID    string `json:"complaintID"`
	ComplaintTitle string `json:"complaintTitle"`
	Link           string `json:"link"`
}

type sendBody struct {
	UserEmail    string `json:"userEmail"`
	EmailSubject string `json:"emailSubject"`
	EmailBody    string `json:"emailBody"`
}

// reply accepts both {success} and {data:{success}} shapes. A missing flag is
// treated as success.
type reply struct {
	Success *bool `json:"success"`
	Data    *struct {
		Success *bool `json:"success"`
	} `json:"data"`
}

func (r reply) ok() bool {
	if r.Success != nil {
		return *r.Success
	}
	if r.Data != nil && r.Data.Success != nil {
		return *r.Data.Success
	}
	return true
}

func (n *HTTPNotifier) SendVerification(ctx context.Context, m ports.VerificationMail) error {
	return n.post(ctx, "verification", pathVerify, verifyBody{
		UserEmail:     m.Email,
		UserFirstName: m.FirstName,
		Link:          m.Link,
	})
}

func (n *HTTPNotifier) SendComplaintClosed(ctx context.Context, m ports.ComplaintClosedMail) error {
	return n.post(ctx, "complaint_closed", pathComplete, completeBody{
		UserEmail:      m.Email,
		UserFirstName:  m.FirstName,
		ComplaintID:    m.ComplaintID,
		ComplaintTitle: m.Title,
		Link:           m.Link,
	})
}

// SendAuthorityWelcome tells a new authority its username. The password is
// never mailed.
func (n *HTTPNotifier) SendAuthorityWelcome(ctx context.Context, m ports.AuthorityWelcomeMail) error {
	signIn := "<p>Sign in with the password provided by your administrator.</p>"
	if m.Link != "" {
		signIn = fmt.Sprintf("<p>Sign in at <a href=\"%s\">%s</a> with the password provided by your administrator.</p>", m.Link, m.Link)
	}
	return n.post(ctx, "authority_welcome", pathSend, sendBody{
		UserEmail:    m.Email,
		EmailSubject: "TELL | Your Authority Account is Now Available",
		EmailBody: fmt.Sprintf(
			"<h3>An authority account has been created for you in TELL, the public complaint management system.</h3>"+
				"<h4>Account Name: %s<br/>Username: %s</h4>%s",
			m.AuthorityName, m.Username, signIn,
		),
	})
}

func (n *HTTPNotifier) post(ctx context.Context, kind, path string, body any) error {
	if n.baseURL == "" {
		metrics.NotificationsTotal.WithLabelValues(kind, "disabled").Inc()
		return domain.ErrNotificationsDisabled
	}

	err := n.do(ctx, path, body)
	if err != nil {
		metrics.NotificationsTotal.WithLabelValues(kind, "failed").Inc()
		n.log.Warn().Err(err).Str("kind", kind).Msg("notification failed")
		return fmt.Errorf("notify %s: %w", kind, err)
	}
	metrics.NotificationsTotal.WithLabelValues(kind, "sent").Inc()
	return nil
}

func (n *HTTPNotifier) do(ctx context.Context, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}

	var r reply
	if len(bytes.TrimSpace(raw)) > 0 && json.Unmarshal(raw, &r) == nil && !r.ok() {
		return fmt.Errorf("%w: success=false", ErrRejected)
	}
	return nil
}

package sms

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sandevgo/aimee/internal/config"
	"github.com/sandevgo/aimee/pkg/log"
	"github.com/sandevgo/aimee/pkg/retry"
)

const twilioAPIBase = "https://api.twilio.com"

// Twilio sends outbound SMS through the Twilio Messages REST API.
type Twilio struct {
	client     *http.Client
	baseURL    string
	accountSID string
	authToken  string
	from       string
	retrier    *retry.Retrier
}

func NewTwilio(cfg *config.TwilioConfig) *Twilio {
	return &Twilio{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL:    twilioAPIBase,
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		from:       cfg.FromNumber,
		retrier:    retry.NewDefaultRetrier(),
	}
}

func (t *Twilio) Send(ctx context.Context, to, body string) error {
	form := url.Values{
		"From": {t.from},
		"To":   {to},
		"Body": {body},
	}

	op := func() error {
		endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", t.baseURL, t.accountSID)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.SetBasicAuth(t.accountSID, t.authToken)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := t.client.Do(req)
		if err != nil {
			return fmt.Errorf("request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusMultipleChoices {
			data, _ := io.ReadAll(resp.Body)
			return fmt.Errorf("twilio http %d: %s", resp.StatusCode, string(data))
		}
		return nil
	}

	if err := t.retrier.Do(ctx, op); err != nil {
		return fmt.Errorf("send sms to %s: %w", to, err)
	}

	log.FromCtx(ctx).Debug().Str("to", to).Int("len", len(body)).Msg("sms sent")
	return nil
}

package sms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/aimee/internal/config"
	"github.com/sandevgo/aimee/pkg/retry"
)

func newTestTwilio(serverURL string) *Twilio {
	tw := NewTwilio(&config.TwilioConfig{
		AccountSID: "AC123",
		AuthToken:  "secret",
		FromNumber: "+15550009999",
	})
	tw.baseURL = serverURL
	tw.retrier = retry.NewRetrier(&retry.Config{MaxRetries: 1, BackoffFactor: 1})
	return tw
}

func TestTwilio_Send(t *testing.T) {
	var gotPath, gotUser, gotPass string
	var gotForm map[string]string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"From": r.PostFormValue("From"),
			"To":   r.PostFormValue("To"),
			"Body": r.PostFormValue("Body"),
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	tw := newTestTwilio(ts.URL)
	err := tw.Send(context.Background(), "+15551234567", "Morning! Thinking of you")

	require.NoError(t, err)
	assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", gotPath)
	assert.Equal(t, "AC123", gotUser)
	assert.Equal(t, "secret", gotPass)
	assert.Equal(t, map[string]string{
		"From": "+15550009999",
		"To":   "+15551234567",
		"Body": "Morning! Thinking of you",
	}, gotForm)
}

func TestTwilio_SendAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code": 21211, "message": "Invalid 'To' Phone Number"}`, http.StatusBadRequest)
	}))
	defer ts.Close()

	tw := newTestTwilio(ts.URL)
	err := tw.Send(context.Background(), "not-a-number", "hi")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestTwilio_SendRetriesServerErrors(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	tw := newTestTwilio(ts.URL)
	err := tw.Send(context.Background(), "+15551234567", "hi")

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

package http

import (
	"context"
	"net/http"
	"time"

	"github.com/sandevgo/aimee/internal/providers/sms"
	"github.com/sandevgo/aimee/pkg/log"
)

// webhookFallback is returned when the handler cannot beat the reply
// budget. Twilio gets a warm message either way.
const webhookFallback = "Sorry, I'm having trouble right now. Try texting me again in a moment! \U0001F49B"

// handleSMS races the message handler against the webhook budget.
// Twilio always gets 200 + TwiML, even on internal failure, to avoid
// provider-side retry storms.
func (s *Server) handleSMS(w http.ResponseWriter, r *http.Request) {
	logger := log.FromCtx(r.Context())

	if err := r.ParseForm(); err != nil {
		logger.Error().Err(err).Msg("failed to parse webhook form")
		writeTwiML(w, sms.Reply(webhookFallback))
		return
	}

	from := r.PostFormValue("From")
	body := r.PostFormValue("Body")
	messageSID := r.PostFormValue("MessageSid")

	if from == "" || body == "" {
		logger.Warn().Msg("webhook call missing From or Body")
		writeTwiML(w, sms.EmptyReply())
		return
	}

	// Detach from the request context: when the budget expires we
	// answer immediately, but the abandoned handler task is allowed to
	// finish its persistence work asynchronously.
	ctx := context.WithoutCancel(r.Context())

	replyCh := make(chan string, 1)
	go func() {
		replyCh <- s.handler.HandleInbound(ctx, from, body, messageSID)
	}()

	select {
	case reply := <-replyCh:
		if reply == "" {
			writeTwiML(w, sms.EmptyReply())
			return
		}
		writeTwiML(w, sms.Reply(reply))
	case <-time.After(s.budget):
		logger.Warn().Str("from", from).Dur("budget", s.budget).Msg("handler missed webhook budget, sending fallback")
		writeTwiML(w, sms.Reply(webhookFallback))
	}
}

func writeTwiML(w http.ResponseWriter, payload []byte) {
	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

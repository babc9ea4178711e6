package sms

import "encoding/xml"

// twimlResponse is the minimal messaging reply envelope Twilio expects
// back from the webhook.
type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message,omitempty"`
}

// Reply renders a single-message TwiML reply.
func Reply(text string) []byte {
	data, err := xml.Marshal(twimlResponse{Message: text})
	if err != nil {
		// Only reachable with invalid XML chars; degrade to empty.
		return EmptyReply()
	}
	return append([]byte(xml.Header), data...)
}

// EmptyReply acknowledges the webhook without sending a message, used
// for replayed (already-processed) inbound messages.
func EmptyReply() []byte {
	data, _ := xml.Marshal(twimlResponse{})
	return append([]byte(xml.Header), data...)
}

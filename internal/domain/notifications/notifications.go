// Package notifications builds WhatsApp share links and hands prepared
// messages to the configured sharers.
package notifications

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"garagepro/internal/domain"

	log "github.com/sirupsen/logrus"
)

// MinPhoneDigits is the shortest phone number a share link is built for
const MinPhoneDigits = 10

// DigitsOnly strips every non-digit character from phone
func DigitsOnly(phone string) string {
	var b strings.Builder
	for _, c := range phone {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
		}
	}
	return b.String()
}

// ValidatePhone returns a ShareTargetError when phone has fewer than ten digits
func ValidatePhone(phone string) error {
	if len(DigitsOnly(phone)) < MinPhoneDigits {
		return &domain.ShareTargetError{Phone: phone}
	}
	return nil
}

// WhatsAppLink generates a wa.me link with a pre-filled message
func WhatsAppLink(phone, message string) (string, error) {
	if err := ValidatePhone(phone); err != nil {
		return "", err
	}
	// spaces must be %20, wa.me shows a literal '+' otherwise
	encoded := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return "https://wa.me/" + DigitsOnly(phone) + "?text=" + encoded, nil
}

// Share is a prepared message ready to be opened on the owner's device
type Share struct {
	Intent    string    `json:"intent"`
	JobCardID string    `json:"jobCardId,omitempty"`
	Phone     string    `json:"phone"`
	Message   string    `json:"message"`
	Link      string    `json:"link"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewShare validates the phone number and builds the share link
func NewShare(intent, jobCardID, phone, message string) (Share, error) {
	link, err := WhatsAppLink(phone, message)
	if err != nil {
		return Share{}, err
	}
	return Share{
		Intent:    intent,
		JobCardID: jobCardID,
		Phone:     DigitsOnly(phone),
		Message:   message,
		Link:      link,
		CreatedAt: time.Now(),
	}, nil
}

// Sharer receives prepared shares. Implementations publish or record them;
// none of them deliver the message.
type Sharer interface {
	Share(ctx context.Context, s Share) error
}

// CompositeSharer fans a share out to every configured sharer
type CompositeSharer struct {
	sharers []Sharer
}

// NewCompositeSharer creates a sharer over the non-nil sharers given
func NewCompositeSharer(sharers ...Sharer) *CompositeSharer {
	c := &CompositeSharer{}
	for _, s := range sharers {
		if s != nil {
			c.sharers = append(c.sharers, s)
		}
	}
	return c
}

// Share calls every sharer and joins their errors
func (c *CompositeSharer) Share(ctx context.Context, s Share) error {
	var errs []error
	for _, sh := range c.sharers {
		if err := sh.Share(ctx, s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogSharer records shares in the application log
type LogSharer struct {
	logger log.FieldLogger
}

// NewLogSharer creates a sharer that logs to logger
func NewLogSharer(logger log.FieldLogger) *LogSharer {
	return &LogSharer{logger: logger}
}

func (l *LogSharer) Share(ctx context.Context, s Share) error {
	l.logger.WithFields(log.Fields{
		"intent":      s.Intent,
		"job_card_id": s.JobCardID,
		"phone":       s.Phone,
		"link_length": len(s.Link),
	}).Info("Share link prepared")
	return nil
}

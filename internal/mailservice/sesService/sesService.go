// Package sesservice provides Amazon SES email service implementation.
package sesservice

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/sgaunet/mailalert/internal/mailservice"
)

const sendTimeout = 10 * time.Second

type sesService struct {
	client *sesv2.Client
}

// NewSESService creates a new SES service instance from an AWS configuration.
//nolint:ireturn // Factory function intentionally returns interface for dependency injection
func NewSESService(awscfg aws.Config) (mailservice.MailSender, error) {
	if awscfg.Region == "" {
		return nil, fmt.Errorf("%w", ErrSESRegionMissing)
	}
	s := sesService{
		client: sesv2.NewFromConfig(awscfg),
	}
	return &s, nil
}

func (s *sesService) Send(ctx context.Context, from string, subject string, body string, recipient string) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	input := sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{recipient},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data: aws.String(subject),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data: aws.String(body),
					},
				},
			},
		},
	}
	if _, err := s.client.SendEmail(ctx, &input); err != nil {
		return fmt.Errorf("failed to send email via ses: %w", err)
	}
	return nil
}

package email

import (
	"fmt"
	"log"
	"os"

	"github.com/resendlabs/resend-go"
)

type EmailService struct {
	client   *resend.Client
	from     string
	fromName string
	logger   *log.Logger
}

func NewEmailService() *EmailService {
	return &EmailService{
		client:   resend.NewClient(os.Getenv("RESEND_API_KEY")),
		from:     os.Getenv("EMAIL_FROM_ADDRESS"),
		fromName: os.Getenv("EMAIL_FROM_NAME"),
		logger:   log.New(os.Stdout, "EMAIL: ", log.LstdFlags),
	}
}

func (s *EmailService) SendWelcomeEmail(email, displayName string) error {
	s.logger.Printf("Sending welcome email to: %s (%s)", email, displayName)

	html := fmt.Sprintf(`
		<h2>Welcome to Drive Time Tales, %s!</h2>
		<p>Your free starter credits are already on your account. Browse the
		catalog, pick a story, and make your next drive fly by.</p>
		<p>Safe travels,<br>The Drive Time Tales team</p>`, displayName)

	params := &resend.SendEmailRequest{
		From:    s.fromName + " <" + s.from + ">",
		To:      []string{email},
		Subject: "Welcome to Drive Time Tales!",
		Html:    html,
	}

	resp, err := s.client.Emails.Send(params)
	if err != nil {
		s.logger.Printf("Failed to send welcome email to %s: %v", email, err)
		return err
	}

	s.logger.Printf("Successfully sent welcome email to %s (ID: %s)", email, resp.Id)
	return nil
}

func (s *EmailService) SendReferralRewardEmail(email, displayName string, credits int, referredName string) error {
	s.logger.Printf("Sending referral reward email to: %s", email)

	html := fmt.Sprintf(`
		<h2>You earned %d credits!</h2>
		<p>Hi %s, %s just joined Drive Time Tales using your referral code.
		We added %d credits to your account as a thank you.</p>`,
		credits, displayName, referredName, credits)

	params := &resend.SendEmailRequest{
		From:    s.fromName + " <" + s.from + ">",
		To:      []string{email},
		Subject: "Your referral reward is here",
		Html:    html,
	}

	resp, err := s.client.Emails.Send(params)
	if err != nil {
		s.logger.Printf("Failed to send referral reward email to %s: %v", email, err)
		return err
	}

	s.logger.Printf("Successfully sent referral reward email to %s (ID: %s)", email, resp.Id)
	return nil
}

func (s *EmailService) SendPurchaseReceiptEmail(email, displayName, storyTitle string, creditsSpent int) error {
	html := fmt.Sprintf(`
		<h2>Enjoy "%s"</h2>
		<p>Hi %s, your purchase is complete (%d credits). The story is waiting
		in your library, downloads included.</p>`, storyTitle, displayName, creditsSpent)

	params := &resend.SendEmailRequest{
		From:    s.fromName + " <" + s.from + ">",
		To:      []string{email},
		Subject: fmt.Sprintf(`Your story "%s" is ready`, storyTitle),
		Html:    html,
	}

	_, err := s.client.Emails.Send(params)
	if err != nil {
		s.logger.Printf("Failed to send receipt email to %s: %v", email, err)
	}
	return err
}

package email

import "fmt"

// Шаблоны писем. HTML держим простым, без внешних ассетов.

func WelcomeEmail(to, name string) *Email {
	return &Email{
		To:      []string{to},
		Subject: "Welcome to TalentLink",
		Body: fmt.Sprintf(
			"<h2>Welcome, %s!</h2><p>Your account is ready. Complete your profile to get started.</p>",
			name),
	}
}

func ApplicationStatusEmail(to, jobTitle, status string) *Email {
	return &Email{
		To:      []string{to},
		Subject: fmt.Sprintf("Your application for \"%s\" was %s", jobTitle, status),
		Body: fmt.Sprintf(
			"<p>Your application for the job <b>%s</b> has been <b>%s</b>.</p>",
			jobTitle, status),
	}
}

func PaymentReleasedEmail(to string, amount float64, milestoneTitle string) *Email {
	return &Email{
		To:      []string{to},
		Subject: "Payment released",
		Body: fmt.Sprintf(
			"<p>A payment of <b>$%.2f</b> for milestone <b>%s</b> has been released to your account.</p>",
			amount, milestoneTitle),
	}
}

func NewMessageEmail(to, senderName string) *Email {
	return &Email{
		To:      []string{to},
		Subject: fmt.Sprintf("New message from %s", senderName),
		Body: fmt.Sprintf(
			"<p>You have a new message from <b>%s</b>. Log in to reply.</p>",
			senderName),
	}
}

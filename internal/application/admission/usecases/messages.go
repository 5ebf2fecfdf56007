package usecases

import "fmt"

func msgChargeSendFailed() string {
	return "We couldn't send you the payment request. Please try again later."
}

func msgWelcome(amount int, channelLink string) string {
	if channelLink != "" {
		return fmt.Sprintf("Payment of %d Stars received. You've been admitted to the channel, welcome! %s", amount, channelLink)
	}
	return fmt.Sprintf("Payment of %d Stars received. You've been admitted to the channel, welcome!", amount)
}

func msgAdmissionRejected() string {
	return "We couldn't add you to the channel. You may have withdrawn your join request or already joined."
}

func msgAdmissionDelayed() string {
	return "Your payment was received, but admitting you to the channel is taking longer than expected. We'll follow up shortly."
}

package checkout

// State tracks a submission through the booking-payment sequence. Each
// submission moves Idle -> Submitting -> BookingCreated -> PaymentLinkCreated
// and terminates in Redirected or LocalSuccess; StateError is reachable from
// Submitting (booking call failed) and BookingCreated (payment-link call
// failed).
type State string

const (
	StateIdle               State = "idle"
	StateSubmitting         State = "submitting"
	StateBookingCreated     State = "booking_created"
	StatePaymentLinkCreated State = "payment_link_created"
	StateRedirected         State = "redirected"
	StateLocalSuccess       State = "local_success"
	StateError              State = "error"
)

// Terminal reports whether the submission has finished, successfully or not.
func (s State) Terminal() bool {
	switch s {
	case StateRedirected, StateLocalSuccess, StateError:
		return true
	}
	return false
}

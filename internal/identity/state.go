package identity

// State is the sign-in state of a Client.
type State int

const (
	// SignedOut means no access token is held.
	SignedOut State = iota

	// Pending means a token request is waiting for the provider callback.
	Pending

	// SignedIn means an access token is held and can authorize requests.
	SignedIn
)

func (s State) String() string {
	switch s {
	case SignedOut:
		return "signed out"
	case Pending:
		return "pending"
	case SignedIn:
		return "signed in"
	default:
		return "unknown"
	}
}

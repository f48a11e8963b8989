package v1

type Client struct {
	Transport     *Transport
	Auth          *AuthEndpoint
	Timesheets    *TimesheetEndpoint
	ActivityTypes *ActivityTypeEndpoint
	Users         *UserEndpoint
}

// NewClient initializes the API client. token may be empty until Login.
func NewClient(baseURL string, token string) *Client {
	t := NewTransport(baseURL, token)
	return &Client{
		Transport:     t,
		Auth:          &AuthEndpoint{transport: t},
		Timesheets:    &TimesheetEndpoint{transport: t},
		ActivityTypes: &ActivityTypeEndpoint{transport: t},
		Users:         &UserEndpoint{transport: t},
	}
}

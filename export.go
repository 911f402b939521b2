package tempmail

// ExportedMailbox is the serializable identity of a mailbox: the address
// and the bearer token that authorizes reading it. Anyone holding the
// token can read the mailbox, so treat exports like credentials.
type ExportedMailbox struct {
	Address string `json:"address"`
	Token   string `json:"token"`
}

// ExportMailbox returns the current mailbox's identity for use in a
// later process. Returns ErrNoAddress before the first GenerateAddress.
func (c *Client) ExportMailbox() (*ExportedMailbox, error) {
	address, token, err := c.auth()
	if err != nil {
		return nil, err
	}
	return &ExportedMailbox{Address: address, Token: token}, nil
}

// ImportMailbox adopts a previously exported mailbox. The client's seen
// set resets: the next Messages call or wait primes it from the current
// mailbox contents.
func (c *Client) ImportMailbox(data *ExportedMailbox) error {
	if data == nil || data.Address == "" || data.Token == "" {
		return ErrNoAddress
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClientClosed
	}
	c.address = data.Address
	c.authToken = data.Token
	c.seen = make(map[string]struct{})
	c.seenPrimed = false
	return nil
}

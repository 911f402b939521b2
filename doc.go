// Package tempmail is a client for a disposable-email provider that
// fronts its API behind an anti-bot challenge.
//
// The client maintains a browser-equivalent session (cookies plus a
// solved-challenge clearance token) without a real browser, and exposes
// three operations on top of it: generate a fresh address, read the
// mailbox, and block until a new message arrives.
//
// Basic usage:
//
//	client, err := tempmail.New(tempmail.WithTimeout(2 * time.Minute))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	address, err := client.GenerateAddress(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("mailbox:", address)
//
//	msg, err := client.WaitForMessage(ctx)
//	if errors.Is(err, tempmail.ErrWaitTimeout) {
//	    fmt.Println("no message arrived")
//	} else if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(msg.Subject)
//
// Each Client owns its own session, address and seen-message state;
// separate instances can be used concurrently with full isolation.
package tempmail

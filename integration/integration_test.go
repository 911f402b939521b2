//go:build integration

package integration

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	tempmail "github.com/patrick-siotti/temp-email"
)

var baseURL string

func TestMain(m *testing.M) {
	// Load .env file if it exists (won't error if missing)
	if err := godotenv.Load("../.env"); err != nil {
		os.Stderr.WriteString("Note: .env file not found at project root\n")
	}

	baseURL = os.Getenv("TEMPMAIL_BASE_URL")
	if baseURL == "" {
		os.Stderr.WriteString("Skipping integration tests: TEMPMAIL_BASE_URL not set\n")
		os.Exit(0)
	}

	os.Stderr.WriteString("Running integration tests against " + baseURL + "\n")
	os.Exit(m.Run())
}

func newClient(t *testing.T) *tempmail.Client {
	t.Helper()

	client, err := tempmail.New(
		tempmail.WithBaseURL(baseURL),
		tempmail.WithTimeout(30*time.Second),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	t.Cleanup(func() {
		client.Close()
	})

	return client
}

func TestIntegration_GenerateAddress(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	address, err := client.GenerateAddress(ctx)
	if err != nil {
		t.Fatalf("GenerateAddress() error = %v", err)
	}

	t.Logf("Generated address: %s", address)

	if address == "" {
		t.Error("address is empty")
	}
	if client.Address() != address {
		t.Errorf("Address() = %q, want %q", client.Address(), address)
	}
}

func TestIntegration_ListEmptyMailbox(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	if _, err := client.GenerateAddress(ctx); err != nil {
		t.Fatalf("GenerateAddress() error = %v", err)
	}

	msgs, err := client.Messages(ctx)
	if err != nil {
		t.Fatalf("Messages() error = %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("fresh mailbox holds %d messages", len(msgs))
	}
}

func TestIntegration_WaitTimesOutOnSilence(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	if _, err := client.GenerateAddress(ctx); err != nil {
		t.Fatalf("GenerateAddress() error = %v", err)
	}

	_, err := client.WaitForMessage(ctx,
		tempmail.WithWaitTimeout(10*time.Second),
		tempmail.WithWaitPollInterval(2*time.Second),
	)
	if !errors.Is(err, tempmail.ErrWaitTimeout) {
		t.Fatalf("error = %v, want ErrWaitTimeout", err)
	}
}

func TestIntegration_ExportImport(t *testing.T) {
	origin := newClient(t)
	ctx := context.Background()

	address, err := origin.GenerateAddress(ctx)
	if err != nil {
		t.Fatalf("GenerateAddress() error = %v", err)
	}

	exported, err := origin.ExportMailbox()
	if err != nil {
		t.Fatalf("ExportMailbox() error = %v", err)
	}

	adopted := newClient(t)
	if err := adopted.ImportMailbox(exported); err != nil {
		t.Fatalf("ImportMailbox() error = %v", err)
	}
	if adopted.Address() != address {
		t.Errorf("Address() = %q, want %q", adopted.Address(), address)
	}

	if _, err := adopted.Messages(ctx); err != nil {
		t.Fatalf("Messages() on imported mailbox error = %v", err)
	}
}

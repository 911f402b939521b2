// Command tempmail drives a disposable mailbox from the shell. It is
// built for test scripts: generate writes the mailbox identity as JSON
// to stdout, and the other commands read that identity back from stdin,
// so a mailbox can be shared across processes in a pipeline.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	tempmail "github.com/patrick-siotti/temp-email"
)

var (
	configPath   string
	baseURL      string
	userAgent    string
	waitTimeout  time.Duration
	pollInterval time.Duration

	prefix string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "tempmail",
		Short:         "Disposable mailboxes for test pipelines",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "provider base URL")
	rootCmd.PersistentFlags().StringVar(&userAgent, "user-agent", "", "User-Agent header override")
	rootCmd.PersistentFlags().DurationVar(&waitTimeout, "timeout", 0, "wait timeout")
	rootCmd.PersistentFlags().DurationVar(&pollInterval, "poll-interval", 0, "interval between mailbox polls")

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Create a mailbox and print its identity as JSON",
		Args:  cobra.NoArgs,
		RunE:  runGenerate,
	}
	generateCmd.Flags().StringVar(&prefix, "prefix", "", "requested local-part prefix")

	rootCmd.AddCommand(
		generateCmd,
		&cobra.Command{
			Use:   "messages",
			Short: "List the mailbox's messages (identity JSON on stdin)",
			Args:  cobra.NoArgs,
			RunE:  runMessages,
		},
		&cobra.Command{
			Use:   "wait",
			Short: "Block until a new message arrives (identity JSON on stdin)",
			Args:  cobra.NoArgs,
			RunE:  runWait,
		},
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// newClient builds a client from the config file and flags; flags win.
func newClient() (*tempmail.Client, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}

	var opts []tempmail.Option
	if cfg.BaseURL != "" {
		opts = append(opts, tempmail.WithBaseURL(cfg.BaseURL))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, tempmail.WithUserAgent(cfg.UserAgent))
	}
	if d := cfg.WaitTimeout(); d > 0 {
		opts = append(opts, tempmail.WithTimeout(d))
	}
	if d := cfg.PollInterval(); d > 0 {
		opts = append(opts, tempmail.WithPollInterval(d))
	}

	if baseURL != "" {
		opts = append(opts, tempmail.WithBaseURL(baseURL))
	}
	if userAgent != "" {
		opts = append(opts, tempmail.WithUserAgent(userAgent))
	}
	if waitTimeout > 0 {
		opts = append(opts, tempmail.WithTimeout(waitTimeout))
	}
	if pollInterval > 0 {
		opts = append(opts, tempmail.WithPollInterval(pollInterval))
	}

	return tempmail.New(opts...)
}

// importFromStdin builds a client and adopts the mailbox identity piped
// to stdin.
func importFromStdin() (*tempmail.Client, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}

	var exported tempmail.ExportedMailbox
	if err := json.Unmarshal(data, &exported); err != nil {
		return nil, fmt.Errorf("parse mailbox identity: %w", err)
	}

	client, err := newClient()
	if err != nil {
		return nil, err
	}
	if err := client.ImportMailbox(&exported); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	ctx := cmd.Context()
	if prefix != "" {
		_, err = client.GenerateAddressWithPrefix(ctx, prefix)
	} else {
		_, err = client.GenerateAddress(ctx)
	}
	if err != nil {
		return fmt.Errorf("generate address: %w", err)
	}

	exported, err := client.ExportMailbox()
	if err != nil {
		return err
	}
	return json.NewEncoder(os.Stdout).Encode(exported)
}

type messageOutput struct {
	ID          string `json:"id"`
	From        string `json:"from"`
	Subject     string `json:"subject"`
	Body        string `json:"body,omitempty"`
	BodyPreview string `json:"bodyPreview,omitempty"`
	ReceivedAt  string `json:"receivedAt"`
}

func toOutput(m tempmail.Message) messageOutput {
	return messageOutput{
		ID:          m.ID,
		From:        m.From,
		Subject:     m.Subject,
		Body:        m.Body,
		BodyPreview: m.BodyPreview,
		ReceivedAt:  m.ReceivedAt.Format(time.RFC3339),
	}
}

func runMessages(cmd *cobra.Command, args []string) error {
	client, err := importFromStdin()
	if err != nil {
		return err
	}
	defer client.Close()

	msgs, err := client.Messages(cmd.Context())
	if err != nil {
		return fmt.Errorf("list messages: %w", err)
	}

	output := struct {
		Address  string          `json:"address"`
		Messages []messageOutput `json:"messages"`
	}{
		Address:  client.Address(),
		Messages: make([]messageOutput, 0, len(msgs)),
	}
	for _, m := range msgs {
		output.Messages = append(output.Messages, toOutput(m))
	}
	return json.NewEncoder(os.Stdout).Encode(output)
}

func runWait(cmd *cobra.Command, args []string) error {
	client, err := importFromStdin()
	if err != nil {
		return err
	}
	defer client.Close()

	// Prime the seen set so only messages arriving from now on count.
	ctx := cmd.Context()
	if _, err := client.Messages(ctx); err != nil {
		return fmt.Errorf("prime mailbox: %w", err)
	}

	msg, err := client.WaitForMessage(ctx)
	if err != nil {
		return fmt.Errorf("wait for message: %w", err)
	}
	return json.NewEncoder(os.Stdout).Encode(toOutput(*msg))
}

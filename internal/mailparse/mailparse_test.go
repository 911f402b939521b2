package mailparse

import (
	"strings"
	"testing"
)

func TestExtract_SinglePartText(t *testing.T) {
	raw := "From: a@example.net\r\n" +
		"Subject: hi\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"hello world\r\n"

	body, err := Extract(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !strings.Contains(body.Text, "hello world") {
		t.Errorf("Text = %q, want hello world", body.Text)
	}
	if body.HTML != "" {
		t.Errorf("HTML = %q, want empty", body.HTML)
	}
}

func TestExtract_MultipartAlternative(t *testing.T) {
	raw := "From: a@example.net\r\n" +
		"Subject: hi\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: multipart/alternative; boundary=BOUNDARY\r\n" +
		"\r\n" +
		"--BOUNDARY\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"plain part\r\n" +
		"--BOUNDARY\r\n" +
		"Content-Type: text/html\r\n" +
		"\r\n" +
		"<p>html part</p>\r\n" +
		"--BOUNDARY--\r\n"

	body, err := Extract(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !strings.Contains(body.Text, "plain part") {
		t.Errorf("Text = %q, want plain part", body.Text)
	}
	if !strings.Contains(body.HTML, "html part") {
		t.Errorf("HTML = %q, want html part", body.HTML)
	}
}

func TestExtract_NestedMultipart(t *testing.T) {
	raw := "From: a@example.net\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: multipart/mixed; boundary=OUTER\r\n" +
		"\r\n" +
		"--OUTER\r\n" +
		"Content-Type: multipart/alternative; boundary=INNER\r\n" +
		"\r\n" +
		"--INNER\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"inner plain\r\n" +
		"--INNER--\r\n" +
		"--OUTER\r\n" +
		"Content-Type: application/octet-stream\r\n" +
		"\r\n" +
		"binarybytes\r\n" +
		"--OUTER--\r\n"

	body, err := Extract(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !strings.Contains(body.Text, "inner plain") {
		t.Errorf("Text = %q, want inner plain", body.Text)
	}
}

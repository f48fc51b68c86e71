package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

type check struct {
	name     string
	endpoint string
	payload  any
	verify   func(body map[string]any) error
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Println("FAILED:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		baseURL string
		wait    time.Duration
	)

	cmd := &cobra.Command{
		Use:           "smoke",
		Short:         "Exercise a running jsonstudio server",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			time.Sleep(wait)
			return runChecks(cmd, baseURL)
		},
	}

	cmd.Flags().StringVar(&baseURL, "url", "http://localhost:8080", "server base URL")
	cmd.Flags().DurationVar(&wait, "wait", 2*time.Second, "time to wait for the server to start")
	return cmd
}

func runChecks(cmd *cobra.Command, baseURL string) error {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, "Starting smoke test...")

	checks := []check{
		{
			name:     "Diff",
			endpoint: "/diff",
			payload: map[string]any{
				"seq":       1,
				"leftJson":  `{"users":[{"id":1,"name":"Alice"}]}`,
				"rightJson": `{"users":[{"id":1,"name":"Alicia"}],"total":1}`,
			},
			verify: func(body map[string]any) error {
				if body["hasDiff"] != true {
					return fmt.Errorf("expected hasDiff, got %v", body["hasDiff"])
				}
				summary, _ := body["changeSummary"].([]any)
				if len(summary) != 2 {
					return fmt.Errorf("expected 2 summary lines, got %v", body["changeSummary"])
				}
				return nil
			},
		},
		{
			name:     "Query",
			endpoint: "/query",
			payload: map[string]any{
				"content": `{"store":{"book":[{"price":8.95},{"price":22.99}]}}`,
				"path":    "$.store.book[?(@.price < 10)].price",
			},
			verify: func(body map[string]any) error {
				data, _ := body["data"].([]any)
				if len(data) != 1 || data[0] != 8.95 {
					return fmt.Errorf("unexpected data %v", body["data"])
				}
				return nil
			},
		},
		{
			name:     "Transform",
			endpoint: "/transform",
			payload: map[string]any{
				"content": `[{"a":1,"b":{"c":2}}]`,
				"format":  "csv",
			},
			verify: func(body map[string]any) error {
				if body["content"] != "a,b.c\n1,2" {
					return fmt.Errorf("unexpected content %q", body["content"])
				}
				return nil
			},
		},
	}

	for i, c := range checks {
		_, _ = fmt.Fprintf(out, "%d. %s...\n", i+1, c.name)
		if err := run(out, baseURL, c); err != nil {
			return fmt.Errorf("%s: %w", c.name, err)
		}
		_, _ = fmt.Fprintf(out, "PASSED: %s\n", c.name)
	}
	return nil
}

func run(out io.Writer, baseURL string, c check) error {
	jsonBytes, err := json.Marshal(c.payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+c.endpoint, bytes.NewReader(jsonBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	_, _ = fmt.Fprintf(out, "Response Status: %s\n", resp.Status)
	_, _ = fmt.Fprintf(out, "Response Body: %s\n", string(respBody))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body map[string]any
	if err := json.Unmarshal(respBody, &body); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if msg, ok := body["error"].(string); ok && msg != "" {
		return errors.New("server reported error: " + msg)
	}
	return c.verify(body)
}

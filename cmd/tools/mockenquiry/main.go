// Command mockenquiry exercises the product-enquiry proxy: "send" posts a
// sample enquiry to it, "serve" stands in for the backend behind it.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type enquiryPayload struct {
	ProductID string `json:"productId"`
	ModelID   string `json:"modelId,omitempty"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	City      string `json:"city,omitempty"`
	Message   string `json:"message"`
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "mockenquiry",
		Short:        "Send or receive sample product enquiries",
		SilenceUsage: true,
	}
	root.AddCommand(sendCmd(), serveCmd())
	return root
}

func sendCmd() *cobra.Command {
	var (
		url     string
		payload enquiryPayload
		raw     string
		dryRun  bool
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "send",
		Short: "POST a sample enquiry to the proxy route",
		RunE: func(cmd *cobra.Command, _ []string) error {
			body := []byte(raw)
			if raw == "" {
				var err error
				if body, err = json.Marshal(payload); err != nil {
					return err
				}
			}
			out := cmd.OutOrStdout()
			if dryRun {
				fmt.Fprintf(out, "POST %s\n%s\n", url, body)
				return nil
			}

			hc := &http.Client{Timeout: timeout}
			resp, err := hc.Post(url, "application/json", bytes.NewReader(body))
			if err != nil {
				return fmt.Errorf("send: %w", err)
			}
			defer resp.Body.Close()
			respBody, _ := io.ReadAll(resp.Body)
			fmt.Fprintf(out, "%s\n%s\n", resp.Status, respBody)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&url, "url", "http://localhost:8080/api/product-enquiry", "proxy route URL")
	f.StringVar(&payload.ProductID, "product", "prod_"+uuid.NewString()[:8], "product id")
	f.StringVar(&payload.ModelID, "model", "", "model id")
	f.StringVar(&payload.Name, "name", "Test Buyer", "buyer name")
	f.StringVar(&payload.Email, "email", "buyer@example.com", "buyer email")
	f.StringVar(&payload.Phone, "phone", "9876543210", "buyer phone")
	f.StringVar(&payload.City, "city", "Pune", "buyer city")
	f.StringVar(&payload.Message, "message", "Please share a quotation.", "enquiry text")
	f.StringVar(&raw, "raw", "", "send this body verbatim instead of the flags")
	f.BoolVar(&dryRun, "dry-run", false, "print the request, don't send it")
	f.DurationVar(&timeout, "timeout", 90*time.Second, "client timeout")
	return cmd
}

func serveCmd() *cobra.Command {
	var (
		addr    string
		status  int
		message string
		delay   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Answer /api/product-enquiry like the backend would",
		Long: "Point BACKEND_API_URL at this server. A non-2xx --status answers with " +
			"{\"message\": --message}; --delay past 60s makes the proxy time out.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			mux := http.NewServeMux()
			mux.HandleFunc("POST /api/product-enquiry", func(w http.ResponseWriter, r *http.Request) {
				body, _ := io.ReadAll(r.Body)
				fmt.Fprintf(out, "%s enquiry %s\n", time.Now().Format(time.TimeOnly), body)

				select {
				case <-time.After(delay):
				case <-r.Context().Done():
					return
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(status)
				if status >= 200 && status < 300 {
					_ = json.NewEncoder(w).Encode(map[string]any{"id": "enq_" + uuid.NewString()[:8], "received": true})
					return
				}
				_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
			})
			fmt.Fprintf(out, "listening on %s (status %d, delay %s)\n", addr, status, delay)
			return http.ListenAndServe(addr, mux)
		},
	}
	f := cmd.Flags()
	f.StringVar(&addr, "addr", ":9090", "listen address")
	f.IntVar(&status, "status", http.StatusCreated, "status to answer with")
	f.StringVar(&message, "message", "Enquiry rejected", "error message for non-2xx answers")
	f.DurationVar(&delay, "delay", 0, "wait before answering")
	return cmd
}

// Command console_smoke drives the console SDK against a running admin API
// instance and reports which list screens respond correctly. It is a
// deployment smoke check: login, walk every list resource, page forward,
// search, and verify the envelope decodes.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/packarma/admin-api/internal/console"
	"github.com/packarma/admin-api/pkg/pagination"
)

var listResources = []string{
	"categories",
	"sub-categories",
	"banners",
	"advertisements",
	"subscriptions",
	"credit-prices",
	"packaging-materials",
	"packaging-treatments",
	"packaging-types",
	"measurement-units",
	"app-users",
	"user-subscriptions",
	"enquiries",
	"referrals",
	"admins",
}

type result struct {
	Resource string
	Total    int
	Pages    int
	Err      error
	Duration time.Duration
}

func main() {
	var (
		base     string
		email    string
		password string
		search   string
		timeout  time.Duration
	)
	flag.StringVar(&base, "base", "http://localhost:8080/api/v1", "admin API base URL including prefix")
	flag.StringVar(&email, "email", "", "admin email")
	flag.StringVar(&password, "password", "", "admin password")
	flag.StringVar(&search, "search", "", "optional search term applied to every resource")
	flag.DurationVar(&timeout, "timeout", 15*time.Second, "per-request timeout")
	flag.Parse()

	if email == "" || password == "" {
		log.Fatal("both -email and -password are required")
	}

	token, err := login(base, email, password, timeout)
	if err != nil {
		log.Fatalf("login failed: %v", err)
	}

	client := console.NewClient(console.ClientConfig{
		BaseURL:    base,
		Token:      token,
		Timeout:    timeout,
		MaxRetries: 2,
		OnUnauthorized: func() {
			log.Fatal("token rejected mid-run; session handling is broken")
		},
	})

	var failures int
	results := make([]result, 0, len(listResources))
	for _, resource := range listResources {
		res := probe(client, resource, search)
		if res.Err != nil {
			failures++
		}
		results = append(results, res)
	}

	printReport(results)
	if failures > 0 {
		os.Exit(1)
	}
}

func login(base, email, password string, timeout time.Duration) (string, error) {
	payload, _ := json.Marshal(map[string]string{"email": email, "password": password})
	httpClient := &http.Client{Timeout: timeout}
	resp, err := httpClient.Post(strings.TrimRight(base, "/")+"/auth/login", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login returned status %d", resp.StatusCode)
	}

	var envelope struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", fmt.Errorf("decode login response: %w", err)
	}
	if envelope.Data.AccessToken == "" {
		return "", fmt.Errorf("login response carried no access token")
	}
	return envelope.Data.AccessToken, nil
}

// probe fetches the first page and, when more pages exist, the second, so
// both the listing query and the pagination metadata get exercised.
func probe(client *console.Client, resource, search string) result {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	start := time.Now()
	q := pagination.ListQuery{Page: 1, Limit: pagination.DefaultPageSize, Search: search}
	raw, info, err := client.List(ctx, resource, q)
	if err != nil {
		return result{Resource: resource, Err: err, Duration: time.Since(start)}
	}

	var rows []json.RawMessage
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &rows); err != nil {
			return result{Resource: resource, Err: fmt.Errorf("payload is not a list: %w", err), Duration: time.Since(start)}
		}
	}

	if info.TotalPages > 1 {
		q.Page = 2
		if _, _, err := client.List(ctx, resource, q); err != nil {
			return result{Resource: resource, Err: fmt.Errorf("page 2: %w", err), Duration: time.Since(start)}
		}
	}

	return result{
		Resource: resource,
		Total:    info.TotalItems,
		Pages:    info.TotalPages,
		Duration: time.Since(start),
	}
}

func printReport(results []result) {
	fmt.Println("Console Smoke Report")
	fmt.Println("====================")
	for _, res := range results {
		if res.Err != nil {
			fmt.Printf("[FAIL] %-22s %v (%s)\n", res.Resource, res.Err, res.Duration.Round(time.Millisecond))
			continue
		}
		fmt.Printf("[ OK ] %-22s items=%d pages=%d (%s)\n", res.Resource, res.Total, res.Pages, res.Duration.Round(time.Millisecond))
	}
}

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	version = "dev"

	// Global flags
	serverURL string

	// Ask command flags
	showPlan bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "assistant",
	Short:   "Query the noon shopping assistant",
	Version: version,
}

var askCmd = &cobra.Command{
	Use:   "ask [query]",
	Short: "Run a shopping query through the assistant pipeline",
	Long: `Send a natural-language shopping query to a running assistant server
and print the recommended products.

Examples:
  # Plan an event
  assistant ask "help me plan a beach picnic"

  # Explicit purchase with the raw plan shown
  assistant ask --show-plan "buy 1kg sugar of MDH under 100 aed"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:9020", "assistant server URL")
	askCmd.Flags().BoolVar(&showPlan, "show-plan", false, "print the raw search plan returned by the planner")
	rootCmd.AddCommand(askCmd)
}

type askResponse struct {
	Intro    string `json:"intro"`
	Plan     string `json:"plan"`
	Outcome  string `json:"outcome"`
	Message  string `json:"message"`
	Products []struct {
		SKU        string   `json:"sku"`
		Name       string   `json:"name"`
		Brand      string   `json:"brand"`
		Price      *float64 `json:"price"`
		SalePrice  *float64 `json:"sale_price"`
		Rating     *float64 `json:"rating"`
		SearchStep string   `json:"search_step"`
		ProductURL string   `json:"product_url"`
	} `json:"products"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	payload, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Post(
		strings.TrimRight(serverURL, "/")+"/v1/assistant/recommend",
		"application/json",
		bytes.NewReader(payload),
	)
	if err != nil {
		return fmt.Errorf("call assistant: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("assistant returned status %d", resp.StatusCode)
	}

	var result askResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if result.Intro != "" {
		fmt.Println(result.Intro)
		fmt.Println()
	}
	if showPlan {
		fmt.Println("--- plan ---")
		fmt.Println(result.Plan)
		fmt.Println("------------")
		fmt.Println()
	}

	if result.Outcome != "ok" {
		fmt.Println(result.Message)
		return nil
	}

	currentStep := ""
	for _, p := range result.Products {
		if p.SearchStep != currentStep {
			currentStep = p.SearchStep
			fmt.Printf("\n%s:\n", currentStep)
		}
		price := "N/A"
		if p.SalePrice != nil {
			price = fmt.Sprintf("%.2f", *p.SalePrice)
		} else if p.Price != nil {
			price = fmt.Sprintf("%.2f", *p.Price)
		}
		rating := "N/A"
		if p.Rating != nil {
			rating = fmt.Sprintf("%.1f", *p.Rating)
		}
		fmt.Printf("  %-14s %-50s %-18s AED %-10s %s\n", p.SKU, truncate(p.Name, 48), p.Brand, price, rating)
	}

	return nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + ".."
}

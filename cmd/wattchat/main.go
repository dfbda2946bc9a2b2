package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/neuralwatt/neuralwatt-go/internal/utils"
	"github.com/neuralwatt/neuralwatt-go/providers/ai"
	"github.com/neuralwatt/neuralwatt-go/providers/ai/neuralwatt"
	"github.com/neuralwatt/neuralwatt-go/providers/observability"
	"github.com/neuralwatt/neuralwatt-go/providers/observability/slogobs"
)

var (
	model        string
	apiKey       string
	baseURL      string
	systemPrompt string
	timeout      time.Duration
	noStream     bool
	hideEnergy   bool
	verbose      bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "wattchat [prompt]",
	Short: "Chat with NeuralWatt models and see their energy footprint",
	Long: "wattchat sends a prompt to the NeuralWatt API, streams the response to stdout,\n" +
		"and reports the energy telemetry the server emitted alongside the completion.\n\n" +
		"The API key is read from NEURALWATT_API_KEY (a .env file is honored).",
	Args: cobra.MinimumNArgs(1),
	RunE: runChat,
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the served models and their aliases",
	Run:   listModels,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&model, "model", "m", neuralwatt.ModelGPTOSS20B, "Model identifier or alias")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "API key (defaults to NEURALWATT_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "API base URL (defaults to NEURALWATT_API_BASE_URL)")
	rootCmd.PersistentFlags().StringVarP(&systemPrompt, "system", "s", "", "System prompt")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Request timeout")
	rootCmd.PersistentFlags().BoolVar(&noStream, "no-stream", false, "Use the non-streaming endpoint")
	rootCmd.PersistentFlags().BoolVar(&hideEnergy, "no-energy", false, "Hide the energy footer")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log spans and metrics to stderr")

	rootCmd.AddCommand(modelsCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	prompt := strings.Join(args, " ")

	provider := neuralwatt.New()
	if apiKey != "" {
		provider.WithAPIKey(apiKey)
	}
	if baseURL != "" {
		provider.WithBaseURL(baseURL)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	if verbose {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		observer := slogobs.New(logger)
		ctx = observability.ContextWithObserver(ctx, observer)

		var span observability.Span
		ctx, span = observer.StartSpan(ctx, observability.SpanLLMRequest)
		defer span.End()
	}

	request := ai.ChatRequest{
		Model:        model,
		SystemPrompt: systemPrompt,
		Messages:     []ai.Message{{Role: ai.RoleUser, Content: prompt}},
	}

	var response *ai.ChatResponse
	var err error
	if noStream {
		response, err = provider.SendMessage(ctx, request)
		if err != nil {
			return err
		}
		fmt.Println(response.Content)
	} else {
		response, err = streamToStdout(ctx, provider, request)
		if err != nil {
			return err
		}
	}

	if verbose {
		color.New(color.Faint).Fprintln(os.Stderr, utils.JSONToString(response, true))
	}

	printFooter(response)
	return nil
}

func streamToStdout(ctx context.Context, provider *neuralwatt.NeuralWattProvider, request ai.ChatRequest) (*ai.ChatResponse, error) {
	stream, err := provider.StreamMessage(ctx, request)
	if err != nil {
		return nil, err
	}

	for text, streamErr := range stream.Text() {
		if streamErr != nil {
			fmt.Println()
			return nil, streamErr
		}
		fmt.Print(text)
	}
	fmt.Println()

	return stream.Final()
}

func printFooter(response *ai.ChatResponse) {
	if response == nil {
		return
	}

	dim := color.New(color.Faint)
	if response.Usage != nil {
		dim.Fprintf(os.Stderr, "tokens: %d prompt + %d completion = %d total\n",
			response.Usage.PromptTokens, response.Usage.CompletionTokens, response.Usage.TotalTokens)
	}

	if hideEnergy || len(response.Energy) == 0 {
		return
	}

	green := color.New(color.FgGreen)
	var reading struct {
		EnergyJoules float64 `json:"energy_joules"`
		EnergyKWh    float64 `json:"energy_kwh"`
	}
	if err := json.Unmarshal(response.Energy, &reading); err == nil && reading.EnergyJoules > 0 {
		green.Fprintf(os.Stderr, "energy: %.3f J", reading.EnergyJoules)
		if reading.EnergyKWh > 0 {
			green.Fprintf(os.Stderr, " (%.9f kWh)", reading.EnergyKWh)
		}
		fmt.Fprintln(os.Stderr)
		return
	}

	// Unknown payload shape: show it verbatim rather than dropping it.
	green.Fprintf(os.Stderr, "energy: %s\n", string(response.Energy))
}

func listModels(cmd *cobra.Command, args []string) {
	bold := color.New(color.Bold)
	for _, info := range neuralwatt.Models() {
		bold.Println(info.ID)
		fmt.Printf("  upstream: %s\n", info.UpstreamID)
		if len(info.Aliases) > 0 {
			fmt.Printf("  aliases:  %s\n", strings.Join(info.Aliases, ", "))
		}
	}
}

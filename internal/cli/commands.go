package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// conceptView mirrors the server's concept wire shape.
type conceptView struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	InitialWeight  float64  `json:"initial_weight"`
	MemoryStrength float64  `json:"memory_strength"`
	LastRevisedDay int      `json:"last_revised_day"`
	Prerequisites  []string `json:"prerequisites"`
}

func init() {
	queueCmd.Flags().IntVarP(&queueLimit, "limit", "n", 0, "Maximum number of queue entries (0 = all)")

	addCmd.Flags().StringVarP(&addCategory, "category", "c", "", "Concept category")
	addCmd.Flags().StringSliceVarP(&addPrereqs, "prereq", "p", nil, "Prerequisite concept ids (repeatable)")
}

// --- stats command ---

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show simulation statistics",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	data, err := NewClient().Get("/api/stats")
	if err != nil {
		return err
	}

	var stats struct {
		TotalConcepts  int     `json:"totalConcepts"`
		AvgMemory      float64 `json:"avgMemory"`
		UrgentCount    int     `json:"urgentCount"`
		TotalRevisions int     `json:"totalRevisions"`
		CurrentDay     int     `json:"currentDay"`
	}
	if err := json.Unmarshal(data, &stats); err != nil {
		return fmt.Errorf("decode stats: %w", err)
	}

	fmt.Printf("day %d\n", stats.CurrentDay)
	fmt.Printf("  concepts:  %d\n", stats.TotalConcepts)
	fmt.Printf("  avg memory: %.1f%%\n", stats.AvgMemory)
	fmt.Printf("  urgent:    %d\n", stats.UrgentCount)
	fmt.Printf("  revisions: %d\n", stats.TotalRevisions)
	return nil
}

// --- queue command ---

var queueLimit int

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Show the revision queue, weakest memory first",
	RunE:  runQueue,
}

func runQueue(cmd *cobra.Command, args []string) error {
	path := "/api/revision-queue"
	if queueLimit > 0 {
		path += "?limit=" + strconv.Itoa(queueLimit)
	}

	data, err := NewClient().Get(path)
	if err != nil {
		return err
	}

	var queue []conceptView
	if err := json.Unmarshal(data, &queue); err != nil {
		return fmt.Errorf("decode queue: %w", err)
	}

	if len(queue) == 0 {
		fmt.Println("Nothing to revise.")
		return nil
	}

	for i, c := range queue {
		marker := " "
		if c.MemoryStrength < 0.3 {
			marker = "!"
		}
		fmt.Printf("%2d. %s [%.2f] %s (%s)\n", i+1, marker, c.MemoryStrength, c.Name, c.ID)
	}
	return nil
}

// --- concepts command ---

var conceptsCmd = &cobra.Command{
	Use:   "concepts",
	Short: "List all concepts in insertion order",
	RunE:  runConcepts,
}

func runConcepts(cmd *cobra.Command, args []string) error {
	data, err := NewClient().Get("/api/concepts")
	if err != nil {
		return err
	}

	var concepts []conceptView
	if err := json.Unmarshal(data, &concepts); err != nil {
		return fmt.Errorf("decode concepts: %w", err)
	}

	if len(concepts) == 0 {
		fmt.Println("No concepts yet. Add one with 'retention add'.")
		return nil
	}

	for _, c := range concepts {
		fmt.Printf("%-15s [%.2f] %s", c.ID, c.MemoryStrength, c.Name)
		if c.Category != "" {
			fmt.Printf(" (%s)", c.Category)
		}
		if len(c.Prerequisites) > 0 {
			fmt.Printf(" <- %s", strings.Join(c.Prerequisites, ", "))
		}
		fmt.Println()
	}
	return nil
}

// --- add command ---

var (
	addCategory string
	addPrereqs  []string
)

var addCmd = &cobra.Command{
	Use:   "add <id> <name...>",
	Short: "Add a freshly learned concept",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	body, err := json.Marshal(map[string]any{
		"id":            args[0],
		"name":          strings.Join(args[1:], " "),
		"category":      addCategory,
		"prerequisites": addPrereqs,
	})
	if err != nil {
		return err
	}

	if _, err := NewClient().Post("/api/concepts", body); err != nil {
		return err
	}
	fmt.Printf("added %s\n", args[0])
	return nil
}

// --- revise command ---

var reviseCmd = &cobra.Command{
	Use:   "revise <id>",
	Short: "Revise a concept (boost its memory strength)",
	Args:  cobra.ExactArgs(1),
	RunE:  runRevise,
}

func runRevise(cmd *cobra.Command, args []string) error {
	data, err := NewClient().Post("/api/revise/"+args[0], []byte("{}"))
	if err != nil {
		return err
	}

	var resp struct {
		Concept conceptView `json:"concept"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	fmt.Printf("revised %s -> strength %.2f\n", args[0], resp.Concept.MemoryStrength)
	return nil
}

// --- advance command ---

var advanceCmd = &cobra.Command{
	Use:   "advance <days>",
	Short: "Advance the simulation clock and apply decay",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdvance,
}

func runAdvance(cmd *cobra.Command, args []string) error {
	days, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("days must be an integer: %w", err)
	}

	body, err := json.Marshal(map[string]int{"days": days})
	if err != nil {
		return err
	}

	data, err := NewClient().Post("/api/simulate", body)
	if err != nil {
		return err
	}

	var resp struct {
		CurrentDay int `json:"currentDay"`
		Updated    int `json:"updated"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	fmt.Printf("now day %d (%d concepts decayed)\n", resp.CurrentDay, resp.Updated)
	return nil
}

// --- rate command ---

var rateCmd = &cobra.Command{
	Use:   "rate <lambda>",
	Short: "Set the global decay rate",
	Args:  cobra.ExactArgs(1),
	RunE:  runRate,
}

func runRate(cmd *cobra.Command, args []string) error {
	rate, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("rate must be a number: %w", err)
	}

	body, err := json.Marshal(map[string]float64{"rate": rate})
	if err != nil {
		return err
	}

	if _, err := NewClient().Post("/api/decay-rate", body); err != nil {
		return err
	}
	fmt.Printf("decay rate set to %g\n", rate)
	return nil
}

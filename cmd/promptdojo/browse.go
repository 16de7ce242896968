package main

import (
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/promptdojo/promptdojo/internal/api"
	"github.com/promptdojo/promptdojo/internal/model"
)

var levelOrder = []string{model.LevelBeginner, model.LevelIntermediate, model.LevelAdvanced}

func levelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "levels",
		Short: "Show the difficulty levels and their challenge counts",
		RunE:  runLevels,
	}
	addCommonFlags(cmd.Flags())
	return cmd
}

func challengesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "challenges",
		Short: "List challenges",
		RunE:  runChallenges,
	}
	f := cmd.Flags()
	f.String("level", "", "Filter by level (beginner, intermediate, advanced)")
	f.String("module-type", "", "Filter by module type (image, script, code)")
	addCommonFlags(f)
	return cmd
}

func challengeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "challenge <id>",
		Short: "Show one challenge in full",
		Args:  cobra.ExactArgs(1),
		RunE:  runChallenge,
	}
	addCommonFlags(cmd.Flags())
	return cmd
}

func hintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hint <id>",
		Short: "Show the hint for a challenge",
		Args:  cobra.ExactArgs(1),
		RunE:  runHint,
	}
	addCommonFlags(cmd.Flags())
	return cmd
}

func nextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next challenge to attempt",
		RunE:  runNext,
	}
	f := cmd.Flags()
	f.String("level", model.LevelBeginner, "Level to pick from")
	f.String("module-type", "", "Filter by module type (image, script, code)")
	addCommonFlags(f)
	return cmd
}

func submissionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submissions",
		Short: "List your submissions",
		RunE:  runSubmissions,
	}
	f := cmd.Flags()
	f.Int("challenge-id", 0, "Only submissions for this challenge id")
	addCommonFlags(f)
	return cmd
}

func submissionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submission <id>",
		Short: "Show one submission in full",
		Args:  cobra.ExactArgs(1),
		RunE:  runSubmission,
	}
	addCommonFlags(cmd.Flags())
	return cmd
}

func progressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show your overall progress",
		RunE:  runProgress,
	}
	addCommonFlags(cmd.Flags())
	return cmd
}

func idArg(args []string) (int, error) {
	id, err := strconv.Atoi(args[0])
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid challenge id %q", args[0])
	}
	return id, nil
}

func runLevels(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	challenges, err := a.client.ListChallenges(cmd.Context(), "", "")
	if err != nil {
		return fmt.Errorf("list challenges: %w", err)
	}

	counts := make(map[string]int)
	for _, ch := range challenges {
		counts[ch.Level]++
	}

	bold := color.New(color.Bold)
	for _, level := range levelOrder {
		bold.Printf("%-14s", level)
		fmt.Printf("%d challenges\n", counts[level])
	}
	return nil
}

func printChallengeTable(challenges []model.Challenge) {
	w := tabwriter.NewWriter(color.Output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLEVEL\tTYPE\tTITLE")
	for _, ch := range challenges {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", ch.ID, ch.Level, ch.ModuleType, ch.Title)
	}
	w.Flush()
}

func runChallenges(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	challenges, err := a.client.ListChallenges(cmd.Context(), a.v.GetString("level"), a.v.GetString("module-type"))
	if err != nil {
		return fmt.Errorf("list challenges: %w", err)
	}
	if len(challenges) == 0 {
		fmt.Println("No challenges match.")
		return nil
	}
	printChallengeTable(challenges)
	return nil
}

func printChallengeDetail(ch *model.Challenge) {
	bold := color.New(color.Bold)
	bold.Printf("#%d %s\n", ch.ID, ch.Title)
	fmt.Printf("%s · %s\n\n", ch.Level, ch.ModuleType)
	fmt.Println(ch.Description)
	if ch.ImageURL != "" {
		fmt.Printf("\nTarget image: %s\n", ch.ImageURL)
	}
	if ch.Hint != "" {
		fmt.Printf("\nHint: %s\n", ch.Hint)
	}
	if len(ch.TestCases) > 0 {
		fmt.Println("\nTest cases:")
		for _, tc := range ch.TestCases {
			fmt.Printf("  %v -> %v\n", tc.Input, tc.Expected)
		}
	}
}

func runChallenge(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	id, err := idArg(args)
	if err != nil {
		return err
	}
	ch, err := a.client.GetChallenge(cmd.Context(), id)
	if err != nil {
		if errors.Is(err, api.ErrChallengeNotFound) {
			return fmt.Errorf("challenge %d not found", id)
		}
		return fmt.Errorf("fetch challenge: %w", err)
	}
	printChallengeDetail(ch)
	return nil
}

func runHint(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	id, err := idArg(args)
	if err != nil {
		return err
	}
	h, err := a.client.GetHint(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("fetch hint: %w", err)
	}
	if h.Hint == "" {
		return fmt.Errorf("challenge %d not found", id)
	}
	fmt.Println(h.Hint)
	if h.TeachingObjective != "" {
		fmt.Printf("\nTeaching objective: %s\n", h.TeachingObjective)
	}
	return nil
}

func runNext(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ch, err := a.client.NextChallenge(cmd.Context(), a.v.GetString("level"), a.v.GetString("module-type"))
	if err != nil {
		return fmt.Errorf("fetch next challenge: %w", err)
	}
	if ch.ID == 0 {
		fmt.Println("No challenges found for this level.")
		return nil
	}
	printChallengeDetail(ch)
	fmt.Printf("\nStart it with: promptdojo attempt %d\n", ch.ID)
	return nil
}

func runSubmissions(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	subs, err := a.client.ListSubmissions(cmd.Context(), a.v.GetInt("challenge-id"))
	if err != nil {
		return fmt.Errorf("list submissions: %w", err)
	}
	if len(subs) == 0 {
		fmt.Println("No submissions yet.")
		return nil
	}

	w := tabwriter.NewWriter(color.Output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCHALLENGE\tSCORE\tSUBMITTED")
	for _, sub := range subs {
		score := "-"
		if sub.Score != nil {
			score = fmt.Sprintf("%g", *sub.Score)
		}
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\n", sub.ID, sub.ChallengeID, score, sub.SubmittedAt.Format("2006-01-02 15:04"))
	}
	w.Flush()
	return nil
}

func runSubmission(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	id, err := idArg(args)
	if err != nil {
		return err
	}
	sub, err := a.client.GetSubmission(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("fetch submission: %w", err)
	}

	bold := color.New(color.Bold)
	bold.Printf("Submission #%d (challenge %d)\n", sub.ID, sub.ChallengeID)
	fmt.Printf("Submitted %s\n\n", sub.SubmittedAt.Format("2006-01-02 15:04"))
	fmt.Printf("Prompt:\n%s\n\n", sub.Prompt)
	fmt.Printf("Output:\n%s\n", sub.GeneratedOutput)
	if sub.Score != nil {
		fmt.Printf("\nScore: %g\n", *sub.Score)
	}
	if sub.Feedback != "" {
		fmt.Printf("Feedback: %s\n", sub.Feedback)
	}
	return nil
}

func runProgress(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	p, err := a.client.Progress(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetch progress: %w", err)
	}

	fmt.Printf("Completed  %d / %d challenges\n", p.CompletedChallenges, p.TotalChallenges)
	fmt.Printf("Attempts   %d\n", p.TotalAttempts)
	fmt.Printf("Average    %g\n", p.AverageScore)
	return nil
}

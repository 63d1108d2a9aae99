package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fenloai/jobscout/internal/types"
)

var proposalsCommand = &cobra.Command{
	Use:   "proposals",
	Short: "Review and manage generated proposals",
}

var listStatus string

var proposalsListCommand = &cobra.Command{
	Use:   "list",
	Short: "List proposals, optionally filtered by status",
	RunE:  runProposalsListCmd,
}

var proposalsApproveCommand = &cobra.Command{
	Use:   "approve <id>",
	Short: "Approve a proposal pending review",
	Args:  cobra.ExactArgs(1),
	RunE:  statusChangeCmd(types.StatusApproved),
}

var proposalsRejectCommand = &cobra.Command{
	Use:   "reject <id>",
	Short: "Reject a proposal",
	Args:  cobra.ExactArgs(1),
	RunE:  statusChangeCmd(types.StatusRejected),
}

var proposalsSubmitCommand = &cobra.Command{
	Use:   "submit <id>",
	Short: "Mark an approved proposal as submitted to the job board",
	Args:  cobra.ExactArgs(1),
	RunE:  statusChangeCmd(types.StatusSubmitted),
}

var proposalsShowCommand = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a proposal's full text and match reasons",
	Args:  cobra.ExactArgs(1),
	RunE:  runProposalsShowCmd,
}

func init() {
	proposalsListCommand.Flags().StringVarP(&listStatus, "status", "s", "", "Filter by status (pending_review, approved, submitted, rejected, failed)")
	proposalsCommand.AddCommand(proposalsListCommand)
	proposalsCommand.AddCommand(proposalsShowCommand)
	proposalsCommand.AddCommand(proposalsApproveCommand)
	proposalsCommand.AddCommand(proposalsRejectCommand)
	proposalsCommand.AddCommand(proposalsSubmitCommand)
	rootCmd.AddCommand(proposalsCommand)
}

func runProposalsListCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmdContext(cmd)
	env, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	proposals, err := env.store.ProposalsByStatus(ctx, types.ProposalStatus(listStatus))
	if err != nil {
		return err
	}
	if len(proposals) == 0 {
		fmt.Fprintln(os.Stdout, "No proposals found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tSCORE\tGENERATED\tLISTING")
	for _, p := range proposals {
		fmt.Fprintf(w, "%d\t%s\t%.1f\t%s\t%s\n",
			p.ID, p.Status, p.MatchScore,
			p.GeneratedAt.Format("2006-01-02 15:04"), p.ListingUID)
	}
	return w.Flush()
}

func runProposalsShowCmd(cmd *cobra.Command, args []string) error {
	ctx := cmdContext(cmd)
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid proposal id %q", args[0])
	}

	env, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	p, err := env.store.GetProposal(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("proposal %d not found", id)
	}

	listing, err := env.store.GetListing(ctx, p.ListingUID)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Proposal %d — %s (score %.1f)\n", p.ID, p.Status, p.MatchScore)
	if listing != nil {
		fmt.Fprintf(os.Stdout, "Listing: %s\n%s\n", listing.Title, listing.URL)
	}
	if p.FailureReason != "" {
		fmt.Fprintf(os.Stdout, "Failure: %s\n", p.FailureReason)
	}
	if len(p.MatchReasons) > 0 {
		fmt.Fprintln(os.Stdout, "\nMatch reasons:")
		for _, r := range p.MatchReasons {
			fmt.Fprintf(os.Stdout, "  %-20s %5.1f × %.2f  %s\n", r.Criterion, r.Weight, r.Score, r.Detail)
		}
	}
	if p.Text != "" {
		fmt.Fprintf(os.Stdout, "\n%s\n", p.Text)
	}
	return nil
}

// statusChangeCmd builds the handler for approve/reject/submit; the
// store enforces which transitions are legal.
func statusChangeCmd(to types.ProposalStatus) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmdContext(cmd)
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid proposal id %q", args[0])
		}

		env, err := openEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.store.UpdateProposalStatus(ctx, id, to); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Proposal %d is now %s.\n", id, to)
		return nil
	}
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

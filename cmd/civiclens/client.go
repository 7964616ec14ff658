package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/civiclens-lk/civiclens/internal/apiclient"
	"github.com/civiclens-lk/civiclens/internal/civic"
	"github.com/spf13/cobra"
)

func newClient(store apiclient.SessionSource) (*apiclient.Client, error) {
	appConfig, logger, err := loadRuntime()
	if err != nil {
		return nil, err
	}
	return apiclient.New(apiclient.Config{
		BaseURL:  appConfig.APIBaseURL,
		Timeout:  appConfig.RequestTimeout,
		Sessions: store,
		Logger:   logger,
	})
}

func newIssuesCommand() *cobra.Command {
	var (
		statusFlag   string
		categoryFlag string
		sortFlag     string
		limitFlag    int
	)

	cmd := &cobra.Command{
		Use:   "issues",
		Short: "List reported issues",
		RunE: func(cmd *cobra.Command, args []string) error {
			appConfig, logger, err := loadRuntime()
			if err != nil {
				return err
			}
			store, closeStore, err := openLocalStore(appConfig, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			client, err := newClient(store)
			if err != nil {
				return err
			}

			var filter civic.ListFilter
			if statusFlag != "" && statusFlag != "all" {
				if filter.Status, err = civic.ParseStatus(statusFlag); err != nil {
					return err
				}
			}
			if categoryFlag != "" {
				if filter.Category, err = civic.ParseCategory(categoryFlag); err != nil {
					return err
				}
			}
			if sortFlag != "" {
				filter.Sort = civic.Sort(sortFlag)
			}
			filter.Limit = limitFlag

			issues := client.ListIssues(cmd.Context(), filter)
			writer := cmd.OutOrStdout()
			for _, issue := range issues {
				marker := " "
				if store.HasUpvoted(issue.ID) {
					marker = "^"
				}
				fmt.Fprintf(writer, "%s %-14s %-12s %4d  [%s] %s\n",
					marker, issue.ID, issue.Status, issue.Upvotes, issue.Category, issue.Title)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&statusFlag, "status", "", "Filter by status (open, in-progress, resolved)")
	cmd.Flags().StringVar(&categoryFlag, "category", "", "Filter by category")
	cmd.Flags().StringVar(&sortFlag, "sort", "", "Sort order (upvotes, recent, near)")
	cmd.Flags().IntVar(&limitFlag, "limit", 0, "Maximum number of issues")
	return cmd
}

func newReportCommand() *cobra.Command {
	var (
		titleFlag       string
		descriptionFlag string
		categoryFlag    string
		severityFlag    string
		locationFlag    string
		anonymousFlag   bool
		photoFlags      []string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Submit a new issue report",
		RunE: func(cmd *cobra.Command, args []string) error {
			appConfig, logger, err := loadRuntime()
			if err != nil {
				return err
			}
			store, closeStore, err := openLocalStore(appConfig, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			client, err := newClient(store)
			if err != nil {
				return err
			}

			category, err := civic.ParseCategory(categoryFlag)
			if err != nil {
				return err
			}
			severity, err := civic.ParseSeverity(severityFlag)
			if err != nil {
				return err
			}

			photos := make([]apiclient.Photo, 0, len(photoFlags))
			for _, path := range photoFlags {
				content, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				photos = append(photos, apiclient.Photo{Name: path, Content: content})
			}

			issue, err := client.CreateIssue(cmd.Context(), apiclient.CreateIssueInput{
				Title:       titleFlag,
				Description: descriptionFlag,
				Category:    category,
				Severity:    severity,
				Location:    locationFlag,
				IsAnonymous: anonymousFlag,
				Photos:      photos,
			})
			if err != nil {
				return err
			}

			store.ClearDraft()
			fmt.Fprintf(cmd.OutOrStdout(), "Report submitted: %s\n", issue.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&titleFlag, "title", "", "Short summary of the issue")
	cmd.Flags().StringVar(&descriptionFlag, "description", "", "Detailed description")
	cmd.Flags().StringVar(&categoryFlag, "category", string(civic.CategoryOther), "Issue category")
	cmd.Flags().StringVar(&severityFlag, "severity", string(civic.SeverityMedium), "Issue severity")
	cmd.Flags().StringVar(&locationFlag, "location", "Unknown location", "Human-readable location")
	cmd.Flags().BoolVar(&anonymousFlag, "anonymous", true, "Report without attaching a name")
	cmd.Flags().StringSliceVar(&photoFlags, "photo", nil, "Photo file (repeatable, first four are kept)")
	return cmd
}

func newUpvoteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "upvote <issue-id>",
		Short: "Upvote an issue (toggles the local marker)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appConfig, logger, err := loadRuntime()
			if err != nil {
				return err
			}
			store, closeStore, err := openLocalStore(appConfig, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			issueID := args[0]
			if store.HasUpvoted(issueID) {
				store.ToggleUpvote(issueID)
				fmt.Fprintf(cmd.OutOrStdout(), "Upvote removed locally for %s\n", issueID)
				return nil
			}

			client, err := newClient(store)
			if err != nil {
				return err
			}
			result, err := client.Upvote(cmd.Context(), issueID)
			if err != nil {
				return err
			}
			store.ToggleUpvote(issueID)
			fmt.Fprintf(cmd.OutOrStdout(), "%s now has %d upvotes\n", result.IssueID, result.Upvotes)
			return nil
		},
	}
}

func newFollowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "follow <issue-id>",
		Short: "Toggle following an issue for status notifications",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appConfig, logger, err := loadRuntime()
			if err != nil {
				return err
			}
			store, closeStore, err := openLocalStore(appConfig, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			issueID := args[0]
			if store.ToggleFollow(issueID) {
				fmt.Fprintf(cmd.OutOrStdout(), "Following %s\n", issueID)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Unfollowed %s\n", issueID)
			}
			return nil
		},
	}
}

func newNotificationsCommand() *cobra.Command {
	var markAllRead bool

	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Show the local notification queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			appConfig, logger, err := loadRuntime()
			if err != nil {
				return err
			}
			store, closeStore, err := openLocalStore(appConfig, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			if markAllRead {
				store.MarkAllNotificationsRead()
			}

			writer := cmd.OutOrStdout()
			notifications := store.Notifications()
			fmt.Fprintf(writer, "%d notifications, %d unread\n", len(notifications), store.UnreadCount())
			for _, notification := range notifications {
				state := "read"
				if !notification.Read {
					state = "unread"
				}
				fmt.Fprintf(writer, "[%-6s] %s %s: %s\n",
					state,
					notification.CreatedAt.Format("2006-01-02 15:04"),
					notification.IssueID,
					strings.TrimSpace(notification.Message))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&markAllRead, "mark-all-read", false, "Mark every notification as read")
	return cmd
}

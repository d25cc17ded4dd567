package app

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vidfriends/webclient/internal/models"
	"github.com/vidfriends/webclient/internal/render"
	"github.com/vidfriends/webclient/internal/ui"
)

func (c *cli) loginCommand() *cobra.Command {
	var creds models.Credentials

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if creds.Password == "" {
				creds.Password = c.readSecret("Password: ")
			}
			return c.report(c.deps.controller.SubmitLogin(cmd.Context(), creds))
		},
	}
	cmd.Flags().StringVarP(&creds.Username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&creds.Password, "password", "p", "", "account password (read from stdin when empty)")
	return cmd
}

func (c *cli) registerCommand() *cobra.Command {
	var req models.RegistrationRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account (does not log in)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if req.Password == "" {
				req.Password = c.readSecret("Password: ")
			}
			return c.report(c.deps.controller.SubmitRegister(cmd.Context(), req))
		},
	}
	cmd.Flags().StringVarP(&req.Username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "account password (read from stdin when empty)")
	cmd.Flags().StringVar(&req.Role, "role", models.DefaultRole, "account role")
	return cmd
}

func (c *cli) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.report(c.deps.controller.Logout(cmd.Context()))
		},
	}
}

func (c *cli) uploadCommand() *cobra.Command {
	var req models.UploadRequest
	var source string

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload a video from a local path or an s3://bucket/key reference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			ctrl := c.deps.controller
			ctrl.Restore(ctx)

			// Anonymous users are sent to login before any file is touched.
			if out := ctrl.OpenUpload(); !out.Success {
				return c.report(out)
			}

			if strings.TrimSpace(source) != "" {
				staged, err := c.deps.sources.Open(ctx, source)
				if err != nil {
					return err
				}
				defer func() { _ = staged.Close() }()
				req.File = staged.VideoFile()
			}

			out := ctrl.SubmitUpload(ctx, req)
			if err := c.report(out); err != nil {
				return err
			}
			return render.WriteFeedText(c.out, c.deps.renderer.Videos())
		},
	}
	cmd.Flags().StringVarP(&req.Title, "title", "t", "", "video title")
	cmd.Flags().StringVarP(&req.Description, "description", "d", "", "video description")
	cmd.Flags().StringVarP(&req.Category, "category", "c", "", "video category")
	cmd.Flags().StringVar(&req.Tags, "tags", "", "comma separated tags")
	cmd.Flags().StringVarP(&source, "file", "f", "", "video file path or s3://bucket/key")
	return cmd
}

func (c *cli) feedCommand() *cobra.Command {
	var asJSON bool
	var q models.FeedQuery

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "List the public video feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("limit") {
				q.Limit = c.deps.cfg.Feed.Limit
			}
			if !cmd.Flags().Changed("category") {
				q.Category = c.deps.cfg.Feed.Category
			}

			videos := c.deps.feed.FetchAll(cmd.Context(), q)
			if asJSON {
				enc := json.NewEncoder(c.out)
				enc.SetIndent("", "  ")
				return enc.Encode(videos)
			}
			return render.WriteFeedText(c.out, videos)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the feed as JSON")
	cmd.Flags().IntVar(&q.Limit, "limit", 0, "maximum number of videos")
	cmd.Flags().IntVar(&q.Offset, "offset", 0, "number of videos to skip")
	cmd.Flags().StringVar(&q.Category, "category", "", "only list this category")
	return cmd
}

func (c *cli) watchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <video-id>",
		Short: "Show a video and its watch URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return c.report(ui.Outcome{Message: ui.MsgInvalidVideo})
			}

			details, out := c.deps.controller.Watch(cmd.Context(), id)
			if !out.Success {
				return c.report(out)
			}

			fmt.Fprintf(c.out, "%s\n%s\n", details.Title, details.Description)
			fmt.Fprintf(c.out, "%d views  %d likes  %s\n", details.Views, details.Likes, details.Category)
			if len(details.Tags) > 0 {
				fmt.Fprintf(c.out, "tags: %s\n", strings.Join(details.Tags, ", "))
			}
			fmt.Fprintln(c.out, c.deps.controller.WatchURL(id))
			return nil
		},
	}
}

func (c *cli) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a session is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state := c.deps.controller.Restore(cmd.Context())
			nav := c.deps.controller.Navigation()
			fmt.Fprintf(c.out, "session: %s\nserver: %s\nnext: %s\n", state, c.deps.api.BaseURL(), strings.ToLower(nav.AuthLabel))
			return nil
		},
	}
}

// readSecret reads one line from the command input.
func (c *cli) readSecret(prompt string) string {
	fmt.Fprint(c.errOut, prompt)
	line, _ := bufio.NewReader(c.in).ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}

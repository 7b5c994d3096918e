package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tasker-cli/tasker/internal/clierr"
	"github.com/tasker-cli/tasker/internal/config"
	"github.com/tasker-cli/tasker/internal/covers"
	"github.com/tasker-cli/tasker/internal/output"
	"github.com/tasker-cli/tasker/internal/store"
	"github.com/tasker-cli/tasker/internal/task"
)

// coverLookupTimeout bounds each external cover-art request.
const coverLookupTimeout = 5 * time.Second

var mediaCmd = &cobra.Command{
	Use:   "media",
	Short: "Manage the media library",
	Long:  `Media tasks track movies, series, and books with ratings and cover art.`,
}

var mediaAddCmd = &cobra.Command{
	Use:   "add TITLE",
	Short: "Add a media task",
	Args:  cobra.ExactArgs(1),
	RunE:  runMediaAdd,
}

var mediaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List media tasks",
	RunE:  runMediaList,
}

func init() {
	mediaAddCmd.Flags().StringP("type", "t", "movie", "media type (movie, series, book)")
	mediaAddCmd.Flags().String("year", "", "release year")
	mediaAddCmd.Flags().String("director", "", "director (or author for books)")
	mediaAddCmd.Flags().Int("rating", 0, "rating 1-5")
	mediaAddCmd.Flags().StringP("description", "m", "", "notes (markdown)")
	mediaAddCmd.Flags().StringP("due", "d", "", "due date (YYYY-MM-DD)")
	mediaAddCmd.Flags().StringP("priority", "p", "", "priority (high, medium, low)")
	mediaAddCmd.Flags().String("project", "", "project the task belongs to")
	mediaAddCmd.Flags().String("area", "", "area of responsibility")
	mediaAddCmd.Flags().String("resource", "", "related resource")
	mediaListCmd.Flags().Bool("covers", false, "fetch missing cover art (best-effort)")

	mediaCmd.AddCommand(mediaAddCmd)
	mediaCmd.AddCommand(mediaListCmd)
	rootCmd.AddCommand(mediaCmd)
}

func runMediaAdd(cmd *cobra.Command, args []string) error {
	cfg, st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	draft, err := draftFromFlags(cmd, args[0])
	if err != nil {
		return err
	}
	draft.Category = task.CategoryMedia
	if draft.Priority == 0 {
		draft.Priority = cfg.DefaultPriorityLevel()
	}

	mediaType, _ := cmd.Flags().GetString("type")
	year, _ := cmd.Flags().GetString("year")
	director, _ := cmd.Flags().GetString("director")
	rating, _ := cmd.Flags().GetInt("rating")
	draft.Media = &task.Media{
		Type:     strings.ToLower(mediaType),
		Year:     year,
		Director: director,
		Rating:   rating,
	}

	res, err := st.CreateTask(draft)
	if err != nil {
		return err
	}
	logActivity(cfg, "media-add", res.ID, draft.Title)

	// Cover lookup is best-effort; a miss or failure never fails the add.
	if cfg.Covers.Enabled {
		if url := lookupCover(cfg, draft.Title, draft.Media); url != "" {
			if err := st.SetCoverURL(res.ID, url); err == nil {
				draft.Media.CoverURL = url
			}
		}
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"id":        res.ID,
			"title":     draft.Title,
			"media":     draft.Media,
			"cover_url": draft.Media.CoverURL,
		})
	}
	output.Messagef(os.Stdout, "Added %s #%d: %s", draft.Media.Type, res.ID, draft.Title)
	if draft.Media.CoverURL != "" {
		output.Messagef(os.Stdout, "  Cover: %s", draft.Media.CoverURL)
	}
	return nil
}

func runMediaList(cmd *cobra.Command, _ []string) error {
	cfg, st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	tasks, err := st.Tasks(store.Filter{Category: task.CategoryMedia})
	if err != nil {
		return err
	}

	if fetch, _ := cmd.Flags().GetBool("covers"); fetch {
		fillMissingCovers(cfg, st, tasks)
	}

	return outputTaskList(tasks)
}

// fillMissingCovers looks up cover art for media tasks without one and
// caches successful hits. Lookup failures degrade to "no cover".
func fillMissingCovers(cfg *config.Config, st *store.Store, tasks []*task.Task) {
	for _, t := range tasks {
		if t.Media == nil || t.Media.CoverURL != "" {
			continue
		}
		url := lookupCover(cfg, t.Title, t.Media)
		if url == "" {
			continue
		}
		if err := st.SetCoverURL(t.ID, url); err != nil {
			continue
		}
		t.Media.CoverURL = url
	}
}

// lookupCover fetches a cover URL for the media item, returning "" on
// any miss or failure.
func lookupCover(cfg *config.Config, title string, m *task.Media) string {
	client := covers.New(cfg.Covers.OMDBKey)
	ctx, cancel := context.WithTimeout(context.Background(), coverLookupTimeout)
	defer cancel()

	var url string
	var err error
	if m.Type == "book" {
		url, err = client.BookCover(ctx, title, m.Director)
	} else {
		url, err = client.MovieCover(ctx, title, m.Year)
	}
	if err != nil {
		var cliErr *clierr.Error
		if !errors.Is(err, covers.ErrNotFound) && errors.As(err, &cliErr) {
			fmt.Fprintf(os.Stderr, "Warning: cover lookup for %q failed: %s\n", title, cliErr.Message)
		}
		return ""
	}
	return url
}

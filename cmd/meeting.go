package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tasker-cli/tasker/internal/date"
	"github.com/tasker-cli/tasker/internal/output"
	"github.com/tasker-cli/tasker/internal/store"
	"github.com/tasker-cli/tasker/internal/task"
)

var meetingCmd = &cobra.Command{
	Use:   "meeting",
	Short: "Record and list meetings",
}

var meetingAddCmd = &cobra.Command{
	Use:   "add TITLE",
	Short: "Record a meeting",
	Args:  cobra.ExactArgs(1),
	RunE:  runMeetingAdd,
}

var meetingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List meetings, most recent first",
	RunE:  runMeetingList,
}

func init() {
	meetingAddCmd.Flags().String("summary", "", "meeting summary")
	meetingAddCmd.Flags().String("attendees", "", "attendees (free-form)")
	meetingAddCmd.Flags().String("actions", "", "action items")
	meetingAddCmd.Flags().StringP("date", "d", "", "meeting date (YYYY-MM-DD)")
	meetingAddCmd.Flags().Int("duration", 0, "duration in minutes")
	meetingAddCmd.Flags().String("location", "", "location")
	meetingCmd.AddCommand(meetingAddCmd)
	meetingCmd.AddCommand(meetingListCmd)
	rootCmd.AddCommand(meetingCmd)
}

func runMeetingAdd(cmd *cobra.Command, args []string) error {
	cfg, st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	m := store.Meeting{Title: args[0]}
	m.Summary, _ = cmd.Flags().GetString("summary")
	m.Attendees, _ = cmd.Flags().GetString("attendees")
	m.ActionItems, _ = cmd.Flags().GetString("actions")
	m.Duration, _ = cmd.Flags().GetInt("duration")
	m.Location, _ = cmd.Flags().GetString("location")

	if ds, _ := cmd.Flags().GetString("date"); ds != "" {
		d, err := date.Parse(ds)
		if err != nil {
			return task.ValidateDate("meeting", ds, err)
		}
		m.Date = &d
	}

	id, err := st.AddMeeting(m)
	if err != nil {
		return err
	}
	logActivity(cfg, "meeting-add", 0, m.Title)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"id": id, "title": m.Title})
	}
	output.Messagef(os.Stdout, "Recorded meeting #%d: %s", id, m.Title)
	return nil
}

func runMeetingList(_ *cobra.Command, _ []string) error {
	_, st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	meetings, err := st.Meetings()
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		if meetings == nil {
			meetings = []*store.Meeting{}
		}
		return output.JSON(os.Stdout, meetings)
	}
	output.MeetingTable(os.Stdout, meetings)
	return nil
}

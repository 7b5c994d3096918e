package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tasker-cli/tasker/internal/output"
	"github.com/tasker-cli/tasker/internal/store"
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Record and list voice notes",
	Long:  `Voice notes reference audio files on disk; tasker does not record audio.`,
}

var noteAddCmd = &cobra.Command{
	Use:   "add TITLE",
	Short: "Record a voice note",
	Args:  cobra.ExactArgs(1),
	RunE:  runNoteAdd,
}

var noteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List voice notes, newest first",
	RunE:  runNoteList,
}

func init() {
	noteAddCmd.Flags().String("audio", "", "path to the audio file")
	noteAddCmd.Flags().String("transcript", "", "transcript text")
	noteCmd.AddCommand(noteAddCmd)
	noteCmd.AddCommand(noteListCmd)
	rootCmd.AddCommand(noteCmd)
}

func runNoteAdd(cmd *cobra.Command, args []string) error {
	cfg, st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	n := store.VoiceNote{Title: args[0]}
	n.AudioPath, _ = cmd.Flags().GetString("audio")
	n.Transcript, _ = cmd.Flags().GetString("transcript")

	id, err := st.AddVoiceNote(n)
	if err != nil {
		return err
	}
	logActivity(cfg, "note-add", 0, n.Title)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"id": id, "title": n.Title})
	}
	output.Messagef(os.Stdout, "Recorded voice note #%d: %s", id, n.Title)
	return nil
}

func runNoteList(_ *cobra.Command, _ []string) error {
	_, st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	notes, err := st.VoiceNotes()
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		if notes == nil {
			notes = []*store.VoiceNote{}
		}
		return output.JSON(os.Stdout, notes)
	}
	output.NoteTable(os.Stdout, notes)
	return nil
}

package cmd

import (
	"github.com/spf13/cobra"
	"github.com/zfogg/moodjournal/pkg/guard"
	"github.com/zfogg/moodjournal/pkg/journal"
	"github.com/zfogg/moodjournal/pkg/service"
)

var (
	listSearch string

	entryTitle   string
	entryContent string
	entryMood    string
	entryTags    []string

	editAddTags    []string
	editRemoveTags []string

	deleteForce bool
)

var entryCmd = &cobra.Command{
	Use:         "entry",
	Aliases:     []string{"entries"},
	Short:       "Journal entry commands",
	Long:        "List, read, write and delete your journal entries",
	Annotations: withGuard(guard.KindProtected),
}

var entryListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List your journal entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEntryList(cmd, listSearch)
	},
}

func runEntryList(cmd *cobra.Command, search string) error {
	return service.NewEntryService(rt.deps).List(cmd.Context(), search)
}

var entryShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewEntryService(rt.deps).Show(cmd.Context(), journal.ID(args[0]))
	},
}

var entryCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Write a new entry",
	Long: `Write a new entry. Title, content and mood are prompted for when not
given as flags.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d := journal.Draft{Title: entryTitle, Content: entryContent}
		if entryMood != "" {
			m, err := journal.ParseMood(entryMood)
			if err != nil {
				return err
			}
			d.Mood = m
		}
		for _, tag := range entryTags {
			d.AddTag(tag)
		}

		svc := service.NewEntryService(rt.deps)
		if err := svc.Compose(&d); err != nil {
			return err
		}
		return svc.Create(cmd.Context(), d)
	},
}

var entryEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change an entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		changes := service.EditChanges{
			AddTags:    editAddTags,
			RemoveTags: editRemoveTags,
		}
		if cmd.Flags().Changed("title") {
			changes.Title = &entryTitle
		}
		if cmd.Flags().Changed("content") {
			changes.Content = &entryContent
		}
		if cmd.Flags().Changed("mood") {
			m, err := journal.ParseMood(entryMood)
			if err != nil {
				return err
			}
			changes.Mood = &m
		}
		return service.NewEntryService(rt.deps).Edit(cmd.Context(), journal.ID(args[0]), changes)
	},
}

var entryDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete an entry",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewEntryService(rt.deps).Delete(cmd.Context(), journal.ID(args[0]), deleteForce)
	},
}

func init() {
	entryListCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Only show entries whose title, content or tags match")

	for _, c := range []*cobra.Command{entryCreateCmd, entryEditCmd} {
		c.Flags().StringVarP(&entryTitle, "title", "t", "", "Entry title")
		c.Flags().StringVarP(&entryContent, "content", "c", "", "Entry text")
		c.Flags().StringVarP(&entryMood, "mood", "m", "", "Mood: happy, excited, neutral, anxious or sad")
	}
	entryCreateCmd.Flags().StringSliceVar(&entryTags, "tag", nil, "Tag (repeatable)")
	entryEditCmd.Flags().StringSliceVar(&editAddTags, "add-tag", nil, "Tag to add (repeatable)")
	entryEditCmd.Flags().StringSliceVar(&editRemoveTags, "remove-tag", nil, "Tag to remove (repeatable)")

	entryDeleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Delete without asking")

	entryCmd.AddCommand(entryListCmd)
	entryCmd.AddCommand(entryShowCmd)
	entryCmd.AddCommand(entryCreateCmd)
	entryCmd.AddCommand(entryEditCmd)
	entryCmd.AddCommand(entryDeleteCmd)
}

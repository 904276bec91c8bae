package service

import (
	"fmt"
	"strings"

	"github.com/murmurlabs/murmur/internal/model"
)

func weeklyDigestEmailTemplate(summary *model.WeeklySummary, appName string) (subject, body string) {
	subject = fmt.Sprintf("Your week in %s", appName)

	var b strings.Builder
	fmt.Fprintf(&b, "Here's what your week looked like:\n\n")
	fmt.Fprintf(&b, "  Entries recorded: %d\n", summary.EntryCount)
	fmt.Fprintf(&b, "  Current streak:   %d day(s)\n", summary.Streak)
	fmt.Fprintf(&b, "  Tasks completed:  %d\n", summary.TasksCompleted)
	if summary.TopMood != "" {
		fmt.Fprintf(&b, "  Most common mood: %s\n", summary.TopMood)
	}
	fmt.Fprintf(&b, "\nKeep the streak going - even a minute of journaling counts.\n\n- The %s team\n", appName)

	return subject, b.String()
}

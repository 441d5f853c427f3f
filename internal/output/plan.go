package output

import (
	"strconv"

	"github.com/olekukonko/tablewriter"

	"rbr.dev/rbr/internal/graph"
)

// PrintPlan renders the scheduled queue as a table: one row per branch in
// execution order, with its upstream, the replay cut point, and whether
// any replay work is expected.
func (s *Splog) PrintPlan(root string, queue []graph.WorkItem) {
	table := tablewriter.NewWriter(s.writer)
	table.SetHeader([]string{"#", "Branch", "Upstream", "Base", "Work"})
	for i, item := range queue {
		work := "rebase"
		if item.Atop {
			work = "up to date"
		}
		table.Append([]string{
			strconv.Itoa(i + 1),
			item.Branch,
			item.Upstream,
			shortSHA(item.BaseTip),
			work,
		})
	}
	s.Info("Rebasing %d branches onto %s:", len(queue), root)
	table.Render()
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

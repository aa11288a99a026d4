// Package report renders a schedule response as the text log, Gantt chart
// and statistics table shown to users.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/olekukonko/tablewriter"

	"mlfq-simulator/internal/core"
	"mlfq-simulator/internal/responses"
)

// Write renders every section of the report.
func Write(w io.Writer, response responses.ScheduleResponse) error {
	bw := bufio.NewWriter(w)
	writeSubmitted(bw, response.Details)
	writeLog(bw, response)
	writeGantt(bw, response.Segments)
	writeSchedule(bw, response)
	return bw.Flush()
}

func writeSubmitted(w io.Writer, details []responses.ProcessResponse) {
	_, _ = fmt.Fprintln(w, "Submitted processes:")
	for _, process := range details {
		_, _ = fmt.Fprintf(w, "%s: Arrival=%d, Burst=%d, Priority=%d\n",
			process.ProcessId, process.ArrivalTime, process.BurstTime, process.Priority)
	}
}

func writeLog(w io.Writer, response responses.ScheduleResponse) {
	_, _ = fmt.Fprintln(w, "\n=== Simulation Started ===")
	for _, event := range response.Events {
		if line := EventLine(event); line != "" {
			_, _ = fmt.Fprintln(w, line)
		}
	}
	_, _ = fmt.Fprintln(w, "\n=== Simulation Completed ===")
	_, _ = fmt.Fprintf(w, "\nAverage Turnaround Time: %.2f\n", response.AverageTurnAroundTime)
	_, _ = fmt.Fprintf(w, "Average Waiting Time: %.2f\n\n", response.AverageWaitingTime)
}

// EventLine formats one event the way the simulation log shows it.
func EventLine(event responses.EventResponse) string {
	switch core.EventKind(event.Kind) {
	case core.EventArrived:
		return fmt.Sprintf("Time %d: %s (%s) arrived and added to Q%d", event.Time, event.ProcessId, event.Detail, event.QueueLevel)
	case core.EventExecuted:
		return fmt.Sprintf("Time %d-%d: %s runs in Q%d (Remaining: %d)", event.Time, event.EndTime, event.ProcessId, event.QueueLevel, event.Remaining)
	case core.EventPromoted:
		return fmt.Sprintf("Time %d: %s promoted to Q%d", event.Time, event.ProcessId, event.QueueLevel)
	case core.EventCompleted:
		return fmt.Sprintf("Time %d: Process %s completed! %s", event.Time, event.ProcessId, event.Detail)
	}
	return ""
}

// SegmentLine formats one executed slice for paced playback.
func SegmentLine(segment core.Segment) string {
	return fmt.Sprintf("Time %d-%d: %s runs in Q%d", segment.StartTime, segment.EndTime, segment.PID, segment.QueueLevel)
}

func writeGantt(w io.Writer, segments []core.Segment) {
	_, _ = fmt.Fprintln(w, "Gantt schedule")
	if len(segments) == 0 {
		_, _ = fmt.Fprintf(w, "No data to plot.\n\n")
		return
	}
	var bar, levels, ticks strings.Builder
	bar.WriteString("|")
	levels.WriteString("|")
	previousEnd := -1
	for _, segment := range segments {
		if previousEnd >= 0 && segment.StartTime > previousEnd {
			writeCell(&bar, &levels, &ticks, "idle", "", previousEnd)
		}
		writeCell(&bar, &levels, &ticks, segment.PID, "Q"+strconv.Itoa(segment.QueueLevel), segment.StartTime)
		previousEnd = segment.EndTime
	}
	ticks.WriteString(strconv.Itoa(previousEnd))
	_, _ = fmt.Fprintln(w, bar.String())
	_, _ = fmt.Fprintln(w, levels.String())
	_, _ = fmt.Fprintf(w, "%s\n\n", ticks.String())
}

const cellWidth = 8

func writeCell(bar, levels, ticks *strings.Builder, label, level string, start int) {
	bar.WriteString(center(label))
	bar.WriteString("|")
	levels.WriteString(center(level))
	levels.WriteString("|")
	tick := strconv.Itoa(start)
	ticks.WriteString(tick)
	if pad := cellWidth + 1 - len(tick); pad > 0 {
		ticks.WriteString(strings.Repeat(" ", pad))
	}
}

// center pads or cuts label to cellWidth runes.
func center(label string) string {
	width := utf8.RuneCountInString(label)
	if width >= cellWidth {
		return string([]rune(label)[:cellWidth])
	}
	left := (cellWidth - width) / 2
	return strings.Repeat(" ", left) + label + strings.Repeat(" ", cellWidth-width-left)
}

func writeSchedule(w io.Writer, response responses.ScheduleResponse) {
	_, _ = fmt.Fprintln(w, "Schedule table")
	rows := make([][]string, len(response.Details))
	for i, process := range response.Details {
		rows[i] = []string{
			process.ProcessId,
			strconv.Itoa(process.Priority),
			strconv.Itoa(process.BurstTime),
			strconv.Itoa(process.ArrivalTime),
			strconv.Itoa(process.WaitingTime),
			strconv.Itoa(process.TurnAroundTime),
			strconv.Itoa(process.CompletionTime),
		}
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Priority", "Burst", "Arrival", "Wait", "Turnaround", "Exit"})
	table.AppendBulk(rows)
	table.SetFooter([]string{"", "", "", "",
		fmt.Sprintf("Average\n%.2f", response.AverageWaitingTime),
		fmt.Sprintf("Average\n%.2f", response.AverageTurnAroundTime),
		fmt.Sprintf("Throughput\n%.2f/t", response.CpuThroughput)})
	table.Render()
}

/*
Package notify reports the outcome of a run via console output and an
optional email digest.
*/
package notify

import (
	"fmt"

	"github.com/puntingio/racepost/internal/run"
)

// ReportRun prints a human-readable summary of one run to stdout.
func ReportRun(rep *run.Report, historyFilePath string) {
	fmt.Println("\n===========================================")
	fmt.Printf("RUN SUMMARY %s\n", rep.Date)
	fmt.Println("===========================================")
	fmt.Printf("Results fetched:    %d\n", rep.Fetched)
	fmt.Printf("Already posted:     %d\n", rep.AlreadyPosted)
	fmt.Printf("Published:          %d\n", len(rep.Published))
	fmt.Printf("Duplicates marked:  %d\n", rep.Duplicates)
	fmt.Printf("Errors:             %d\n", rep.Errors)

	for i, p := range rep.Published {
		fmt.Printf("\n--- POST #%d ---\n", i+1)
		fmt.Printf("Race:   %s\n", p.RaceID)
		fmt.Printf("Course: %s (%s)\n", p.Course, p.Off)
		fmt.Printf("Post:   %s\n", p.PostID)
	}

	if rep.Capped {
		fmt.Println("\nRun cap reached; remaining races will be picked up next run.")
	}
	if rep.RateLimitAbort {
		fmt.Println("\nRun aborted on a rate limit; remaining races will be picked up next run.")
	}

	fmt.Println("\n===========================================")
	fmt.Printf("Run complete. Posted ids saved to %s.\n", historyFilePath)
	fmt.Println("===========================================")
}
